package service

import (
	"context"

	"blendwms/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReconciliacionService recalcula la cantidad total de un artículo como la
// suma de sus lotes en todos los depósitos. Es idempotente y barato: se
// invoca defensivamente como último paso de toda operación mutante, y es el
// mecanismo de auto-curación del sistema ante fallas parciales.
//
// El vencimiento de un lote nunca afecta el total en existencia — sólo la
// elegibilidad de asignación — así que acá se suma todo, vencido o no.
type ReconciliacionService interface {
	Recalcular(ctx context.Context, articuloID uuid.UUID) (decimal.Decimal, error)
	RecalcularTx(ctx context.Context, tx *gorm.DB, articuloID uuid.UUID) (decimal.Decimal, error)
	RecalcularTodos(ctx context.Context) (int, error)
}

type reconciliacionService struct {
	articuloRepo repository.ArticuloRepository
	loteRepo     repository.LoteRepository
}

func NewReconciliacionService(articuloRepo repository.ArticuloRepository, loteRepo repository.LoteRepository) ReconciliacionService {
	return &reconciliacionService{articuloRepo: articuloRepo, loteRepo: loteRepo}
}

func (s *reconciliacionService) Recalcular(ctx context.Context, articuloID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := runTx(ctx, s.articuloRepo.DB(), func(tx *gorm.DB) error {
		var err error
		total, err = s.RecalcularTx(ctx, tx, articuloID)
		return err
	})
	return total, err
}

func (s *reconciliacionService) RecalcularTx(ctx context.Context, tx *gorm.DB, articuloID uuid.UUID) (decimal.Decimal, error) {
	// Las lecturas van por la misma transacción: el recalculo corre como
	// último paso de las mutaciones y debe ver los lotes tal como quedaron
	// dentro de esa transacción, no el estado confirmado previo.
	articulo, err := s.articuloRepo.FindByIDTx(tx, articuloID)
	if err != nil {
		return decimal.Zero, ErrNoEncontrado
	}

	lotes, err := s.loteRepo.FindByArticuloTx(tx, articuloID, nil)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, l := range lotes {
		total = total.Add(l.Cantidad)
	}

	// El drift no es un error: se corrige y se deja rastro en el log.
	if !articulo.Cantidad.Equal(total) {
		log.Warn().
			Str("articulo_id", articuloID.String()).
			Str("cantidad_registrada", articulo.Cantidad.String()).
			Str("cantidad_real", total.String()).
			Msg("reconciliacion: drift corregido")
	}

	if err := s.articuloRepo.SetCantidadTx(tx, articuloID, total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// RecalcularTodos barre todos los artículos — lo usa el cron de
// reconciliación. Devuelve cuántos artículos se procesaron.
func (s *reconciliacionService) RecalcularTodos(ctx context.Context) (int, error) {
	ids, err := s.articuloRepo.ListIDs(ctx)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		if _, err := s.Recalcular(ctx, id); err != nil {
			log.Error().Err(err).Str("articulo_id", id.String()).Msg("reconciliacion: fallo el recalculo")
		}
	}
	return len(ids), nil
}
