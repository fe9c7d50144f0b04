package service

import (
	"context"
	"sort"

	"blendwms/internal/model"
	"blendwms/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PoliticaAsignacion define el criterio de selección de lotes.
type PoliticaAsignacion string

const (
	// PoliticaFEFO: primero los lotes con vencimiento más próximo; los lotes
	// sin vencimiento van después de todos los fechados.
	PoliticaFEFO PoliticaAsignacion = "fefo"
	// PoliticaFIFO: por fecha de recepción ascendente.
	PoliticaFIFO PoliticaAsignacion = "fifo"
)

// AsignacionLote es una porción de la cantidad pedida tomada de un lote.
type AsignacionLote struct {
	LoteID   uuid.UUID       `json:"lote_id"`
	Cantidad decimal.Decimal `json:"cantidad"`
}

// AsignacionRequest describe un pedido de asignación.
type AsignacionRequest struct {
	ArticuloID uuid.UUID
	// DepositoID nil considera lotes de todos los depósitos.
	DepositoID *uuid.UUID
	Cantidad   decimal.Decimal
	Politica   PoliticaAsignacion
	// LoteFijoID fuerza la asignación a un único lote.
	LoteFijoID *uuid.UUID
	// OrdenTrabajoID excluye del descuento las reservas propias de la orden,
	// para que re-asignar para la misma orden sea idempotente.
	OrdenTrabajoID *uuid.UUID
}

// AsignacionService selecciona qué lotes satisfacen un pedido de cantidad,
// respetando las reservas activas de otras órdenes. Es de sólo lectura: la
// decisión es atómica (todas las asignaciones o ninguna) y no compromete
// nada por sí misma.
type AsignacionService interface {
	Asignar(ctx context.Context, req AsignacionRequest) ([]AsignacionLote, error)
}

type asignacionService struct {
	loteRepo    repository.LoteRepository
	reservaRepo repository.ReservaRepository
}

func NewAsignacionService(loteRepo repository.LoteRepository, reservaRepo repository.ReservaRepository) AsignacionService {
	return &asignacionService{loteRepo: loteRepo, reservaRepo: reservaRepo}
}

func (s *asignacionService) Asignar(ctx context.Context, req AsignacionRequest) ([]AsignacionLote, error) {
	if !req.Cantidad.IsPositive() {
		return nil, ErrCantidadInvalida
	}

	reservadoPorLote, err := s.reservadoPorLote(ctx, req.ArticuloID, req.OrdenTrabajoID)
	if err != nil {
		return nil, err
	}

	if req.LoteFijoID != nil {
		return s.asignarLoteFijo(ctx, req, reservadoPorLote)
	}

	lotes, err := s.loteRepo.FindByArticulo(ctx, req.ArticuloID, req.DepositoID)
	if err != nil {
		return nil, err
	}

	candidatos := make([]model.Lote, 0, len(lotes))
	for _, l := range lotes {
		if l.Cantidad.IsPositive() {
			candidatos = append(candidatos, l)
		}
	}
	ordenarPorPolitica(candidatos, req.Politica)

	// Consumo greedy de lo efectivamente disponible de cada candidato en
	// orden, hasta cubrir el pedido o agotar candidatos.
	restante := req.Cantidad
	asignaciones := make([]AsignacionLote, 0, 2)
	for _, l := range candidatos {
		disponible := l.Cantidad.Sub(reservadoPorLote[l.ID])
		if !disponible.IsPositive() {
			continue
		}
		tomar := decimal.Min(disponible, restante)
		asignaciones = append(asignaciones, AsignacionLote{LoteID: l.ID, Cantidad: tomar})
		restante = restante.Sub(tomar)
		if restante.IsZero() {
			return asignaciones, nil
		}
	}

	return nil, &StockInsuficienteError{Faltante: restante}
}

func (s *asignacionService) asignarLoteFijo(ctx context.Context, req AsignacionRequest, reservadoPorLote map[uuid.UUID]decimal.Decimal) ([]AsignacionLote, error) {
	lote, err := s.loteRepo.FindByID(ctx, *req.LoteFijoID)
	if err != nil {
		return nil, ErrNoEncontrado
	}
	if lote.ArticuloID != req.ArticuloID {
		return nil, ErrNoEncontrado
	}
	if req.DepositoID != nil && lote.DepositoID != *req.DepositoID {
		return nil, ErrDepositoIncorrecto
	}

	disponible := lote.Cantidad.Sub(reservadoPorLote[lote.ID])
	if disponible.LessThan(req.Cantidad) {
		return nil, &LoteInsuficienteError{Faltante: req.Cantidad.Sub(disponible)}
	}
	return []AsignacionLote{{LoteID: lote.ID, Cantidad: req.Cantidad}}, nil
}

// reservadoPorLote suma las reservas activas por lote, excluyendo las de la
// orden pedida (si hay) para que re-asignar para la misma orden no se cuente
// a sí misma.
func (s *asignacionService) reservadoPorLote(ctx context.Context, articuloID uuid.UUID, ordenTrabajoID *uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	reservas, err := s.reservaRepo.FindActivasPorArticulo(ctx, articuloID)
	if err != nil {
		return nil, err
	}
	porLote := make(map[uuid.UUID]decimal.Decimal, len(reservas))
	for _, r := range reservas {
		if ordenTrabajoID != nil && r.OrdenTrabajoID == *ordenTrabajoID {
			continue
		}
		porLote[r.LoteID] = porLote[r.LoteID].Add(r.Cantidad)
	}
	return porLote, nil
}

// ordenarPorPolitica ordena los candidatos in place.
//
// FEFO: vencimiento real ascendente, empate por recepción ascendente; los
// lotes sin vencimiento van después de todos los fechados, entre sí por
// recepción. FIFO: recepción ascendente.
func ordenarPorPolitica(lotes []model.Lote, politica PoliticaAsignacion) {
	switch politica {
	case PoliticaFEFO:
		sort.SliceStable(lotes, func(i, j int) bool {
			a, b := lotes[i], lotes[j]
			switch {
			case a.TieneVencimiento() && !b.TieneVencimiento():
				return true
			case !a.TieneVencimiento() && b.TieneVencimiento():
				return false
			case a.TieneVencimiento() && b.TieneVencimiento():
				if !a.FechaVencimiento.Equal(*b.FechaVencimiento) {
					return a.FechaVencimiento.Before(*b.FechaVencimiento)
				}
			}
			return a.FechaRecepcion.Before(b.FechaRecepcion)
		})
	default: // FIFO
		sort.SliceStable(lotes, func(i, j int) bool {
			return lotes[i].FechaRecepcion.Before(lotes[j].FechaRecepcion)
		})
	}
}
