package service

import (
	"context"
	"fmt"
	"time"

	"blendwms/internal/dto"
	"blendwms/internal/model"
	"blendwms/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransferenciaService mueve cantidad de un lote entre depósitos preservando
// la base de costo: una transferencia parcial reparte CantidadInicial en
// proporción; una transferencia total es un re-etiquetado (se lleva la base
// completa y el lote origen se elimina, no queda cáscara en cero).
type TransferenciaService interface {
	Transferir(ctx context.Context, usuarioID uuid.UUID, req dto.TransferenciaRequest) (*dto.TransferenciaResponse, error)
}

type transferenciaService struct {
	loteRepo      repository.LoteRepository
	depositoRepo  repository.DepositoRepository
	movRepo       repository.MovimientoStockRepository
	reconciliador ReconciliacionService
}

func NewTransferenciaService(
	loteRepo repository.LoteRepository,
	depositoRepo repository.DepositoRepository,
	movRepo repository.MovimientoStockRepository,
	reconciliador ReconciliacionService,
) TransferenciaService {
	return &transferenciaService{
		loteRepo:      loteRepo,
		depositoRepo:  depositoRepo,
		movRepo:       movRepo,
		reconciliador: reconciliador,
	}
}

func (s *transferenciaService) Transferir(ctx context.Context, usuarioID uuid.UUID, req dto.TransferenciaRequest) (*dto.TransferenciaResponse, error) {
	loteID, err := uuid.Parse(req.LoteID)
	if err != nil {
		return nil, fmt.Errorf("lote_id invalido: %w", err)
	}
	origenID, err := uuid.Parse(req.DepositoOrigenID)
	if err != nil {
		return nil, ErrDepositoRequerido
	}
	destinoID, err := uuid.Parse(req.DepositoDestinoID)
	if err != nil {
		return nil, ErrDepositoRequerido
	}
	if origenID == destinoID {
		return nil, fmt.Errorf("%w: origen y destino son el mismo deposito", ErrDepositoIncorrecto)
	}
	if !req.Cantidad.IsPositive() {
		return nil, ErrCantidadInvalida
	}
	if _, err := s.depositoRepo.FindByID(ctx, destinoID); err != nil {
		return nil, ErrNoEncontrado
	}

	var resp *dto.TransferenciaResponse
	err = conReintentos(maxIntentosMutacion, backoffMutacion, func() error {
		lote, err := s.loteRepo.FindByID(ctx, loteID)
		if err != nil {
			return ErrNoEncontrado
		}
		if lote.DepositoID != origenID {
			return ErrDepositoIncorrecto
		}
		if lote.Cantidad.LessThan(req.Cantidad) {
			return &LoteInsuficienteError{Faltante: req.Cantidad.Sub(lote.Cantidad)}
		}

		destino, err := s.buscarDestinoFusion(ctx, lote, destinoID)
		if err != nil {
			return err
		}

		completa := lote.Cantidad.Equal(req.Cantidad)

		// Parcial: la base de costo viaja en proporción a lo movido.
		// Completa: viaja entera — re-etiquetado, no split.
		deltaInicial := lote.CantidadInicial
		if !completa {
			proporcion := req.Cantidad.Div(lote.Cantidad)
			deltaInicial = lote.CantidadInicial.Mul(proporcion).Round(4)
		}

		var destinoFinalID uuid.UUID
		fusionado := destino != nil

		txErr := runTx(ctx, s.loteRepo.DB(), func(tx *gorm.DB) error {
			if completa {
				// El borrado es condicional a la cantidad leída: si otro
				// proceso descontó el lote entre la lectura y acá, un borrado
				// ciego haría desaparecer ese descuento.
				ok, err := s.loteRepo.DeleteSiCantidadTx(tx, lote.ID, lote.Cantidad)
				if err != nil {
					return err
				}
				if !ok {
					return errReintentar
				}
			} else {
				ok, err := s.loteRepo.AjustarConCostoTx(tx, lote.ID, req.Cantidad.Neg(), deltaInicial.Neg())
				if err != nil {
					return err
				}
				if !ok {
					// La cantidad cambió abajo nuestro: reintentar con el
					// lote fresco.
					return errReintentar
				}
			}

			if destino != nil {
				ok, err := s.loteRepo.AjustarConCostoTx(tx, destino.ID, req.Cantidad, deltaInicial)
				if err != nil {
					return err
				}
				if !ok {
					return errReintentar
				}
				destinoFinalID = destino.ID
			} else {
				nuevo := &model.Lote{
					ArticuloID:       lote.ArticuloID,
					DepositoID:       destinoID,
					NumeroLote:       lote.NumeroLote,
					Cantidad:         req.Cantidad,
					CantidadInicial:  deltaInicial,
					PrecioUnitario:   lote.PrecioUnitario,
					FechaVencimiento: lote.FechaVencimiento,
					FechaRecepcion:   lote.FechaRecepcion,
					OrigenTipo:       lote.OrigenTipo,
					OrigenRefID:      lote.OrigenRefID,
					CertificadoURL:   lote.CertificadoURL,
				}
				if err := s.loteRepo.CreateTx(tx, nuevo); err != nil {
					return err
				}
				destinoFinalID = nuevo.ID
			}

			// Una única entrada registra ambos depósitos.
			mov := &model.MovimientoStock{
				ArticuloID:        lote.ArticuloID,
				LoteID:            &lote.ID,
				Tipo:              model.MovTransferencia,
				Cantidad:          req.Cantidad,
				CantidadAnterior:  lote.Cantidad,
				DepositoID:        &origenID,
				DepositoDestinoID: &destinoID,
				Referencia:        fmt.Sprintf("Transferencia lote %s", lote.NumeroLote),
				UsuarioID:         usuarioID,
			}
			if err := s.movRepo.CreateTx(tx, mov); err != nil {
				return err
			}

			// El total entre depósitos se conserva, pero el recálculo sigue
			// siendo obligatorio como recuperación de drift.
			_, err = s.reconciliador.RecalcularTx(ctx, tx, lote.ArticuloID)
			return err
		})
		if txErr != nil {
			return txErr
		}

		resp = &dto.TransferenciaResponse{
			LoteDestinoID: destinoFinalID.String(),
			Fusionado:     fusionado,
			Eventos: []model.EventoStock{{
				Tipo:       model.EventoTransferencia,
				ArticuloID: lote.ArticuloID,
				LoteID:     &lote.ID,
				DepositoID: &destinoID,
				Cantidad:   req.Cantidad,
				Detalle:    fmt.Sprintf("desde deposito %s", origenID),
			}},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// buscarDestinoFusion busca en el depósito destino un lote equivalente:
// mismo artículo, mismo número de lote y mismo vencimiento (ambos ausentes o
// iguales). Si no hay, la transferencia crea un lote nuevo.
func (s *transferenciaService) buscarDestinoFusion(ctx context.Context, lote *model.Lote, destinoID uuid.UUID) (*model.Lote, error) {
	candidatos, err := s.loteRepo.FindPorNumero(ctx, lote.ArticuloID, destinoID, lote.NumeroLote)
	if err != nil {
		return nil, err
	}
	for i := range candidatos {
		c := &candidatos[i]
		if mismoVencimiento(lote.FechaVencimiento, c.FechaVencimiento) {
			return c, nil
		}
	}
	return nil, nil
}

func mismoVencimiento(a, b *time.Time) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.Equal(*b)
}
