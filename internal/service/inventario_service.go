package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"blendwms/internal/dto"
	"blendwms/internal/model"
	"blendwms/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	// maxIntentosMutacion acota los reintentos ante carreras entre
	// asignación y descuento — superado el límite aflora
	// ErrConflictoConcurrencia.
	maxIntentosMutacion = 4
	backoffMutacion     = 25 * time.Millisecond
)

// InventarioService concentra las operaciones de stock del almacén:
// recepciones, salidas, reservas contra órdenes de trabajo y mantenimiento
// de lotes. Toda operación mutante escribe su entrada de auditoría en el
// mismo paso atómico y cierra invocando el reconciliador.
type InventarioService interface {
	RegistrarRecepcion(ctx context.Context, usuarioID uuid.UUID, req dto.RecepcionRequest) (*dto.RecepcionResponse, error)
	RegistrarSalida(ctx context.Context, usuarioID uuid.UUID, req dto.SalidaRequest) (*dto.SalidaResponse, error)
	Reservar(ctx context.Context, usuarioID uuid.UUID, req dto.ReservaRequest) (*dto.ReservaResponse, error)
	CancelarReserva(ctx context.Context, usuarioID uuid.UUID, req dto.CancelarReservaRequest) (*dto.CancelarReservaResponse, error)

	AjustarLote(ctx context.Context, usuarioID, loteID uuid.UUID, req dto.AjusteLoteRequest) (*dto.LoteResponse, []model.EventoStock, error)
	EliminarLote(ctx context.Context, usuarioID, loteID uuid.UUID) ([]model.EventoStock, error)
	ListarLotes(ctx context.Context, articuloID uuid.UUID, depositoID *uuid.UUID) ([]dto.LoteResponse, error)
	ListarMovimientos(ctx context.Context, articuloID uuid.UUID, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error)
}

type inventarioService struct {
	articuloRepo  repository.ArticuloRepository
	loteRepo      repository.LoteRepository
	reservaRepo   repository.ReservaRepository
	movRepo       repository.MovimientoStockRepository
	depositoRepo  repository.DepositoRepository
	asignador     AsignacionService
	reconciliador ReconciliacionService
}

func NewInventarioService(
	articuloRepo repository.ArticuloRepository,
	loteRepo repository.LoteRepository,
	reservaRepo repository.ReservaRepository,
	movRepo repository.MovimientoStockRepository,
	depositoRepo repository.DepositoRepository,
	asignador AsignacionService,
	reconciliador ReconciliacionService,
) InventarioService {
	return &inventarioService{
		articuloRepo:  articuloRepo,
		loteRepo:      loteRepo,
		reservaRepo:   reservaRepo,
		movRepo:       movRepo,
		depositoRepo:  depositoRepo,
		asignador:     asignador,
		reconciliador: reconciliador,
	}
}

// ── Recepción ────────────────────────────────────────────────────────────────

func (s *inventarioService) RegistrarRecepcion(ctx context.Context, usuarioID uuid.UUID, req dto.RecepcionRequest) (*dto.RecepcionResponse, error) {
	articuloID, err := uuid.Parse(req.ArticuloID)
	if err != nil {
		return nil, fmt.Errorf("articulo_id invalido: %w", err)
	}
	if strings.TrimSpace(req.DepositoID) == "" {
		return nil, ErrDepositoRequerido
	}
	depositoID, err := uuid.Parse(req.DepositoID)
	if err != nil {
		return nil, ErrDepositoRequerido
	}
	if !req.Cantidad.IsPositive() {
		return nil, ErrCantidadInvalida
	}
	if _, err := s.articuloRepo.FindByID(ctx, articuloID); err != nil {
		return nil, ErrNoEncontrado
	}
	if _, err := s.depositoRepo.FindByID(ctx, depositoID); err != nil {
		return nil, ErrNoEncontrado
	}

	vencimiento := normalizarVencimiento(req.FechaVencimiento)

	// Se reutiliza un lote existente sólo si el llamador trae número de lote
	// y coincide en depósito y vencimiento: el mismo número con otro
	// vencimiento es otro lote físico y se asienta aparte.
	var existente *model.Lote
	if req.NumeroLote != "" {
		candidatos, err := s.loteRepo.FindPorNumero(ctx, articuloID, depositoID, req.NumeroLote)
		if err == nil {
			for i := range candidatos {
				if mismoVencimiento(vencimiento, candidatos[i].FechaVencimiento) {
					existente = &candidatos[i]
					break
				}
			}
		}
	}

	var lote *model.Lote
	var eventos []model.EventoStock

	txErr := runTx(ctx, s.articuloRepo.DB(), func(tx *gorm.DB) error {
		anterior := decimal.Zero
		if existente != nil {
			anterior = existente.Cantidad
			ok, err := s.loteRepo.AjustarConCostoTx(tx, existente.ID, req.Cantidad, req.Cantidad)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("recepcion: no se pudo incrementar el lote %s", existente.ID)
			}
			refrescado, err := s.loteRepo.FindByIDTx(tx, existente.ID)
			if err != nil {
				return err
			}
			lote = refrescado
		} else {
			numero := req.NumeroLote
			if numero == "" {
				numero = generarNumeroLote()
			}
			nuevo := &model.Lote{
				ArticuloID:       articuloID,
				DepositoID:       depositoID,
				NumeroLote:       numero,
				Cantidad:         req.Cantidad,
				CantidadInicial:  req.Cantidad,
				PrecioUnitario:   req.PrecioUnitario,
				FechaVencimiento: vencimiento,
				FechaRecepcion:   time.Now(),
				OrigenTipo:       origenODefault(req.OrigenTipo),
				OrigenRefID:      parseUUIDPtr(req.OrigenRefID),
				CertificadoURL:   req.CertificadoURL,
			}
			if err := s.loteRepo.CreateTx(tx, nuevo); err != nil {
				return err
			}
			lote = nuevo
		}

		mov := &model.MovimientoStock{
			ArticuloID:       articuloID,
			LoteID:           &lote.ID,
			Tipo:             model.MovRecepcion,
			Cantidad:         req.Cantidad,
			CantidadAnterior: anterior,
			DepositoID:       &depositoID,
			Referencia:       fmt.Sprintf("Recepcion lote %s", lote.NumeroLote),
			OrigenTipo:       origenODefault(req.OrigenTipo),
			OrigenRefID:      parseUUIDPtr(req.OrigenRefID),
			UsuarioID:        usuarioID,
		}
		if err := s.movRepo.CreateTx(tx, mov); err != nil {
			return err
		}

		if _, err := s.reconciliador.RecalcularTx(ctx, tx, articuloID); err != nil {
			return err
		}

		eventos = append(eventos, model.EventoStock{
			Tipo:       model.EventoRecepcion,
			ArticuloID: articuloID,
			LoteID:     &lote.ID,
			DepositoID: &depositoID,
			Cantidad:   req.Cantidad,
		})
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.RecepcionResponse{Lote: loteToResponse(lote), Eventos: eventos}, nil
}

// ── Salida ───────────────────────────────────────────────────────────────────

// RegistrarSalida consume stock físico. Asigna vía el motor de asignación —
// independiente de reservas preexistentes: las reservas sólo acotan
// disponibilidad, no pre-comprometen el descuento físico — descuenta cada
// lote seleccionado y registra una entrada de salida por lote tocado.
func (s *inventarioService) RegistrarSalida(ctx context.Context, usuarioID uuid.UUID, req dto.SalidaRequest) (*dto.SalidaResponse, error) {
	articuloID, err := uuid.Parse(req.ArticuloID)
	if err != nil {
		return nil, fmt.Errorf("articulo_id invalido: %w", err)
	}
	depositoID, err := uuid.Parse(req.DepositoID)
	if err != nil {
		return nil, ErrDepositoRequerido
	}
	if !req.Cantidad.IsPositive() {
		return nil, ErrCantidadInvalida
	}

	asigReq := AsignacionRequest{
		ArticuloID: articuloID,
		DepositoID: &depositoID,
		Cantidad:   req.Cantidad,
		Politica:   politicaODefault(req.Politica),
		LoteFijoID: parseUUIDPtr(req.LoteFijoID),
	}

	var resp *dto.SalidaResponse
	err = conReintentos(maxIntentosMutacion, backoffMutacion, func() error {
		asignaciones, err := s.asignador.Asignar(ctx, asigReq)
		if err != nil {
			return err
		}

		var items []dto.AsignacionItem
		var eventos []model.EventoStock

		txErr := runTx(ctx, s.loteRepo.DB(), func(tx *gorm.DB) error {
			// Descuento lote por lote con compensación: si un descuento
			// falla después de otros aplicados, se revierten los ya hechos
			// antes de devolver — nunca se reporta "sin stock" habiendo
			// consumido una parte en silencio.
			aplicados := make([]AsignacionLote, 0, len(asignaciones))
			for _, a := range asignaciones {
				antes, err := s.loteRepo.FindByIDTx(tx, a.LoteID)
				if err != nil {
					s.compensarDescuentos(ctx, tx, aplicados)
					return errReintentar
				}
				ok, err := s.loteRepo.AjustarCantidadTx(tx, a.LoteID, a.Cantidad.Neg())
				if err != nil {
					s.compensarDescuentos(ctx, tx, aplicados)
					return err
				}
				if !ok {
					// Otro consumidor ganó la carrera: la asignación quedó
					// vieja. Compensar y re-asignar.
					s.compensarDescuentos(ctx, tx, aplicados)
					return errReintentar
				}
				aplicados = append(aplicados, a)

				mov := &model.MovimientoStock{
					ArticuloID:       articuloID,
					LoteID:           &a.LoteID,
					Tipo:             model.MovSalida,
					Cantidad:         a.Cantidad.Neg(),
					CantidadAnterior: antes.Cantidad,
					DepositoID:       &depositoID,
					Referencia:       req.Referencia,
					UsuarioID:        usuarioID,
				}
				if err := s.movRepo.CreateTx(tx, mov); err != nil {
					return err
				}
				items = append(items, dto.AsignacionItem{
					LoteID:     a.LoteID.String(),
					NumeroLote: antes.NumeroLote,
					Cantidad:   a.Cantidad,
				})
				eventos = append(eventos, model.EventoStock{
					Tipo:       model.EventoSalida,
					ArticuloID: articuloID,
					LoteID:     &a.LoteID,
					DepositoID: &depositoID,
					Cantidad:   a.Cantidad,
				})
			}

			_, err := s.reconciliador.RecalcularTx(ctx, tx, articuloID)
			return err
		})
		if txErr != nil {
			return txErr
		}

		resp = &dto.SalidaResponse{Asignaciones: items, Eventos: eventos}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// compensarDescuentos revierte descuentos ya aplicados dentro de un intento
// fallido. En modo transaccional el rollback lo haría igual; con un store por
// documento (o stubs de test) la compensación es la única vuelta atrás.
func (s *inventarioService) compensarDescuentos(ctx context.Context, tx *gorm.DB, aplicados []AsignacionLote) {
	for _, a := range aplicados {
		if _, err := s.loteRepo.AjustarCantidadTx(tx, a.LoteID, a.Cantidad); err != nil {
			log.Error().Err(err).Str("lote_id", a.LoteID.String()).
				Msg("salida: fallo la compensacion de un descuento")
		}
	}
}

// ── Reserva ──────────────────────────────────────────────────────────────────

func (s *inventarioService) Reservar(ctx context.Context, usuarioID uuid.UUID, req dto.ReservaRequest) (*dto.ReservaResponse, error) {
	articuloID, err := uuid.Parse(req.ArticuloID)
	if err != nil {
		return nil, fmt.Errorf("articulo_id invalido: %w", err)
	}
	ordenID, err := uuid.Parse(req.OrdenTrabajoID)
	if err != nil {
		return nil, fmt.Errorf("orden_trabajo_id invalido: %w", err)
	}
	if !req.Cantidad.IsPositive() {
		return nil, ErrCantidadInvalida
	}

	// Idempotencia: si la orden ya tiene reservado lo pedido, no se duplica
	// — se devuelve la asignación existente.
	existentes, err := s.reservaRepo.FindActivasPorOrden(ctx, ordenID, articuloID)
	if err != nil {
		return nil, err
	}
	yaReservado := decimal.Zero
	for _, r := range existentes {
		yaReservado = yaReservado.Add(r.Cantidad)
	}
	if yaReservado.GreaterThanOrEqual(req.Cantidad) {
		items := make([]dto.AsignacionItem, 0, len(existentes))
		for _, r := range existentes {
			items = append(items, dto.AsignacionItem{LoteID: r.LoteID.String(), Cantidad: r.Cantidad})
		}
		return &dto.ReservaResponse{LotesReservados: items, YaReservado: true}, nil
	}

	asigReq := AsignacionRequest{
		ArticuloID:     articuloID,
		DepositoID:     parseUUIDPtr(req.DepositoID),
		Cantidad:       req.Cantidad,
		Politica:       politicaODefault(req.Politica),
		LoteFijoID:     parseUUIDPtr(req.LoteFijoID),
		OrdenTrabajoID: &ordenID,
	}

	var resp *dto.ReservaResponse
	err = conReintentos(maxIntentosMutacion, backoffMutacion, func() error {
		asignaciones, err := s.asignador.Asignar(ctx, asigReq)
		if err != nil {
			return err
		}

		var items []dto.AsignacionItem
		var eventos []model.EventoStock

		txErr := runTx(ctx, s.articuloRepo.DB(), func(tx *gorm.DB) error {
			// Una ampliación reemplaza las filas previas de la orden por la
			// asignación completa: apilar filas nuevas sobre las viejas
			// contaría la misma orden dos veces contra cada lote.
			previas, err := s.reservaRepo.FindActivasPorOrdenTx(tx, ordenID, articuloID)
			if err != nil {
				return err
			}
			var reservadaAntes decimal.Decimal
			liberado := decimal.Zero
			if len(previas) > 0 {
				articulo, err := s.articuloRepo.FindByIDTx(tx, articuloID)
				if err != nil {
					return err
				}
				reservadaAntes = articulo.CantidadReservada
				for i := range previas {
					if err := s.reservaRepo.MarcarEstadoTx(tx, previas[i].ID, model.ReservaCancelada); err != nil {
						return err
					}
					liberado = liberado.Add(previas[i].Cantidad)
				}
			}

			creadas := make([]*model.Reserva, 0, len(asignaciones))
			for _, a := range asignaciones {
				r := &model.Reserva{
					ArticuloID:     articuloID,
					LoteID:         a.LoteID,
					OrdenTrabajoID: ordenID,
					Cantidad:       a.Cantidad,
					Estado:         model.ReservaActiva,
				}
				if err := s.reservaRepo.CreateTx(tx, r); err != nil {
					s.deshacerReservas(tx, creadas, previas)
					return err
				}
				creadas = append(creadas, r)
			}

			// Verificación contra sobre-reserva: si entre la asignación y
			// acá otra orden comprometió los mismos lotes, se deshace lo
			// propio y se reintenta con la realidad fresca. Las lecturas van
			// por la transacción para ver las filas recién insertadas.
			for _, a := range asignaciones {
				lote, err := s.loteRepo.FindByIDTx(tx, a.LoteID)
				if err != nil {
					s.deshacerReservas(tx, creadas, previas)
					return errReintentar
				}
				reservasLote, err := s.reservaRepo.FindActivasPorLoteTx(tx, a.LoteID)
				if err != nil {
					s.deshacerReservas(tx, creadas, previas)
					return err
				}
				comprometido := decimal.Zero
				for _, r := range reservasLote {
					comprometido = comprometido.Add(r.Cantidad)
				}
				if comprometido.GreaterThan(lote.Cantidad) {
					s.deshacerReservas(tx, creadas, previas)
					return errReintentar
				}
			}

			// Recién acá se asienta el libro y el contador del artículo:
			// ninguna reserva fallida deja rastro.
			for i := range previas {
				r := &previas[i]
				mov := &model.MovimientoStock{
					ArticuloID:       articuloID,
					LoteID:           &r.LoteID,
					Tipo:             model.MovLiberacion,
					Cantidad:         r.Cantidad,
					CantidadAnterior: reservadaAntes,
					Referencia:       fmt.Sprintf("Reserva ampliada orden %s", ordenID),
					UsuarioID:        usuarioID,
				}
				if err := s.movRepo.CreateTx(tx, mov); err != nil {
					return err
				}
				loteID := r.LoteID
				eventos = append(eventos, model.EventoStock{
					Tipo:           model.EventoLiberacion,
					ArticuloID:     articuloID,
					LoteID:         &loteID,
					OrdenTrabajoID: &ordenID,
					Cantidad:       r.Cantidad,
				})
			}

			total := decimal.Zero
			for i, r := range creadas {
				lote, err := s.loteRepo.FindByIDTx(tx, r.LoteID)
				if err != nil {
					return err
				}
				mov := &model.MovimientoStock{
					ArticuloID:       articuloID,
					LoteID:           &creadas[i].LoteID,
					Tipo:             model.MovReserva,
					Cantidad:         r.Cantidad,
					CantidadAnterior: lote.Cantidad,
					DepositoID:       &lote.DepositoID,
					Referencia:       fmt.Sprintf("Reserva orden %s", ordenID),
					UsuarioID:        usuarioID,
				}
				if err := s.movRepo.CreateTx(tx, mov); err != nil {
					return err
				}
				total = total.Add(r.Cantidad)

				items = append(items, dto.AsignacionItem{
					LoteID:     r.LoteID.String(),
					NumeroLote: lote.NumeroLote,
					Cantidad:   r.Cantidad,
				})
				loteID := r.LoteID
				eventos = append(eventos, model.EventoStock{
					Tipo:           model.EventoReserva,
					ArticuloID:     articuloID,
					LoteID:         &loteID,
					OrdenTrabajoID: &ordenID,
					Cantidad:       r.Cantidad,
				})
			}

			_, err = s.articuloRepo.AjustarReservadaTx(tx, articuloID, total.Sub(liberado))
			return err
		})
		if txErr != nil {
			return txErr
		}

		resp = &dto.ReservaResponse{LotesReservados: items, Eventos: eventos}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// deshacerReservas revierte un intento fallido: borra las filas creadas en el
// intento y reactiva las filas previas de la orden que se habían cancelado
// para el reemplazo.
func (s *inventarioService) deshacerReservas(tx *gorm.DB, creadas []*model.Reserva, previas []model.Reserva) {
	for _, r := range creadas {
		if err := s.reservaRepo.DeleteTx(tx, r.ID); err != nil {
			log.Error().Err(err).Str("reserva_id", r.ID.String()).
				Msg("reserva: fallo el deshacer de una reserva propia")
		}
	}
	for i := range previas {
		if err := s.reservaRepo.MarcarEstadoTx(tx, previas[i].ID, model.ReservaActiva); err != nil {
			log.Error().Err(err).Str("reserva_id", previas[i].ID.String()).
				Msg("reserva: fallo la reactivacion de una reserva previa")
		}
	}
}

// CancelarReserva es siempre total para el par (orden, articulo): no existe
// cancelación parcial porque el consumo físico se registra por separado vía
// salidas. Es además el camino de recuperación ante drift del contador
// reservado: el decremento clampéa en cero y deja constancia en el log.
func (s *inventarioService) CancelarReserva(ctx context.Context, usuarioID uuid.UUID, req dto.CancelarReservaRequest) (*dto.CancelarReservaResponse, error) {
	articuloID, err := uuid.Parse(req.ArticuloID)
	if err != nil {
		return nil, fmt.Errorf("articulo_id invalido: %w", err)
	}
	ordenID, err := uuid.Parse(req.OrdenTrabajoID)
	if err != nil {
		return nil, fmt.Errorf("orden_trabajo_id invalido: %w", err)
	}

	reservas, err := s.reservaRepo.FindActivasPorOrden(ctx, ordenID, articuloID)
	if err != nil {
		return nil, err
	}
	if len(reservas) == 0 {
		return &dto.CancelarReservaResponse{CantidadLiberada: decimal.Zero}, nil
	}

	articuloAntes, err := s.articuloRepo.FindByID(ctx, articuloID)
	if err != nil {
		return nil, ErrNoEncontrado
	}

	var eventos []model.EventoStock
	total := decimal.Zero

	txErr := runTx(ctx, s.articuloRepo.DB(), func(tx *gorm.DB) error {
		for i := range reservas {
			r := &reservas[i]
			if err := s.reservaRepo.MarcarEstadoTx(tx, r.ID, model.ReservaCancelada); err != nil {
				return err
			}
			mov := &model.MovimientoStock{
				ArticuloID:       articuloID,
				LoteID:           &r.LoteID,
				Tipo:             model.MovLiberacion,
				Cantidad:         r.Cantidad,
				CantidadAnterior: articuloAntes.CantidadReservada,
				Referencia:       fmt.Sprintf("Liberacion orden %s", ordenID),
				UsuarioID:        usuarioID,
			}
			if err := s.movRepo.CreateTx(tx, mov); err != nil {
				return err
			}
			total = total.Add(r.Cantidad)

			loteID := r.LoteID
			eventos = append(eventos, model.EventoStock{
				Tipo:           model.EventoLiberacion,
				ArticuloID:     articuloID,
				LoteID:         &loteID,
				OrdenTrabajoID: &ordenID,
				Cantidad:       r.Cantidad,
			})
		}

		nueva, err := s.articuloRepo.AjustarReservadaTx(tx, articuloID, total.Neg())
		if err != nil {
			return err
		}
		if articuloAntes.CantidadReservada.LessThan(total) {
			log.Warn().
				Str("articulo_id", articuloID.String()).
				Str("reservada_antes", articuloAntes.CantidadReservada.String()).
				Str("liberado", total.String()).
				Str("reservada_despues", nueva.String()).
				Msg("cancelacion: contador reservado clampeado en cero por drift")
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.CancelarReservaResponse{
		CantidadLiberada:   total,
		ReservasCanceladas: len(reservas),
		Eventos:            eventos,
	}, nil
}

// ── Lotes ────────────────────────────────────────────────────────────────────

// AjustarLote aplica un ajuste manual de operador sobre un lote. El delta es
// firmado; un resultado negativo no se aplica.
func (s *inventarioService) AjustarLote(ctx context.Context, usuarioID, loteID uuid.UUID, req dto.AjusteLoteRequest) (*dto.LoteResponse, []model.EventoStock, error) {
	if req.Delta.IsZero() {
		return nil, nil, ErrCantidadInvalida
	}
	lote, err := s.loteRepo.FindByID(ctx, loteID)
	if err != nil {
		return nil, nil, ErrNoEncontrado
	}

	var eventos []model.EventoStock
	txErr := runTx(ctx, s.loteRepo.DB(), func(tx *gorm.DB) error {
		ok, err := s.loteRepo.AjustarCantidadTx(tx, loteID, req.Delta)
		if err != nil {
			return err
		}
		if !ok {
			return ErrCantidadInvalida
		}

		mov := &model.MovimientoStock{
			ArticuloID:       lote.ArticuloID,
			LoteID:           &loteID,
			Tipo:             model.MovAjuste,
			Cantidad:         req.Delta,
			CantidadAnterior: lote.Cantidad,
			DepositoID:       &lote.DepositoID,
			Referencia:       req.Motivo,
			UsuarioID:        usuarioID,
		}
		if err := s.movRepo.CreateTx(tx, mov); err != nil {
			return err
		}

		if _, err := s.reconciliador.RecalcularTx(ctx, tx, lote.ArticuloID); err != nil {
			return err
		}
		eventos = append(eventos, model.EventoStock{
			Tipo:       model.EventoAjuste,
			ArticuloID: lote.ArticuloID,
			LoteID:     &loteID,
			DepositoID: &lote.DepositoID,
			Cantidad:   req.Delta,
			Detalle:    req.Motivo,
		})
		return nil
	})
	if txErr != nil {
		return nil, nil, txErr
	}

	actualizado, err := s.loteRepo.FindByID(ctx, loteID)
	if err != nil {
		return nil, nil, err
	}
	resp := loteToResponse(actualizado)
	return &resp, eventos, nil
}

// EliminarLote da de baja un lote de forma explícita. Se bloquea mientras
// haya reservas activas que lo referencien.
func (s *inventarioService) EliminarLote(ctx context.Context, usuarioID, loteID uuid.UUID) ([]model.EventoStock, error) {
	lote, err := s.loteRepo.FindByID(ctx, loteID)
	if err != nil {
		return nil, ErrNoEncontrado
	}
	activas, err := s.reservaRepo.FindActivasPorLote(ctx, loteID)
	if err != nil {
		return nil, err
	}
	if len(activas) > 0 {
		return nil, ErrLoteEnUso
	}

	var eventos []model.EventoStock
	txErr := runTx(ctx, s.loteRepo.DB(), func(tx *gorm.DB) error {
		if err := s.loteRepo.DeleteTx(tx, loteID); err != nil {
			return err
		}
		mov := &model.MovimientoStock{
			ArticuloID:       lote.ArticuloID,
			LoteID:           &loteID,
			Tipo:             model.MovBajaLote,
			Cantidad:         lote.Cantidad.Neg(),
			CantidadAnterior: lote.Cantidad,
			DepositoID:       &lote.DepositoID,
			Referencia:       fmt.Sprintf("Baja de lote %s", lote.NumeroLote),
			UsuarioID:        usuarioID,
		}
		if err := s.movRepo.CreateTx(tx, mov); err != nil {
			return err
		}
		if _, err := s.reconciliador.RecalcularTx(ctx, tx, lote.ArticuloID); err != nil {
			return err
		}
		eventos = append(eventos, model.EventoStock{
			Tipo:       model.EventoBajaLote,
			ArticuloID: lote.ArticuloID,
			LoteID:     &loteID,
			DepositoID: &lote.DepositoID,
			Cantidad:   lote.Cantidad,
		})
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return eventos, nil
}

func (s *inventarioService) ListarLotes(ctx context.Context, articuloID uuid.UUID, depositoID *uuid.UUID) ([]dto.LoteResponse, error) {
	lotes, err := s.loteRepo.FindByArticulo(ctx, articuloID, depositoID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LoteResponse, 0, len(lotes))
	for i := range lotes {
		out = append(out, loteToResponse(&lotes[i]))
	}
	return out, nil
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, articuloID uuid.UUID, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 50
	}
	movs, total, err := s.movRepo.ListByArticulo(ctx, articuloID, repository.MovimientoStockFilter{
		Tipo: filter.Tipo, Page: page, Limit: limit,
	})
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovimientoResponse, 0, len(movs))
	for i := range movs {
		data = append(data, movimientoToResponse(&movs[i]))
	}
	return &dto.MovimientoListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// normalizarVencimiento convierte la fecha centinela heredada (año <= 1970 =
// "sin vencimiento") en nil. Ausencia estructural, no comparación mágica.
func normalizarVencimiento(fecha *time.Time) *time.Time {
	if fecha == nil || fecha.Year() <= 1970 {
		return nil
	}
	return fecha
}

func generarNumeroLote() string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("L-%s-%s", time.Now().Format("20060102"), suffix)
}

func politicaODefault(p string) PoliticaAsignacion {
	if p == string(PoliticaFIFO) {
		return PoliticaFIFO
	}
	return PoliticaFEFO
}

func origenODefault(o string) string {
	switch o {
	case model.OrigenProduccion, model.OrigenCompra:
		return o
	default:
		return model.OrigenOtro
	}
}

func parseUUIDPtr(s *string) *uuid.UUID {
	if s == nil || *s == "" {
		return nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil
	}
	return &id
}

func loteToResponse(l *model.Lote) dto.LoteResponse {
	var origenRef *string
	if l.OrigenRefID != nil {
		s := l.OrigenRefID.String()
		origenRef = &s
	}
	return dto.LoteResponse{
		ID:               l.ID.String(),
		ArticuloID:       l.ArticuloID.String(),
		DepositoID:       l.DepositoID.String(),
		NumeroLote:       l.NumeroLote,
		Cantidad:         l.Cantidad,
		CantidadInicial:  l.CantidadInicial,
		PrecioUnitario:   l.PrecioUnitario,
		FechaVencimiento: l.FechaVencimiento,
		FechaRecepcion:   l.FechaRecepcion,
		OrigenTipo:       l.OrigenTipo,
		OrigenRefID:      origenRef,
		CertificadoURL:   l.CertificadoURL,
	}
}

func movimientoToResponse(m *model.MovimientoStock) dto.MovimientoResponse {
	uuidStr := func(id *uuid.UUID) *string {
		if id == nil {
			return nil
		}
		s := id.String()
		return &s
	}
	return dto.MovimientoResponse{
		ID:                m.ID.String(),
		Secuencia:         m.Secuencia,
		ArticuloID:        m.ArticuloID.String(),
		LoteID:            uuidStr(m.LoteID),
		Tipo:              m.Tipo,
		Cantidad:          m.Cantidad,
		CantidadAnterior:  m.CantidadAnterior,
		DepositoID:        uuidStr(m.DepositoID),
		DepositoDestinoID: uuidStr(m.DepositoDestinoID),
		Referencia:        m.Referencia,
		OrigenTipo:        m.OrigenTipo,
		OrigenRefID:       uuidStr(m.OrigenRefID),
		UsuarioID:         m.UsuarioID.String(),
		CreatedAt:         m.CreatedAt,
	}
}
