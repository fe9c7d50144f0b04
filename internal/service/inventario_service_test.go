package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"blendwms/internal/dto"
	"blendwms/internal/model"
	"blendwms/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecepcionCreaLoteNuevo(t *testing.T) {
	e := newEntorno()
	art := e.seedArticulo("Harina 000")
	dep := e.seedDeposito("DEP-1")
	usuario := uuid.New()

	resp, err := e.inventario.RegistrarRecepcion(context.Background(), usuario, dto.RecepcionRequest{
		ArticuloID:     art.ID.String(),
		DepositoID:     dep.ID.String(),
		Cantidad:       decimal.NewFromInt(25),
		PrecioUnitario: decimal.NewFromFloat(1.5),
	})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.Lote.NumeroLote, "L-"))
	assert.Equal(t, "25", resp.Lote.Cantidad.String())
	assert.Equal(t, "25", resp.Lote.CantidadInicial.String())

	// El contador del artículo queda reconciliado en el mismo paso.
	actualizado, _ := e.articulos.FindByID(context.Background(), art.ID)
	assert.Equal(t, "25", actualizado.Cantidad.String())

	recepciones := e.movs.porTipo(model.MovRecepcion)
	require.Len(t, recepciones, 1)
	assert.Equal(t, "25", recepciones[0].Cantidad.String())
	assert.Equal(t, "0", recepciones[0].CantidadAnterior.String())
	assert.Equal(t, usuario, recepciones[0].UsuarioID)

	require.Len(t, resp.Eventos, 1)
	assert.Equal(t, model.EventoRecepcion, resp.Eventos[0].Tipo)
}

func TestRecepcionFusionaPorNumeroDeLote(t *testing.T) {
	e := newEntorno()
	art := e.seedArticulo("Harina 000")
	dep := e.seedDeposito("DEP-1")
	existente := e.seedLote(art.ID, dep.ID, "L-PROV-7", 10, nil, time.Now())

	resp, err := e.inventario.RegistrarRecepcion(context.Background(), uuid.New(), dto.RecepcionRequest{
		ArticuloID: art.ID.String(),
		DepositoID: dep.ID.String(),
		Cantidad:   decimal.NewFromInt(5),
		NumeroLote: "L-PROV-7",
	})

	require.NoError(t, err)
	assert.Equal(t, existente.ID.String(), resp.Lote.ID)
	assert.Len(t, e.lotes.lotes, 1)

	lote, _ := e.lotes.FindByID(context.Background(), existente.ID)
	assert.Equal(t, "15", lote.Cantidad.String())
	assert.Equal(t, "15", lote.CantidadInicial.String())

	recepciones := e.movs.porTipo(model.MovRecepcion)
	require.Len(t, recepciones, 1)
	assert.Equal(t, "10", recepciones[0].CantidadAnterior.String())
}

func TestRecepcionNoFusionaConVencimientoDistinto(t *testing.T) {
	e := newEntorno()
	art := e.seedArticulo("Harina 000")
	dep := e.seedDeposito("DEP-1")
	existente := e.seedLote(art.ID, dep.ID, "L-PROV-7", 10, fecha(2026, time.March, 1), time.Now())

	resp, err := e.inventario.RegistrarRecepcion(context.Background(), uuid.New(), dto.RecepcionRequest{
		ArticuloID:       art.ID.String(),
		DepositoID:       dep.ID.String(),
		Cantidad:         decimal.NewFromInt(5),
		NumeroLote:       "L-PROV-7",
		FechaVencimiento: fecha(2026, time.September, 1),
	})

	require.NoError(t, err)

	// Mismo número pero otro vencimiento: es otro lote físico y conserva la
	// fecha que trajo la recepción.
	assert.NotEqual(t, existente.ID.String(), resp.Lote.ID)
	assert.Len(t, e.lotes.lotes, 2)
	require.NotNil(t, resp.Lote.FechaVencimiento)
	assert.True(t, resp.Lote.FechaVencimiento.Equal(*fecha(2026, time.September, 1)))

	intacto, _ := e.lotes.FindByID(context.Background(), existente.ID)
	assert.Equal(t, "10", intacto.Cantidad.String())
}

// lotesVistaConfirmada simula la visibilidad de READ COMMITTED: las lecturas
// por pool devuelven la cantidad confirmada al momento de la foto, mientras
// que las variantes Tx ven lo escrito en la transacción en curso.
type lotesVistaConfirmada struct {
	*stubLoteRepo
	confirmadas map[uuid.UUID]decimal.Decimal
}

func conVistaConfirmada(lotes *stubLoteRepo) *lotesVistaConfirmada {
	confirmadas := make(map[uuid.UUID]decimal.Decimal, len(lotes.lotes))
	for id, l := range lotes.lotes {
		confirmadas[id] = l.Cantidad
	}
	return &lotesVistaConfirmada{stubLoteRepo: lotes, confirmadas: confirmadas}
}

func (r *lotesVistaConfirmada) FindByID(ctx context.Context, id uuid.UUID) (*model.Lote, error) {
	l, err := r.stubLoteRepo.FindByID(ctx, id)
	if err == nil {
		if c, ok := r.confirmadas[id]; ok {
			l.Cantidad = c
		}
	}
	return l, err
}

func (r *lotesVistaConfirmada) FindByArticulo(ctx context.Context, articuloID uuid.UUID, depositoID *uuid.UUID) ([]model.Lote, error) {
	out, err := r.stubLoteRepo.FindByArticulo(ctx, articuloID, depositoID)
	for i := range out {
		if c, ok := r.confirmadas[out[i].ID]; ok {
			out[i].Cantidad = c
		}
	}
	return out, err
}

func TestRecepcionSobreLoteExistenteLeeDentroDeLaTransaccion(t *testing.T) {
	e := newEntorno()
	art := e.seedArticulo("Harina 000")
	dep := e.seedDeposito("DEP-1")
	existente := e.seedLote(art.ID, dep.ID, "L-PROV-7", 10, nil, time.Now())

	lotes := conVistaConfirmada(e.lotes)
	reconcilia := service.NewReconciliacionService(e.articulos, lotes)
	inventario := service.NewInventarioService(
		e.articulos, lotes, e.reservas, e.movs, e.depositos,
		service.NewAsignacionService(lotes, e.reservas), reconcilia,
	)

	resp, err := inventario.RegistrarRecepcion(context.Background(), uuid.New(), dto.RecepcionRequest{
		ArticuloID: art.ID.String(),
		DepositoID: dep.ID.String(),
		Cantidad:   decimal.NewFromInt(5),
		NumeroLote: "L-PROV-7",
	})

	require.NoError(t, err)
	assert.Equal(t, existente.ID.String(), resp.Lote.ID)

	// Tanto la respuesta como el recálculo del artículo deben reflejar el
	// incremento aún no confirmado, no la foto previa del pool.
	assert.Equal(t, "15", resp.Lote.Cantidad.String())
	actualizado, _ := e.articulos.FindByID(context.Background(), art.ID)
	assert.Equal(t, "15", actualizado.Cantidad.String())
}

func TestRecepcionNormalizaVencimientoCentinela(t *testing.T) {
	e := newEntorno()
	art := e.seedArticulo("Sal")
	dep := e.seedDeposito("DEP-1")

	centinela := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	resp, err := e.inventario.RegistrarRecepcion(context.Background(), uuid.New(), dto.RecepcionRequest{
		ArticuloID:       art.ID.String(),
		DepositoID:       dep.ID.String(),
		Cantidad:         decimal.NewFromInt(1),
		FechaVencimiento: &centinela,
	})

	require.NoError(t, err)
	assert.Nil(t, resp.Lote.FechaVencimiento)
}

func TestRecepcionSinDeposito(t *testing.T) {
	e := newEntorno()
	art := e.seedArticulo("Sal")

	_, err := e.inventario.RegistrarRecepcion(context.Background(), uuid.New(), dto.RecepcionRequest{
		ArticuloID: art.ID.String(),
		Cantidad:   decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, service.ErrDepositoRequerido)
}

func TestSalidaDescuentaFEFO(t *testing.T) {
	e := newEntorno()
	art := e.seedArticulo("Levadura")
	dep := e.seedDeposito("DEP-1")
	proximo := e.seedLote(art.ID, dep.ID, "L-A", 5, fecha(2024, time.January, 1), time.Now())
	lejano := e.seedLote(art.ID, dep.ID, "L-B", 5, fecha(2024, time.June, 1), time.Now())

	resp, err := e.inventario.RegistrarSalida(context.Background(), uuid.New(), dto.SalidaRequest{
		ArticuloID: art.ID.String(),
		DepositoID: dep.ID.String(),
		Cantidad:   decimal.NewFromInt(8),
		Referencia: "OT-41",
	})

	require.NoError(t, err)
	require.Len(t, resp.Asignaciones, 2)
	assert.Equal(t, "L-A", resp.Asignaciones[0].NumeroLote)
	assert.Equal(t, "L-B", resp.Asignaciones[1].NumeroLote)

	a, _ := e.lotes.FindByID(context.Background(), proximo.ID)
	b, _ := e.lotes.FindByID(context.Background(), lejano.ID)
	assert.Equal(t, "0", a.Cantidad.String())
	assert.Equal(t, "2", b.Cantidad.String())

	actualizado, _ := e.articulos.FindByID(context.Background(), art.ID)
	assert.Equal(t, "2", actualizado.Cantidad.String())

	// Una entrada de salida por lote tocado, con cantidad negativa y la foto
	// previa del lote.
	salidas := e.movs.porTipo(model.MovSalida)
	require.Len(t, salidas, 2)
	assert.Equal(t, "-5", salidas[0].Cantidad.String())
	assert.Equal(t, "5", salidas[0].CantidadAnterior.String())
	assert.Equal(t, "OT-41", salidas[0].Referencia)
}

func TestSalidaInsuficienteNoTocaStock(t *testing.T) {
	e := newEntorno()
	art := e.seedArticulo("Azucar")
	dep := e.seedDeposito("DEP-1")
	lote := e.seedLote(art.ID, dep.ID, "L-1", 4, nil, time.Now())

	_, err := e.inventario.RegistrarSalida(context.Background(), uuid.New(), dto.SalidaRequest{
		ArticuloID: art.ID.String(),
		DepositoID: dep.ID.String(),
		Cantidad:   decimal.NewFromInt(10),
	})

	var insuf *service.StockInsuficienteError
	require.ErrorAs(t, err, &insuf)
	assert.Equal(t, "6", insuf.Faltante.String())

	intacto, _ := e.lotes.FindByID(context.Background(), lote.ID)
	assert.Equal(t, "4", intacto.Cantidad.String())
	assert.Empty(t, e.movs.porTipo(model.MovSalida))
}

func TestReservarComprometeStock(t *testing.T) {
	e := newEntorno()
	art := e.seedArticulo("Cacao")
	dep := e.seedDeposito("DEP-1")
	e.seedLote(art.ID, dep.ID, "L-A", 4, fecha(2024, time.January, 1), time.Now())
	e.seedLote(art.ID, dep.ID, "L-B", 10, fecha(2024, time.June, 1), time.Now())
	orden := uuid.New()

	resp, err := e.inventario.Reservar(context.Background(), uuid.New(), dto.ReservaRequest{
		ArticuloID:     art.ID.String(),
		OrdenTrabajoID: orden.String(),
		Cantidad:       decimal.NewFromInt(6),
	})

	require.NoError(t, err)
	assert.False(t, resp.YaReservado)
	require.Len(t, resp.LotesReservados, 2)
	assert.Equal(t, "4", resp.LotesReservados[0].Cantidad.String())
	assert.Equal(t, "2", resp.LotesReservados[1].Cantidad.String())

	activas, _ := e.reservas.FindActivasPorOrden(context.Background(), orden, art.ID)
	assert.Len(t, activas, 2)

	actualizado, _ := e.articulos.FindByID(context.Background(), art.ID)
	assert.Equal(t, "6", actualizado.CantidadReservada.String())

	// La reserva no descuenta stock físico.
	assert.Equal(t, "0", actualizado.Cantidad.String())
	assert.Len(t, e.movs.porTipo(model.MovReserva), 2)
}

func TestReservarEsIdempotentePorOrden(t *testing.T) {
	e := newEntorno()
	art := e.seedArticulo("Cafe")
	dep := e.seedDeposito("DEP-1")
	e.seedLote(art.ID, dep.ID, "L-1", 20, nil, time.Now())
	orden := uuid.New()
	usuario := uuid.New()

	req := dto.ReservaRequest{
		ArticuloID:     art.ID.String(),
		OrdenTrabajoID: orden.String(),
		Cantidad:       decimal.NewFromInt(5),
	}
	primero, err := e.inventario.Reservar(context.Background(), usuario, req)
	require.NoError(t, err)
	assert.False(t, primero.YaReservado)

	segundo, err := e.inventario.Reservar(context.Background(), usuario, req)
	require.NoError(t, err)
	assert.True(t, segundo.YaReservado)

	activas, _ := e.reservas.FindActivasPorOrden(context.Background(), orden, art.ID)
	assert.Len(t, activas, 1)
	actualizado, _ := e.articulos.FindByID(context.Background(), art.ID)
	assert.Equal(t, "5", actualizado.CantidadReservada.String())
	assert.Len(t, e.movs.porTipo(model.MovReserva), 1)
}

func TestReservarAmpliacionReemplazaReservasPrevias(t *testing.T) {
	e := newEntorno()
	art := e.seedArticulo("Cafe")
	dep := e.seedDeposito("DEP-1")
	e.seedLote(art.ID, dep.ID, "L-1", 50, nil, time.Now())
	orden := uuid.New()
	usuario := uuid.New()

	_, err := e.inventario.Reservar(context.Background(), usuario, dto.ReservaRequest{
		ArticuloID:     art.ID.String(),
		OrdenTrabajoID: orden.String(),
		Cantidad:       decimal.NewFromInt(30),
	})
	require.NoError(t, err)

	// La misma orden amplía a 50 sobre un lote de 50: las filas previas se
	// reemplazan por la asignación completa, no se apilan contra el lote.
	resp, err := e.inventario.Reservar(context.Background(), usuario, dto.ReservaRequest{
		ArticuloID:     art.ID.String(),
		OrdenTrabajoID: orden.String(),
		Cantidad:       decimal.NewFromInt(50),
	})

	require.NoError(t, err)
	assert.False(t, resp.YaReservado)
	require.Len(t, resp.LotesReservados, 1)
	assert.Equal(t, "50", resp.LotesReservados[0].Cantidad.String())

	activas, _ := e.reservas.FindActivasPorOrden(context.Background(), orden, art.ID)
	require.Len(t, activas, 1)
	assert.Equal(t, "50", activas[0].Cantidad.String())

	actualizado, _ := e.articulos.FindByID(context.Background(), art.ID)
	assert.Equal(t, "50", actualizado.CantidadReservada.String())

	// El libro asienta la liberación de la reserva reemplazada y la nueva.
	liberaciones := e.movs.porTipo(model.MovLiberacion)
	require.Len(t, liberaciones, 1)
	assert.Equal(t, "30", liberaciones[0].Cantidad.String())
	assert.Len(t, e.movs.porTipo(model.MovReserva), 2)
}

func TestReservarSinStockDisponible(t *testing.T) {
	e := newEntorno()
	art := e.seedArticulo("Vainilla")
	dep := e.seedDeposito("DEP-1")
	lote := e.seedLote(art.ID, dep.ID, "L-1", 10, nil, time.Now())

	// Otra orden ya comprometió 8 de los 10.
	e.seedReserva(art.ID, lote.ID, uuid.New(), 8)

	_, err := e.inventario.Reservar(context.Background(), uuid.New(), dto.ReservaRequest{
		ArticuloID:     art.ID.String(),
		OrdenTrabajoID: uuid.New().String(),
		Cantidad:       decimal.NewFromInt(5),
	})

	var insuf *service.StockInsuficienteError
	require.ErrorAs(t, err, &insuf)
	assert.Equal(t, "3", insuf.Faltante.String())
}

func TestCancelarReservaLiberaTodo(t *testing.T) {
	e := newEntorno()
	art := e.seedArticulo("Manteca")
	dep := e.seedDeposito("DEP-1")
	e.seedLote(art.ID, dep.ID, "L-1", 20, nil, time.Now())
	orden := uuid.New()
	usuario := uuid.New()

	_, err := e.inventario.Reservar(context.Background(), usuario, dto.ReservaRequest{
		ArticuloID:     art.ID.String(),
		OrdenTrabajoID: orden.String(),
		Cantidad:       decimal.NewFromInt(7),
	})
	require.NoError(t, err)

	resp, err := e.inventario.CancelarReserva(context.Background(), usuario, dto.CancelarReservaRequest{
		ArticuloID:     art.ID.String(),
		OrdenTrabajoID: orden.String(),
	})

	require.NoError(t, err)
	assert.Equal(t, "7", resp.CantidadLiberada.String())
	assert.Equal(t, 1, resp.ReservasCanceladas)

	activas, _ := e.reservas.FindActivasPorOrden(context.Background(), orden, art.ID)
	assert.Empty(t, activas)
	actualizado, _ := e.articulos.FindByID(context.Background(), art.ID)
	assert.Equal(t, "0", actualizado.CantidadReservada.String())
	assert.Len(t, e.movs.porTipo(model.MovLiberacion), 1)

	require.Len(t, resp.Eventos, 1)
	assert.Equal(t, model.EventoLiberacion, resp.Eventos[0].Tipo)
}

func TestCancelarReservaSinReservasEsNoOp(t *testing.T) {
	e := newEntorno()
	art := e.seedArticulo("Nuez")

	resp, err := e.inventario.CancelarReserva(context.Background(), uuid.New(), dto.CancelarReservaRequest{
		ArticuloID:     art.ID.String(),
		OrdenTrabajoID: uuid.New().String(),
	})

	require.NoError(t, err)
	assert.True(t, resp.CantidadLiberada.IsZero())
	assert.Zero(t, resp.ReservasCanceladas)
}

func TestCancelarReservaClampeaContadorConDrift(t *testing.T) {
	e := newEntorno()
	art := e.seedArticulo("Miel")
	dep := e.seedDeposito("DEP-1")
	lote := e.seedLote(art.ID, dep.ID, "L-1", 20, nil, time.Now())
	orden := uuid.New()

	// Reserva de 5 pero contador desincronizado en 2: la liberación no debe
	// dejar el contador negativo.
	res := e.seedReserva(art.ID, lote.ID, orden, 5)
	e.articulos.articulos[art.ID].CantidadReservada = decimal.NewFromInt(2)

	resp, err := e.inventario.CancelarReserva(context.Background(), uuid.New(), dto.CancelarReservaRequest{
		ArticuloID:     art.ID.String(),
		OrdenTrabajoID: orden.String(),
	})

	require.NoError(t, err)
	assert.Equal(t, "5", resp.CantidadLiberada.String())
	assert.Equal(t, model.ReservaCancelada, e.reservas.reservas[res.ID].Estado)
	actualizado, _ := e.articulos.FindByID(context.Background(), art.ID)
	assert.Equal(t, "0", actualizado.CantidadReservada.String())
}

func TestAjustarLoteRechazaResultadoNegativo(t *testing.T) {
	e := newEntorno()
	art := e.seedArticulo("Harina")
	dep := e.seedDeposito("DEP-1")
	lote := e.seedLote(art.ID, dep.ID, "L-1", 3, nil, time.Now())

	_, _, err := e.inventario.AjustarLote(context.Background(), uuid.New(), lote.ID, dto.AjusteLoteRequest{
		Delta:  decimal.NewFromInt(-5),
		Motivo: "rotura",
	})
	assert.ErrorIs(t, err, service.ErrCantidadInvalida)

	intacto, _ := e.lotes.FindByID(context.Background(), lote.ID)
	assert.Equal(t, "3", intacto.Cantidad.String())
}

func TestAjustarLoteAplicaDeltaYReconcilia(t *testing.T) {
	e := newEntorno()
	art := e.seedArticulo("Harina")
	dep := e.seedDeposito("DEP-1")
	lote := e.seedLote(art.ID, dep.ID, "L-1", 10, nil, time.Now())

	resp, eventos, err := e.inventario.AjustarLote(context.Background(), uuid.New(), lote.ID, dto.AjusteLoteRequest{
		Delta:  decimal.NewFromInt(-4),
		Motivo: "merma por humedad",
	})

	require.NoError(t, err)
	assert.Equal(t, "6", resp.Cantidad.String())

	actualizado, _ := e.articulos.FindByID(context.Background(), art.ID)
	assert.Equal(t, "6", actualizado.Cantidad.String())

	ajustes := e.movs.porTipo(model.MovAjuste)
	require.Len(t, ajustes, 1)
	assert.Equal(t, "merma por humedad", ajustes[0].Referencia)

	require.Len(t, eventos, 1)
	assert.Equal(t, model.EventoAjuste, eventos[0].Tipo)
	assert.Equal(t, "merma por humedad", eventos[0].Detalle)
}

func TestEliminarLoteConReservasActivas(t *testing.T) {
	e := newEntorno()
	art := e.seedArticulo("Aceite")
	dep := e.seedDeposito("DEP-1")
	lote := e.seedLote(art.ID, dep.ID, "L-1", 10, nil, time.Now())

	e.seedReserva(art.ID, lote.ID, uuid.New(), 2)

	_, err := e.inventario.EliminarLote(context.Background(), uuid.New(), lote.ID)
	assert.ErrorIs(t, err, service.ErrLoteEnUso)
	assert.Len(t, e.lotes.lotes, 1)
}

func TestEliminarLoteRegistraBaja(t *testing.T) {
	e := newEntorno()
	art := e.seedArticulo("Aceite")
	dep := e.seedDeposito("DEP-1")
	lote := e.seedLote(art.ID, dep.ID, "L-1", 10, nil, time.Now())

	eventos, err := e.inventario.EliminarLote(context.Background(), uuid.New(), lote.ID)

	require.NoError(t, err)
	assert.Empty(t, e.lotes.lotes)

	bajas := e.movs.porTipo(model.MovBajaLote)
	require.Len(t, bajas, 1)
	assert.Equal(t, "-10", bajas[0].Cantidad.String())

	actualizado, _ := e.articulos.FindByID(context.Background(), art.ID)
	assert.Equal(t, "0", actualizado.Cantidad.String())

	require.Len(t, eventos, 1)
	assert.Equal(t, model.EventoBajaLote, eventos[0].Tipo)
}

// Ciclo completo: recibir, reservar, consumir y liberar deja los contadores
// coherentes y el libro con la historia entera.
func TestCicloRecepcionReservaSalidaCancelacion(t *testing.T) {
	e := newEntorno()
	art := e.seedArticulo("Harina 000")
	dep := e.seedDeposito("DEP-1")
	orden := uuid.New()
	usuario := uuid.New()
	ctx := context.Background()

	_, err := e.inventario.RegistrarRecepcion(ctx, usuario, dto.RecepcionRequest{
		ArticuloID: art.ID.String(),
		DepositoID: dep.ID.String(),
		Cantidad:   decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	_, err = e.inventario.Reservar(ctx, usuario, dto.ReservaRequest{
		ArticuloID:     art.ID.String(),
		OrdenTrabajoID: orden.String(),
		Cantidad:       decimal.NewFromInt(30),
	})
	require.NoError(t, err)

	_, err = e.inventario.RegistrarSalida(ctx, usuario, dto.SalidaRequest{
		ArticuloID: art.ID.String(),
		DepositoID: dep.ID.String(),
		Cantidad:   decimal.NewFromInt(20),
		Referencia: "consumo OT",
	})
	require.NoError(t, err)

	_, err = e.inventario.CancelarReserva(ctx, usuario, dto.CancelarReservaRequest{
		ArticuloID:     art.ID.String(),
		OrdenTrabajoID: orden.String(),
	})
	require.NoError(t, err)

	actualizado, _ := e.articulos.FindByID(ctx, art.ID)
	assert.Equal(t, "80", actualizado.Cantidad.String())
	assert.Equal(t, "0", actualizado.CantidadReservada.String())
	assert.Equal(t, "80", actualizado.Disponible().String())

	assert.Len(t, e.movs.porTipo(model.MovRecepcion), 1)
	assert.Len(t, e.movs.porTipo(model.MovReserva), 1)
	assert.Len(t, e.movs.porTipo(model.MovSalida), 1)
	assert.Len(t, e.movs.porTipo(model.MovLiberacion), 1)

	listado, err := e.inventario.ListarMovimientos(ctx, art.ID, dto.MovimientoFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), listado.Total)
	// Historia más reciente primero.
	assert.Equal(t, model.MovLiberacion, listado.Data[0].Tipo)
	assert.Equal(t, model.MovRecepcion, listado.Data[3].Tipo)
}
