package service_test

// In-memory repository stubs. They mirror the conditional-update semantics of
// the real GORM implementations (deltas that would leave a quantity negative
// are rejected, the reserved counter clamps at zero) so the services exercise
// their compensation paths exactly as against Postgres.

import (
	"context"
	"errors"
	"sort"
	"time"

	"blendwms/internal/model"
	"blendwms/internal/repository"
	"blendwms/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var errNoRow = errors.New("record not found")

// ── ArticuloRepository ───────────────────────────────────────────────────────

type stubArticuloRepo struct {
	articulos map[uuid.UUID]*model.Articulo
}

func newStubArticuloRepo() *stubArticuloRepo {
	return &stubArticuloRepo{articulos: make(map[uuid.UUID]*model.Articulo)}
}

func (r *stubArticuloRepo) Create(_ context.Context, a *model.Articulo) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.articulos[a.ID] = a
	return nil
}

func (r *stubArticuloRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Articulo, error) {
	a, ok := r.articulos[id]
	if !ok {
		return nil, errNoRow
	}
	copia := *a
	return &copia, nil
}

func (r *stubArticuloRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Articulo, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubArticuloRepo) FindByNombre(_ context.Context, nombre string) (*model.Articulo, error) {
	for _, a := range r.articulos {
		if a.Nombre == nombre {
			copia := *a
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubArticuloRepo) List(_ context.Context, _ repository.ArticuloFilter) ([]model.Articulo, int64, error) {
	out := make([]model.Articulo, 0, len(r.articulos))
	for _, a := range r.articulos {
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (r *stubArticuloRepo) ListIDs(_ context.Context) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(r.articulos))
	for id := range r.articulos {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *stubArticuloRepo) SetCantidadTx(_ *gorm.DB, id uuid.UUID, cantidad decimal.Decimal) error {
	a, ok := r.articulos[id]
	if !ok {
		return errNoRow
	}
	a.Cantidad = cantidad
	return nil
}

func (r *stubArticuloRepo) AjustarReservadaTx(_ *gorm.DB, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	a, ok := r.articulos[id]
	if !ok {
		return decimal.Zero, errNoRow
	}
	nueva := a.CantidadReservada.Add(delta)
	if nueva.IsNegative() {
		nueva = decimal.Zero
	}
	a.CantidadReservada = nueva
	return nueva, nil
}

func (r *stubArticuloRepo) DB() *gorm.DB { return nil }

var _ repository.ArticuloRepository = (*stubArticuloRepo)(nil)

// ── LoteRepository ───────────────────────────────────────────────────────────

type stubLoteRepo struct {
	lotes map[uuid.UUID]*model.Lote
}

func newStubLoteRepo() *stubLoteRepo {
	return &stubLoteRepo{lotes: make(map[uuid.UUID]*model.Lote)}
}

func (r *stubLoteRepo) Create(_ context.Context, l *model.Lote) error {
	return r.CreateTx(nil, l)
}

func (r *stubLoteRepo) CreateTx(_ *gorm.DB, l *model.Lote) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.lotes[l.ID] = l
	return nil
}

func (r *stubLoteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Lote, error) {
	l, ok := r.lotes[id]
	if !ok {
		return nil, errNoRow
	}
	copia := *l
	return &copia, nil
}

func (r *stubLoteRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Lote, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubLoteRepo) FindByArticulo(_ context.Context, articuloID uuid.UUID, depositoID *uuid.UUID) ([]model.Lote, error) {
	var out []model.Lote
	for _, l := range r.lotes {
		if l.ArticuloID != articuloID {
			continue
		}
		if depositoID != nil && l.DepositoID != *depositoID {
			continue
		}
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].FechaRecepcion.Before(out[j].FechaRecepcion)
	})
	return out, nil
}

func (r *stubLoteRepo) FindByArticuloTx(_ *gorm.DB, articuloID uuid.UUID, depositoID *uuid.UUID) ([]model.Lote, error) {
	return r.FindByArticulo(context.Background(), articuloID, depositoID)
}

func (r *stubLoteRepo) FindPorNumero(_ context.Context, articuloID, depositoID uuid.UUID, numeroLote string) ([]model.Lote, error) {
	var out []model.Lote
	for _, l := range r.lotes {
		if l.ArticuloID == articuloID && l.DepositoID == depositoID && l.NumeroLote == numeroLote {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *stubLoteRepo) FindPorVencer(_ context.Context, limite time.Time) ([]model.Lote, error) {
	var out []model.Lote
	for _, l := range r.lotes {
		if l.FechaVencimiento != nil && !l.FechaVencimiento.After(limite) && l.Cantidad.IsPositive() {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *stubLoteRepo) AjustarCantidadTx(_ *gorm.DB, id uuid.UUID, delta decimal.Decimal) (bool, error) {
	l, ok := r.lotes[id]
	if !ok {
		return false, nil
	}
	nueva := l.Cantidad.Add(delta)
	if nueva.IsNegative() {
		return false, nil
	}
	l.Cantidad = nueva
	return true, nil
}

func (r *stubLoteRepo) AjustarConCostoTx(_ *gorm.DB, id uuid.UUID, deltaCantidad, deltaInicial decimal.Decimal) (bool, error) {
	l, ok := r.lotes[id]
	if !ok {
		return false, nil
	}
	nuevaCantidad := l.Cantidad.Add(deltaCantidad)
	nuevaInicial := l.CantidadInicial.Add(deltaInicial)
	if nuevaCantidad.IsNegative() || nuevaInicial.IsNegative() {
		return false, nil
	}
	l.Cantidad = nuevaCantidad
	l.CantidadInicial = nuevaInicial
	return true, nil
}

func (r *stubLoteRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.lotes, id)
	return nil
}

func (r *stubLoteRepo) DeleteSiCantidadTx(_ *gorm.DB, id uuid.UUID, cantidad decimal.Decimal) (bool, error) {
	l, ok := r.lotes[id]
	if !ok || !l.Cantidad.Equal(cantidad) {
		return false, nil
	}
	delete(r.lotes, id)
	return true, nil
}

func (r *stubLoteRepo) DB() *gorm.DB { return nil }

var _ repository.LoteRepository = (*stubLoteRepo)(nil)

// ── ReservaRepository ────────────────────────────────────────────────────────

type stubReservaRepo struct {
	reservas map[uuid.UUID]*model.Reserva
}

func newStubReservaRepo() *stubReservaRepo {
	return &stubReservaRepo{reservas: make(map[uuid.UUID]*model.Reserva)}
}

func (r *stubReservaRepo) CreateTx(_ *gorm.DB, res *model.Reserva) error {
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	res.CreatedAt = time.Now()
	r.reservas[res.ID] = res
	return nil
}

func (r *stubReservaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Reserva, error) {
	res, ok := r.reservas[id]
	if !ok {
		return nil, errNoRow
	}
	copia := *res
	return &copia, nil
}

func (r *stubReservaRepo) FindActivasPorArticulo(_ context.Context, articuloID uuid.UUID) ([]model.Reserva, error) {
	var out []model.Reserva
	for _, res := range r.reservas {
		if res.ArticuloID == articuloID && res.Activa() {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (r *stubReservaRepo) FindActivasPorLote(_ context.Context, loteID uuid.UUID) ([]model.Reserva, error) {
	var out []model.Reserva
	for _, res := range r.reservas {
		if res.LoteID == loteID && res.Activa() {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (r *stubReservaRepo) FindActivasPorOrden(_ context.Context, ordenTrabajoID, articuloID uuid.UUID) ([]model.Reserva, error) {
	var out []model.Reserva
	for _, res := range r.reservas {
		if res.OrdenTrabajoID == ordenTrabajoID && res.ArticuloID == articuloID && res.Activa() {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (r *stubReservaRepo) FindActivasPorLoteTx(_ *gorm.DB, loteID uuid.UUID) ([]model.Reserva, error) {
	return r.FindActivasPorLote(context.Background(), loteID)
}

func (r *stubReservaRepo) FindActivasPorOrdenTx(_ *gorm.DB, ordenTrabajoID, articuloID uuid.UUID) ([]model.Reserva, error) {
	return r.FindActivasPorOrden(context.Background(), ordenTrabajoID, articuloID)
}

func (r *stubReservaRepo) MarcarEstadoTx(_ *gorm.DB, id uuid.UUID, estado string) error {
	res, ok := r.reservas[id]
	if !ok {
		return errNoRow
	}
	res.Estado = estado
	return nil
}

func (r *stubReservaRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.reservas, id)
	return nil
}

var _ repository.ReservaRepository = (*stubReservaRepo)(nil)

// ── MovimientoStockRepository ────────────────────────────────────────────────

type stubMovimientoRepo struct {
	movimientos []model.MovimientoStock
	secuencia   int64
}

func newStubMovimientoRepo() *stubMovimientoRepo { return &stubMovimientoRepo{} }

func (r *stubMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoStock) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.secuencia++
	m.Secuencia = r.secuencia
	m.CreatedAt = time.Now()
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovimientoRepo) ListByArticulo(_ context.Context, articuloID uuid.UUID, filter repository.MovimientoStockFilter) ([]model.MovimientoStock, int64, error) {
	var out []model.MovimientoStock
	for _, m := range r.movimientos {
		if m.ArticuloID != articuloID {
			continue
		}
		if filter.Tipo != "" && m.Tipo != filter.Tipo {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Secuencia > out[j].Secuencia })
	return out, int64(len(out)), nil
}

// porTipo devuelve los movimientos de un tipo en orden de secuencia.
func (r *stubMovimientoRepo) porTipo(tipo string) []model.MovimientoStock {
	var out []model.MovimientoStock
	for _, m := range r.movimientos {
		if m.Tipo == tipo {
			out = append(out, m)
		}
	}
	return out
}

var _ repository.MovimientoStockRepository = (*stubMovimientoRepo)(nil)

// ── DepositoRepository ───────────────────────────────────────────────────────

type stubDepositoRepo struct {
	depositos map[uuid.UUID]*model.Deposito
}

func newStubDepositoRepo() *stubDepositoRepo {
	return &stubDepositoRepo{depositos: make(map[uuid.UUID]*model.Deposito)}
}

func (r *stubDepositoRepo) Create(_ context.Context, d *model.Deposito) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.depositos[d.ID] = d
	return nil
}

func (r *stubDepositoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Deposito, error) {
	d, ok := r.depositos[id]
	if !ok {
		return nil, errNoRow
	}
	copia := *d
	return &copia, nil
}

func (r *stubDepositoRepo) List(_ context.Context) ([]model.Deposito, error) {
	out := make([]model.Deposito, 0, len(r.depositos))
	for _, d := range r.depositos {
		out = append(out, *d)
	}
	return out, nil
}

var _ repository.DepositoRepository = (*stubDepositoRepo)(nil)

// ── Entorno de prueba ────────────────────────────────────────────────────────

// entorno agrupa los stubs y servicios ya cableados de un test.
type entorno struct {
	articulos  *stubArticuloRepo
	lotes      *stubLoteRepo
	reservas   *stubReservaRepo
	movs       *stubMovimientoRepo
	depositos  *stubDepositoRepo
	asignador  service.AsignacionService
	reconcilia service.ReconciliacionService
	inventario service.InventarioService
	transfiere service.TransferenciaService
}

func newEntorno() *entorno {
	articulos := newStubArticuloRepo()
	lotes := newStubLoteRepo()
	reservas := newStubReservaRepo()
	movs := newStubMovimientoRepo()
	depositos := newStubDepositoRepo()

	asignador := service.NewAsignacionService(lotes, reservas)
	reconcilia := service.NewReconciliacionService(articulos, lotes)

	return &entorno{
		articulos:  articulos,
		lotes:      lotes,
		reservas:   reservas,
		movs:       movs,
		depositos:  depositos,
		asignador:  asignador,
		reconcilia: reconcilia,
		inventario: service.NewInventarioService(articulos, lotes, reservas, movs, depositos, asignador, reconcilia),
		transfiere: service.NewTransferenciaService(lotes, depositos, movs, reconcilia),
	}
}

func (e *entorno) seedArticulo(nombre string) *model.Articulo {
	a := &model.Articulo{
		ID:             uuid.New(),
		Nombre:         nombre,
		Unidad:         "kg",
		PrecioUnitario: decimal.NewFromInt(10),
	}
	e.articulos.articulos[a.ID] = a
	return a
}

func (e *entorno) seedDeposito(codigo string) *model.Deposito {
	d := &model.Deposito{ID: uuid.New(), Codigo: codigo, Nombre: codigo}
	e.depositos.depositos[d.ID] = d
	return d
}

func (e *entorno) seedLote(articuloID, depositoID uuid.UUID, numero string, cantidad int64, vencimiento *time.Time, recepcion time.Time) *model.Lote {
	l := &model.Lote{
		ID:               uuid.New(),
		ArticuloID:       articuloID,
		DepositoID:       depositoID,
		NumeroLote:       numero,
		Cantidad:         decimal.NewFromInt(cantidad),
		CantidadInicial:  decimal.NewFromInt(cantidad),
		PrecioUnitario:   decimal.NewFromInt(10),
		FechaVencimiento: vencimiento,
		FechaRecepcion:   recepcion,
		OrigenTipo:       model.OrigenCompra,
	}
	e.lotes.lotes[l.ID] = l
	return l
}

// seedReserva siembra una reserva activa indexada por su propio ID, tal como
// lo haría CreateTx.
func (e *entorno) seedReserva(articuloID, loteID, ordenID uuid.UUID, cantidad int64) *model.Reserva {
	r := &model.Reserva{
		ID:             uuid.New(),
		ArticuloID:     articuloID,
		LoteID:         loteID,
		OrdenTrabajoID: ordenID,
		Cantidad:       decimal.NewFromInt(cantidad),
		Estado:         model.ReservaActiva,
	}
	e.reservas.reservas[r.ID] = r
	return r
}

func fecha(anio int, mes time.Month, dia int) *time.Time {
	t := time.Date(anio, mes, dia, 0, 0, 0, 0, time.UTC)
	return &t
}
