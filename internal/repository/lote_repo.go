package repository

import (
	"context"
	"time"

	"blendwms/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LoteRepository es el contrato de acceso a datos de lotes. Toda mutación de
// cantidad se expresa como delta firmado aplicado condicionalmente en SQL
// (compare-and-apply): dos ajustes concurrentes nunca se pisan entre sí y un
// delta que dejaría la cantidad negativa simplemente no se aplica.
type LoteRepository interface {
	Create(ctx context.Context, l *model.Lote) error
	CreateTx(tx *gorm.DB, l *model.Lote) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Lote, error)

	// FindByIDTx lee a través de la transacción: las lecturas dentro de un
	// runTx deben ver las escrituras no confirmadas de esa misma transacción,
	// cosa que una lectura por el pool no garantiza bajo READ COMMITTED.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Lote, error)

	// FindByArticulo lista los lotes de un artículo; depositoID nil trae
	// todos los depósitos.
	FindByArticulo(ctx context.Context, articuloID uuid.UUID, depositoID *uuid.UUID) ([]model.Lote, error)
	FindByArticuloTx(tx *gorm.DB, articuloID uuid.UUID, depositoID *uuid.UUID) ([]model.Lote, error)

	// FindPorNumero busca lotes candidatos a fusión: mismo artículo, mismo
	// depósito, mismo número de lote. La igualdad de vencimiento la decide
	// el servicio.
	FindPorNumero(ctx context.Context, articuloID, depositoID uuid.UUID, numeroLote string) ([]model.Lote, error)

	// FindPorVencer devuelve los lotes con stock cuyo vencimiento cae antes
	// del límite dado. Lo usa el cron de alertas.
	FindPorVencer(ctx context.Context, limite time.Time) ([]model.Lote, error)

	// AjustarCantidadTx aplica el delta sólo si el resultado queda >= 0.
	// Devuelve false si la condición falló (lote inexistente o cantidad
	// insuficiente); el llamador re-lee para distinguir ambos casos.
	AjustarCantidadTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) (bool, error)

	// AjustarConCostoTx ajusta cantidad y cantidad_inicial en una sola
	// sentencia condicional — transferencias y recepciones sobre lote
	// existente mueven ambos campos juntos.
	AjustarConCostoTx(tx *gorm.DB, id uuid.UUID, deltaCantidad, deltaInicial decimal.Decimal) (bool, error)

	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	// DeleteSiCantidadTx borra el lote sólo si la cantidad sigue siendo la
	// esperada. Devuelve false si otro proceso la movió entre la lectura y el
	// borrado; el llamador reintenta con una lectura fresca.
	DeleteSiCantidadTx(tx *gorm.DB, id uuid.UUID, cantidad decimal.Decimal) (bool, error)

	DB() *gorm.DB
}

type loteRepo struct{ db *gorm.DB }

func NewLoteRepository(db *gorm.DB) LoteRepository { return &loteRepo{db: db} }

func (r *loteRepo) Create(ctx context.Context, l *model.Lote) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *loteRepo) CreateTx(tx *gorm.DB, l *model.Lote) error {
	return tx.Create(l).Error
}

func (r *loteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Lote, error) {
	var l model.Lote
	err := r.db.WithContext(ctx).First(&l, id).Error
	return &l, err
}

func (r *loteRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Lote, error) {
	var l model.Lote
	err := tx.First(&l, id).Error
	return &l, err
}

func (r *loteRepo) FindByArticulo(ctx context.Context, articuloID uuid.UUID, depositoID *uuid.UUID) ([]model.Lote, error) {
	return r.buscarPorArticulo(r.db.WithContext(ctx), articuloID, depositoID)
}

func (r *loteRepo) FindByArticuloTx(tx *gorm.DB, articuloID uuid.UUID, depositoID *uuid.UUID) ([]model.Lote, error) {
	return r.buscarPorArticulo(tx, articuloID, depositoID)
}

func (r *loteRepo) buscarPorArticulo(q *gorm.DB, articuloID uuid.UUID, depositoID *uuid.UUID) ([]model.Lote, error) {
	q = q.Where("articulo_id = ?", articuloID)
	if depositoID != nil {
		q = q.Where("deposito_id = ?", *depositoID)
	}
	var lotes []model.Lote
	err := q.Order("fecha_recepcion ASC, created_at ASC").Find(&lotes).Error
	return lotes, err
}

func (r *loteRepo) FindPorNumero(ctx context.Context, articuloID, depositoID uuid.UUID, numeroLote string) ([]model.Lote, error) {
	var lotes []model.Lote
	err := r.db.WithContext(ctx).
		Where("articulo_id = ? AND deposito_id = ? AND numero_lote = ?", articuloID, depositoID, numeroLote).
		Find(&lotes).Error
	return lotes, err
}

func (r *loteRepo) FindPorVencer(ctx context.Context, limite time.Time) ([]model.Lote, error) {
	var lotes []model.Lote
	err := r.db.WithContext(ctx).
		Where("fecha_vencimiento IS NOT NULL AND fecha_vencimiento <= ? AND cantidad > 0", limite).
		Order("fecha_vencimiento ASC").
		Find(&lotes).Error
	return lotes, err
}

func (r *loteRepo) AjustarCantidadTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) (bool, error) {
	res := tx.Model(&model.Lote{}).
		Where("id = ? AND cantidad + ? >= 0", id, delta).
		Update("cantidad", gorm.Expr("cantidad + ?", delta))
	return res.RowsAffected > 0, res.Error
}

func (r *loteRepo) AjustarConCostoTx(tx *gorm.DB, id uuid.UUID, deltaCantidad, deltaInicial decimal.Decimal) (bool, error) {
	res := tx.Model(&model.Lote{}).
		Where("id = ? AND cantidad + ? >= 0 AND cantidad_inicial + ? >= 0", id, deltaCantidad, deltaInicial).
		Updates(map[string]interface{}{
			"cantidad":         gorm.Expr("cantidad + ?", deltaCantidad),
			"cantidad_inicial": gorm.Expr("cantidad_inicial + ?", deltaInicial),
		})
	return res.RowsAffected > 0, res.Error
}

func (r *loteRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Lote{}, id).Error
}

func (r *loteRepo) DeleteSiCantidadTx(tx *gorm.DB, id uuid.UUID, cantidad decimal.Decimal) (bool, error) {
	res := tx.Where("id = ? AND cantidad = ?", id, cantidad).Delete(&model.Lote{})
	return res.RowsAffected > 0, res.Error
}

func (r *loteRepo) DB() *gorm.DB { return r.db }
