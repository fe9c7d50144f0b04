package repository

import (
	"context"

	"blendwms/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ArticuloFilter define los filtros de listado de artículos.
type ArticuloFilter struct {
	Nombre string
	Page   int
	Limit  int
}

// ArticuloRepository es el contrato de acceso a datos de artículos.
// Los servicios dependen de esta interfaz, no de la implementación GORM,
// lo que permite tests unitarios con stubs en memoria.
type ArticuloRepository interface {
	Create(ctx context.Context, a *model.Articulo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Articulo, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Articulo, error)
	FindByNombre(ctx context.Context, nombre string) (*model.Articulo, error)
	List(ctx context.Context, filter ArticuloFilter) ([]model.Articulo, int64, error)
	ListIDs(ctx context.Context) ([]uuid.UUID, error)

	// SetCantidadTx escribe el total derivado del artículo. Sólo el
	// reconciliador debe llamarla.
	SetCantidadTx(tx *gorm.DB, id uuid.UUID, cantidad decimal.Decimal) error

	// AjustarReservadaTx aplica un delta atómico sobre cantidad_reservada,
	// con piso en cero, y devuelve el valor resultante para que el servicio
	// pueda detectar (y loguear) un clamp por drift.
	AjustarReservadaTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error)

	// DB expone el *gorm.DB subyacente para que los servicios abran
	// transacciones.
	DB() *gorm.DB
}

type articuloRepo struct{ db *gorm.DB }

func NewArticuloRepository(db *gorm.DB) ArticuloRepository { return &articuloRepo{db: db} }

func (r *articuloRepo) Create(ctx context.Context, a *model.Articulo) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *articuloRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Articulo, error) {
	var a model.Articulo
	err := r.db.WithContext(ctx).First(&a, id).Error
	return &a, err
}

func (r *articuloRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Articulo, error) {
	var a model.Articulo
	err := tx.First(&a, id).Error
	return &a, err
}

func (r *articuloRepo) FindByNombre(ctx context.Context, nombre string) (*model.Articulo, error) {
	var a model.Articulo
	err := r.db.WithContext(ctx).Where("nombre = ?", nombre).First(&a).Error
	return &a, err
}

func (r *articuloRepo) List(ctx context.Context, filter ArticuloFilter) ([]model.Articulo, int64, error) {
	var articulos []model.Articulo
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Articulo{})
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	err := q.Order("nombre ASC").Limit(limit).Offset((page - 1) * limit).Find(&articulos).Error
	return articulos, total, err
}

func (r *articuloRepo) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Articulo{}).Pluck("id", &ids).Error
	return ids, err
}

func (r *articuloRepo) SetCantidadTx(tx *gorm.DB, id uuid.UUID, cantidad decimal.Decimal) error {
	return tx.Model(&model.Articulo{}).Where("id = ?", id).
		Update("cantidad", cantidad).Error
}

func (r *articuloRepo) AjustarReservadaTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	var nueva decimal.Decimal
	err := tx.Raw(
		`UPDATE articulos
		    SET cantidad_reservada = GREATEST(cantidad_reservada + ?, 0),
		        updated_at = NOW()
		  WHERE id = ?
		  RETURNING cantidad_reservada`,
		delta, id,
	).Scan(&nueva).Error
	return nueva, err
}

func (r *articuloRepo) DB() *gorm.DB { return r.db }
