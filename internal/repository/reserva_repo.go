package repository

import (
	"context"

	"blendwms/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReservaRepository es el contrato de acceso a datos de reservas.
type ReservaRepository interface {
	CreateTx(tx *gorm.DB, r *model.Reserva) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Reserva, error)

	// FindActivasPorArticulo trae todas las reservas activas del artículo —
	// el motor de asignación las agrupa por lote para calcular lo
	// efectivamente disponible.
	FindActivasPorArticulo(ctx context.Context, articuloID uuid.UUID) ([]model.Reserva, error)
	FindActivasPorLote(ctx context.Context, loteID uuid.UUID) ([]model.Reserva, error)
	FindActivasPorOrden(ctx context.Context, ordenTrabajoID, articuloID uuid.UUID) ([]model.Reserva, error)

	// Variantes Tx: lecturas dentro de una transacción abierta, para que la
	// verificación de sobre-reserva vea las filas recién insertadas en esa
	// misma transacción.
	FindActivasPorLoteTx(tx *gorm.DB, loteID uuid.UUID) ([]model.Reserva, error)
	FindActivasPorOrdenTx(tx *gorm.DB, ordenTrabajoID, articuloID uuid.UUID) ([]model.Reserva, error)

	MarcarEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
}

type reservaRepo struct{ db *gorm.DB }

func NewReservaRepository(db *gorm.DB) ReservaRepository { return &reservaRepo{db: db} }

func (r *reservaRepo) CreateTx(tx *gorm.DB, res *model.Reserva) error {
	return tx.Create(res).Error
}

func (r *reservaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Reserva, error) {
	var res model.Reserva
	err := r.db.WithContext(ctx).First(&res, id).Error
	return &res, err
}

func (r *reservaRepo) FindActivasPorArticulo(ctx context.Context, articuloID uuid.UUID) ([]model.Reserva, error) {
	var reservas []model.Reserva
	err := r.db.WithContext(ctx).
		Where("articulo_id = ? AND estado = ?", articuloID, model.ReservaActiva).
		Find(&reservas).Error
	return reservas, err
}

func (r *reservaRepo) FindActivasPorLote(ctx context.Context, loteID uuid.UUID) ([]model.Reserva, error) {
	return activasPorLote(r.db.WithContext(ctx), loteID)
}

func (r *reservaRepo) FindActivasPorLoteTx(tx *gorm.DB, loteID uuid.UUID) ([]model.Reserva, error) {
	return activasPorLote(tx, loteID)
}

func activasPorLote(q *gorm.DB, loteID uuid.UUID) ([]model.Reserva, error) {
	var reservas []model.Reserva
	err := q.Where("lote_id = ? AND estado = ?", loteID, model.ReservaActiva).
		Find(&reservas).Error
	return reservas, err
}

func (r *reservaRepo) FindActivasPorOrden(ctx context.Context, ordenTrabajoID, articuloID uuid.UUID) ([]model.Reserva, error) {
	return activasPorOrden(r.db.WithContext(ctx), ordenTrabajoID, articuloID)
}

func (r *reservaRepo) FindActivasPorOrdenTx(tx *gorm.DB, ordenTrabajoID, articuloID uuid.UUID) ([]model.Reserva, error) {
	return activasPorOrden(tx, ordenTrabajoID, articuloID)
}

func activasPorOrden(q *gorm.DB, ordenTrabajoID, articuloID uuid.UUID) ([]model.Reserva, error) {
	var reservas []model.Reserva
	err := q.Where("orden_trabajo_id = ? AND articulo_id = ? AND estado = ?",
		ordenTrabajoID, articuloID, model.ReservaActiva).
		Find(&reservas).Error
	return reservas, err
}

func (r *reservaRepo) MarcarEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error {
	return tx.Model(&model.Reserva{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *reservaRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Reserva{}, id).Error
}
