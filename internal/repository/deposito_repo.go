package repository

import (
	"context"

	"blendwms/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DepositoRepository es el contrato de acceso a datos de depósitos.
type DepositoRepository interface {
	Create(ctx context.Context, d *model.Deposito) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Deposito, error)
	List(ctx context.Context) ([]model.Deposito, error)
}

type depositoRepo struct{ db *gorm.DB }

func NewDepositoRepository(db *gorm.DB) DepositoRepository { return &depositoRepo{db: db} }

func (r *depositoRepo) Create(ctx context.Context, d *model.Deposito) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *depositoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Deposito, error) {
	var d model.Deposito
	err := r.db.WithContext(ctx).First(&d, id).Error
	return &d, err
}

func (r *depositoRepo) List(ctx context.Context) ([]model.Deposito, error) {
	var depositos []model.Deposito
	err := r.db.WithContext(ctx).Order("codigo ASC").Find(&depositos).Error
	return depositos, err
}
