package model

import (
	"time"

	"github.com/google/uuid"
)

// Deposito es un almacén físico. El core sólo necesita su identidad para
// validar pertenencia de lotes y destinos de transferencia.
type Deposito struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo    string    `gorm:"uniqueIndex;not null"`
	Nombre    string    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Deposito) TableName() string { return "depositos" }
