package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de stock.
const (
	MovRecepcion     = "recepcion"
	MovSalida        = "salida"
	MovTransferencia = "transferencia"
	MovReserva       = "reserva"
	MovLiberacion    = "liberacion"
	MovAjuste        = "ajuste"
	MovBajaLote      = "baja_lote"
)

// MovimientoStock es una entrada append-only del libro de auditoría de stock.
// Una vez escrita no se actualiza ni se borra; la historia por artículo se
// consume ordenada por (created_at, secuencia) descendente.
//
// Secuencia es un BIGSERIAL: da el orden de commit lógico observable incluso
// con escritores concurrentes dentro del mismo milisegundo.
type MovimientoStock struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Secuencia int64     `gorm:"autoIncrement;uniqueIndex"`

	ArticuloID uuid.UUID  `gorm:"type:uuid;not null;index"`
	LoteID     *uuid.UUID `gorm:"type:uuid;index"` // nil para eventos a nivel artículo

	Tipo             string          `gorm:"not null;index"`
	Cantidad         decimal.Decimal `gorm:"type:decimal(18,4);not null"` // positiva = entrada, negativa = salida
	CantidadAnterior decimal.Decimal `gorm:"type:decimal(18,4);not null"`

	DepositoID *uuid.UUID `gorm:"type:uuid"`
	// DepositoDestinoID sólo se completa en transferencias: una única entrada
	// registra ambos depósitos.
	DepositoDestinoID *uuid.UUID `gorm:"type:uuid"`

	Referencia  string
	OrigenTipo  string
	OrigenRefID *uuid.UUID `gorm:"type:uuid"`

	UsuarioID uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time `gorm:"index"`

	Articulo *Articulo `gorm:"foreignKey:ArticuloID"`
}

func (MovimientoStock) TableName() string { return "movimientos_stock" }
