package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de origen de un lote — se guardan opacos para reporting posterior,
// el core no los interpreta.
const (
	OrigenProduccion = "produccion"
	OrigenCompra     = "compra"
	OrigenOtro       = "otro"
)

// Lote es una partida trazable de un artículo recibida en un momento dado,
// con su propio vencimiento y base de costo. Es propiedad exclusiva del
// repositorio de lotes; reservas y transferencias sólo lo referencian.
//
// CantidadInicial es el denominador de la base de costo: sólo se muta
// proporcionalmente en transferencias parciales (split) para no distorsionar
// los reportes de costo unitario.
type Lote struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ArticuloID uuid.UUID `gorm:"type:uuid;not null;index:idx_lotes_articulo_deposito"`
	DepositoID uuid.UUID `gorm:"type:uuid;not null;index:idx_lotes_articulo_deposito"`
	NumeroLote string    `gorm:"not null;index"`

	Cantidad        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CantidadInicial decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PrecioUnitario  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	// FechaVencimiento nil significa "sin vencimiento" — nunca "ya vencido".
	FechaVencimiento *time.Time
	FechaRecepcion   time.Time `gorm:"not null;index"`

	OrigenTipo  string     `gorm:"not null;default:'otro'"` // produccion | compra | otro
	OrigenRefID *uuid.UUID `gorm:"type:uuid"`

	CertificadoURL *string

	CreatedAt time.Time
	UpdatedAt time.Time

	Articulo *Articulo `gorm:"foreignKey:ArticuloID"`
}

func (Lote) TableName() string { return "lotes" }

// TieneVencimiento indica si el lote tiene fecha de vencimiento real.
// Fechas centinela heredadas (año <= 1970) se normalizan a nil en el borde
// de la API, así que acá alcanza con chequear el puntero.
func (l *Lote) TieneVencimiento() bool { return l.FechaVencimiento != nil }

// Vencido devuelve true sólo si el lote tiene vencimiento real ya pasado.
// El estado de vencimiento afecta la elegibilidad de asignación, nunca el
// total físico en existencia.
func (l *Lote) Vencido(ahora time.Time) bool {
	return l.FechaVencimiento != nil && l.FechaVencimiento.Before(ahora)
}
