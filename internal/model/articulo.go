package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Articulo representa un ítem de inventario del sistema MRP.
// Cantidad y CantidadReservada son campos DERIVADOS: nunca se setean a mano.
// Cantidad la escribe únicamente el reconciliador (suma de lotes);
// CantidadReservada se mueve por deltas atómicos al reservar/liberar.
type Articulo struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre string    `gorm:"uniqueIndex;not null"`
	Unidad string    `gorm:"not null;default:'unidad'"`
	// Cantidad física total en todos los depósitos — derivada de los lotes.
	Cantidad decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	// CantidadReservada es la suma de reservas activas sobre el artículo.
	CantidadReservada decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PrecioUnitario    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (Articulo) TableName() string { return "articulos" }

// Disponible devuelve la cantidad no comprometida por reservas activas.
func (a *Articulo) Disponible() decimal.Decimal {
	return a.Cantidad.Sub(a.CantidadReservada)
}
