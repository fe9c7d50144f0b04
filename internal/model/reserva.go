package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de una reserva. El único camino que cambia el estado es
// CancelarReserva (o la finalización de la orden); el consumo físico se
// registra por separado vía salidas.
const (
	ReservaActiva     = "activa"
	ReservaCompletada = "completada"
	ReservaCancelada  = "cancelada"
)

// Reserva es un compromiso blando de cantidad contra una orden de trabajo:
// reduce lo disponible para otras órdenes sin descontar stock físico.
// Muchas reservas pueden apuntar al mismo lote; el lote nunca es dueño de
// sus reservas (sólo back-reference).
type Reserva struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ArticuloID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_reservas_orden_articulo"`
	LoteID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrdenTrabajoID uuid.UUID       `gorm:"type:uuid;not null;index:idx_reservas_orden_articulo"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Estado         string          `gorm:"not null;default:'activa';index"`
	CreatedAt      time.Time
}

func (Reserva) TableName() string { return "reservas" }

// Activa indica si la reserva sigue comprometiendo stock.
func (r *Reserva) Activa() bool { return r.Estado == ReservaActiva }
