package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CrearArticuloRequest struct {
	Nombre         string          `json:"nombre" validate:"required"`
	Unidad         string          `json:"unidad" validate:"required"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"min=0"`
}

// ArticuloResponse expone el artículo con sus campos derivados. Cantidad y
// CantidadReservada nunca se aceptan desde el cliente.
type ArticuloResponse struct {
	ID                string          `json:"id"`
	Nombre            string          `json:"nombre"`
	Unidad            string          `json:"unidad"`
	Cantidad          decimal.Decimal `json:"cantidad"`
	CantidadReservada decimal.Decimal `json:"cantidad_reservada"`
	Disponible        decimal.Decimal `json:"disponible"`
	PrecioUnitario    decimal.Decimal `json:"precio_unitario"`
	CreatedAt         time.Time       `json:"created_at"`
}

type ArticuloFilter struct {
	Nombre string `form:"nombre"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

type ArticuloListResponse struct {
	Data  []ArticuloResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

type CrearDepositoRequest struct {
	Codigo string `json:"codigo" validate:"required"`
	Nombre string `json:"nombre" validate:"required"`
}

type DepositoResponse struct {
	ID     string `json:"id"`
	Codigo string `json:"codigo"`
	Nombre string `json:"nombre"`
}
