package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type MovimientoFilter struct {
	Tipo  string `form:"tipo"`
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
}

type MovimientoResponse struct {
	ID                string          `json:"id"`
	Secuencia         int64           `json:"secuencia"`
	ArticuloID        string          `json:"articulo_id"`
	LoteID            *string         `json:"lote_id,omitempty"`
	Tipo              string          `json:"tipo"`
	Cantidad          decimal.Decimal `json:"cantidad"`
	CantidadAnterior  decimal.Decimal `json:"cantidad_anterior"`
	DepositoID        *string         `json:"deposito_id,omitempty"`
	DepositoDestinoID *string         `json:"deposito_destino_id,omitempty"`
	Referencia        string          `json:"referencia,omitempty"`
	OrigenTipo        string          `json:"origen_tipo,omitempty"`
	OrigenRefID       *string         `json:"origen_ref_id,omitempty"`
	UsuarioID         string          `json:"usuario_id"`
	CreatedAt         time.Time       `json:"created_at"`
}

type MovimientoListResponse struct {
	Data  []MovimientoResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}
