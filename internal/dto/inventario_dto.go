package dto

import (
	"time"

	"blendwms/internal/model"

	"github.com/shopspring/decimal"
)

// ── Recepción ────────────────────────────────────────────────────────────────

type RecepcionRequest struct {
	ArticuloID string          `json:"articulo_id" validate:"required,uuid4"`
	DepositoID string          `json:"deposito_id" validate:"required,uuid4"`
	Cantidad   decimal.Decimal `json:"cantidad" validate:"required,gt=0"`

	// NumeroLote opcional: si coincide con un lote existente del depósito se
	// incrementa ese lote; si está vacío se genera uno nuevo.
	NumeroLote       string          `json:"numero_lote"`
	PrecioUnitario   decimal.Decimal `json:"precio_unitario" validate:"min=0"`
	FechaVencimiento *time.Time      `json:"fecha_vencimiento"`
	OrigenTipo       string          `json:"origen_tipo" validate:"omitempty,oneof=produccion compra otro"`
	OrigenRefID      *string         `json:"origen_ref_id" validate:"omitempty,uuid4"`
	CertificadoURL   *string         `json:"certificado_url"`
}

type RecepcionResponse struct {
	Lote    LoteResponse        `json:"lote"`
	Eventos []model.EventoStock `json:"eventos"`
}

// ── Salida ───────────────────────────────────────────────────────────────────

type SalidaRequest struct {
	ArticuloID string          `json:"articulo_id" validate:"required,uuid4"`
	DepositoID string          `json:"deposito_id" validate:"required,uuid4"`
	Cantidad   decimal.Decimal `json:"cantidad" validate:"required,gt=0"`
	Politica   string          `json:"politica" validate:"omitempty,oneof=fefo fifo"`
	LoteFijoID *string         `json:"lote_fijo_id" validate:"omitempty,uuid4"`
	Referencia string          `json:"referencia"`
}

type SalidaResponse struct {
	Asignaciones []AsignacionItem    `json:"asignaciones"`
	Eventos      []model.EventoStock `json:"eventos"`
}

// AsignacionItem es la porción de una operación cubierta por un lote.
type AsignacionItem struct {
	LoteID     string          `json:"lote_id"`
	NumeroLote string          `json:"numero_lote,omitempty"`
	Cantidad   decimal.Decimal `json:"cantidad"`
}

// ── Reserva ──────────────────────────────────────────────────────────────────

type ReservaRequest struct {
	ArticuloID     string          `json:"articulo_id" validate:"required,uuid4"`
	OrdenTrabajoID string          `json:"orden_trabajo_id" validate:"required,uuid4"`
	Cantidad       decimal.Decimal `json:"cantidad" validate:"required,gt=0"`
	DepositoID     *string         `json:"deposito_id" validate:"omitempty,uuid4"`
	Politica       string          `json:"politica" validate:"omitempty,oneof=fefo fifo"`
	LoteFijoID     *string         `json:"lote_fijo_id" validate:"omitempty,uuid4"`
}

type ReservaResponse struct {
	LotesReservados []AsignacionItem `json:"lotes_reservados"`

	// YaReservado indica que la orden ya tenía reserva por la cantidad
	// pedida y la llamada fue un no-op idempotente.
	YaReservado bool                `json:"ya_reservado,omitempty"`
	Eventos     []model.EventoStock `json:"eventos"`
}

type CancelarReservaRequest struct {
	ArticuloID     string `json:"articulo_id" validate:"required,uuid4"`
	OrdenTrabajoID string `json:"orden_trabajo_id" validate:"required,uuid4"`
}

type CancelarReservaResponse struct {
	CantidadLiberada   decimal.Decimal     `json:"cantidad_liberada"`
	ReservasCanceladas int                 `json:"reservas_canceladas"`
	Eventos            []model.EventoStock `json:"eventos"`
}

// ── Lotes ────────────────────────────────────────────────────────────────────

type AjusteLoteRequest struct {
	// Delta firmado: positivo entra stock, negativo sale.
	Delta  decimal.Decimal `json:"delta" validate:"required"`
	Motivo string          `json:"motivo" validate:"required"`
}

type LoteResponse struct {
	ID               string          `json:"id"`
	ArticuloID       string          `json:"articulo_id"`
	DepositoID       string          `json:"deposito_id"`
	NumeroLote       string          `json:"numero_lote"`
	Cantidad         decimal.Decimal `json:"cantidad"`
	CantidadInicial  decimal.Decimal `json:"cantidad_inicial"`
	PrecioUnitario   decimal.Decimal `json:"precio_unitario"`
	FechaVencimiento *time.Time      `json:"fecha_vencimiento,omitempty"`
	FechaRecepcion   time.Time       `json:"fecha_recepcion"`
	OrigenTipo       string          `json:"origen_tipo"`
	OrigenRefID      *string         `json:"origen_ref_id,omitempty"`
	CertificadoURL   *string         `json:"certificado_url,omitempty"`
}

// ── Transferencia ────────────────────────────────────────────────────────────

type TransferenciaRequest struct {
	LoteID            string          `json:"lote_id" validate:"required,uuid4"`
	DepositoOrigenID  string          `json:"deposito_origen_id" validate:"required,uuid4"`
	DepositoDestinoID string          `json:"deposito_destino_id" validate:"required,uuid4"`
	Cantidad          decimal.Decimal `json:"cantidad" validate:"required,gt=0"`
}

type TransferenciaResponse struct {
	LoteDestinoID string `json:"lote_destino_id"`

	// Fusionado indica si la cantidad se sumó a un lote equivalente
	// preexistente en el destino en lugar de crear uno nuevo.
	Fusionado bool                `json:"fusionado"`
	Eventos   []model.EventoStock `json:"eventos"`
}
