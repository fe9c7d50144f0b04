package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de evento de dominio emitidos por las operaciones mutantes.
const (
	EventoRecepcion      = "stock.recepcion"
	EventoSalida         = "stock.salida"
	EventoTransferencia  = "stock.transferencia"
	EventoReserva        = "stock.reserva"
	EventoLiberacion     = "stock.liberacion"
	EventoAjuste         = "stock.ajuste"
	EventoBajaLote       = "stock.baja_lote"
	EventoPorVencer      = "stock.lote_por_vencer"
	EventoDriftCorregido = "stock.drift_corregido"
)

// EventoStock es un evento de dominio devuelto explícitamente por cada
// operación mutante. No hay bus global implícito: el llamador (handler, cron)
// decide qué colaborador lo consume — normalmente el dispatcher de
// notificaciones.
type EventoStock struct {
	Tipo           string          `json:"tipo"`
	ArticuloID     uuid.UUID       `json:"articulo_id"`
	LoteID         *uuid.UUID      `json:"lote_id,omitempty"`
	DepositoID     *uuid.UUID      `json:"deposito_id,omitempty"`
	OrdenTrabajoID *uuid.UUID      `json:"orden_trabajo_id,omitempty"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	Detalle        string          `json:"detalle,omitempty"`
}
