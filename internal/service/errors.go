package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de negocio del core de inventario. Todos se propagan al llamador
// (nunca se tragan): representan violaciones de reglas que la UI debe
// mostrar. Sólo los conflictos de concurrencia se reintentan internamente
// antes de aflorar.
var (
	ErrNoEncontrado          = errors.New("recurso no encontrado")
	ErrCantidadInvalida      = errors.New("cantidad invalida")
	ErrDepositoRequerido     = errors.New("deposito requerido")
	ErrDepositoIncorrecto    = errors.New("el lote no pertenece al deposito indicado")
	ErrLoteEnUso             = errors.New("el lote tiene reservas activas")
	ErrConflictoConcurrencia = errors.New("conflicto de concurrencia: reintentos agotados")
)

// StockInsuficienteError indica que la asignación no pudo cubrir la cantidad
// pedida. Siempre informa el faltante.
type StockInsuficienteError struct {
	Faltante decimal.Decimal
}

func (e *StockInsuficienteError) Error() string {
	return fmt.Sprintf("stock insuficiente: faltan %s unidades", e.Faltante.String())
}

// LoteInsuficienteError indica que un lote fijado no tiene disponible
// suficiente para la cantidad pedida.
type LoteInsuficienteError struct {
	Faltante decimal.Decimal
}

func (e *LoteInsuficienteError) Error() string {
	return fmt.Sprintf("cantidad insuficiente en el lote: faltan %s unidades", e.Faltante.String())
}
