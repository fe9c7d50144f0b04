package handler

import (
	"errors"
	"net/http"
	"reflect"

	"blendwms/internal/apierror"
	"blendwms/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError traduce la taxonomía de errores del dominio a códigos HTTP.
// Todo lo que no es un error conocido del dominio sale como 500 genérico
// para no filtrar detalles internos.
func respondError(c *gin.Context, err error) {
	var insuf *service.StockInsuficienteError
	var loteInsuf *service.LoteInsuficienteError

	switch {
	case errors.Is(err, service.ErrNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.NewCoded("no_encontrado", err.Error()))
	case errors.Is(err, service.ErrCantidadInvalida):
		c.JSON(http.StatusBadRequest, apierror.NewCoded("cantidad_invalida", err.Error()))
	case errors.Is(err, service.ErrDepositoRequerido):
		c.JSON(http.StatusBadRequest, apierror.NewCoded("deposito_requerido", err.Error()))
	case errors.Is(err, service.ErrDepositoIncorrecto):
		c.JSON(http.StatusConflict, apierror.NewCoded("deposito_incorrecto", err.Error()))
	case errors.Is(err, service.ErrLoteEnUso):
		c.JSON(http.StatusConflict, apierror.NewCoded("lote_en_uso", err.Error()))
	case errors.Is(err, service.ErrConflictoConcurrencia):
		c.JSON(http.StatusConflict, apierror.NewCoded("conflicto_concurrencia", err.Error()))
	case errors.As(err, &insuf):
		c.JSON(http.StatusConflict, apierror.NewCoded("stock_insuficiente", err.Error()))
	case errors.As(err, &loteInsuf):
		c.JSON(http.StatusConflict, apierror.NewCoded("lote_insuficiente", err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno"))
	}
}
