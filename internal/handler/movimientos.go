package handler

import (
	"net/http"

	"blendwms/internal/apierror"
	"blendwms/internal/dto"
	"blendwms/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MovimientosHandler struct{ svc service.InventarioService }

func NewMovimientosHandler(svc service.InventarioService) *MovimientosHandler {
	return &MovimientosHandler{svc: svc}
}

// Listar devuelve el historial de movimientos de un artículo, más reciente
// primero, paginado.
func (h *MovimientosHandler) Listar(c *gin.Context) {
	articuloID, err := uuid.Parse(c.Param("articulo_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var filter dto.MovimientoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Filtros invalidos"))
		return
	}
	resp, err := h.svc.ListarMovimientos(c.Request.Context(), articuloID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
