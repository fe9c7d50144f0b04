package handler

import (
	"net/http"

	"blendwms/internal/apierror"
	"blendwms/internal/dto"
	"blendwms/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LotesHandler struct{ svc service.InventarioService }

func NewLotesHandler(svc service.InventarioService) *LotesHandler {
	return &LotesHandler{svc: svc}
}

// Listar devuelve los lotes de un artículo, opcionalmente filtrados por
// depósito (?deposito_id=...).
func (h *LotesHandler) Listar(c *gin.Context) {
	articuloID, err := uuid.Parse(c.Param("articulo_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var depositoID *uuid.UUID
	if raw := c.Query("deposito_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("deposito_id invalido"))
			return
		}
		depositoID = &id
	}
	resp, err := h.svc.ListarLotes(c.Request.Context(), articuloID, depositoID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Ajustar aplica un delta manual firmado sobre un lote (conteo físico,
// rotura, merma).
func (h *LotesHandler) Ajustar(c *gin.Context) {
	loteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.AjusteLoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, _, err := h.svc.AjustarLote(c.Request.Context(), actorID(c), loteID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LotesHandler) Eliminar(c *gin.Context) {
	loteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if _, err := h.svc.EliminarLote(c.Request.Context(), actorID(c), loteID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
