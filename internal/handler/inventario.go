package handler

import (
	"net/http"

	"blendwms/internal/apierror"
	"blendwms/internal/dto"
	"blendwms/internal/middleware"
	"blendwms/internal/model"
	"blendwms/internal/service"
	"blendwms/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InventarioHandler struct {
	svc           service.InventarioService
	transferencia service.TransferenciaService
	reconciliador service.ReconciliacionService
	dispatcher    *worker.Dispatcher
}

// NewInventarioHandler wires the stock services. dispatcher may be nil in
// unit tests; events are then simply not fanned out.
func NewInventarioHandler(
	svc service.InventarioService,
	transferencia service.TransferenciaService,
	reconciliador service.ReconciliacionService,
	dispatcher *worker.Dispatcher,
) *InventarioHandler {
	return &InventarioHandler{
		svc:           svc,
		transferencia: transferencia,
		reconciliador: reconciliador,
		dispatcher:    dispatcher,
	}
}

func (h *InventarioHandler) fanOut(c *gin.Context, eventos []model.EventoStock) {
	if h.dispatcher == nil || len(eventos) == 0 {
		return
	}
	h.dispatcher.EnqueueEventos(c.Request.Context(), eventos)
}

func actorID(c *gin.Context) uuid.UUID {
	claims := middleware.GetClaims(c)
	id, _ := uuid.Parse(claims.UserID)
	return id
}

func (h *InventarioHandler) RegistrarRecepcion(c *gin.Context) {
	var req dto.RecepcionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarRecepcion(c.Request.Context(), actorID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.fanOut(c, resp.Eventos)
	c.JSON(http.StatusCreated, resp)
}

func (h *InventarioHandler) RegistrarSalida(c *gin.Context) {
	var req dto.SalidaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarSalida(c.Request.Context(), actorID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.fanOut(c, resp.Eventos)
	c.JSON(http.StatusCreated, resp)
}

func (h *InventarioHandler) Reservar(c *gin.Context) {
	var req dto.ReservaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Reservar(c.Request.Context(), actorID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.fanOut(c, resp.Eventos)
	status := http.StatusCreated
	if resp.YaReservado {
		// Reintento idempotente: no se creó nada nuevo.
		status = http.StatusOK
	}
	c.JSON(status, resp)
}

func (h *InventarioHandler) CancelarReserva(c *gin.Context) {
	var req dto.CancelarReservaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CancelarReserva(c.Request.Context(), actorID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.fanOut(c, resp.Eventos)
	c.JSON(http.StatusOK, resp)
}

func (h *InventarioHandler) Transferir(c *gin.Context) {
	var req dto.TransferenciaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.transferencia.Transferir(c.Request.Context(), actorID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.fanOut(c, resp.Eventos)
	c.JSON(http.StatusCreated, resp)
}

// Reconciliar fuerza el recálculo del total derivado de un artículo.
// El cron lo hace solo periódicamente; este endpoint existe para soporte.
func (h *InventarioHandler) Reconciliar(c *gin.Context) {
	articuloID, err := uuid.Parse(c.Param("articulo_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	total, err := h.reconciliador.Recalcular(c.Request.Context(), articuloID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"articulo_id": articuloID.String(), "cantidad": total})
}
