package worksession

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tallermotos/internal/modules/lifecycle"
	"tallermotos/internal/pkg/response"
	"tallermotos/internal/repository"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the workflow endpoints. Role gates are applied by the
// caller per route group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, gate func(action string) gin.HandlerFunc) {
	rg.GET("/orders/:id", h.GetOrder)
	rg.GET("/orders/:id/history", h.GetHistory)
	rg.POST("/orders", gate("create"), h.Register)
	rg.POST("/orders/:id/diagnose", gate("diagnose"), h.Diagnose)
	rg.POST("/orders/:id/start", gate("start"), h.StartWork)
	rg.POST("/orders/:id/complete", gate("complete"), h.Complete)
	rg.POST("/orders/:id/deliver", gate("deliver"), h.Deliver)
	rg.POST("/orders/:id/cancel", gate("cancel"), h.Cancel)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.Register(c.Request.Context(), req, actorID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"order":          res.Order,
		"history_logged": res.HistoryErr == nil,
	})
}

func (h *Handler) Diagnose(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req DiagnoseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Diagnosis is required")
		return
	}

	res, err := h.service.Diagnose(c.Request.Context(), id, req.Diagnosis, actorID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"order":          res.Order,
		"history_logged": res.HistoryErr == nil,
	})
}

func (h *Handler) StartWork(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req StartWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.StartWork(c.Request.Context(), id, req, actorID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	// A batch with failures is still a state transition that happened; the
	// per-item report is the contract, not a collapsed pass/fail.
	status := http.StatusOK
	if len(res.Batch.Failed) > 0 {
		status = http.StatusMultiStatus
	}
	response.Success(c, status, gin.H{
		"order":          res.Order,
		"batch":          res.Batch,
		"history_logged": res.HistoryErr == nil,
	})
}

func (h *Handler) Complete(c *gin.Context) {
	h.transition(c, func(id, actor int64) (*Result, error) {
		return h.service.Complete(c.Request.Context(), id, actor)
	})
}

func (h *Handler) Deliver(c *gin.Context) {
	h.transition(c, func(id, actor int64) (*Result, error) {
		return h.service.Deliver(c.Request.Context(), id, actor)
	})
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Cancellation reason is required")
		return
	}

	res, err := h.service.Cancel(c.Request.Context(), id, req.Reason, actorID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"order":          res.Order,
		"history_logged": res.HistoryErr == nil,
	})
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	order, err := h.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"order": order})
}

func (h *Handler) GetHistory(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	entries, err := h.service.History(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"history": entries})
}

func (h *Handler) transition(c *gin.Context, fn func(id, actor int64) (*Result, error)) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	res, err := fn(id, actorID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"order":          res.Order,
		"history_logged": res.HistoryErr == nil,
	})
}

func orderID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID")
		return 0, false
	}
	return id, true
}

func actorID(c *gin.Context) int64 {
	return c.GetInt64("user_id")
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, lifecycle.ErrIllegalTransition), errors.Is(err, lifecycle.ErrUnknownAction):
		response.Error(c, http.StatusUnprocessableEntity, "ILLEGAL_TRANSITION", err.Error())
	case errors.Is(err, lifecycle.ErrPreconditionFailed):
		response.Error(c, http.StatusUnprocessableEntity, "PRECONDITION_FAILED", err.Error())
	case errors.Is(err, ErrOperationInProgress):
		response.Error(c, http.StatusConflict, "OPERATION_IN_PROGRESS", err.Error())
	case errors.Is(err, repository.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Order not found")
	case errors.Is(err, repository.ErrDuplicateNumber):
		response.Error(c, http.StatusConflict, "DUPLICATE_ORDER_NUMBER", err.Error())
	case errors.Is(err, repository.ErrConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", "Order was modified concurrently, refresh and retry")
	case errors.Is(err, repository.ErrUnavailable):
		response.Error(c, http.StatusBadGateway, "BACKEND_UNAVAILABLE", "Order store is unavailable")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed")
	}
}
