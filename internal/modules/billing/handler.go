package billing

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tallermotos/internal/pkg/response"
	"tallermotos/internal/repository"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, gate func(action string) gin.HandlerFunc) {
	rg.GET("/orders/:id/billing", gate("pay"), h.GetStatement)
	rg.POST("/orders/:id/payments", gate("pay"), h.RegisterPayment)
}

func (h *Handler) GetStatement(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	st, err := h.service.Statement(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"statement": st})
}

func (h *Handler) RegisterPayment(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req RegisterPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Amount and method are required")
		return
	}

	st, payment, err := h.service.RegisterFullPayment(c.Request.Context(), id, req.Amount, req.Method, req.Reference, c.GetInt64("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"payment":   payment,
		"statement": st,
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

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotBillable):
		response.Error(c, http.StatusUnprocessableEntity, "NOT_BILLABLE", err.Error())
	case errors.Is(err, ErrNothingPending):
		response.Error(c, http.StatusConflict, "NOTHING_PENDING", err.Error())
	case errors.Is(err, ErrAmountMismatch):
		response.Error(c, http.StatusConflict, "AMOUNT_MISMATCH", err.Error())
	case errors.Is(err, ErrOperationInProgress):
		response.Error(c, http.StatusConflict, "OPERATION_IN_PROGRESS", err.Error())
	case errors.Is(err, repository.ErrConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", "Order was modified concurrently, refresh and retry")
	case errors.Is(err, repository.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Order not found")
	case errors.Is(err, repository.ErrUnavailable):
		response.Error(c, http.StatusBadGateway, "BACKEND_UNAVAILABLE", "Order store is unavailable")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Billing operation failed")
	}
}
