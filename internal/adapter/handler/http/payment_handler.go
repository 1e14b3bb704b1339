package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fitrahmoef/Saintara-Mobile/internal/middleware/auth"
	"github.com/fitrahmoef/Saintara-Mobile/internal/usecase"
)

type PaymentHandler struct {
	usecase *usecase.PaymentUsecase
	logger  *zap.Logger
}

func NewPaymentHandler(usecase *usecase.PaymentUsecase, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		usecase: usecase,
		logger:  logger,
	}
}

// CreatePayment handles POST /payments/create
func (h *PaymentHandler) CreatePayment(c echo.Context) error {
	principal, err := auth.RequireAuth(c)
	if err != nil {
		return err // RequireAuth already returns the JSON error response
	}

	var req usecase.CreatePaymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.logger, err, "Invalid create payment request")
	}

	h.logger.Info("Creating payment",
		zap.String("user_id", principal.UserID.String()),
		zap.String("order_id", req.OrderID.String()),
		zap.String("method", req.Method))

	resp, err := h.usecase.CreatePayment(c.Request().Context(), principal, req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to create payment")
	}

	return c.JSON(http.StatusCreated, resp)
}

// GetPayment handles GET /payments/:id
func (h *PaymentHandler) GetPayment(c echo.Context) error {
	principal, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	id, err := uuidParam(c, "id")
	if err != nil {
		return respondError(c, h.logger, err, "Invalid payment id")
	}

	payment, err := h.usecase.GetPayment(c.Request().Context(), principal, id)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get payment")
	}

	return ok(c, payment)
}
