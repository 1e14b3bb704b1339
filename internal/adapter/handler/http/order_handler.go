package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/model"
	"github.com/fitrahmoef/Saintara-Mobile/internal/middleware/auth"
	"github.com/fitrahmoef/Saintara-Mobile/internal/usecase"
)

type OrderHandler struct {
	usecase *usecase.OrderUsecase
	logger  *zap.Logger
}

func NewOrderHandler(usecase *usecase.OrderUsecase, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		usecase: usecase,
		logger:  logger,
	}
}

type updateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" validate:"required,oneof=PROCESSING COMPLETED"`
}

// CreateOrder handles POST /test-orders/create
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	principal, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var req usecase.CreateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.logger, err, "Invalid create order request")
	}

	order, err := h.usecase.Create(c.Request().Context(), principal, req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to create test order")
	}

	return c.JSON(http.StatusCreated, order)
}

// ListOrders handles GET /test-orders?page=&limit=&status=
func (h *OrderHandler) ListOrders(c echo.Context) error {
	principal, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	page, err := h.usecase.List(c.Request().Context(), principal, c.QueryParam("status"), paginationParams(c))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list test orders")
	}

	h.logger.Debug("Retrieved test orders",
		zap.String("user_id", principal.UserID.String()),
		zap.Int("count", len(page.Data)),
		zap.Int64("total", page.Pagination.Total))

	return ok(c, page)
}

// GetOrder handles GET /test-orders/:id
func (h *OrderHandler) GetOrder(c echo.Context) error {
	principal, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	id, err := uuidParam(c, "id")
	if err != nil {
		return respondError(c, h.logger, err, "Invalid order id")
	}

	order, err := h.usecase.Get(c.Request().Context(), principal, id)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get test order")
	}

	return ok(c, order)
}

// CancelOrder handles POST /test-orders/:id/cancel
func (h *OrderHandler) CancelOrder(c echo.Context) error {
	principal, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	id, err := uuidParam(c, "id")
	if err != nil {
		return respondError(c, h.logger, err, "Invalid order id")
	}

	order, err := h.usecase.Cancel(c.Request().Context(), principal, id)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to cancel test order")
	}

	return ok(c, order)
}

// UpdateOrderStatus handles PATCH /admin/test-orders/:id/status
func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	principal, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	id, err := uuidParam(c, "id")
	if err != nil {
		return respondError(c, h.logger, err, "Invalid order id")
	}

	var req updateOrderStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.logger, err, "Invalid order status request")
	}

	order, err := h.usecase.UpdateStatus(c.Request().Context(), principal, id, req.Status)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to update test order status")
	}

	return ok(c, order)
}
