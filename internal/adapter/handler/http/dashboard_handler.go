package http

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fitrahmoef/Saintara-Mobile/internal/middleware/auth"
	"github.com/fitrahmoef/Saintara-Mobile/internal/usecase"
)

type DashboardHandler struct {
	usecase *usecase.DashboardUsecase
	logger  *zap.Logger
}

func NewDashboardHandler(usecase *usecase.DashboardUsecase, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		usecase: usecase,
		logger:  logger,
	}
}

// CustomerStatistics handles GET /statistics/customer
func (h *DashboardHandler) CustomerStatistics(c echo.Context) error {
	principal, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	stats, err := h.usecase.CustomerStatistics(c.Request().Context(), principal)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get statistics")
	}
	return ok(c, stats)
}

// ListResults handles GET /test-results?page=&limit=&characterType=
func (h *DashboardHandler) ListResults(c echo.Context) error {
	principal, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	page, err := h.usecase.ListResults(c.Request().Context(), principal, c.QueryParam("characterType"), paginationParams(c))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list test results")
	}
	return ok(c, page)
}

// GetResult handles GET /test-results/:id
func (h *DashboardHandler) GetResult(c echo.Context) error {
	principal, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	id, err := uuidParam(c, "id")
	if err != nil {
		return respondError(c, h.logger, err, "Invalid result id")
	}

	result, err := h.usecase.GetResult(c.Request().Context(), principal, id)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get test result")
	}
	return ok(c, result)
}
