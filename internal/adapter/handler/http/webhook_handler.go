package http

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fitrahmoef/Saintara-Mobile/internal/usecase"
)

// maxNotificationBytes bounds webhook bodies
const maxNotificationBytes = 1 << 20

type WebhookHandler struct {
	usecase *usecase.PaymentUsecase
	logger  *zap.Logger
}

func NewWebhookHandler(usecase *usecase.PaymentUsecase, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		usecase: usecase,
		logger:  logger,
	}
}

// HandleWebhook handles POST /payments/webhook and /payments/webhook/:provider.
// The bare route belongs to the default gateway.
func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	providerName := c.Param("provider")

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxNotificationBytes))
	if err != nil {
		h.logger.Error("Error reading request body", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Error reading request body",
			"code":  "INVALID_ARGUMENT",
		})
	}

	h.logger.Info("Payment notification received",
		zap.String("provider", providerName),
		zap.Int("size", len(body)),
		zap.String("ip", c.RealIP()))

	if err := h.usecase.HandleNotification(c.Request().Context(), providerName, body, c.Request().Header); err != nil {
		return respondError(c, h.logger, err, "Failed to process payment notification")
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
