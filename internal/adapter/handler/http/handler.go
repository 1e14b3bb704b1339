package http

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/entity"
	apperrors "github.com/fitrahmoef/Saintara-Mobile/pkg/errors"
)

// RequestValidator adapts go-playground/validator to echo
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *RequestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// bindAndValidate decodes the request body into req and validates it
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.NewAppError(apperrors.ErrInvalidArgument, "Invalid request body", err)
	}
	if err := c.Validate(req); err != nil {
		return apperrors.NewAppError(apperrors.ErrInvalidArgument, validationMessage(err), err)
	}
	return nil
}

func validationMessage(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		return "Invalid field " + errs[0].Namespace() + ": failed " + errs[0].Tag()
	}
	return "Invalid request"
}

// respondError writes the {"error", "code"} body for err
func respondError(c echo.Context, logger *zap.Logger, err error, msg string) error {
	apperrors.LogError(logger, err, msg,
		zap.String("method", c.Request().Method),
		zap.String("path", c.Request().URL.Path))
	status, body := apperrors.ToHTTPResponse(err)
	return c.JSON(status, body)
}

func uuidParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "Invalid "+name, err)
	}
	return id, nil
}

func paginationParams(c echo.Context) entity.PaginationParams {
	params := entity.PaginationParams{}
	if page, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		params.Page = page
	}
	if limit, err := strconv.Atoi(c.QueryParam("limit")); err == nil {
		params.Limit = limit
	}
	params.Validate()
	return params
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}
