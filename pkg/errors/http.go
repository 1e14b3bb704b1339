package errors

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ToHTTPStatus converts an error code to an HTTP status code
func ToHTTPStatus(code string) int {
	return GetCodeMapping(code)
}

// ToHTTPError converts an error to an echo HTTP error
func ToHTTPError(err error) *echo.HTTPError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if As(err, &appErr) {
		return echo.NewHTTPError(ToHTTPStatus(appErr.Code()), appErr.Message())
	}

	if echoErr, ok := err.(*echo.HTTPError); ok {
		return echoErr
	}

	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// ToHTTPResponse converts an error to a status code and the JSON body
// the API answers with: {"error": "...", "code": "..."}.
// Errors without a code never leak their internal message.
func ToHTTPResponse(err error) (int, echo.Map) {
	var appErr *AppError
	if As(err, &appErr) {
		return ToHTTPStatus(appErr.Code()), echo.Map{
			"error": appErr.Message(),
			"code":  appErr.Code(),
		}
	}

	if echoErr, ok := err.(*echo.HTTPError); ok {
		return echoErr.Code, echo.Map{
			"error": echoErr.Message,
			"code":  httpStatusToCode(echoErr.Code),
		}
	}

	return http.StatusInternalServerError, echo.Map{
		"error": "Internal server error",
		"code":  ErrInternal,
	}
}

// httpStatusToCode converts an HTTP status code to an error code
func httpStatusToCode(status int) string {
	switch status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		return ErrInvalidArgument
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusConflict:
		return ErrConflict
	case http.StatusGatewayTimeout:
		return ErrTimeout
	case http.StatusNotImplemented:
		return ErrNotImplemented
	default:
		return ErrInternal
	}
}
