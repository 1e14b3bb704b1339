package errors

import "net/http"

// codeMapping maps error codes to HTTP status codes
var codeMapping = map[string]int{
	ErrInternal:        http.StatusInternalServerError,
	ErrNotFound:        http.StatusNotFound,
	ErrInvalidArgument: http.StatusBadRequest,
	ErrUnauthorized:    http.StatusUnauthorized,
	ErrForbidden:       http.StatusForbidden,
	ErrConflict:        http.StatusConflict,
	ErrTimeout:         http.StatusGatewayTimeout,
	ErrNotImplemented:  http.StatusNotImplemented,

	ErrAlreadyPaid:         http.StatusBadRequest,
	ErrAlreadyPending:      http.StatusBadRequest,
	ErrOrderCancelled:      http.StatusBadRequest,
	ErrOrderCompleted:      http.StatusBadRequest,
	ErrContactSupport:      http.StatusBadRequest,
	ErrInvalidTransition:   http.StatusBadRequest,
	ErrInvalidNotification: http.StatusBadRequest,
	ErrGateway:             http.StatusInternalServerError,
	ErrInvalidSignature:    http.StatusUnauthorized,
	ErrInvalidCredentials:  http.StatusUnauthorized,
	ErrAccountInactive:     http.StatusForbidden,
	ErrEmailTaken:          http.StatusConflict,
}

// GetCodeMapping returns the HTTP status for an error code.
// Unknown codes map to 500.
func GetCodeMapping(code string) int {
	if status, ok := codeMapping[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
