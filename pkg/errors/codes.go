package errors

// Generic error codes
const (
	ErrInternal        = "INTERNAL"
	ErrNotFound        = "NOT_FOUND"
	ErrInvalidArgument = "INVALID_ARGUMENT"
	ErrUnauthorized    = "UNAUTHORIZED"
	ErrForbidden       = "FORBIDDEN"
	ErrConflict        = "CONFLICT"
	ErrTimeout         = "TIMEOUT"
	ErrNotImplemented  = "NOT_IMPLEMENTED"
)

// Business reason codes surfaced to API clients
const (
	ErrAlreadyPaid         = "ALREADY_PAID"
	ErrAlreadyPending      = "ALREADY_PENDING"
	ErrOrderCancelled      = "ORDER_CANCELLED"
	ErrOrderCompleted      = "ORDER_COMPLETED"
	ErrContactSupport      = "CONTACT_SUPPORT"
	ErrInvalidTransition   = "INVALID_TRANSITION"
	ErrGateway             = "GATEWAY_ERROR"
	ErrInvalidSignature    = "INVALID_SIGNATURE"
	ErrEmailTaken          = "EMAIL_TAKEN"
	ErrInvalidCredentials  = "INVALID_CREDENTIALS"
	ErrAccountInactive     = "ACCOUNT_INACTIVE"
	ErrInvalidNotification = "INVALID_NOTIFICATION"
)
