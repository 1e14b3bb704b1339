package errors

import (
	apperrors "github.com/fitrahmoef/Saintara-Mobile/pkg/errors"
)

var (
	ErrUnauthenticated = apperrors.NewAppError(apperrors.ErrUnauthorized, "Authentication required", nil)
	ErrAdminOnly       = apperrors.NewAppError(apperrors.ErrForbidden, "Super admin access required", nil)

	ErrEmailTaken         = apperrors.NewAppError(apperrors.ErrEmailTaken, "Email is already registered", nil)
	ErrInvalidCredentials = apperrors.NewAppError(apperrors.ErrInvalidCredentials, "Invalid email or password", nil)
	ErrAccountInactive    = apperrors.NewAppError(apperrors.ErrAccountInactive, "Account is not active, please verify your email", nil)
	ErrInvalidToken       = apperrors.NewAppError(apperrors.ErrInvalidArgument, "Verification token is invalid or expired", nil)
	ErrUserNotFound       = apperrors.NewAppError(apperrors.ErrNotFound, "User not found", nil)

	ErrResultNotFound  = apperrors.NewAppError(apperrors.ErrNotFound, "Test result not found", nil)
	ErrResultForbidden = apperrors.NewAppError(apperrors.ErrForbidden, "You do not have access to this test result", nil)
)
