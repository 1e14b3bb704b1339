package entity

import (
	"github.com/google/uuid"

	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/model"
)

// Principal is the authenticated caller, passed explicitly into every use case
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   model.UserRole
}

// IsSuperAdmin reports whether ownership checks are bypassed
func (p Principal) IsSuperAdmin() bool {
	return p.Role == model.RoleSuperAdmin
}

// CanAccess reports whether the principal may act on a resource owned by ownerID
func (p Principal) CanAccess(ownerID uuid.UUID) bool {
	return p.IsSuperAdmin() || p.UserID == ownerID
}
