package model

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleCustomer      UserRole = "CUSTOMER"
	RoleSuperAdmin    UserRole = "SUPER_ADMIN"
	RoleAdminInstansi UserRole = "ADMIN_INSTANSI"
)

type UserStatus string

const (
	UserStatusPendingVerification UserStatus = "PENDING_VERIFICATION"
	UserStatusActive              UserStatus = "ACTIVE"
	UserStatusSuspended           UserStatus = "SUSPENDED"
)

type User struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email               string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash        string     `gorm:"size:255;not null" json:"-"`
	FullName            string     `gorm:"size:255;not null" json:"full_name"`
	Phone               *string    `gorm:"size:50" json:"phone,omitempty"`
	Role                UserRole   `gorm:"size:30;not null" json:"role"`
	Status              UserStatus `gorm:"size:30;not null" json:"status"`
	VerificationToken   *string    `gorm:"size:100;index" json:"-"`
	VerificationExpires *time.Time `json:"-"`
	EmailVerifiedAt     *time.Time `json:"email_verified_at,omitempty"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
