package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	domainErrors "github.com/fitrahmoef/Saintara-Mobile/internal/domain/errors"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/entity"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/event"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/model"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/repository"
)

const verificationTTL = 24 * time.Hour

// TokenIssuer signs access tokens for authenticated users
type TokenIssuer interface {
	Issue(user *model.User) (string, time.Time, error)
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"fullName" validate:"required,max=255"`
	Phone    string `json:"phone,omitempty" validate:"max=50"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      *model.User `json:"user"`
}

type AuthUsecase struct {
	store      repository.Store
	tokens     TokenIssuer
	events     *EventPublisher
	bcryptCost int
	logger     *zap.Logger
}

func NewAuthUsecase(store repository.Store, tokens TokenIssuer, events *EventPublisher, logger *zap.Logger) *AuthUsecase {
	return &AuthUsecase{
		store:      store,
		tokens:     tokens,
		events:     events,
		bcryptCost: bcrypt.DefaultCost,
		logger:     logger,
	}
}

// Register creates an account awaiting email verification
func (u *AuthUsecase) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := u.store.Users().FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domainErrors.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), u.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	token, err := gonanoid.New(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification token: %w", err)
	}
	expiresAt := time.Now().UTC().Add(verificationTTL)

	user := &model.User{
		Email:               email,
		PasswordHash:        string(hash),
		FullName:            req.FullName,
		Role:                model.RoleCustomer,
		Status:              model.UserStatusPendingVerification,
		VerificationToken:   &token,
		VerificationExpires: &expiresAt,
	}
	if req.Phone != "" {
		phone := req.Phone
		user.Phone = &phone
	}

	err = u.store.WithinTransaction(ctx, func(tx repository.Store) error {
		if err := tx.Users().Create(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domainErrors.ErrEmailTaken
			}
			return err
		}
		return tx.Activities().Create(ctx, newActivity(user.ID, model.ActivityRegister, "Account registered",
			"Registered with "+user.Email, "user", user.ID.String()))
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info("User registered", zap.String("user_id", user.ID.String()))

	u.events.publish(ctx, event.TypeUserRegistered, user.ID.String(), event.UserRegistered{
		UserID:            user.ID,
		Email:             user.Email,
		FullName:          user.FullName,
		VerificationToken: token,
		ExpiresAt:         expiresAt,
	})

	return user, nil
}

// VerifyEmail activates the account holding token
func (u *AuthUsecase) VerifyEmail(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, domainErrors.ErrInvalidToken
	}

	user, err := u.store.Users().FindByVerificationToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if user == nil || user.VerificationExpires == nil || time.Now().After(*user.VerificationExpires) {
		return nil, domainErrors.ErrInvalidToken
	}

	now := time.Now().UTC()
	err = u.store.WithinTransaction(ctx, func(tx repository.Store) error {
		if err := tx.Users().Update(ctx, user.ID, map[string]interface{}{
			"status":               model.UserStatusActive,
			"email_verified_at":    now,
			"verification_token":   nil,
			"verification_expires": nil,
		}); err != nil {
			return err
		}
		return tx.Activities().Create(ctx, newActivity(user.ID, model.ActivityVerifyEmail, "Email verified",
			"", "user", user.ID.String()))
	})
	if err != nil {
		return nil, err
	}

	user.Status = model.UserStatusActive
	user.EmailVerifiedAt = &now
	user.VerificationToken = nil
	user.VerificationExpires = nil

	u.logger.Info("Email verified", zap.String("user_id", user.ID.String()))
	return user, nil
}

// Login checks credentials and issues an access token
func (u *AuthUsecase) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := u.store.Users().FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domainErrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		u.logger.Info("Login failed", zap.String("user_id", user.ID.String()))
		return nil, domainErrors.ErrInvalidCredentials
	}
	if user.Status != model.UserStatusActive {
		return nil, domainErrors.ErrAccountInactive
	}

	token, expiresAt, err := u.tokens.Issue(user)
	if err != nil {
		u.logger.Error("failed to issue token", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	now := time.Now().UTC()
	err = u.store.WithinTransaction(ctx, func(tx repository.Store) error {
		if err := tx.Users().Update(ctx, user.ID, map[string]interface{}{"last_login_at": now}); err != nil {
			return err
		}
		return tx.Activities().Create(ctx, newActivity(user.ID, model.ActivityLogin, "Logged in",
			"", "user", user.ID.String()))
	})
	if err != nil {
		return nil, err
	}
	user.LastLoginAt = &now

	return &LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

// Me returns the principal's profile
func (u *AuthUsecase) Me(ctx context.Context, principal entity.Principal) (*model.User, error) {
	user, err := u.store.Users().FindByID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domainErrors.ErrUserNotFound
	}
	return user, nil
}
