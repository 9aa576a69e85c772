// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth is the identity provider: registration, sign-in and token revocation.

Sign-in issues a short-lived RS256 access token carrying the member's id and role.
The role in a verified token is trusted until it expires, unless the member's tokens
were revoked by a role change or deactivation.

Architecture:

  - Service: Register and Login over the account repository.
  - RevocationStore: Redis marker "revoked before" per member.
*/
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/techhub/internal/platform/apperr"
	"github.com/taibuivan/techhub/internal/platform/constants"
	"github.com/taibuivan/techhub/internal/platform/sec"
	"github.com/taibuivan/techhub/internal/platform/validate"
	"github.com/taibuivan/techhub/internal/users/account"
)

// # Contracts & Types

// TokenProvider defines the contract for generating access tokens.
type TokenProvider interface {
	GenerateAccessToken(userID int64, email, role string, timeToLive time.Duration) (string, error)
}

// Service implements the registration and sign-in use cases.
type Service struct {
	accounts  account.Repository
	hasher    *sec.PasswordHasher
	tokens    TokenProvider
	hierarchy *sec.Hierarchy
	accessTTL time.Duration
	logger    *slog.Logger
}

// NewService constructs a new auth [Service].
func NewService(
	accounts account.Repository,
	hasher *sec.PasswordHasher,
	tokens TokenProvider,
	hierarchy *sec.Hierarchy,
	accessTTL time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		accounts:  accounts,
		hasher:    hasher,
		tokens:    tokens,
		hierarchy: hierarchy,
		accessTTL: accessTTL,
		logger:    logger,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

/*
Register validates, hashes, and persists a new member with the lowest role.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *account.User: Created entity
  - error: VALIDATION_ERROR, CONFLICT (email taken) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*account.User, error) {
	input.Email = strings.TrimSpace(input.Email)
	input.Name = strings.TrimSpace(input.Name)

	validator := &validate.Validator{}
	validator.
		Email(account.FieldEmail, input.Email).
		Required(account.FieldName, input.Name).
		MaxLen(account.FieldName, input.Name, 100).
		MinLen(account.FieldPassword, input.Password, constants.MinPasswordLength).
		Custom(account.FieldPassword, len(input.Password) > sec.MaxPasswordBytes, fmt.Sprintf("Maximum %d bytes", sec.MaxPasswordBytes))
	if err := validator.Err(); err != nil {
		return nil, err
	}

	hashedPassword, err := service.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &account.User{
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hashedPassword,
		Role:         service.hierarchy.Lowest(),
		IsActive:     true,
		ShowSkills:   true,
	}

	// The unique index on lower(email) reports duplicates as CONFLICT
	if err := service.accounts.Create(context, user); err != nil {
		if apperr.HasCode(err, apperr.CodeConflict) {
			return nil, apperr.Conflict("Email is already registered")
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	service.logger.InfoContext(context, "user_registered", slog.Int64("user_id", user.ID))
	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// Session is the result of a successful sign-in.
type Session struct {
	AccessToken string        `json:"access_token"`
	ExpiresAt   time.Time     `json:"expires_at"`
	User        *account.User `json:"user"`
}

/*
Login verifies credentials and issues an access token.

Unknown emails, wrong passwords and deactivated accounts all fail with the same
UNAUTHORIZED message so accounts cannot be enumerated.
*/
func (service *Service) Login(context context.Context, input LoginInput) (*Session, error) {
	input.Email = strings.TrimSpace(input.Email)

	validator := &validate.Validator{}
	validator.Required(account.FieldEmail, input.Email).Required(account.FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	invalid := apperr.Unauthorized("Invalid login credentials")

	user, err := service.accounts.FindByEmail(context, input.Email)
	if err != nil {
		if apperr.IsNotFound(err) {
			service.hasher.Spend(input.Password)
			return nil, invalid
		}
		return nil, fmt.Errorf("auth_service_login_failed: %w", err)
	}

	if !service.hasher.Matches(input.Password, user.PasswordHash) || !user.IsActive {
		service.logger.InfoContext(context, "login_rejected",
			slog.Int64("user_id", user.ID),
			slog.Bool("active", user.IsActive),
		)
		return nil, invalid
	}

	now := time.Now()
	accessToken, err := service.tokens.GenerateAccessToken(user.ID, user.Email, string(user.Role), service.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	if err := service.accounts.TouchLogin(context, user.ID, now); err != nil {
		service.logger.WarnContext(context, "touch_login_failed",
			slog.Int64("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	} else {
		user.LastLoginAt = &now
	}

	return &Session{
		AccessToken: accessToken,
		ExpiresAt:   now.Add(service.accessTTL),
		User:        user,
	}, nil
}
