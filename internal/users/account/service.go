// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/techhub/internal/platform/apperr"
	"github.com/taibuivan/techhub/internal/platform/constants"
	"github.com/taibuivan/techhub/internal/platform/sec"
	"github.com/taibuivan/techhub/internal/platform/validate"
	"github.com/taibuivan/techhub/pkg/slice"
)

// Profile limits.
const (
	maxNameLength  = 100
	maxBioLength   = 2000
	maxSkills      = 30
	maxSkillLength = 50
	maxLinks       = 10
)

// # Service Layer

// Service orchestrates profile reads and edits and the bootstrap provisioning.
type Service struct {
	repository Repository
	hasher     *sec.PasswordHasher
	hierarchy  *sec.Hierarchy
	logger     *slog.Logger
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(repository Repository, hasher *sec.PasswordHasher, hierarchy *sec.Hierarchy, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		hasher:     hasher,
		hierarchy:  hierarchy,
		logger:     logger,
	}
}

// # Profile Management

/*
GetProfile retrieves the full private identity of the calling member.

Parameters:
  - context: context.Context
  - actor: sec.Actor

Returns:
  - *User: The hydrated user profile
  - error: UNAUTHORIZED for anonymous callers, NOT_FOUND or storage failures
*/
func (service *Service) GetProfile(context context.Context, actor sec.Actor) (*User, error) {
	if actor.IsAnonymous() {
		return nil, apperr.Unauthorized("Authentication required")
	}

	user, err := service.repository.FindByID(context, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return user, nil
}

// PublicProfile returns the profile other members may see. Deactivated accounts are hidden.
func (service *Service) PublicProfile(context context.Context, userID int64) (*PublicProfile, error) {
	user, err := service.repository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, apperr.NotFound(resourceName)
	}

	profile := user.Public()
	return &profile, nil
}

// UpdateProfileInput defines the mutable subset of user profile fields.
type UpdateProfileInput struct {
	Name       *string           `json:"name"`
	Bio        *string           `json:"bio"`
	Skills     []string          `json:"skills"`
	Links      map[string]string `json:"links"`
	ShowEmail  *bool             `json:"show_email"`
	ShowSkills *bool             `json:"show_skills"`
}

/*
UpdateProfile applies a partial set of changes to the caller's own profile.

Role, activation and the protected flag are not reachable from here.

Parameters:
  - context: context.Context
  - actor: sec.Actor
  - input: UpdateProfileInput (nil fields are left unchanged)

Returns:
  - *User: The updated user profile
  - error: VALIDATION_ERROR, NOT_FOUND or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, actor sec.Actor, input UpdateProfileInput) (*User, error) {
	user, err := service.GetProfile(context, actor)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
		validator.Required(FieldName, user.Name).MaxLen(FieldName, user.Name, maxNameLength)
	}

	if input.Bio != nil {
		user.Bio = strings.TrimSpace(*input.Bio)
		validator.MaxLen(FieldBio, user.Bio, maxBioLength)
	}

	if input.Skills != nil {
		skills := slice.Clean(input.Skills)
		validator.Custom(FieldSkills, len(skills) > maxSkills, fmt.Sprintf("At most %d skills", maxSkills))
		for _, skill := range skills {
			validator.MaxLen(FieldSkills, skill, maxSkillLength)
		}
		user.Skills = skills
	}

	if input.Links != nil {
		validator.Custom(FieldLinks, len(input.Links) > maxLinks, fmt.Sprintf("At most %d links", maxLinks))
		for _, link := range input.Links {
			validator.URL(FieldLinks, link)
		}
		user.Links = input.Links
	}

	if input.ShowEmail != nil {
		user.ShowEmail = *input.ShowEmail
	}
	if input.ShowSkills != nil {
		user.ShowSkills = *input.ShowSkills
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repository.UpdateProfile(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.InfoContext(context, "user_profile_updated", slog.Int64("user_id", user.ID))
	return user, nil
}

// # Bootstrap

// BootstrapInput describes the platform owner account created at first start.
type BootstrapInput struct {
	Email    string
	Name     string
	Password string
}

/*
EnsureBootstrapAdmin provisions the protected administrator with the highest role.

Running it again is a no-op once the protected account exists, whatever the input.

Returns:
  - *User: The protected account
  - error: VALIDATION_ERROR, CONFLICT or storage failures
*/
func (service *Service) EnsureBootstrapAdmin(context context.Context, input BootstrapInput) (*User, error) {
	validator := &validate.Validator{}
	validator.
		Email(FieldEmail, input.Email).
		Required(FieldName, input.Name).
		MinLen(FieldPassword, input.Password, constants.MinPasswordLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	hash, err := service.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("account_service_bootstrap_hash_failed: %w", err)
	}

	user := &User{
		Email:        strings.TrimSpace(input.Email),
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: hash,
		Role:         service.hierarchy.Highest(),
		ShowSkills:   true,
	}

	created, err := service.repository.EnsureProtected(context, user)
	if err != nil {
		return nil, fmt.Errorf("account_service_bootstrap_failed: %w", err)
	}

	if created {
		service.logger.Warn("bootstrap_admin_created",
			slog.Int64("user_id", user.ID),
			slog.String("role", string(user.Role)),
		)
	}
	return user, nil
}
