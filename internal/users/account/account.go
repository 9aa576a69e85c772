// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles member identity records and their public profiles.

It owns the User entity shared by the auth and admin packages, lets members edit
their own profile, and provisions the protected bootstrap administrator at startup.

# Architecture

  - Entities: User, PublicProfile (DTO).
  - Role and activation state are read here but only changed by the admin package.
*/
package account

import (
	"context"
	"time"

	"github.com/taibuivan/techhub/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the techhub platform.
type User struct {
	ID           int64             `json:"id"`
	Email        string            `json:"email"`
	PasswordHash string            `json:"-"` // Explicitly omitted from JSON for security.
	Name         string            `json:"name"`
	Role         sec.Role          `json:"role"`
	IsActive     bool              `json:"is_active"`
	IsProtected  bool              `json:"is_protected"`
	Bio          string            `json:"bio"`
	Skills       []string          `json:"skills"`
	Links        map[string]string `json:"links"`
	ShowEmail    bool              `json:"show_email"`
	ShowSkills   bool              `json:"show_skills"`
	LastLoginAt  *time.Time        `json:"last_login_at,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Actor returns the identity services authorize against.
func (u *User) Actor() sec.Actor {
	return sec.Actor{UserID: u.ID, Role: u.Role}
}

// PublicProfile is what other members see. Email and skills honor the visibility flags.
type PublicProfile struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	Role      sec.Role          `json:"role"`
	Bio       string            `json:"bio,omitempty"`
	Email     string            `json:"email,omitempty"`
	Skills    []string          `json:"skills,omitempty"`
	Links     map[string]string `json:"links,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Public projects the user onto its public profile.
func (u *User) Public() PublicProfile {
	profile := PublicProfile{
		ID:        u.ID,
		Name:      u.Name,
		Role:      u.Role,
		Bio:       u.Bio,
		Links:     u.Links,
		CreatedAt: u.CreatedAt,
	}
	if u.ShowEmail {
		profile.Email = u.Email
	}
	if u.ShowSkills {
		profile.Skills = u.Skills
	}
	return profile
}

// # Field Identifiers

const (
	FieldEmail      = "email"
	FieldPassword   = "password"
	FieldName       = "name"
	FieldBio        = "bio"
	FieldSkills     = "skills"
	FieldLinks      = "links"
	FieldShowEmail  = "show_email"
	FieldShowSkills = "show_skills"
)

// # Repository Contracts

// Repository defines the persistence contract for user accounts.
type Repository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Returns:
		  - *User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id int64) (*User, error)

	// FindByEmail looks up a user case-insensitively.
	FindByEmail(context context.Context, email string) (*User, error)

	// Create inserts a new user and fills ID and timestamps. Duplicate emails are CONFLICT.
	Create(context context.Context, user *User) error

	// UpdateProfile writes the member-editable fields only.
	UpdateProfile(context context.Context, user *User) error

	// TouchLogin records a successful sign-in.
	TouchLogin(context context.Context, id int64, at time.Time) error

	/*
		EnsureProtected inserts user as the protected account unless one already exists.

		Returns:
		  - bool: true when the account was created by this call
		  - error: CONFLICT when the email belongs to an ordinary account
	*/
	EnsureProtected(context context.Context, user *User) (bool, error)
}
