// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"
	"strings"

	"github.com/taibuivan/techhub/internal/platform/apperr"
)

// # User Roles

// Role represents the authorization level granted to an account.
type Role string

const (
	// Default role for registered users and anonymous visitors
	RoleUser Role = "user"

	// Trusted community members who contribute content regularly
	RoleContributor Role = "contributor"

	// Can approve or reject submitted content
	RoleModerator Role = "moderator"

	// Can curate content (featuring, editing any submission)
	RoleEditor Role = "editor"

	// Can read the full audit trail and manage the platform
	RoleAdmin Role = "admin"

	// Only role allowed to grant or revoke roles
	RoleCoreAdmin Role = "core_admin"
)

// DefaultRoleOrder is the role hierarchy from lowest to highest privilege.
var DefaultRoleOrder = []string{
	string(RoleUser),
	string(RoleContributor),
	string(RoleModerator),
	string(RoleEditor),
	string(RoleAdmin),
	string(RoleCoreAdmin),
}

// # Role Hierarchy

// RoleInfo describes one entry of a [Hierarchy].
type RoleInfo struct {
	Role        Role   `json:"role"`
	Level       int    `json:"level"`
	DisplayName string `json:"display_name"`
}

// Hierarchy is the immutable, ordered role table used for every authorization comparison.
//
// It is built once at startup and injected wherever roles are compared. Levels are the
// position of the role in the configured order, starting at 0.
type Hierarchy struct {
	order  []RoleInfo
	levels map[Role]int
}

// NewHierarchy builds a [Hierarchy] from role names ordered lowest to highest.
func NewHierarchy(names ...string) (*Hierarchy, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("sec: role hierarchy must not be empty")
	}

	hierarchy := &Hierarchy{
		order:  make([]RoleInfo, 0, len(names)),
		levels: make(map[Role]int, len(names)),
	}

	for level, name := range names {
		role := Role(strings.TrimSpace(name))
		if role == "" {
			return nil, fmt.Errorf("sec: role hierarchy contains an empty name at position %d", level)
		}
		if _, exists := hierarchy.levels[role]; exists {
			return nil, fmt.Errorf("sec: role %q appears twice in the hierarchy", role)
		}

		hierarchy.levels[role] = level
		hierarchy.order = append(hierarchy.order, RoleInfo{
			Role:        role,
			Level:       level,
			DisplayName: displayName(role),
		})
	}

	return hierarchy, nil
}

/*
NewPlatformHierarchy is [NewHierarchy] for the roles this platform's code refers to.

Extra roles may be inserted anywhere, but every built-in role must be present in
its built-in order, and [RoleUser] must be the lowest: anonymous callers and new
members both hold it.
*/
func NewPlatformHierarchy(names ...string) (*Hierarchy, error) {
	hierarchy, err := NewHierarchy(names...)
	if err != nil {
		return nil, err
	}

	if lowest := hierarchy.Lowest(); lowest != RoleUser {
		return nil, fmt.Errorf("sec: lowest role must be %q, got %q", RoleUser, lowest)
	}

	previous := -1
	for _, name := range DefaultRoleOrder {
		level, ok := hierarchy.levels[Role(name)]
		if !ok {
			return nil, fmt.Errorf("sec: role hierarchy is missing %q", name)
		}
		if level <= previous {
			return nil, fmt.Errorf("sec: role %q is ordered below %q", name, hierarchy.order[previous].Role)
		}
		previous = level
	}

	return hierarchy, nil
}

// DefaultHierarchy returns the platform's standard six-level hierarchy.
func DefaultHierarchy() *Hierarchy {
	hierarchy, err := NewPlatformHierarchy(DefaultRoleOrder...)
	if err != nil {
		panic("sec: default hierarchy is invalid: " + err.Error())
	}
	return hierarchy
}

// LevelOf returns the numeric level of role.
//
// An unrecognized role is an INVALID_ROLE error, never the lowest privilege.
func (h *Hierarchy) LevelOf(role Role) (int, error) {
	level, ok := h.levels[role]
	if !ok {
		return 0, apperr.InvalidRole(string(role))
	}
	return level, nil
}

// AtLeast reports whether caller's level is greater than or equal to required's level.
func (h *Hierarchy) AtLeast(caller, required Role) (bool, error) {
	callerLevel, err := h.LevelOf(caller)
	if err != nil {
		return false, err
	}

	requiredLevel, err := h.LevelOf(required)
	if err != nil {
		return false, err
	}

	return callerLevel >= requiredLevel, nil
}

// Parse converts raw input into a known [Role].
func (h *Hierarchy) Parse(raw string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	if _, err := h.LevelOf(role); err != nil {
		return "", err
	}
	return role, nil
}

// DisplayName returns the human-readable name of role, or "" if unknown.
func (h *Hierarchy) DisplayName(role Role) string {
	level, ok := h.levels[role]
	if !ok {
		return ""
	}
	return h.order[level].DisplayName
}

// Roles returns the hierarchy entries from lowest to highest.
func (h *Hierarchy) Roles() []RoleInfo {
	out := make([]RoleInfo, len(h.order))
	copy(out, h.order)
	return out
}

// Lowest returns the least privileged role, the one new members start with.
func (h *Hierarchy) Lowest() Role {
	return h.order[0].Role
}

// Highest returns the most privileged role of the hierarchy.
func (h *Hierarchy) Highest() Role {
	return h.order[len(h.order)-1].Role
}

// displayName turns "core_admin" into "Core Admin".
func displayName(role Role) string {
	words := strings.Fields(strings.ReplaceAll(string(role), "_", " "))
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
