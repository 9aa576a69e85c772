// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"github.com/taibuivan/techhub/internal/platform/apperr"
)

// # Caller Identity

// Actor is the principal performing an operation, as supplied by the session layer.
//
// UserID is 0 for anonymous visitors, who always carry [RoleUser].
type Actor struct {
	UserID int64
	Role   Role
}

// Anonymous returns the actor used for unauthenticated requests.
func Anonymous() Actor {
	return Actor{Role: RoleUser}
}

// IsAnonymous reports whether the actor has no account.
func (a Actor) IsAnonymous() bool {
	return a.UserID == 0
}

// # Authorization Gate

// Gate is the single place where privilege policy is evaluated.
//
// Every privileged mutation calls [Gate.Require] before touching storage.
type Gate struct {
	hierarchy *Hierarchy
	onDeny    func(required Role)
}

// GateOption customizes a [Gate].
type GateOption func(*Gate)

// WithDenyHook registers a callback invoked on every FORBIDDEN outcome (used for metrics).
func WithDenyHook(hook func(required Role)) GateOption {
	return func(gate *Gate) {
		gate.onDeny = hook
	}
}

// NewGate constructs a [Gate] over the given hierarchy.
func NewGate(hierarchy *Hierarchy, options ...GateOption) *Gate {
	gate := &Gate{hierarchy: hierarchy}
	for _, option := range options {
		option(gate)
	}
	return gate
}

// Require fails with FORBIDDEN when caller is below minimum, or INVALID_ROLE when
// either role is unknown to the hierarchy.
func (g *Gate) Require(caller, minimum Role) error {
	allowed, err := g.hierarchy.AtLeast(caller, minimum)
	if err != nil {
		return err
	}

	if !allowed {
		if g.onDeny != nil {
			g.onDeny(minimum)
		}
		return apperr.Forbidden()
	}

	return nil
}

// Allows is the boolean form of [Gate.Require] for read paths that branch on privilege
// instead of failing. Unknown roles are never allowed.
func (g *Gate) Allows(caller, minimum Role) bool {
	allowed, err := g.hierarchy.AtLeast(caller, minimum)
	return err == nil && allowed
}

// Hierarchy exposes the role table the gate evaluates against.
func (g *Gate) Hierarchy() *Hierarchy {
	return g.hierarchy
}
