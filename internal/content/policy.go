// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import "fmt"

// Mode is the publication mode of one kind.
type Mode string

const (
	ModeAutoApprove   Mode = "auto_approve"
	ModeRequireReview Mode = "require_review"
)

// Policy decides the initial status of new submissions per kind.
//
// The zero value is not usable; build it with [DefaultPolicy] or [NewPolicy].
type Policy struct {
	modes map[Kind]Mode
}

// DefaultPolicy auto-approves every kind.
func DefaultPolicy() *Policy {
	modes := make(map[Kind]Mode, len(Kinds))
	for _, kind := range Kinds {
		modes[kind] = ModeAutoApprove
	}
	return &Policy{modes: modes}
}

// NewPolicy auto-approves every kind except reviewKinds, which start as pending.
func NewPolicy(reviewKinds []string) (*Policy, error) {
	policy := DefaultPolicy()
	for _, raw := range reviewKinds {
		kind, err := ParseKind(raw)
		if err != nil {
			return nil, fmt.Errorf("content: review kinds: %w", err)
		}
		policy.modes[kind] = ModeRequireReview
	}
	return policy, nil
}

// ModeOf returns the publication mode configured for kind.
func (p *Policy) ModeOf(kind Kind) Mode {
	if mode, ok := p.modes[kind]; ok {
		return mode
	}
	return ModeAutoApprove
}

// InitialStatus is the status a new submission of kind is created with.
func (p *Policy) InitialStatus(kind Kind) Status {
	if p.ModeOf(kind) == ModeRequireReview {
		return StatusPending
	}
	return StatusApproved
}
