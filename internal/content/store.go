// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"context"

	"github.com/taibuivan/techhub/internal/audit"
)

// Store defines persistence for submitted entities.
type Store interface {
	Create(context context.Context, entity *Entity) error
	Get(context context.Context, ref Ref) (*Entity, error)
	List(context context.Context, kind Kind, filter Filter, limit, offset int) ([]*Entity, int, error)

	// UpdateContent rewrites the content fields only; status and featured are kept.
	UpdateContent(context context.Context, entity *Entity) error
	SetFeatured(context context.Context, ref Ref, featured bool) (*Entity, error)

	// ApplyDecision sets the status and appends the moderation log entry atomically.
	// A missing target yields NOT_FOUND and nothing is written.
	ApplyDecision(context context.Context, ref Ref, status Status, entry *audit.ModerationLogEntry) error
}
