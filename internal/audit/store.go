// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package audit

import (
	"context"
	"time"
)

// Reader fetches one keyset page of an audit trail.
//
// Implementations return entries ordered by (CreatedAt, ID) ascending, strictly after
// the cursor when one is given, with CreatedAt not later than until, and at most limit rows.
type Reader interface {
	RoleAuditAfter(context context.Context, filter RoleAuditFilter, after *Cursor, until time.Time, limit int) ([]*RoleAuditEntry, error)
	ModerationAfter(context context.Context, filter ModerationFilter, after *Cursor, until time.Time, limit int) ([]*ModerationLogEntry, error)
}
