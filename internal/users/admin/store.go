// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package admin changes who may do what: role assignment and account deactivation.

Both operations are reserved to the top of the hierarchy, never touch the protected
bootstrap account, and append a role audit entry in the same transaction as the change.
Tokens of the affected member are revoked once the change has committed.
*/
package admin

import (
	"context"

	"github.com/taibuivan/techhub/internal/audit"
	"github.com/taibuivan/techhub/internal/platform/sec"
	"github.com/taibuivan/techhub/internal/users/account"
)

// Mutation edits a locked account and returns the audit entry describing the change.
//
// Returning a nil entry means there is nothing to change; the store then writes nothing.
type Mutation func(user *account.User) (*audit.RoleAuditEntry, error)

// Filter narrows the admin user listing. Zero fields do not filter.
type Filter struct {
	Roles  []sec.Role
	Active *bool
	Query  string
}

// Store is the persistence contract of the admin service.
type Store interface {
	// Find loads an account without locking it.
	Find(context context.Context, id int64) (*account.User, error)

	/*
		Mutate serializes changes to one account.

		The row is locked for the duration of the transaction, the protected flag is
		re-checked under the lock, and when mutation returns an entry the new role and
		activation state are written together with that entry.

		Returns:
		  - *audit.RoleAuditEntry: The appended entry, nil for a no-op
		  - error: NOT_FOUND, PROTECTED_ACCOUNT, PERSISTENCE_FAILED or the mutation's error
	*/
	Mutate(context context.Context, id int64, mutation Mutation) (*audit.RoleAuditEntry, error)

	// List returns one page of accounts, newest first, with the total match count.
	List(context context.Context, filter Filter, limit, offset int) ([]*account.User, int, error)
}

// Revoker invalidates the sessions a member holds.
type Revoker interface {
	Revoke(context context.Context, userID int64) error
}
