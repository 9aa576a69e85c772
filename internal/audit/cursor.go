// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package audit

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taibuivan/techhub/internal/platform/validate"
	"github.com/taibuivan/techhub/pkg/uuidv7"
)

// Cursor is a keyset position in an audit trail: strictly after (CreatedAt, ID).
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// Encode returns the opaque text form handed to API clients.
func (c Cursor) Encode() string {
	raw := strconv.FormatInt(c.CreatedAt.UnixNano(), 10) + "|" + c.ID.String()
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a cursor produced by [Cursor.Encode]. An empty string is no cursor.
func DecodeCursor(token string) (*Cursor, error) {
	if token == "" {
		return nil, nil
	}

	invalid := validate.RequiredError("cursor", "Invalid cursor")

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, invalid
	}

	nanos, id, found := strings.Cut(string(raw), "|")
	if !found {
		return nil, invalid
	}

	unixNanos, err := strconv.ParseInt(nanos, 10, 64)
	if err != nil {
		return nil, invalid
	}

	parsedID, err := uuidv7.Parse(id)
	if err != nil {
		return nil, invalid
	}

	return &Cursor{CreatedAt: time.Unix(0, unixNanos).UTC(), ID: parsedID}, nil
}

func roleCursor(entry *RoleAuditEntry) Cursor {
	return Cursor{CreatedAt: entry.CreatedAt, ID: entry.ID}
}

func moderationCursor(entry *ModerationLogEntry) Cursor {
	return Cursor{CreatedAt: entry.CreatedAt, ID: entry.ID}
}
