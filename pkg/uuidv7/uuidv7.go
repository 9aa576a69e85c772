// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package uuidv7 generates and parses the time-ordered ids used for audit entries,
// events and request ids. Ordering by id matches ordering by creation time to the
// millisecond, which keeps audit keyset pages stable.
package uuidv7

import (
	"fmt"

	"github.com/google/uuid"
)

// New panics only when the OS random source fails.
func New() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

func String() string {
	return New().String()
}

// Parse accepts only the canonical or URN form of a version 7 UUID.
func Parse(text string) (uuid.UUID, error) {
	id, err := uuid.Parse(text)
	if err != nil {
		return uuid.Nil, err
	}
	if id.Version() != 7 {
		return uuid.Nil, fmt.Errorf("uuidv7: version %d, want 7", id.Version())
	}
	return id, nil
}
