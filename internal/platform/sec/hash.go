// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// PasswordHasher wraps bcrypt. The zero value uses [bcrypt.DefaultCost].
type PasswordHasher struct {
	Cost int

	decoyOnce sync.Once
	decoy     []byte
}

func (h *PasswordHasher) cost() int {
	if h.Cost == 0 {
		return bcrypt.DefaultCost
	}
	return h.Cost
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost())
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Matches reports whether password produces hash.
func (h *PasswordHasher) Matches(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Spend runs one comparison against a throwaway hash of the same cost, so a
// sign-in for an unknown email takes as long as one with a wrong password.
func (h *PasswordHasher) Spend(password string) {
	h.decoyOnce.Do(func() {
		h.decoy, _ = bcrypt.GenerateFromPassword([]byte("techhub-decoy"), h.cost())
	})
	_ = bcrypt.CompareHashAndPassword(h.decoy, []byte(password))
}
