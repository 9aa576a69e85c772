// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/techhub/internal/platform/sec"
)

func TestPasswordHasher(t *testing.T) {
	hasher := &sec.PasswordHasher{Cost: bcrypt.MinCost}

	hash, err := hasher.Hash("correct horse")
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, hasher.Matches("correct horse", hash))
	assert.False(t, hasher.Matches("battery staple", hash))
	assert.False(t, hasher.Matches("correct horse", "not-a-hash"))

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	hasher.Spend("anything")
}

func TestPasswordHasher_TooLong(t *testing.T) {
	hasher := &sec.PasswordHasher{Cost: bcrypt.MinCost}

	_, err := hasher.Hash(strings.Repeat("x", sec.MaxPasswordBytes+1))
	assert.Error(t, err)
}
