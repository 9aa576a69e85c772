// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuidv7_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/techhub/pkg/uuidv7"
)

func TestNew_Ordered(t *testing.T) {
	previous := uuidv7.New()
	for range 100 {
		next := uuidv7.New()
		assert.Equal(t, 7, int(next.Version()))
		assert.Less(t, previous.String(), next.String())
		previous = next
	}
}

func TestParse(t *testing.T) {
	id := uuidv7.New()

	parsed, err := uuidv7.Parse(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = uuidv7.Parse(uuid.NewString())
	assert.Error(t, err, "version 4 is refused")

	_, err = uuidv7.Parse("not-a-uuid")
	assert.Error(t, err)
}
