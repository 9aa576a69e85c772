// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/techhub/pkg/slice"
)

func TestClean(t *testing.T) {
	assert.Equal(t, []string{"Go", "kafka"}, slice.Clean([]string{" Go ", "", "kafka", "go", "  "}))

	cleaned := slice.Clean(nil)
	assert.NotNil(t, cleaned)
	assert.Empty(t, cleaned)
}
