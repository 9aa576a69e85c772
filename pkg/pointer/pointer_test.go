// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/techhub/pkg/pointer"
)

func TestTrimmed(t *testing.T) {
	assert.Nil(t, pointer.Trimmed(nil))
	assert.Nil(t, pointer.Trimmed(pointer.To("   ")))
	assert.Equal(t, "spam link", *pointer.Trimmed(pointer.To("  spam link\n")))
}

func TestVal(t *testing.T) {
	assert.Equal(t, "", pointer.Val[string](nil))
	assert.Equal(t, 7, pointer.Val(pointer.To(7)))
}
