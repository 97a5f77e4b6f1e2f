package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_HasPrefix(t *testing.T) {
	got, err := Generate("msg")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "msg-"))
	// prefix + dash + 21-char nanoid
	assert.Len(t, got, len("msg-")+21)
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 1000 {
		got, err := Generate("conv")
		require.NoError(t, err)
		assert.False(t, seen[got], "duplicate id generated: %s", got)
		seen[got] = true
	}
}

func TestMustGenerate(t *testing.T) {
	assert.NotPanics(t, func() {
		got := MustGenerate("usr")
		assert.True(t, strings.HasPrefix(got, "usr-"))
	})
}
