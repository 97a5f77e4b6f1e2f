package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Ada Lovelace", "ada-lovelace"},
		{"  jose_garcía  ", "jose-garcia"},
		{"UPPER.case", "upper-case"},
		{"already-good", "already-good"},
		{"--weird---spacing--", "weird-spacing"},
		{"!!!@@@", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Handle(tt.input))
		})
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", DisplayName("  Ada   Lovelace "))
	assert.Equal(t, "", DisplayName("   "))
}
