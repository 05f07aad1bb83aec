package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Uniqueness(t *testing.T) {
	ids := make(map[string]bool)
	count := 1000

	for i := 0; i < count; i++ {
		id, err := Generate()
		require.NoError(t, err)
		assert.False(t, ids[id], "ID should be unique: %s", id)
		ids[id] = true
	}

	assert.Len(t, ids, count)
}

func TestGenerate_Format(t *testing.T) {
	for i := 0; i < 50; i++ {
		id, err := Generate()
		require.NoError(t, err)

		assert.Len(t, id, Length)
		assert.True(t, Valid(id), "generated id should be base-36: %s", id)
	}
}

func TestMustGenerate(t *testing.T) {
	assert.NotPanics(t, func() {
		id := MustGenerate()
		assert.Len(t, id, Length)
	})
}

func TestValid(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"agew2153", true},
		{"red123", true},
		{"", false},
		{"AGEW2153", false},
		{"user-123", false},
		{"has space", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.valid, Valid(tt.in))
		})
	}
}
