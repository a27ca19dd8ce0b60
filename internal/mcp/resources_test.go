package mcp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItemURI(t *testing.T) {
	tests := []struct {
		uri     string
		key     string
		version int
		err     error
	}{
		{"blockd://items/abc", "abc", 0, nil},
		{"blockd://items/abc/v/3", "abc", 3, nil},
		{"blockd://items/", "", 0, ErrEmptyKey},
		{"blockd://items//v/2", "", 0, ErrEmptyKey},
		{"blockd://items/abc/v/x", "", 0, ErrInvalidURI},
		{"blockd://items/abc/v/0", "", 0, ErrInvalidURI},
		{"blockd://items/a/b", "", 0, ErrInvalidURI},
		{"other://items/abc", "", 0, ErrInvalidURI},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			key, version, err := parseItemURI(tt.uri)
			if tt.err != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.key, key)
			assert.Equal(t, tt.version, version)
		})
	}
}
