package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotObject is returned by ParseRaw when the input is valid JSON but not
// an object.
var ErrNotObject = errors.New("content must be a JSON object")

// ParseRaw decodes a JSON object into a Raw request. Values keep the shapes
// encoding/json gives them; sanitization decides what is acceptable.
func ParseRaw(data []byte) (Raw, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		if json.Valid(data) {
			return nil, ErrNotObject
		}
	}

	var raw Raw
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	if raw == nil {
		return nil, ErrNotObject
	}
	return raw, nil
}
