// Package sanitize normalises untrusted content requests before validation.
//
// Sanitization changes how values are represented (trimming, stripping
// control characters, coercing scalars) without judging whether they satisfy
// business rules. It fails fast: a structurally broken request returns a
// *ShapeError or *MissingHandlerError and no partial output.
package sanitize

import (
	"github.com/jpl-au/blockd/internal/content"
	"github.com/jpl-au/blockd/internal/validate"
)

// Sanitizer cleans top-level content fields and hands blocks to a Registry.
type Sanitizer struct {
	blocks *Registry
}

// New returns a Sanitizer that cleans blocks with r.
func New(r *Registry) *Sanitizer {
	return &Sanitizer{blocks: r}
}

// Registry returns the block registry used by s.
func (s *Sanitizer) Registry() *Registry {
	return s.blocks
}

// Sanitize cleans raw and returns the sanitized data.
//
// Field rules:
//   - type: scalar coerced to string, trimmed, reduced to [A-Za-z0-9_]
//   - title: control characters stripped, whitespace collapsed; empty is omitted
//   - summary: line endings normalised, control characters stripped, blank
//     line runs collapsed to one paragraph break; empty is omitted
//   - blocks: must be a list of maps, each cleaned by its kind's strategy
//
// Absent fields stay absent. Keys outside the recognised set are passed
// through unchanged; rejecting them is the validator's job.
func (s *Sanitizer) Sanitize(raw content.Raw) (content.Data, error) {
	out := make(content.Data, len(raw))

	for k, v := range raw {
		if !content.IsField(k) {
			out[k] = v
		}
	}

	if v, ok := raw[content.FieldType]; ok {
		str, err := scalarField(content.FieldType, v)
		if err != nil {
			return nil, err
		}
		out[content.FieldType] = Type(str)
	}

	if v, ok := raw[content.FieldTitle]; ok {
		str, err := scalarField(content.FieldTitle, v)
		if err != nil {
			return nil, err
		}
		if t := Title(str); t != "" {
			out[content.FieldTitle] = t
		}
	}

	if v, ok := raw[content.FieldSummary]; ok {
		str, err := scalarField(content.FieldSummary, v)
		if err != nil {
			return nil, err
		}
		if sum := Summary(str); sum != "" {
			out[content.FieldSummary] = sum
		}
	}

	if v, ok := raw[content.FieldBlocks]; ok {
		list, err := BlockMaps(v)
		if err != nil {
			return nil, err
		}
		blocks, err := s.blocks.SanitizeBlocks(list)
		if err != nil {
			return nil, err
		}
		out[content.FieldBlocks] = blocks
	}

	return out, nil
}

func scalarField(field string, v any) (string, error) {
	s, err := Scalar(v)
	if err != nil {
		return "", &ShapeError{Path: field, Reason: err.Error()}
	}
	return s, nil
}

// BlockMaps converts a raw blocks value into a list of block maps. Any
// entry that is not a map is a shape error naming its index.
func BlockMaps(v any) ([]content.Block, error) {
	switch list := v.(type) {
	case []content.Block:
		return list, nil
	case []map[string]any:
		out := make([]content.Block, len(list))
		for i, m := range list {
			out[i] = content.Block(m)
		}
		return out, nil
	case []any:
		out := make([]content.Block, len(list))
		for i, e := range list {
			switch m := e.(type) {
			case content.Block:
				out[i] = m
			case map[string]any:
				out[i] = content.Block(m)
			default:
				return nil, &ShapeError{
					Path:   validate.BlockField(i, "").String(),
					Reason: "block must be an object",
				}
			}
		}
		return out, nil
	default:
		return nil, &ShapeError{Path: content.FieldBlocks, Reason: "blocks must be a list"}
	}
}
