// validator.go implements content-level validation.
//
// Validation runs after sanitization and never stops early: every rule is
// evaluated and every violation recorded, so callers can report all of them
// in one round trip.

package validate

import (
	"errors"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/jpl-au/blockd/internal/content"
)

// Mode selects which presence rules apply.
type Mode int

const (
	// Create requires type and blocks.
	Create Mode = iota
	// Update treats every field as optional; rules apply only to fields
	// that are present.
	Update
)

// String returns the mode name used in logs and metrics.
func (m Mode) String() string {
	if m == Update {
		return "update"
	}
	return "create"
}

// Validator checks sanitized content against the business rules and
// delegates each block to the Registry.
type Validator struct {
	blocks *Registry
	limits Limits
}

// New returns a Validator using the given block registry and limits.
func New(blocks *Registry, limits Limits) *Validator {
	return &Validator{blocks: blocks, limits: limits}
}

// Limits returns the limits this validator enforces.
func (v *Validator) Limits() Limits {
	return v.limits
}

// Validate checks d and returns every violation found.
//
// Validation rules:
//   - Only type, title, summary and blocks are allowed at the top level
//   - type: required on create, non-empty, at most MaxType characters
//   - title: optional, valid UTF-8, at most MaxTitle characters
//   - summary: optional, valid UTF-8, at most MaxSummary characters
//   - blocks: required on create, MinBlocks..MaxBlocks entries, each
//     validated by the strategy for its kind
func (v *Validator) Validate(d content.Data, mode Mode) Result {
	errs := NewErrors()

	v.checkUnknown(d, errs)
	v.checkType(d, mode, errs)
	v.checkText(d, content.FieldTitle, v.limits.MaxTitle, errs)
	v.checkText(d, content.FieldSummary, v.limits.MaxSummary, errs)

	res := Failure(errs)
	if errs.Empty() {
		res = Success()
	}
	return res.Merge(v.checkBlocks(d, mode))
}

// checkUnknown enforces the closed top-level schema. Keys are reported in
// sorted order so output is stable.
func (v *Validator) checkUnknown(d content.Data, errs *Errors) {
	var unknown []string
	for k := range d {
		if !content.IsField(k) {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		errs.Addf(General, "unknown field %q", k)
	}
}

func (v *Validator) checkType(d content.Data, mode Mode, errs *Errors) {
	f := content.FieldType
	raw, present := d[f]
	if !present {
		if mode == Create {
			errs.Add(f, "type is required")
		}
		return
	}
	s, ok := raw.(string)
	if !ok {
		errs.Add(f, "type must be a string")
		return
	}
	if s == "" {
		if mode == Create {
			errs.Add(f, "type is required")
		} else {
			errs.Add(f, "type cannot be empty")
		}
		return
	}
	if Length(s) > v.limits.MaxType {
		errs.Addf(f, "type must not exceed %d characters", v.limits.MaxType)
	}
}

func (v *Validator) checkText(d content.Data, field string, limit int, errs *Errors) {
	raw, present := d[field]
	if !present {
		return
	}
	s, ok := raw.(string)
	if !ok {
		errs.Addf(field, "%s must be a string", field)
		return
	}
	if Length(s) > limit {
		errs.Addf(field, "%s must not exceed %d characters", field, limit)
	}
	if !utf8.ValidString(s) {
		errs.Addf(field, "%s must be valid UTF-8", field)
	}
}

func (v *Validator) checkBlocks(d content.Data, mode Mode) Result {
	f := content.FieldBlocks
	raw, present := d[f]
	if !present {
		if mode == Create {
			return SingleError(f, "blocks is required")
		}
		return Success()
	}

	blocks, err := blockList(raw)
	if err != nil {
		return SingleError(f, err.Error())
	}

	errs := NewErrors()
	if len(blocks) < v.limits.MinBlocks {
		errs.Addf(f, "at least %d block is required", v.limits.MinBlocks)
	}
	if len(blocks) > v.limits.MaxBlocks {
		errs.Addf(f, "blocks must not contain more than %d blocks", v.limits.MaxBlocks)
	}

	res := Success()
	if !errs.Empty() {
		res = Failure(errs)
	}
	for i, b := range blocks {
		if b == nil {
			res = res.Merge(SingleError(General, fmt.Sprintf("block %d is not an object", i)))
			continue
		}
		res = res.Merge(v.blocks.ValidateBlock(i, b))
	}
	return res
}

var errBlocksNotList = errors.New("blocks must be a list")

// blockList accepts the sanitizer's []content.Block as well as the generic
// list shapes a caller may pass when validating data directly. Entries that
// are not maps come back as nil.
func blockList(v any) ([]content.Block, error) {
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
			}
		}
		return out, nil
	default:
		return nil, errBlocksNotList
	}
}
