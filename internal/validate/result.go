// result.go implements Result, the value returned by every validation step.
//
// Business-rule violations are data, not errors: a Result carries every
// message keyed by field path in the order the rules produced them, and
// Results from nested scopes combine with Merge and Nest.

package validate

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jpl-au/blockd/internal/content"
)

// Errors is an insertion-ordered collection of messages keyed by field path.
// Build one with NewErrors and Add, then wrap it with Failure.
type Errors struct {
	order []string
	msgs  map[string][]string
}

// NewErrors returns an empty collection.
func NewErrors() *Errors {
	return &Errors{msgs: make(map[string][]string)}
}

// Add appends msg to field's list and returns e for chaining.
func (e *Errors) Add(field, msg string) *Errors {
	if _, ok := e.msgs[field]; !ok {
		e.order = append(e.order, field)
	}
	e.msgs[field] = append(e.msgs[field], msg)
	return e
}

// Addf appends a formatted message to field's list.
func (e *Errors) Addf(field, format string, args ...any) *Errors {
	return e.Add(field, fmt.Sprintf(format, args...))
}

// AddAt appends msg under a structured field path.
func (e *Errors) AddAt(f Field, msg string) *Errors {
	return e.Add(f.String(), msg)
}

// Empty reports whether no messages have been added.
func (e *Errors) Empty() bool {
	return e == nil || len(e.order) == 0
}

func (e *Errors) clone() *Errors {
	c := NewErrors()
	if e == nil {
		return c
	}
	for _, f := range e.order {
		c.order = append(c.order, f)
		c.msgs[f] = append([]string(nil), e.msgs[f]...)
	}
	return c
}

// Result is the outcome of validating content or a single block.
//
// Valid is authoritative: a Failure with no messages is still invalid.
// The zero value is an invalid result with no messages; use the factories.
type Result struct {
	valid  bool
	errors *Errors
	data   content.Data
}

// Success returns a valid result with no data.
func Success() Result {
	return Result{valid: true, errors: NewErrors()}
}

// SuccessWithData returns a valid result carrying the sanitized data.
func SuccessWithData(d content.Data) Result {
	return Result{valid: true, errors: NewErrors(), data: d}
}

// Failure returns an invalid result holding a copy of errs.
// A nil or empty errs still yields an invalid result.
func Failure(errs *Errors) Result {
	return Result{errors: errs.clone()}
}

// SingleError returns an invalid result with one message for field.
func SingleError(field, msg string) Result {
	return Result{errors: NewErrors().Add(field, msg)}
}

// Valid reports whether validation passed.
func (r Result) Valid() bool {
	return r.valid
}

// HasErrors reports whether any message is recorded.
func (r Result) HasErrors() bool {
	return r.ErrorCount() > 0
}

// Errors returns a copy of all messages keyed by field. Use Fields for the
// order in which fields were first reported.
func (r Result) Errors() map[string][]string {
	out := make(map[string][]string)
	if r.errors == nil {
		return out
	}
	for _, f := range r.errors.order {
		out[f] = append([]string(nil), r.errors.msgs[f]...)
	}
	return out
}

// FieldErrors returns the messages for field, or an empty slice.
func (r Result) FieldErrors(field string) []string {
	if r.errors == nil {
		return []string{}
	}
	msgs := r.errors.msgs[field]
	out := make([]string, len(msgs))
	copy(out, msgs)
	return out
}

// HasFieldErrors reports whether field has at least one message.
func (r Result) HasFieldErrors(field string) bool {
	return r.errors != nil && len(r.errors.msgs[field]) > 0
}

// ErrorCount returns the total number of messages across all fields.
func (r Result) ErrorCount() int {
	if r.errors == nil {
		return 0
	}
	n := 0
	for _, msgs := range r.errors.msgs {
		n += len(msgs)
	}
	return n
}

// Fields returns the fields with messages in the order first reported.
func (r Result) Fields() []string {
	if r.errors == nil {
		return []string{}
	}
	return append([]string{}, r.errors.order...)
}

// Messages flattens every message as "field: message".
func (r Result) Messages() []string {
	out := []string{}
	if r.errors == nil {
		return out
	}
	for _, f := range r.errors.order {
		for _, m := range r.errors.msgs[f] {
			out = append(out, f+": "+m)
		}
	}
	return out
}

// Data returns the sanitized data carried by a successful result.
func (r Result) Data() (content.Data, bool) {
	return r.data, r.data != nil
}

// Merge combines two results. The merged result is valid only if both are.
// Each field's messages are r's followed by other's; duplicates are kept.
// Data survives only when the merged result is valid, preferring r's.
func (r Result) Merge(other Result) Result {
	merged := Result{
		valid:  r.valid && other.valid,
		errors: r.errors.clone(),
	}
	if other.errors != nil {
		for _, f := range other.errors.order {
			for _, m := range other.errors.msgs[f] {
				merged.errors.Add(f, m)
			}
		}
	}
	if merged.valid {
		merged.data = r.data
		if merged.data == nil {
			merged.data = other.data
		}
	}
	return merged
}

// Nest re-keys every field of r under scope and index, so a block result
// reporting "source" becomes "blocks.2.source". Validity and data are kept.
func (r Result) Nest(scope string, index int) Result {
	nested := Result{valid: r.valid, errors: NewErrors(), data: r.data}
	if r.errors == nil {
		return nested
	}
	for _, f := range r.errors.order {
		key := Field{Scope: scope, Index: index, Name: f}.String()
		for _, m := range r.errors.msgs[f] {
			nested.errors.Add(key, m)
		}
	}
	return nested
}

// MarshalJSON encodes the result with errors in reporting order.
func (r Result) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(`{"valid":`)
	if r.valid {
		b.WriteString("true")
	} else {
		b.WriteString("false")
	}

	b.WriteString(`,"errors":{`)
	if r.errors != nil {
		for i, f := range r.errors.order {
			if i > 0 {
				b.WriteByte(',')
			}
			k, err := json.Marshal(f)
			if err != nil {
				return nil, err
			}
			v, err := json.Marshal(r.errors.msgs[f])
			if err != nil {
				return nil, err
			}
			b.Write(k)
			b.WriteByte(':')
			b.Write(v)
		}
	}
	b.WriteByte('}')

	if r.data != nil {
		d, err := json.Marshal(r.data)
		if err != nil {
			return nil, err
		}
		b.WriteString(`,"data":`)
		b.Write(d)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}
