// details.go implements the diagnostic variant of the pipeline.
//
// Process runs the same stages as ValidateCreate/ValidateUpdate but keeps
// every intermediate value: the sanitized data, what the sanitizer changed,
// and the validator's own result. It is meant for monitoring and debugging,
// not the write path, and does not update metrics.

package pipeline

import (
	"reflect"

	"github.com/jpl-au/blockd/internal/content"
	"github.com/jpl-au/blockd/internal/diff"
	"github.com/jpl-au/blockd/internal/sanitize"
	"github.com/jpl-au/blockd/internal/validate"
)

// Stats summarises what sanitization did to a request. Lengths are in
// characters and cover type, title, summary and every block source.
type Stats struct {
	FieldsProcessed int `json:"fields_processed"`
	FieldsModified  int `json:"fields_modified"`
	BlocksProcessed int `json:"blocks_processed"`
	BlocksModified  int `json:"blocks_modified"`
	LengthBefore    int `json:"length_before"`
	LengthAfter     int `json:"length_after"`
}

// Change is a text field the sanitizer modified.
type Change struct {
	Field string      `json:"field"`
	Diff  diff.Result `json:"-"`
	Text  string      `json:"diff"`
}

// Details is the full trace of one pipeline run.
type Details struct {
	Sanitized  content.Data     `json:"sanitized,omitempty"`
	Stats      Stats            `json:"stats"`
	Changes    []Change         `json:"changes,omitempty"`
	Validation *validate.Result `json:"validation,omitempty"` // nil when sanitization failed
	Result     validate.Result  `json:"result"`
}

// Process runs the pipeline in mode and returns every intermediate value.
func (s *Service) Process(raw content.Raw, mode validate.Mode) Details {
	data, err := s.sanitizer.Sanitize(raw)
	if err != nil {
		return Details{Result: validate.SingleError(validate.Sanitization, err.Error())}
	}

	res := s.validator.Validate(data, mode)
	d := Details{
		Sanitized:  data,
		Validation: &res,
		Result:     s.finish(res, data),
	}
	d.Stats, d.Changes = compare(raw, data)
	return d
}

// compare measures the differences between raw and its sanitized form.
func compare(raw content.Raw, data content.Data) (Stats, []Change) {
	var st Stats
	var changes []Change

	for _, f := range []string{content.FieldType, content.FieldTitle, content.FieldSummary} {
		v, ok := raw[f]
		if !ok {
			continue
		}
		st.FieldsProcessed++
		before, _ := sanitize.Scalar(v)
		after, _ := data.String(f)
		st.LengthBefore += validate.Length(before)
		st.LengthAfter += validate.Length(after)
		if before != after || !data.Has(f) {
			st.FieldsModified++
			changes = append(changes, change(f, before, after))
		}
	}

	rawBlocks, _ := sanitize.BlockMaps(raw[content.FieldBlocks])
	blocks, _ := data.Blocks()
	for i, b := range blocks {
		st.BlocksProcessed++
		var in content.Block
		if i < len(rawBlocks) {
			in = rawBlocks[i]
		}
		if !reflect.DeepEqual(map[string]any(in), map[string]any(b)) {
			st.BlocksModified++
		}

		before, _ := sanitize.Scalar(in[content.BlockSource])
		after, _ := b.String(content.BlockSource)
		st.LengthBefore += validate.Length(before)
		st.LengthAfter += validate.Length(after)
		if before != after {
			changes = append(changes, change(validate.BlockField(i, content.BlockSource).String(), before, after))
		}
	}
	return st, changes
}

func change(field, before, after string) Change {
	r := diff.Compute(before, after, "raw "+field, "sanitized "+field)
	return Change{Field: field, Diff: r, Text: r.Format(false)}
}
