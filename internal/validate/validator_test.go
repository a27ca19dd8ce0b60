package validate

import (
	"strings"
	"testing"

	"github.com/jpl-au/blockd/internal/content"
	"github.com/jpl-au/blockd/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStrategy requires a non-empty string source.
type stubStrategy struct {
	kind string
}

func (s stubStrategy) Kind() string { return s.kind }

func (s stubStrategy) Validate(b content.Block) Result {
	if src, _ := b.String(content.BlockSource); src == "" {
		return SingleError(content.BlockSource, "source is required")
	}
	return Success()
}

func newValidator(t *testing.T) *Validator {
	t.Helper()
	reg, err := NewRegistry(stubStrategy{kind: "markdown"})
	require.NoError(t, err)
	return New(reg, DefaultLimits())
}

func md(src string) content.Block {
	return content.Block{"kind": "markdown", "source": src}
}

func TestValidate_Create(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name   string
		data   content.Data
		fields map[string][]string
	}{
		{
			name: "valid",
			data: content.Data{"type": "note", "title": "t", "blocks": []content.Block{md("x")}},
		},
		{
			name: "missing type and blocks",
			data: content.Data{"title": "t"},
			fields: map[string][]string{
				"type":   {"type is required"},
				"blocks": {"blocks is required"},
			},
		},
		{
			name:   "empty type",
			data:   content.Data{"type": "", "blocks": []content.Block{md("x")}},
			fields: map[string][]string{"type": {"type is required"}},
		},
		{
			name:   "type too long",
			data:   content.Data{"type": strings.Repeat("a", 51), "blocks": []content.Block{md("x")}},
			fields: map[string][]string{"type": {"type must not exceed 50 characters"}},
		},
		{
			name:   "title too long",
			data:   content.Data{"type": "note", "title": strings.Repeat("é", 256), "blocks": []content.Block{md("x")}},
			fields: map[string][]string{"title": {"title must not exceed 255 characters"}},
		},
		{
			name:   "summary too long",
			data:   content.Data{"type": "note", "summary": strings.Repeat("s", 1001), "blocks": []content.Block{md("x")}},
			fields: map[string][]string{"summary": {"summary must not exceed 1000 characters"}},
		},
		{
			name:   "no blocks",
			data:   content.Data{"type": "note", "blocks": []content.Block{}},
			fields: map[string][]string{"blocks": {"at least 1 block is required"}},
		},
		{
			name: "too many blocks",
			data: content.Data{"type": "note", "blocks": []content.Block{
				md("1"), md("2"), md("3"), md("4"), md("5"), md("6"),
				md("7"), md("8"), md("9"), md("10"), md("11"),
			}},
			fields: map[string][]string{"blocks": {"blocks must not contain more than 10 blocks"}},
		},
		{
			name:   "blocks not a list",
			data:   content.Data{"type": "note", "blocks": "nope"},
			fields: map[string][]string{"blocks": {"blocks must be a list"}},
		},
		{
			name:   "block error nested",
			data:   content.Data{"type": "note", "blocks": []content.Block{md("x"), md("")}},
			fields: map[string][]string{"blocks.1.source": {"source is required"}},
		},
		{
			name:   "unsupported kind",
			data:   content.Data{"type": "note", "blocks": []content.Block{{"kind": "video"}}},
			fields: map[string][]string{"general": {`block 0 has unsupported kind "video"`}},
		},
		{
			name:   "closed schema",
			data:   content.Data{"type": "note", "blocks": []content.Block{md("x")}, "extraField": 1},
			fields: map[string][]string{"general": {`unknown field "extraField"`}},
		},
		{
			name:   "non-object entry",
			data:   content.Data{"type": "note", "blocks": []any{md("x"), "text"}},
			fields: map[string][]string{"general": {"block 1 is not an object"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.Validate(tt.data, Create)
			if tt.fields == nil {
				assert.True(t, res.Valid(), res.Messages())
				assert.False(t, res.HasErrors())
				return
			}
			assert.False(t, res.Valid())
			assert.Equal(t, tt.fields, res.Errors())
		})
	}
}

func TestValidate_Exhaustive(t *testing.T) {
	v := newValidator(t)

	res := v.Validate(content.Data{
		"title":  strings.Repeat("t", 300),
		"blocks": []content.Block{md(""), md("ok"), md("")},
		"zeta":   1,
		"alpha":  2,
	}, Create)

	assert.False(t, res.Valid())
	assert.Equal(t, []string{"general", "type", "title", "blocks.0.source", "blocks.2.source"}, res.Fields())
	assert.Equal(t, []string{`unknown field "alpha"`, `unknown field "zeta"`}, res.FieldErrors("general"))
	assert.Equal(t, 6, res.ErrorCount())
}

func TestValidate_Update(t *testing.T) {
	v := newValidator(t)

	res := v.Validate(content.Data{}, Update)
	assert.True(t, res.Valid())

	res = v.Validate(content.Data{"title": "new"}, Update)
	assert.True(t, res.Valid())

	res = v.Validate(content.Data{"type": ""}, Update)
	assert.Equal(t, []string{"type cannot be empty"}, res.FieldErrors("type"))

	res = v.Validate(content.Data{"blocks": []content.Block{}}, Update)
	assert.Equal(t, []string{"at least 1 block is required"}, res.FieldErrors("blocks"))

	res = v.Validate(content.Data{"extraField": "x"}, Update)
	assert.True(t, res.HasFieldErrors(General))
}

func TestValidate_Types(t *testing.T) {
	v := newValidator(t)

	res := v.Validate(content.Data{"type": 1, "title": 2, "blocks": []content.Block{md("x")}}, Create)
	assert.Equal(t, []string{"type must be a string"}, res.FieldErrors("type"))
	assert.Equal(t, []string{"title must be a string"}, res.FieldErrors("title"))
}

func TestValidate_InvalidUTF8(t *testing.T) {
	v := newValidator(t)

	res := v.Validate(content.Data{
		"type":    "note",
		"title":   "a\xffb",
		"summary": "ok \xc3",
		"blocks":  []content.Block{md("x")},
	}, Create)
	assert.Equal(t, []string{"title must be valid UTF-8"}, res.FieldErrors("title"))
	assert.Equal(t, []string{"summary must be valid UTF-8"}, res.FieldErrors("summary"))

	res = v.Validate(content.Data{"title": "Café ☕"}, Update)
	assert.True(t, res.Valid(), res.Messages())
}

func TestValidate_BlockShapes(t *testing.T) {
	v := newValidator(t)

	for _, blocks := range []any{
		[]content.Block{md("x")},
		[]map[string]any{{"kind": "markdown", "source": "x"}},
		[]any{map[string]any{"kind": "markdown", "source": "x"}},
	} {
		res := v.Validate(content.Data{"type": "note", "blocks": blocks}, Create)
		assert.True(t, res.Valid(), res.Messages())
	}
}

func TestValidate_CustomLimits(t *testing.T) {
	reg, err := NewRegistry(stubStrategy{kind: "markdown"})
	require.NoError(t, err)
	limits := DefaultLimits()
	limits.MaxBlocks = 1
	v := New(reg, limits)

	assert.Equal(t, limits, v.Limits())
	res := v.Validate(content.Data{"type": "note", "blocks": []content.Block{md("a"), md("b")}}, Create)
	assert.Equal(t, []string{"blocks must not contain more than 1 blocks"}, res.FieldErrors("blocks"))
}

func TestRegistry(t *testing.T) {
	_, err := NewRegistry(stubStrategy{kind: "markdown"}, stubStrategy{kind: "Markdown"})
	assert.ErrorIs(t, err, registry.ErrDuplicateKind)

	reg, err := NewRegistry(stubStrategy{kind: "markdown"}, stubStrategy{kind: "code"})
	require.NoError(t, err)
	assert.Equal(t, []string{"code", "markdown"}, reg.Kinds())

	s, ok := reg.Lookup("MARKDOWN")
	require.True(t, ok)
	assert.Equal(t, "markdown", s.Kind())

	_, ok = reg.Lookup("video")
	assert.False(t, ok)
}

func TestMode(t *testing.T) {
	assert.Equal(t, "create", Create.String())
	assert.Equal(t, "update", Update.String())
}
