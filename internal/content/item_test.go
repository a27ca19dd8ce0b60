package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("builds item from sanitized data", func(t *testing.T) {
		d := Data{
			FieldType:   "note",
			FieldTitle:  "Hello",
			FieldBlocks: []Block{{BlockKind: "markdown", BlockSource: "# hi"}},
		}
		it, err := New(d)
		require.NoError(t, err)
		assert.Equal(t, "note", it.Type)
		assert.Equal(t, "Hello", it.Title)
		assert.Empty(t, it.Summary)
		require.Len(t, it.Blocks, 1)
		assert.Equal(t, "markdown", it.Blocks[0].Kind())
	})

	t.Run("missing type", func(t *testing.T) {
		_, err := New(Data{FieldBlocks: []Block{{BlockKind: "markdown"}}})
		assert.ErrorIs(t, err, ErrIncomplete)
	})

	t.Run("missing blocks", func(t *testing.T) {
		_, err := New(Data{FieldType: "note"})
		assert.ErrorIs(t, err, ErrIncomplete)
	})

	t.Run("blocks are copied", func(t *testing.T) {
		blocks := []Block{{BlockKind: "markdown", BlockSource: "a"}}
		it, err := New(Data{FieldType: "note", FieldBlocks: blocks})
		require.NoError(t, err)
		blocks[0][BlockSource] = "changed"
		assert.Equal(t, "a", it.Blocks[0][BlockSource])
	})
}

func TestItem_Apply(t *testing.T) {
	base := &Item{
		Key:     "k",
		Version: 2,
		Type:    "note",
		Title:   "Old",
		Summary: "Keep me",
		Blocks:  []Block{{BlockKind: "markdown", BlockSource: "old"}},
	}

	next := base.Apply(Data{
		FieldTitle:  "New",
		FieldBlocks: []Block{{BlockKind: "markdown", BlockSource: "new"}},
	})

	assert.Equal(t, "note", next.Type)
	assert.Equal(t, "New", next.Title)
	assert.Equal(t, "Keep me", next.Summary)
	assert.Equal(t, "new", next.Blocks[0][BlockSource])
	assert.Equal(t, "k", next.Key)

	// base is untouched
	assert.Equal(t, "Old", base.Title)
	assert.Equal(t, "old", base.Blocks[0][BlockSource])
}

func TestItem_Data(t *testing.T) {
	it := &Item{Type: "note", Blocks: []Block{{BlockKind: "markdown", BlockSource: "x"}}}
	d := it.Data()
	assert.False(t, d.Has(FieldTitle))
	assert.False(t, d.Has(FieldSummary))
	assert.Equal(t, "note", d[FieldType])
}
