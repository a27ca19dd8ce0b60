// Package content defines the shapes that flow through blockd: the untyped
// request map, the sanitized map produced from it, the blocks inside it, and
// the Item entity built once the pipeline has accepted the data.
package content

// Top-level field keys recognised in a content request.
const (
	FieldType    = "type"
	FieldTitle   = "title"
	FieldSummary = "summary"
	FieldBlocks  = "blocks"
)

// Block field keys shared by every block kind.
const (
	BlockKind   = "kind"
	BlockSource = "source"
)

// Fields lists the recognised top-level keys in canonical order.
func Fields() []string {
	return []string{FieldType, FieldTitle, FieldSummary, FieldBlocks}
}

// IsField reports whether key is a recognised top-level key.
func IsField(key string) bool {
	switch key {
	case FieldType, FieldTitle, FieldSummary, FieldBlocks:
		return true
	}
	return false
}

// Raw is an untrusted content request as decoded from JSON or passed in by
// a caller. Nothing about its values is guaranteed.
type Raw map[string]any

// Data is sanitized content. Every recognised field that is present holds a
// normalised value of the right type; blocks, when present, is []Block.
type Data map[string]any

// Block is a single sanitized content block. The kind key is always set;
// the rest of the payload is defined by the strategy for that kind.
type Block map[string]any

// Kind returns the block's kind token, or "" if it is missing.
func (b Block) Kind() string {
	k, _ := b[BlockKind].(string)
	return k
}

// String returns a string field of the block and whether it was present as
// a string.
func (b Block) String(key string) (string, bool) {
	s, ok := b[key].(string)
	return s, ok
}

// Clone returns a shallow copy of the block.
func (b Block) Clone() Block {
	c := make(Block, len(b))
	for k, v := range b {
		c[k] = v
	}
	return c
}

// String returns a string field and whether it was present as a string.
func (d Data) String(key string) (string, bool) {
	s, ok := d[key].(string)
	return s, ok
}

// Has reports whether key is present, regardless of its value.
func (d Data) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Blocks returns the sanitized block list and whether it was present.
func (d Data) Blocks() ([]Block, bool) {
	b, ok := d[FieldBlocks].([]Block)
	return b, ok
}

// Clone returns a copy of d with its block list and blocks copied, so the
// result can be modified without touching d.
func (d Data) Clone() Data {
	c := make(Data, len(d))
	for k, v := range d {
		c[k] = v
	}
	if blocks, ok := d.Blocks(); ok {
		cp := make([]Block, len(blocks))
		for i, b := range blocks {
			cp[i] = b.Clone()
		}
		c[FieldBlocks] = cp
	}
	return c
}
