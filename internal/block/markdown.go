package block

import (
	"github.com/jpl-au/blockd/internal/content"
	"github.com/jpl-au/blockd/internal/sanitize"
	"github.com/jpl-au/blockd/internal/validate"
)

// KindMarkdown is the kind token for markdown blocks.
const KindMarkdown = "markdown"

// Markdown handles blocks holding a markdown fragment in source.
type Markdown struct {
	maxSource int
}

// NewMarkdown returns the markdown strategy.
func NewMarkdown(limits validate.Limits) *Markdown {
	return &Markdown{maxSource: limits.MaxSource}
}

// Kind returns "markdown".
func (m *Markdown) Kind() string { return KindMarkdown }

// Sanitize normalises line endings and strips control characters from
// source. Fields other than kind and source are dropped.
func (m *Markdown) Sanitize(b content.Block) (content.Block, error) {
	out := content.Block{content.BlockKind: KindMarkdown}
	if err := cleanSource(b, out, sanitize.Source); err != nil {
		return nil, err
	}
	return out, nil
}

// Validate checks the markdown source.
func (m *Markdown) Validate(b content.Block) validate.Result {
	errs := validate.NewErrors()
	checkSource(b, sourceRules{max: m.maxSource}, errs)
	return result(errs)
}
