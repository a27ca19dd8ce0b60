package block

import (
	"github.com/jpl-au/blockd/internal/content"
	"github.com/jpl-au/blockd/internal/sanitize"
	"github.com/jpl-au/blockd/internal/validate"
	"github.com/microcosm-cc/bluemonday"
)

// KindHTML is the kind token for HTML blocks.
const KindHTML = "html"

// HTML handles blocks holding an HTML fragment in source. Markup is reduced
// to bluemonday's user-generated-content allowlist, so scripts, styles and
// event handler attributes never reach storage.
type HTML struct {
	maxSource int
	policy    *bluemonday.Policy
}

// NewHTML returns the HTML strategy.
func NewHTML(limits validate.Limits) *HTML {
	p := bluemonday.UGCPolicy()
	p.RequireNoReferrerOnLinks(true)
	return &HTML{maxSource: limits.MaxSource, policy: p}
}

// Kind returns "html".
func (h *HTML) Kind() string { return KindHTML }

// Sanitize cleans source with the allowlist policy after normalising line
// endings and control characters.
func (h *HTML) Sanitize(b content.Block) (content.Block, error) {
	out := content.Block{content.BlockKind: KindHTML}
	err := cleanSource(b, out, func(s string) string {
		return h.policy.Sanitize(sanitize.Source(s))
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Validate checks the HTML source.
func (h *HTML) Validate(b content.Block) validate.Result {
	errs := validate.NewErrors()
	checkSource(b, sourceRules{max: h.maxSource}, errs)
	return result(errs)
}
