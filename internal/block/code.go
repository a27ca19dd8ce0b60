package block

import (
	"regexp"
	"strings"

	"github.com/jpl-au/blockd/internal/content"
	"github.com/jpl-au/blockd/internal/sanitize"
	"github.com/jpl-au/blockd/internal/validate"
)

// KindCode is the kind token for code blocks.
const KindCode = "code"

// FieldLanguage is the optional language hint on code blocks.
const FieldLanguage = "language"

// MaxLanguage is the maximum length of a code block's language.
const MaxLanguage = 32

var reNotLanguage = regexp.MustCompile(`[^a-z0-9_+#.-]+`)

// Code handles blocks holding source code. Code is displayed verbatim and
// never rendered as markup, so script tags are allowed in its source.
type Code struct {
	maxSource int
}

// NewCode returns the code strategy.
func NewCode(limits validate.Limits) *Code {
	return &Code{maxSource: limits.MaxSource}
}

// Kind returns "code".
func (c *Code) Kind() string { return KindCode }

// Sanitize normalises source like markdown and reduces language to a
// lowercase token. An empty language is omitted.
func (c *Code) Sanitize(b content.Block) (content.Block, error) {
	out := content.Block{content.BlockKind: KindCode}
	if err := cleanSource(b, out, sanitize.Source); err != nil {
		return nil, err
	}

	if v, ok := b[FieldLanguage]; ok && v != nil {
		s, err := sanitize.Scalar(v)
		if err != nil {
			return nil, &sanitize.ShapeError{Path: FieldLanguage, Reason: err.Error()}
		}
		if lang := Language(s); lang != "" {
			out[FieldLanguage] = lang
		}
	}
	return out, nil
}

// Validate checks the source and language.
func (c *Code) Validate(b content.Block) validate.Result {
	errs := validate.NewErrors()
	checkSource(b, sourceRules{max: c.maxSource, allowScript: true}, errs)

	if v, ok := b[FieldLanguage]; ok {
		s, isStr := v.(string)
		switch {
		case !isStr:
			errs.Add(FieldLanguage, "language must be a string")
		case validate.Length(s) > MaxLanguage:
			errs.Addf(FieldLanguage, "language must not exceed %d characters", MaxLanguage)
		}
	}
	return result(errs)
}

// Language lowercases s and removes characters that cannot appear in a
// language name ("C++" → "c++", "Go Lang" → "golang").
func Language(s string) string {
	return reNotLanguage.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "")
}
