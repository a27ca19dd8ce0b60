// rules.go holds the field rules and cleaning steps shared by block kinds.

package block

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jpl-au/blockd/internal/content"
	"github.com/jpl-au/blockd/internal/sanitize"
	"github.com/jpl-au/blockd/internal/validate"
)

var reScript = regexp.MustCompile(`(?i)<\s*script\b`)

// sourceRules configures checkSource for a kind.
type sourceRules struct {
	max         int
	allowScript bool
}

// checkSource validates the source field of b.
//
// Validation rules:
//   - Required and non-empty after trimming
//   - At most max characters
//   - Must be valid UTF-8
//   - No script tags unless allowScript is set
func checkSource(b content.Block, r sourceRules, errs *validate.Errors) {
	f := content.BlockSource
	raw, present := b[f]
	if !present {
		errs.Add(f, "source is required")
		return
	}
	s, ok := raw.(string)
	if !ok {
		errs.Add(f, "source must be a string")
		return
	}
	if strings.TrimSpace(s) == "" {
		errs.Add(f, "source cannot be empty")
		return
	}
	if validate.Length(s) > r.max {
		errs.Addf(f, "source must not exceed %d characters", r.max)
	}
	if !r.allowScript && reScript.MatchString(s) {
		errs.Add(f, "source must not contain script tags")
	}
	if !utf8.ValidString(s) {
		errs.Add(f, "source must be valid UTF-8")
	}
}

// cleanSource copies a cleaned source field from in to out. A missing or
// null source stays missing so validation reports it as required.
func cleanSource(in, out content.Block, clean func(string) string) error {
	v, ok := in[content.BlockSource]
	if !ok || v == nil {
		return nil
	}
	s, err := sanitize.Scalar(v)
	if err != nil {
		return &sanitize.ShapeError{Path: content.BlockSource, Reason: err.Error()}
	}
	out[content.BlockSource] = clean(s)
	return nil
}

func result(errs *validate.Errors) validate.Result {
	if errs.Empty() {
		return validate.Success()
	}
	return validate.Failure(errs)
}
