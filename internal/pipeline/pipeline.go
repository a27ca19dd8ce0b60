// Package pipeline runs the two-stage content ingestion pipeline: sanitize,
// then validate.
//
// Sanitization failures and validation failures are kept in separate error
// namespaces. A request that could not be sanitized yields a single error
// under validate.Sanitization; a request that sanitized but breaks rules
// yields field-path errors from the validator. Callers can tell "structurally
// broken" from "well-formed but invalid" by which key is present.
package pipeline

import (
	"github.com/jpl-au/blockd/internal/content"
	"github.com/jpl-au/blockd/internal/metrics"
	"github.com/jpl-au/blockd/internal/sanitize"
	"github.com/jpl-au/blockd/internal/validate"
)

// Service orchestrates the sanitizer and validator. It holds no mutable
// state and is safe for concurrent use once built.
type Service struct {
	sanitizer *sanitize.Sanitizer
	validator *validate.Validator
}

// New returns a Service running s then v.
func New(s *sanitize.Sanitizer, v *validate.Validator) *Service {
	return &Service{sanitizer: s, validator: v}
}

// Kinds returns the block kinds the pipeline accepts.
func (s *Service) Kinds() []string {
	return s.sanitizer.Registry().Kinds()
}

// ValidateCreate runs the pipeline with every create rule applied. On success
// the result carries the sanitized data.
func (s *Service) ValidateCreate(raw content.Raw) validate.Result {
	return s.run(raw, validate.Create)
}

// ValidateUpdate runs the pipeline treating every field as optional.
func (s *Service) ValidateUpdate(raw content.Raw) validate.Result {
	return s.run(raw, validate.Update)
}

// Validate runs the pipeline in the given mode.
func (s *Service) Validate(raw content.Raw, mode validate.Mode) validate.Result {
	return s.run(raw, mode)
}

func (s *Service) run(raw content.Raw, mode validate.Mode) validate.Result {
	data, err := s.sanitizer.Sanitize(raw)
	if err != nil {
		res := validate.SingleError(validate.Sanitization, err.Error())
		record(mode, nil, res)
		return res
	}

	res := s.finish(s.validator.Validate(data, mode), data)
	record(mode, data, res)
	return res
}

// finish turns a passing validator result into one carrying data. A failing
// result is returned unchanged.
func (s *Service) finish(res validate.Result, data content.Data) validate.Result {
	if res.Valid() {
		return validate.SuccessWithData(data)
	}
	return res
}

// record updates the pipeline metrics for one run.
func record(mode validate.Mode, data content.Data, res validate.Result) {
	outcome := metrics.OutcomeValid
	switch {
	case res.HasFieldErrors(validate.Sanitization):
		outcome = metrics.OutcomeSanitization
	case !res.Valid():
		outcome = metrics.OutcomeInvalid
	}
	metrics.Validations.WithLabelValues(mode.String(), outcome).Inc()

	for _, f := range res.Fields() {
		metrics.FieldErrors.WithLabelValues(fieldLabel(f)).Inc()
	}
	if blocks, ok := data.Blocks(); ok {
		metrics.BlocksProcessed.Observe(float64(len(blocks)))
	}
}

// fieldLabel maps a field path to its top-level name so block errors share
// the "blocks" label instead of creating one series per index.
func fieldLabel(field string) string {
	f := validate.ParseField(field)
	if f.Scope != "" {
		return f.Scope
	}
	return f.Name
}
