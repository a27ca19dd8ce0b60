// Package validate checks sanitized content against blockd's business rules.
//
// Validation is the second stage of the ingestion pipeline. It assumes its
// input has already been through package sanitize, so values have the right
// shape; what remains is whether they satisfy the rules (required fields,
// size limits, per-kind block rules).
//
// # Results, not errors
//
// A rule violation is an expected outcome, so it is returned as data in a
// Result rather than as an error. Every rule runs on every call and each
// violation is recorded under its field path:
//
//	res := v.Validate(data, validate.Create)
//	if !res.Valid() {
//	    for _, m := range res.Messages() {
//	        fmt.Println(m) // "blocks.1.source: source is required"
//	    }
//	}
//
// # Block strategies
//
// Each block kind has a Strategy registered in a Registry. The Validator
// hands every block to the Registry, which calls the strategy for its kind
// and nests the result under "blocks.<index>".
package validate
