package contract

import (
	"regexp"
	"strings"
)

// Pipeline identifies the transporting pipeline a contract belongs to.
type Pipeline string

const (
	// PipelineREX is the Rockies Express pipeline.
	PipelineREX Pipeline = "REX"
	// PipelineRuby is the Ruby pipeline.
	PipelineRuby Pipeline = "Ruby"
)

// ParsePipeline resolves a raw pipeline name, case-insensitively.
func ParsePipeline(raw string) (Pipeline, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "REX":
		return PipelineREX, true
	case "RUBY":
		return PipelineRuby, true
	}

	return "", false
}

// contractPrefix is the conventional transportation-contract prefix.
const contractPrefix = "K#"

// Identifier is a pipeline contract identifier in its raw, user-entered
// form. Canonical and Clean derive the two normalized forms the engine
// works with.
type Identifier struct {
	Raw      string
	Pipeline Pipeline
}

// Canonical returns the prefixed, upper-cased canonical form, e.g. "K#961214".
func (id Identifier) Canonical() string {
	return contractPrefix + id.Clean()
}

// Clean returns the upper-cased identifier without the K# prefix. Synthetic
// record ids are composed from this form.
func (id Identifier) Clean() string {
	clean := strings.ToUpper(strings.TrimSpace(id.Raw))

	return strings.TrimPrefix(clean, contractPrefix)
}

// ReceiptLocation is a pipeline injection-point identifier. REX contracts
// require one before validation can run.
type ReceiptLocation struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Zone string `json:"zone"`
}

var (
	rexPattern  = regexp.MustCompile(`^(?i:K#)?[0-9]{5,7}$`)
	rubyPattern = regexp.MustCompile(`^(?i:K#)?[A-Za-z]{2}[0-9]{4,6}$`)
)

// Result is the outcome of a contract identifier validation.
type Result struct {
	Valid   bool   `json:"isValid"`
	Message string `json:"message,omitempty"`
}

// Validate checks a raw contract identifier against its pipeline's format.
// For REX, a receipt location must be supplied before the pattern check
// runs; a missing one short-circuits with its own message. The function is
// pure.
func Validate(raw string, pipeline Pipeline, receiptLocationID string) Result {
	if pipeline == PipelineREX && strings.TrimSpace(receiptLocationID) == "" {
		return Result{Valid: false, Message: "a receipt location is required for REX contracts"}
	}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Result{Valid: false, Message: "contract number is required"}
	}

	switch pipeline {
	case PipelineREX:
		if !rexPattern.MatchString(trimmed) {
			return Result{Valid: false, Message: "REX contract numbers are 5-7 digits with an optional K# prefix"}
		}
	case PipelineRuby:
		if !rubyPattern.MatchString(trimmed) {
			return Result{Valid: false, Message: "Ruby contract numbers are 2 letters and 4-6 digits with an optional K# prefix"}
		}
	default:
		return Result{Valid: false, Message: "unknown pipeline"}
	}

	return Result{Valid: true}
}
