// Package testlog turns raw test-suite output into a {test_name: outcome}
// map. It backs Repo Profile Registry's parse_log() and is the input side of
// the Validator's differential classification.
package testlog

// Outcome is a single test's result on one side of a differential run.
type Outcome string

const (
	Pass    Outcome = "pass"
	Fail    Outcome = "fail"
	Error   Outcome = "error"
	Skip    Outcome = "skip"
	Missing Outcome = "missing"
	// Xfail is an alias for Pass: a test marked expected-to-fail that
	// fails is, for classification purposes, a pass.
	Xfail Outcome = "xfail"
)

// Normalize collapses Xfail into Pass. internal/validate classifies on the
// normalized outcome; the raw Xfail value is kept in the report for
// diagnostics.
func (o Outcome) Normalize() Outcome {
	if o == Xfail {
		return Pass
	}
	return o
}

// Report is the outcome map for one test run, as produced by a Parser.
type Report map[string]Outcome

// Parser extracts a Report from one kind of test runner's raw stdout+stderr.
type Parser interface {
	Parse(output string) (Report, error)
}

// ParserKind names the parser a Profile selects for its repository.
type ParserKind string

const (
	KindPytest  ParserKind = "pytest"
	KindVitest  ParserKind = "vitest"
	KindGoTest  ParserKind = "go-test"
	KindGeneric ParserKind = "generic"
)

// New resolves a ParserKind to its Parser.
func New(kind ParserKind) Parser {
	switch kind {
	case KindPytest:
		return PytestParser{}
	case KindVitest:
		return VitestParser{}
	case KindGoTest:
		return GoTestParser{}
	default:
		return GenericParser{}
	}
}
