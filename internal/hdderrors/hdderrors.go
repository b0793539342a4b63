// Package hdderrors defines the error taxonomy used throughout the reducer:
// a small set of typed, wrappable errors that distinguish fatal setup
// failures (bad grammar, unparseable input) from the reducer's own internal
// bugs (invariant violations), plus the conservative treatment of oracle
// outcomes that are never fatal.
package hdderrors

import "fmt"

// Kind identifies which member of the error taxonomy an error belongs to.
type Kind int

const (
	// KindGrammar means the grammar bundle could not be loaded or is
	// internally inconsistent. Fatal.
	KindGrammar Kind = iota

	// KindReplacementUnresolvable means the replacement computer's fixed
	// point did not converge for some mandatory rule. Fatal.
	KindReplacementUnresolvable

	// KindParseFailed means the initial input could not be parsed even
	// partially. Fatal unless the caller opts into an untyped fallback.
	KindParseFailed

	// KindParsedWithErrors means the tree builder produced a tree
	// containing ErrorTokens. Non-fatal; a warning only.
	KindParsedWithErrors

	// KindOracleUnresolved means an oracle call returned UNRESOLVED or
	// failed to complete. Treated as not-interesting, never fatal.
	KindOracleUnresolved

	// KindInvariantViolation means a post-transformation self-check
	// failed. Fatal; indicates a bug in the reducer itself.
	KindInvariantViolation
)

func (k Kind) String() string {
	switch k {
	case KindGrammar:
		return "GrammarError"
	case KindReplacementUnresolvable:
		return "ReplacementUnresolvable"
	case KindParseFailed:
		return "ParseFailed"
	case KindParsedWithErrors:
		return "ParsedWithErrors"
	case KindOracleUnresolved:
		return "OracleUnresolved"
	case KindInvariantViolation:
		return "InvariantViolation"
	default:
		return "UnknownError"
	}
}

// Fatal reports whether errors of this kind halt a reduction session.
// ParsedWithErrors and OracleUnresolved are the only non-fatal kinds.
func (k Kind) Fatal() bool {
	return k != KindParsedWithErrors && k != KindOracleUnresolved
}

// hddError is an error caused by some failure in the reduction pipeline. It
// carries both a technical message suitable for logs and a shorter
// human-readable summary suitable for a CLI report.
type hddError struct {
	kind  Kind
	msg   string
	human string
	wrap  error
}

func (e *hddError) Error() string {
	return e.msg
}

// Summary gives the short human-readable description of the error, suitable
// for display in a CLI report rather than a log.
func (e *hddError) Summary() string {
	return e.human
}

// Kind returns the taxonomy member this error belongs to.
func (e *hddError) Kind() Kind {
	return e.kind
}

// Unwrap gives the error that this one wraps, if any.
func (e *hddError) Unwrap() error {
	return e.wrap
}

func newErr(kind Kind, summary, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("%s: %s", kind, summary)
	}
	return &hddError{kind: kind, msg: technical, human: summary}
}

func wrapErr(kind Kind, wrapped error, summary, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("%s: %s: %v", kind, summary, wrapped)
	}
	return &hddError{kind: kind, msg: technical, human: summary, wrap: wrapped}
}

// Grammar returns a new fatal GrammarError.
func Grammar(summary string) error {
	return newErr(KindGrammar, summary, "")
}

// Grammarf is like Grammar but builds the summary via Sprintf.
func Grammarf(format string, a ...interface{}) error {
	return newErr(KindGrammar, fmt.Sprintf(format, a...), "")
}

// WrapGrammar wraps err as a fatal GrammarError.
func WrapGrammar(err error, summary string) error {
	return wrapErr(KindGrammar, err, summary, "")
}

// ReplacementUnresolvable returns a new fatal ReplacementUnresolvable error
// for the named rule.
func ReplacementUnresolvable(ruleName string) error {
	return newErr(KindReplacementUnresolvable, fmt.Sprintf("rule %q has no terminating expansion", ruleName), "")
}

// ParseFailed returns a new fatal ParseFailed error.
func ParseFailed(summary string) error {
	return newErr(KindParseFailed, summary, "")
}

// WrapParseFailed wraps err as a fatal ParseFailed error.
func WrapParseFailed(err error, summary string) error {
	return wrapErr(KindParseFailed, err, summary, "")
}

// ParsedWithErrors returns a new non-fatal ParsedWithErrors warning.
func ParsedWithErrors(summary string) error {
	return newErr(KindParsedWithErrors, summary, "")
}

// OracleUnresolved returns a new non-fatal OracleUnresolved notice.
func OracleUnresolved(summary string) error {
	return newErr(KindOracleUnresolved, summary, "")
}

// InvariantViolation returns a new fatal InvariantViolation error, indicating
// a bug in the reducer rather than bad input.
func InvariantViolation(summary string) error {
	return newErr(KindInvariantViolation, summary, "")
}

// InvariantViolationf is like InvariantViolation but builds the summary via
// Sprintf.
func InvariantViolationf(format string, a ...interface{}) error {
	return newErr(KindInvariantViolation, fmt.Sprintf(format, a...), "")
}

// Summary gets the short human-readable message for err. If err is one of
// the types defined in this package, its Summary() is returned; otherwise
// err.Error() is returned unchanged.
func Summary(err error) string {
	if hErr, ok := err.(*hddError); ok {
		return hErr.Summary()
	}
	return err.Error()
}

// KindOf returns the Kind of err and true if err belongs to this package's
// taxonomy, or the zero Kind and false otherwise.
func KindOf(err error) (Kind, bool) {
	hErr, ok := err.(*hddError)
	if !ok {
		return 0, false
	}
	return hErr.kind, true
}

// IsFatal reports whether err is fatal to a reduction session. Errors
// outside this package's taxonomy are treated as fatal by default, matching
// the conservative stance of "unknown error kinds stop the session."
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if k, ok := KindOf(err); ok {
		return k.Fatal()
	}
	return true
}
