// Package severity provides the severity scale for diagnostics produced
// while validating an OAS document.
//
// The engine itself only ever emits two levels:
//   - SeverityError: a specification violation that makes the document invalid
//   - SeverityWarning: an implementation-defined or advisory finding
//
// SeverityInfo exists for presentation layers that want to annotate a
// report with non-actionable notices; the validator never produces it.
//
// The levels are ordered so that errors sort before warnings.
package severity

// Severity indicates how serious a diagnostic is.
type Severity int

const (
	// SeverityError indicates a spec violation that makes the document invalid.
	SeverityError Severity = iota

	// SeverityWarning indicates an implementation-defined area of the
	// specification, a best-practice violation, or a recommendation.
	// Warnings never make a document invalid.
	SeverityWarning

	// SeverityInfo indicates informational messages added by callers.
	SeverityInfo
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}
