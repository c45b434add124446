// Package diagnostics defines the records the validator emits and the
// append-only collector that accumulates them during a walk.
package diagnostics

import (
	"fmt"

	"github.com/apivet/apivet/internal/severity"
)

// Severity indicates the severity level of a diagnostic.
type Severity = severity.Severity

const (
	// SeverityError indicates a spec violation that makes the document invalid
	SeverityError = severity.SeverityError
	// SeverityWarning indicates an implementation-defined or advisory finding
	SeverityWarning = severity.SeverityWarning
	// SeverityInfo indicates informational messages
	SeverityInfo = severity.SeverityInfo
)

// Rule identifies the check a diagnostic was produced by. Rule identifiers
// are stable and machine-matchable.
type Rule string

// Error-severity rules.
const (
	RuleInvalidRoot             Rule = "invalid-root"
	RuleUnrecognizedNode        Rule = "unrecognized-node"
	RuleMissingRequiredField    Rule = "missing-required-field"
	RuleMutuallyExclusiveFields Rule = "mutually-exclusive-fields"
	RuleInvalidFieldValue       Rule = "invalid-field-value"
	RuleUnknownDiscriminator    Rule = "unknown-discriminator-value"
	RuleExternalRefUnsupported  Rule = "external-ref-unsupported"
	RuleDanglingReference       Rule = "dangling-reference"
	RuleCyclicReference         Rule = "cyclic-reference"
	RuleReferenceKindMismatch   Rule = "reference-kind-mismatch"
	RuleDuplicateOperationID    Rule = "duplicate-operation-id"
	RuleDuplicatePathTemplate   Rule = "duplicate-path-template"
	RuleInvalidPathTemplate     Rule = "invalid-path-template"
	RuleUndefinedSecurityScheme Rule = "undefined-security-scheme"
	RuleUndeclaredPathParameter Rule = "undeclared-path-parameter"
)

// Warning-severity rules. These never escalate to errors: they cover the
// areas the specification leaves implementation-defined.
const (
	RuleImplementationDefinedFormat Rule = "implementation-defined-format"
	RuleUnknownFormatValue          Rule = "unknown-format-value"
	RuleUnusedComponent             Rule = "unused-component"
	RuleUnknownLicenceID            Rule = "unknown-licence-identifier"
	RuleLicenceURLMismatch          Rule = "licence-url-mismatch"
	RuleUnusedPathParameter         Rule = "unused-path-parameter"
	RuleDeprecatedConstruct         Rule = "deprecated-construct"
	RuleNonstandardStatusCode       Rule = "nonstandard-status-code"
)

// Diagnostic is a single validation finding: what rule fired, where in the
// document, and how bad it is. Diagnostics are value records; no field is
// mutated after creation.
type Diagnostic struct {
	// Rule is the identifier of the check that produced this diagnostic.
	Rule Rule
	// Severity indicates the severity level of the diagnostic.
	Severity Severity
	// Pointer is the RFC 6901 JSON Pointer of the offending node.
	Pointer string
	// Message is a human-readable description of the finding.
	Message string
	// Field is the specific field name involved, when applicable.
	Field string
	// Value is the offending value (optional).
	Value any
	// SpecRef is the URL to the relevant section of the OAS specification (optional).
	SpecRef string
	// SuggestedFix describes a concrete remediation, when one is known (optional).
	SuggestedFix string
	// Related lists JSON Pointers of other locations implicated in the
	// finding, e.g. the first declaration of a duplicated operationId or
	// the full chain of a reference cycle.
	Related []string
	// Line and Column are 1-based positions in the source file (0 if unknown).
	Line   int
	Column int
}

// String returns a formatted representation of the diagnostic.
// Uses "✗" for errors, "⚠" for warnings, and "ℹ" for info.
func (d Diagnostic) String() string {
	var symbol string
	switch d.Severity {
	case SeverityError:
		symbol = "✗"
	case SeverityWarning:
		symbol = "⚠"
	case SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "?"
	}

	location := d.Pointer
	if location == "" {
		location = "(document)"
	}

	var result string
	if d.Line > 0 {
		result = fmt.Sprintf("%s [%s] %s (line %d, col %d): %s", symbol, d.Rule, location, d.Line, d.Column, d.Message)
	} else {
		result = fmt.Sprintf("%s [%s] %s: %s", symbol, d.Rule, location, d.Message)
	}

	if d.SuggestedFix != "" {
		result += fmt.Sprintf("\n    Fix: %s", d.SuggestedFix)
	}
	if d.SpecRef != "" {
		result += fmt.Sprintf("\n    Spec: %s", d.SpecRef)
	}

	return result
}

// Location returns the source location in IDE-friendly "line:column" form,
// falling back to the JSON Pointer if the position is unknown.
func (d Diagnostic) Location() string {
	if d.Line == 0 {
		return d.Pointer
	}
	return fmt.Sprintf("%d:%d", d.Line, d.Column)
}

// IsError reports whether the diagnostic has error severity.
func (d Diagnostic) IsError() bool {
	return d.Severity == SeverityError
}
