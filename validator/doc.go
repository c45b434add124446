// Package validator validates OpenAPI 3.1.x documents and reports every
// finding as a JSON-Pointer-addressed diagnostic.
//
// Validation is fail-slow: the walk never stops at the first problem, it
// collects everything it can find in one pass so a document author sees
// the full picture at once. Findings carry two severities:
//
//   - SeverityError: specification violations that make the document invalid
//   - SeverityWarning: implementation-defined or advisory findings, such as
//     unregistered format values or components nothing references
//
// Warnings never make a document invalid unless StrictMode is enabled, and
// can be suppressed entirely with IncludeWarnings = false.
//
// # What is checked
//
// Every construct of the OAS 3.1.1 grammar is matched against a static
// descriptor: required fields, field value shapes, mutually exclusive
// pairs, and the conditional requirements that hinge on a sibling value
// (parameter location, security scheme type, OAuth flow key). References
// are resolved locally with cycle detection; dangling, cyclic, and
// kind-mismatched $refs are reported at the referencing site. After the
// walk, whole-document checks cover operationId uniqueness, path template
// collisions, security scheme wiring, path parameter consistency, and
// unused components.
//
// # Supported versions
//
// Only OAS 3.1.x documents are accepted; anything else is rejected with an
// invalid-root diagnostic. Schema objects are treated as JSON Schema draft
// 2020-12 with the OAS dialect extensions.
//
// # Usage
//
//	result, err := validator.ValidateWithOptions(
//	    validator.WithFilePath("openapi.yaml"),
//	)
//	if err != nil {
//	    log.Fatal(err) // could not read or parse the document
//	}
//	for _, d := range result.Diagnostics {
//	    fmt.Println(d)
//	}
//
// A non-nil error means the document never reached validation (unreadable
// file, malformed YAML). Problems inside a well-formed document are never
// errors; they are diagnostics on the result.
package validator
