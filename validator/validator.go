package validator

import (
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/apivet/apivet/advisory"
	"github.com/apivet/apivet/diagnostics"
	"github.com/apivet/apivet/doctree"
	"github.com/apivet/apivet/grammar"
	"github.com/apivet/apivet/loader"
	"github.com/apivet/apivet/resolver"
)

// Diagnostic is re-exported so callers can consume results without
// importing the diagnostics package directly.
type Diagnostic = diagnostics.Diagnostic

// Severity is re-exported for the same reason.
type Severity = diagnostics.Severity

// ValidationResult contains the results of validating an OpenAPI document.
type ValidationResult struct {
	// Valid is true if no errors were found. In strict mode warnings also
	// count against validity.
	Valid bool
	// Version is the document's declared OpenAPI version string.
	Version string
	// Diagnostics contains every finding, sorted by pointer, severity, and
	// rule for deterministic output.
	Diagnostics []Diagnostic
	// Errors contains only the error-severity findings.
	Errors []Diagnostic
	// Warnings contains only the warning-severity findings.
	Warnings []Diagnostic
	// ErrorCount is the total number of errors.
	ErrorCount int
	// WarningCount is the total number of warnings.
	WarningCount int
	// SourcePath is the document's source path, when known.
	SourcePath string
	// SourceFormat is the detected source format, when loaded from bytes
	// or a file.
	SourceFormat loader.SourceFormat
	// SourceSize is the size of the source data in bytes.
	SourceSize int64
	// LoadTime is the time taken to read and parse the source.
	LoadTime time.Duration
	// ValidateTime is the time taken by validation itself.
	ValidateTime time.Duration
}

// Validator validates OpenAPI 3.1 documents against the construct grammar.
// The zero value is not ready for use; call New.
type Validator struct {
	// IncludeWarnings determines whether warning-severity findings are
	// collected at all.
	IncludeWarnings bool
	// StrictMode makes warnings count against ValidationResult.Valid.
	StrictMode bool
	// ResolveExternalRefs enables following file-based external $refs,
	// resolved relative to the document's directory. Never enabled by
	// default, and remote URLs are never fetched.
	ResolveExternalRefs bool
	// Advisory is the format and licence advisory table consulted for
	// implementation-defined values. Defaults to advisory.Default().
	Advisory *advisory.Table
	// Workers bounds the number of concurrent validation shards.
	// Defaults to GOMAXPROCS.
	Workers int
	// FailFast is accepted for forward compatibility and currently has
	// no effect; every diagnostic is always collected.
	FailFast bool
}

// New creates a new Validator with default settings.
func New() *Validator {
	return &Validator{
		IncludeWarnings: true,
		Advisory:        advisory.Default(),
	}
}

// ValidateWithOptions validates an OpenAPI document using functional
// options combining input selection and configuration:
//
//	result, err := validator.ValidateWithOptions(
//	    validator.WithFilePath("openapi.yaml"),
//	    validator.WithStrictMode(true),
//	)
func ValidateWithOptions(opts ...Option) (*ValidationResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("validator: invalid options: %w", err)
	}

	v := &Validator{
		IncludeWarnings:     cfg.includeWarnings,
		StrictMode:          cfg.strictMode,
		ResolveExternalRefs: cfg.resolveExternalRefs,
		Advisory:            cfg.advisory,
		Workers:             cfg.workers,
		FailFast:            cfg.failFast,
	}
	if v.Advisory == nil {
		v.Advisory = advisory.Default()
	}

	switch {
	case cfg.tree != nil:
		return v.ValidateTree(cfg.tree)
	case cfg.content != nil:
		return v.ValidateBytes(cfg.content)
	default:
		return v.Validate(*cfg.filePath)
	}
}

// Validate loads and validates the document at path.
func (v *Validator) Validate(path string) (*ValidationResult, error) {
	loaded, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	result := v.validate(loaded.Tree, filepath.Dir(path))
	result.Version = loaded.Version
	result.SourcePath = loaded.SourcePath
	result.SourceFormat = loaded.SourceFormat
	result.SourceSize = loaded.SourceSize
	result.LoadTime = loaded.LoadTime
	return result, nil
}

// ValidateBytes parses and validates an in-memory document. External
// references cannot be resolved for byte inputs.
func (v *Validator) ValidateBytes(data []byte) (*ValidationResult, error) {
	loaded, err := loader.LoadBytes(data)
	if err != nil {
		return nil, err
	}
	result := v.validate(loaded.Tree, "")
	result.Version = loaded.Version
	result.SourcePath = loaded.SourcePath
	result.SourceFormat = loaded.SourceFormat
	result.SourceSize = loaded.SourceSize
	result.LoadTime = loaded.LoadTime
	return result, nil
}

// ValidateTree validates an already-built document tree.
func (v *Validator) ValidateTree(tree *doctree.Tree) (*ValidationResult, error) {
	result := v.validate(tree, "")
	if root := tree.Root(); root != nil {
		if version, ok := root.FieldString("openapi"); ok {
			result.Version = version
		}
	}
	return result, nil
}

func (v *Validator) validate(tree *doctree.Tree, baseDir string) *ValidationResult {
	start := time.Now()

	var resolverOpts []resolver.Option
	if v.ResolveExternalRefs && baseDir != "" {
		resolverOpts = append(resolverOpts, resolver.WithExternalRefs(loader.FileLoader(baseDir)))
	}

	st := &docState{
		tree:     tree,
		resolver: resolver.New(tree, resolverOpts...),
		advisory: v.Advisory,
	}
	if st.advisory == nil {
		st.advisory = advisory.Default()
	}

	col := diagnostics.NewCollector()

	if v.checkRoot(tree, col) {
		used := v.walkShards(st, col)
		v.documentChecks(st, col, used)
	}

	col.Sort()
	diags := dedupeCycles(col.Diagnostics())

	result := &ValidationResult{ValidateTime: time.Since(start)}
	for _, d := range diags {
		result.Diagnostics = append(result.Diagnostics, d)
		switch d.Severity {
		case diagnostics.SeverityError:
			result.Errors = append(result.Errors, d)
		case diagnostics.SeverityWarning:
			result.Warnings = append(result.Warnings, d)
		}
	}
	result.ErrorCount = len(result.Errors)
	result.WarningCount = len(result.Warnings)
	result.Valid = result.ErrorCount == 0 && (!v.StrictMode || result.WarningCount == 0)
	return result
}

// checkRoot verifies the top-level document shape and version before any
// descent. It reports whether the rest of validation can proceed.
func (v *Validator) checkRoot(tree *doctree.Tree, col *diagnostics.Collector) bool {
	root := tree.Root()
	if root == nil || !root.IsMapping() {
		col.Add(diagnostics.Diagnostic{
			Rule:     diagnostics.RuleInvalidRoot,
			Severity: diagnostics.SeverityError,
			Pointer:  "",
			Message:  "document root must be an object",
			SpecRef:  grammar.SpecURL("openapi-object"),
		})
		return false
	}

	openapi, ok := root.Field("openapi")
	if !ok {
		col.Add(diagnostics.Diagnostic{
			Rule:     diagnostics.RuleInvalidRoot,
			Severity: diagnostics.SeverityError,
			Pointer:  "",
			Message:  `document has no "openapi" field; not an OpenAPI document`,
			SpecRef:  grammar.SpecURL("openapi-object"),
			Line:     root.Line,
			Column:   root.Column,
		})
		return true
	}

	version, isString := openapi.StringValue()
	if !isString || !grammar.OpenAPIVersionSupported(version) {
		col.Add(diagnostics.Diagnostic{
			Rule:     diagnostics.RuleInvalidRoot,
			Severity: diagnostics.SeverityError,
			Pointer:  "/openapi",
			Field:    "openapi",
			Value:    openapi.Value,
			Message:  fmt.Sprintf("unsupported OpenAPI version %v; only 3.1.x documents are supported", openapi.Value),
			SpecRef:  grammar.SpecURL("openapi-object"),
			Line:     openapi.Line,
			Column:   openapi.Column,
		})
	}
	return true
}

func (v *Validator) workers() int {
	if v.Workers > 0 {
		return v.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// dedupeCycles keeps one diagnostic per distinct reference cycle. The same
// cycle is surfaced at every site that enters it; after sorting, the first
// occurrence is kept so output stays deterministic.
func dedupeCycles(diags []Diagnostic) []Diagnostic {
	seen := make(map[string]bool)
	out := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		if d.Rule == diagnostics.RuleCyclicReference {
			key := resolver.CycleKey(d.Related)
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		out = append(out, d)
	}
	return out
}
