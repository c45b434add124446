package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/apivet/apivet/validator"
)

type validateInput struct {
	Spec         specInput `json:"spec"                        jsonschema:"The OAS document to validate"`
	Strict       *bool     `json:"strict,omitempty"            jsonschema:"Enable strict validation mode (warnings count against validity)"`
	NoWarnings   *bool     `json:"no_warnings,omitempty"       jsonschema:"Suppress warnings from output"`
	ExternalRefs bool      `json:"external_refs,omitempty"     jsonschema:"Resolve file-based external $refs relative to the document (file input only; URLs are never fetched)"`
	Offset       int       `json:"offset,omitempty"            jsonschema:"Skip the first N errors/warnings (for pagination)"`
	Limit        int       `json:"limit,omitempty"             jsonschema:"Maximum number of errors/warnings to return (default 100). Applied independently to errors and warnings arrays."`
}

type validateIssue struct {
	Pointer    string `json:"pointer"`
	Rule       string `json:"rule"`
	Message    string `json:"message"`
	Field      string `json:"field,omitempty"`
	Line       int    `json:"line,omitempty"`
	Column     int    `json:"column,omitempty"`
	SpecRef    string `json:"spec_ref,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

type validateOutput struct {
	Valid        bool            `json:"valid"`
	Version      string          `json:"version"`
	ErrorCount   int             `json:"error_count"`
	WarningCount int             `json:"warning_count"`
	Returned     int             `json:"returned"`
	Errors       []validateIssue `json:"errors,omitempty"`
	Warnings     []validateIssue `json:"warnings,omitempty"`
}

func handleValidate(_ context.Context, _ *mcp.CallToolRequest, input validateInput) (*mcp.CallToolResult, validateOutput, error) {
	// Apply config defaults when input fields are omitted (nil).
	strict := cfg.ValidateStrict
	if input.Strict != nil {
		strict = *input.Strict
	}
	noWarnings := cfg.ValidateNoWarnings
	if input.NoWarnings != nil {
		noWarnings = *input.NoWarnings
	}

	opts := []validator.Option{
		validator.WithStrictMode(strict),
		validator.WithIncludeWarnings(!noWarnings),
	}

	// External resolution needs the document's directory, so it bypasses
	// the cache and loads through the file path.
	if input.ExternalRefs && input.Spec.File != "" {
		opts = append(opts,
			validator.WithFilePath(input.Spec.File),
			validator.WithResolveExternalRefs(true),
		)
	} else {
		loaded, err := input.Spec.resolve()
		if err != nil {
			return errResult(err), validateOutput{}, nil
		}
		opts = append(opts, validator.WithTree(loaded.Tree))
	}

	result, err := validator.ValidateWithOptions(opts...)
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}

	output := validateOutput{
		Valid:      result.Valid,
		Version:    result.Version,
		ErrorCount: result.ErrorCount,
	}

	output.Errors = makeSlice[validateIssue](len(result.Errors))
	for _, e := range result.Errors {
		output.Errors = append(output.Errors, toIssue(e))
	}
	if !noWarnings {
		output.WarningCount = result.WarningCount
		output.Warnings = makeSlice[validateIssue](len(result.Warnings))
		for _, w := range result.Warnings {
			output.Warnings = append(output.Warnings, toIssue(w))
		}
	}

	// Paginate errors and warnings.
	output.Errors = paginate(output.Errors, input.Offset, input.Limit)
	if !noWarnings {
		output.Warnings = paginate(output.Warnings, input.Offset, input.Limit)
	}
	output.Returned = len(output.Errors) + len(output.Warnings)

	return nil, output, nil
}

func toIssue(d validator.Diagnostic) validateIssue {
	return validateIssue{
		Pointer:    d.Pointer,
		Rule:       string(d.Rule),
		Message:    d.Message,
		Field:      d.Field,
		Line:       d.Line,
		Column:     d.Column,
		SpecRef:    d.SpecRef,
		Suggestion: d.SuggestedFix,
	}
}
