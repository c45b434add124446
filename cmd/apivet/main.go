package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apivet/apivet"
	"github.com/apivet/apivet/internal/cliutil"
	"github.com/apivet/apivet/internal/mcpserver"
	"github.com/apivet/apivet/validator"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		cliutil.Writef(os.Stdout, "apivet v%s\n", apivet.Version())
	case "help", "-h", "--help":
		printUsage()
	case "validate":
		if err := handleValidate(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := handleMCP(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			fmt.Fprintf(os.Stderr, "Did you mean %q?\n", suggestion)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}
}

// validateFlags contains flags for the validate command
type validateFlags struct {
	strict       bool
	noWarnings   bool
	externalRefs bool
	jsonOutput   bool
	workers      int
}

func setupValidateFlags() (*flag.FlagSet, *validateFlags) {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	flags := &validateFlags{}

	fs.BoolVar(&flags.strict, "strict", false, "warnings count against validity")
	fs.BoolVar(&flags.noWarnings, "no-warnings", false, "suppress warning messages (only show errors)")
	fs.BoolVar(&flags.externalRefs, "external-refs", false, "resolve file-based external $refs relative to the document")
	fs.BoolVar(&flags.jsonOutput, "json", false, "emit the full result as JSON")
	fs.IntVar(&flags.workers, "workers", 0, "number of concurrent validation shards (default: GOMAXPROCS)")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: apivet validate [flags] <file>\n\n")
		cliutil.Writef(fs.Output(), "Validate an OpenAPI 3.1.x document and report diagnostics keyed by JSON Pointer.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  apivet validate openapi.yaml\n")
		cliutil.Writef(fs.Output(), "  apivet validate --strict api-spec.yaml\n")
		cliutil.Writef(fs.Output(), "  apivet validate --no-warnings --json openapi.json\n")
		cliutil.Writef(fs.Output(), "  apivet validate --external-refs split/openapi.yaml\n")
		cliutil.Writef(fs.Output(), "\nExit Status:\n")
		cliutil.Writef(fs.Output(), "  0    Document is valid\n")
		cliutil.Writef(fs.Output(), "  1    Errors found (or warnings, with --strict)\n")
	}

	return fs, flags
}

func handleValidate(args []string) error {
	fs, flags := setupValidateFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("validate command requires exactly one file path")
	}

	specPath := fs.Arg(0)

	v := validator.New()
	v.StrictMode = flags.strict
	v.IncludeWarnings = !flags.noWarnings
	v.ResolveExternalRefs = flags.externalRefs
	v.Workers = flags.workers

	startTime := time.Now()
	result, err := v.Validate(specPath)
	totalTime := time.Since(startTime)
	if err != nil {
		return fmt.Errorf("validating file: %w", err)
	}

	if flags.jsonOutput {
		return printJSON(specPath, result)
	}

	// Print results
	cliutil.Writef(os.Stdout, "OpenAPI 3.1 Validator\n")
	cliutil.Writef(os.Stdout, "=====================\n\n")
	cliutil.Writef(os.Stdout, "apivet version: %s\n", apivet.Version())
	cliutil.Writef(os.Stdout, "Document: %s\n", specPath)
	cliutil.Writef(os.Stdout, "OAS Version: %s\n", result.Version)
	cliutil.Writef(os.Stdout, "Source Size: %d bytes\n", result.SourceSize)
	cliutil.Writef(os.Stdout, "Load Time: %v\n", result.LoadTime)
	cliutil.Writef(os.Stdout, "Total Time: %v\n\n", totalTime)

	if len(result.Errors) > 0 {
		cliutil.Writef(os.Stdout, "Errors (%d):\n", result.ErrorCount)
		for _, e := range result.Errors {
			cliutil.Writef(os.Stdout, "  %s\n", e.String())
		}
		cliutil.Writef(os.Stdout, "\n")
	}

	if len(result.Warnings) > 0 {
		cliutil.Writef(os.Stdout, "Warnings (%d):\n", result.WarningCount)
		for _, w := range result.Warnings {
			cliutil.Writef(os.Stdout, "  %s\n", w.String())
		}
		cliutil.Writef(os.Stdout, "\n")
	}

	if result.Valid {
		cliutil.Writef(os.Stdout, "✓ Validation passed")
		if result.WarningCount > 0 {
			cliutil.Writef(os.Stdout, " with %d warning(s)", result.WarningCount)
		}
		cliutil.Writef(os.Stdout, "\n")
	} else {
		cliutil.Writef(os.Stdout, "✗ Validation failed: %d error(s)", result.ErrorCount)
		if result.WarningCount > 0 {
			cliutil.Writef(os.Stdout, ", %d warning(s)", result.WarningCount)
		}
		cliutil.Writef(os.Stdout, "\n")
		os.Exit(1)
	}

	return nil
}

// jsonDiagnostic is the machine-readable rendition of one diagnostic.
type jsonDiagnostic struct {
	Rule       string   `json:"rule"`
	Severity   string   `json:"severity"`
	Pointer    string   `json:"pointer"`
	Message    string   `json:"message"`
	Field      string   `json:"field,omitempty"`
	Value      any      `json:"value,omitempty"`
	SpecRef    string   `json:"spec_ref,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
	Related    []string `json:"related,omitempty"`
	Line       int      `json:"line,omitempty"`
	Column     int      `json:"column,omitempty"`
}

type jsonReport struct {
	Document     string           `json:"document"`
	Valid        bool             `json:"valid"`
	Version      string           `json:"version"`
	ErrorCount   int              `json:"error_count"`
	WarningCount int              `json:"warning_count"`
	Diagnostics  []jsonDiagnostic `json:"diagnostics"`
}

func printJSON(specPath string, result *validator.ValidationResult) error {
	report := jsonReport{
		Document:     specPath,
		Valid:        result.Valid,
		Version:      result.Version,
		ErrorCount:   result.ErrorCount,
		WarningCount: result.WarningCount,
		Diagnostics:  make([]jsonDiagnostic, 0, len(result.Diagnostics)),
	}
	for _, d := range result.Diagnostics {
		report.Diagnostics = append(report.Diagnostics, jsonDiagnostic{
			Rule:       string(d.Rule),
			Severity:   d.Severity.String(),
			Pointer:    d.Pointer,
			Message:    d.Message,
			Field:      d.Field,
			Value:      d.Value,
			SpecRef:    d.SpecRef,
			Suggestion: d.SuggestedFix,
			Related:    d.Related,
			Line:       d.Line,
			Column:     d.Column,
		})
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	cliutil.Writef(os.Stdout, "%s\n", data)

	if !result.Valid {
		os.Exit(1)
	}
	return nil
}

func handleMCP(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: apivet mcp\n\n")
		cliutil.Writef(fs.Output(), "Run the MCP server over stdio, exposing the validate tool.\n")
		cliutil.Writef(fs.Output(), "Configuration is read from APIVET_* environment variables.\n")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return mcpserver.Run(ctx)
}

var commands = []string{"validate", "mcp", "version", "help"}

// suggestCommand returns the closest known command within edit distance 2,
// or an empty string when nothing is close enough.
func suggestCommand(input string) string {
	best := ""
	bestDist := 3
	for _, cmd := range commands {
		if d := editDistance(input, cmd); d < bestDist {
			best = cmd
			bestDist = d
		}
	}
	return best
}

func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func printUsage() {
	fmt.Println(`apivet - OpenAPI 3.1 validation

Usage:
  apivet <command> [options]

Commands:
  validate    Validate an OpenAPI 3.1.x document
  mcp         Run the MCP server over stdio
  version     Show version information
  help        Show this help message

Examples:
  apivet validate openapi.yaml
  apivet validate --strict --json api-spec.yaml
  apivet mcp

Run 'apivet <command> --help' for more information on a command.`)
}
