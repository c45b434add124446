package validator

import (
	"github.com/apivet/apivet/advisory"
	"github.com/apivet/apivet/doctree"
	"github.com/apivet/apivet/internal/options"
)

// Option is a function that configures a validation operation.
type Option func(*validateConfig) error

// validateConfig holds configuration for a validation operation.
type validateConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	content  []byte
	tree     *doctree.Tree

	// Configuration options
	includeWarnings     bool
	strictMode          bool
	resolveExternalRefs bool
	advisory            *advisory.Table
	workers             int
	failFast            bool
}

// applyOptions applies option functions and validates configuration.
func applyOptions(opts ...Option) (*validateConfig, error) {
	cfg := &validateConfig{
		includeWarnings: true,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.ValidateSingleInputSource(
		"must specify an input source (use WithFilePath, WithContent, or WithTree)",
		"must specify exactly one input source",
		cfg.filePath != nil, cfg.content != nil, cfg.tree != nil,
	); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithFilePath specifies a file path as the input source.
func WithFilePath(path string) Option {
	return func(cfg *validateConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithContent specifies raw YAML or JSON bytes as the input source.
func WithContent(data []byte) Option {
	return func(cfg *validateConfig) error {
		cfg.content = data
		return nil
	}
}

// WithTree specifies an already-built document tree as the input source.
func WithTree(tree *doctree.Tree) Option {
	return func(cfg *validateConfig) error {
		cfg.tree = tree
		return nil
	}
}

// WithIncludeWarnings enables or disables warning-severity findings.
// Default: true.
func WithIncludeWarnings(enabled bool) Option {
	return func(cfg *validateConfig) error {
		cfg.includeWarnings = enabled
		return nil
	}
}

// WithStrictMode makes warnings count against validity.
// Default: false.
func WithStrictMode(enabled bool) Option {
	return func(cfg *validateConfig) error {
		cfg.strictMode = enabled
		return nil
	}
}

// WithResolveExternalRefs enables following file-based external references
// relative to the document's directory. Only effective with WithFilePath;
// remote URLs are never fetched.
// Default: false.
func WithResolveExternalRefs(enabled bool) Option {
	return func(cfg *validateConfig) error {
		cfg.resolveExternalRefs = enabled
		return nil
	}
}

// WithAdvisoryTable substitutes the format and licence advisory table.
func WithAdvisoryTable(table *advisory.Table) Option {
	return func(cfg *validateConfig) error {
		cfg.advisory = table
		return nil
	}
}

// WithFailFast is accepted but currently has no effect: the engine
// always collects every diagnostic. Reserved for a future short-circuit
// mode.
func WithFailFast(enabled bool) Option {
	return func(cfg *validateConfig) error {
		cfg.failFast = enabled
		return nil
	}
}

// WithWorkers bounds the number of concurrent validation shards.
// Default: GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(cfg *validateConfig) error {
		cfg.workers = n
		return nil
	}
}
