// Package loader reads OpenAPI documents from files or byte slices and
// produces the position-aware document tree the validator walks.
//
// Both YAML and JSON sources are supported through a single parse path:
// JSON is a subset of YAML, and parsing through the YAML node tree keeps
// line and column information for every value in either format.
package loader

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v4"

	"github.com/apivet/apivet/doctree"
	"github.com/apivet/apivet/oaserrors"
)

// SourceFormat represents the detected format of a document source.
type SourceFormat string

const (
	// SourceFormatYAML indicates the source was in YAML format.
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates the source was in JSON format.
	SourceFormatJSON SourceFormat = "json"
)

const (
	// defaultMaxSize caps document size to keep a hostile input from
	// exhausting memory before validation even starts.
	defaultMaxSize = 64 << 20

	// maxNestingDepth caps node nesting during tree construction.
	maxNestingDepth = 2000
)

// Result holds a loaded document and metadata about its source.
type Result struct {
	// Tree is the position-aware document tree.
	Tree *doctree.Tree
	// SourcePath is the file path the document was read from, or the
	// source name given via WithSourceName for byte inputs.
	SourcePath string
	// SourceFormat is the detected source format.
	SourceFormat SourceFormat
	// Version is the raw value of the document's top-level "openapi"
	// field, or "" when the field is absent. The validator decides
	// whether it is acceptable.
	Version string
	// SourceSize is the size of the source data in bytes.
	SourceSize int64
	// LoadTime is the time taken to read and parse the source.
	LoadTime time.Duration
}

// Option configures a load operation.
type Option func(*config)

type config struct {
	sourceName string
	maxSize    int64
}

// WithSourceName sets the source identifier recorded for byte inputs,
// used in error messages and Result.SourcePath.
func WithSourceName(name string) Option {
	return func(c *config) { c.sourceName = name }
}

// WithMaxSize overrides the default document size limit.
func WithMaxSize(n int64) Option {
	return func(c *config) { c.maxSize = n }
}

// Load reads and parses the document at path.
func Load(path string, opts ...Option) (*Result, error) {
	if path == "" {
		return nil, &oaserrors.ConfigError{Option: "path", Message: "path is empty"}
	}
	start := time.Now()
	cfg := newConfig(opts)

	info, err := os.Stat(path)
	if err != nil {
		return nil, &oaserrors.ParseError{Path: path, Message: "cannot read file", Cause: err}
	}
	if info.Size() > cfg.maxSize {
		return nil, &oaserrors.ResourceLimitError{
			ResourceType: "file_size",
			Limit:        cfg.maxSize,
			Actual:       info.Size(),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &oaserrors.ParseError{Path: path, Message: "cannot read file", Cause: err}
	}

	res, err := parse(data, path, detectFormatFromPath(path))
	if err != nil {
		return nil, err
	}
	res.LoadTime = time.Since(start)
	return res, nil
}

// LoadBytes parses an in-memory document.
func LoadBytes(data []byte, opts ...Option) (*Result, error) {
	start := time.Now()
	cfg := newConfig(opts)

	if int64(len(data)) > cfg.maxSize {
		return nil, &oaserrors.ResourceLimitError{
			ResourceType: "file_size",
			Limit:        cfg.maxSize,
			Actual:       int64(len(data)),
		}
	}

	name := cfg.sourceName
	format := detectFormatFromPath(name)
	if name == "" {
		// No caller-provided name: sniff the content and name the source
		// to match, so errors still read like a file path.
		format = detectFormatFromContent(data)
		if format == SourceFormatJSON {
			name = "bytes.json"
		} else {
			name = "bytes.yaml"
		}
	}
	res, err := parse(data, name, format)
	if err != nil {
		return nil, err
	}
	res.LoadTime = time.Since(start)
	return res, nil
}

func newConfig(opts []Option) *config {
	cfg := &config{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func parse(data []byte, sourcePath string, format SourceFormat) (*Result, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &oaserrors.ParseError{Path: sourcePath, Message: "document is empty"}
	}
	if format == "" {
		format = detectFormatFromContent(data)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &oaserrors.ParseError{Path: sourcePath, Message: "invalid document", Cause: err}
	}

	content := &root
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, &oaserrors.ParseError{Path: sourcePath, Message: "document is empty"}
		}
		content = root.Content[0]
	}

	node, err := convert(content, "", 0, sourcePath)
	if err != nil {
		return nil, err
	}

	tree := doctree.NewTree(node)
	return &Result{
		Tree:         tree,
		SourcePath:   sourcePath,
		SourceFormat: format,
		Version:      documentVersion(node),
		SourceSize:   int64(len(data)),
	}, nil
}

// convert turns a yaml.Node into a doctree.Node, preserving key order and
// source positions, resolving aliases and YAML merge keys.
func convert(n *yaml.Node, ptr string, depth int, sourcePath string) (*doctree.Node, error) {
	if depth > maxNestingDepth {
		return nil, &oaserrors.ResourceLimitError{
			ResourceType: "nesting_depth",
			Limit:        maxNestingDepth,
			Message:      "document nests too deeply at " + ptr,
		}
	}
	for n.Kind == yaml.AliasNode {
		n = n.Alias
	}

	switch n.Kind {
	case yaml.MappingNode:
		out := &doctree.Node{
			Ptr:    ptr,
			Line:   n.Line,
			Column: n.Column,
			Kind:   doctree.KindMapping,
			Fields: make(map[string]*doctree.Node, len(n.Content)/2),
		}
		if err := convertMapping(n, out, depth, sourcePath); err != nil {
			return nil, err
		}
		return out, nil

	case yaml.SequenceNode:
		out := &doctree.Node{
			Ptr:    ptr,
			Line:   n.Line,
			Column: n.Column,
			Kind:   doctree.KindSequence,
			Items:  make([]*doctree.Node, 0, len(n.Content)),
		}
		for i, item := range n.Content {
			child, err := convert(item, ptr+"/"+strconv.Itoa(i), depth+1, sourcePath)
			if err != nil {
				return nil, err
			}
			out.Items = append(out.Items, child)
		}
		return out, nil

	case yaml.ScalarNode:
		value, isNull, err := scalarValue(n, sourcePath)
		if err != nil {
			return nil, err
		}
		kind := doctree.KindScalar
		if isNull {
			kind = doctree.KindNull
		}
		return &doctree.Node{
			Ptr:    ptr,
			Line:   n.Line,
			Column: n.Column,
			Kind:   kind,
			Value:  value,
		}, nil

	default:
		return nil, &oaserrors.ParseError{
			Path:    sourcePath,
			Line:    n.Line,
			Column:  n.Column,
			Message: fmt.Sprintf("unsupported YAML node at %s", displayPtr(ptr)),
		}
	}
}

func convertMapping(n *yaml.Node, out *doctree.Node, depth int, sourcePath string) error {
	var merges []*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode := n.Content[i]
		valNode := n.Content[i+1]

		if keyNode.Tag == "!!merge" {
			merges = append(merges, valNode)
			continue
		}
		if keyNode.Kind != yaml.ScalarNode {
			return &oaserrors.ParseError{
				Path:    sourcePath,
				Line:    keyNode.Line,
				Column:  keyNode.Column,
				Message: "mapping keys must be strings",
			}
		}

		key := keyNode.Value
		child, err := convert(valNode, doctree.AppendToken(out.Ptr, key), depth+1, sourcePath)
		if err != nil {
			return err
		}
		if _, dup := out.Fields[key]; dup {
			return &oaserrors.ParseError{
				Path:    sourcePath,
				Line:    keyNode.Line,
				Column:  keyNode.Column,
				Message: fmt.Sprintf("duplicate mapping key %q at %s", key, displayPtr(out.Ptr)),
			}
		}
		out.Keys = append(out.Keys, key)
		out.Fields[key] = child
	}
	// Merge keys apply after all explicit keys, wherever "<<" sits in the
	// mapping: an explicit key always overrides a merged one.
	for _, val := range merges {
		if err := applyMerge(val, out, depth, sourcePath); err != nil {
			return err
		}
	}
	return nil
}

// applyMerge expands a "<<" merge key: the value is a mapping (or sequence
// of mappings) whose entries fill in fields not set explicitly.
func applyMerge(val *yaml.Node, out *doctree.Node, depth int, sourcePath string) error {
	for val.Kind == yaml.AliasNode {
		val = val.Alias
	}
	switch val.Kind {
	case yaml.MappingNode:
		merged, err := convert(val, out.Ptr, depth+1, sourcePath)
		if err != nil {
			return err
		}
		for _, key := range merged.Keys {
			if _, exists := out.Fields[key]; exists {
				continue
			}
			out.Keys = append(out.Keys, key)
			out.Fields[key] = rekey(merged.Fields[key], doctree.AppendToken(out.Ptr, key))
		}
		return nil
	case yaml.SequenceNode:
		for _, item := range val.Content {
			if err := applyMerge(item, out, depth, sourcePath); err != nil {
				return err
			}
		}
		return nil
	default:
		return &oaserrors.ParseError{
			Path:    sourcePath,
			Line:    val.Line,
			Column:  val.Column,
			Message: "merge key value must be a mapping or a sequence of mappings",
		}
	}
}

// rekey rewrites the pointers of a merged subtree so that each node's
// pointer reflects its merged position, not the anchor's.
func rekey(n *doctree.Node, ptr string) *doctree.Node {
	out := *n
	out.Ptr = ptr
	if n.Kind == doctree.KindMapping {
		out.Fields = make(map[string]*doctree.Node, len(n.Fields))
		for key, child := range n.Fields {
			out.Fields[key] = rekey(child, doctree.AppendToken(ptr, key))
		}
	}
	if n.Kind == doctree.KindSequence {
		out.Items = make([]*doctree.Node, len(n.Items))
		for i, child := range n.Items {
			out.Items[i] = rekey(child, ptr+"/"+strconv.Itoa(i))
		}
	}
	return &out
}

func scalarValue(n *yaml.Node, sourcePath string) (value any, isNull bool, err error) {
	switch n.Tag {
	case "!!null", "":
		if n.Tag == "" && n.Value != "" {
			return n.Value, false, nil
		}
		return nil, true, nil
	case "!!bool":
		b, perr := strconv.ParseBool(strings.ToLower(n.Value))
		if perr != nil {
			// YAML 1.1 spellings the strict parser may still tag.
			switch strings.ToLower(n.Value) {
			case "yes", "on":
				return true, false, nil
			case "no", "off":
				return false, false, nil
			}
			return nil, false, &oaserrors.ParseError{
				Path: sourcePath, Line: n.Line, Column: n.Column,
				Message: fmt.Sprintf("invalid boolean %q", n.Value),
			}
		}
		return b, false, nil
	case "!!int":
		if i, perr := strconv.ParseInt(n.Value, 0, 64); perr == nil {
			return i, false, nil
		}
		// Out-of-range integers degrade to float64, matching what a
		// plain yaml.Unmarshal into any would produce.
		if f, perr := strconv.ParseFloat(n.Value, 64); perr == nil {
			return f, false, nil
		}
		return nil, false, &oaserrors.ParseError{
			Path: sourcePath, Line: n.Line, Column: n.Column,
			Message: fmt.Sprintf("invalid integer %q", n.Value),
		}
	case "!!float":
		switch strings.ToLower(strings.TrimPrefix(n.Value, "+")) {
		case ".inf":
			return math.Inf(1), false, nil
		case "-.inf":
			return math.Inf(-1), false, nil
		case ".nan":
			return math.NaN(), false, nil
		}
		f, perr := strconv.ParseFloat(n.Value, 64)
		if perr != nil {
			return nil, false, &oaserrors.ParseError{
				Path: sourcePath, Line: n.Line, Column: n.Column,
				Message: fmt.Sprintf("invalid number %q", n.Value),
			}
		}
		return f, false, nil
	default:
		// Strings, timestamps, binary: keep the raw text.
		return n.Value, false, nil
	}
}

func documentVersion(root *doctree.Node) string {
	if v, ok := root.FieldString("openapi"); ok {
		return v
	}
	return ""
}

func detectFormatFromPath(path string) SourceFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return SourceFormatJSON
	case ".yaml", ".yml":
		return SourceFormatYAML
	default:
		return ""
	}
}

func detectFormatFromContent(data []byte) SourceFormat {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return SourceFormatJSON
	}
	return SourceFormatYAML
}

func displayPtr(ptr string) string {
	if ptr == "" {
		return "document root"
	}
	return ptr
}
