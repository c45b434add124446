// Package doctree provides the generic document tree the validator walks:
// a parsed JSON/YAML value tree whose every node knows its JSON Pointer
// and, when loaded from source, its line and column.
//
// Trees are produced by a loader (or by Build for programmatic use) and
// are treated as read-only for the duration of validation.
package doctree

import (
	"fmt"
	"sort"
)

// NodeKind discriminates the four value shapes a parsed document can hold.
type NodeKind int

const (
	// KindNull is a null value.
	KindNull NodeKind = iota
	// KindMapping is an object / mapping.
	KindMapping
	// KindSequence is an array / sequence.
	KindSequence
	// KindScalar is a string, boolean, or number.
	KindScalar
)

// String returns a human-readable name for the node kind.
func (k NodeKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindMapping:
		return "object"
	case KindSequence:
		return "array"
	case KindScalar:
		return "scalar"
	default:
		return "unknown"
	}
}

// Node is one parsed value plus its JSON Pointer within the root document.
// Fields are exported for construction by loaders; consumers must treat a
// Node as immutable once the Tree is built.
type Node struct {
	// Ptr is the RFC 6901 JSON Pointer of this node ("" for the root).
	Ptr string
	// Line and Column are 1-based source positions, 0 if unknown.
	Line   int
	Column int
	// Kind discriminates which of the remaining fields are populated.
	Kind NodeKind
	// Keys preserves the source order of mapping keys.
	Keys []string
	// Fields holds the children of a mapping node.
	Fields map[string]*Node
	// Items holds the children of a sequence node.
	Items []*Node
	// Value holds a scalar value: string, bool, int64, or float64.
	Value any
}

// IsMapping reports whether the node is an object.
func (n *Node) IsMapping() bool { return n != nil && n.Kind == KindMapping }

// IsSequence reports whether the node is an array.
func (n *Node) IsSequence() bool { return n != nil && n.Kind == KindSequence }

// IsScalar reports whether the node is a scalar value.
func (n *Node) IsScalar() bool { return n != nil && n.Kind == KindScalar }

// IsNull reports whether the node is null.
func (n *Node) IsNull() bool { return n != nil && n.Kind == KindNull }

// Field returns the named child of a mapping node.
func (n *Node) Field(name string) (*Node, bool) {
	if n == nil || n.Kind != KindMapping {
		return nil, false
	}
	child, ok := n.Fields[name]
	return child, ok
}

// Has reports whether a mapping node has the named field.
func (n *Node) Has(name string) bool {
	_, ok := n.Field(name)
	return ok
}

// StringValue returns the node's value if it is a string scalar.
func (n *Node) StringValue() (string, bool) {
	if n == nil || n.Kind != KindScalar {
		return "", false
	}
	s, ok := n.Value.(string)
	return s, ok
}

// BoolValue returns the node's value if it is a boolean scalar.
func (n *Node) BoolValue() (bool, bool) {
	if n == nil || n.Kind != KindScalar {
		return false, false
	}
	b, ok := n.Value.(bool)
	return b, ok
}

// NumberValue returns the node's value as a float64 if it is numeric,
// together with whether the source representation was an integer.
func (n *Node) NumberValue() (value float64, isInt bool, ok bool) {
	if n == nil || n.Kind != KindScalar {
		return 0, false, false
	}
	switch v := n.Value.(type) {
	case int64:
		return float64(v), true, true
	case int:
		return float64(v), true, true
	case uint64:
		return float64(v), true, true
	case float64:
		return v, v == float64(int64(v)), true
	case float32:
		f := float64(v)
		return f, f == float64(int64(f)), true
	default:
		return 0, false, false
	}
}

// Len returns the child count of a mapping or sequence node.
func (n *Node) Len() int {
	switch {
	case n == nil:
		return 0
	case n.Kind == KindMapping:
		return len(n.Fields)
	case n.Kind == KindSequence:
		return len(n.Items)
	default:
		return 0
	}
}

// FieldString is a convenience for reading an optional string field.
func (n *Node) FieldString(name string) (string, bool) {
	child, ok := n.Field(name)
	if !ok {
		return "", false
	}
	return child.StringValue()
}

// Tree holds the root node plus a pointer index over every node.
type Tree struct {
	root  *Node
	index map[string]*Node
}

// NewTree indexes root and returns the resulting tree.
func NewTree(root *Node) *Tree {
	t := &Tree{root: root, index: make(map[string]*Node)}
	t.indexNode(root)
	return t
}

func (t *Tree) indexNode(n *Node) {
	if n == nil {
		return
	}
	t.index[n.Ptr] = n
	for _, key := range n.Keys {
		t.indexNode(n.Fields[key])
	}
	for _, item := range n.Items {
		t.indexNode(item)
	}
}

// Root returns the root node.
func (t *Tree) Root() *Node { return t.root }

// At returns the node at the given JSON Pointer, if any.
func (t *Tree) At(ptr string) (*Node, bool) {
	n, ok := t.index[ptr]
	return n, ok
}

// Len returns the total number of indexed nodes.
func (t *Tree) Len() int { return len(t.index) }

// Build converts an already-decoded generic value (map[string]any, []any,
// scalars) into a Tree. Mapping keys are sorted so that trees built from
// Go maps walk deterministically. Source positions are unknown (0).
func Build(v any) (*Tree, error) {
	root, err := buildNode(v, "")
	if err != nil {
		return nil, err
	}
	return NewTree(root), nil
}

func buildNode(v any, ptr string) (*Node, error) {
	switch val := v.(type) {
	case nil:
		return &Node{Ptr: ptr, Kind: KindNull}, nil
	case map[string]any:
		n := &Node{Ptr: ptr, Kind: KindMapping, Fields: make(map[string]*Node, len(val))}
		n.Keys = make([]string, 0, len(val))
		for key := range val {
			n.Keys = append(n.Keys, key)
		}
		sort.Strings(n.Keys)
		for _, key := range n.Keys {
			child, err := buildNode(val[key], AppendToken(ptr, key))
			if err != nil {
				return nil, err
			}
			n.Fields[key] = child
		}
		return n, nil
	case []any:
		n := &Node{Ptr: ptr, Kind: KindSequence, Items: make([]*Node, 0, len(val))}
		for i, item := range val {
			child, err := buildNode(item, fmt.Sprintf("%s/%d", ptr, i))
			if err != nil {
				return nil, err
			}
			n.Items = append(n.Items, child)
		}
		return n, nil
	case string, bool, int, int64, uint64, float32, float64:
		return &Node{Ptr: ptr, Kind: KindScalar, Value: val}, nil
	default:
		return nil, fmt.Errorf("doctree: unsupported value type %T at %q", v, ptr)
	}
}
