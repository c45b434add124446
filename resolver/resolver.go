// Package resolver resolves $ref values against a document tree.
//
// Only local ("#/...") references are resolved by default; external
// references produce an external-ref-unsupported diagnostic unless the
// resolver is constructed with an external document loader. Resolution is
// memoized and safe for concurrent use: two shards requesting the same
// pointer get the same (cached or recomputed-identical) result.
//
// Direct reference chains (a $ref whose target is itself a $ref object)
// are followed eagerly with a per-call stack, so a cycle terminates with a
// cyclic-reference diagnostic naming the full chain instead of recursing.
// Indirect recursion through schema keywords (a schema whose property
// references the schema itself) is legal in OAS and is not a cycle.
package resolver

import (
	"fmt"
	"strings"
	"sync"

	"github.com/apivet/apivet/diagnostics"
	"github.com/apivet/apivet/doctree"
	"github.com/apivet/apivet/grammar"
)

// LoadFunc loads an external document by the path part of a $ref value.
// It is only consulted when external resolution is enabled.
type LoadFunc func(path string) (*doctree.Tree, error)

// Option configures a Resolver.
type Option func(*Resolver)

// WithExternalRefs enables resolution of external references through the
// given loader. Without this option external references are reported as
// unsupported, never fetched.
func WithExternalRefs(load LoadFunc) Option {
	return func(r *Resolver) {
		r.loadExternal = load
	}
}

// Resolution is a successful $ref resolution.
type Resolution struct {
	// Target is the resolved node, after following any direct ref chain.
	Target *doctree.Node
	// Kind is the statically determined construct kind of the target.
	Kind grammar.Kind
	// Chain lists the pointers traversed, starting with the first target.
	Chain []string
}

type cacheEntry struct {
	res  *Resolution
	diag *diagnostics.Diagnostic
}

// Resolver resolves references within one document tree.
type Resolver struct {
	tree         *doctree.Tree
	loadExternal LoadFunc

	mu        sync.Mutex
	cache     map[string]cacheEntry
	externals map[string]*doctree.Tree
}

// New creates a resolver over tree.
func New(tree *doctree.Tree, opts ...Option) *Resolver {
	r := &Resolver{
		tree:      tree,
		cache:     make(map[string]cacheEntry),
		externals: make(map[string]*doctree.Tree),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve resolves ref, requested at the node addressed by site, expecting
// a target compatible with want. On failure the returned diagnostic is
// keyed to the referencing site, as ref errors always are.
func (r *Resolver) Resolve(ref, site string, want grammar.Kind) (*Resolution, *diagnostics.Diagnostic) {
	entry := r.lookup(ref)
	if entry == nil {
		res, diag := r.resolveUncached(ref, site)
		entry = r.store(ref, cacheEntry{res: res, diag: diag})
	}

	if entry.diag != nil {
		// Cached failures carry the site of the first request; re-key to
		// the current site.
		diag := *entry.diag
		diag.Pointer = site
		return nil, &diag
	}

	res := entry.res
	if !grammar.Compatible(want, res.Kind) {
		return nil, &diagnostics.Diagnostic{
			Rule:     diagnostics.RuleReferenceKindMismatch,
			Severity: diagnostics.SeverityError,
			Pointer:  site,
			Field:    "$ref",
			Value:    ref,
			Message: fmt.Sprintf("$ref %q resolves to a %s where a %s is expected",
				ref, res.Kind, want),
			SpecRef: grammar.SpecURL("reference-object"),
		}
	}
	return res, nil
}

func (r *Resolver) lookup(ref string) *cacheEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.cache[ref]; ok {
		return &e
	}
	return nil
}

// store caches an entry unless a concurrent resolution got there first;
// resolution is pure, so whichever entry wins is identical in content.
func (r *Resolver) store(ref string, e cacheEntry) *cacheEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.cache[ref]; ok {
		return &existing
	}
	r.cache[ref] = e
	return &e
}

func (r *Resolver) resolveUncached(ref, site string) (*Resolution, *diagnostics.Diagnostic) {
	if !doctree.IsLocalRef(ref) {
		return r.resolveExternalRef(ref, site)
	}

	stack := []string{site}
	chain := []string{}
	current := ref

	for {
		_, ptr := doctree.ParseRef(current)
		target, ok := r.tree.At(ptr)
		if !ok {
			return nil, &diagnostics.Diagnostic{
				Rule:     diagnostics.RuleDanglingReference,
				Severity: diagnostics.SeverityError,
				Pointer:  site,
				Field:    "$ref",
				Value:    current,
				Message:  fmt.Sprintf("$ref %q does not resolve to any node in the document", current),
				SpecRef:  grammar.SpecURL("reference-object"),
			}
		}

		for _, seen := range stack {
			if seen == ptr {
				cycle := append(append([]string{}, stack...), ptr)
				return nil, &diagnostics.Diagnostic{
					Rule:     diagnostics.RuleCyclicReference,
					Severity: diagnostics.SeverityError,
					Pointer:  site,
					Field:    "$ref",
					Value:    ref,
					Related:  cycle,
					Message:  fmt.Sprintf("cyclic $ref chain: %s", strings.Join(cycle, " -> ")),
					SpecRef:  grammar.SpecURL("reference-object"),
				}
			}
		}
		stack = append(stack, ptr)
		chain = append(chain, ptr)

		// Follow direct chains: a target that is itself a pure reference
		// object stands for its own target.
		if next, ok := refValue(target); ok {
			if !doctree.IsLocalRef(next) {
				return r.resolveExternalRef(next, site)
			}
			current = next
			continue
		}

		return &Resolution{
			Target: target,
			Kind:   grammar.KindForPointer(ptr),
			Chain:  chain,
		}, nil
	}
}

func (r *Resolver) resolveExternalRef(ref, site string) (*Resolution, *diagnostics.Diagnostic) {
	if r.loadExternal == nil {
		return nil, &diagnostics.Diagnostic{
			Rule:     diagnostics.RuleExternalRefUnsupported,
			Severity: diagnostics.SeverityError,
			Pointer:  site,
			Field:    "$ref",
			Value:    ref,
			Message:  fmt.Sprintf("external $ref %q is not resolved by default; enable external resolution to follow it", ref),
			SpecRef:  grammar.SpecURL("reference-object"),
		}
	}

	path, ptr := doctree.ParseRef(ref)
	tree, err := r.externalTree(path)
	if err != nil {
		return nil, &diagnostics.Diagnostic{
			Rule:     diagnostics.RuleDanglingReference,
			Severity: diagnostics.SeverityError,
			Pointer:  site,
			Field:    "$ref",
			Value:    ref,
			Message:  fmt.Sprintf("external $ref %q could not be loaded: %v", ref, err),
			SpecRef:  grammar.SpecURL("reference-object"),
		}
	}

	target, ok := tree.At(ptr)
	if !ok {
		return nil, &diagnostics.Diagnostic{
			Rule:     diagnostics.RuleDanglingReference,
			Severity: diagnostics.SeverityError,
			Pointer:  site,
			Field:    "$ref",
			Value:    ref,
			Message:  fmt.Sprintf("external $ref %q does not resolve to any node in %s", ref, path),
			SpecRef:  grammar.SpecURL("reference-object"),
		}
	}

	return &Resolution{
		Target: target,
		Kind:   grammar.KindForPointer(ptr),
		Chain:  []string{ptr},
	}, nil
}

func (r *Resolver) externalTree(path string) (*doctree.Tree, error) {
	r.mu.Lock()
	if tree, ok := r.externals[path]; ok {
		r.mu.Unlock()
		return tree, nil
	}
	r.mu.Unlock()

	tree, err := r.loadExternal(path)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.externals[path]; ok {
		return existing, nil
	}
	r.externals[path] = tree
	return tree, nil
}

// refValue returns the $ref string of a node that is a reference object:
// a mapping carrying a scalar $ref field.
func refValue(n *doctree.Node) (string, bool) {
	child, ok := n.Field("$ref")
	if !ok {
		return "", false
	}
	return child.StringValue()
}

// CycleKey returns a canonical identity for a reference cycle so that the
// same cycle discovered from different sites deduplicates to one
// diagnostic. The chain is rotated to start at its smallest pointer.
func CycleKey(chain []string) string {
	if len(chain) == 0 {
		return ""
	}
	// Drop the closing repeat if present.
	cycle := chain
	if len(cycle) > 1 && cycle[0] == cycle[len(cycle)-1] {
		cycle = cycle[:len(cycle)-1]
	}
	smallest := 0
	for i, p := range cycle {
		if p < cycle[smallest] {
			smallest = i
		}
	}
	rotated := make([]string, 0, len(cycle))
	rotated = append(rotated, cycle[smallest:]...)
	rotated = append(rotated, cycle[:smallest]...)
	return strings.Join(rotated, " -> ")
}
