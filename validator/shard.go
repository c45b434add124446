package validator

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/apivet/apivet/diagnostics"
	"github.com/apivet/apivet/doctree"
	"github.com/apivet/apivet/grammar"
)

// walkShards splits the document into independent validation units, runs
// them on a bounded worker pool, and merges the results in shard order so
// output is deterministic regardless of scheduling. It returns the merged
// set of referenced component pointers.
//
// Shards never overlap: each path item, webhook, and component entry is
// validated exactly once, by the shard that owns it. Reference sites
// resolve their targets but never walk into them.
func (v *Validator) walkShards(st *docState, col *diagnostics.Collector) map[string]bool {
	root := st.tree.Root()

	var jobs []func(w *walker)

	// The shell shard: document-level structure plus every section too
	// small to be worth its own shard.
	jobs = append(jobs, func(w *walker) { w.walkDocumentShell(root) })

	if paths, ok := root.Field("paths"); ok && paths.IsMapping() {
		for _, key := range paths.Keys {
			if isExtension(key) {
				continue
			}
			item := paths.Fields[key]
			jobs = append(jobs, func(w *walker) { w.walkNode(item, grammar.KindPathItem) })
		}
	}
	if webhooks, ok := root.Field("webhooks"); ok && webhooks.IsMapping() {
		for _, key := range webhooks.Keys {
			if isExtension(key) {
				continue
			}
			item := webhooks.Fields[key]
			jobs = append(jobs, func(w *walker) { w.walkNode(item, grammar.KindPathItem) })
		}
	}
	if components, ok := root.Field("components"); ok && components.IsMapping() {
		for _, group := range components.Keys {
			kind, isGroup := grammar.ComponentKind(group)
			if !isGroup {
				continue
			}
			entries := components.Fields[group]
			if !entries.IsMapping() {
				continue
			}
			jobs = append(jobs, func(w *walker) {
				for _, name := range entries.Keys {
					if isExtension(name) {
						continue
					}
					w.walkNode(entries.Fields[name], kind)
				}
			})
		}
	}

	walkers := make([]*walker, len(jobs))
	var eg errgroup.Group
	eg.SetLimit(v.workers())
	for i, job := range jobs {
		w := newWalker(v, st)
		walkers[i] = w
		eg.Go(func() error {
			job(w)
			return nil
		})
	}
	// Jobs only collect; they never fail.
	_ = eg.Wait()

	used := make(map[string]bool)
	for _, w := range walkers {
		col.Merge(w.col)
		for ptr := range w.used {
			used[ptr] = true
		}
	}
	return used
}

// walkDocumentShell validates the document object itself and descends into
// the sections not owned by other shards. paths, webhooks, and components
// get structural checks only; their contents belong to dedicated shards.
func (w *walker) walkDocumentShell(root *doctree.Node) {
	d, _ := grammar.Lookup(grammar.KindDocument)
	anchor := grammar.SpecURL(d.SpecAnchor)

	w.checkRequired(root, d, grammar.KindDocument, anchor)
	w.checkMutuallyExclusive(root, d, grammar.KindDocument, anchor)

	for _, key := range root.Keys {
		if isExtension(key) || key == "openapi" {
			continue
		}
		child := root.Fields[key]
		rule, known := d.Fields[key]
		if !known {
			w.addError(diagnostics.RuleUnrecognizedNode, child.Ptr,
				fmt.Sprintf("%q is not a field of the %s", key, grammar.KindDocument),
				withField(key), atNode(child), withSpecRef(anchor))
			continue
		}

		switch key {
		case "paths":
			w.checkPathsShell(child)
		case "webhooks":
			if !child.IsMapping() {
				w.shapeError(child, key, "an object", anchor)
			}
		case "components":
			w.checkComponentsShell(child)
		default:
			w.checkField(child, key, rule, anchor, false)
		}
	}
}

// checkPathsShell validates the paths object's own keys; the path items
// under them are walked by per-path shards.
func (w *walker) checkPathsShell(paths *doctree.Node) {
	anchor := grammar.SpecURL("paths-object")
	if !paths.IsMapping() {
		w.shapeError(paths, "paths", "an object", anchor)
		return
	}
	for _, key := range paths.Keys {
		if isExtension(key) {
			continue
		}
		w.checkMapKey(key, paths.Fields[key], grammar.KeyPathTemplate, anchor)
	}
}

// checkComponentsShell validates the components object's groups and entry
// names; the entries themselves are walked by per-group shards.
func (w *walker) checkComponentsShell(components *doctree.Node) {
	d, _ := grammar.Lookup(grammar.KindComponents)
	anchor := grammar.SpecURL(d.SpecAnchor)
	if !components.IsMapping() {
		w.shapeError(components, "components", "an object", anchor)
		return
	}
	for _, group := range components.Keys {
		if isExtension(group) {
			continue
		}
		child := components.Fields[group]
		if _, known := d.Fields[group]; !known {
			w.addError(diagnostics.RuleUnrecognizedNode, child.Ptr,
				fmt.Sprintf("%q is not a field of the %s", group, grammar.KindComponents),
				withField(group), atNode(child), withSpecRef(anchor))
			continue
		}
		if !child.IsMapping() {
			w.shapeError(child, group, "an object", anchor)
			continue
		}
		for _, name := range child.Keys {
			if isExtension(name) {
				continue
			}
			if !grammar.ComponentNameRegex.MatchString(name) {
				entry := child.Fields[name]
				w.addError(diagnostics.RuleInvalidFieldValue, entry.Ptr,
					fmt.Sprintf("component name %q may only contain letters, digits, '.', '-', and '_'", name),
					withValue(name), atNode(entry), withSpecRef(anchor))
			}
		}
	}
}

// componentPointer builds a components pointer from unescaped tokens.
func componentPointer(group, name string) string {
	return doctree.AppendToken(doctree.AppendToken("/components", group), name)
}
