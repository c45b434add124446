package validator

import (
	"fmt"
	"sort"

	"github.com/apivet/apivet/diagnostics"
	"github.com/apivet/apivet/doctree"
	"github.com/apivet/apivet/grammar"
	"github.com/apivet/apivet/internal/httputil"
	"github.com/apivet/apivet/internal/pathutil"
)

// documentChecks runs the whole-document checks that need to see across
// shard boundaries: identifier uniqueness, template collisions, security
// scheme wiring, path parameter consistency, and unused components. They
// run sequentially after the walk, in a fixed order.
func (v *Validator) documentChecks(st *docState, col *diagnostics.Collector, used map[string]bool) {
	w := &walker{v: v, st: st, col: col, used: used}
	root := st.tree.Root()

	w.checkPathCollisions(root)
	w.checkOperationIDs(root)
	w.checkSecurityRequirements(root)
	w.checkPathParameters(root)
	w.checkUnusedComponents(root)
}

// checkPathCollisions reports path templates that are identical up to
// parameter names, which makes routing ambiguous.
func (w *walker) checkPathCollisions(root *doctree.Node) {
	paths, ok := root.Field("paths")
	if !ok || !paths.IsMapping() {
		return
	}
	first := make(map[string]string)
	for _, key := range paths.Keys {
		if isExtension(key) {
			continue
		}
		item := paths.Fields[key]
		normalized := pathutil.Normalize(key)
		prev, seen := first[normalized]
		if !seen {
			first[normalized] = item.Ptr
			continue
		}
		w.addError(diagnostics.RuleDuplicatePathTemplate, item.Ptr,
			fmt.Sprintf("path template %q collides with an earlier template differing only in parameter names", key),
			withValue(key), withRelated(prev), atNode(item),
			withSpecRef(grammar.SpecURL("paths-object")))
	}
}

// checkOperationIDs verifies that operationId values are unique across all
// paths and webhooks. Duplicates cite the first declaration.
func (w *walker) checkOperationIDs(root *doctree.Node) {
	first := make(map[string]string)
	w.eachOperation(root, func(op *doctree.Node) {
		idNode, ok := op.Field("operationId")
		if !ok {
			return
		}
		id, isString := idNode.StringValue()
		if !isString || id == "" {
			return
		}
		prev, seen := first[id]
		if !seen {
			first[id] = idNode.Ptr
			return
		}
		w.addError(diagnostics.RuleDuplicateOperationID, idNode.Ptr,
			fmt.Sprintf("operationId %q is already used by another operation", id),
			withField("operationId"), withValue(id), withRelated(prev), atNode(idNode),
			withSpecRef(grammar.SpecURL("operation-object")))
	})
}

// eachOperation visits every operation under paths and webhooks in
// document order.
func (w *walker) eachOperation(root *doctree.Node, fn func(op *doctree.Node)) {
	for _, section := range []string{"paths", "webhooks"} {
		container, ok := root.Field(section)
		if !ok || !container.IsMapping() {
			continue
		}
		for _, key := range container.Keys {
			if isExtension(key) {
				continue
			}
			item := container.Fields[key]
			if !item.IsMapping() {
				continue
			}
			for _, method := range httputil.Methods {
				if op, ok := item.Field(method); ok && op.IsMapping() {
					fn(op)
				}
			}
		}
	}
}

// checkSecurityRequirements verifies that every security requirement names
// a declared security scheme, and records scheme usage.
func (w *walker) checkSecurityRequirements(root *doctree.Node) {
	declared := make(map[string]bool)
	if components, ok := root.Field("components"); ok {
		if schemes, ok := components.Field("securitySchemes"); ok && schemes.IsMapping() {
			for _, name := range schemes.Keys {
				declared[name] = true
			}
		}
	}

	check := func(requirements *doctree.Node) {
		if !requirements.IsSequence() {
			return
		}
		for _, requirement := range requirements.Items {
			if !requirement.IsMapping() {
				continue
			}
			for _, name := range requirement.Keys {
				entry := requirement.Fields[name]
				if declared[name] {
					w.used[componentPointer("securitySchemes", name)] = true
					continue
				}
				w.addError(diagnostics.RuleUndefinedSecurityScheme, entry.Ptr,
					fmt.Sprintf("security requirement names undeclared scheme %q", name),
					withValue(name), atNode(entry),
					withSpecRef(grammar.SpecURL("security-requirement-object")))
			}
		}
	}

	if security, ok := root.Field("security"); ok {
		check(security)
	}
	w.eachOperation(root, func(op *doctree.Node) {
		if security, ok := op.Field("security"); ok {
			check(security)
		}
	})
}

// pathParam is one declared in:path parameter.
type pathParam struct {
	name string
	ptr  string
}

// checkPathParameters verifies, per path item, that every template
// parameter is declared by each operation's effective parameter list and
// that no declared path parameter goes unused by the template.
func (w *walker) checkPathParameters(root *doctree.Node) {
	paths, ok := root.Field("paths")
	if !ok || !paths.IsMapping() {
		return
	}

	for _, template := range paths.Keys {
		if isExtension(template) {
			continue
		}
		item := paths.Fields[template]
		if !item.IsMapping() || item.Has("$ref") {
			continue
		}

		templateParams := pathutil.ExtractParams(template)
		delete(templateParams, "")

		itemParams := w.collectPathParams(item)

		hasOperations := false
		for _, method := range httputil.Methods {
			op, ok := item.Field(method)
			if !ok || !op.IsMapping() {
				continue
			}
			hasOperations = true
			opParams := w.collectPathParams(op)

			effective := make(map[string]bool, len(itemParams)+len(opParams))
			for _, p := range itemParams {
				effective[p.name] = true
			}
			for _, p := range opParams {
				effective[p.name] = true
			}
			for _, name := range sortedKeys(templateParams) {
				if !effective[name] {
					w.addError(diagnostics.RuleUndeclaredPathParameter, op.Ptr,
						fmt.Sprintf("path template %q uses parameter %q but the operation does not declare it", template, name),
						withField(name), atNode(op),
						withSpecRef(grammar.SpecURL("path-templating")))
				}
			}
			for _, p := range opParams {
				if !templateParams[p.name] {
					w.addWarning(diagnostics.RuleUnusedPathParameter, p.ptr,
						fmt.Sprintf("path parameter %q does not appear in template %q", p.name, template),
						withField(p.name),
						withSpecRef(grammar.SpecURL("path-templating")))
				}
			}
		}

		if !hasOperations {
			declared := make(map[string]bool, len(itemParams))
			for _, p := range itemParams {
				declared[p.name] = true
			}
			for _, name := range sortedKeys(templateParams) {
				if !declared[name] {
					w.addError(diagnostics.RuleUndeclaredPathParameter, item.Ptr,
						fmt.Sprintf("path template %q uses parameter %q but the path item does not declare it", template, name),
						withField(name), atNode(item),
						withSpecRef(grammar.SpecURL("path-templating")))
				}
			}
		}

		for _, p := range itemParams {
			if !templateParams[p.name] {
				w.addWarning(diagnostics.RuleUnusedPathParameter, p.ptr,
					fmt.Sprintf("path parameter %q does not appear in template %q", p.name, template),
					withField(p.name),
					withSpecRef(grammar.SpecURL("path-templating")))
			}
		}
	}
}

// collectPathParams gathers the in:path parameters declared by a path item
// or operation, following local $refs to parameter components.
func (w *walker) collectPathParams(owner *doctree.Node) []pathParam {
	parameters, ok := owner.Field("parameters")
	if !ok || !parameters.IsSequence() {
		return nil
	}
	var out []pathParam
	for _, item := range parameters.Items {
		if !item.IsMapping() {
			continue
		}
		target := item
		if ref, ok := item.FieldString("$ref"); ok && doctree.IsLocalRef(ref) {
			res, diag := w.st.resolver.Resolve(ref, item.Ptr, grammar.KindParameter)
			if diag != nil {
				// The walk already reported the failure.
				continue
			}
			target = res.Target
		}
		in, _ := target.FieldString("in")
		if in != "path" {
			continue
		}
		name, ok := target.FieldString("name")
		if !ok || name == "" {
			continue
		}
		out = append(out, pathParam{name: name, ptr: item.Ptr})
	}
	return out
}

// checkUnusedComponents warns about components nothing references.
// Security schemes used by security requirements and schemas named by
// discriminator mappings count as referenced.
func (w *walker) checkUnusedComponents(root *doctree.Node) {
	components, ok := root.Field("components")
	if !ok || !components.IsMapping() {
		return
	}
	for _, group := range components.Keys {
		if _, isGroup := grammar.ComponentKind(group); !isGroup {
			continue
		}
		entries := components.Fields[group]
		if !entries.IsMapping() {
			continue
		}
		for _, name := range entries.Keys {
			if isExtension(name) {
				continue
			}
			entry := entries.Fields[name]
			if w.used[entry.Ptr] {
				continue
			}
			w.addWarning(diagnostics.RuleUnusedComponent, entry.Ptr,
				fmt.Sprintf("component %q is never referenced", name),
				withValue(name), atNode(entry),
				withSpecRef(grammar.SpecURL("components-object")))
		}
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
