package validator

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/apivet/apivet/advisory"
	"github.com/apivet/apivet/diagnostics"
	"github.com/apivet/apivet/doctree"
	"github.com/apivet/apivet/grammar"
	"github.com/apivet/apivet/internal/httputil"
	"github.com/apivet/apivet/internal/pathutil"
	"github.com/apivet/apivet/resolver"
)

// docState is the validation state shared by all shards of one document.
type docState struct {
	tree     *doctree.Tree
	resolver *resolver.Resolver
	advisory *advisory.Table
}

// walker performs the descriptor-driven walk for one shard. Each shard has
// its own walker and collector; results are merged deterministically after
// all shards finish.
type walker struct {
	v    *Validator
	st   *docState
	col  *diagnostics.Collector
	used map[string]bool
}

func newWalker(v *Validator, st *docState) *walker {
	return &walker{
		v:    v,
		st:   st,
		col:  diagnostics.NewCollector(),
		used: make(map[string]bool),
	}
}

// addError appends an error diagnostic for the given pointer.
func (w *walker) addError(rule diagnostics.Rule, ptr, message string, opts ...func(*Diagnostic)) {
	d := Diagnostic{
		Rule:     rule,
		Severity: diagnostics.SeverityError,
		Pointer:  ptr,
		Message:  message,
	}
	for _, opt := range opts {
		opt(&d)
	}
	w.col.Add(d)
}

// addWarning appends a warning diagnostic unless warnings are disabled.
func (w *walker) addWarning(rule diagnostics.Rule, ptr, message string, opts ...func(*Diagnostic)) {
	if !w.v.IncludeWarnings {
		return
	}
	d := Diagnostic{
		Rule:     rule,
		Severity: diagnostics.SeverityWarning,
		Pointer:  ptr,
		Message:  message,
	}
	for _, opt := range opts {
		opt(&d)
	}
	w.col.Add(d)
}

// withField sets the Field on a Diagnostic.
func withField(field string) func(*Diagnostic) {
	return func(d *Diagnostic) { d.Field = field }
}

// withValue sets the Value on a Diagnostic.
func withValue(value any) func(*Diagnostic) {
	return func(d *Diagnostic) { d.Value = value }
}

// withSpecRef sets the specification URL on a Diagnostic.
func withSpecRef(ref string) func(*Diagnostic) {
	return func(d *Diagnostic) { d.SpecRef = ref }
}

// withFix sets the suggested remediation on a Diagnostic.
func withFix(fix string) func(*Diagnostic) {
	return func(d *Diagnostic) { d.SuggestedFix = fix }
}

// withRelated sets the related pointers on a Diagnostic.
func withRelated(ptrs ...string) func(*Diagnostic) {
	return func(d *Diagnostic) { d.Related = ptrs }
}

// atNode copies a node's source position onto a Diagnostic.
func atNode(n *doctree.Node) func(*Diagnostic) {
	return func(d *Diagnostic) {
		d.Line = n.Line
		d.Column = n.Column
	}
}

func isExtension(key string) bool {
	return strings.HasPrefix(key, "x-")
}

// walkNode validates one node against the descriptor of its construct kind
// and descends into construct-valued fields.
func (w *walker) walkNode(n *doctree.Node, kind grammar.Kind) {
	d, ok := grammar.Lookup(kind)
	if !ok {
		// Unknown kinds (e.g. ref targets outside components) carry no
		// descriptor; there is nothing to check statically.
		return
	}
	anchor := grammar.SpecURL(d.SpecAnchor)

	// A boolean is a complete schema in JSON Schema 2020-12.
	if kind == grammar.KindSchema && n.IsScalar() {
		if _, isBool := n.BoolValue(); isBool {
			return
		}
	}

	if !n.IsMapping() {
		w.addError(diagnostics.RuleInvalidFieldValue, n.Ptr,
			fmt.Sprintf("%s must be an object, got %s", kind, n.Kind),
			atNode(n), withSpecRef(anchor))
		return
	}

	if refNode, hasRef := n.Field("$ref"); hasRef && (d.AllowsRef || d.RefSiblingsAllowed) {
		w.checkRef(n, refNode, kind)
		if !d.RefSiblingsAllowed {
			w.checkRefSiblings(n, d, kind, anchor)
			return
		}
		// Schema objects: $ref composes with sibling keywords, keep going.
	}

	if d.MapValues != nil {
		w.walkMapConstruct(n, d, anchor)
		w.kindChecks(n, kind, anchor)
		return
	}

	variant := w.selectVariant(n, d, kind, anchor)
	w.checkRequired(n, d, kind, anchor)
	w.checkMutuallyExclusive(n, d, kind, anchor)
	w.checkConditionals(n, d, anchor)
	if variant != nil {
		w.applyRequirements(n, variant.Require, variant.RequireTrue, variant.Forbid,
			fmt.Sprintf("when %s is %q", d.Discriminator.Field, mustFieldString(n, d.Discriminator.Field)), anchor)
	}

	for _, key := range n.Keys {
		if isExtension(key) {
			continue
		}
		if key == "$ref" && (d.AllowsRef || d.RefSiblingsAllowed) {
			continue
		}
		// The root "openapi" field is checked before the walk starts.
		if kind == grammar.KindDocument && key == "openapi" {
			continue
		}
		child := n.Fields[key]
		rule, known := fieldRule(d, variant, key)
		if !known {
			if d.Open {
				continue
			}
			w.addError(diagnostics.RuleUnrecognizedNode, child.Ptr,
				fmt.Sprintf("%q is not a field of the %s", key, kind),
				withField(key), atNode(child), withSpecRef(anchor))
			continue
		}
		skipEnum := d.Discriminator != nil && key == d.Discriminator.Field
		w.checkField(child, key, rule, anchor, skipEnum)
	}

	w.kindChecks(n, kind, anchor)
}

// fieldRule looks up the rule for a field, preferring the active variant's
// overlay when one is selected.
func fieldRule(d *grammar.Descriptor, variant *grammar.Variant, key string) (grammar.FieldRule, bool) {
	if variant != nil {
		if rule, ok := variant.Fields[key]; ok {
			return rule, true
		}
	}
	rule, ok := d.Fields[key]
	return rule, ok
}

func mustFieldString(n *doctree.Node, field string) string {
	s, _ := n.FieldString(field)
	return s
}

// selectVariant evaluates the descriptor's discriminator, reporting an
// unknown value as an error. Absent or non-string discriminator fields are
// reported by the required and shape checks instead.
func (w *walker) selectVariant(n *doctree.Node, d *grammar.Descriptor, kind grammar.Kind, anchor string) *grammar.Variant {
	if d.Discriminator == nil {
		return nil
	}
	field, ok := n.Field(d.Discriminator.Field)
	if !ok {
		return nil
	}
	value, ok := field.StringValue()
	if !ok {
		return nil
	}
	variant, ok := d.Discriminator.Variants[value]
	if !ok {
		w.addError(diagnostics.RuleUnknownDiscriminator, field.Ptr,
			fmt.Sprintf("%q is not a valid %s value for a %s; expected one of %s",
				value, d.Discriminator.Field, kind, strings.Join(variantNames(d.Discriminator), ", ")),
			withField(d.Discriminator.Field), withValue(value), atNode(field), withSpecRef(anchor))
		return nil
	}
	return &variant
}

func variantNames(disc *grammar.Discriminator) []string {
	names := make([]string, 0, len(disc.Variants))
	for name := range disc.Variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (w *walker) checkRequired(n *doctree.Node, d *grammar.Descriptor, kind grammar.Kind, anchor string) {
	for _, field := range d.Required {
		// The root "openapi" field is handled before the walk.
		if kind == grammar.KindDocument && field == "openapi" {
			continue
		}
		if !n.Has(field) {
			w.addError(diagnostics.RuleMissingRequiredField, n.Ptr,
				fmt.Sprintf("%s is missing required field %q", kind, field),
				withField(field), atNode(n), withSpecRef(anchor))
		}
	}
	for _, group := range d.RequireOneOf {
		found := false
		for _, field := range group {
			if n.Has(field) {
				found = true
				break
			}
		}
		if !found {
			w.addError(diagnostics.RuleMissingRequiredField, n.Ptr,
				fmt.Sprintf("%s must carry at least one of %s", kind, quoteJoin(group)),
				atNode(n), withSpecRef(anchor))
		}
	}
}

func (w *walker) checkMutuallyExclusive(n *doctree.Node, d *grammar.Descriptor, kind grammar.Kind, anchor string) {
	for _, group := range d.MutuallyExclusive {
		var present []string
		for _, field := range group {
			if n.Has(field) {
				present = append(present, field)
			}
		}
		if len(present) > 1 {
			w.addError(diagnostics.RuleMutuallyExclusiveFields, n.Ptr,
				fmt.Sprintf("%s fields %s are mutually exclusive", kind, quoteJoin(present)),
				atNode(n), withSpecRef(anchor))
		}
	}
}

func (w *walker) checkConditionals(n *doctree.Node, d *grammar.Descriptor, anchor string) {
	for _, c := range d.Conditionals {
		field, ok := n.Field(c.When)
		if !ok {
			continue
		}
		if len(c.Is) > 0 {
			value, isString := field.StringValue()
			if !isString || !contains(c.Is, value) {
				continue
			}
		}
		context := fmt.Sprintf("when %s is present", c.When)
		if len(c.Is) > 0 {
			context = fmt.Sprintf("when %s is %q", c.When, mustFieldString(n, c.When))
		}
		w.applyRequirements(n, c.Require, c.RequireTrue, c.Forbid, context, anchor)
	}
}

// applyRequirements enforces the require/require-true/forbid triple shared
// by conditionals and discriminator variants.
func (w *walker) applyRequirements(n *doctree.Node, require, requireTrue, forbid []string, context, anchor string) {
	for _, field := range require {
		if !n.Has(field) {
			w.addError(diagnostics.RuleMissingRequiredField, n.Ptr,
				fmt.Sprintf("field %q is required %s", field, context),
				withField(field), atNode(n), withSpecRef(anchor))
		}
	}
	for _, field := range requireTrue {
		child, ok := n.Field(field)
		if !ok {
			w.addError(diagnostics.RuleMissingRequiredField, n.Ptr,
				fmt.Sprintf("field %q is required and must be true %s", field, context),
				withField(field), atNode(n), withSpecRef(anchor))
			continue
		}
		if b, isBool := child.BoolValue(); !isBool || !b {
			w.addError(diagnostics.RuleInvalidFieldValue, child.Ptr,
				fmt.Sprintf("field %q must be true %s", field, context),
				withField(field), withValue(child.Value), atNode(child), withSpecRef(anchor))
		}
	}
	for _, field := range forbid {
		if child, ok := n.Field(field); ok {
			w.addError(diagnostics.RuleInvalidFieldValue, child.Ptr,
				fmt.Sprintf("field %q is not allowed %s", field, context),
				withField(field), atNode(child), withSpecRef(anchor))
		}
	}
}

// checkRef resolves a $ref value and reports resolution failures at the
// referencing site. Resolved targets are validated by their own natural
// walk, never re-entered from the reference.
func (w *walker) checkRef(n, refNode *doctree.Node, kind grammar.Kind) {
	ref, ok := refNode.StringValue()
	if !ok {
		w.addError(diagnostics.RuleInvalidFieldValue, refNode.Ptr,
			"$ref must be a string",
			withField("$ref"), withValue(refNode.Value), atNode(refNode),
			withSpecRef(grammar.SpecURL("reference-object")))
		return
	}

	local := doctree.IsLocalRef(ref)
	if local {
		if _, ptr := doctree.ParseRef(ref); ptr != "" {
			w.used[ptr] = true
		}
	}

	res, diag := w.st.resolver.Resolve(ref, n.Ptr, kind)
	if diag != nil {
		diag.Line = refNode.Line
		diag.Column = refNode.Column
		w.col.Add(*diag)
		return
	}
	if local {
		for _, ptr := range res.Chain {
			w.used[ptr] = true
		}
	}
}

// checkRefSiblings enforces the reference-object rule that only the
// declared override fields may accompany $ref.
func (w *walker) checkRefSiblings(n *doctree.Node, d *grammar.Descriptor, kind grammar.Kind, anchor string) {
	for _, key := range n.Keys {
		if key == "$ref" || isExtension(key) {
			continue
		}
		child := n.Fields[key]
		if contains(d.RefOverrides, key) {
			if rule, ok := d.Fields[key]; ok {
				w.checkField(child, key, rule, anchor, false)
			}
			continue
		}
		w.addError(diagnostics.RuleUnrecognizedNode, child.Ptr,
			fmt.Sprintf("field %q is not allowed beside $ref in a %s; only %s may override the target",
				key, kind, quoteJoin(d.RefOverrides)),
			withField(key), atNode(child), withSpecRef(grammar.SpecURL("reference-object")))
	}
}

// walkMapConstruct validates pure-map constructs: paths, responses,
// callbacks, and security requirements.
func (w *walker) walkMapConstruct(n *doctree.Node, d *grammar.Descriptor, anchor string) {
	for _, key := range n.Keys {
		if isExtension(key) {
			continue
		}
		child := n.Fields[key]
		w.checkMapKey(key, child, d.MapValues.Key, anchor)
		w.checkField(child, key, d.MapValues.Value, anchor, false)
	}
}

// checkMapKey validates one key of a map-like construct.
func (w *walker) checkMapKey(key string, child *doctree.Node, kc grammar.KeyCheck, anchor string) {
	switch kc {
	case grammar.KeyPathTemplate:
		if err := pathutil.CheckTemplate(key); err != nil {
			w.addError(diagnostics.RuleInvalidPathTemplate, child.Ptr,
				fmt.Sprintf("path template %q is invalid: %v", key, err),
				withValue(key), atNode(child), withSpecRef(anchor))
		}
	case grammar.KeyStatusCode:
		if !httputil.ValidStatusKey(key) {
			w.addError(diagnostics.RuleInvalidFieldValue, child.Ptr,
				fmt.Sprintf("%q is not a valid responses key; use a status code, a range like \"2XX\", or \"default\"", key),
				withValue(key), atNode(child), withSpecRef(anchor))
		} else if !httputil.IsStandardStatusCode(key) {
			w.addWarning(diagnostics.RuleNonstandardStatusCode, child.Ptr,
				fmt.Sprintf("status code %q is not defined by the HTTP RFCs", key),
				withValue(key), atNode(child), withSpecRef(anchor))
		}
	}
}

// checkField validates one field value against its rule and descends into
// nested constructs.
func (w *walker) checkField(child *doctree.Node, key string, rule grammar.FieldRule, anchor string, skipEnum bool) {
	if rule.Deprecated {
		w.addWarning(diagnostics.RuleDeprecatedConstruct, child.Ptr,
			fmt.Sprintf("field %q is deprecated", key),
			withField(key), atNode(child), withSpecRef(anchor))
	}

	switch rule.Shape {
	case grammar.ShapeAny:
		return

	case grammar.ShapeString:
		value, ok := child.StringValue()
		if !ok {
			w.shapeError(child, key, "a string", anchor)
			return
		}
		w.checkStringValue(child, key, value, rule, anchor, skipEnum)

	case grammar.ShapeBool:
		if _, ok := child.BoolValue(); !ok {
			w.shapeError(child, key, "a boolean", anchor)
		}

	case grammar.ShapeNumber, grammar.ShapeInteger:
		value, isInt, ok := child.NumberValue()
		if !ok {
			w.shapeError(child, key, "a number", anchor)
			return
		}
		if rule.Shape == grammar.ShapeInteger && !isInt {
			w.shapeError(child, key, "an integer", anchor)
			return
		}
		if rule.Positive && value <= 0 {
			w.addError(diagnostics.RuleInvalidFieldValue, child.Ptr,
				fmt.Sprintf("field %q must be greater than zero", key),
				withField(key), withValue(child.Value), atNode(child), withSpecRef(anchor))
		}
		if rule.NonNegative && value < 0 {
			w.addError(diagnostics.RuleInvalidFieldValue, child.Ptr,
				fmt.Sprintf("field %q must not be negative", key),
				withField(key), withValue(child.Value), atNode(child), withSpecRef(anchor))
		}

	case grammar.ShapeNode:
		w.walkNode(child, rule.Kind)

	case grammar.ShapeArray:
		if !child.IsSequence() {
			w.shapeError(child, key, "an array", anchor)
			return
		}
		for _, item := range child.Items {
			if rule.Kind != grammar.KindUnknown {
				w.walkNode(item, rule.Kind)
			} else if rule.Elem != nil {
				w.checkField(item, key, *rule.Elem, anchor, false)
			}
		}

	case grammar.ShapeMap:
		if !child.IsMapping() {
			w.shapeError(child, key, "an object", anchor)
			return
		}
		for _, name := range child.Keys {
			if isExtension(name) {
				continue
			}
			entry := child.Fields[name]
			if rule.ComponentKeys && !grammar.ComponentNameRegex.MatchString(name) {
				w.addError(diagnostics.RuleInvalidFieldValue, entry.Ptr,
					fmt.Sprintf("component name %q may only contain letters, digits, '.', '-', and '_'", name),
					withValue(name), atNode(entry), withSpecRef(grammar.SpecURL("components-object")))
			}
			if rule.Kind != grammar.KindUnknown {
				w.walkNode(entry, rule.Kind)
			} else if rule.Elem != nil {
				w.checkField(entry, name, *rule.Elem, anchor, false)
			}
		}

	case grammar.ShapeStringOrStringArray:
		switch {
		case child.IsSequence():
			for _, item := range child.Items {
				value, ok := item.StringValue()
				if !ok {
					w.shapeError(item, key, "a string", anchor)
					continue
				}
				w.checkStringValue(item, key, value, grammar.FieldRule{Enum: rule.Enum}, anchor, skipEnum)
			}
		default:
			value, ok := child.StringValue()
			if !ok {
				w.shapeError(child, key, "a string or an array of strings", anchor)
				return
			}
			w.checkStringValue(child, key, value, grammar.FieldRule{Enum: rule.Enum}, anchor, skipEnum)
		}
	}
}

func (w *walker) shapeError(child *doctree.Node, key, want, anchor string) {
	w.addError(diagnostics.RuleInvalidFieldValue, child.Ptr,
		fmt.Sprintf("field %q must be %s, got %s", key, want, child.Kind),
		withField(key), withValue(child.Value), atNode(child), withSpecRef(anchor))
}

func (w *walker) checkStringValue(child *doctree.Node, key, value string, rule grammar.FieldRule, anchor string, skipEnum bool) {
	if rule.NonEmpty && value == "" {
		w.addError(diagnostics.RuleInvalidFieldValue, child.Ptr,
			fmt.Sprintf("field %q must not be empty", key),
			withField(key), atNode(child), withSpecRef(anchor))
		return
	}
	if len(rule.Enum) > 0 && !skipEnum && !contains(rule.Enum, value) {
		w.addError(diagnostics.RuleInvalidFieldValue, child.Ptr,
			fmt.Sprintf("field %q must be one of %s, got %q", key, quoteJoin(rule.Enum), value),
			withField(key), withValue(value), atNode(child), withSpecRef(anchor))
	}
	if rule.Pattern != nil && !rule.Pattern.MatchString(value) {
		w.addError(diagnostics.RuleInvalidFieldValue, child.Ptr,
			fmt.Sprintf("field %q value %q does not match the required pattern %s", key, value, rule.Pattern),
			withField(key), withValue(value), atNode(child), withSpecRef(anchor))
	}
	if rule.URL && !isValidURL(value) {
		w.addError(diagnostics.RuleInvalidFieldValue, child.Ptr,
			fmt.Sprintf("field %q must be a valid URL, got %q", key, value),
			withField(key), withValue(value), atNode(child), withSpecRef(anchor))
	}
	if rule.Email && !isValidEmail(value) {
		w.addError(diagnostics.RuleInvalidFieldValue, child.Ptr,
			fmt.Sprintf("field %q must be a valid email address, got %q", key, value),
			withField(key), withValue(value), atNode(child), withSpecRef(anchor))
	}
	if rule.Regex {
		if _, err := regexp.Compile(value); err != nil {
			w.addError(diagnostics.RuleInvalidFieldValue, child.Ptr,
				fmt.Sprintf("field %q must be a valid regular expression: %v", key, err),
				withField(key), withValue(value), atNode(child), withSpecRef(anchor))
		}
	}
	w.checkAdvisory(child, key, value, rule, anchor)
}

// checkAdvisory consults the advisory table for implementation-defined
// values. Findings here are always warnings.
func (w *walker) checkAdvisory(child *doctree.Node, key, value string, rule grammar.FieldRule, anchor string) {
	switch rule.Advisory {
	case grammar.AdvisoryFormat:
		lookup := w.st.advisory.Format(value)
		if lookup.Known {
			origin, _ := w.st.advisory.FormatOrigin(value)
			w.addWarning(diagnostics.RuleImplementationDefinedFormat, child.Ptr,
				fmt.Sprintf("format %q is advisory only (%s); receivers are free to ignore it", value, origin),
				withField(key), withValue(value), atNode(child), withSpecRef(anchor))
			return
		}
		opts := []func(*Diagnostic){withField(key), withValue(value), atNode(child), withSpecRef(anchor)}
		if lookup.Canonical != "" {
			opts = append(opts, withFix(fmt.Sprintf("did you mean %q?", lookup.Canonical)))
		}
		w.addWarning(diagnostics.RuleUnknownFormatValue, child.Ptr,
			fmt.Sprintf("format %q is not a registered format", value), opts...)

	case grammar.AdvisoryLicenceID:
		lookup := w.st.advisory.LicenceID(value)
		if lookup.Known {
			return
		}
		opts := []func(*Diagnostic){withField(key), withValue(value), atNode(child), withSpecRef(anchor)}
		if lookup.Canonical != "" {
			opts = append(opts, withFix(fmt.Sprintf("did you mean %q?", lookup.Canonical)))
		}
		w.addWarning(diagnostics.RuleUnknownLicenceID, child.Ptr,
			fmt.Sprintf("%q is not a known SPDX licence identifier", value), opts...)

	case grammar.AdvisoryLicenceURL:
		if _, ok := w.st.advisory.LicenceForURL(value); !ok {
			w.addWarning(diagnostics.RuleLicenceURLMismatch, child.Ptr,
				fmt.Sprintf("licence URL %q does not match any known licence", value),
				withField(key), withValue(value), atNode(child), withSpecRef(anchor))
		}
	}
}

// kindChecks runs the per-construct checks that descriptor data alone
// cannot express.
func (w *walker) kindChecks(n *doctree.Node, kind grammar.Kind, anchor string) {
	switch kind {
	case grammar.KindServer:
		w.checkServerVariables(n, anchor)
	case grammar.KindServerVariable:
		w.checkServerVariableDefault(n, anchor)
	case grammar.KindOAuthFlows:
		w.checkOAuthFlows(n, anchor)
	case grammar.KindResponses:
		responses := 0
		for _, key := range n.Keys {
			if !isExtension(key) {
				responses++
			}
		}
		if responses == 0 {
			w.addError(diagnostics.RuleMissingRequiredField, n.Ptr,
				"responses object must contain at least one response",
				atNode(n), withSpecRef(anchor))
		}
	case grammar.KindDiscriminator:
		w.checkDiscriminatorMapping(n)
	}
}

// checkServerVariables verifies that every {variable} in the server URL has
// a matching entry in the variables map.
func (w *walker) checkServerVariables(n *doctree.Node, anchor string) {
	urlNode, ok := n.Field("url")
	if !ok {
		return
	}
	urlValue, ok := urlNode.StringValue()
	if !ok {
		return
	}
	variables, _ := n.Field("variables")
	for name := range pathutil.ExtractParams(urlValue) {
		if name == "" {
			w.addError(diagnostics.RuleInvalidFieldValue, urlNode.Ptr,
				"server URL contains an empty {} expression",
				withField("url"), withValue(urlValue), atNode(urlNode), withSpecRef(anchor))
			continue
		}
		if variables == nil || !variables.Has(name) {
			w.addError(diagnostics.RuleMissingRequiredField, n.Ptr,
				fmt.Sprintf("server URL uses variable %q but declares no matching entry under \"variables\"", name),
				withField("variables"), withValue(name), atNode(urlNode), withSpecRef(anchor))
		}
	}
}

// checkServerVariableDefault verifies that a declared enum is non-empty and
// contains the default.
func (w *walker) checkServerVariableDefault(n *doctree.Node, anchor string) {
	enum, ok := n.Field("enum")
	if !ok || !enum.IsSequence() {
		return
	}
	if len(enum.Items) == 0 {
		w.addError(diagnostics.RuleInvalidFieldValue, enum.Ptr,
			"server variable enum must not be empty",
			withField("enum"), atNode(enum), withSpecRef(anchor))
		return
	}
	defNode, ok := n.Field("default")
	if !ok {
		return
	}
	def, ok := defNode.StringValue()
	if !ok {
		return
	}
	for _, item := range enum.Items {
		if s, isString := item.StringValue(); isString && s == def {
			return
		}
	}
	w.addError(diagnostics.RuleInvalidFieldValue, defNode.Ptr,
		fmt.Sprintf("server variable default %q is not listed in its enum", def),
		withField("default"), withValue(def), atNode(defNode), withSpecRef(anchor))
}

// checkOAuthFlows applies the per-flow URL requirements that depend on
// which flows-object key each flow sits under.
func (w *walker) checkOAuthFlows(n *doctree.Node, anchor string) {
	for _, key := range n.Keys {
		variant, ok := grammar.OAuthFlowVariant(key)
		if !ok {
			continue
		}
		flow := n.Fields[key]
		if !flow.IsMapping() {
			continue
		}
		w.applyRequirements(flow, variant.Require, variant.RequireTrue, variant.Forbid,
			fmt.Sprintf("in the %q flow", key), grammar.SpecURL("oauth-flow-object"))
	}
}

// checkDiscriminatorMapping resolves mapping values written as local refs
// and records component usage for bare schema names.
func (w *walker) checkDiscriminatorMapping(n *doctree.Node) {
	mapping, ok := n.Field("mapping")
	if !ok || !mapping.IsMapping() {
		return
	}
	for _, key := range mapping.Keys {
		entry := mapping.Fields[key]
		value, isString := entry.StringValue()
		if !isString {
			continue
		}
		if doctree.IsLocalRef(value) {
			if _, ptr := doctree.ParseRef(value); ptr != "" {
				w.used[ptr] = true
			}
			if res, diag := w.st.resolver.Resolve(value, entry.Ptr, grammar.KindSchema); diag != nil {
				diag.Line = entry.Line
				diag.Column = entry.Column
				w.col.Add(*diag)
			} else {
				for _, ptr := range res.Chain {
					w.used[ptr] = true
				}
			}
			continue
		}
		// A bare name refers to a schema under components.
		namePtr := "/components/schemas/" + doctree.EscapeToken(value)
		if _, ok := w.st.tree.At(namePtr); ok {
			w.used[namePtr] = true
		}
	}
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

func quoteJoin(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	return strings.Join(quoted, ", ")
}
