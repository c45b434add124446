// Package grammar is the static schema model of the OAS 3.1.x grammar:
// one descriptor per construct kind, declaring field legality as data.
//
// Descriptors are built once at package init, are read-only, and own no
// document data. The validator consults them during its walk; nothing in
// this package performs I/O or mutation.
package grammar

import (
	"regexp"
	"sort"
	"strings"
)

// Kind identifies an OAS construct. Every node the validator visits is
// matched against the descriptor of exactly one kind.
type Kind int

const (
	// KindUnknown marks a node whose construct cannot be determined
	// statically, e.g. a $ref target outside the components section.
	KindUnknown Kind = iota
	KindDocument
	KindInfo
	KindContact
	KindLicense
	KindServer
	KindServerVariable
	KindPaths
	KindPathItem
	KindOperation
	KindExternalDocs
	KindParameter
	KindRequestBody
	KindMediaType
	KindEncoding
	KindResponses
	KindResponse
	KindCallback
	KindExample
	KindLink
	KindHeader
	KindTag
	KindSchema
	KindDiscriminator
	KindXML
	KindSecurityScheme
	KindOAuthFlows
	KindOAuthFlow
	KindSecurityRequirement
	KindComponents
)

var kindNames = map[Kind]string{
	KindUnknown:             "unknown",
	KindDocument:            "OpenAPI document",
	KindInfo:                "info object",
	KindContact:             "contact object",
	KindLicense:             "license object",
	KindServer:              "server object",
	KindServerVariable:      "server variable object",
	KindPaths:               "paths object",
	KindPathItem:            "path item object",
	KindOperation:           "operation object",
	KindExternalDocs:        "external documentation object",
	KindParameter:           "parameter object",
	KindRequestBody:         "request body object",
	KindMediaType:           "media type object",
	KindEncoding:            "encoding object",
	KindResponses:           "responses object",
	KindResponse:            "response object",
	KindCallback:            "callback object",
	KindExample:             "example object",
	KindLink:                "link object",
	KindHeader:              "header object",
	KindTag:                 "tag object",
	KindSchema:              "schema object",
	KindDiscriminator:       "discriminator object",
	KindXML:                 "xml object",
	KindSecurityScheme:      "security scheme object",
	KindOAuthFlows:          "oauth flows object",
	KindOAuthFlow:           "oauth flow object",
	KindSecurityRequirement: "security requirement object",
	KindComponents:          "components object",
}

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Shape describes the expected value shape of a field.
type Shape int

const (
	// ShapeAny accepts any value (e.g. example values, defaults).
	ShapeAny Shape = iota
	// ShapeString expects a string scalar.
	ShapeString
	// ShapeBool expects a boolean scalar.
	ShapeBool
	// ShapeNumber expects a numeric scalar.
	ShapeNumber
	// ShapeInteger expects an integral numeric scalar.
	ShapeInteger
	// ShapeNode expects a nested construct of FieldRule.Kind.
	ShapeNode
	// ShapeArray expects a sequence whose items match FieldRule.Elem.
	ShapeArray
	// ShapeMap expects a mapping whose values match FieldRule.Elem.
	ShapeMap
	// ShapeStringOrStringArray expects a string or an array of strings
	// (the JSON Schema "type" keyword).
	ShapeStringOrStringArray
)

// Advisory marks fields whose value correctness is implementation-defined
// by the specification; the validator consults the advisory table for them
// and only ever emits warnings.
type Advisory int

const (
	// AdvisoryNone marks a field with no advisory classification.
	AdvisoryNone Advisory = iota
	// AdvisoryFormat marks a string "format" value on schema objects.
	AdvisoryFormat
	// AdvisoryLicenceID marks an SPDX licence identifier.
	AdvisoryLicenceID
	// AdvisoryLicenceURL marks a licence URL.
	AdvisoryLicenceURL
)

// FieldRule declares the expected shape of one field.
type FieldRule struct {
	// Shape is the expected value shape.
	Shape Shape
	// Kind names the nested construct for ShapeNode and for
	// ShapeArray/ShapeMap whose elements are constructs.
	Kind Kind
	// Elem describes array items or map values when they are not constructs.
	Elem *FieldRule
	// Enum restricts a string field to a fixed value set.
	Enum []string
	// Pattern restricts a string field's syntax.
	Pattern *regexp.Regexp
	// NonEmpty forbids the empty string.
	NonEmpty bool
	// Positive and NonNegative constrain numeric fields.
	Positive    bool
	NonNegative bool
	// URL requires the string to parse as a URL or relative reference.
	URL bool
	// Email requires a syntactically valid email address.
	Email bool
	// Regex requires the string to compile as a regular expression.
	Regex bool
	// Advisory classifies implementation-defined fields.
	Advisory Advisory
	// ComponentKeys requires mapping keys to match the components
	// name pattern ^[a-zA-Z0-9.\-_]+$.
	ComponentKeys bool
	// Deprecated flags constructs the specification has deprecated;
	// presence yields a warning, never an error.
	Deprecated bool
}

// Conditional expresses field requirements that depend on a sibling value:
// when field When holds one of the values in Is (or is merely present, if
// Is is empty), the fields in Require must be present, the fields in
// RequireTrue must be present and true, and the fields in Forbid must be
// absent.
type Conditional struct {
	When        string
	Is          []string
	Require     []string
	RequireTrue []string
	Forbid      []string
}

// Variant is the field-legality overlay selected by a discriminator value.
type Variant struct {
	Require     []string
	RequireTrue []string
	Forbid      []string
	// Fields overrides or extends the descriptor's field rules while the
	// variant is active (e.g. the per-location "style" enums of parameters).
	Fields map[string]FieldRule
}

// Discriminator selects a Variant by the value of a sibling field.
// An unrecognized value is a hard error (unknown-discriminator-value).
type Discriminator struct {
	Field    string
	Variants map[string]Variant
}

// KeyCheck names the validation applied to the keys of map-like constructs.
type KeyCheck int

const (
	// KeyAny accepts any key.
	KeyAny KeyCheck = iota
	// KeyPathTemplate requires a well-formed path template starting with '/'.
	KeyPathTemplate
	// KeyStatusCode requires an HTTP status code, range, or "default".
	KeyStatusCode
	// KeyRuntimeExpression accepts callback runtime expressions (unchecked).
	KeyRuntimeExpression
)

// MapRule describes constructs that are pure maps (paths, responses,
// callbacks, security requirements) rather than fixed-field objects.
type MapRule struct {
	Key   KeyCheck
	Value FieldRule
}

// Descriptor is the static legality rule set for one construct kind.
type Descriptor struct {
	Kind Kind
	// Required lists fields that must always be present.
	Required []string
	// RequireOneOf lists groups where at least one member must be present.
	RequireOneOf [][]string
	// Fields maps field names to their expected shapes.
	Fields map[string]FieldRule
	// MutuallyExclusive lists groups of fields that may not coexist.
	MutuallyExclusive [][]string
	// Conditionals are sibling-dependent requirements.
	Conditionals []Conditional
	// Discriminator selects tagged sub-variants, when the construct has one.
	Discriminator *Discriminator
	// AllowsRef marks constructs that may be replaced by a $ref.
	AllowsRef bool
	// RefOverrides lists the fields permitted beside $ref.
	RefOverrides []string
	// RefSiblingsAllowed disables the sibling check entirely (JSON Schema
	// objects, where $ref composes with other keywords).
	RefSiblingsAllowed bool
	// Open permits unknown non-extension fields (JSON Schema objects).
	Open bool
	// MapValues is set for pure-map constructs.
	MapValues *MapRule
	// SpecAnchor is the fragment of the construct's section in the OAS
	// specification, used to build SpecRef URLs.
	SpecAnchor string
}

// SpecBaseURL is the OAS version this grammar models.
const SpecBaseURL = "https://spec.openapis.org/oas/v3.1.1.html"

// SpecURL returns the specification URL for an anchor such as "info-object".
func SpecURL(anchor string) string {
	if anchor == "" {
		return SpecBaseURL
	}
	return SpecBaseURL + "#" + anchor
}

// ComponentNameRegex is the legal key syntax inside the components object.
var ComponentNameRegex = regexp.MustCompile(`^[a-zA-Z0-9.\-_]+$`)

// componentGroups maps components-object field names to the kind stored
// under them.
var componentGroups = map[string]Kind{
	"schemas":         KindSchema,
	"responses":       KindResponse,
	"parameters":      KindParameter,
	"examples":        KindExample,
	"requestBodies":   KindRequestBody,
	"headers":         KindHeader,
	"securitySchemes": KindSecurityScheme,
	"links":           KindLink,
	"callbacks":       KindCallback,
	"pathItems":       KindPathItem,
}

// ComponentKind returns the construct kind stored under a components group
// such as "schemas" or "requestBodies".
func ComponentKind(group string) (Kind, bool) {
	k, ok := componentGroups[group]
	return k, ok
}

// ComponentGroups returns the components-object group names in sorted order.
func ComponentGroups() []string {
	groups := make([]string, 0, len(componentGroups))
	for g := range componentGroups {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}

// KindForPointer determines, statically, the construct kind a JSON Pointer
// addresses. Only pointers with statically known kinds are resolved;
// anything else is KindUnknown, which the resolver treats as compatible
// with every expectation.
func KindForPointer(ptr string) Kind {
	if ptr == "" {
		return KindDocument
	}
	tokens := strings.Split(strings.TrimPrefix(ptr, "/"), "/")
	switch tokens[0] {
	case "components":
		if len(tokens) >= 3 {
			if k, ok := componentGroups[tokens[1]]; ok {
				if len(tokens) == 3 {
					return k
				}
				return KindUnknown
			}
		}
	case "paths":
		if len(tokens) == 2 {
			return KindPathItem
		}
	case "webhooks":
		if len(tokens) == 2 {
			return KindPathItem
		}
	}
	return KindUnknown
}

// Compatible reports whether a resolved target of kind got may stand in
// for a reference site expecting kind want.
func Compatible(want, got Kind) bool {
	return want == got || want == KindUnknown || got == KindUnknown
}

// OpenAPIVersionSupported reports whether a declared "openapi" value names
// a 3.1.x release, the only line this grammar models.
func OpenAPIVersionSupported(version string) bool {
	return openapiVersionRegex.MatchString(version)
}

// Lookup returns the descriptor for a kind.
func Lookup(k Kind) (*Descriptor, bool) {
	d, ok := descriptors[k]
	return d, ok
}
