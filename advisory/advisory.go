// Package advisory provides the read-only registry the validator consults
// for implementation-defined values: string "format" names and SPDX
// licence identifiers. The specification does not mandate checking either,
// so lookups here can only ever downgrade to warnings, never errors.
//
// The table is supplied to the validator at construction. Default() ships
// the JSON Schema 2020-12 format vocabulary, the OAS-specific formats, and
// a curated SPDX licence list; callers needing a newer registry can build
// their own with NewTable.
package advisory

import "golang.org/x/text/cases"

// Lookup is the result of classifying a value against the table.
type Lookup struct {
	// Known is true when the value is registered.
	Known bool
	// Canonical is the registered spelling when the value matched only
	// under case folding, e.g. "UUID" -> "uuid". Empty otherwise.
	Canonical string
}

// Table is an immutable advisory registry. Safe for concurrent use once
// built.
type Table struct {
	formats       map[string]string   // canonical format -> origin note
	licences      map[string][]string // SPDX id -> registered URLs
	foldedFormats map[string]string   // case-folded format -> canonical
	foldedIDs     map[string]string   // case-folded licence id -> canonical
	licenceURLs   map[string]string   // registered URL -> licence id
}

// NewTable builds a Table from a format registry (name -> origin note) and
// a licence registry (SPDX identifier -> registered URLs). The input maps
// are copied; the caller keeps ownership of its arguments.
func NewTable(formats map[string]string, licences map[string][]string) *Table {
	fold := cases.Fold()
	t := &Table{
		formats:       make(map[string]string, len(formats)),
		licences:      make(map[string][]string, len(licences)),
		foldedFormats: make(map[string]string, len(formats)),
		foldedIDs:     make(map[string]string, len(licences)),
		licenceURLs:   make(map[string]string),
	}
	for name, origin := range formats {
		t.formats[name] = origin
		t.foldedFormats[fold.String(name)] = name
	}
	for id, urls := range licences {
		t.licences[id] = append([]string(nil), urls...)
		t.foldedIDs[fold.String(id)] = id
		for _, u := range urls {
			t.licenceURLs[u] = id
		}
	}
	return t
}

// Format classifies a "format" value.
func (t *Table) Format(value string) Lookup {
	return classify(value, t.formats, t.foldedFormats)
}

// FormatOrigin returns the origin note for a registered format.
func (t *Table) FormatOrigin(name string) (string, bool) {
	origin, ok := t.formats[name]
	return origin, ok
}

// LicenceID classifies an SPDX licence identifier.
func (t *Table) LicenceID(value string) Lookup {
	return classify(value, t.licences, t.foldedIDs)
}

// LicenceURLs returns the registered URLs for a licence identifier.
func (t *Table) LicenceURLs(id string) ([]string, bool) {
	urls, ok := t.licences[id]
	return urls, ok
}

// LicenceForURL returns the identifier a URL is registered under, if any.
func (t *Table) LicenceForURL(url string) (string, bool) {
	id, ok := t.licenceURLs[url]
	return id, ok
}

func classify[V any](value string, exact map[string]V, folded map[string]string) Lookup {
	if _, ok := exact[value]; ok {
		return Lookup{Known: true}
	}
	if canonical, ok := folded[cases.Fold().String(value)]; ok {
		return Lookup{Known: false, Canonical: canonical}
	}
	return Lookup{}
}

// Default returns the table built from the registries shipped with this
// package.
func Default() *Table {
	return NewTable(defaultFormats, defaultLicences)
}

// defaultFormats is the union of the JSON Schema draft 2020-12 format
// vocabulary and the formats the OAS 3.1 format registry adds. The origin
// note is reported in diagnostics so a reader knows where a format is
// defined.
var defaultFormats = map[string]string{
	// JSON Schema draft 2020-12 §7.3
	"date-time":             "JSON Schema 2020-12",
	"date":                  "JSON Schema 2020-12",
	"time":                  "JSON Schema 2020-12",
	"duration":              "JSON Schema 2020-12",
	"email":                 "JSON Schema 2020-12",
	"idn-email":             "JSON Schema 2020-12",
	"hostname":              "JSON Schema 2020-12",
	"idn-hostname":          "JSON Schema 2020-12",
	"ipv4":                  "JSON Schema 2020-12",
	"ipv6":                  "JSON Schema 2020-12",
	"uri":                   "JSON Schema 2020-12",
	"uri-reference":         "JSON Schema 2020-12",
	"iri":                   "JSON Schema 2020-12",
	"iri-reference":         "JSON Schema 2020-12",
	"uuid":                  "JSON Schema 2020-12",
	"uri-template":          "JSON Schema 2020-12",
	"json-pointer":          "JSON Schema 2020-12",
	"relative-json-pointer": "JSON Schema 2020-12",
	"regex":                 "JSON Schema 2020-12",

	// OAS format registry
	"int32":    "OAS format registry",
	"int64":    "OAS format registry",
	"float":    "OAS format registry",
	"double":   "OAS format registry",
	"password": "OAS format registry",
	"byte":     "OAS format registry",
	"binary":   "OAS format registry",
}
