package grammar

// schemaDescriptor models the Schema Object, which in OAS 3.1 is a full
// JSON Schema draft 2020-12 document. Schema objects are open: unknown
// keywords are legal and ignored, and $ref composes with sibling keywords
// instead of excluding them. Only the keywords listed here have their
// shapes checked; a boolean is also a valid schema.
var schemaDescriptor = &Descriptor{
	Kind:               KindSchema,
	SpecAnchor:         "schema-object",
	Open:               true,
	AllowsRef:          true,
	RefSiblingsAllowed: true,
	Fields: map[string]FieldRule{
		// Core vocabulary
		"$id":            {Shape: ShapeString, URL: true},
		"$schema":        {Shape: ShapeString, URL: true},
		"$anchor":        str(),
		"$dynamicAnchor": str(),
		"$dynamicRef":    str(),
		"$comment":       str(),
		"$defs":          mapOf(KindSchema),

		// Applicators
		"allOf":                 {Shape: ShapeArray, Kind: KindSchema},
		"anyOf":                 {Shape: ShapeArray, Kind: KindSchema},
		"oneOf":                 {Shape: ShapeArray, Kind: KindSchema},
		"not":                   node(KindSchema),
		"if":                    node(KindSchema),
		"then":                  node(KindSchema),
		"else":                  node(KindSchema),
		"items":                 node(KindSchema),
		"prefixItems":           {Shape: ShapeArray, Kind: KindSchema},
		"contains":              node(KindSchema),
		"properties":            mapOf(KindSchema),
		"patternProperties":     mapOf(KindSchema),
		"additionalProperties":  node(KindSchema),
		"propertyNames":         node(KindSchema),
		"unevaluatedItems":      node(KindSchema),
		"unevaluatedProperties": node(KindSchema),
		"dependentSchemas":      mapOf(KindSchema),

		// Validation keywords
		"type": {
			Shape: ShapeStringOrStringArray,
			Enum:  []string{"array", "boolean", "integer", "null", "number", "object", "string"},
		},
		"enum":              {Shape: ShapeArray, Elem: &FieldRule{Shape: ShapeAny}},
		"const":             anyValue(),
		"multipleOf":        {Shape: ShapeNumber, Positive: true},
		"maximum":           number(),
		"exclusiveMaximum":  number(),
		"minimum":           number(),
		"exclusiveMinimum":  number(),
		"maxLength":         {Shape: ShapeInteger, NonNegative: true},
		"minLength":         {Shape: ShapeInteger, NonNegative: true},
		"pattern":           {Shape: ShapeString, Regex: true},
		"maxItems":          {Shape: ShapeInteger, NonNegative: true},
		"minItems":          {Shape: ShapeInteger, NonNegative: true},
		"uniqueItems":       boolean(),
		"maxContains":       {Shape: ShapeInteger, NonNegative: true},
		"minContains":       {Shape: ShapeInteger, NonNegative: true},
		"maxProperties":     {Shape: ShapeInteger, NonNegative: true},
		"minProperties":     {Shape: ShapeInteger, NonNegative: true},
		"required":          arrayOfStrings(),
		"dependentRequired": {Shape: ShapeMap, Elem: &FieldRule{Shape: ShapeArray, Elem: &FieldRule{Shape: ShapeString}}},

		// Format: explicitly implementation-defined by the specification.
		"format": {Shape: ShapeString, Advisory: AdvisoryFormat},

		// Content keywords
		"contentMediaType": str(),
		"contentEncoding":  str(),
		"contentSchema":    node(KindSchema),

		// Annotations
		"title":       str(),
		"description": str(),
		"default":     anyValue(),
		"deprecated":  boolean(),
		"readOnly":    boolean(),
		"writeOnly":   boolean(),
		"examples":    {Shape: ShapeArray, Elem: &FieldRule{Shape: ShapeAny}},
		// "example" survives from OAS 3.0 but is deprecated in favor of "examples".
		"example": FieldRule{Shape: ShapeAny, Deprecated: true},

		// OAS extensions to JSON Schema
		"discriminator": node(KindDiscriminator),
		"xml":           node(KindXML),
		"externalDocs":  node(KindExternalDocs),
	},
}
