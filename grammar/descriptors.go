package grammar

import "regexp"

// Shorthand constructors keep the descriptor table readable.

func str() FieldRule { return FieldRule{Shape: ShapeString} }
func strEnum(vals ...string) FieldRule {
	return FieldRule{Shape: ShapeString, Enum: vals}
}
func urlStr() FieldRule        { return FieldRule{Shape: ShapeString, URL: true} }
func boolean() FieldRule       { return FieldRule{Shape: ShapeBool} }
func number() FieldRule        { return FieldRule{Shape: ShapeNumber} }
func anyValue() FieldRule      { return FieldRule{Shape: ShapeAny} }
func node(k Kind) FieldRule    { return FieldRule{Shape: ShapeNode, Kind: k} }
func arrayOf(k Kind) FieldRule { return FieldRule{Shape: ShapeArray, Kind: k} }
func mapOf(k Kind) FieldRule   { return FieldRule{Shape: ShapeMap, Kind: k} }
func componentMap(k Kind) FieldRule {
	return FieldRule{Shape: ShapeMap, Kind: k, ComponentKeys: true}
}
func arrayOfStrings() FieldRule {
	elem := str()
	return FieldRule{Shape: ShapeArray, Elem: &elem}
}
func mapOfStrings() FieldRule {
	elem := str()
	return FieldRule{Shape: ShapeMap, Elem: &elem}
}

var openapiVersionRegex = regexp.MustCompile(`^3\.1\.\d+(-.+)?$`)

// descriptors is the full OAS 3.1.1 construct table. Built once, read-only.
var descriptors = map[Kind]*Descriptor{
	KindDocument: {
		Kind:       KindDocument,
		Required:   []string{"openapi", "info"},
		SpecAnchor: "openapi-object",
		// A 3.1 document must carry at least one of these sections.
		RequireOneOf: [][]string{{"paths", "components", "webhooks"}},
		Fields: map[string]FieldRule{
			"openapi":           {Shape: ShapeString, Pattern: openapiVersionRegex},
			"info":              node(KindInfo),
			"jsonSchemaDialect": urlStr(),
			"servers":           arrayOf(KindServer),
			"paths":             node(KindPaths),
			"webhooks":          mapOf(KindPathItem),
			"components":        node(KindComponents),
			"security":          arrayOf(KindSecurityRequirement),
			"tags":              arrayOf(KindTag),
			"externalDocs":      node(KindExternalDocs),
		},
	},

	KindInfo: {
		Kind:       KindInfo,
		Required:   []string{"title", "version"},
		SpecAnchor: "info-object",
		Fields: map[string]FieldRule{
			"title":          {Shape: ShapeString, NonEmpty: true},
			"summary":        str(),
			"description":    str(),
			"termsOfService": urlStr(),
			"contact":        node(KindContact),
			"license":        node(KindLicense),
			"version":        {Shape: ShapeString, NonEmpty: true},
		},
	},

	KindContact: {
		Kind:       KindContact,
		SpecAnchor: "contact-object",
		Fields: map[string]FieldRule{
			"name":  str(),
			"url":   urlStr(),
			"email": {Shape: ShapeString, Email: true},
		},
	},

	KindLicense: {
		Kind:       KindLicense,
		Required:   []string{"name"},
		SpecAnchor: "license-object",
		// identifier and url are mutually exclusive in 3.1.
		MutuallyExclusive: [][]string{{"identifier", "url"}},
		Fields: map[string]FieldRule{
			"name":       {Shape: ShapeString, NonEmpty: true},
			"identifier": {Shape: ShapeString, Advisory: AdvisoryLicenceID},
			"url":        {Shape: ShapeString, URL: true, Advisory: AdvisoryLicenceURL},
		},
	},

	KindServer: {
		Kind:       KindServer,
		Required:   []string{"url"},
		SpecAnchor: "server-object",
		Fields: map[string]FieldRule{
			// The URL may contain {variable} expressions, so it is not
			// checked as a plain URL.
			"url":         {Shape: ShapeString, NonEmpty: true},
			"description": str(),
			"variables":   mapOf(KindServerVariable),
		},
	},

	KindServerVariable: {
		Kind:       KindServerVariable,
		Required:   []string{"default"},
		SpecAnchor: "server-variable-object",
		Fields: map[string]FieldRule{
			"enum":        arrayOfStrings(),
			"default":     {Shape: ShapeString, NonEmpty: true},
			"description": str(),
		},
	},

	KindPaths: {
		Kind:       KindPaths,
		SpecAnchor: "paths-object",
		MapValues:  &MapRule{Key: KeyPathTemplate, Value: node(KindPathItem)},
	},

	KindPathItem: {
		Kind:         KindPathItem,
		SpecAnchor:   "path-item-object",
		AllowsRef:    true,
		RefOverrides: []string{"summary", "description"},
		Fields: map[string]FieldRule{
			"summary":     str(),
			"description": str(),
			"get":         node(KindOperation),
			"put":         node(KindOperation),
			"post":        node(KindOperation),
			"delete":      node(KindOperation),
			"options":     node(KindOperation),
			"head":        node(KindOperation),
			"patch":       node(KindOperation),
			"trace":       node(KindOperation),
			"servers":     arrayOf(KindServer),
			"parameters":  arrayOf(KindParameter),
		},
	},

	KindOperation: {
		Kind:       KindOperation,
		SpecAnchor: "operation-object",
		Fields: map[string]FieldRule{
			"tags":         arrayOfStrings(),
			"summary":      str(),
			"description":  str(),
			"externalDocs": node(KindExternalDocs),
			"operationId":  str(),
			"parameters":   arrayOf(KindParameter),
			"requestBody":  node(KindRequestBody),
			"responses":    node(KindResponses),
			"callbacks":    mapOf(KindCallback),
			"deprecated":   boolean(),
			"security":     arrayOf(KindSecurityRequirement),
			"servers":      arrayOf(KindServer),
		},
	},

	KindExternalDocs: {
		Kind:       KindExternalDocs,
		Required:   []string{"url"},
		SpecAnchor: "external-documentation-object",
		Fields: map[string]FieldRule{
			"description": str(),
			"url":         urlStr(),
		},
	},

	KindParameter: {
		Kind:         KindParameter,
		Required:     []string{"name", "in"},
		SpecAnchor:   "parameter-object",
		AllowsRef:    true,
		RefOverrides: []string{"summary", "description"},
		RequireOneOf: [][]string{{"schema", "content"}},
		MutuallyExclusive: [][]string{
			{"schema", "content"},
			{"example", "examples"},
		},
		Fields: map[string]FieldRule{
			"name":            {Shape: ShapeString, NonEmpty: true},
			"in":              strEnum("query", "header", "path", "cookie"),
			"description":     str(),
			"required":        boolean(),
			"deprecated":      boolean(),
			"allowEmptyValue": FieldRule{Shape: ShapeBool, Deprecated: true},
			"style":           str(),
			"explode":         boolean(),
			"allowReserved":   boolean(),
			"schema":          node(KindSchema),
			"example":         anyValue(),
			"examples":        mapOf(KindExample),
			"content":         mapOf(KindMediaType),
		},
		Discriminator: &Discriminator{
			Field: "in",
			Variants: map[string]Variant{
				"path": {
					RequireTrue: []string{"required"},
					Forbid:      []string{"allowEmptyValue", "allowReserved"},
					Fields: map[string]FieldRule{
						"style": strEnum("matrix", "label", "simple"),
					},
				},
				"query": {
					Fields: map[string]FieldRule{
						"style": strEnum("form", "spaceDelimited", "pipeDelimited", "deepObject"),
					},
				},
				"header": {
					Forbid: []string{"allowEmptyValue", "allowReserved"},
					Fields: map[string]FieldRule{
						"style": strEnum("simple"),
					},
				},
				"cookie": {
					Forbid: []string{"allowEmptyValue", "allowReserved"},
					Fields: map[string]FieldRule{
						"style": strEnum("form"),
					},
				},
			},
		},
	},

	KindRequestBody: {
		Kind:         KindRequestBody,
		Required:     []string{"content"},
		SpecAnchor:   "request-body-object",
		AllowsRef:    true,
		RefOverrides: []string{"summary", "description"},
		Fields: map[string]FieldRule{
			"description": str(),
			"content":     mapOf(KindMediaType),
			"required":    boolean(),
		},
	},

	KindMediaType: {
		Kind:              KindMediaType,
		SpecAnchor:        "media-type-object",
		MutuallyExclusive: [][]string{{"example", "examples"}},
		Fields: map[string]FieldRule{
			"schema":   node(KindSchema),
			"example":  anyValue(),
			"examples": mapOf(KindExample),
			"encoding": mapOf(KindEncoding),
		},
	},

	KindEncoding: {
		Kind:       KindEncoding,
		SpecAnchor: "encoding-object",
		Fields: map[string]FieldRule{
			"contentType":   str(),
			"headers":       mapOf(KindHeader),
			"style":         strEnum("form", "spaceDelimited", "pipeDelimited", "deepObject"),
			"explode":       boolean(),
			"allowReserved": boolean(),
		},
	},

	KindResponses: {
		Kind:       KindResponses,
		SpecAnchor: "responses-object",
		MapValues:  &MapRule{Key: KeyStatusCode, Value: node(KindResponse)},
	},

	KindResponse: {
		Kind:         KindResponse,
		Required:     []string{"description"},
		SpecAnchor:   "response-object",
		AllowsRef:    true,
		RefOverrides: []string{"summary", "description"},
		Fields: map[string]FieldRule{
			"description": str(),
			"headers":     mapOf(KindHeader),
			"content":     mapOf(KindMediaType),
			"links":       mapOf(KindLink),
		},
	},

	KindCallback: {
		Kind:         KindCallback,
		SpecAnchor:   "callback-object",
		AllowsRef:    true,
		RefOverrides: []string{"summary", "description"},
		MapValues:    &MapRule{Key: KeyRuntimeExpression, Value: node(KindPathItem)},
	},

	KindExample: {
		Kind:              KindExample,
		SpecAnchor:        "example-object",
		AllowsRef:         true,
		RefOverrides:      []string{"summary", "description"},
		MutuallyExclusive: [][]string{{"value", "externalValue"}},
		Fields: map[string]FieldRule{
			"summary":       str(),
			"description":   str(),
			"value":         anyValue(),
			"externalValue": urlStr(),
		},
	},

	KindLink: {
		Kind:              KindLink,
		SpecAnchor:        "link-object",
		AllowsRef:         true,
		RefOverrides:      []string{"summary", "description"},
		RequireOneOf:      [][]string{{"operationRef", "operationId"}},
		MutuallyExclusive: [][]string{{"operationRef", "operationId"}},
		Fields: map[string]FieldRule{
			"operationRef": urlStr(),
			"operationId":  str(),
			"parameters":   FieldRule{Shape: ShapeMap, Elem: &FieldRule{Shape: ShapeAny}},
			"requestBody":  anyValue(),
			"description":  str(),
			"server":       node(KindServer),
		},
	},

	KindHeader: {
		Kind:         KindHeader,
		SpecAnchor:   "header-object",
		AllowsRef:    true,
		RefOverrides: []string{"summary", "description"},
		RequireOneOf: [][]string{{"schema", "content"}},
		MutuallyExclusive: [][]string{
			{"schema", "content"},
			{"example", "examples"},
		},
		Fields: map[string]FieldRule{
			"description": str(),
			"required":    boolean(),
			"deprecated":  boolean(),
			"style":       strEnum("simple"),
			"explode":     boolean(),
			"schema":      node(KindSchema),
			"example":     anyValue(),
			"examples":    mapOf(KindExample),
			"content":     mapOf(KindMediaType),
		},
	},

	KindTag: {
		Kind:       KindTag,
		Required:   []string{"name"},
		SpecAnchor: "tag-object",
		Fields: map[string]FieldRule{
			"name":         {Shape: ShapeString, NonEmpty: true},
			"description":  str(),
			"externalDocs": node(KindExternalDocs),
		},
	},

	KindSchema: schemaDescriptor,

	KindDiscriminator: {
		Kind:       KindDiscriminator,
		Required:   []string{"propertyName"},
		SpecAnchor: "discriminator-object",
		Fields: map[string]FieldRule{
			"propertyName": {Shape: ShapeString, NonEmpty: true},
			"mapping":      mapOfStrings(),
		},
	},

	KindXML: {
		Kind:       KindXML,
		SpecAnchor: "xml-object",
		Fields: map[string]FieldRule{
			"name":      str(),
			"namespace": urlStr(),
			"prefix":    str(),
			"attribute": boolean(),
			"wrapped":   boolean(),
		},
	},

	KindSecurityScheme: {
		Kind:         KindSecurityScheme,
		Required:     []string{"type"},
		SpecAnchor:   "security-scheme-object",
		AllowsRef:    true,
		RefOverrides: []string{"summary", "description"},
		Fields: map[string]FieldRule{
			"type":             strEnum("apiKey", "http", "mutualTLS", "oauth2", "openIdConnect"),
			"description":      str(),
			"name":             str(),
			"in":               strEnum("query", "header", "cookie"),
			"scheme":           str(),
			"bearerFormat":     str(),
			"flows":            node(KindOAuthFlows),
			"openIdConnectUrl": urlStr(),
		},
		Discriminator: &Discriminator{
			Field: "type",
			Variants: map[string]Variant{
				"apiKey": {
					Require: []string{"name", "in"},
					Forbid:  []string{"flows"},
				},
				"http": {
					Require: []string{"scheme"},
					Forbid:  []string{"flows"},
				},
				"mutualTLS": {
					Forbid: []string{"flows"},
				},
				"oauth2": {
					Require: []string{"flows"},
				},
				"openIdConnect": {
					Require: []string{"openIdConnectUrl"},
					Forbid:  []string{"flows"},
				},
			},
		},
	},

	KindOAuthFlows: {
		Kind:       KindOAuthFlows,
		SpecAnchor: "oauth-flows-object",
		Fields: map[string]FieldRule{
			"implicit":          node(KindOAuthFlow),
			"password":          node(KindOAuthFlow),
			"clientCredentials": node(KindOAuthFlow),
			"authorizationCode": node(KindOAuthFlow),
		},
	},

	KindOAuthFlow: {
		Kind:       KindOAuthFlow,
		Required:   []string{"scopes"},
		SpecAnchor: "oauth-flow-object",
		Fields: map[string]FieldRule{
			"authorizationUrl": urlStr(),
			"tokenUrl":         urlStr(),
			"refreshUrl":       urlStr(),
			"scopes":           mapOfStrings(),
		},
	},

	KindSecurityRequirement: {
		Kind:       KindSecurityRequirement,
		SpecAnchor: "security-requirement-object",
		MapValues: &MapRule{
			Key:   KeyAny,
			Value: FieldRule{Shape: ShapeArray, Elem: &FieldRule{Shape: ShapeString}},
		},
	},

	KindComponents: {
		Kind:       KindComponents,
		SpecAnchor: "components-object",
		Fields: map[string]FieldRule{
			"schemas":         componentMap(KindSchema),
			"responses":       componentMap(KindResponse),
			"parameters":      componentMap(KindParameter),
			"examples":        componentMap(KindExample),
			"requestBodies":   componentMap(KindRequestBody),
			"headers":         componentMap(KindHeader),
			"securitySchemes": componentMap(KindSecurityScheme),
			"links":           componentMap(KindLink),
			"callbacks":       componentMap(KindCallback),
			"pathItems":       componentMap(KindPathItem),
		},
	},
}

// OAuthFlowVariant returns the requirements an OAuth flow object inherits
// from the flows-object key it sits under ("implicit", "password",
// "clientCredentials", "authorizationCode"). The flow object's legality
// depends on parent context, not on any of its own fields.
func OAuthFlowVariant(flowKey string) (Variant, bool) {
	v, ok := oauthFlowVariants[flowKey]
	return v, ok
}

var oauthFlowVariants = map[string]Variant{
	"implicit": {
		Require: []string{"authorizationUrl"},
		Forbid:  []string{"tokenUrl"},
	},
	"authorizationCode": {
		Require: []string{"authorizationUrl", "tokenUrl"},
	},
	"clientCredentials": {
		Require: []string{"tokenUrl"},
		Forbid:  []string{"authorizationUrl"},
	},
	"password": {
		Require: []string{"tokenUrl"},
		Forbid:  []string{"authorizationUrl"},
	},
}
