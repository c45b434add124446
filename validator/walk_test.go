package validator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apivet/apivet/diagnostics"
)

// opDoc wraps a single operation body into a minimal valid document.
func opDoc(operation string) string {
	return fmt.Sprintf(`openapi: 3.1.0
info: {title: t, version: "1"}
paths:
  /things:
    get:
%s
`, operation)
}

func TestWalkUnrecognizedField(t *testing.T) {
	result := validate(t, `openapi: 3.1.0
info:
  title: t
  version: "1"
  banana: yes
paths: {}
`)
	d := requireRule(t, result, diagnostics.RuleUnrecognizedNode)
	assert.Equal(t, "/info/banana", d.Pointer)
	assert.Equal(t, "banana", d.Field)
}

func TestWalkExtensionFieldsAreLegal(t *testing.T) {
	result := validate(t, `openapi: 3.1.0
info:
  title: t
  version: "1"
  x-internal-id: 42
paths: {}
x-lint-profile: strict
`)
	assert.Empty(t, result.Errors, "unexpected errors: %v", result.Errors)
}

func TestWalkSchemaUnknownKeywordsAreLegal(t *testing.T) {
	// Schema objects are open: unknown JSON Schema keywords pass through.
	result := validate(t, opDoc(`      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: object
                madeUpKeyword: true
`))
	assert.Empty(t, result.Errors, "unexpected errors: %v", result.Errors)
}

func TestWalkFieldShapes(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		pointer string
	}{
		{
			name: "string field with number value",
			doc: `openapi: 3.1.0
info: {title: 42, version: "1"}
paths: {}
`,
			pointer: "/info/title",
		},
		{
			name: "bool field with string value",
			doc: opDoc(`      deprecated: "yes"
      responses:
        "200":
          description: ok
`),
			pointer: "/paths/~1things/get/deprecated",
		},
		{
			name: "array field with object value",
			doc: opDoc(`      tags: {a: b}
      responses:
        "200":
          description: ok
`),
			pointer: "/paths/~1things/get/tags",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := validate(t, tc.doc)
			d := requireRule(t, result, diagnostics.RuleInvalidFieldValue)
			assert.Equal(t, tc.pointer, d.Pointer)
		})
	}
}

func TestWalkSchemaNumericConstraints(t *testing.T) {
	result := validate(t, opDoc(`      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: string
                minLength: -1
                multipleOf: 0
`))
	rules := diagsByRule(result, diagnostics.RuleInvalidFieldValue)
	require.Len(t, rules, 2)
}

func TestWalkSchemaBadPattern(t *testing.T) {
	result := validate(t, opDoc(`      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: string
                pattern: "(unclosed"
`))
	d := requireRule(t, result, diagnostics.RuleInvalidFieldValue)
	assert.Equal(t, "pattern", d.Field)
}

func TestWalkBooleanSchemaIsLegal(t *testing.T) {
	result := validate(t, opDoc(`      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: object
                additionalProperties: false
`))
	assert.Empty(t, result.Errors, "unexpected errors: %v", result.Errors)
}

func TestWalkParameterVariants(t *testing.T) {
	t.Run("path parameter must be required", func(t *testing.T) {
		result := validate(t, `openapi: 3.1.0
info: {title: t, version: "1"}
paths:
  /things/{id}:
    get:
      parameters:
        - name: id
          in: path
          schema: {type: string}
      responses:
        "200":
          description: ok
`)
		d := requireRule(t, result, diagnostics.RuleMissingRequiredField)
		assert.Equal(t, "required", d.Field)
	})

	t.Run("unknown location", func(t *testing.T) {
		result := validate(t, opDoc(`      parameters:
        - name: body
          in: body
          schema: {type: string}
      responses:
        "200":
          description: ok
`))
		d := requireRule(t, result, diagnostics.RuleUnknownDiscriminator)
		assert.Equal(t, "in", d.Field)
		assert.Equal(t, "body", d.Value)
		// The enum check must not double-report the same value.
		assert.Empty(t, diagsByRule(result, diagnostics.RuleInvalidFieldValue))
	})

	t.Run("allowEmptyValue forbidden outside query", func(t *testing.T) {
		result := validate(t, `openapi: 3.1.0
info: {title: t, version: "1"}
paths:
  /things/{id}:
    get:
      parameters:
        - name: id
          in: path
          required: true
          allowEmptyValue: true
          schema: {type: string}
      responses:
        "200":
          description: ok
`)
		matches := diagsByRule(result, diagnostics.RuleInvalidFieldValue)
		require.NotEmpty(t, matches)
		assert.Equal(t, "allowEmptyValue", matches[0].Field)
	})

	t.Run("per-location style enum", func(t *testing.T) {
		result := validate(t, opDoc(`      parameters:
        - name: q
          in: query
          style: simple
          schema: {type: string}
      responses:
        "200":
          description: ok
`))
		d := requireRule(t, result, diagnostics.RuleInvalidFieldValue)
		assert.Equal(t, "style", d.Field)
	})

	t.Run("schema and content are exclusive", func(t *testing.T) {
		result := validate(t, opDoc(`      parameters:
        - name: q
          in: query
          schema: {type: string}
          content:
            application/json:
              schema: {type: string}
      responses:
        "200":
          description: ok
`))
		requireRule(t, result, diagnostics.RuleMutuallyExclusiveFields)
	})

	t.Run("schema or content required", func(t *testing.T) {
		result := validate(t, opDoc(`      parameters:
        - name: q
          in: query
      responses:
        "200":
          description: ok
`))
		d := requireRule(t, result, diagnostics.RuleMissingRequiredField)
		assert.Contains(t, d.Message, "schema")
	})
}

func TestWalkSecuritySchemeVariants(t *testing.T) {
	schemeDoc := func(body string) string {
		return fmt.Sprintf(`openapi: 3.1.0
info: {title: t, version: "1"}
paths: {}
security:
  - auth: []
components:
  securitySchemes:
    auth:
%s
`, body)
	}

	t.Run("apiKey requires name and in", func(t *testing.T) {
		result := validate(t, schemeDoc("      type: apiKey"))
		matches := diagsByRule(result, diagnostics.RuleMissingRequiredField)
		require.Len(t, matches, 2)
	})

	t.Run("oauth2 requires flows", func(t *testing.T) {
		result := validate(t, schemeDoc("      type: oauth2"))
		d := requireRule(t, result, diagnostics.RuleMissingRequiredField)
		assert.Equal(t, "flows", d.Field)
	})

	t.Run("http forbids flows", func(t *testing.T) {
		result := validate(t, schemeDoc(`      type: http
      scheme: bearer
      flows: {}
`))
		d := requireRule(t, result, diagnostics.RuleInvalidFieldValue)
		assert.Equal(t, "flows", d.Field)
	})

	t.Run("unknown type", func(t *testing.T) {
		result := validate(t, schemeDoc("      type: basic"))
		d := requireRule(t, result, diagnostics.RuleUnknownDiscriminator)
		assert.Equal(t, "basic", d.Value)
	})
}

func TestWalkOAuthFlowRequirements(t *testing.T) {
	flowDoc := func(flows string) string {
		return fmt.Sprintf(`openapi: 3.1.0
info: {title: t, version: "1"}
paths: {}
security:
  - oauth: []
components:
  securitySchemes:
    oauth:
      type: oauth2
      flows:
%s
`, flows)
	}

	t.Run("implicit requires authorizationUrl", func(t *testing.T) {
		result := validate(t, flowDoc(`        implicit:
          scopes: {}
`))
		d := requireRule(t, result, diagnostics.RuleMissingRequiredField)
		assert.Equal(t, "authorizationUrl", d.Field)
	})

	t.Run("implicit forbids tokenUrl", func(t *testing.T) {
		result := validate(t, flowDoc(`        implicit:
          authorizationUrl: https://auth.example.com/authorize
          tokenUrl: https://auth.example.com/token
          scopes: {}
`))
		d := requireRule(t, result, diagnostics.RuleInvalidFieldValue)
		assert.Equal(t, "tokenUrl", d.Field)
	})

	t.Run("clientCredentials requires tokenUrl", func(t *testing.T) {
		result := validate(t, flowDoc(`        clientCredentials:
          scopes: {}
`))
		d := requireRule(t, result, diagnostics.RuleMissingRequiredField)
		assert.Equal(t, "tokenUrl", d.Field)
	})

	t.Run("authorizationCode requires both URLs", func(t *testing.T) {
		result := validate(t, flowDoc(`        authorizationCode:
          authorizationUrl: https://auth.example.com/authorize
          tokenUrl: https://auth.example.com/token
          scopes:
            read: read access
`))
		assert.Empty(t, result.Errors, "unexpected errors: %v", result.Errors)
	})
}

func TestWalkLicense(t *testing.T) {
	t.Run("identifier and url are exclusive", func(t *testing.T) {
		result := validate(t, `openapi: 3.1.0
info:
  title: t
  version: "1"
  license:
    name: MIT
    identifier: MIT
    url: https://opensource.org/license/mit/
paths: {}
`)
		requireRule(t, result, diagnostics.RuleMutuallyExclusiveFields)
	})

	t.Run("unknown identifier is a warning", func(t *testing.T) {
		result := validate(t, `openapi: 3.1.0
info:
  title: t
  version: "1"
  license:
    name: Homegrown
    identifier: Homegrown-1.0
paths: {}
`)
		assert.Empty(t, result.Errors)
		requireRule(t, result, diagnostics.RuleUnknownLicenceID)
	})

	t.Run("unrecognized licence url is a warning", func(t *testing.T) {
		result := validate(t, `openapi: 3.1.0
info:
  title: t
  version: "1"
  license:
    name: MIT
    url: https://example.com/my-own-licence.txt
paths: {}
`)
		assert.Empty(t, result.Errors)
		requireRule(t, result, diagnostics.RuleLicenceURLMismatch)
	})
}

func TestWalkServerVariables(t *testing.T) {
	t.Run("url variable without declaration", func(t *testing.T) {
		result := validate(t, `openapi: 3.1.0
info: {title: t, version: "1"}
servers:
  - url: https://{region}.example.com
paths: {}
`)
		d := requireRule(t, result, diagnostics.RuleMissingRequiredField)
		assert.Equal(t, "variables", d.Field)
		assert.Equal(t, "region", d.Value)
	})

	t.Run("default must be in enum", func(t *testing.T) {
		result := validate(t, `openapi: 3.1.0
info: {title: t, version: "1"}
servers:
  - url: https://{region}.example.com
    variables:
      region:
        default: mars
        enum: [us, eu]
paths: {}
`)
		d := requireRule(t, result, diagnostics.RuleInvalidFieldValue)
		assert.Equal(t, "default", d.Field)
		assert.Equal(t, "mars", d.Value)
	})
}

func TestWalkResponses(t *testing.T) {
	t.Run("empty responses object", func(t *testing.T) {
		result := validate(t, opDoc("      responses: {}"))
		d := requireRule(t, result, diagnostics.RuleMissingRequiredField)
		assert.Contains(t, d.Message, "at least one response")
	})

	t.Run("extensions alone do not count", func(t *testing.T) {
		result := validate(t, opDoc(`      responses:
        x-internal: true
`))
		d := requireRule(t, result, diagnostics.RuleMissingRequiredField)
		assert.Contains(t, d.Message, "at least one response")
	})

	t.Run("invalid status key", func(t *testing.T) {
		result := validate(t, opDoc(`      responses:
        "600":
          description: nope
`))
		requireRule(t, result, diagnostics.RuleInvalidFieldValue)
	})

	t.Run("nonstandard code warns", func(t *testing.T) {
		result := validate(t, opDoc(`      responses:
        "299":
          description: exotic
`))
		assert.Empty(t, result.Errors)
		requireRule(t, result, diagnostics.RuleNonstandardStatusCode)
	})

	t.Run("ranges and default are fine", func(t *testing.T) {
		result := validate(t, opDoc(`      responses:
        "2XX":
          description: ok
        default:
          description: fallback
`))
		assert.Empty(t, result.Errors, "unexpected errors: %v", result.Errors)
		assert.Empty(t, result.Warnings)
	})
}

func TestWalkRefHandling(t *testing.T) {
	t.Run("dangling ref", func(t *testing.T) {
		result := validate(t, opDoc(`      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Missing'
`))
		d := requireRule(t, result, diagnostics.RuleDanglingReference)
		assert.Equal(t, "/paths/~1things/get/responses/200/content/application~1json/schema", d.Pointer)
		// A dangling ref produces exactly one finding; the target is not
		// traversed further.
		assert.Len(t, result.Errors, 1)
	})

	t.Run("kind mismatch", func(t *testing.T) {
		result := validate(t, `openapi: 3.1.0
info: {title: t, version: "1"}
paths:
  /a:
    get:
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                $ref: '#/components/responses/NotFound'
components:
  responses:
    NotFound:
      description: no
`)
		requireRule(t, result, diagnostics.RuleReferenceKindMismatch)
	})

	t.Run("illegal sibling beside ref", func(t *testing.T) {
		result := validate(t, `openapi: 3.1.0
info: {title: t, version: "1"}
paths:
  /a:
    get:
      responses:
        "200":
          $ref: '#/components/responses/OK'
          headers: {}
components:
  responses:
    OK:
      description: ok
`)
		d := requireRule(t, result, diagnostics.RuleUnrecognizedNode)
		assert.Equal(t, "headers", d.Field)
	})

	t.Run("description override beside ref is legal", func(t *testing.T) {
		result := validate(t, `openapi: 3.1.0
info: {title: t, version: "1"}
paths:
  /a:
    get:
      responses:
        "200":
          $ref: '#/components/responses/OK'
          description: replaces the target description
components:
  responses:
    OK:
      description: ok
`)
		assert.Empty(t, result.Errors, "unexpected errors: %v", result.Errors)
	})

	t.Run("schema ref composes with siblings", func(t *testing.T) {
		result := validate(t, `openapi: 3.1.0
info: {title: t, version: "1"}
paths:
  /a:
    get:
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Base'
                description: narrowed
components:
  schemas:
    Base:
      type: object
`)
		assert.Empty(t, result.Errors, "unexpected errors: %v", result.Errors)
	})
}

func TestWalkDeprecatedFieldWarns(t *testing.T) {
	result := validate(t, opDoc(`      parameters:
        - name: q
          in: query
          allowEmptyValue: true
          schema: {type: string}
      responses:
        "200":
          description: ok
`))
	assert.Empty(t, result.Errors, "unexpected errors: %v", result.Errors)
	d := requireRule(t, result, diagnostics.RuleDeprecatedConstruct)
	assert.Equal(t, "allowEmptyValue", d.Field)
}

func TestWalkExampleValueExclusivity(t *testing.T) {
	result := validate(t, `openapi: 3.1.0
info: {title: t, version: "1"}
paths: {}
components:
  examples:
    Pet:
      value: {name: rex}
      externalValue: https://example.com/pet.json
  schemas:
    Use:
      type: object
`)
	requireRule(t, result, diagnostics.RuleMutuallyExclusiveFields)
}

func TestWalkLinkOperationExclusivity(t *testing.T) {
	result := validate(t, `openapi: 3.1.0
info: {title: t, version: "1"}
paths: {}
components:
  links:
    Next:
      operationId: listPets
      operationRef: '#/paths/~1pets/get'
`)
	requireRule(t, result, diagnostics.RuleMutuallyExclusiveFields)
}

func TestWalkComponentNameSyntax(t *testing.T) {
	result := validate(t, `openapi: 3.1.0
info: {title: t, version: "1"}
paths: {}
components:
  schemas:
    "bad name!":
      type: object
`)
	d := requireRule(t, result, diagnostics.RuleInvalidFieldValue)
	assert.Equal(t, "bad name!", d.Value)
}
