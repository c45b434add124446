package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDoc = `openapi: 3.1.0
info:
  title: Test API
  version: "1.0.0"
paths: {}
`

func TestValidateTool_ValidSpec(t *testing.T) {
	docCache.reset()
	input := validateInput{
		Spec: specInput{Content: validDoc},
	}
	_, output, err := handleValidate(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.True(t, output.Valid)
	assert.Equal(t, "3.1.0", output.Version)
	assert.Empty(t, output.Errors)
}

func TestValidateTool_InvalidSpec(t *testing.T) {
	docCache.reset()
	content := `openapi: 3.1.0
info:
  title: Test API
paths: {}
`
	input := validateInput{
		Spec: specInput{Content: content},
	}
	_, output, err := handleValidate(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.False(t, output.Valid)
	require.NotEmpty(t, output.Errors)
	assert.Equal(t, "missing-required-field", output.Errors[0].Rule)
	assert.Equal(t, "/info", output.Errors[0].Pointer)
}

func TestValidateTool_StrictMode(t *testing.T) {
	docCache.reset()
	content := `openapi: 3.1.0
info:
  title: Test API
  version: "1.0.0"
paths: {}
components:
  schemas:
    Orphan:
      type: object
`
	strict := true
	input := validateInput{
		Spec:   specInput{Content: content},
		Strict: &strict,
	}
	_, output, err := handleValidate(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.False(t, output.Valid)
	assert.Empty(t, output.Errors)
	assert.NotEmpty(t, output.Warnings)
}

func TestValidateTool_NoWarnings(t *testing.T) {
	docCache.reset()
	content := `openapi: 3.1.0
info:
  title: Test API
  version: "1.0.0"
paths: {}
components:
  schemas:
    Orphan:
      type: object
`
	noWarnings := true
	input := validateInput{
		Spec:       specInput{Content: content},
		NoWarnings: &noWarnings,
	}
	_, output, err := handleValidate(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.True(t, output.Valid)
	assert.Zero(t, output.WarningCount)
	assert.Empty(t, output.Warnings)
}

func TestValidateTool_Pagination(t *testing.T) {
	docCache.reset()
	content := `openapi: 3.1.0
info:
  title: Test API
  version: "1.0.0"
  banana: 1
  cherry: 2
  durian: 3
paths: {}
`
	input := validateInput{
		Spec:  specInput{Content: content},
		Limit: 2,
	}
	_, output, err := handleValidate(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.Equal(t, 3, output.ErrorCount)
	assert.Len(t, output.Errors, 2)

	input.Offset = 2
	_, output, err = handleValidate(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.Len(t, output.Errors, 1)
}

func TestValidateTool_FileInput(t *testing.T) {
	docCache.reset()
	dir := t.TempDir()
	path := filepath.Join(dir, "api.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validDoc), 0o600))

	input := validateInput{
		Spec: specInput{File: path},
	}
	_, output, err := handleValidate(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.True(t, output.Valid)
}

func TestValidateTool_ExternalRefs(t *testing.T) {
	docCache.reset()
	dir := t.TempDir()
	main := `openapi: 3.1.0
info:
  title: Test API
  version: "1.0.0"
paths:
  /pets:
    get:
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                $ref: './common.yaml#/components/schemas/Shared'
`
	common := `components:
  schemas:
    Shared:
      type: object
`
	mainPath := filepath.Join(dir, "api.yaml")
	require.NoError(t, os.WriteFile(mainPath, []byte(main), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "common.yaml"), []byte(common), 0o600))

	input := validateInput{
		Spec:         specInput{File: mainPath},
		ExternalRefs: true,
	}
	_, output, err := handleValidate(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.True(t, output.Valid, "unexpected diagnostics: %v %v", output.Errors, output.Warnings)
}

func TestValidateTool_BothInputsRejected(t *testing.T) {
	docCache.reset()
	input := validateInput{
		Spec: specInput{File: "x.yaml", Content: validDoc},
	}
	result, _, err := handleValidate(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}
