package resolver

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apivet/apivet/diagnostics"
	"github.com/apivet/apivet/doctree"
	"github.com/apivet/apivet/grammar"
)

func buildTree(t *testing.T, v any) *doctree.Tree {
	t.Helper()
	tree, err := doctree.Build(v)
	require.NoError(t, err)
	return tree
}

func componentsDoc() any {
	return map[string]any{
		"components": map[string]any{
			"schemas": map[string]any{
				"Pet": map[string]any{
					"type": "object",
				},
				"Alias": map[string]any{
					"$ref": "#/components/schemas/Pet",
				},
				"Loop": map[string]any{
					"$ref": "#/components/schemas/Loop",
				},
				"A": map[string]any{
					"$ref": "#/components/schemas/B",
				},
				"B": map[string]any{
					"$ref": "#/components/schemas/A",
				},
			},
			"responses": map[string]any{
				"NotFound": map[string]any{
					"description": "not found",
				},
			},
		},
	}
}

func TestResolveLocal(t *testing.T) {
	r := New(buildTree(t, componentsDoc()))

	res, diag := r.Resolve("#/components/schemas/Pet", "/paths/~1pets/get", grammar.KindSchema)
	require.Nil(t, diag)
	require.NotNil(t, res)
	assert.Equal(t, grammar.KindSchema, res.Kind)
	assert.Equal(t, []string{"/components/schemas/Pet"}, res.Chain)
	s, _ := res.Target.FieldString("type")
	assert.Equal(t, "object", s)
}

func TestResolveFollowsDirectChain(t *testing.T) {
	r := New(buildTree(t, componentsDoc()))

	res, diag := r.Resolve("#/components/schemas/Alias", "/site", grammar.KindSchema)
	require.Nil(t, diag)
	assert.Equal(t, []string{"/components/schemas/Alias", "/components/schemas/Pet"}, res.Chain)
	assert.True(t, res.Target.Has("type"))
}

func TestResolveDangling(t *testing.T) {
	r := New(buildTree(t, componentsDoc()))

	res, diag := r.Resolve("#/components/schemas/Missing", "/site", grammar.KindSchema)
	assert.Nil(t, res)
	require.NotNil(t, diag)
	assert.Equal(t, diagnostics.RuleDanglingReference, diag.Rule)
	assert.Equal(t, "/site", diag.Pointer)
	assert.Equal(t, diagnostics.SeverityError, diag.Severity)
}

func TestResolveSelfCycle(t *testing.T) {
	r := New(buildTree(t, componentsDoc()))

	res, diag := r.Resolve("#/components/schemas/Loop", "/components/schemas/Loop", grammar.KindSchema)
	assert.Nil(t, res)
	require.NotNil(t, diag)
	assert.Equal(t, diagnostics.RuleCyclicReference, diag.Rule)
	assert.Contains(t, diag.Related, "/components/schemas/Loop")
}

func TestResolveMutualCycle(t *testing.T) {
	r := New(buildTree(t, componentsDoc()))

	_, diag := r.Resolve("#/components/schemas/B", "/components/schemas/A", grammar.KindSchema)
	require.NotNil(t, diag)
	assert.Equal(t, diagnostics.RuleCyclicReference, diag.Rule)
	assert.Equal(t, []string{
		"/components/schemas/A",
		"/components/schemas/B",
		"/components/schemas/A",
	}, diag.Related)
}

func TestResolveKindMismatch(t *testing.T) {
	r := New(buildTree(t, componentsDoc()))

	res, diag := r.Resolve("#/components/responses/NotFound", "/site", grammar.KindSchema)
	assert.Nil(t, res)
	require.NotNil(t, diag)
	assert.Equal(t, diagnostics.RuleReferenceKindMismatch, diag.Rule)
	assert.Contains(t, diag.Message, "response")
}

func TestResolveUnknownKindIsCompatible(t *testing.T) {
	tree := buildTree(t, map[string]any{
		"info": map[string]any{"title": "t"},
	})
	r := New(tree)

	// /info is not a components pointer, so its kind is unknown and any
	// expectation is accepted.
	res, diag := r.Resolve("#/info", "/site", grammar.KindSchema)
	require.Nil(t, diag)
	assert.Equal(t, grammar.KindUnknown, res.Kind)
}

func TestResolveExternalUnsupportedByDefault(t *testing.T) {
	r := New(buildTree(t, componentsDoc()))

	res, diag := r.Resolve("./common.yaml#/components/schemas/Pet", "/site", grammar.KindSchema)
	assert.Nil(t, res)
	require.NotNil(t, diag)
	assert.Equal(t, diagnostics.RuleExternalRefUnsupported, diag.Rule)
}

func TestResolveExternalWithLoader(t *testing.T) {
	external := buildTree(t, map[string]any{
		"components": map[string]any{
			"schemas": map[string]any{
				"Shared": map[string]any{"type": "string"},
			},
		},
	})

	loads := 0
	r := New(buildTree(t, componentsDoc()), WithExternalRefs(func(path string) (*doctree.Tree, error) {
		loads++
		if path != "./common.yaml" {
			return nil, errors.New("no such file")
		}
		return external, nil
	}))

	res, diag := r.Resolve("./common.yaml#/components/schemas/Shared", "/site", grammar.KindSchema)
	require.Nil(t, diag)
	assert.Equal(t, grammar.KindSchema, res.Kind)

	// The loaded document is cached, but the two refs differ so each is
	// resolved once.
	_, diag = r.Resolve("./common.yaml#/components/schemas/Nope", "/site", grammar.KindSchema)
	require.NotNil(t, diag)
	assert.Equal(t, diagnostics.RuleDanglingReference, diag.Rule)
	assert.Equal(t, 1, loads)
}

func TestResolveCachedFailureRekeysSite(t *testing.T) {
	r := New(buildTree(t, componentsDoc()))

	_, first := r.Resolve("#/nope", "/first", grammar.KindUnknown)
	_, second := r.Resolve("#/nope", "/second", grammar.KindUnknown)
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, "/first", first.Pointer)
	assert.Equal(t, "/second", second.Pointer)
}

func TestResolveConcurrent(t *testing.T) {
	r := New(buildTree(t, componentsDoc()))

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, diag := r.Resolve("#/components/schemas/Alias", "/site", grammar.KindSchema)
			assert.Nil(t, diag)
			assert.NotNil(t, res)
		}()
	}
	wg.Wait()
}

func TestCycleKey(t *testing.T) {
	a := CycleKey([]string{"/c/b", "/c/a", "/c/b"})
	b := CycleKey([]string{"/c/a", "/c/b", "/c/a"})
	assert.Equal(t, a, b)
	assert.Equal(t, "/c/a -> /c/b", a)

	assert.Equal(t, "/c/x", CycleKey([]string{"/c/x", "/c/x"}))
	assert.Equal(t, "", CycleKey(nil))
}
