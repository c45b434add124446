package doctree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMapping(t *testing.T) {
	tree, err := Build(map[string]any{
		"openapi": "3.1.0",
		"info": map[string]any{
			"title":   "Test API",
			"version": "1.0.0",
		},
	})
	require.NoError(t, err)

	root := tree.Root()
	require.True(t, root.IsMapping())
	assert.Equal(t, "", root.Ptr)
	assert.Equal(t, 2, root.Len())

	info, ok := root.Field("info")
	require.True(t, ok)
	assert.Equal(t, "/info", info.Ptr)

	title, ok := info.FieldString("title")
	require.True(t, ok)
	assert.Equal(t, "Test API", title)
}

func TestBuildSequence(t *testing.T) {
	tree, err := Build(map[string]any{
		"servers": []any{
			map[string]any{"url": "https://a.example.com"},
			map[string]any{"url": "https://b.example.com"},
		},
	})
	require.NoError(t, err)

	servers, ok := tree.Root().Field("servers")
	require.True(t, ok)
	require.True(t, servers.IsSequence())
	require.Equal(t, 2, servers.Len())
	assert.Equal(t, "/servers/0", servers.Items[0].Ptr)
	assert.Equal(t, "/servers/1", servers.Items[1].Ptr)
}

func TestBuildScalars(t *testing.T) {
	tree, err := Build(map[string]any{
		"str":   "text",
		"flag":  true,
		"count": int64(3),
		"ratio": 2.5,
		"none":  nil,
	})
	require.NoError(t, err)
	root := tree.Root()

	s, ok := root.FieldString("str")
	require.True(t, ok)
	assert.Equal(t, "text", s)

	flag, _ := root.Field("flag")
	b, ok := flag.BoolValue()
	require.True(t, ok)
	assert.True(t, b)

	count, _ := root.Field("count")
	n, isInt, ok := count.NumberValue()
	require.True(t, ok)
	assert.True(t, isInt)
	assert.Equal(t, float64(3), n)

	ratio, _ := root.Field("ratio")
	n, isInt, ok = ratio.NumberValue()
	require.True(t, ok)
	assert.False(t, isInt)
	assert.Equal(t, 2.5, n)

	none, _ := root.Field("none")
	assert.True(t, none.IsNull())
}

func TestBuildRejectsUnsupportedTypes(t *testing.T) {
	_, err := Build(map[string]any{"ch": make(chan int)})
	require.Error(t, err)
}

func TestBuildSortsMapKeys(t *testing.T) {
	tree, err := Build(map[string]any{"b": 1, "a": 2, "c": 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, tree.Root().Keys)
}

func TestTreeAt(t *testing.T) {
	tree, err := Build(map[string]any{
		"paths": map[string]any{
			"/pets/{id}": map[string]any{
				"get": map[string]any{"operationId": "getPet"},
			},
		},
	})
	require.NoError(t, err)

	// Path keys contain '/' and must be escaped in the pointer.
	node, ok := tree.At("/paths/~1pets~1{id}/get/operationId")
	require.True(t, ok)
	v, ok := node.StringValue()
	require.True(t, ok)
	assert.Equal(t, "getPet", v)

	_, ok = tree.At("/paths/missing")
	assert.False(t, ok)
}

func TestNumberValueOnNonScalar(t *testing.T) {
	tree, err := Build(map[string]any{"obj": map[string]any{}})
	require.NoError(t, err)
	obj, _ := tree.Root().Field("obj")
	_, _, ok := obj.NumberValue()
	assert.False(t, ok)
}
