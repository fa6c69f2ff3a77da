package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeKeepsInsertionOrderOnOverwrite(t *testing.T) {
	tree := NewTree()
	assert.False(t, tree.SetToken("b", Token{Value: StringValue("1"), Type: TypeOther}))
	assert.False(t, tree.SetToken("a", Token{Value: StringValue("2"), Type: TypeOther}))
	assert.True(t, tree.SetToken("b", Token{Value: StringValue("3"), Type: TypeOther}))

	assert.Equal(t, []string{"b", "a"}, tree.Keys())
	assert.JSONEq(t, `{"b":{"value":"3","type":"other"},"a":{"value":"2","type":"other"}}`, mustJSON(t, tree))
	assert.Equal(t, `{"b":{"value":"3","type":"other"},"a":{"value":"2","type":"other"}}`, mustJSON(t, tree))
}

func TestEntryIsExactlyOneVariant(t *testing.T) {
	leaf := Leaf(Token{Value: StringValue("x"), Type: TypeOther})
	assert.True(t, leaf.IsLeaf())
	_, ok := leaf.Tree()
	assert.False(t, ok)

	node := Node(NewTree())
	assert.False(t, node.IsLeaf())
	_, ok = node.Token()
	assert.False(t, ok)
}

func TestTreeWalkPaths(t *testing.T) {
	modes := NewTree()
	modes.SetToken("light", Token{Value: StringValue("#fff"), Type: TypeColor})
	modes.SetToken("dark", Token{Value: StringValue("#000"), Type: TypeColor})
	theme := NewTree()
	theme.SetTree("bg", modes)
	root := NewTree()
	root.SetTree("variables", NewTree())
	variables, _ := root.Get("variables")
	vt, _ := variables.Tree()
	vt.SetTree("Theme", theme)

	var paths [][]string
	root.Walk(func(path []string, _ Token) {
		paths = append(paths, path)
	})
	require.Len(t, paths, 2)
	assert.Equal(t, []string{"variables", "Theme", "bg", "light"}, paths[0])
	assert.Equal(t, []string{"variables", "Theme", "bg", "dark"}, paths[1])
}

func TestZeroTree(t *testing.T) {
	var tree Tree
	assert.Equal(t, 0, tree.Len())
	assert.Empty(t, tree.Keys())
	assert.NotNil(t, tree.Keys())
	tree.SetToken("k", Token{Value: BoolValue(true), Type: TypeOther})
	assert.Equal(t, 1, tree.Len())
}
