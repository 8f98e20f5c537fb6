package rendertree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glassboard-labs/glassboard/pkg/core"
)

// deepTree builds a tree with references to idx nested under every variant.
func deepTree(idx core.ComponentIndex) Node {
	return Fields(map[string]Node{
		"header": Leaf("Revenue"),
		"body": Group(
			Ref(idx),
			Fields(map[string]Node{
				"tooltip": Group(Leaf(1), Ref(idx)),
				"legend":  Leaf(true),
			}),
		),
		"footer": Ref(idx),
	})
}

func TestClone_RemapsEveryRef(t *testing.T) {
	old := core.ComponentIndex("idx-old")
	repl := core.ComponentIndex("idx-new")

	tree := deepTree(old)
	require.Equal(t, 3, CountRefs(tree, old))

	clone := Clone(tree, old, repl)

	assert.Equal(t, 0, CountRefs(clone, old), "no reference to the original may survive")
	assert.Equal(t, 3, CountRefs(clone, repl), "every reference must point at the duplicate")

	// The source is untouched.
	assert.Equal(t, 3, CountRefs(tree, old))
	assert.Equal(t, 0, CountRefs(tree, repl))
}

func TestClone_LeavesForeignRefsAlone(t *testing.T) {
	tree := Group(Ref("idx-a"), Ref("idx-b"))
	clone := Clone(tree, "idx-a", "idx-c")

	assert.Equal(t, 1, CountRefs(clone, "idx-c"))
	assert.Equal(t, 1, CountRefs(clone, "idx-b"))
	assert.Equal(t, 0, CountRefs(clone, "idx-a"))
}

func TestClone_StructuralIndependence(t *testing.T) {
	tree := Fields(map[string]Node{
		"items": Group(Leaf("x")),
	})

	clone := Clone(tree, "a", "b")

	// Mutating the clone's containers must not reach the source.
	clone.Fields["items"].Children[0] = Leaf("changed")
	clone.Fields["extra"] = Leaf(42)

	assert.Equal(t, "x", tree.Fields["items"].Children[0].Value)
	_, ok := tree.Fields["extra"]
	assert.False(t, ok)
}

func TestClone_UnknownKind(t *testing.T) {
	clone := Clone(Node{Kind: Kind("mystery"), Value: "x"}, "a", "b")
	assert.Equal(t, KindLeaf, clone.Kind)
	assert.Nil(t, clone.Value)
}

func TestWalk_StopsOnError(t *testing.T) {
	tree := Group(Leaf(1), Leaf(2), Leaf(3))

	visited := 0
	err := Walk(tree, func(n Node) error {
		visited++
		if visited == 2 {
			return assert.AnError
		}
		return nil
	})

	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 2, visited)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(deepTree("idx")))

	bad := Group(Leaf(1), Node{Kind: Kind("bogus")})
	assert.ErrorIs(t, Validate(bad), core.ErrCorruptState)
}
