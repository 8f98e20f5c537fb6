// Package rendertree models a component's render tree as a tagged variant
// so that cloning and identifier remapping are structurally exhaustive.
//
// A node is exactly one of:
//
//	Leaf   - a scalar value
//	Group  - an ordered list of children
//	Fields - a string-keyed map of children
//	Ref    - a reference to a component index
//
// References embedded at any depth are typed values, never strings, so a
// remap is a recursive walk over the variant rather than string surgery.
package rendertree

import (
	"fmt"

	"github.com/glassboard-labs/glassboard/pkg/core"
)

// Kind tags the variant of a Node.
type Kind string

// Node kinds.
const (
	KindLeaf   Kind = "leaf"
	KindGroup  Kind = "group"
	KindFields Kind = "fields"
	KindRef    Kind = "ref"
)

// Node is one render tree node. Exactly one of the payload fields is
// meaningful, selected by Kind.
type Node struct {
	Kind     Kind
	Value    any
	Children []Node
	Fields   map[string]Node
	Ref      core.ComponentIndex
}

// Leaf constructs a scalar node.
func Leaf(v any) Node {
	return Node{Kind: KindLeaf, Value: v}
}

// Group constructs an ordered container node.
func Group(children ...Node) Node {
	return Node{Kind: KindGroup, Children: children}
}

// Fields constructs a keyed container node.
func Fields(fields map[string]Node) Node {
	return Node{Kind: KindFields, Fields: fields}
}

// Ref constructs a component reference node.
func Ref(idx core.ComponentIndex) Node {
	return Node{Kind: KindRef, Ref: idx}
}

// Clone returns a structurally independent copy of the tree in which every
// reference to old is replaced by new. No sub-object is shared with the
// source, so mutating the clone never touches the original. Missing even one
// embedded reference would make the duplicate's controls act on the
// original, so the walk is exhaustive over the variant.
func Clone(n Node, old, new core.ComponentIndex) Node {
	switch n.Kind {
	case KindLeaf:
		return Node{Kind: KindLeaf, Value: n.Value}
	case KindGroup:
		out := Node{Kind: KindGroup}
		if n.Children != nil {
			out.Children = make([]Node, len(n.Children))
			for i, c := range n.Children {
				out.Children[i] = Clone(c, old, new)
			}
		}
		return out
	case KindFields:
		out := Node{Kind: KindFields}
		if n.Fields != nil {
			out.Fields = make(map[string]Node, len(n.Fields))
			for k, c := range n.Fields {
				out.Fields[k] = Clone(c, old, new)
			}
		}
		return out
	case KindRef:
		ref := n.Ref
		if ref == old {
			ref = new
		}
		return Node{Kind: KindRef, Ref: ref}
	default:
		// Unknown kinds cannot be constructed through this package; treat
		// as an empty leaf rather than panicking on corrupt input.
		return Node{Kind: KindLeaf}
	}
}

// CountRefs returns the number of references to idx anywhere in the tree.
func CountRefs(n Node, idx core.ComponentIndex) int {
	switch n.Kind {
	case KindRef:
		if n.Ref == idx {
			return 1
		}
		return 0
	case KindGroup:
		total := 0
		for _, c := range n.Children {
			total += CountRefs(c, idx)
		}
		return total
	case KindFields:
		total := 0
		for _, c := range n.Fields {
			total += CountRefs(c, idx)
		}
		return total
	default:
		return 0
	}
}

// Walk visits every node depth-first. The visit function returning an error
// stops the walk.
func Walk(n Node, visit func(Node) error) error {
	if err := visit(n); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := Walk(c, visit); err != nil {
			return err
		}
	}
	for _, c := range n.Fields {
		if err := Walk(c, visit); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks that every node carries a known kind.
func Validate(n Node) error {
	return Walk(n, func(node Node) error {
		switch node.Kind {
		case KindLeaf, KindGroup, KindFields, KindRef:
			return nil
		default:
			return fmt.Errorf("render tree node kind %q: %w", node.Kind, core.ErrCorruptState)
		}
	})
}
