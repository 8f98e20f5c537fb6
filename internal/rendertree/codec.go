package rendertree

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/glassboard-labs/glassboard/pkg/core"
)

// wireNode is the persisted JSON shape of a Node. The kind tag selects which
// payload field is read back.
type wireNode struct {
	Kind     Kind                `json:"kind"`
	Value    any                 `json:"value,omitempty"`
	Children []wireNode          `json:"children,omitempty"`
	Fields   map[string]wireNode `json:"fields,omitempty"`
	Ref      string              `json:"ref,omitempty"`
}

// Marshal encodes a tree for persistence.
func Marshal(n Node) ([]byte, error) {
	return json.Marshal(toWire(n))
}

// Unmarshal decodes a persisted tree. Malformed bytes or unknown kinds are
// reported as core.ErrCorruptState.
func Unmarshal(raw []byte) (Node, error) {
	var w wireNode
	if err := json.Unmarshal(raw, &w); err != nil {
		return Node{}, fmt.Errorf("decode render tree: %w", core.ErrCorruptState)
	}
	n := fromWire(w)
	if err := Validate(n); err != nil {
		return Node{}, err
	}
	return n, nil
}

func toWire(n Node) wireNode {
	w := wireNode{Kind: n.Kind, Value: n.Value, Ref: string(n.Ref)}
	if n.Children != nil {
		w.Children = make([]wireNode, len(n.Children))
		for i, c := range n.Children {
			w.Children[i] = toWire(c)
		}
	}
	if n.Fields != nil {
		w.Fields = make(map[string]wireNode, len(n.Fields))
		for k, c := range n.Fields {
			w.Fields[k] = toWire(c)
		}
	}
	return w
}

func fromWire(w wireNode) Node {
	n := Node{Kind: w.Kind, Value: w.Value, Ref: core.ComponentIndex(w.Ref)}
	if w.Children != nil {
		n.Children = make([]Node, len(w.Children))
		for i, c := range w.Children {
			n.Children[i] = fromWire(c)
		}
	}
	if w.Fields != nil {
		n.Fields = make(map[string]Node, len(w.Fields))
		for k, c := range w.Fields {
			n.Fields[k] = fromWire(c)
		}
	}
	return n
}
