// Package graphdoc decodes a serialized graph document into the in-memory
// graph.Graph/graph.Node/graph.NodeSource shape using a JSON concrete
// syntax: nodes, their source wiring, and a nested configuration tree.
package graphdoc

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hollowlab/rasterflow/graph"
	"github.com/hollowlab/rasterflow/product"
)

// paramElementDoc mirrors product.ParamElement's JSON shape exactly, used
// only as the decode target before conversion — product.ParamElement itself
// already carries the matching json tags, but decoding through a local type
// keeps this package's wire format independent of product's Go shape should
// the two ever need to diverge.
type paramElementDoc struct {
	Name     string             `json:"name"`
	Value    string             `json:"value,omitempty"`
	Children []*paramElementDoc `json:"children,omitempty"`
}

func (d *paramElementDoc) toParamElement() *product.ParamElement {
	if d == nil {
		return nil
	}
	el := &product.ParamElement{Name: d.Name, Value: d.Value}
	for _, c := range d.Children {
		el.Children = append(el.Children, c.toParamElement())
	}
	return el
}

type nodeSourceDoc struct {
	Slot string `json:"slot"`
	Node string `json:"node"`
}

type nodeDoc struct {
	ID            string           `json:"id"`
	Operator      string           `json:"operator"`
	Sources       []nodeSourceDoc  `json:"sources,omitempty"`
	Configuration *paramElementDoc `json:"configuration,omitempty"`
}

type documentDoc struct {
	ID      string    `json:"id"`
	Version string    `json:"version"`
	Nodes   []nodeDoc `json:"nodes"`
}

// Decode parses a JSON graph document from r and builds the corresponding
// graph.Graph, running the same structural validation graph.Builder.Build
// performs (every declared source must reference a known node id within the
// document).
func Decode(r io.Reader) (*graph.Graph, error) {
	var doc documentDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("graphdoc: decode: %w", err)
	}
	return build(doc)
}

// DecodeBytes is a convenience wrapper around Decode for callers already
// holding the document in memory.
func DecodeBytes(data []byte) (*graph.Graph, error) {
	var doc documentDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("graphdoc: decode: %w", err)
	}
	return build(doc)
}

func build(doc documentDoc) (*graph.Graph, error) {
	if doc.ID == "" {
		return nil, fmt.Errorf("graphdoc: document is missing an id")
	}

	b := graph.NewBuilder(doc.ID, doc.Version)
	for _, nd := range doc.Nodes {
		if nd.ID == "" {
			return nil, fmt.Errorf("graphdoc: node with empty id in document %q", doc.ID)
		}
		if nd.Operator == "" {
			return nil, fmt.Errorf("graphdoc: node %q is missing an operator name", nd.ID)
		}

		n := &graph.Node{
			ID:            nd.ID,
			OperatorName:  nd.Operator,
			Configuration: nd.Configuration.toParamElement(),
		}
		for _, s := range nd.Sources {
			if s.Slot == "" || s.Node == "" {
				return nil, fmt.Errorf("graphdoc: node %q has a source with an empty slot or node reference", nd.ID)
			}
			n.Sources = append(n.Sources, graph.NodeSource{SlotName: s.Slot, SourceNodeID: s.Node})
		}
		b.AddNode(n)
	}

	return b.Build()
}
