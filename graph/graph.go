// Package graph implements the Graph Execution Engine: a pull-based, tile-
// by-tile scheduler over a user-declared DAG of raster operators. It
// validates the graph, performs dependency-ordered lazy initialization with
// reference-counted node lifecycle, drives a row-major tile loop across the
// set of output products, and disposes resources in reverse-initialization
// order.
package graph

import (
	"fmt"

	"github.com/hollowlab/rasterflow/product"
)

// NodeSource names one of a node's input slots and the upstream node that
// feeds it. ResolvedSourceNode is populated exactly once by the Initializer
// during dependency resolution; before that it is nil.
type NodeSource struct {
	SlotName            string
	SourceNodeID        string
	resolvedSourceNode  *Node
}

// ResolvedSourceNode returns the upstream Node this source resolves to, or
// nil if dependency resolution has not run yet.
func (s *NodeSource) ResolvedSourceNode() *Node {
	return s.resolvedSourceNode
}

// Node is a named instance of an operator within a graph. Nodes are
// immutable during execution.
type Node struct {
	ID            string
	OperatorName  string
	Sources       []NodeSource
	Configuration *product.ParamElement
}

// Graph is the static, post-build declaration of a processing pipeline: a
// set of nodes with unique ids and named source edges between them.
// Acyclicity is assumed of the input and is not checked: the Initializer's
// dependency-resolution pass can only fail with MissingSourceError. Nodes of
// a cycle that feeds no output node are never initialized, since none of
// them has ReferenceCount == 0; a cycle upstream of an output node makes
// the Initializer's recursive Phase 2 recurse without end.
type Graph struct {
	ID      string
	Version string
	nodes   []*Node
	index   map[string]*Node
}

// Builder assembles a Graph incrementally and validates it on Build.
type Builder struct {
	id      string
	version string
	nodes   []*Node
	index   map[string]*Node
	errs    []error
}

// NewBuilder creates a Builder for a graph with the given id and version.
func NewBuilder(id, version string) *Builder {
	return &Builder{
		id:      id,
		version: version,
		index:   make(map[string]*Node),
	}
}

// AddNode registers a node. Returns the Builder for chaining; a duplicate id
// is recorded as a build error and reported at Build().
func (b *Builder) AddNode(n *Node) *Builder {
	if n == nil || n.ID == "" {
		b.errs = append(b.errs, fmt.Errorf("graph: node must have a non-empty id"))
		return b
	}
	if _, exists := b.index[n.ID]; exists {
		b.errs = append(b.errs, fmt.Errorf("graph: duplicate node id %q", n.ID))
		return b
	}
	b.index[n.ID] = n
	b.nodes = append(b.nodes, n)
	return b
}

// Build validates every source references a known node id within the graph
// (structural validity, independent of the Initializer's own dependency
// resolution pass) and returns the immutable Graph.
func (b *Builder) Build() (*Graph, error) {
	if len(b.errs) > 0 {
		msg := "graph build errors:"
		for _, e := range b.errs {
			msg += " " + e.Error() + ";"
		}
		return nil, fmt.Errorf("%s", msg)
	}

	for _, n := range b.nodes {
		for _, src := range n.Sources {
			if _, ok := b.index[src.SourceNodeID]; !ok {
				return nil, fmt.Errorf("graph: node %q declares source %q referencing unknown node %q", n.ID, src.SlotName, src.SourceNodeID)
			}
		}
	}

	return &Graph{
		ID:      b.id,
		Version: b.version,
		nodes:   b.nodes,
		index:   b.index,
	}, nil
}

// Nodes returns the graph's nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	return g.nodes
}

// NodeByID looks up a node by id, returning nil if absent.
func (g *Graph) NodeByID(id string) *Node {
	return g.index[id]
}
