package graph

import (
	"github.com/hollowlab/rasterflow/observability"
	"github.com/hollowlab/rasterflow/product"
)

// NodeContext is the runtime record for one node during a single graph
// execution. It is created uninitialized for every node at GraphContext
// construction time, and is mutated only by the Initializer; once
// Initialize returns, it is read-only for the remainder of execution.
type NodeContext struct {
	Node           *Node
	Operator       product.Operator
	TargetProduct  product.Product
	ReferenceCount int

	initialized bool

	// SourceProductsBySlot maps each declared source's slot name to the
	// target product of the upstream node it resolves to. Populated before
	// the operator is constructed.
	SourceProductsBySlot map[string]product.Product
}

// Initialized reports whether this context has completed initialization.
func (nc *NodeContext) Initialized() bool {
	return nc.initialized
}

// newNodeContext creates the zero-value runtime record for a node.
func newNodeContext(n *Node) *NodeContext {
	return &NodeContext{
		Node:                 n,
		SourceProductsBySlot: make(map[string]product.Product),
	}
}

// GraphContext is the collection of NodeContexts produced by the
// Initializer: a lookup by node id, the disposal stack in completed-init
// order (front-insert, front-to-back pop for LIFO disposal), the list of
// output node contexts, the registered observers, and the logger used to
// report disposal failures.
type GraphContext struct {
	Graph *Graph

	nodeContextsByID map[string]*NodeContext

	// initOrder records contexts in the order they completed
	// initialization, most-recent first — Dispose pops front-to-back,
	// which disposes dependents before the dependencies they hold a
	// reference to.
	initOrder []*NodeContext

	// dependenciesResolved guards Phase 1 (resolveDependencies) so a second
	// Initialize call on the same GraphContext is a no-op rather than
	// double-counting every node's ReferenceCount.
	dependenciesResolved bool

	OutputNodeContexts []*NodeContext

	observers []Observer
	logger    observability.Provider
}

// newGraphContext allocates a GraphContext with one uninitialized
// NodeContext per node in g.
func newGraphContext(g *Graph, logger observability.Provider, observers []Observer) *GraphContext {
	gc := &GraphContext{
		Graph:            g,
		nodeContextsByID: make(map[string]*NodeContext, len(g.Nodes())),
		observers:        append([]Observer{}, observers...),
		logger:           logger,
	}
	for _, n := range g.Nodes() {
		gc.nodeContextsByID[n.ID] = newNodeContext(n)
	}
	return gc
}

// NodeContext returns the runtime record for the node with the given id, or
// nil if no such node exists in the graph.
func (gc *GraphContext) NodeContext(nodeID string) *NodeContext {
	return gc.nodeContextsByID[nodeID]
}

// pushInitOrder records ctx as having just completed initialization,
// front-inserting so Dispose can pop front-to-back for LIFO ordering.
func (gc *GraphContext) pushInitOrder(ctx *NodeContext) {
	gc.initOrder = append([]*NodeContext{ctx}, gc.initOrder...)
}
