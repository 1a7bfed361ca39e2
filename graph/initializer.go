package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/hollowlab/rasterflow/operator"
	"github.com/hollowlab/rasterflow/param"
	"github.com/hollowlab/rasterflow/report"
)

// Initialize runs both initializer phases against gc's graph: Phase 1
// resolves every declared source to its upstream node and computes each
// node's ReferenceCount; Phase 2 recursively constructs operators for every
// node transitively reachable from an output node (ReferenceCount == 0),
// wiring source products in dependency order.
//
// On success every context initialized during this call has been pushed
// onto the front of gc's disposal stack, and gc.OutputNodeContexts lists every output
// node's context. On failure, initialization stops immediately; any
// contexts that completed before the failure remain on the disposal stack
// so the caller's Dispose call still releases them.
func (gc *GraphContext) Initialize(ctx context.Context, registry *operator.Registry, injector *param.Injector) error {
	if len(gc.Graph.Nodes()) == 0 {
		return &EmptyGraphError{}
	}

	if err := gc.resolveDependencies(); err != nil {
		return err
	}

	for _, n := range gc.Graph.Nodes() {
		nc := gc.nodeContextsByID[n.ID]
		if nc.ReferenceCount == 0 {
			if err := gc.initNodeContext(ctx, nc, registry, injector); err != nil {
				return err
			}
		}
	}

	gc.OutputNodeContexts = gc.OutputNodeContexts[:0]
	for _, n := range gc.Graph.Nodes() {
		nc := gc.nodeContextsByID[n.ID]
		if nc.ReferenceCount == 0 {
			gc.OutputNodeContexts = append(gc.OutputNodeContexts, nc)
		}
	}

	return nil
}

// resolveDependencies is Phase 1: for every node's every source, resolve
// the referenced upstream node and bump its ReferenceCount. Fails fast with
// MissingSourceError on the first unresolvable source id. It runs at most
// once per GraphContext: a later call is a no-op, so a second Initialize
// call does not double-count ReferenceCount.
func (gc *GraphContext) resolveDependencies() error {
	if gc.dependenciesResolved {
		return nil
	}

	for i, n := range gc.Graph.Nodes() {
		for j := range n.Sources {
			src := &gc.Graph.Nodes()[i].Sources[j]

			upstream := gc.Graph.NodeByID(src.SourceNodeID)
			if upstream == nil {
				return &MissingSourceError{NodeID: n.ID, SourceID: src.SourceNodeID}
			}

			src.resolvedSourceNode = upstream
			gc.nodeContextsByID[upstream.ID].ReferenceCount++
		}
	}
	gc.dependenciesResolved = true
	return nil
}

// initNodeContext is Phase 2's recursive step. It is idempotent: a context
// that has already completed initialization returns immediately, which is
// what makes shared upstream nodes (referenced by more than one downstream
// node) get constructed exactly once.
func (gc *GraphContext) initNodeContext(ctx context.Context, nc *NodeContext, registry *operator.Registry, injector *param.Injector) error {
	if nc.initialized {
		return nil
	}

	for _, src := range nc.Node.Sources {
		upstream := gc.nodeContextsByID[src.resolvedSourceNode.ID]
		if err := gc.initNodeContext(ctx, upstream, registry, injector); err != nil {
			return err
		}
		nc.SourceProductsBySlot[src.SlotName] = upstream.TargetProduct
	}

	if err := gc.constructOperator(ctx, nc, registry, injector); err != nil {
		return &OperatorInitializationFailedError{NodeID: nc.Node.ID, Cause: err}
	}

	nc.initialized = true
	gc.pushInitOrder(nc)

	return nil
}

// constructOperator is the Operator Context Initialization collaborator: it
// instantiates the operator from the registry, wires every source product,
// applies the node's configuration via the parameter injector, and resolves
// the target product. It lives here rather than in package product because
// it operates directly on a *NodeContext, and NodeContext's engine-internal
// fields (ReferenceCount, initialized) must stay owned by package graph to
// avoid a product → graph import cycle.
func (gc *GraphContext) constructOperator(ctx context.Context, nc *NodeContext, registry *operator.Registry, injector *param.Injector) error {
	start := time.Now()
	defer func() {
		report.FromContext(&ctx).RecordInit(nc.Node.ID, nc.Node.OperatorName, time.Since(start))
	}()

	op, err := registry.New(nc.Node.OperatorName)
	if err != nil {
		return err
	}

	for slot, src := range nc.SourceProductsBySlot {
		if err := op.SetSourceProduct(slot, src); err != nil {
			return fmt.Errorf("set source product %q: %w", slot, err)
		}
	}

	if err := injector.Inject(op, nc.Node.Configuration); err != nil {
		return &ParameterInjectionFailedError{NodeID: nc.Node.ID, Cause: err}
	}

	target, err := op.GetTargetProduct(ctx)
	if err != nil {
		return fmt.Errorf("get target product: %w", err)
	}

	nc.Operator = op
	nc.TargetProduct = target

	return nil
}
