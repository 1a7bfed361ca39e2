package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/hollowlab/rasterflow/operator"
	"github.com/hollowlab/rasterflow/param"
	"github.com/hollowlab/rasterflow/product"
	"github.com/hollowlab/rasterflow/tilesource"
)

// recordingOperator is a minimal product.Operator fixture that records every
// source it was wired to and counts how many times it was constructed.
type recordingOperator struct {
	name         string
	sources      map[string]product.Product
	buildCount   *int
	failInit     bool
	convertErr   error
}

func newRecordingProduct(w, h int) product.Product {
	fill := func(ctx context.Context, tileX, tileY, tw, th int) ([]float64, error) {
		return make([]float64, tw*th), nil
	}
	band := tilesource.NewInMemoryBand(tilesource.DefaultTileWidth, tilesource.DefaultTileHeight, fill)
	return &tilesource.InMemoryProduct{Width: w, Height: h, BandList: []*tilesource.InMemoryBand{band}}
}

func (r *recordingOperator) SetSourceProduct(slotName string, p product.Product) error {
	r.sources[slotName] = p
	return nil
}

func (r *recordingOperator) GetTargetProduct(ctx context.Context) (product.Product, error) {
	if r.failInit {
		return nil, errors.New("boom")
	}
	if r.buildCount != nil {
		*r.buildCount++
	}
	return newRecordingProduct(64, 64), nil
}

func (r *recordingOperator) Dispose(ctx context.Context) error { return nil }

func (r *recordingOperator) ConvertParameters(cfg *product.ParamElement) error {
	return r.convertErr
}

func buildGraph(t *testing.T, nodes ...*Node) *Graph {
	t.Helper()
	b := NewBuilder("test-graph", "v1")
	for _, n := range nodes {
		b.AddNode(n)
	}
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return g
}

func TestInitialize_EmptyGraph(t *testing.T) {
	g := &Graph{ID: "empty", Version: "v1"}
	gc := newGraphContext(g, nil, nil)

	err := gc.Initialize(context.Background(), operator.NewRegistry(), param.NewInjector())
	var want *EmptyGraphError
	if !errors.As(err, &want) {
		t.Fatalf("Initialize() error = %v, want *EmptyGraphError", err)
	}
}

func TestInitialize_MissingSource(t *testing.T) {
	// Constructed by hand rather than through Builder.Build, which already
	// rejects this shape at build time: this test exercises the
	// Initializer's own, independent MissingSourceError path.
	a := &Node{ID: "a", OperatorName: "rec"}
	a.Sources = []NodeSource{{SlotName: "in", SourceNodeID: "ghost"}}
	g := &Graph{ID: "broken", Version: "v1", nodes: []*Node{a}, index: map[string]*Node{"a": a}}

	gc := newGraphContext(g, nil, nil)
	registry := operator.NewRegistryWith(map[string]operator.Constructor{
		"rec": func() product.Operator { return &recordingOperator{sources: map[string]product.Product{}} },
	})

	err := gc.Initialize(context.Background(), registry, param.NewInjector())
	var want *MissingSourceError
	if !errors.As(err, &want) {
		t.Fatalf("Initialize() error = %v, want *MissingSourceError", err)
	}
}

func TestInitialize_SimpleChain(t *testing.T) {
	source := &Node{ID: "source", OperatorName: "rec"}
	dependent := &Node{ID: "dependent", OperatorName: "rec"}
	dependent.Sources = []NodeSource{{SlotName: "in", SourceNodeID: "source"}}

	g := buildGraph(t, source, dependent)
	gc := newGraphContext(g, nil, nil)

	registry := operator.NewRegistryWith(map[string]operator.Constructor{
		"rec": func() product.Operator { return &recordingOperator{sources: map[string]product.Product{}} },
	})

	if err := gc.Initialize(context.Background(), registry, param.NewInjector()); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}

	if len(gc.OutputNodeContexts) != 1 || gc.OutputNodeContexts[0].Node.ID != "dependent" {
		t.Fatalf("expected a single output node 'dependent', got %+v", gc.OutputNodeContexts)
	}

	sourceCtx := gc.NodeContext("source")
	if sourceCtx.ReferenceCount != 1 {
		t.Errorf("source ReferenceCount = %d, want 1", sourceCtx.ReferenceCount)
	}

	depCtx := gc.NodeContext("dependent")
	depOp := depCtx.Operator.(*recordingOperator)
	if depOp.sources["in"] != sourceCtx.TargetProduct {
		t.Error("dependent operator was not wired to source's target product")
	}
}

func TestInitialize_SharedUpstreamBuildsOnce(t *testing.T) {
	shared := &Node{ID: "shared", OperatorName: "rec"}
	left := &Node{ID: "left", OperatorName: "rec"}
	left.Sources = []NodeSource{{SlotName: "in", SourceNodeID: "shared"}}
	right := &Node{ID: "right", OperatorName: "rec"}
	right.Sources = []NodeSource{{SlotName: "in", SourceNodeID: "shared"}}

	g := buildGraph(t, shared, left, right)
	gc := newGraphContext(g, nil, nil)

	buildCount := 0
	registry := operator.NewRegistryWith(map[string]operator.Constructor{
		"rec": func() product.Operator {
			return &recordingOperator{sources: map[string]product.Product{}, buildCount: &buildCount}
		},
	})

	if err := gc.Initialize(context.Background(), registry, param.NewInjector()); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}

	if buildCount != 3 {
		t.Fatalf("expected GetTargetProduct called once per node (3 total), got %d", buildCount)
	}
	if len(gc.OutputNodeContexts) != 2 {
		t.Fatalf("expected 2 output nodes, got %d", len(gc.OutputNodeContexts))
	}
}

func TestInitialize_DiamondGraph(t *testing.T) {
	read := &Node{ID: "read", OperatorName: "rec"}
	a := &Node{ID: "a", OperatorName: "rec"}
	a.Sources = []NodeSource{{SlotName: "in", SourceNodeID: "read"}}
	b := &Node{ID: "b", OperatorName: "rec"}
	b.Sources = []NodeSource{{SlotName: "in", SourceNodeID: "read"}}
	merge := &Node{ID: "merge", OperatorName: "rec"}
	merge.Sources = []NodeSource{
		{SlotName: "a", SourceNodeID: "a"},
		{SlotName: "b", SourceNodeID: "b"},
	}

	g := buildGraph(t, read, a, b, merge)
	gc := newGraphContext(g, nil, nil)

	buildCount := 0
	registry := operator.NewRegistryWith(map[string]operator.Constructor{
		"rec": func() product.Operator {
			return &recordingOperator{sources: map[string]product.Product{}, buildCount: &buildCount}
		},
	})

	if err := gc.Initialize(context.Background(), registry, param.NewInjector()); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}

	if buildCount != 4 {
		t.Fatalf("expected GetTargetProduct called once per node (4 total), got %d", buildCount)
	}
	if len(gc.OutputNodeContexts) != 1 || gc.OutputNodeContexts[0].Node.ID != "merge" {
		t.Fatalf("expected a single output node 'merge', got %+v", gc.OutputNodeContexts)
	}

	readCtx := gc.NodeContext("read")
	if readCtx.ReferenceCount != 2 {
		t.Errorf("read ReferenceCount = %d, want 2 (referenced by both a and b)", readCtx.ReferenceCount)
	}

	mergeOp := gc.NodeContext("merge").Operator.(*recordingOperator)
	if mergeOp.sources["a"] != gc.NodeContext("a").TargetProduct {
		t.Error("merge was not wired to a's target product")
	}
	if mergeOp.sources["b"] != gc.NodeContext("b").TargetProduct {
		t.Error("merge was not wired to b's target product")
	}
}

func TestInitialize_IdempotentOnSecondCall(t *testing.T) {
	source := &Node{ID: "source", OperatorName: "rec"}
	dependent := &Node{ID: "dependent", OperatorName: "rec"}
	dependent.Sources = []NodeSource{{SlotName: "in", SourceNodeID: "source"}}

	g := buildGraph(t, source, dependent)
	gc := newGraphContext(g, nil, nil)

	buildCount := 0
	registry := operator.NewRegistryWith(map[string]operator.Constructor{
		"rec": func() product.Operator {
			return &recordingOperator{sources: map[string]product.Product{}, buildCount: &buildCount}
		},
	})

	if err := gc.Initialize(context.Background(), registry, param.NewInjector()); err != nil {
		t.Fatalf("first Initialize returned error: %v", err)
	}

	firstSourceRefCount := gc.NodeContext("source").ReferenceCount
	firstOutputs := append([]*NodeContext{}, gc.OutputNodeContexts...)
	firstBuildCount := buildCount

	if err := gc.Initialize(context.Background(), registry, param.NewInjector()); err != nil {
		t.Fatalf("second Initialize returned error: %v", err)
	}

	if gc.NodeContext("source").ReferenceCount != firstSourceRefCount {
		t.Errorf("ReferenceCount changed across a second Initialize call: %d -> %d", firstSourceRefCount, gc.NodeContext("source").ReferenceCount)
	}
	if buildCount != firstBuildCount {
		t.Errorf("GetTargetProduct was called again on a second Initialize call: %d -> %d", firstBuildCount, buildCount)
	}
	if len(gc.OutputNodeContexts) != len(firstOutputs) || gc.OutputNodeContexts[0] != firstOutputs[0] {
		t.Errorf("OutputNodeContexts changed across a second Initialize call: %+v -> %+v", firstOutputs, gc.OutputNodeContexts)
	}
}

func TestInitialize_OperatorInitializationFailure(t *testing.T) {
	failing := &Node{ID: "failing", OperatorName: "rec"}
	g := buildGraph(t, failing)
	gc := newGraphContext(g, nil, nil)

	registry := operator.NewRegistryWith(map[string]operator.Constructor{
		"rec": func() product.Operator {
			return &recordingOperator{sources: map[string]product.Product{}, failInit: true}
		},
	})

	err := gc.Initialize(context.Background(), registry, param.NewInjector())
	var want *OperatorInitializationFailedError
	if !errors.As(err, &want) {
		t.Fatalf("Initialize() error = %v, want *OperatorInitializationFailedError", err)
	}
}

func TestInitialize_ParameterInjectionFailure(t *testing.T) {
	n := &Node{ID: "n", OperatorName: "rec", Configuration: &product.ParamElement{Name: "configuration"}}
	g := buildGraph(t, n)
	gc := newGraphContext(g, nil, nil)

	registry := operator.NewRegistryWith(map[string]operator.Constructor{
		"rec": func() product.Operator {
			return &recordingOperator{sources: map[string]product.Product{}, convertErr: errors.New("bad config")}
		},
	})

	err := gc.Initialize(context.Background(), registry, param.NewInjector())
	var want *ParameterInjectionFailedError
	if !errors.As(err, &want) {
		t.Fatalf("Initialize() error = %v, want *ParameterInjectionFailedError", err)
	}
}
