package graph

import (
	"context"
	"time"

	"github.com/hollowlab/rasterflow/observability"
)

// Semantic span/metric names for graph observability, layered on top of the
// generic conventions in package observability.
const (
	spanGraphExecute = "graph.execute"
	spanTile         = "graph.tile"
)

// Observer is the notification surface for graph and tile lifecycle events.
// Observers are registered before execution and are treated as a read-only,
// immutable snapshot once Initialize/Execute begins. Implementations must
// not block indefinitely — they run synchronously on the scheduler's
// goroutine.
type Observer interface {
	GraphProcessingStarted(gc *GraphContext)
	TileProcessingStarted(gc *GraphContext, tile Rectangle)
	TileProcessingStopped(gc *GraphContext, tile Rectangle)
	GraphProcessingStopped(gc *GraphContext)
}

// loggingObserver is the built-in Observer backed by an
// observability.Provider: it turns the four lifecycle events into spans,
// leveled logs, and the rasterflow.graph.tile.* metrics.
type loggingObserver struct {
	provider  observability.Provider
	rootSpan  observability.Span
	tileStart time.Time
	ctx       context.Context
}

// NewLoggingObserver returns an Observer that reports graph and tile
// lifecycle events through provider. A nil provider yields a no-op observer.
func NewLoggingObserver(provider observability.Provider) Observer {
	return &loggingObserver{provider: provider, ctx: context.Background()}
}

func (o *loggingObserver) GraphProcessingStarted(gc *GraphContext) {
	if o.provider == nil {
		return
	}

	ctx, span := o.provider.StartSpan(o.ctx, spanGraphExecute,
		observability.String(observability.AttrGraphID, gc.Graph.ID),
		observability.Int(observability.AttrGraphTotalNodes, len(gc.Graph.Nodes())),
		observability.Int(observability.AttrGraphOutputNodes, len(gc.OutputNodeContexts)),
	)
	o.ctx = ctx
	o.rootSpan = span

	o.provider.Info(o.ctx, "graph execution started",
		observability.String(observability.AttrGraphID, gc.Graph.ID),
		observability.Int(observability.AttrGraphTotalNodes, len(gc.Graph.Nodes())),
	)
}

func (o *loggingObserver) TileProcessingStarted(gc *GraphContext, tile Rectangle) {
	if o.provider == nil {
		return
	}
	o.tileStart = time.Now()
	o.provider.Debug(o.ctx, "tile processing started",
		observability.Int(observability.AttrTileX, tile.MinX),
		observability.Int(observability.AttrTileY, tile.MinY),
	)
}

func (o *loggingObserver) TileProcessingStopped(gc *GraphContext, tile Rectangle) {
	if o.provider == nil {
		return
	}

	duration := time.Since(o.tileStart)
	o.provider.Histogram(observability.MetricTileDuration).Record(o.ctx, duration.Seconds(),
		observability.Int(observability.AttrTileX, tile.MinX),
		observability.Int(observability.AttrTileY, tile.MinY),
	)
	o.provider.Counter(observability.MetricTileCount).Add(o.ctx, 1)

	o.provider.Debug(o.ctx, "tile processing stopped",
		observability.Int(observability.AttrTileX, tile.MinX),
		observability.Int(observability.AttrTileY, tile.MinY),
		observability.Duration(observability.AttrDuration, duration),
	)
}

func (o *loggingObserver) GraphProcessingStopped(gc *GraphContext) {
	if o.provider == nil {
		return
	}

	o.provider.Info(o.ctx, "graph execution stopped",
		observability.String(observability.AttrGraphID, gc.Graph.ID),
	)

	if o.rootSpan != nil {
		o.rootSpan.SetStatus(observability.StatusOK, "graph execution stopped")
		o.rootSpan.End()
	}
}
