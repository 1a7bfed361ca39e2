package graph

import (
	"context"

	"github.com/hollowlab/rasterflow/product"
	"github.com/hollowlab/rasterflow/progress"
	"github.com/hollowlab/rasterflow/report"
	"github.com/hollowlab/rasterflow/tilesource"
)

// Scheduler drives the row-major tile loop across a GraphContext's output
// products, pulling each output band tile by tile and letting that demand
// propagate upstream through the initialized operator graph.
type Scheduler struct {
	tileWidth, tileHeight int
}

// NewScheduler returns a Scheduler using the given tile dimensions. A
// non-positive width or height falls back to tilesource.DefaultTileSize.
func NewScheduler(tileWidth, tileHeight int) *Scheduler {
	if tileWidth <= 0 || tileHeight <= 0 {
		tileWidth, tileHeight = tilesource.DefaultTileSize()
	}
	return &Scheduler{tileWidth: tileWidth, tileHeight: tileHeight}
}

// Execute implements the Tile Scheduler: it computes the union bounds of
// gc's output products, iterates the resulting tile grid row-major
// (tileY outer, tileX inner), and for each tile pulls the intersecting
// output products' bands, honoring cancellation from both ctx and
// progressSink. GraphProcessingStarted fires once before the loop;
// GraphProcessingStopped fires once after, even on cancellation, via defer.
func (s *Scheduler) Execute(ctx context.Context, gc *GraphContext, progressSink progress.Sink) error {
	var union Rectangle
	for _, nc := range gc.OutputNodeContexts {
		union = union.Union(boundsOf(nc.TargetProduct))
	}

	numXTiles := ceilDiv(union.Width(), s.tileWidth)
	numYTiles := ceilDiv(union.Height(), s.tileHeight)

	progressSink.BeginTask("tile scheduling", numXTiles*numYTiles)

	for _, obs := range gc.observers {
		obs.GraphProcessingStarted(gc)
	}
	defer func() {
		for _, obs := range gc.observers {
			obs.GraphProcessingStopped(gc)
		}
		progressSink.Done()
	}()

	for tileY := 0; tileY < numYTiles; tileY++ {
		for tileX := 0; tileX < numXTiles; tileX++ {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			if progressSink.IsCanceled() {
				return nil
			}

			rect := Rectangle{
				MinX: tileX * s.tileWidth,
				MinY: tileY * s.tileHeight,
				MaxX: tileX*s.tileWidth + s.tileWidth,
				MaxY: tileY*s.tileHeight + s.tileHeight,
			}

			for _, obs := range gc.observers {
				obs.TileProcessingStarted(gc, rect)
			}

			if err := s.processTile(ctx, gc, tileX, tileY, rect); err != nil {
				return err
			}

			for _, obs := range gc.observers {
				obs.TileProcessingStopped(gc, rect)
			}
			progressSink.Worked(1)
		}
	}

	return nil
}

// processTile drives the output node contexts whose target product
// intersects rect, in registration order.
func (s *Scheduler) processTile(ctx context.Context, gc *GraphContext, tileX, tileY int, rect Rectangle) error {
	rpt := report.FromContext(&ctx)

	for _, nc := range gc.OutputNodeContexts {
		if !boundsOf(nc.TargetProduct).Intersects(rect) {
			continue
		}

		bands := nc.TargetProduct.Bands()
		if len(bands) == 0 {
			continue
		}

		computeAll := false
		if cab, ok := nc.Operator.(product.ComputeAllBandsOperator); ok {
			computeAll = cab.ComputesAllBandsTogether()
		}

		if computeAll {
			rpt.RecordTileRequest(nc.Node.ID)
			if _, err := bands[0].Tile(ctx, tileX, tileY); err != nil {
				return &TileComputationFailedError{NodeID: nc.Node.ID, TileX: tileX, TileY: tileY, Cause: err}
			}
			rpt.RecordTileComplete()
			continue
		}

		for _, band := range bands {
			rpt.RecordTileRequest(nc.Node.ID)
			if _, err := band.Tile(ctx, tileX, tileY); err != nil {
				return &TileComputationFailedError{NodeID: nc.Node.ID, TileX: tileX, TileY: tileY, Cause: err}
			}
			rpt.RecordTileComplete()
		}
	}
	return nil
}

// ceilDiv computes ceil(a/b) for non-negative a and positive b.
func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
