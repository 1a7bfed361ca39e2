package builtin

import (
	"context"
	"fmt"

	"github.com/hollowlab/rasterflow/internal/jsonschema"
	"github.com/hollowlab/rasterflow/product"
	"github.com/hollowlab/rasterflow/tilesource"
)

// BandStackParams configures a BandStack operator.
type BandStackParams struct {
	// BandCount is the number of output bands to publish. Must be at least 1.
	BandCount int `json:"bandCount" jsonschema:"description=Number of output bands,required"`
}

// BandStack replicates its single source's band zero into BandCount output
// bands. BandStack implements product.ComputeAllBandsOperator, so the
// scheduler requests band zero only. Each output band has its own fill
// function that pulls the source tile separately, and InMemoryBand caches
// nothing, so a request to band zero computes band zero alone; the other
// bands' tiles are computed only when they are requested themselves.
type BandStack struct {
	params BandStackParams
	source product.Product
}

// NewBandStack returns a ready-to-register BandStack operator.
func NewBandStack() product.Operator {
	return &BandStack{}
}

// SetSourceProduct satisfies product.Operator.
func (b *BandStack) SetSourceProduct(slotName string, src product.Product) error {
	if slotName != sourceSlotName {
		return fmt.Errorf("builtin.BandStack: unexpected source slot %q, want %q", slotName, sourceSlotName)
	}
	b.source = src
	return nil
}

// GetTargetProduct satisfies product.Operator.
func (b *BandStack) GetTargetProduct(ctx context.Context) (product.Product, error) {
	if b.source == nil {
		return nil, fmt.Errorf("builtin.BandStack: source %q was never set", sourceSlotName)
	}
	if b.params.BandCount < 1 {
		return nil, fmt.Errorf("builtin.BandStack: bandCount must be at least 1, got %d", b.params.BandCount)
	}

	sourceBands := b.source.Bands()
	if len(sourceBands) == 0 {
		return nil, fmt.Errorf("builtin.BandStack: source has no bands")
	}
	sourceBand := sourceBands[0]

	tileWidth, tileHeight := tilesource.DefaultTileSize()

	bandList := make([]*tilesource.InMemoryBand, b.params.BandCount)
	for i := range bandList {
		fill := func(ctx context.Context, tileX, tileY, tw, th int) ([]float64, error) {
			raster, err := sourceBand.Tile(ctx, tileX, tileY)
			if err != nil {
				return nil, fmt.Errorf("bandstack: source tile: %w", err)
			}
			tr, ok := raster.(tilesource.Raster)
			if !ok {
				return nil, fmt.Errorf("bandstack: source produced an unrecognized raster type %T", raster)
			}
			samples := make([]float64, len(tr.Samples))
			copy(samples, tr.Samples)
			return samples, nil
		}
		bandList[i] = tilesource.NewInMemoryBand(tileWidth, tileHeight, fill)
	}

	return &tilesource.InMemoryProduct{
		Width:    b.source.SceneWidth(),
		Height:   b.source.SceneHeight(),
		BandList: bandList,
	}, nil
}

// ComputesAllBandsTogether satisfies product.ComputeAllBandsOperator and
// reports true: every band holds the same samples as the source's band zero.
// A request to band zero does not compute or store the other bands' tiles.
func (b *BandStack) ComputesAllBandsTogether() bool {
	return true
}

// Dispose satisfies product.Operator. BandStack holds no resources of its
// own; the source product's lifecycle is owned by its own node.
func (b *BandStack) Dispose(ctx context.Context) error {
	return nil
}

// ParameterSchema satisfies product.ParameterizedOperator.
func (b *BandStack) ParameterSchema() *jsonschema.Schema {
	return product.ParamSchema[BandStackParams]()
}

// ConvertParameters satisfies product.CustomParameterConverter, binding onto
// b.params rather than b itself.
func (b *BandStack) ConvertParameters(cfg *product.ParamElement) error {
	return bindInto(&b.params, cfg)
}
