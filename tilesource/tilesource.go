// Package tilesource provides a reference, in-memory implementation of the
// product.Band / product.Product collaborator interfaces, plus a
// FetchFunc/Middleware chain (logging, retry, timeout) for wrapping tile
// fetches from a remote or unreliable backing store. It exists so the graph
// execution engine can be run and tested end to end without a real
// image-processing backend; production embedders supply their own
// product.Product.
package tilesource

import (
	"context"
	"fmt"

	"github.com/hollowlab/rasterflow/product"
)

// DefaultTileWidth and DefaultTileHeight are the tile dimensions the
// scheduler falls back to when no backend-specific size is configured,
// mirroring the JAI-style default tile of 256x256 pixels.
const (
	DefaultTileWidth  = 256
	DefaultTileHeight = 256
)

// DefaultTileSize returns the engine-wide default tile dimensions.
func DefaultTileSize() (width, height int) {
	return DefaultTileWidth, DefaultTileHeight
}

// Raster is the in-memory tile payload produced by InMemoryBand: a flat,
// row-major slice of float64 samples sized width*height.
type Raster struct {
	Width, Height int
	Samples       []float64
}

// FillFunc computes the sample values for one tile of a band.
type FillFunc func(ctx context.Context, tileX, tileY, tileWidth, tileHeight int) ([]float64, error)

// InMemoryBand is a reference product.Band that computes each tile on
// demand via Fill and never caches — every Tile call recomputes, which is
// sufficient for tests and demonstrations where Fill is cheap.
type InMemoryBand struct {
	TileWidth, TileHeight int
	Fetch                 FetchFunc
}

// NewInMemoryBand wraps fill in the given middleware chain (e.g. logging,
// retry, timeout, built with NewLoggingMiddleware/NewRetryMiddleware/
// NewTimeoutMiddleware) and returns a ready-to-use band.
func NewInMemoryBand(tileWidth, tileHeight int, fill FillFunc, middlewares ...Middleware) *InMemoryBand {
	base := FetchFunc(func(ctx context.Context, tileX, tileY int) (Raster, error) {
		samples, err := fill(ctx, tileX, tileY, tileWidth, tileHeight)
		if err != nil {
			return Raster{}, err
		}
		return Raster{Width: tileWidth, Height: tileHeight, Samples: samples}, nil
	})

	return &InMemoryBand{
		TileWidth:  tileWidth,
		TileHeight: tileHeight,
		Fetch:      Chain(base, middlewares...),
	}
}

// Tile satisfies product.Band.
func (b *InMemoryBand) Tile(ctx context.Context, tileX, tileY int) (product.Raster, error) {
	if tileX < 0 || tileY < 0 {
		return nil, fmt.Errorf("tilesource: negative tile coordinate (%d,%d)", tileX, tileY)
	}
	return b.Fetch(ctx, tileX, tileY)
}

// InMemoryProduct is a reference product.Product backed by InMemoryBands
// sharing one scene size.
type InMemoryProduct struct {
	Width, Height int
	BandList      []*InMemoryBand
}

// SceneWidth satisfies product.Product.
func (p *InMemoryProduct) SceneWidth() int { return p.Width }

// SceneHeight satisfies product.Product.
func (p *InMemoryProduct) SceneHeight() int { return p.Height }

// Bands satisfies product.Product.
func (p *InMemoryProduct) Bands() []product.Band {
	bands := make([]product.Band, len(p.BandList))
	for i, b := range p.BandList {
		bands[i] = b
	}
	return bands
}
