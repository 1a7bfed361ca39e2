package builtin

import (
	"context"
	"fmt"
	"sort"

	"github.com/hollowlab/rasterflow/internal/jsonschema"
	"github.com/hollowlab/rasterflow/product"
	"github.com/hollowlab/rasterflow/tilesource"
)

// MosaicParams configures a Mosaic operator.
type MosaicParams struct {
	// TileWidth and TileHeight override the tile grid the mosaic publishes;
	// zero falls back to tilesource's engine-wide default.
	TileWidth  int `json:"tileWidth"`
	TileHeight int `json:"tileHeight"`
}

// Mosaic combines an arbitrary number of same-sized source products into one
// by averaging band zero of every source at each tile. Sources are declared
// with distinct slot names (e.g. "input0", "input1", ...); combination order
// follows the sorted slot names, so the result is independent of the order
// SetSourceProduct happened to be called in.
type Mosaic struct {
	params  MosaicParams
	sources map[string]product.Product
}

// NewMosaic returns a ready-to-register Mosaic operator.
func NewMosaic() product.Operator {
	return &Mosaic{sources: make(map[string]product.Product)}
}

// SetSourceProduct satisfies product.Operator. Mosaic accepts any slot name,
// treating each as one more input to combine.
func (m *Mosaic) SetSourceProduct(slotName string, p product.Product) error {
	if slotName == "" {
		return fmt.Errorf("builtin.Mosaic: source slot name must not be empty")
	}
	m.sources[slotName] = p
	return nil
}

// GetTargetProduct satisfies product.Operator.
func (m *Mosaic) GetTargetProduct(ctx context.Context) (product.Product, error) {
	if len(m.sources) == 0 {
		return nil, fmt.Errorf("builtin.Mosaic: no sources configured")
	}

	slots := make([]string, 0, len(m.sources))
	for slot := range m.sources {
		slots = append(slots, slot)
	}
	sort.Strings(slots)

	width, height := 0, 0
	for _, slot := range slots {
		src := m.sources[slot]
		if w := src.SceneWidth(); w > width {
			width = w
		}
		if h := src.SceneHeight(); h > height {
			height = h
		}
	}

	tileWidth, tileHeight := m.params.TileWidth, m.params.TileHeight
	if tileWidth <= 0 || tileHeight <= 0 {
		tileWidth, tileHeight = tilesource.DefaultTileSize()
	}

	fill := func(ctx context.Context, tileX, tileY, tw, th int) ([]float64, error) {
		sum := make([]float64, tw*th)
		count := make([]int, tw*th)

		for _, slot := range slots {
			src := m.sources[slot]
			bands := src.Bands()
			if len(bands) == 0 {
				continue
			}
			raster, err := bands[0].Tile(ctx, tileX, tileY)
			if err != nil {
				return nil, fmt.Errorf("mosaic: source %q: %w", slot, err)
			}
			tr, ok := raster.(tilesource.Raster)
			if !ok {
				return nil, fmt.Errorf("mosaic: source %q produced an unrecognized raster type %T", slot, raster)
			}
			for i, v := range tr.Samples {
				if i >= len(sum) {
					break
				}
				sum[i] += v
				count[i]++
			}
		}

		result := make([]float64, tw*th)
		for i := range result {
			if count[i] > 0 {
				result[i] = sum[i] / float64(count[i])
			}
		}
		return result, nil
	}

	band := tilesource.NewInMemoryBand(tileWidth, tileHeight, fill)
	return &tilesource.InMemoryProduct{Width: width, Height: height, BandList: []*tilesource.InMemoryBand{band}}, nil
}

// Dispose satisfies product.Operator. Mosaic holds no resources of its own.
func (m *Mosaic) Dispose(ctx context.Context) error {
	return nil
}

// ParameterSchema satisfies product.ParameterizedOperator.
func (m *Mosaic) ParameterSchema() *jsonschema.Schema {
	return product.ParamSchema[MosaicParams]()
}

// ConvertParameters satisfies product.CustomParameterConverter, binding onto
// m.params rather than m itself.
func (m *Mosaic) ConvertParameters(cfg *product.ParamElement) error {
	return bindInto(&m.params, cfg)
}
