package builtin

import (
	"context"
	"fmt"

	"github.com/hollowlab/rasterflow/internal/jsonschema"
	"github.com/hollowlab/rasterflow/product"
	"github.com/hollowlab/rasterflow/tilesource"
)

// ConstantParams configures a Constant operator.
type ConstantParams struct {
	Value  float64 `json:"value" jsonschema:"description=Sample value every tile is filled with,required"`
	Width  int     `json:"width" jsonschema:"description=Scene width in pixels,required"`
	Height int     `json:"height" jsonschema:"description=Scene height in pixels,required"`
}

// Constant is a source operator with no inputs: it produces a single-band
// product whose every tile is filled with a fixed value. It is the simplest
// possible leaf node in a graph, useful for tests and as a seed for a
// Mosaic.
type Constant struct {
	params      ConstantParams
	middlewares []tilesource.Middleware
}

// NewConstant returns a ready-to-register Constant operator. Any middlewares
// given (e.g. tilesource.NewRetryMiddleware, tilesource.NewTimeoutMiddleware)
// wrap every tile fetch, outermost first.
func NewConstant(mws ...tilesource.Middleware) product.Operator {
	return &Constant{middlewares: mws}
}

// SetSourceProduct satisfies product.Operator. Constant declares no source
// slots, so any call is a configuration error.
func (c *Constant) SetSourceProduct(slotName string, p product.Product) error {
	return fmt.Errorf("builtin.Constant: unexpected source slot %q, this operator takes no inputs", slotName)
}

// GetTargetProduct satisfies product.Operator.
func (c *Constant) GetTargetProduct(ctx context.Context) (product.Product, error) {
	width, height := c.params.Width, c.params.Height
	if width <= 0 || height <= 0 {
		width, height = tilesource.DefaultTileSize()
	}

	fill := func(ctx context.Context, tileX, tileY, tileWidth, tileHeight int) ([]float64, error) {
		samples := make([]float64, tileWidth*tileHeight)
		for i := range samples {
			samples[i] = c.params.Value
		}
		return samples, nil
	}

	band := tilesource.NewInMemoryBand(tilesource.DefaultTileWidth, tilesource.DefaultTileHeight, fill, c.middlewares...)
	return &tilesource.InMemoryProduct{Width: width, Height: height, BandList: []*tilesource.InMemoryBand{band}}, nil
}

// Dispose satisfies product.Operator. Constant holds no resources.
func (c *Constant) Dispose(ctx context.Context) error {
	return nil
}

// ParameterSchema satisfies product.ParameterizedOperator.
func (c *Constant) ParameterSchema() *jsonschema.Schema {
	return product.ParamSchema[ConstantParams]()
}

// ConvertParameters satisfies product.CustomParameterConverter. It applies
// param.Bind's reflection-based binding to c.params rather than to c itself;
// all three fields are plain scalars param.Bind handles directly.
func (c *Constant) ConvertParameters(cfg *product.ParamElement) error {
	return bindInto(&c.params, cfg)
}
