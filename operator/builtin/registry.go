package builtin

import (
	"github.com/hollowlab/rasterflow/operator"
	"github.com/hollowlab/rasterflow/product"
	"github.com/hollowlab/rasterflow/tilesource"
)

// NewRegistry returns an operator.Registry pre-populated with every builtin
// operator, named the way a graph document would reference them. fetchMWs,
// if given, wraps every Constant's tile fetch (e.g. retry, timeout, logging)
// — Constant is the only builtin that ever talks to a backing fill function
// rather than just forwarding or combining already-computed tiles.
func NewRegistry(fetchMWs ...tilesource.Middleware) *operator.Registry {
	return operator.NewRegistryWith(map[string]operator.Constructor{
		"constant":    func() product.Operator { return NewConstant(fetchMWs...) },
		"passthrough": func() product.Operator { return NewPassthrough() },
		"mosaic":      func() product.Operator { return NewMosaic() },
		"bandstack":   func() product.Operator { return NewBandStack() },
	})
}
