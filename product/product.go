// Package product defines the external collaborator interfaces the graph
// execution engine depends on but never implements itself: the operator
// capability contract, the product/band raster surface, and the opaque
// parameter tree a node's configuration is expressed as. Concrete operators
// and tile backends are supplied by the embedder; rasterflow ships a small
// reference set in tilesource and operator/builtin purely so the engine can
// be exercised end to end.
package product

import (
	"context"

	"github.com/hollowlab/rasterflow/internal/jsonschema"
)

// Raster is an opaque tile payload. The engine never inspects its contents.
type Raster interface{}

// Band presents a lazily-computed tiled raster image. A call to Tile must
// trigger computation of that tile if it is not already cached, which in
// turn may pull source tiles from upstream bands recursively.
type Band interface {
	Tile(ctx context.Context, tileX, tileY int) (Raster, error)
}

// Product is a collection of bands sharing a single raster frame.
type Product interface {
	SceneWidth() int
	SceneHeight() int
	Bands() []Band
}

// ProductDisposer is an optional capability a Product implementation can
// expose to release resources (open file handles, cached tiles) when its
// owning node is torn down. Most reference products need no cleanup and
// don't implement it; the Disposer probes for it rather than requiring it
// on every Product.
type ProductDisposer interface {
	Dispose(ctx context.Context) error
}

// Operator is the capability contract every node in a graph instantiates.
// SetSourceProduct is called once per declared source slot before
// GetTargetProduct; Dispose is called exactly once during teardown.
type Operator interface {
	SetSourceProduct(slotName string, p Product) error
	GetTargetProduct(ctx context.Context) (Product, error)
	Dispose(ctx context.Context) error
}

// ComputeAllBandsOperator is an optional capability: when
// ComputesAllBandsTogether reports true, a single tile request to any one of
// the operator's bands is sufficient to compute that tile for every band, so
// the scheduler only needs to touch band zero.
type ComputeAllBandsOperator interface {
	ComputesAllBandsTogether() bool
}

// CustomParameterConverter is an optional capability allowing an operator to
// consume a node's raw configuration element directly, bypassing the default
// reflection-based converter in package param.
type CustomParameterConverter interface {
	ConvertParameters(cfg *ParamElement) error
}

// ParameterizedOperator is an optional capability exposing a JSON Schema for
// the operator's parameter struct. The default converter in package param
// does not consult it: param.Bind finds fields and their types by reflection
// over the target struct.
type ParameterizedOperator interface {
	ParameterSchema() *jsonschema.Schema
}

// ParamSchema builds the JSON Schema for a ParameterizedOperator's declared
// parameter type T via reflection. Operators call this once from their
// ParameterSchema method:
//
//	func (o *myOperator) ParameterSchema() *jsonschema.Schema {
//	    return product.ParamSchema[myParams]()
//	}
func ParamSchema[T any]() *jsonschema.Schema {
	return jsonschema.GenerateJSONSchema[T]()
}

// ParamElement is the opaque, hierarchical configuration tree attached to a
// node. It mirrors the shape a parsed XML/JSON configuration element would
// take: a name, an optional scalar value (always a string, like an XML
// attribute or text node), and an ordered list of children.
type ParamElement struct {
	Name     string          `json:"name"`
	Value    string          `json:"value,omitempty"`
	Children []*ParamElement `json:"children,omitempty"`
}

// Child returns the first direct child named name, or nil if none exists.
func (p *ParamElement) Child(name string) *ParamElement {
	if p == nil {
		return nil
	}
	for _, c := range p.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Fields returns the element's direct children as a name → value map,
// discarding nesting. Used by the default converter to bind a flat parameter
// struct.
func (p *ParamElement) Fields() map[string]*ParamElement {
	fields := make(map[string]*ParamElement)
	if p == nil {
		return fields
	}
	for _, c := range p.Children {
		fields[c.Name] = c
	}
	return fields
}
