package builtin

import (
	"context"
	"fmt"

	"github.com/hollowlab/rasterflow/internal/jsonschema"
	"github.com/hollowlab/rasterflow/product"
)

// PassthroughParams configures a Passthrough operator. It has no tunables of
// its own; the struct exists so Passthrough satisfies
// product.ParameterizedOperator like every other builtin.
type PassthroughParams struct{}

// sourceSlotName is the single input slot every Passthrough expects.
const sourceSlotName = "source"

// Passthrough forwards its single source's bands unchanged. It is the
// identity element of the graph: useful as a relabeling node and as a
// minimal fixture for exercising dependency resolution without any real
// transformation.
type Passthrough struct {
	source product.Product
}

// NewPassthrough returns a ready-to-register Passthrough operator.
func NewPassthrough() product.Operator {
	return &Passthrough{}
}

// SetSourceProduct satisfies product.Operator.
func (p *Passthrough) SetSourceProduct(slotName string, src product.Product) error {
	if slotName != sourceSlotName {
		return fmt.Errorf("builtin.Passthrough: unexpected source slot %q, want %q", slotName, sourceSlotName)
	}
	p.source = src
	return nil
}

// GetTargetProduct satisfies product.Operator. It returns the source product
// directly: Passthrough performs no per-tile work of its own, so there is no
// reason to wrap it in an intermediate layer of indirection.
func (p *Passthrough) GetTargetProduct(ctx context.Context) (product.Product, error) {
	if p.source == nil {
		return nil, fmt.Errorf("builtin.Passthrough: source %q was never set", sourceSlotName)
	}
	return p.source, nil
}

// Dispose satisfies product.Operator. Passthrough holds no resources of its
// own; the source product's lifecycle is owned by its own node.
func (p *Passthrough) Dispose(ctx context.Context) error {
	return nil
}

// ParameterSchema satisfies product.ParameterizedOperator.
func (p *Passthrough) ParameterSchema() *jsonschema.Schema {
	return product.ParamSchema[PassthroughParams]()
}
