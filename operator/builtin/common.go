package builtin

import (
	"github.com/hollowlab/rasterflow/param"
	"github.com/hollowlab/rasterflow/product"
)

// bindInto is a thin wrapper around param.Bind shared by this package's
// operators' ConvertParameters implementations.
func bindInto(target any, cfg *product.ParamElement) error {
	return param.Bind(target, cfg)
}
