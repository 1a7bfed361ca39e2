// Package param implements the default parameter-injection collaborator: it
// binds a node's opaque configuration tree onto an operator's exported
// struct fields by name, using the same primitive/JSON conversion rules as
// [ParseStringAs]. Operators that need different semantics implement
// product.CustomParameterConverter and bypass this package entirely.
package param

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"github.com/kaptinlin/jsonrepair"

	"github.com/hollowlab/rasterflow/product"
)

// Injector applies a node's configuration element onto an operator instance.
type Injector struct{}

// NewInjector returns a ready-to-use Injector. It holds no state; the zero
// value is equally usable, NewInjector exists for symmetry with the rest of
// the engine's constructor-per-collaborator style.
func NewInjector() *Injector {
	return &Injector{}
}

// Inject applies cfg onto operator. If operator implements
// product.CustomParameterConverter, the call is delegated entirely. Otherwise
// the default converter, Bind, is used. A nil cfg is a no-op for Bind; on the
// custom path it is passed to ConvertParameters unchanged, and the converter
// decides what it means.
func (i *Injector) Inject(operator product.Operator, cfg *product.ParamElement) error {
	if converter, ok := operator.(product.CustomParameterConverter); ok {
		if err := converter.ConvertParameters(cfg); err != nil {
			return fmt.Errorf("custom parameter conversion: %w", err)
		}
		return nil
	}

	return Bind(operator, cfg)
}

// Bind binds cfg's direct children onto target's exported struct fields by
// name (json tag if present, else the Go field name), converting each
// string-valued leaf via the same rules as ParseStringAs. target must be a
// non-nil pointer to a struct; a nil cfg is a no-op.
func Bind(target any, cfg *product.ParamElement) error {
	if cfg == nil {
		return nil
	}

	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("param: bind target must be a non-nil pointer to a struct, got %T", target)
	}

	structVal := rv.Elem()
	structType := structVal.Type()
	fields := cfg.Fields()

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if !field.IsExported() {
			continue
		}

		name := field.Name
		if jsonTag := field.Tag.Get("json"); jsonTag != "" && jsonTag != "-" {
			if idx := indexOfComma(jsonTag); idx >= 0 {
				name = jsonTag[:idx]
			} else {
				name = jsonTag
			}
		}

		child, ok := fields[name]
		if !ok {
			continue
		}

		if err := setFieldFromString(structVal.Field(i), child.Value); err != nil {
			return fmt.Errorf("bind field %q: %w", name, err)
		}
	}

	return nil
}

func indexOfComma(s string) int {
	for i, r := range s {
		if r == ',' {
			return i
		}
	}
	return -1
}

// setFieldFromString converts content into fv's type and sets it, following
// the same primitive/JSON-with-repair rules as ParseStringAs, but driven by a
// runtime reflect.Value rather than a compile-time type parameter.
func setFieldFromString(fv reflect.Value, content string) error {
	switch fv.Kind() {
	case reflect.String:
		fv.SetString(content)
		return nil

	case reflect.Bool:
		val, err := strconv.ParseBool(content)
		if err != nil {
			return fmt.Errorf("parse bool: %w", err)
		}
		fv.SetBool(val)
		return nil

	case reflect.Float32, reflect.Float64:
		val, err := strconv.ParseFloat(content, 64)
		if err != nil {
			return fmt.Errorf("parse float: %w", err)
		}
		fv.SetFloat(val)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		val, err := strconv.ParseInt(content, 10, 64)
		if err != nil {
			return fmt.Errorf("parse int: %w", err)
		}
		fv.SetInt(val)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		val, err := strconv.ParseUint(content, 10, 64)
		if err != nil {
			return fmt.Errorf("parse uint: %w", err)
		}
		fv.SetUint(val)
		return nil

	default:
		target := reflect.New(fv.Type())
		if err := json.Unmarshal([]byte(content), target.Interface()); err != nil {
			repaired, repairErr := jsonrepair.JSONRepair(content)
			if repairErr != nil {
				return fmt.Errorf("unmarshal %s: %w (repair failed: %v)", fv.Type(), err, repairErr)
			}
			if err := json.Unmarshal([]byte(repaired), target.Interface()); err != nil {
				return fmt.Errorf("unmarshal repaired %s: %w", fv.Type(), err)
			}
		}
		fv.Set(target.Elem())
		return nil
	}
}
