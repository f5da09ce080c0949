// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package coerce

import (
	"database/sql"
	"encoding"
	"fmt"
	"reflect"
)

// Convertible lets a type describe its own conversions. The resolver consults
// it after assignability and native convertibility, before the construction
// hooks on the target side.
type Convertible interface {
	ConvertTo(to reflect.Type) (any, error)
}

var (
	convertibleType     = typeFor[Convertible]()
	textMarshalerType   = typeFor[encoding.TextMarshaler]()
	textUnmarshalerType = typeFor[encoding.TextUnmarshaler]()
	scannerType         = typeFor[sql.Scanner]()
)

// resolve discovers a converter for a pair outside the dense fast path.
// First match wins; a miss yields the invalid marker, which the caller
// records so the pair is never probed again.
func (e *Engine) resolve(from, to reflect.Type) cell {
	if from == nil || to == nil {
		return invalidCell
	}

	// identity and supertype/interface relationships
	if from.AssignableTo(to) {
		return identityCell
	}

	// enum-aware shortcuts: text parses by member name, and the enum side of
	// any numeric pair falls through to its underlying integer kind
	fk, tk := kindOf(from), kindOf(to)
	if tk == KindEnum && from == stringType {
		return enumParseCell(to, e.profile)
	}
	if fk == KindEnum && to == stringType {
		return enumFormatCell(from)
	}

	if to == stringType {
		if c := e.resolveToString(from, fk); c.ok {
			return c
		}
	}

	// named types over closed underlying kinds rebind through the matrix, so
	// policy semantics (checked narrowing, parse grammar) are preserved
	if c := e.underlyingCell(from, to); c.ok {
		return c
	}

	// native convertibility between open types (same-shape structs,
	// directed channels, and the like)
	if fk == KindObject && tk == KindObject && from.ConvertibleTo(to) {
		return convertCell(to)
	}

	// the source's own conversion hook
	if from.Implements(convertibleType) {
		return convertibleHookCell(from, to)
	}

	// construction hooks on the target
	if reflect.PointerTo(to).Implements(scannerType) {
		return scannerCell(to)
	}
	if from == stringType && reflect.PointerTo(to).Implements(textUnmarshalerType) {
		return unmarshalTextCell(to)
	}

	return invalidCell
}

// resolveToString covers the text target: Stringer, TextMarshaler, the bank's
// formatter for the source's kind, then the generic text representation for
// open kinds.
func (e *Engine) resolveToString(from reflect.Type, fk Kind) cell {
	if from.Implements(stringerType) {
		return converterCell(func(v any) (any, error) {
			return v.(fmt.Stringer).String(), nil
		})
	}
	if from.Implements(textMarshalerType) {
		return converterCell(func(v any) (any, error) {
			b, err := v.(encoding.TextMarshaler).MarshalText()
			if err != nil {
				return nil, err
			}
			return string(b), nil
		})
	}
	if fk == KindObject && from.Kind() != reflect.String {
		if uk := underlyingKind(from); uk == KindObject {
			return converterCell(func(v any) (any, error) {
				return fmt.Sprintf("%v", v), nil
			})
		}
	}
	return invalidCell
}

// underlyingKind classifies a type by its underlying representation, so named
// types land on the dense kind their memory layout matches.
func underlyingKind(typ reflect.Type) Kind {
	if k := kindOf(typ); k.isDense() {
		return k
	}
	switch typ.Kind() {
	case reflect.Bool:
		return KindBool
	case reflect.Int8:
		return KindInt8
	case reflect.Uint8:
		return KindUint8
	case reflect.Int16:
		return KindInt16
	case reflect.Uint16:
		return KindUint16
	case reflect.Int32:
		return KindInt32
	case reflect.Uint32:
		return KindUint32
	case reflect.Int, reflect.Int64:
		return KindInt64
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return KindUint64
	case reflect.Float32:
		return KindFloat32
	case reflect.Float64:
		return KindFloat64
	case reflect.String:
		return KindString
	default:
		return KindObject
	}
}

// underlyingCell adapts a matrix cell to named source/target types: rebind the
// source to its canonical kind type, run the dense converter, rebind the
// result to the requested type.
func (e *Engine) underlyingCell(from, to reflect.Type) cell {
	fk, tk := underlyingKind(from), underlyingKind(to)
	if !fk.isDense() || !tk.isDense() {
		return invalidCell
	}
	base := e.matrix.load(fk, tk)
	if !base.ok {
		return invalidCell
	}
	fromCanon, toCanon := canonicalTypes[fk], canonicalTypes[tk]
	return converterCell(func(v any) (any, error) {
		src := v
		if reflect.TypeOf(v) != fromCanon {
			src = reflect.ValueOf(v).Convert(fromCanon).Interface()
		}
		out, err := base.conv(src)
		if err != nil {
			return nil, err
		}
		if to != toCanon {
			out = reflect.ValueOf(out).Convert(to).Interface()
		}
		return out, nil
	})
}

func convertCell(to reflect.Type) cell {
	return converterCell(func(v any) (any, error) {
		return reflect.ValueOf(v).Convert(to).Interface(), nil
	})
}

func convertibleHookCell(from, to reflect.Type) cell {
	return converterCell(func(v any) (any, error) {
		out, err := v.(Convertible).ConvertTo(to)
		if err != nil {
			return nil, err
		}
		if out != nil && !reflect.TypeOf(out).AssignableTo(to) {
			return nil, fmt.Errorf("%w: %s.ConvertTo produced %T", ErrUnsupportedConversion, from, out)
		}
		return out, nil
	})
}

func scannerCell(to reflect.Type) cell {
	return converterCell(func(v any) (any, error) {
		dst := reflect.New(to)
		if err := dst.Interface().(sql.Scanner).Scan(v); err != nil {
			return nil, err
		}
		return dst.Elem().Interface(), nil
	})
}

func unmarshalTextCell(to reflect.Type) cell {
	return converterCell(func(v any) (any, error) {
		dst := reflect.New(to)
		if err := dst.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(v.(string))); err != nil {
			return nil, err
		}
		return dst.Elem().Interface(), nil
	})
}
