// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package coerce

import (
	"reflect"
	"time"

	"github.com/shopspring/decimal"
)

// Char is a single UTF-16 code unit. Go has no dedicated character type
// (rune is an alias of int32), so the engine defines its own.
type Char uint16

// Kind classifies a runtime type into one of the engine's dense dispatch
// categories. Types outside the closed set classify as KindObject and are
// handled by the fallback resolver; named integer types classify as KindEnum.
type Kind uint8

const (
	KindObject Kind = iota // open sentinel, no dense slot
	KindNone               // the null marker (absent value)
	KindBool
	KindChar
	KindInt8
	KindUint8
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindFloat32
	KindFloat64
	KindDecimal
	KindTime
	KindString
	KindEnum // enum-like type, no dense slot

	kindCount = int(KindEnum) + 1
)

var kindNames = [kindCount]string{
	"object",
	"none",
	"bool",
	"char",
	"int8",
	"uint8",
	"int16",
	"uint16",
	"int32",
	"uint32",
	"int64",
	"uint64",
	"float32",
	"float64",
	"decimal",
	"time",
	"string",
	"enum",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "object"
}

var (
	anyType     = typeFor[any]()
	boolType    = typeFor[bool]()
	charType    = typeFor[Char]()
	int8Type    = typeFor[int8]()
	uint8Type   = typeFor[uint8]()
	int16Type   = typeFor[int16]()
	uint16Type  = typeFor[uint16]()
	int32Type   = typeFor[int32]()
	uint32Type  = typeFor[uint32]()
	int64Type   = typeFor[int64]()
	uint64Type  = typeFor[uint64]()
	float32Type = typeFor[float32]()
	float64Type = typeFor[float64]()
	decimalType = typeFor[decimal.Decimal]()
	timeType    = typeFor[time.Time]()
	stringType  = typeFor[string]()
)

// canonicalTypes holds the concrete Go type backing each dense Kind slot.
var canonicalTypes = [kindCount]reflect.Type{
	KindBool:    boolType,
	KindChar:    charType,
	KindInt8:    int8Type,
	KindUint8:   uint8Type,
	KindInt16:   int16Type,
	KindUint16:  uint16Type,
	KindInt32:   int32Type,
	KindUint32:  uint32Type,
	KindInt64:   int64Type,
	KindUint64:  uint64Type,
	KindFloat32: float32Type,
	KindFloat64: float64Type,
	KindDecimal: decimalType,
	KindTime:    timeType,
	KindString:  stringType,
}

// kindOf classifies typ. It is pure: the same type always yields the same
// Kind, independent of engine state.
func kindOf(typ reflect.Type) Kind {
	if typ == nil {
		return KindNone
	}
	switch typ {
	case charType:
		return KindChar
	case timeType:
		return KindTime
	case decimalType:
		return KindDecimal
	}
	named := typ.PkgPath() != ""
	switch typ.Kind() {
	case reflect.Bool:
		if named {
			return KindObject
		}
		return KindBool
	case reflect.Int8:
		if named {
			return KindEnum
		}
		return KindInt8
	case reflect.Uint8:
		if named {
			return KindEnum
		}
		return KindUint8
	case reflect.Int16:
		if named {
			return KindEnum
		}
		return KindInt16
	case reflect.Uint16:
		if named {
			return KindEnum
		}
		return KindUint16
	case reflect.Int32:
		if named {
			return KindEnum
		}
		return KindInt32
	case reflect.Uint32:
		if named {
			return KindEnum
		}
		return KindUint32
	case reflect.Int, reflect.Int64:
		if named {
			return KindEnum
		}
		return KindInt64
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		if named {
			return KindEnum
		}
		return KindUint64
	case reflect.Float32:
		if named {
			return KindObject
		}
		return KindFloat32
	case reflect.Float64:
		if named {
			return KindObject
		}
		return KindFloat64
	case reflect.String:
		if named {
			return KindObject
		}
		return KindString
	default:
		return KindObject
	}
}

// KindOf reports the dense classification of typ. A nil type is the null
// marker.
func KindOf(typ reflect.Type) Kind {
	return kindOf(typ)
}

func (k Kind) isDense() bool {
	return k != KindObject && k != KindEnum
}

func (k Kind) isInteger() bool {
	switch k {
	case KindChar, KindInt8, KindUint8, KindInt16, KindUint16,
		KindInt32, KindUint32, KindInt64, KindUint64:
		return true
	}
	return false
}

func (k Kind) isSigned() bool {
	switch k {
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
	return false
}

func (k Kind) isNumeric() bool {
	return k.isInteger() || k == KindFloat32 || k == KindFloat64 || k == KindDecimal
}

func typeFor[T any]() reflect.Type {
	var v T
	if t := reflect.TypeOf(v); t != nil {
		return t // optimize for T being a non-interface kind
	}
	return reflect.TypeOf((*T)(nil)).Elem() // only for an interface kind
}
