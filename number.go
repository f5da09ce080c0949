// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package coerce

import (
	"math"

	"github.com/shopspring/decimal"
)

// Numeric matrix cells are built from two halves instead of hand-writing all
// pairs: a lift from the source kind into a canonical widened form, and a fit
// from the canonical form into the target kind. Narrowing fits come in a
// checked variant (fails on magnitude loss) and a wrapping variant
// (two's-complement truncation, never fails).

type numClass uint8

const (
	classInt numClass = iota
	classUint
	classFloat
	classDecimal
)

type num struct {
	class numClass
	i     int64
	u     uint64
	f     float64
	d     decimal.Decimal
}

type signed interface {
	~int8 | ~int16 | ~int32 | ~int64
}

type unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

func liftOf(k Kind) func(any) num {
	switch k {
	case KindBool:
		return func(v any) num {
			if v.(bool) {
				return num{class: classInt, i: 1}
			}
			return num{class: classInt}
		}
	case KindChar:
		return func(v any) num { return num{class: classUint, u: uint64(v.(Char))} }
	case KindInt8:
		return func(v any) num { return num{class: classInt, i: int64(v.(int8))} }
	case KindUint8:
		return func(v any) num { return num{class: classUint, u: uint64(v.(uint8))} }
	case KindInt16:
		return func(v any) num { return num{class: classInt, i: int64(v.(int16))} }
	case KindUint16:
		return func(v any) num { return num{class: classUint, u: uint64(v.(uint16))} }
	case KindInt32:
		return func(v any) num { return num{class: classInt, i: int64(v.(int32))} }
	case KindUint32:
		return func(v any) num { return num{class: classUint, u: uint64(v.(uint32))} }
	case KindInt64:
		return func(v any) num { return num{class: classInt, i: v.(int64)} }
	case KindUint64:
		return func(v any) num { return num{class: classUint, u: v.(uint64)} }
	case KindFloat32:
		return func(v any) num { return num{class: classFloat, f: float64(v.(float32))} }
	case KindFloat64:
		return func(v any) num { return num{class: classFloat, f: v.(float64)} }
	case KindDecimal:
		return func(v any) num { return num{class: classDecimal, d: v.(decimal.Decimal)} }
	default:
		return nil
	}
}

func fitOf(k Kind, checked bool) func(num) (any, error) {
	switch k {
	case KindBool:
		return fitBool
	case KindChar:
		return uintFit[Char](k, checked)
	case KindInt8:
		return intFit[int8](k, checked)
	case KindUint8:
		return uintFit[uint8](k, checked)
	case KindInt16:
		return intFit[int16](k, checked)
	case KindUint16:
		return uintFit[uint16](k, checked)
	case KindInt32:
		return intFit[int32](k, checked)
	case KindUint32:
		return uintFit[uint32](k, checked)
	case KindInt64:
		return intFit[int64](k, checked)
	case KindUint64:
		return uintFit[uint64](k, checked)
	case KindFloat32:
		return floatFit32(k, checked)
	case KindFloat64:
		return fitFloat64
	case KindDecimal:
		return fitDecimal(k)
	default:
		return nil
	}
}

// numericCell composes lift and fit into one matrix cell.
func numericCell(from, to Kind, checked bool) cell {
	lift := liftOf(from)
	fit := fitOf(to, checked)
	if lift == nil || fit == nil {
		return invalidCell
	}
	return converterCell(func(v any) (any, error) {
		return fit(lift(v))
	})
}

var (
	decMaxInt64  = decimal.NewFromInt(math.MaxInt64)
	decMinInt64  = decimal.NewFromInt(math.MinInt64)
	decMaxUint64 = decimal.NewFromUint64(math.MaxUint64)
)

// decInt64 rounds d half-to-even and reports whether the result fits int64.
// On overflow the returned value is clamped to the nearest bound.
func decInt64(d decimal.Decimal) (int64, bool) {
	rd := d.RoundBank(0)
	if rd.Cmp(decMaxInt64) > 0 {
		return math.MaxInt64, false
	}
	if rd.Cmp(decMinInt64) < 0 {
		return math.MinInt64, false
	}
	return rd.IntPart(), true
}

func decUint64(d decimal.Decimal) (uint64, bool) {
	rd := d.RoundBank(0)
	if rd.Sign() < 0 {
		i, _ := decInt64(rd)
		return uint64(i), false
	}
	if rd.Cmp(decMaxUint64) > 0 {
		return math.MaxUint64, false
	}
	return rd.BigInt().Uint64(), true
}

// floatInt64 rounds f half-to-even and reports whether the result fits int64.
// NaN maps to 0, out-of-range values clamp to the nearest bound.
func floatInt64(f float64) (int64, bool) {
	if math.IsNaN(f) {
		return 0, false
	}
	r := math.RoundToEven(f)
	const limit = float64(1 << 63) // 2^63, first float64 past MaxInt64
	if r >= limit {
		return math.MaxInt64, false
	}
	if r < -limit {
		return math.MinInt64, false
	}
	return int64(r), true
}

func floatUint64(f float64) (uint64, bool) {
	if math.IsNaN(f) {
		return 0, false
	}
	r := math.RoundToEven(f)
	if r < 0 {
		i, _ := floatInt64(r)
		return uint64(i), false
	}
	const limit = float64(1 << 64)
	if r >= limit {
		return math.MaxUint64, false
	}
	return uint64(r), true
}

func intFit[T signed](k Kind, checked bool) func(num) (any, error) {
	bits := canonicalTypes[k].Bits()
	max := int64(1)<<(bits-1) - 1
	min := -max - 1
	return func(n num) (any, error) {
		switch n.class {
		case classInt:
			if checked && (n.i < min || n.i > max) {
				return nil, overflowErr(n.i, k)
			}
			return T(n.i), nil
		case classUint:
			if checked && n.u > uint64(max) {
				return nil, overflowErr(n.u, k)
			}
			return T(n.u), nil
		case classFloat:
			i, exact := floatInt64(n.f)
			if checked && (!exact || i < min || i > max) {
				return nil, overflowErr(n.f, k)
			}
			return T(i), nil
		default:
			i, exact := decInt64(n.d)
			if checked && (!exact || i < min || i > max) {
				return nil, overflowErr(n.d, k)
			}
			return T(i), nil
		}
	}
}

func uintFit[T unsigned](k Kind, checked bool) func(num) (any, error) {
	bits := canonicalTypes[k].Bits()
	var max uint64
	if bits == 64 {
		max = math.MaxUint64
	} else {
		max = uint64(1)<<bits - 1
	}
	return func(n num) (any, error) {
		switch n.class {
		case classInt:
			if checked && (n.i < 0 || uint64(n.i) > max) {
				return nil, overflowErr(n.i, k)
			}
			return T(n.i), nil
		case classUint:
			if checked && n.u > max {
				return nil, overflowErr(n.u, k)
			}
			return T(n.u), nil
		case classFloat:
			u, exact := floatUint64(n.f)
			if checked && (!exact || u > max) {
				return nil, overflowErr(n.f, k)
			}
			return T(u), nil
		default:
			u, exact := decUint64(n.d)
			if checked && (!exact || u > max) {
				return nil, overflowErr(n.d, k)
			}
			return T(u), nil
		}
	}
}

func floatFit32(k Kind, checked bool) func(num) (any, error) {
	return func(n num) (any, error) {
		switch n.class {
		case classInt:
			return float32(n.i), nil
		case classUint:
			return float32(n.u), nil
		case classFloat:
			if checked && !math.IsInf(n.f, 0) && !math.IsNaN(n.f) &&
				(n.f > math.MaxFloat32 || n.f < -math.MaxFloat32) {
				return nil, overflowErr(n.f, k)
			}
			return float32(n.f), nil
		default:
			f, _ := n.d.Float64()
			if checked && (f > math.MaxFloat32 || f < -math.MaxFloat32) {
				return nil, overflowErr(n.d, k)
			}
			return float32(f), nil
		}
	}
}

func fitFloat64(n num) (any, error) {
	switch n.class {
	case classInt:
		return float64(n.i), nil
	case classUint:
		return float64(n.u), nil
	case classFloat:
		return n.f, nil
	default:
		f, _ := n.d.Float64()
		return f, nil
	}
}

func fitDecimal(k Kind) func(num) (any, error) {
	return func(n num) (any, error) {
		switch n.class {
		case classInt:
			return decimal.NewFromInt(n.i), nil
		case classUint:
			return decimal.NewFromUint64(n.u), nil
		case classFloat:
			// NaN and infinities have no decimal representation in
			// either policy.
			if math.IsNaN(n.f) || math.IsInf(n.f, 0) {
				return nil, overflowErr(n.f, k)
			}
			return decimal.NewFromFloat(n.f), nil
		default:
			return n.d, nil
		}
	}
}

// fitBool backs the optional numeric-bool extension: any nonzero value is
// true.
func fitBool(n num) (any, error) {
	switch n.class {
	case classInt:
		return n.i != 0, nil
	case classUint:
		return n.u != 0, nil
	case classFloat:
		return n.f != 0, nil
	default:
		return !n.d.IsZero(), nil
	}
}
