// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package coerce

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// The parse/format bank backs every string cell of the matrix. Formatting
// delegates to the value's natural text representation; parsing exists in a
// strict variant (strconv grammar, decimal base only) and a lenient variant
// (trimmed input, auto base, fractional text rounded into integer kinds).

func formatOf(k Kind) Converter {
	switch k {
	case KindBool:
		return func(v any) (any, error) { return strconv.FormatBool(v.(bool)), nil }
	case KindChar:
		return func(v any) (any, error) { return string(rune(v.(Char))), nil }
	case KindInt8:
		return func(v any) (any, error) { return strconv.FormatInt(int64(v.(int8)), 10), nil }
	case KindUint8:
		return func(v any) (any, error) { return strconv.FormatUint(uint64(v.(uint8)), 10), nil }
	case KindInt16:
		return func(v any) (any, error) { return strconv.FormatInt(int64(v.(int16)), 10), nil }
	case KindUint16:
		return func(v any) (any, error) { return strconv.FormatUint(uint64(v.(uint16)), 10), nil }
	case KindInt32:
		return func(v any) (any, error) { return strconv.FormatInt(int64(v.(int32)), 10), nil }
	case KindUint32:
		return func(v any) (any, error) { return strconv.FormatUint(uint64(v.(uint32)), 10), nil }
	case KindInt64:
		return func(v any) (any, error) { return strconv.FormatInt(v.(int64), 10), nil }
	case KindUint64:
		return func(v any) (any, error) { return strconv.FormatUint(v.(uint64), 10), nil }
	case KindFloat32:
		return func(v any) (any, error) {
			return strconv.FormatFloat(float64(v.(float32)), 'g', -1, 32), nil
		}
	case KindFloat64:
		return func(v any) (any, error) {
			return strconv.FormatFloat(v.(float64), 'g', -1, 64), nil
		}
	case KindDecimal:
		return func(v any) (any, error) { return v.(decimal.Decimal).String(), nil }
	case KindTime:
		return func(v any) (any, error) { return v.(time.Time).Format(time.RFC3339Nano), nil }
	case KindString:
		return identity
	default:
		return nil
	}
}

// parseOf builds the string→k converter wired into the matrix's string row.
func parseOf(k Kind, strict, boolText bool) Converter {
	switch k {
	case KindBool:
		return func(v any) (any, error) { return parseBool(v.(string), boolText) }
	case KindChar:
		return func(v any) (any, error) { return parseChar(v.(string)) }
	case KindInt8, KindUint8, KindInt16, KindUint16,
		KindInt32, KindUint32, KindInt64, KindUint64:
		return parseIntegerOf(k, strict)
	case KindFloat32:
		return func(v any) (any, error) {
			f, err := parseFloat(v.(string), 32, strict)
			return float32(f), err
		}
	case KindFloat64:
		return func(v any) (any, error) { return parseFloat(v.(string), 64, strict) }
	case KindDecimal:
		return func(v any) (any, error) { return parseDecimal(v.(string), strict) }
	case KindTime:
		return func(v any) (any, error) { return parseTime(v.(string), strict) }
	case KindString:
		return identity
	default:
		return nil
	}
}

// parseBool accepts the literals true/false; the extended grammar adds
// strconv's 1/0/t/f shorthands plus yes/no/on/off, trimmed and folded.
func parseBool(s string, extended bool) (bool, error) {
	if !extended {
		switch s {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return false, malformedErr(s, KindBool)
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b, nil
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on":
		return true, nil
	case "false", "no", "off":
		return false, nil
	}
	return false, malformedErr(s, KindBool)
}

func parseChar(s string) (Char, error) {
	r := []rune(s)
	if len(r) != 1 || r[0] > 0xFFFF {
		return 0, malformedErr(s, KindChar)
	}
	return Char(r[0]), nil
}

func parseIntegerOf(k Kind, strict bool) Converter {
	bits := canonicalTypes[k].Bits()
	fit := fitOf(k, false)
	if strict {
		if k.isSigned() {
			return func(v any) (any, error) {
				s := v.(string)
				i, err := strconv.ParseInt(s, 10, bits)
				if err != nil {
					return nil, parseErr(s, k, err)
				}
				return fit(num{class: classInt, i: i})
			}
		}
		return func(v any) (any, error) {
			s := v.(string)
			u, err := strconv.ParseUint(s, 10, bits)
			if err != nil {
				return nil, parseErr(s, k, err)
			}
			return fit(num{class: classUint, u: u})
		}
	}
	return func(v any) (any, error) {
		s := strings.TrimSpace(v.(string))
		if i, err := strconv.ParseInt(s, 0, 64); err == nil {
			return fit(num{class: classInt, i: i})
		}
		if u, err := strconv.ParseUint(s, 0, 64); err == nil {
			return fit(num{class: classUint, u: u})
		}
		f, err := cast.ToFloat64E(s)
		if err != nil {
			return nil, malformedErr(s, k)
		}
		return fit(num{class: classFloat, f: f})
	}
}

func parseFloat(s string, bits int, strict bool) (float64, error) {
	text := s
	if !strict {
		text = strings.TrimSpace(s)
	}
	f, err := strconv.ParseFloat(text, bits)
	if err != nil {
		if !strict {
			if f, err = cast.ToFloat64E(text); err == nil {
				return f, nil
			}
		}
		k := KindFloat64
		if bits == 32 {
			k = KindFloat32
		}
		return 0, parseErr(s, k, err)
	}
	return f, nil
}

func parseDecimal(s string, strict bool) (decimal.Decimal, error) {
	text := s
	if !strict {
		text = strings.TrimSpace(s)
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, malformedErr(s, KindDecimal)
	}
	return d, nil
}

var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.DateTime,
	time.DateOnly,
	time.TimeOnly,
	time.Layout,
	time.ANSIC,
	time.UnixDate,
	time.RubyDate,
	time.RFC822,
	time.RFC822Z,
	time.RFC850,
	time.RFC1123,
	time.RFC1123Z,
	time.Kitchen,
	time.Stamp,
	time.StampMilli,
	time.StampMicro,
	time.StampNano,
}

func parseTime(s string, strict bool) (time.Time, error) {
	text := s
	if !strict {
		text = strings.TrimSpace(s)
	}
	for _, format := range timeFormats {
		if t, err := time.Parse(format, text); err == nil {
			return t, nil
		}
	}
	if !strict {
		if t, err := cast.ToTimeE(text); err == nil {
			return t, nil
		}
	}
	return time.Time{}, malformedErr(s, KindTime)
}

func parseDuration(s string) (time.Duration, error) {
	if strings.ContainsAny(s, "nuµmsh") {
		return time.ParseDuration(s)
	}
	v, err := strconv.ParseInt(s, 10, 64)
	return time.Duration(v), err
}

// parseErr maps strconv failures onto the engine's taxonomy: range errors are
// overflows, everything else is malformed text.
func parseErr(s string, k Kind, err error) error {
	if errors.Is(err, strconv.ErrRange) {
		return overflowErr(s, k)
	}
	return malformedErr(s, k)
}
