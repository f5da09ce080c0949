// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package coerce

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// Enum-like types are named integer types with a known name table. Tables
// come from explicit registration, or from a one-time probe of the type's
// String method. Either way the table is discovered at most once per concrete
// type and cached for the process lifetime.

type enumTable struct {
	byName map[string]int64
	byFold map[string]int64 // lower-cased names, for case-insensitive parsing
	names  map[int64]string
}

var (
	enumMu     sync.RWMutex
	enumTables = map[reflect.Type]*enumTable{} // nil value = probed, no table
)

type enumValue interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// RegisterEnum installs the name table for an enum-like type, replacing any
// previously discovered table.
func RegisterEnum[T enumValue](names map[string]T) {
	typ := typeFor[T]()
	table := &enumTable{
		byName: make(map[string]int64, len(names)),
		byFold: make(map[string]int64, len(names)),
		names:  make(map[int64]string, len(names)),
	}
	for name, v := range names {
		n := toInt64(reflect.ValueOf(v))
		table.byName[name] = n
		table.byFold[strings.ToLower(name)] = n
		if _, taken := table.names[n]; !taken {
			table.names[n] = name
		}
	}
	enumMu.Lock()
	enumTables[typ] = table
	enumMu.Unlock()
}

func enumTableOf(typ reflect.Type) *enumTable {
	enumMu.RLock()
	table, ok := enumTables[typ]
	enumMu.RUnlock()
	if ok {
		return table
	}
	table = probeEnumTable(typ)
	enumMu.Lock()
	if cached, ok := enumTables[typ]; ok {
		table = cached // a concurrent probe won
	} else {
		enumTables[typ] = table
	}
	enumMu.Unlock()
	return table
}

var stringerType = typeFor[fmt.Stringer]()

const enumProbeLimit = 256

// probeEnumTable recovers a name table from a Stringer implementation by
// probing small member values. Stringer generators return "Type(n)" for
// unknown values, which the probe rejects.
func probeEnumTable(typ reflect.Type) *enumTable {
	if !typ.Implements(stringerType) {
		return nil
	}
	table := &enumTable{
		byName: map[string]int64{},
		byFold: map[string]int64{},
		names:  map[int64]string{},
	}
	unsignedKind := isUnsignedKind(typ.Kind())
	for i := 0; i < enumProbeLimit; i++ {
		v := reflect.New(typ).Elem()
		if unsignedKind {
			v.SetUint(uint64(i))
		} else {
			v.SetInt(int64(i))
		}
		name := v.Interface().(fmt.Stringer).String()
		if name == "" || name == typ.Name()+"("+strconv.Itoa(i)+")" || strings.ContainsRune(name, '%') {
			continue
		}
		if _, taken := table.byName[name]; taken {
			continue
		}
		table.byName[name] = int64(i)
		table.byFold[strings.ToLower(name)] = int64(i)
		table.names[int64(i)] = name
	}
	if len(table.byName) == 0 {
		return nil
	}
	return table
}

// enumParseCell builds the string→enum converter. Member names are looked up
// per the case-sensitivity flag; plain integer text is accepted as a raw
// member value, routed through the profile's overflow policy against the
// type's underlying kind. The table lookup happens per call, so registration
// after a pair was first resolved still takes effect.
func enumParseCell(to reflect.Type, p Profile) cell {
	uk := underlyingKind(to)
	fit := fitOf(uk, p.CheckedOverflow)
	return converterCell(func(v any) (any, error) {
		s := v.(string)
		if table := enumTableOf(to); table != nil {
			if n, ok := table.byName[s]; ok {
				return enumFromInt64(to, n), nil
			}
			if p.FoldEnumNames {
				if n, ok := table.byFold[strings.ToLower(s)]; ok {
					return enumFromInt64(to, n), nil
				}
			}
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return enumFitted(to, fit, num{class: classInt, i: n})
		} else if errors.Is(err, strconv.ErrRange) {
			if u, uerr := strconv.ParseUint(s, 10, 64); uerr == nil {
				return enumFitted(to, fit, num{class: classUint, u: u})
			}
			return nil, overflowErr(s, uk)
		}
		return nil, fmt.Errorf("%w: %q is not a member of %s", ErrMalformedText, s, to)
	})
}

// enumFitted narrows a parsed member value to the enum's underlying kind
// before constructing the typed value, so checked engines fail on
// out-of-range text and wrapping engines truncate.
func enumFitted(typ reflect.Type, fit func(num) (any, error), n num) (any, error) {
	fitted, err := fit(n)
	if err != nil {
		return nil, err
	}
	return enumFromInt64(typ, toInt64(reflect.ValueOf(fitted))), nil
}

// enumFormatCell builds the enum→string converter: Stringer when available,
// then the name table, then plain integer text.
func enumFormatCell(from reflect.Type) cell {
	if from.Implements(stringerType) {
		return converterCell(func(v any) (any, error) {
			return v.(fmt.Stringer).String(), nil
		})
	}
	return converterCell(func(v any) (any, error) {
		n := toInt64(reflect.ValueOf(v))
		if table := enumTableOf(from); table != nil {
			if name, ok := table.names[n]; ok {
				return name, nil
			}
		}
		return strconv.FormatInt(n, 10), nil
	})
}

func isUnsignedKind(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func enumFromInt64(typ reflect.Type, n int64) any {
	v := reflect.New(typ).Elem()
	if isUnsignedKind(typ.Kind()) {
		v.SetUint(uint64(n))
	} else {
		v.SetInt(n)
	}
	return v.Interface()
}

func toInt64(v reflect.Value) int64 {
	if isUnsignedKind(v.Kind()) {
		return int64(v.Uint())
	}
	return v.Int()
}
