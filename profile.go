// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package coerce

import (
	"time"
)

// Profile is the immutable bundle of behavioral flags an Engine is bound to
// at construction.
type Profile struct {
	// CheckedOverflow makes narrowing numeric conversions fail on magnitude
	// loss; otherwise they wrap two's-complement style and never fail.
	CheckedOverflow bool
	// StrictParse selects the strict text grammar (strconv, decimal base,
	// no trimming) over the lenient one.
	StrictParse bool
	// TextualBools extends the boolean text grammar with yes/no/on/off.
	TextualBools bool
	// NumericBools installs the optional bool↔numeric matrix cells
	// (1/0 out, any nonzero ⇒ true in).
	NumericBools bool
	// FoldEnumNames parses enum member names case-insensitively.
	FoldEnumNames bool
	// NullOnFailure makes ChangeType report failure as the missing-value
	// marker (nil, nil) instead of an error.
	NullOnFailure bool
}

// StrictProfile is the checked, strict-parsing, failing-with-error policy.
func StrictProfile() Profile {
	return Profile{
		CheckedOverflow: true,
		StrictParse:     true,
	}
}

// LenientProfile wraps on overflow, trims and widens the text grammar,
// folds enum names, and reports failure as the missing-value marker.
func LenientProfile() Profile {
	return Profile{
		TextualBools:  true,
		FoldEnumNames: true,
		NullOnFailure: true,
	}
}

// Option customizes an Engine during construction only; once the engine is
// frozen, options become no-ops.
type Option func(e *Engine)

// WithConverter pre-registers a converter for one type pair. nil forbids the
// pair outright, which is distinct from leaving it to the resolver.
func WithConverter[F any, T any](fn func(from F) (to T, err error)) Option {
	fromType, toType := typeFor[F](), typeFor[T]()
	return func(e *Engine) {
		if e.frozen {
			return
		}
		if fn == nil {
			e.installCell(fromType, toType, invalidCell)
			return
		}
		e.installCell(fromType, toType, converterCell(func(v any) (any, error) {
			return fn(v.(F))
		}))
	}
}

var defaultOptions = []Option{
	WithConverter(func(s string) (time.Duration, error) { return parseDuration(s) }),
	WithConverter(func(b []byte) (string, error) { return string(b), nil }),
	WithConverter(func(s string) ([]byte, error) { return []byte(s), nil }),
}
