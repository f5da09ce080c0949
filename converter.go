// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package coerce

// Converter turns one value into one value of another type. Converters are
// pure and safe for concurrent use once installed.
type Converter func(v any) (any, error)

// cell is one slot of the matrix or the resolution cache. ok=false is the
// explicit invalid marker: the pair is known to be unconvertible, which is
// distinct from "not yet resolved".
type cell struct {
	conv Converter
	ok   bool
}

var invalidCell = cell{}

func identity(v any) (any, error) {
	return v, nil
}

var identityCell = cell{conv: identity, ok: true}

func converterCell(c Converter) cell {
	return cell{conv: c, ok: true}
}
