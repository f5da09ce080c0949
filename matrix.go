// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package coerce

import (
	"sync/atomic"
)

// matrix is the dense table of direct converters between the closed kinds.
// Every slot is populated at construction; cells are read lock-free and may
// later be overridden one at a time, so each slot is an atomic pointer
// (a reader sees the old or the new cell, never a torn one).
type matrix [kindCount * kindCount]atomic.Pointer[cell]

func matrixIdx(from, to Kind) int {
	return int(from)*kindCount + int(to)
}

func (m *matrix) load(from, to Kind) cell {
	return *m[matrixIdx(from, to)].Load()
}

func (m *matrix) store(from, to Kind, c cell) {
	m[matrixIdx(from, to)].Store(&c)
}

func newMatrix(p Profile) *matrix {
	m := &matrix{}
	for f := Kind(0); int(f) < kindCount; f++ {
		for t := Kind(0); int(t) < kindCount; t++ {
			m.store(f, t, buildCell(f, t, p))
		}
	}
	return m
}

// buildCell produces the construction-time converter for one kind pair under
// the given profile.
func buildCell(from, to Kind, p Profile) cell {
	switch {
	case !from.isDense() || !to.isDense():
		// object and enum rows live in the resolution cache
		return invalidCell
	case from == KindNone || to == KindNone:
		// the null marker converts to nothing and nothing converts to it
		return invalidCell
	case from == to:
		return identityCell
	case from == KindString:
		// text input is parsing, not bit reinterpretation: delegate to the
		// bank, in the variant the profile selects
		if conv := parseOf(to, p.StrictParse, p.TextualBools); conv != nil {
			return converterCell(conv)
		}
		return invalidCell
	case to == KindString:
		if conv := formatOf(from); conv != nil {
			return converterCell(conv)
		}
		return invalidCell
	case from == KindTime || to == KindTime:
		// date-time only has its diagonal and string cells
		return invalidCell
	case from == KindBool || to == KindBool:
		// numeric booleans are an optional extension, and the code-unit
		// kind stays out of it
		if !p.NumericBools || from == KindChar || to == KindChar {
			return invalidCell
		}
		return numericCell(from, to, p.CheckedOverflow)
	case from == KindChar && (to == KindFloat32 || to == KindFloat64 || to == KindDecimal),
		to == KindChar && (from == KindFloat32 || from == KindFloat64 || from == KindDecimal):
		// the code-unit kind is integral only
		return invalidCell
	case from.isNumeric() && to.isNumeric():
		return numericCell(from, to, p.CheckedOverflow)
	default:
		return invalidCell
	}
}
