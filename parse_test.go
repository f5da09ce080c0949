package coerce

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNumericRoundTrip(t *testing.T) {
	// format under the strict profile, parse back, expect the exact value
	values := []any{
		int8(math.MinInt8), int8(math.MaxInt8),
		uint8(0), uint8(math.MaxUint8),
		int16(math.MinInt16), int16(math.MaxInt16),
		uint16(math.MaxUint16),
		int32(math.MinInt32), int32(math.MaxInt32),
		uint32(math.MaxUint32),
		int64(math.MinInt64), int64(math.MaxInt64),
		uint64(math.MaxUint64),
		float32(1.5), float32(math.MaxFloat32), float32(math.SmallestNonzeroFloat32),
		float64(-2.25), float64(math.MaxFloat64), float64(math.SmallestNonzeroFloat64),
	}
	for _, v := range values {
		text, err := Default.ChangeType(v, stringType)
		require.NoError(t, err, "format %T(%v)", v, v)
		back, err := Default.ChangeType(text, reflect.TypeOf(v))
		require.NoError(t, err, "parse %q as %T", text, v)
		require.Equal(t, v, back)
	}
}

func TestBoolTextGrammar(t *testing.T) {
	// extended grammar under the lenient profile only
	got, err := Safe.ChangeType("yes", boolType)
	require.NoError(t, err)
	require.Equal(t, true, got)

	got, err = Safe.ChangeType("No", boolType)
	require.NoError(t, err)
	require.Equal(t, false, got)

	// the strict grammar is the two literals only, no shorthands
	for _, s := range []string{"true", "false"} {
		_, ok := Default.TryChangeType(s, boolType)
		require.True(t, ok, "strict %q", s)
	}
	for _, s := range []string{"yes", "1", "0", "t", "TRUE"} {
		_, ok := Default.TryChangeType(s, boolType)
		require.False(t, ok, "strict %q", s)
	}

	for _, e := range []*Engine{Default, Safe} {
		_, ok := e.TryChangeType("maybe", boolType)
		require.False(t, ok)
	}
}

func TestStrictVsLenientNumericText(t *testing.T) {
	_, ok := Default.TryChangeType(" 42 ", int64Type)
	require.False(t, ok)

	got, ok := Safe.TryChangeType(" 42 ", int64Type)
	require.True(t, ok)
	require.Equal(t, int64(42), got)

	// auto base and fractional text are lenient-only
	_, ok = Default.TryChangeType("0x10", int64Type)
	require.False(t, ok)

	got, ok = Safe.TryChangeType("0x10", int64Type)
	require.True(t, ok)
	require.Equal(t, int64(16), got)

	got, ok = Safe.TryChangeType("7.0", int64Type)
	require.True(t, ok)
	require.Equal(t, int64(7), got)
}

func TestParseErrorTaxonomy(t *testing.T) {
	_, err := Default.ChangeType("abc", int64Type)
	require.ErrorIs(t, err, ErrMalformedText)

	_, err = Default.ChangeType("300", int8Type)
	require.ErrorIs(t, err, ErrRangeOverflow)

	// lenient narrows by wrapping instead
	got, err := Safe.ChangeType("300", int8Type)
	require.NoError(t, err)
	require.Equal(t, int8(44), got)
}

func TestTimeText(t *testing.T) {
	ts, err := Default.ChangeType("2024-05-01T10:30:00Z", timeType)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC), ts.(time.Time).UTC())

	ts, err = Default.ChangeType("2024-05-01", timeType)
	require.NoError(t, err)
	require.Equal(t, 2024, ts.(time.Time).Year())

	_, ok := Default.TryChangeType("not a date", timeType)
	require.False(t, ok)

	text, err := Default.ChangeType(time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC), stringType)
	require.NoError(t, err)
	require.Equal(t, "2024-05-01T10:30:00Z", text)
}

func TestCharText(t *testing.T) {
	got, err := Default.ChangeType("é", charType)
	require.NoError(t, err)
	require.Equal(t, Char(0xE9), got)

	_, err = Default.ChangeType("", charType)
	require.ErrorIs(t, err, ErrMalformedText)

	_, err = Default.ChangeType("ab", charType)
	require.ErrorIs(t, err, ErrMalformedText)

	// outside the basic multilingual plane
	_, err = Default.ChangeType("🙂", charType)
	require.ErrorIs(t, err, ErrMalformedText)
}
