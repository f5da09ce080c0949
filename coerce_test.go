package coerce

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestChangeTypeMatrixPath(t *testing.T) {
	groups := []struct {
		in   any
		to   reflect.Type
		want any
	}{
		{int64(42), int32Type, int32(42)},
		{int8(-7), int64Type, int64(-7)},
		{uint8(200), int16Type, int16(200)},
		{int32(1), uint64Type, uint64(1)},
		{float64(1.0), int8Type, int8(1)},
		{int64(42), float64Type, float64(42)},
		{float32(2.5), float64Type, float64(2.5)},
		{int64(42), stringType, "42"},
		{uint64(18446744073709551615), stringType, "18446744073709551615"},
		{"42", int64Type, int64(42)},
		{"-1", int8Type, int8(-1)},
		{"2.5", float64Type, float64(2.5)},
		{true, stringType, "true"},
		{"true", boolType, true},
		{Char('c'), stringType, "c"},
		{"5", charType, Char('5')},
		{Char('A'), int32Type, int32(65)},
		{int64(66), charType, Char('B')},
	}
	for _, g := range groups {
		got, err := Default.ChangeType(g.in, g.to)
		require.NoError(t, err, "change %T(%v) to %s", g.in, g.in, g.to)
		require.Equal(t, g.want, got, "change %T(%v) to %s", g.in, g.in, g.to)
	}
}

func TestChangeTypeOverflowScenario(t *testing.T) {
	_, err := Default.ChangeType(int64(2147483648), int32Type)
	require.ErrorIs(t, err, ErrRangeOverflow)

	got, err := Safe.ChangeType(int64(2147483648), int32Type)
	require.NoError(t, err)
	require.Equal(t, int32(-2147483648), got)
}

func TestOverflowSymmetry(t *testing.T) {
	// B.MAX+1 expressed in the wider kind wraps to B.MIN under Safe and
	// fails under Default, for every narrower integer kind.
	cases := []struct {
		in      int64
		to      reflect.Type
		wrapped any
	}{
		{int64(128), int8Type, int8(-128)},
		{int64(32768), int16Type, int16(-32768)},
		{int64(2147483648), int32Type, int32(-2147483648)},
		{int64(256), uint8Type, uint8(0)},
		{int64(65536), uint16Type, uint16(0)},
		{int64(4294967296), uint32Type, uint32(0)},
		{int64(-1), uint64Type, uint64(18446744073709551615)},
	}
	for _, c := range cases {
		_, ok := Default.TryChangeType(c.in, c.to)
		require.False(t, ok, "checked %d to %s", c.in, c.to)

		got, err := Safe.ChangeType(c.in, c.to)
		require.NoError(t, err)
		require.Equal(t, c.wrapped, got, "wrapped %d to %s", c.in, c.to)
	}
}

func TestMissingValue(t *testing.T) {
	targets := []reflect.Type{
		boolType, charType, int8Type, uint8Type, int16Type, uint16Type,
		int32Type, uint32Type, int64Type, uint64Type, float32Type,
		float64Type, decimalType, timeType, stringType,
	}
	for _, e := range []*Engine{Default, Safe} {
		for _, to := range targets {
			_, ok := e.TryChangeType(nil, to)
			require.False(t, ok, "nil to %s", to)
		}
	}
	_, err := Default.ChangeType(nil, int64Type)
	require.ErrorIs(t, err, ErrMissingValue)

	// the open target is the only one accepting the missing value
	got, err := Default.ChangeType(nil, anyType)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestIdempotence(t *testing.T) {
	values := []any{int64(7), "7", float64(7.5), true, Char('x')}
	targets := []reflect.Type{int64Type, stringType, float64Type}
	for _, v := range values {
		for _, to := range targets {
			first, ok := Default.TryChangeType(v, to)
			if !ok {
				continue
			}
			second, ok := Default.TryChangeType(first, to)
			require.True(t, ok)
			require.Equal(t, first, second, "converting %T(%v) to %s twice", v, v, to)
		}
	}
}

func TestTryChangeTypeNeverErrors(t *testing.T) {
	for _, e := range []*Engine{Default, Safe} {
		for _, v := range []any{nil, "maybe", struct{ X int }{1}} {
			out, ok := e.TryChangeType(v, int8Type)
			require.False(t, ok)
			require.Nil(t, out)
		}
	}

	// overflow splits by policy: checked fails, wrapping succeeds
	out, ok := Default.TryChangeType(int64(1<<40), int8Type)
	require.False(t, ok)
	require.Nil(t, out)

	out, ok = Safe.TryChangeType(int64(1<<40), int8Type)
	require.True(t, ok)
	require.Equal(t, int8(0), out)
}

func TestNullOnFailureProfile(t *testing.T) {
	out, err := Safe.ChangeType("not a number", int64Type)
	require.NoError(t, err)
	require.Nil(t, out)

	n, err := ToWith[int64](Safe, "not a number")
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestCanConvert(t *testing.T) {
	require.True(t, Default.CanConvert(int64Type, int8Type))
	require.True(t, Default.CanConvert(stringType, timeType))
	require.True(t, Default.CanConvert(timeType, stringType))
	require.False(t, Default.CanConvert(timeType, int64Type))
	require.False(t, Default.CanConvert(charType, float64Type))
	require.False(t, Default.CanConvert(float64Type, charType))
	require.False(t, Default.CanConvert(nil, int64Type))
	require.True(t, Default.CanConvert(nil, anyType))
	require.False(t, Default.CanConvert(int64Type, nil))
}

func TestGetConverterReusable(t *testing.T) {
	conv := Default.GetConverter(stringType, charType)

	got, err := conv("c")
	require.NoError(t, err)
	require.Equal(t, Char('c'), got)

	got, err = conv("5")
	require.NoError(t, err)
	require.Equal(t, Char('5'), got)

	_, err = conv("ab")
	require.ErrorIs(t, err, ErrMalformedText)
}

func TestGetConverterInvalidPair(t *testing.T) {
	conv := Default.GetConverter(timeType, int64Type)
	_, err := conv(time.Now())
	require.ErrorIs(t, err, ErrUnsupportedConversion)
}

func TestConverterTo(t *testing.T) {
	conv := Default.ConverterTo(int64Type)

	got, err := conv("10")
	require.NoError(t, err)
	require.Equal(t, int64(10), got)

	got, err = conv(uint8(3))
	require.NoError(t, err)
	require.Equal(t, int64(3), got)
}

func TestGenericHelpers(t *testing.T) {
	n, err := To[int32](int64(5))
	require.NoError(t, err)
	require.Equal(t, int32(5), n)

	// predeclared int routes through its underlying 64-bit kind
	i, err := To[int]("42")
	require.NoError(t, err)
	require.Equal(t, 42, i)

	s, ok := TryTo[string](int64(9))
	require.True(t, ok)
	require.Equal(t, "9", s)

	conv := GetTypedConverter[string, int64](Default)
	v, err := conv("77")
	require.NoError(t, err)
	require.Equal(t, int64(77), v)
	_, err = conv("x")
	require.ErrorIs(t, err, ErrMalformedText)
}

func TestDefaultPairConverters(t *testing.T) {
	d, err := To[time.Duration]("2h30m")
	require.NoError(t, err)
	require.Equal(t, 2*time.Hour+30*time.Minute, d)

	d, err = To[time.Duration]("1500")
	require.NoError(t, err)
	require.Equal(t, time.Duration(1500), d)

	s, err := To[string]([]byte("abc"))
	require.NoError(t, err)
	require.Equal(t, "abc", s)

	b, err := To[[]byte]("abc")
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), b)
}

func TestDecimalKind(t *testing.T) {
	d, err := To[decimal.Decimal]("12.34")
	require.NoError(t, err)
	require.Equal(t, "12.34", d.String())

	n, err := To[int64](decimal.RequireFromString("7.5"))
	require.NoError(t, err)
	require.Equal(t, int64(8), n) // half to even

	s, err := To[string](decimal.RequireFromString("-0.5"))
	require.NoError(t, err)
	require.Equal(t, "-0.5", s)

	_, err = To[int8](decimal.RequireFromString("1000"))
	require.ErrorIs(t, err, ErrRangeOverflow)
}

func TestConvErrorMessage(t *testing.T) {
	_, err := Default.ChangeType(time.Now(), int64Type)
	require.Error(t, err)
	var ce *ConvError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, timeType, ce.From)
	require.Equal(t, int64Type, ce.To)
	require.Contains(t, err.Error(), "time.Time")
}

func BenchmarkChangeType(b *testing.B) {
	b.Run("MatrixCell", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = Default.ChangeType(int64(i), int32Type)
		}
	})
	b.Run("StringParse", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = Default.ChangeType("123456", int64Type)
		}
	})
	b.Run("TypedConverter", func(b *testing.B) {
		conv := GetTypedConverter[int64, int32](Default)
		for i := 0; i < b.N; i++ {
			_, _ = conv(int64(i))
		}
	})
}
