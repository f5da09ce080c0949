package coerce

import (
	"testing"

	"github.com/spf13/cast"
	"github.com/stretchr/testify/require"
)

// The engine's text grammar for the common cases agrees with spf13/cast,
// which many callers migrate from.

func TestInteropIntegerText(t *testing.T) {
	for _, s := range []string{"0", "42", "-7", "9223372036854775807"} {
		want, err := cast.ToInt64E(s)
		require.NoError(t, err)

		got, err := To[int64](s)
		require.NoError(t, err)
		require.Equal(t, want, got, "parse %q", s)
	}
}

func TestInteropFormatting(t *testing.T) {
	for _, v := range []any{int64(123), uint64(456), true, float64(1.25)} {
		want, err := cast.ToStringE(v)
		require.NoError(t, err)

		got, err := To[string](v)
		require.NoError(t, err)
		require.Equal(t, want, got, "format %T(%v)", v, v)
	}
}

func TestInteropBoolText(t *testing.T) {
	// the 1/0/t/f shorthands are part of the extended grammar
	for _, s := range []string{"true", "false", "1", "0", "t", "f"} {
		want, err := cast.ToBoolE(s)
		require.NoError(t, err)

		got, err := ToWith[bool](Safe, s)
		require.NoError(t, err)
		require.Equal(t, want, got, "parse %q", s)
	}
}
