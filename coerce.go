// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package coerce

import (
	"errors"
	"reflect"
)

// Engine converts runtime values between representational types. It owns one
// conversion matrix, one resolution cache and one policy profile, and is safe
// for concurrent use; instances are commonly process-wide singletons.
type Engine struct {
	profile Profile
	matrix  *matrix
	cache   resolutionCache
	frozen  bool
}

// New builds an engine bound to profile. Options run before the engine is
// frozen and published.
func New(profile Profile, opts ...Option) *Engine {
	e := &Engine{
		profile: profile,
		matrix:  newMatrix(profile),
		cache:   newResolutionCache(),
	}
	for _, opt := range defaultOptions {
		opt(e)
	}
	for _, opt := range opts {
		opt(e)
	}
	e.frozen = true
	return e
}

// Default fails loudly: checked overflow, strict parsing, errors on failure.
var Default = New(StrictProfile())

// Safe never fails a call: wrapping overflow, lenient parsing, and the
// missing-value marker instead of an error.
var Safe = New(LenientProfile())

// Profile reports the policy the engine was constructed with.
func (e *Engine) Profile() Profile {
	return e.profile
}

// cellFor routes a pair: dense kinds over their canonical types hit the
// matrix directly, everything else goes through the resolution cache.
func (e *Engine) cellFor(from, to reflect.Type) cell {
	fk, tk := kindOf(from), kindOf(to)
	if fk.isDense() && tk.isDense() &&
		from == canonicalTypes[fk] && to == canonicalTypes[tk] {
		return e.matrix.load(fk, tk)
	}
	return e.cachedCell(from, to)
}

// convert is the single internal conversion path; it always reports failure
// as an error, and the public entry points map that onto their channel.
func (e *Engine) convert(v any, to reflect.Type) (any, error) {
	if to == nil {
		return nil, nilTargetErr
	}
	if v == nil {
		// the missing value is accepted only by the open target
		if to == anyType {
			return nil, nil
		}
		return nil, convErr(nil, to, nil, ErrMissingValue)
	}
	from := reflect.TypeOf(v)
	c := e.cellFor(from, to)
	if !c.ok {
		return nil, convErr(from, to, v, ErrUnsupportedConversion)
	}
	out, err := c.conv(v)
	if err != nil {
		return nil, wrapConvErr(from, to, v, err)
	}
	return out, nil
}

func wrapConvErr(from, to reflect.Type, v any, err error) error {
	var ce *ConvError
	if errors.As(err, &ce) {
		return err
	}
	return convErr(from, to, v, err)
}

// ChangeType converts v to the target type. Failure surfaces per the
// engine's profile: an error, or the missing-value marker (nil, nil).
// A nil target type is always an error.
func (e *Engine) ChangeType(v any, to reflect.Type) (any, error) {
	out, err := e.convert(v, to)
	if err != nil && e.profile.NullOnFailure && !errors.Is(err, nilTargetErr) {
		return nil, nil
	}
	return out, err
}

// TryChangeType converts v to the target type, reporting failure as a
// boolean. It never returns partial output.
func (e *Engine) TryChangeType(v any, to reflect.Type) (any, bool) {
	out, err := e.convert(v, to)
	if err != nil {
		return nil, false
	}
	return out, true
}

// CanConvert reports whether a converter exists for the pair. Its only side
// effect is populating the resolution cache.
func (e *Engine) CanConvert(from, to reflect.Type) bool {
	if to == nil {
		return false
	}
	if from == nil {
		return to == anyType
	}
	return e.cellFor(from, to).ok
}

// GetConverter returns a reusable converter for the pair, resolving it once.
// For an unconvertible pair the returned converter deterministically fails.
func (e *Engine) GetConverter(from, to reflect.Type) Converter {
	if from == nil || to == nil {
		return func(any) (any, error) {
			return nil, convErr(from, to, nil, ErrUnsupportedConversion)
		}
	}
	c := e.cellFor(from, to)
	if !c.ok {
		return func(v any) (any, error) {
			return nil, convErr(from, to, v, ErrUnsupportedConversion)
		}
	}
	return func(v any) (any, error) {
		if v == nil {
			if to == anyType {
				return nil, nil
			}
			return nil, convErr(nil, to, nil, ErrMissingValue)
		}
		out, err := c.conv(v)
		if err != nil {
			return nil, wrapConvErr(from, to, v, err)
		}
		return out, nil
	}
}

// ConverterTo returns a converter that detects the source type per call.
func (e *Engine) ConverterTo(to reflect.Type) Converter {
	return func(v any) (any, error) {
		return e.convert(v, to)
	}
}

var openTargetErr = errors.New("can't install a converter for the open target")

// SetConverter overrides the converter for a pair; it applies to the matrix
// cell when the pair is dense, to the cache entry otherwise. A nil converter
// reverts the pair to its construction-time behavior (dense) or to the
// unresolved state (open), so the resolver runs again on next use.
func (e *Engine) SetConverter(from, to reflect.Type, conv Converter) error {
	if from == nil || to == nil {
		return nilTargetErr
	}
	if to == anyType {
		return openTargetErr
	}
	if conv == nil {
		fk, tk := kindOf(from), kindOf(to)
		if fk.isDense() && tk.isDense() &&
			from == canonicalTypes[fk] && to == canonicalTypes[tk] {
			e.matrix.store(fk, tk, buildCell(fk, tk, e.profile))
		} else {
			e.cache.remove(pairKey{from: from, to: to})
		}
		return nil
	}
	e.installCell(from, to, converterCell(conv))
	return nil
}

func (e *Engine) installCell(from, to reflect.Type, c cell) {
	fk, tk := kindOf(from), kindOf(to)
	if fk.isDense() && tk.isDense() &&
		from == canonicalTypes[fk] && to == canonicalTypes[tk] {
		e.matrix.store(fk, tk, c)
		return
	}
	e.cache.store(pairKey{from: from, to: to}, c)
}

// ChangeType converts with the Default engine.
func ChangeType(v any, to reflect.Type) (any, error) {
	return Default.ChangeType(v, to)
}

// TryChangeType converts with the Default engine, reporting failure as a
// boolean.
func TryChangeType(v any, to reflect.Type) (any, bool) {
	return Default.TryChangeType(v, to)
}

// CanConvert reports pair convertibility under the Default engine.
func CanConvert(from, to reflect.Type) bool {
	return Default.CanConvert(from, to)
}

// To converts v to T with the Default engine.
func To[T any](v any) (to T, err error) {
	return ToWith[T](Default, v)
}

// ToWith converts v to T with the given engine, honoring its failure mode:
// under a null-on-failure profile the zero value is returned with a nil
// error.
func ToWith[T any](e *Engine, v any) (to T, err error) {
	out, err := e.ChangeType(v, typeFor[T]())
	if err != nil || out == nil {
		return to, err
	}
	return out.(T), nil
}

// TryTo converts v to T with the Default engine, reporting failure as a
// boolean.
func TryTo[T any](v any) (to T, ok bool) {
	return TryToWith[T](Default, v)
}

// TryToWith converts v to T with the given engine, reporting failure as a
// boolean.
func TryToWith[T any](e *Engine, v any) (to T, ok bool) {
	out, ok := e.TryChangeType(v, typeFor[T]())
	if !ok {
		return to, false
	}
	return out.(T), true
}

// GetTypedConverter resolves the F→T conversion once and returns a typed
// function over it, skipping per-call lookup.
func GetTypedConverter[F any, T any](e *Engine) func(from F) (to T, err error) {
	fromType, toType := typeFor[F](), typeFor[T]()
	conv := e.GetConverter(fromType, toType)
	return func(from F) (to T, err error) {
		out, err := conv(from)
		if err != nil || out == nil {
			return to, err
		}
		return out.(T), nil
	}
}
