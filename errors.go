// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package coerce

import (
	"errors"
	"fmt"
	"reflect"
)

// The four failure classes every conversion error collapses to.
// Test with errors.Is.
var (
	ErrUnsupportedConversion = errors.New("unsupported conversion")
	ErrRangeOverflow         = errors.New("value out of target range")
	ErrMalformedText         = errors.New("malformed text")
	ErrMissingValue          = errors.New("missing value")
)

var nilTargetErr = errors.New("target type is <nil>")

// ConvError describes a failed conversion of one value.
type ConvError struct {
	From  reflect.Type // nil when the source was the null marker
	To    reflect.Type
	Value any
	Err   error // one of the sentinel errors above, possibly wrapped further
}

func (e *ConvError) Error() string {
	return "can't convert <" + typeString(e.From) + "> to <" + typeString(e.To) + ">: " + e.Err.Error()
}

func (e *ConvError) Unwrap() error {
	return e.Err
}

func typeString(typ reflect.Type) string {
	if typ == nil {
		return "nil"
	}
	return typ.String()
}

func convErr(from, to reflect.Type, value any, err error) error {
	return &ConvError{From: from, To: to, Value: value, Err: err}
}

func overflowErr(value any, kind Kind) error {
	return fmt.Errorf("%w: %v does not fit %s", ErrRangeOverflow, value, kind)
}

func malformedErr(text string, kind Kind) error {
	return fmt.Errorf("%w: %q is not a valid %s", ErrMalformedText, text, kind)
}
