// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package coerce converts runtime values between representational types
// without per-pair caller logic: feed it a value and a target type and it
// finds the conversion, whether that is a dense primitive-to-primitive cell,
// a text parse, an enum name lookup, or a reflection-discovered conversion
// memoized per type pair.
//
// Two engines ship ready to use. Default checks numeric overflow, parses
// strictly and fails with an error; Safe wraps on overflow, parses leniently
// and reports failure as the missing-value marker:
//
//	n, err := coerce.To[int32](int64(42))        // 42, nil
//	_, err = coerce.To[int32](int64(1 << 40))    // range overflow error
//	n, _ = coerce.ToWith[int32](coerce.Safe, v)  // wraps instead
//
// Callers converting many values of one pair should resolve the conversion
// once with GetTypedConverter or Engine.GetConverter and reuse it.
package coerce
