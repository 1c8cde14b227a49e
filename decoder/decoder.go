// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package decoder provides the capability used to turn raw configuration
// values into typed ones, along with decoders for common types.
//
// Every failure returned by the decoders in this package is a
// [decodeerr.Leaf] keyed by the name of the decoder, e.g. "int".
package decoder

import (
	"fmt"

	"github.com/z5labs/konfig/decodeerr"
)

// Decoder decodes a raw value of type R into a value of type A.
type Decoder[R, A any] interface {
	Decode(R) (A, error)
}

// Func is a functional implementation of [Decoder].
type Func[R, A any] func(R) (A, error)

// Decode implements the [Decoder] interface.
func (f Func[R, A]) Decode(r R) (A, error) {
	return f(r)
}

// Identity returns its input unchanged.
func Identity[A any]() Decoder[A, A] {
	return Func[A, A](func(a A) (A, error) {
		return a, nil
	})
}

// String is the default decoder for environment variables and flags.
func String() Decoder[string, string] {
	return Identity[string]()
}

// Compose feeds the output of first into second.
func Compose[R, B, A any](first Decoder[R, B], second Decoder[B, A]) Decoder[R, A] {
	return Func[R, A](func(r R) (A, error) {
		b, err := first.Decode(r)
		if err != nil {
			var zero A
			return zero, err
		}
		return second.Decode(b)
	})
}

// Map applies f to every successfully decoded value.
func Map[R, B, A any](dec Decoder[R, B], f func(B) A) Decoder[R, A] {
	return Func[R, A](func(r R) (A, error) {
		b, err := dec.Decode(r)
		if err != nil {
			var zero A
			return zero, err
		}
		return f(b), nil
	})
}

// Erase widens the output of dec to any, which is what
// heterogeneous collections of decoders need.
func Erase[R, A any](dec Decoder[R, A]) Decoder[R, any] {
	return Map(dec, func(a A) any { return a })
}

func fail[A any](name string, format string, args ...any) (A, error) {
	var zero A
	return zero, decodeerr.NewLeaf(name, fmt.Sprintf(format, args...))
}
