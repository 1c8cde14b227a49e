// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package konfig

import (
	"github.com/z5labs/konfig/decodeerr"
	"github.com/z5labs/konfig/decoder"
	"github.com/z5labs/konfig/internal/try"
)

// InterpolationParser derives a value from the resolved [Record] of a [Schema].
type InterpolationParser[A any] struct {
	schema Schema
	derive func(Record) (A, error)
}

// Interpolation returns a constructor which, given a Schema, builds a parser
// that resolves the Schema, passes the resulting Record to fn and decodes
// what fn returns with dec.
//
// An error returned by fn, or a panic inside it, is reported as an
// "interpolation" [decodeerr.Leaf].
func Interpolation[R, A any](fn func(Record) (R, error), dec decoder.Decoder[R, A]) func(Schema) InterpolationParser[A] {
	derive := func(rec Record) (A, error) {
		r, err := try.Call(func() (R, error) {
			return fn(rec)
		})
		if err != nil {
			return failed[A](decodeerr.NewLeaf("interpolation", "Failed to interpolate: "+err.Error()))
		}
		return decode("interpolation", dec, r)
	}

	return func(s Schema) InterpolationParser[A] {
		return InterpolationParser[A]{
			schema: s,
			derive: derive,
		}
	}
}

// Interpolate is [Interpolation] without a decoder; the value returned by fn is used as is.
func Interpolate[A any](s Schema, fn func(Record) (A, error)) InterpolationParser[A] {
	return Interpolation(fn, decoder.Identity[A]())(s)
}

// Tag implements the [Parser] interface.
func (InterpolationParser[A]) Tag() Tag {
	return TagInterpolation
}

// Read resolves the underlying Schema against src before deriving the value,
// so every read re-reads the Schema's sources. A Schema failure is returned
// unchanged.
func (p InterpolationParser[A]) Read(src Sources) (A, error) {
	rec, err := Run[Record](p.schema, src)
	if err != nil {
		var zero A
		return zero, err
	}
	return p.derive(rec)
}

func (p InterpolationParser[A]) read(src Sources) (A, error) {
	return p.Read(src)
}
