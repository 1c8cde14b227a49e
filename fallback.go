// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package konfig

// FallbackParser always succeeds with a literal value.
type FallbackParser[A any] struct {
	value A
}

// Fallback returns a parser which ignores every source and resolves to v.
// It is usually the last parser of a [Pipeline].
func Fallback[A any](v A) FallbackParser[A] {
	return FallbackParser[A]{value: v}
}

// Tag implements the [Parser] interface.
func (FallbackParser[A]) Tag() Tag {
	return TagFallback
}

// Read returns the literal value.
func (p FallbackParser[A]) Read() (A, error) {
	return p.value, nil
}

func (p FallbackParser[A]) read(Sources) (A, error) {
	return p.Read()
}
