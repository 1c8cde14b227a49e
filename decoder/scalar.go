// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package decoder

import (
	"encoding"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/z5labs/konfig/decodeerr"
)

// Int decodes a base 10 int.
func Int() Decoder[string, int] {
	return Func[string, int](func(s string) (int, error) {
		i, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fail[int]("int", "%q is not a valid int", s)
		}
		return i, nil
	})
}

// Int64 decodes a base 10 int64.
func Int64() Decoder[string, int64] {
	return Func[string, int64](func(s string) (int64, error) {
		i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return fail[int64]("int64", "%q is not a valid int64", s)
		}
		return i, nil
	})
}

// Float64 decodes a float64.
func Float64() Decoder[string, float64] {
	return Func[string, float64](func(s string) (float64, error) {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fail[float64]("float64", "%q is not a valid number", s)
		}
		return f, nil
	})
}

// Bool accepts the same spellings as [strconv.ParseBool].
func Bool() Decoder[string, bool] {
	return Func[string, bool](func(s string) (bool, error) {
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return fail[bool]("bool", "%q is not a valid bool", s)
		}
		return b, nil
	})
}

// Duration decodes values like "1m30s" with [time.ParseDuration].
func Duration() Decoder[string, time.Duration] {
	return Func[string, time.Duration](func(s string) (time.Duration, error) {
		d, err := time.ParseDuration(strings.TrimSpace(s))
		if err != nil {
			return fail[time.Duration]("duration", "%q is not a valid duration", s)
		}
		return d, nil
	})
}

// Text decodes any type whose pointer implements [encoding.TextUnmarshaler].
func Text[T any, PT interface {
	*T
	encoding.TextUnmarshaler
}]() Decoder[string, T] {
	return Func[string, T](func(s string) (T, error) {
		var t T
		err := PT(&t).UnmarshalText([]byte(s))
		if err != nil {
			return fail[T]("text", "%s", err)
		}
		return t, nil
	})
}

// OneOf only accepts the given values.
func OneOf(values ...string) Decoder[string, string] {
	return Func[string, string](func(s string) (string, error) {
		if slices.Contains(values, s) {
			return s, nil
		}
		return fail[string]("oneOf", "%q is not one of [%s]", s, strings.Join(values, ", "))
	})
}

// List splits on sep and decodes every element with elem. All element
// failures are reported, each under its index.
func List[A any](sep string, elem Decoder[string, A]) Decoder[string, []A] {
	return Func[string, []A](func(s string) ([]A, error) {
		if strings.TrimSpace(s) == "" {
			return []A{}, nil
		}

		parts := strings.Split(s, sep)
		out := make([]A, 0, len(parts))
		var errs []decodeerr.Error
		for i, part := range parts {
			a, err := elem.Decode(strings.TrimSpace(part))
			if err != nil {
				name := fmt.Sprintf("[%d]", i)
				errs = append(errs, decodeerr.NewField(name, decodeerr.From("list", err), decodeerr.Required))
				continue
			}
			out = append(out, a)
		}
		if len(errs) > 0 {
			return nil, decodeerr.NewMany(errs[0], errs[1:]...)
		}
		return out, nil
	})
}
