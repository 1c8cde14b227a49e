// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package konfig

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/z5labs/konfig/decodeerr"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

// Extract resolves s against src and decodes the resulting [Record] into T.
//
// Struct fields are matched to Record fields with the "config" tag.
// Strings are converted into [time.Duration] and [encoding.TextUnmarshaler]
// fields. Once decoded, "validate" tags are enforced and every violation
// is reported in a single [decodeerr.Many].
func Extract[T any](s Schema, src Sources) (T, error) {
	var t T

	rec, err := s.Read(src)
	if err != nil {
		return t, err
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "config",
		Result:  &t,
		DecodeHook: composeDecodeHooks(
			textUnmarshalerHookFunc(),
			timeDurationHookFunc(),
		),
	})
	if err != nil {
		return t, err
	}
	err = dec.Decode(rec)
	if err != nil {
		var cerr TypeCoercionError
		if errors.As(err, &cerr) {
			return t, err
		}
		return t, TypeCoercionError{Cause: err}
	}

	err = validateStruct(&t)
	if err != nil {
		return t, err
	}
	return t, nil
}

// ResolveError carries the failure of a resolution which was expected
// to succeed, e.g. by [Must].
type ResolveError struct {
	Cause decodeerr.Error
}

// Error implements the [builtin.error] interface.
func (e ResolveError) Error() string {
	return fmt.Sprintf("failed to resolve configuration:\n%s", decodeerr.Draw(e.Cause))
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e ResolveError) Unwrap() error {
	return e.Cause
}

// Must resolves p against src and panics with a [ResolveError] on failure.
func Must[A any](p Parser[A], src Sources) A {
	a, err := Run(p, src)
	if err != nil {
		panic(ResolveError{Cause: decodeerr.From("konfig", err)})
	}
	return a
}

var errInvalidDecodeCondition = errors.New("invalid decode condition")

// TypeCoercionError occurs when a resolved value cannot be decoded into
// the struct field it is destined for.
type TypeCoercionError struct {
	from  reflect.Value
	to    reflect.Value
	Cause error
}

// Error implements the [builtin.error] interface.
func (e TypeCoercionError) Error() string {
	if !e.from.IsValid() || !e.to.IsValid() {
		return fmt.Sprintf("failed to coerce value: %s", e.Cause)
	}
	return fmt.Sprintf("failed to coerce value from %s to %s: %s", e.from.Type(), e.to.Type(), e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e TypeCoercionError) Unwrap() error {
	return e.Cause
}

func composeDecodeHooks(hs ...mapstructure.DecodeHookFunc) mapstructure.DecodeHookFuncValue {
	return func(f, t reflect.Value) (any, error) {
		for _, h := range hs {
			v, err := mapstructure.DecodeHookExec(h, f, t)
			if err == nil {
				return v, nil
			}
			if err == errInvalidDecodeCondition {
				continue
			}
			return nil, TypeCoercionError{
				from:  f,
				to:    t,
				Cause: err,
			}
		}
		return f.Interface(), nil
	}
}

func textUnmarshalerHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return nil, errInvalidDecodeCondition
		}
		result := reflect.New(t)
		u, ok := result.Interface().(encoding.TextUnmarshaler)
		if !ok {
			return nil, errInvalidDecodeCondition
		}
		err := u.UnmarshalText([]byte(reflect.ValueOf(data).String()))
		if err != nil {
			return nil, err
		}
		return result.Elem().Interface(), nil
	}
}

func timeDurationHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if t != reflect.TypeOf(time.Duration(0)) {
			return nil, errInvalidDecodeCondition
		}

		switch f.Kind() {
		case reflect.String:
			return time.ParseDuration(reflect.ValueOf(data).String())
		case reflect.Int:
			return time.Duration(int64(data.(int))), nil
		default:
			return nil, errInvalidDecodeCondition
		}
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("config"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		default:
			return name
		}
	})
	return v
}

func validateStruct(v any) error {
	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Struct {
		return nil
	}

	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	errs := make([]decodeerr.Error, len(verrs))
	for i, fe := range verrs {
		// drop the root struct name from the namespace
		_, path, _ := strings.Cut(fe.Namespace(), ".")
		errs[i] = decodeerr.NewField(
			path,
			decodeerr.NewLeaf(fe.Field(), fmt.Sprintf("failed on the '%s' rule", fe.Tag())),
			decodeerr.Required,
		)
	}
	return decodeerr.NewMany(errs[0], errs[1:]...)
}
