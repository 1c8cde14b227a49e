// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package decodeerr provides the structured error tree returned when
// configuration values fail to resolve.
//
// A tree is built from three shapes:
//   - [Leaf], a terminal cause identified by a key and a reason
//   - [Field], a schema field wrapping the cause of its failure
//   - [Many], an ordered, non-empty group of sibling failures
//
// Trees are plain values. They are never mutated once built and
// can be rendered for humans with [Draw].
package decodeerr

import (
	"errors"
	"fmt"
	"strings"
)

// Required is the context attached to a [Field] whose parser failed.
const Required = "required"

// Error is implemented by every node of a decode error tree.
type Error interface {
	error

	isDecodeError()
}

// Leaf is a terminal cause, e.g. a missing environment variable.
type Leaf struct {
	Key    string
	Reason string
}

// NewLeaf returns a [Leaf] for the given key and reason.
func NewLeaf(key, reason string) Leaf {
	return Leaf{Key: key, Reason: reason}
}

func (Leaf) isDecodeError() {}

// Error implements the [builtin.error] interface.
func (e Leaf) Error() string {
	return fmt.Sprintf("%s: %s", e.Key, e.Reason)
}

// Field scopes a cause to a named schema field.
type Field struct {
	Name    string
	Cause   Error
	Context string
}

// NewField returns a [Field] wrapping cause.
func NewField(name string, cause Error, context string) Field {
	return Field{Name: name, Cause: cause, Context: context}
}

func (Field) isDecodeError() {}

// Error implements the [builtin.error] interface.
func (e Field) Error() string {
	return fmt.Sprintf("%s property %q: %s", e.Context, e.Name, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e Field) Unwrap() error {
	return e.Cause
}

// Many groups sibling failures. It always holds at least one error when
// built with [NewMany] or [Concat], the only supported constructors.
// A literal Many without errors draws as "no errors".
type Many struct {
	Errors []Error
}

// NewMany returns a [Many]. Requiring first keeps the group non-empty.
func NewMany(first Error, rest ...Error) Many {
	errs := make([]Error, 0, len(rest)+1)
	errs = append(errs, first)
	errs = append(errs, rest...)
	return Many{Errors: errs}
}

func (Many) isDecodeError() {}

// Error implements the [builtin.error] interface.
func (e Many) Error() string {
	ss := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		ss[i] = err.Error()
	}
	return strings.Join(ss, "; ")
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e Many) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// Concat merges two trees into a single [Many]. Operands which are
// already a [Many] are flattened so their children keep their order.
func Concat(a, b Error) Many {
	var errs []Error
	for _, err := range []Error{a, b} {
		if m, ok := err.(Many); ok {
			errs = append(errs, m.Errors...)
			continue
		}
		errs = append(errs, err)
	}
	return Many{Errors: errs}
}

// From converts err into a tree node. Decode errors are returned as is,
// anything else becomes a [Leaf] keyed by key.
func From(key string, err error) Error {
	if err == nil {
		return nil
	}
	var derr Error
	if errors.As(err, &derr) {
		return derr
	}
	return NewLeaf(key, err.Error())
}
