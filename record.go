// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package konfig

import (
	"fmt"
	"strings"
)

// Record is the resolved value of a [Schema]. Nested schemas resolve
// to nested Records.
type Record map[string]any

// LookupError occurs when [Lookup] cannot return a value of the requested type.
type LookupError struct {
	Path   string
	Reason string
}

// Error implements the [builtin.error] interface.
func (e LookupError) Error() string {
	return fmt.Sprintf("lookup %q: %s", e.Path, e.Reason)
}

// Lookup returns the value at path, where path is a dot separated list of
// field names walking into nested Records.
func Lookup[A any](r Record, path string) (A, error) {
	var zero A

	names := strings.Split(path, ".")
	cur := r
	for i, name := range names {
		v, ok := cur[name]
		if !ok {
			return zero, LookupError{Path: path, Reason: "no such field"}
		}
		if i == len(names)-1 {
			a, ok := v.(A)
			if !ok {
				return zero, LookupError{
					Path:   path,
					Reason: fmt.Sprintf("value is a %T, not a %T", v, zero),
				}
			}
			return a, nil
		}

		next, ok := v.(Record)
		if !ok {
			return zero, LookupError{Path: path, Reason: fmt.Sprintf("%q is not a nested record", name)}
		}
		cur = next
	}
	return zero, LookupError{Path: path, Reason: "no such field"}
}
