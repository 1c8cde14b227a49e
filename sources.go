// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package konfig

import (
	"os"
	"slices"
	"strings"
)

// Environ is a read-only snapshot of environment variables.
type Environ map[string]string

// FromEnviron builds an Environ from "KEY=value" pairs, as returned by [os.Environ].
// Pairs without a "=" are ignored.
func FromEnviron(pairs []string) Environ {
	env := make(Environ, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		env[k] = v
	}
	return env
}

// Lookup returns the value of the named variable.
func (e Environ) Lookup(name string) (string, bool) {
	v, ok := e[name]
	return v, ok
}

// Args is a raw argument vector, without the program name.
type Args []string

// Sources holds the raw inputs parsers are resolved against.
// Parsers never modify them.
type Sources struct {
	Env  Environ
	Args Args
}

// OS snapshots the environment and arguments of the current process.
func OS() Sources {
	var args Args
	if len(os.Args) > 1 {
		args = slices.Clone(os.Args[1:])
	}
	return Sources{
		Env:  FromEnviron(os.Environ()),
		Args: args,
	}
}
