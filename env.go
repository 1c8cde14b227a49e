// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package konfig

import (
	"github.com/z5labs/konfig/decodeerr"
	"github.com/z5labs/konfig/decoder"
)

// MissingEnv is the reason reported when an environment variable is not set.
const MissingEnv = "Missing environment variable"

// EnvParser reads a single environment variable.
type EnvParser[A any] struct {
	name string
	dec  decoder.Decoder[string, A]
}

// Env reads the named environment variable as is.
func Env(name string) EnvParser[string] {
	return EnvAs(name, decoder.String())
}

// EnvAs reads the named environment variable and decodes it with dec.
func EnvAs[A any](name string, dec decoder.Decoder[string, A]) EnvParser[A] {
	return EnvParser[A]{
		name: name,
		dec:  dec,
	}
}

// Name returns the environment variable read by p.
func (p EnvParser[A]) Name() string {
	return p.name
}

// Tag implements the [Parser] interface.
func (EnvParser[A]) Tag() Tag {
	return TagEnv
}

// Read looks up the variable in env. A variable which is not set is a
// failure, never a default.
func (p EnvParser[A]) Read(env Environ) (A, error) {
	raw, ok := env.Lookup(p.name)
	if !ok {
		return failed[A](decodeerr.NewLeaf(p.name, MissingEnv))
	}
	return decode(p.name, p.dec, raw)
}

func (p EnvParser[A]) read(src Sources) (A, error) {
	return p.Read(src.Env)
}
