// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package konfig

import (
	"fmt"

	"github.com/z5labs/konfig/decodeerr"
	"github.com/z5labs/konfig/decoder"
	"github.com/z5labs/konfig/internal/argv"
)

// MissingArg is the reason reported when a flag or positional argument is not given.
const MissingArg = "Missing argument"

// FlagParser reads a command-line flag or a positional argument.
type FlagParser[A any] struct {
	key     string
	missing string
	lookup  func(argv.Parsed) (string, bool)
	dec     decoder.Decoder[string, A]
}

// Flag reads the named flag, given as --name value or --name=value.
func Flag(name string) FlagParser[string] {
	return FlagAs(name, decoder.String())
}

// FlagAs reads the named flag and decodes it with dec.
func FlagAs[A any](name string, dec decoder.Decoder[string, A]) FlagParser[A] {
	return FlagParser[A]{
		key:     name,
		missing: MissingArg,
		lookup: func(p argv.Parsed) (string, bool) {
			return p.Lookup(name)
		},
		dec: dec,
	}
}

// Nth reads the n-th positional argument, counting from 1. Flags and
// their values are not counted.
func Nth(n int) FlagParser[string] {
	return NthAs(n, decoder.String())
}

// NthAs reads the n-th positional argument and decodes it with dec.
func NthAs[A any](n int, dec decoder.Decoder[string, A]) FlagParser[A] {
	return FlagParser[A]{
		key:     fmt.Sprintf("<%d>", n),
		missing: MissingArg,
		lookup: func(p argv.Parsed) (string, bool) {
			return p.Nth(n)
		},
		dec: dec,
	}
}

// FirstArgument reads the first positional argument, usually a subcommand
// or entrypoint.
func FirstArgument() FlagParser[string] {
	return FlagParser[string]{
		key:     "<entrypoint>",
		missing: "Entrypoint was expected.",
		lookup: func(p argv.Parsed) (string, bool) {
			return p.Nth(1)
		},
		dec: decoder.String(),
	}
}

// Key returns the name the parser reports failures under.
func (p FlagParser[A]) Key() string {
	return p.key
}

// Tag implements the [Parser] interface.
func (FlagParser[A]) Tag() Tag {
	return TagFlag
}

// Read parses args and looks up the flag or positional argument.
func (p FlagParser[A]) Read(args Args) (A, error) {
	raw, ok := p.lookup(argv.Parse(args))
	if !ok {
		return failed[A](decodeerr.NewLeaf(p.key, p.missing))
	}
	return decode(p.key, p.dec, raw)
}

func (p FlagParser[A]) read(src Sources) (A, error) {
	return p.Read(src.Args)
}
