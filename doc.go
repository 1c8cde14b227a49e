// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package konfig provides a declarative, composable way of resolving configuration.
//
// The package is built around the concept of a Parser[A], which describes where a
// configuration value may come from. Parsers are immutable values and are combined
// into larger parsers, all the way up to a Schema describing an entire configuration.
//
// # Parsers
//
//   - Env: read an environment variable
//   - Flag, Nth: read a command-line flag or positional argument
//   - Fallback: always succeed with a literal value
//   - Pipeline: try parsers in order, the first success wins
//   - Overlay: try every parser, the last success wins
//   - Interpolation: derive a value from a resolved Schema
//   - Schema: resolve named parsers into a Record
//
// # Basic Usage
//
// Describe the configuration:
//
//	s := konfig.NewSchema(
//	    konfig.Field("port", konfig.Pipeline[int](
//	        konfig.EnvAs("PORT", decoder.Int()),
//	        konfig.FlagAs("port", decoder.Int()),
//	        konfig.Fallback(8080),
//	    )),
//	    konfig.Field("host", konfig.Pipeline[string](
//	        konfig.Env("HOST"),
//	        konfig.Fallback("localhost"),
//	    )),
//	)
//
// Derive values from fields already declared:
//
//	s = konfig.Bind(s, "addr", func(r konfig.Record) (string, error) {
//	    return fmt.Sprintf("%s:%d", r["host"], r["port"]), nil
//	})
//
// Resolve it against the process environment and arguments:
//
//	rec, err := konfig.Run(s, konfig.OS())
//
// # Error Handling
//
// A Schema never stops at the first failing field. Every field is resolved and
// all failures are returned together as a single decodeerr.Error tree, which
// can be rendered with decodeerr.Draw.
package konfig
