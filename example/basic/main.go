// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command basic resolves a small configuration from the environment and
// arguments of the process and prints it as JSON.
//
//	$ go run ./example/basic
//	{
//	    "env": "foo",
//	    "arg": 1,
//	    "composed": "foobar",
//	    "jsonValue": {
//	        "foo": "bar"
//	    },
//	    "naked": {
//	        "foo": "foo",
//	        "env": "nested",
//	        "nestedNaked": {
//	            "env": "nested-nested"
//	        }
//	    },
//	    "bound": "foo-1-foobar"
//	}
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/z5labs/konfig"
	"github.com/z5labs/konfig/decodeerr"
	"github.com/z5labs/konfig/decoder"
)

type Config struct {
	Env       string `config:"env" json:"env"`
	Arg       int    `config:"arg" json:"arg"`
	Composed  string `config:"composed" json:"composed"`
	JSONValue struct {
		Foo string `config:"foo" json:"foo"`
	} `config:"jsonValue" json:"jsonValue"`
	Naked struct {
		Foo         string `config:"foo" json:"foo"`
		Env         string `config:"env" json:"env"`
		NestedNaked struct {
			Env string `config:"env" json:"env"`
		} `config:"nestedNaked" json:"nestedNaked"`
	} `config:"naked" json:"naked"`
	Bound string `config:"bound" json:"bound"`
}

func schema() konfig.Schema {
	s := konfig.NewSchema(
		konfig.Field("env", konfig.Pipeline[string](
			konfig.Env("FOOBAR"),
			konfig.Fallback("foo"),
		)),
		konfig.Field("arg", konfig.Pipeline[int](
			konfig.FlagAs("foo", decoder.Int()),
			konfig.Fallback(1),
		)),
		konfig.Field("composed", konfig.Pipeline[string](
			konfig.Env("BAZ"),
			konfig.Flag("bar"),
			konfig.Fallback("foobar"),
		)),
		konfig.Field("jsonValue", konfig.Pipeline[map[string]string](
			konfig.EnvAs("JSON_VAL", decoder.JSON[map[string]string]()),
			konfig.Fallback(map[string]string{"foo": "bar"}),
		)),
		konfig.Field("naked", konfig.NewSchema(
			konfig.Field("foo", konfig.Pipeline[string](konfig.Env("FOO"), konfig.Fallback("foo"))),
			konfig.Field("env", konfig.Pipeline[string](konfig.Env("NESTED"), konfig.Fallback("nested"))),
			konfig.Field("nestedNaked", konfig.NewSchema(
				konfig.Field("env", konfig.Pipeline[string](konfig.Env("NESTED_NESTED"), konfig.Fallback("nested-nested"))),
			)),
		)),
	)

	return konfig.Bind(s, "bound", func(r konfig.Record) (string, error) {
		return fmt.Sprintf("%s-%d-%s", r["env"], r["arg"], r["composed"]), nil
	})
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{}))

	cfg, err := konfig.Extract[Config](schema(), konfig.OS())
	if derr, ok := err.(decodeerr.Error); ok {
		fmt.Fprintln(os.Stderr, konfig.ResolveError{Cause: derr})
		os.Exit(1)
	}
	if err != nil {
		log.Error("failed to extract config", slog.Any("error", err))
		os.Exit(1)
	}

	b, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		log.Error("failed to marshal config", slog.Any("error", err))
		os.Exit(1)
	}
	fmt.Println(string(b))
}
