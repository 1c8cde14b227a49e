// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package schemafile compiles declarative schema descriptions into a [konfig.Schema].
//
// A description is a YAML (or JSON) mapping from field names to the sources
// they are resolved from. Field order is kept.
//
//	port:
//	  - env: PORT
//	    decode: int
//	  - flag: port
//	    decode: int
//	  - fallback: 8080
//	mode:
//	  arg: 1
//	db:
//	  host:
//	    - env: DB_HOST
//	    - fallback: localhost
//	addr:
//	  template: "{{ .db.host }}:{{ .port }}"
//
// A list is tried in order until a source succeeds. A mapping holding one
// of the source keys (env, flag, arg, fallback, template) with a scalar value
// is a single source, as is a fallback with a mapping value. Any other
// mapping is a nested schema, so fields may themselves be named env or arg. A template is rendered with the
// values of the fields declared before it.
//
// Descriptions only say where values come from; they never hold the values.
package schemafile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"slices"
	"strings"
	"text/template"

	"github.com/z5labs/konfig"
	"github.com/z5labs/konfig/decoder"
	"github.com/z5labs/konfig/internal/try"

	"gopkg.in/yaml.v3"
)

// Option configures how descriptions are compiled.
type Option func(*compiler)

// TemplateFunc registers the given function, f, for use in templates via the given name.
func TemplateFunc(name string, f any) Option {
	return func(c *compiler) {
		c.funcs[name] = f
	}
}

// TemplateDelims sets the action delimiters of templates. An empty
// delimiter stands for the corresponding default: {{ or }}.
func TemplateDelims(left, right string) Option {
	return func(c *compiler) {
		c.leftDelim = left
		c.rightDelim = right
	}
}

// Decoder registers dec under name so it can be selected with "decode: name".
// Built-in decoders can be replaced.
func Decoder(name string, dec decoder.Decoder[string, any]) Option {
	return func(c *compiler) {
		c.decoders[name] = dec
	}
}

// InvalidYamlError occurs if a description is not valid YAML.
type InvalidYamlError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e InvalidYamlError) Error() string {
	return fmt.Sprintf("invalid yaml: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e InvalidYamlError) Unwrap() error {
	return e.Cause
}

// InvalidSchemaError occurs if a field of a description cannot be compiled.
type InvalidSchemaError struct {
	Path  string
	Line  int
	Cause error
}

// Error implements the [builtin.error] interface.
func (e InvalidSchemaError) Error() string {
	return fmt.Sprintf("invalid field %q at line %d: %s", e.Path, e.Line, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e InvalidSchemaError) Unwrap() error {
	return e.Cause
}

// TemplateParseError occurs when a template source fails to be parsed.
type TemplateParseError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e TemplateParseError) Error() string {
	return fmt.Sprintf("failed to parse template: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e TemplateParseError) Unwrap() error {
	return e.Cause
}

// Load reads a description from r and compiles it. If r is an [io.Closer]
// it is closed.
func Load(r io.Reader, opts ...Option) (_ konfig.Schema, err error) {
	defer try.Close(&err, r)

	c := newCompiler(opts...)

	var doc yaml.Node
	err = yaml.NewDecoder(r).Decode(&doc)
	if errors.Is(err, io.EOF) {
		return konfig.NewSchema(), nil
	}
	if err != nil {
		return konfig.Schema{}, InvalidYamlError{Cause: err}
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return konfig.Schema{}, InvalidSchemaError{
			Line:  root.Line,
			Cause: errors.New("description must be a mapping of field names"),
		}
	}
	return c.schema(root, "")
}

// LoadFile opens name in fsys and compiles it.
func LoadFile(fsys fs.FS, name string, opts ...Option) (konfig.Schema, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return konfig.Schema{}, err
	}
	return Load(f, opts...)
}

type compiler struct {
	leftDelim  string
	rightDelim string
	funcs      template.FuncMap
	decoders   map[string]decoder.Decoder[string, any]
}

func newCompiler(opts ...Option) *compiler {
	c := &compiler{
		funcs:    make(template.FuncMap),
		decoders: builtinDecoders(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func builtinDecoders() map[string]decoder.Decoder[string, any] {
	return map[string]decoder.Decoder[string, any]{
		"string":   decoder.Erase(decoder.String()),
		"int":      decoder.Erase(decoder.Int()),
		"float":    decoder.Erase(decoder.Float64()),
		"bool":     decoder.Erase(decoder.Bool()),
		"duration": decoder.Erase(decoder.Duration()),
		"uuid":     decoder.Erase(decoder.UUID()),
		"json":     decoder.Erase(decoder.JSON[any]()),
		"yaml":     decoder.Erase(decoder.YAML[any]()),
		"list":     decoder.Erase(decoder.List(",", decoder.String())),
	}
}

var sourceKeys = []string{"env", "flag", "arg", "fallback", "template"}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func (c *compiler) schema(node *yaml.Node, prefix string) (konfig.Schema, error) {
	s := konfig.NewSchema()
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		val := node.Content[i+1]
		path := join(prefix, name)

		switch {
		case val.Kind == yaml.SequenceNode:
			parsers := make([]konfig.Parser[any], 0, len(val.Content))
			for _, item := range val.Content {
				p, err := c.source(item, path, s)
				if err != nil {
					return konfig.Schema{}, err
				}
				parsers = append(parsers, p)
			}
			s = konfig.Prop[any](s, name, konfig.Pipeline(parsers...))
		case val.Kind == yaml.MappingNode && isSource(val):
			p, err := c.source(val, path, s)
			if err != nil {
				return konfig.Schema{}, err
			}
			s = konfig.Prop(s, name, p)
		case val.Kind == yaml.MappingNode:
			nested, err := c.schema(val, path)
			if err != nil {
				return konfig.Schema{}, err
			}
			s = konfig.Prop[konfig.Record](s, name, nested)
		default:
			return konfig.Schema{}, InvalidSchemaError{
				Path:  path,
				Line:  val.Line,
				Cause: errors.New("expected a source, a list of sources or a nested mapping"),
			}
		}
	}
	return s, nil
}

// isSource reports whether node reads as a single source rather than a
// nested schema: one of its keys is a source key holding a scalar, or a
// fallback holding a mapping. A source key holding anything else is a
// field of a nested schema, e.g. "env: [...]".
func isSource(node *yaml.Node) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, node.Content[i+1]
		if !slices.Contains(sourceKeys, key) {
			continue
		}
		if val.Kind == yaml.ScalarNode || key == "fallback" && val.Kind == yaml.MappingNode {
			return true
		}
	}
	return false
}

type sourceSpec struct {
	Env      string    `yaml:"env"`
	Flag     string    `yaml:"flag"`
	Arg      int       `yaml:"arg"`
	Fallback yaml.Node `yaml:"fallback"`
	Template string    `yaml:"template"`
	Decode   string    `yaml:"decode"`
}

// source compiles a single source. Templates are resolved against
// siblings, the fields of s declared so far.
func (c *compiler) source(node *yaml.Node, path string, siblings konfig.Schema) (konfig.Parser[any], error) {
	invalid := func(format string, args ...any) error {
		return InvalidSchemaError{
			Path:  path,
			Line:  node.Line,
			Cause: fmt.Errorf(format, args...),
		}
	}

	if node.Kind != yaml.MappingNode {
		return nil, invalid("expected a source mapping")
	}

	var kinds []string
	for i := 0; i < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if slices.Contains(sourceKeys, key) {
			kinds = append(kinds, key)
			continue
		}
		if key != "decode" {
			return nil, invalid("unknown key %q", key)
		}
	}
	if len(kinds) != 1 {
		return nil, invalid("expected exactly one of [%s], got [%s]", strings.Join(sourceKeys, ", "), strings.Join(kinds, ", "))
	}

	var spec sourceSpec
	err := node.Decode(&spec)
	if err != nil {
		return nil, InvalidSchemaError{Path: path, Line: node.Line, Cause: err}
	}

	dec, ok := c.decoders[spec.Decode]
	if spec.Decode == "" {
		dec, ok = decoder.Erase(decoder.String()), true
	}
	if !ok {
		names := slices.Sorted(maps.Keys(c.decoders))
		return nil, invalid("unknown decoder %q, expected one of [%s]", spec.Decode, strings.Join(names, ", "))
	}

	switch kinds[0] {
	case "env":
		return konfig.EnvAs(spec.Env, dec), nil
	case "flag":
		return konfig.FlagAs(spec.Flag, dec), nil
	case "arg":
		if spec.Arg < 1 {
			return nil, invalid("arg must be a position starting at 1, got %d", spec.Arg)
		}
		return konfig.NthAs(spec.Arg, dec), nil
	case "fallback":
		v, err := c.fallback(&spec.Fallback, spec.Decode, dec)
		if err != nil {
			return nil, InvalidSchemaError{Path: path, Line: node.Line, Cause: err}
		}
		return konfig.Fallback(v), nil
	default:
		tmpl, err := c.template(path, spec.Template)
		if err != nil {
			return nil, InvalidSchemaError{Path: path, Line: node.Line, Cause: err}
		}
		return konfig.Interpolation(render(tmpl), dec)(siblings), nil
	}
}

// Scalar fallbacks go through the field's decoder when one is named, so
// "fallback: 5s" with "decode: duration" yields a time.Duration.
func (c *compiler) fallback(node *yaml.Node, decodeName string, dec decoder.Decoder[string, any]) (any, error) {
	if decodeName != "" && node.Kind == yaml.ScalarNode {
		return dec.Decode(node.Value)
	}

	var v any
	err := node.Decode(&v)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (c *compiler) template(name, text string) (*template.Template, error) {
	tmpl, err := template.New(name).
		Delims(c.leftDelim, c.rightDelim).
		Funcs(c.funcs).
		Option("missingkey=error").
		Parse(text)
	if err != nil {
		return nil, TemplateParseError{Cause: err}
	}
	return tmpl, nil
}

func render(tmpl *template.Template) func(konfig.Record) (string, error) {
	return func(rec konfig.Record) (string, error) {
		var sb strings.Builder
		err := tmpl.Execute(&sb, map[string]any(rec))
		if err != nil {
			return "", err
		}
		return sb.String(), nil
	}
}
