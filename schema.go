// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package konfig

import (
	"slices"

	"github.com/z5labs/konfig/decodeerr"
)

// SchemaField is a named parser belonging to a [Schema].
type SchemaField struct {
	name    string
	tag     Tag
	resolve func(Sources) (any, error)
}

// Field names p so it can be added to a [Schema].
func Field[A any](name string, p Parser[A]) SchemaField {
	return SchemaField{
		name: name,
		tag:  p.Tag(),
		resolve: func(src Sources) (any, error) {
			v, err := Run(p, src)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	}
}

// Name returns the field name.
func (f SchemaField) Name() string {
	return f.name
}

// Tag returns the tag of the underlying parser.
func (f SchemaField) Tag() Tag {
	return f.tag
}

// Schema resolves an ordered set of named parsers into a [Record].
// A Schema is itself a Parser[Record], so schemas nest.
type Schema struct {
	fields []SchemaField
}

// NewSchema returns a Schema with the given fields, in order. A field
// whose name was already used replaces the earlier one in place.
func NewSchema(fields ...SchemaField) Schema {
	var s Schema
	for _, f := range fields {
		s.fields = insert(s.fields, f)
	}
	return s
}

func insert(fields []SchemaField, f SchemaField) []SchemaField {
	i := slices.IndexFunc(fields, func(g SchemaField) bool {
		return g.name == f.name
	})
	if i < 0 {
		return append(fields, f)
	}
	fields[i] = f
	return fields
}

// With returns a new Schema extended with f. s is left unchanged.
func (s Schema) With(f SchemaField) Schema {
	return Schema{
		fields: insert(slices.Clone(s.fields), f),
	}
}

// Fields returns the field names in declaration order.
func (s Schema) Fields() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.name
	}
	return names
}

// Tag implements the [Parser] interface.
func (Schema) Tag() Tag {
	return TagSchema
}

// Read resolves every field, even after one has failed. If any field fails,
// the result is a [decodeerr.Many] holding one [decodeerr.Field] per failed
// field, in declaration order, and no values are returned.
func (s Schema) Read(src Sources) (Record, error) {
	rec := make(Record, len(s.fields))

	var errs []decodeerr.Error
	for _, f := range s.fields {
		v, err := f.resolve(src)
		if err != nil {
			cause := decodeerr.From(f.name, err)
			errs = append(errs, decodeerr.NewField(f.name, cause, decodeerr.Required))
			continue
		}
		rec[f.name] = v
	}
	if len(errs) > 0 {
		return nil, decodeerr.NewMany(errs[0], errs[1:]...)
	}
	return rec, nil
}

func (s Schema) read(src Sources) (Record, error) {
	return s.Read(src)
}

// Prop returns a new Schema extended with a field named name resolved by p.
func Prop[A any](s Schema, name string, p Parser[A]) Schema {
	return s.With(Field(name, p))
}

// Bind returns a new Schema extended with a field derived from the
// resolved values of s. See [Interpolate].
func Bind[A any](s Schema, name string, fn func(Record) (A, error)) Schema {
	return Prop[A](s, name, Interpolate(s, fn))
}
