// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package decoder

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// JSON decodes a JSON document into T. Unknown object fields are rejected.
func JSON[T any]() Decoder[string, T] {
	return Func[string, T](func(s string) (T, error) {
		var t T
		dec := json.NewDecoder(strings.NewReader(s))
		dec.DisallowUnknownFields()
		err := dec.Decode(&t)
		if err != nil {
			return fail[T]("json", "invalid json: %s", err)
		}
		err = dec.Decode(&json.RawMessage{})
		if !errors.Is(err, io.EOF) {
			return fail[T]("json", "invalid json: unexpected data after top-level value")
		}
		return t, nil
	})
}

// YAML decodes a YAML document into T. Unknown mapping keys are rejected.
func YAML[T any]() Decoder[string, T] {
	return Func[string, T](func(s string) (T, error) {
		var t T
		dec := yaml.NewDecoder(bytes.NewReader([]byte(s)))
		dec.KnownFields(true)
		err := dec.Decode(&t)
		if err != nil && !errors.Is(err, io.EOF) {
			return fail[T]("yaml", "invalid yaml: %s", err)
		}
		return t, nil
	})
}

// JSONPath extracts the value at path, in gjson syntax, from a JSON
// document. Strings are returned unquoted, anything else as raw JSON.
func JSONPath(path string) Decoder[string, string] {
	return Func[string, string](func(s string) (string, error) {
		if !gjson.Valid(s) {
			return fail[string]("jsonPath", "invalid json")
		}
		res := gjson.Get(s, path)
		if !res.Exists() {
			return fail[string]("jsonPath", "no value at path %q", path)
		}
		if res.Type == gjson.String {
			return res.Str, nil
		}
		return res.Raw, nil
	})
}

// UUID decodes any of the textual forms accepted by [uuid.Parse].
func UUID() Decoder[string, uuid.UUID] {
	return Func[string, uuid.UUID](func(s string) (uuid.UUID, error) {
		id, err := uuid.Parse(strings.TrimSpace(s))
		if err != nil {
			return fail[uuid.UUID]("uuid", "%q is not a valid uuid: %s", s, err)
		}
		return id, nil
	})
}
