// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package decoder

import (
	"net/netip"
	"testing"
	"time"

	"github.com/z5labs/konfig/decodeerr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestInt(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		expectedVal int
		expectErr   error
	}{
		{
			name:        "valid int",
			input:       "42",
			expectedVal: 42,
		},
		{
			name:        "surrounding whitespace",
			input:       " 7 ",
			expectedVal: 7,
		},
		{
			name:      "not a number",
			input:     "abc",
			expectErr: decodeerr.NewLeaf("int", `"abc" is not a valid int`),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			val, err := Int().Decode(tc.input)
			if tc.expectErr != nil {
				require.Equal(t, tc.expectErr, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expectedVal, val)
		})
	}
}

func TestBool(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		expectedVal bool
		expectErr   bool
	}{
		{name: "true", input: "true", expectedVal: true},
		{name: "one", input: "1", expectedVal: true},
		{name: "false", input: "FALSE", expectedVal: false},
		{name: "invalid", input: "yes please", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			val, err := Bool().Decode(tc.input)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expectedVal, val)
		})
	}
}

func TestScalars(t *testing.T) {
	t.Run("int64", func(t *testing.T) {
		v, err := Int64().Decode("9223372036854775807")
		require.NoError(t, err)
		require.Equal(t, int64(9223372036854775807), v)
	})

	t.Run("float64", func(t *testing.T) {
		v, err := Float64().Decode("1.5")
		require.NoError(t, err)
		require.Equal(t, 1.5, v)

		_, err = Float64().Decode("one")
		require.IsType(t, decodeerr.Leaf{}, err)
	})

	t.Run("duration", func(t *testing.T) {
		v, err := Duration().Decode("1m30s")
		require.NoError(t, err)
		require.Equal(t, 90*time.Second, v)

		_, err = Duration().Decode("soon")
		require.Equal(t, decodeerr.NewLeaf("duration", `"soon" is not a valid duration`), err)
	})

	t.Run("text", func(t *testing.T) {
		v, err := Text[netip.Addr]().Decode("127.0.0.1")
		require.NoError(t, err)
		require.Equal(t, netip.MustParseAddr("127.0.0.1"), v)

		_, err = Text[netip.Addr]().Decode("not-an-ip")
		require.IsType(t, decodeerr.Leaf{}, err)
	})

	t.Run("one of", func(t *testing.T) {
		dec := OneOf("debug", "info")

		v, err := dec.Decode("info")
		require.NoError(t, err)
		require.Equal(t, "info", v)

		_, err = dec.Decode("trace")
		require.Equal(t, decodeerr.NewLeaf("oneOf", `"trace" is not one of [debug, info]`), err)
	})
}

func TestList(t *testing.T) {
	t.Run("will decode every element", func(t *testing.T) {
		v, err := List(",", Int()).Decode("1, 2,3")
		require.NoError(t, err)
		require.Equal(t, []int{1, 2, 3}, v)
	})

	t.Run("will return an empty list", func(t *testing.T) {
		t.Run("if the input is blank", func(t *testing.T) {
			v, err := List(",", Int()).Decode("  ")
			require.NoError(t, err)
			require.Empty(t, v)
		})
	})

	t.Run("will report every failing element", func(t *testing.T) {
		_, err := List(",", Int()).Decode("a,2,b")

		expected := decodeerr.NewMany(
			decodeerr.NewField("[0]", decodeerr.NewLeaf("int", `"a" is not a valid int`), decodeerr.Required),
			decodeerr.NewField("[2]", decodeerr.NewLeaf("int", `"b" is not a valid int`), decodeerr.Required),
		)
		require.Equal(t, expected, err)
	})
}

func TestJSON(t *testing.T) {
	type foo struct {
		Foo string `json:"foo"`
	}

	testCases := []struct {
		name        string
		input       string
		expectedVal foo
		expectErr   bool
	}{
		{
			name:        "valid struct",
			input:       `{ "foo": "bar" }`,
			expectedVal: foo{Foo: "bar"},
		},
		{
			name:      "unknown field",
			input:     `{ "bar": "baz" }`,
			expectErr: true,
		},
		{
			name:      "wrong type",
			input:     `{ "foo": 1 }`,
			expectErr: true,
		},
		{
			name:      "trailing data",
			input:     `{ "foo": "bar" } {}`,
			expectErr: true,
		},
		{
			name:      "stray closing bracket",
			input:     `{ "foo": "bar" }]`,
			expectErr: true,
		},
		{
			name:      "stray closing brace",
			input:     `{ "foo": "bar" }}`,
			expectErr: true,
		},
		{
			name:        "trailing whitespace",
			input:       "{ \"foo\": \"bar\" }\n\t",
			expectedVal: foo{Foo: "bar"},
		},
		{
			name:      "not json",
			input:     `foo`,
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			val, err := JSON[foo]().Decode(tc.input)
			if tc.expectErr {
				var leaf decodeerr.Leaf
				require.ErrorAs(t, err, &leaf)
				require.Equal(t, "json", leaf.Key)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expectedVal, val)
		})
	}
}

func TestYAML(t *testing.T) {
	type server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	}

	v, err := YAML[server]().Decode("host: localhost\nport: 8080\n")
	require.NoError(t, err)
	require.Equal(t, server{Host: "localhost", Port: 8080}, v)

	_, err = YAML[server]().Decode("hostname: localhost\n")
	require.IsType(t, decodeerr.Leaf{}, err)
}

func TestJSONPath(t *testing.T) {
	doc := `{"db": {"host": "localhost", "port": 5432}}`

	testCases := []struct {
		name        string
		input       string
		path        string
		expectedVal string
		expectErr   error
	}{
		{
			name:        "string value",
			input:       doc,
			path:        "db.host",
			expectedVal: "localhost",
		},
		{
			name:        "non string value",
			input:       doc,
			path:        "db.port",
			expectedVal: "5432",
		},
		{
			name:      "missing path",
			input:     doc,
			path:      "db.user",
			expectErr: decodeerr.NewLeaf("jsonPath", `no value at path "db.user"`),
		},
		{
			name:      "invalid json",
			input:     `{"db":`,
			path:      "db",
			expectErr: decodeerr.NewLeaf("jsonPath", "invalid json"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			val, err := JSONPath(tc.path).Decode(tc.input)
			if tc.expectErr != nil {
				require.Equal(t, tc.expectErr, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expectedVal, val)
		})
	}
}

func TestUUID(t *testing.T) {
	id := uuid.New()

	v, err := UUID().Decode(id.String())
	require.NoError(t, err)
	require.Equal(t, id, v)

	_, err = UUID().Decode("nope")
	require.IsType(t, decodeerr.Leaf{}, err)
}

func TestCompose(t *testing.T) {
	dec := Compose(JSONPath("port"), Int())

	v, err := dec.Decode(`{"port": 8080}`)
	require.NoError(t, err)
	require.Equal(t, 8080, v)

	_, err = dec.Decode(`{"port": "http"}`)
	require.Equal(t, decodeerr.NewLeaf("int", `"http" is not a valid int`), err)
}

func TestErase(t *testing.T) {
	v, err := Erase(Int()).Decode("3")
	require.NoError(t, err)
	require.Equal(t, any(3), v)
}
