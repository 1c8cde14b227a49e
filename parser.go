// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package konfig

import (
	"github.com/z5labs/konfig/decodeerr"
	"github.com/z5labs/konfig/decoder"
	"github.com/z5labs/konfig/internal/try"
)

// Tag identifies the resolution strategy of a [Parser].
type Tag int

const (
	TagEnv Tag = iota
	TagFlag
	TagFallback
	TagPipeline
	TagInterpolation
	TagSchema
)

var tagNames = [...]string{
	TagEnv:           "Env",
	TagFlag:          "Flag",
	TagFallback:      "Fallback",
	TagPipeline:      "Pipeline",
	TagInterpolation: "Interpolation",
	TagSchema:        "Schema",
}

// String implements the [fmt.Stringer] interface.
func (t Tag) String() string {
	if t < 0 || int(t) >= len(tagNames) {
		return "Unknown"
	}
	return tagNames[t]
}

// Parser describes how a value of type A is resolved. The set of
// implementations is closed: [EnvParser], [FlagParser], [FallbackParser],
// [PipelineParser], [InterpolationParser] and [Schema].
type Parser[A any] interface {
	Tag() Tag

	read(Sources) (A, error)
}

// Run resolves p against src, handing each kind of parser the input it reads.
// On failure the returned error is always a [decodeerr.Error].
func Run[A any](p Parser[A], src Sources) (A, error) {
	switch p := p.(type) {
	case EnvParser[A]:
		return p.Read(src.Env)
	case FlagParser[A]:
		return p.Read(src.Args)
	case FallbackParser[A]:
		return p.Read()
	default:
		// pipelines, interpolations and schemas re-dispatch their children
		return p.read(src)
	}
}

func decode[R, A any](key string, dec decoder.Decoder[R, A], r R) (A, error) {
	a, err := try.Call(func() (A, error) {
		return dec.Decode(r)
	})
	if err != nil {
		var zero A
		return zero, decodeerr.From(key, err)
	}
	return a, nil
}

func failed[A any](err decodeerr.Error) (A, error) {
	var zero A
	return zero, err
}
