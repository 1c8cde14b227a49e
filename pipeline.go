// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package konfig

import (
	"slices"

	"github.com/z5labs/konfig/decodeerr"
)

// NoMatch returns the failure of a [PipelineParser] whose parsers all failed.
func NoMatch() decodeerr.Leaf {
	return decodeerr.NewLeaf("compose", "No parsers matched")
}

// PipelineParser resolves to a single value out of an ordered list of parsers.
type PipelineParser[A any] struct {
	parsers []Parser[A]
	overlay bool
}

// Pipeline tries each parser in order and resolves to the first success.
// Parsers after it are not read.
func Pipeline[A any](parsers ...Parser[A]) PipelineParser[A] {
	return PipelineParser[A]{
		parsers: slices.Clone(parsers),
	}
}

// Overlay reads every parser and resolves to the last success, so later
// sources override earlier ones.
func Overlay[A any](parsers ...Parser[A]) PipelineParser[A] {
	return PipelineParser[A]{
		parsers: slices.Clone(parsers),
		overlay: true,
	}
}

// Tag implements the [Parser] interface.
func (PipelineParser[A]) Tag() Tag {
	return TagPipeline
}

// Read resolves the parsers against src. Individual failures are dropped;
// if nothing succeeds the result is [NoMatch].
func (p PipelineParser[A]) Read(src Sources) (A, error) {
	var (
		val   A
		found bool
	)
	for _, parser := range p.parsers {
		v, err := Run(parser, src)
		if err != nil {
			continue
		}
		val, found = v, true
		if !p.overlay {
			break
		}
	}
	if !found {
		return failed[A](NoMatch())
	}
	return val, nil
}

func (p PipelineParser[A]) read(src Sources) (A, error) {
	return p.Read(src)
}
