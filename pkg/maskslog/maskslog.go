// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package maskslog provides a slog.Handler which masks sensitive
// configuration values before they are logged.
//
// Attributes are matched by their dotted path within a record, so the
// value logged as slog.Group("db", slog.String("password", "...")) is
// matched by "db.password" and by patterns like "*.password".
// Patterns use the syntax of [path.Match].
package maskslog

import (
	"context"
	"log/slog"
	"path"
)

type masker struct {
	pattern string
	mask    func(slog.Attr) slog.Attr
}

type options struct {
	maskers []masker
}

// Option helps configure the Handler.
type Option interface {
	applyOption(*options)
}

type optionFunc func(*options)

func (f optionFunc) applyOption(opts *options) {
	f(opts)
}

// Attr registers a function for masking any slog.Attr whose dotted
// path matches pattern.
func Attr(pattern string, f func(slog.Attr) slog.Attr) Option {
	return optionFunc(func(o *options) {
		o.maskers = append(o.maskers, masker{pattern: pattern, mask: f})
	})
}

// Fields masks every attr matching any of the given patterns with
// AnonymousStringAttr.
func Fields(patterns ...string) Option {
	return optionFunc(func(o *options) {
		for _, p := range patterns {
			o.maskers = append(o.maskers, masker{pattern: p, mask: AnonymousStringAttr})
		}
	})
}

// AnonymousStringAttr is a helper function for converting any slog.Attr
// into the anonymized string, "****". It completely ignores the given
// slog.Attr value type and always return a string value.
func AnonymousStringAttr(a slog.Attr) slog.Attr {
	return slog.String(a.Key, "****")
}

// Handler is an slog.Handler.
type Handler struct {
	slog    slog.Handler
	maskers []masker
}

// NewHandler returns a new Handler.
func NewHandler(h slog.Handler, opts ...Option) *Handler {
	o := &options{}
	for _, opt := range opts {
		opt.applyOption(o)
	}
	return &Handler{
		slog:    h,
		maskers: o.maskers,
	}
}

// Enabled implements the slog.Handler interface.
func (h *Handler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.slog.Enabled(ctx, lvl)
}

// Handle implements the slog.Handler interface.
func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	if len(h.maskers) == 0 {
		return h.slog.Handle(ctx, record)
	}

	attrs := make([]slog.Attr, 0, record.NumAttrs())
	record.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, h.maskAttr("", a))
		return true
	})

	nr := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	nr.AddAttrs(attrs...)
	return h.slog.Handle(ctx, nr)
}

func (h *Handler) maskAttr(prefix string, a slog.Attr) slog.Attr {
	key := a.Key
	if prefix != "" {
		key = prefix + "." + a.Key
	}

	for _, m := range h.maskers {
		matched, err := path.Match(m.pattern, key)
		if err == nil && matched {
			return m.mask(a)
		}
	}

	v := a.Value.Resolve()
	if v.Kind() != slog.KindGroup {
		return a
	}

	group := v.Group()
	masked := make([]slog.Attr, len(group))
	for i, ga := range group {
		masked[i] = h.maskAttr(key, ga)
	}
	return slog.Attr{Key: a.Key, Value: slog.GroupValue(masked...)}
}

// WithAttrs implements the slog.Handler interface.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.maskAttr("", a)
	}
	return &Handler{
		slog:    h.slog.WithAttrs(masked),
		maskers: h.maskers,
	}
}

// WithGroup implements the slog.Handler interface.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{
		slog:    h.slog.WithGroup(name),
		maskers: h.maskers,
	}
}
