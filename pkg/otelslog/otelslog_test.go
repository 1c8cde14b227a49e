// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otelslog

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type logRecord struct {
	Message string `json:"msg"`
	Field   string `json:"field"`
	OTel    struct {
		TraceID string `json:"trace_id"`
		SpanID  string `json:"span_id"`
	} `json:"otel"`
}

func decodeRecord(t *testing.T, buf *bytes.Buffer) logRecord {
	t.Helper()

	var record logRecord
	err := json.Unmarshal(buf.Bytes(), &record)
	require.NoError(t, err)
	return record
}

func TestHandler_Handle(t *testing.T) {
	t.Run("will not add trace id and span id", func(t *testing.T) {
		t.Run("if the span context is invalid", func(t *testing.T) {
			var buf bytes.Buffer
			log := New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{}))

			log.InfoContext(context.Background(), "resolved", slog.String("field", "port"))

			record := decodeRecord(t, &buf)
			assert.Equal(t, "resolved", record.Message)
			assert.Equal(t, "port", record.Field)
			assert.Empty(t, record.OTel.TraceID)
			assert.Empty(t, record.OTel.SpanID)
		})
	})

	t.Run("will add trace id and span id", func(t *testing.T) {
		t.Run("if the span context is valid", func(t *testing.T) {
			var buf bytes.Buffer
			log := New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{}))

			tp := sdktrace.NewTracerProvider()
			ctx, span := tp.Tracer("otelslog").Start(context.Background(), "konfig.Resolve")
			defer span.End()

			log.InfoContext(ctx, "resolved")

			record := decodeRecord(t, &buf)
			assert.Equal(t, "resolved", record.Message)
			assert.Equal(t, span.SpanContext().TraceID().String(), record.OTel.TraceID)
			assert.Equal(t, span.SpanContext().SpanID().String(), record.OTel.SpanID)
		})
	})

	t.Run("will record span events", func(t *testing.T) {
		testCases := []struct {
			name           string
			opts           []Option
			log            func(context.Context, *slog.Logger)
			expectedEvents []string
		}{
			{
				name: "if the record is at the default event level",
				log: func(ctx context.Context, l *slog.Logger) {
					l.InfoContext(ctx, "resolved")
					l.WarnContext(ctx, "missing field", slog.String("field", "port"))
				},
				expectedEvents: []string{"missing field"},
			},
			{
				name: "if the record is at a custom event level",
				opts: []Option{EventLevel(slog.LevelDebug)},
				log: func(ctx context.Context, l *slog.Logger) {
					l.DebugContext(ctx, "reading env")
					l.InfoContext(ctx, "resolved")
				},
				expectedEvents: []string{"reading env", "resolved"},
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				rec := tracetest.NewSpanRecorder()
				tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))

				var buf bytes.Buffer
				log := New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}), tc.opts...)

				ctx, span := tp.Tracer("otelslog").Start(context.Background(), "konfig.Resolve")
				tc.log(ctx, log)
				span.End()

				spans := rec.Ended()
				require.Len(t, spans, 1)

				var names []string
				for _, ev := range spans[0].Events() {
					names = append(names, ev.Name)
				}
				require.Equal(t, tc.expectedEvents, names)
			})
		}
	})

	t.Run("will copy record attributes onto span events", func(t *testing.T) {
		rec := tracetest.NewSpanRecorder()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))

		var buf bytes.Buffer
		log := New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{}))

		ctx, span := tp.Tracer("otelslog").Start(context.Background(), "konfig.Resolve")
		log.ErrorContext(ctx, "failed to resolve", slog.Int("errors", 2))
		span.End()

		events := rec.Ended()[0].Events()
		require.Len(t, events, 1)
		require.ElementsMatch(t, []attribute.KeyValue{
			attribute.String("log.severity", "ERROR"),
			attribute.String("log.errors", "2"),
		}, events[0].Attributes)
	})
}
