// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otelslog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
)

func ExampleHandler_WithAttrs() {
	var buf bytes.Buffer
	var h slog.Handler = NewHandler(slog.NewJSONHandler(&buf, &slog.HandlerOptions{}))
	h = h.WithAttrs([]slog.Attr{slog.String("schema", "app.yaml")})

	logger := slog.New(h)
	logger.Info("resolved schema")

	var record struct {
		Message string `json:"msg"`
		Schema  string `json:"schema"`
	}
	err := json.Unmarshal(buf.Bytes(), &record)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(record.Message)
	fmt.Print(record.Schema)
	// Output: resolved schema
	// app.yaml
}

func ExampleHandler_WithGroup() {
	var buf bytes.Buffer
	var h slog.Handler = NewHandler(slog.NewJSONHandler(&buf, &slog.HandlerOptions{}))
	h = h.WithGroup("field")

	logger := slog.New(h)
	logger.Info("resolved schema", slog.Int("port", 8080))

	var record struct {
		Message string `json:"msg"`
		Field   struct {
			Port int `json:"port"`
		} `json:"field"`
	}
	err := json.Unmarshal(buf.Bytes(), &record)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(record.Message)
	fmt.Print(record.Field.Port)
	// Output: resolved schema
	// 8080
}
