// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package maskslog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
)

func ExampleFields() {
	var buf bytes.Buffer

	h := NewHandler(
		slog.NewJSONHandler(&buf, &slog.HandlerOptions{}),
		Fields("*.password"),
	)
	logger := slog.New(h)

	logger.Info(
		"resolved",
		slog.Group("db",
			slog.String("user", "admin"),
			slog.String("password", "super duper secret value"),
		),
	)

	var record struct {
		DB struct {
			User     string `json:"user"`
			Password string `json:"password"`
		} `json:"db"`
	}
	err := json.Unmarshal(buf.Bytes(), &record)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(record.DB.User)
	fmt.Println(record.DB.Password)
	// Output: admin
	// ****
}
