// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command konfig resolves declarative schema descriptions against the
// process environment and the arguments given after "--".
//
//	konfig resolve --schema app.yaml -o yaml -- --port 9090 serve
//	konfig check --schema app.yaml --schema worker.yaml
//
// Every flag can also be set through a KONFIG_ prefixed environment
// variable, e.g. KONFIG_LOG_LEVEL=debug.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	err := New().Run(os.Args[1:]...)
	if err == nil {
		return
	}
	if !errors.Is(err, ErrResolveFailed) {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(1)
}
