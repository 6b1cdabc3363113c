// Copyright 2025 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}

	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got := ParseLevel(name); got != want {
				t.Errorf("ParseLevel(%q): want %v, got %v", name, want, got)
			}
		})
	}
}

// TestSetup tests Setup and FromContext. It replaces the default logger so
// it does not run in parallel.
func TestSetup(t *testing.T) {
	orig := slog.Default()
	t.Cleanup(func() { slog.SetDefault(orig) })

	t.Run("json", func(t *testing.T) {
		var b bytes.Buffer
		Setup("info", "json", &b)

		ctx := WithRequestID(context.Background(), "abc123")
		FromContext(ctx).Debug("hidden")
		FromContext(ctx).Info("search", "query", "add")

		var got map[string]any
		if err := json.Unmarshal(b.Bytes(), &got); err != nil {
			t.Fatalf("json.Unmarshal: %v: %q", err, b.String())
		}
		delete(got, "time")

		want := map[string]any{
			"level":      "INFO",
			"msg":        "search",
			"query":      "add",
			"request_id": "abc123",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("log record (-want, +got):\n%s", diff)
		}
	})

	t.Run("text", func(t *testing.T) {
		var b bytes.Buffer
		Setup("debug", "text", &b)

		WithComponent("server").Debug("listening")

		if got := b.String(); !strings.Contains(got, "component=server") || !strings.Contains(got, "level=DEBUG") {
			t.Errorf("log output: %q", got)
		}
	})
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	if got := RequestID(context.Background()); got != "" {
		t.Errorf("RequestID: want %q, got %q", "", got)
	}
	if got, want := RequestID(WithRequestID(context.Background(), "x")), "x"; got != want {
		t.Errorf("RequestID: want %q, got %q", want, got)
	}
}
