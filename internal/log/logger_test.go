// SPDX-License-Identifier: MIT

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestConfigure_Once(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf, Service: "test-service", Version: "v0"})
	// Second call must be a no-op.
	Configure(Config{Level: "error", Service: "other"})

	base := Base()
	base.Info().Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if entry["service"] != "test-service" {
		t.Fatalf("service = %v, want test-service", entry["service"])
	}
	if entry["message"] != "hello" {
		t.Fatalf("message = %v, want hello", entry["message"])
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Output: &buf})

	l := WithComponent("auth")
	l = l.Output(&buf)
	l.Info().Msg("x")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if entry["component"] != "auth" {
		t.Fatalf("component = %v, want auth", entry["component"])
	}
}

func TestWithContext_RequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctx := ContextWithRequestID(context.Background(), "req-123")
	ctxLogger := WithContext(ctx, logger)
	ctxLogger.Info().Msg("x")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if entry[FieldRequestID] != "req-123" {
		t.Fatalf("request_id = %v, want req-123", entry[FieldRequestID])
	}
}

func TestRequestIDFromContext_Missing(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Fatalf("RequestIDFromContext() = %q, want empty", got)
	}
	if got := RequestIDFromContext(nil); got != "" { //nolint:staticcheck // nil context tolerated by design
		t.Fatalf("RequestIDFromContext(nil) = %q, want empty", got)
	}
}
