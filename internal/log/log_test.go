package log

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"", slog.LevelInfo, false},
		{"INFO", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Component: ComponentDashboard, Handler: NewHandler(&buf, slog.LevelDebug)})
	l.Info("built", FieldRange, "*..*")
	out := buf.String()
	if !strings.Contains(out, "component=dashboard") || !strings.Contains(out, "range=*..*") {
		t.Fatalf("unexpected log line %q", out)
	}
}

func TestComponentMiddleware(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Component: ComponentTrace, Handler: NewHandler(&buf, slog.LevelInfo)}).
		With(FieldRequestID, "req-1")

	h := ComponentMiddleware(ComponentHTTP)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := FromContext(r.Context())
			if l.Component() != ComponentHTTP {
				t.Errorf("expected component %q, got %q", ComponentHTTP, l.Component())
			}
			l.InfoContext(r.Context(), "inside")
		}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), LoggerContextKey, base))
	h.ServeHTTP(httptest.NewRecorder(), req)

	if !strings.Contains(buf.String(), "request_id=req-1") {
		t.Fatalf("request id missing from %q", buf.String())
	}
	if FromContext(context.Background()).Component() != "unknown" {
		t.Fatalf("expected fallback logger")
	}
}

func TestLogTransactionCreated(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Component: ComponentApp, Handler: NewHandler(&buf, slog.LevelInfo)}))
	sl.LogTransactionCreated(context.Background(), "7", "Income", "Bu Sales", "Cash", 350)
	for _, want := range []string{"transaction_id=7", "amount_cents=350", "operation=create"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("missing %q in %q", want, buf.String())
		}
	}
}
