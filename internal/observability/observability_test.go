package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

func TestObserveStore_Statuses(t *testing.T) {
	p := NewProm(prometheus.NewRegistry())

	_ = p.ObserveStore("redis", "users.get", func() error { return nil })
	_ = p.ObserveStore("redis", "users.get", func() error { return fmt.Errorf("get: %w", redis.Nil) })
	err := p.ObserveStore("redis", "users.get", func() error { return context.DeadlineExceeded })

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("ObserveStore must return fn's error, got %v", err)
	}

	if got := testutil.ToFloat64(p.StoreErrors.WithLabelValues("redis", "users.get", "timeout")); got != 1 {
		t.Fatalf("expected one timeout error, got %v", got)
	}

	if got := testutil.CollectAndCount(p.StoreOpDuration); got != 3 {
		t.Fatalf("expected ok/miss/error series, got %d", got)
	}
}

func TestObserveStore_NilProm(t *testing.T) {
	var p *Prom

	called := false
	if err := p.ObserveStore("memory", "op", func() error { called = true; return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatalf("fn must run without metrics")
	}

	p.CountAuth("login", "ok")
}

func TestClassifyStoreErr(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&pgconn.PgError{Code: "23505"}, "unique_violation"},
		{&pgconn.PgError{Code: "42P01"}, "pg_42P01"},
		{context.DeadlineExceeded, "timeout"},
		{context.Canceled, "canceled"},
		{errors.New("dial tcp: connection refused"), "connection"},
		{errors.New("WRONGPASS invalid username-password pair"), "auth"},
		{errors.New("boom"), "unknown"},
	}

	for _, tc := range tests {
		if got := classifyStoreErr(tc.err); got != tc.want {
			t.Errorf("classifyStoreErr(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestNewLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger("prod", &buf)

	log.Debug("hidden")
	log.Info("visible", "username", "alice123")

	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec); err != nil {
		t.Fatalf("expected exactly one JSON record, got %q: %v", buf.String(), err)
	}
	if rec["msg"] != "visible" || rec["username"] != "alice123" {
		t.Fatalf("unexpected record: %v", rec)
	}
	if _, ok := rec["trace_id"]; ok {
		t.Fatalf("trace_id must be absent outside a span")
	}
}

func TestTraceHandler_RedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger("prod", &buf).With("token", "eyJhbGciOi")

	log.Info("login", "username", "alice123", "Password", "Abc123!", slog.Group("req", "password", "x"))

	out := buf.String()
	for _, leaked := range []string{"eyJhbGciOi", "Abc123!", `"x"`} {
		if strings.Contains(out, leaked) {
			t.Fatalf("secret %q leaked into %s", leaked, out)
		}
	}
	if !strings.Contains(out, "alice123") || !strings.Contains(out, redacted) {
		t.Fatalf("unexpected output %s", out)
	}
}

func TestTraceHandler_StampsSpanIDs(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger("prod", &buf)

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01, 0x02},
		SpanID:     trace.SpanID{0x03},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	log.InfoContext(ctx, "traced")

	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec); err != nil {
		t.Fatalf("bad record %q: %v", buf.String(), err)
	}
	if rec["trace_id"] != sc.TraceID().String() || rec["span_id"] != sc.SpanID().String() {
		t.Fatalf("unexpected ids: %v", rec)
	}
}
