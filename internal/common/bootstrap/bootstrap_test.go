package bootstrap

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/lmittmann/tint"
	"go.opentelemetry.io/otel/trace"

	commonconfig "github.com/park285/llm-kakao-bots/chat-game-go/internal/common/config"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"unknown": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestConfigureLogger_WritesFiles(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	dir := t.TempDir()
	logger, err := ConfigureLogger(commonconfig.LogConfig{
		Level:      "info",
		Dir:        dir,
		MaxSizeMB:  1,
		MaxBackups: 1,
		MaxAgeDays: 1,
	}, "chatgame.log", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Info("hello_test")

	for _, name := range []string{"chatgame.log", "combined.log"} {
		data, readErr := os.ReadFile(filepath.Join(dir, name))
		if readErr != nil {
			t.Fatalf("read %s failed: %v", name, readErr)
		}
		if !bytes.Contains(data, []byte("hello_test")) {
			t.Errorf("%s missing log line", name)
		}
	}
}

func TestConfigureLogger_InvalidRotation(t *testing.T) {
	_, err := ConfigureLogger(commonconfig.LogConfig{Dir: t.TempDir()}, "x.log", false)
	if err == nil {
		t.Fatal("expected error for zero rotation values")
	}
}

func TestOTelHandler_AddsTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewOTelHandler(tint.NewHandler(&buf, &tint.Options{NoColor: true})))

	traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	spanID, _ := trace.SpanIDFromHex("0102030405060708")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.InfoContext(ctx, "with_span")
	if !bytes.Contains(buf.Bytes(), []byte(traceID.String())) {
		t.Errorf("expected trace id in output: %s", buf.String())
	}

	buf.Reset()
	logger.Info("without_span")
	if bytes.Contains(buf.Bytes(), []byte("trace_id")) {
		t.Errorf("unexpected trace id: %s", buf.String())
	}
}
