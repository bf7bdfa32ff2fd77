package telemetry

import (
	"context"
	"strings"
	"testing"

	commonconfig "github.com/park285/llm-kakao-bots/chat-game-go/internal/common/config"
)

func TestNewProvider_Disabled(t *testing.T) {
	p, err := NewProvider(context.Background(), commonconfig.TelemetryConfig{Enabled: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.IsEnabled() {
		t.Error("disabled provider should not be enabled")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("shutdown of no-op provider failed: %v", err)
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{0.5, "TraceIDRatioBased"},
	}
	for _, tt := range tests {
		desc := Sampler(tt.rate).Description()
		if !strings.HasPrefix(desc, "ParentBased") || !strings.Contains(desc, tt.want) {
			t.Errorf("Sampler(%v) = %q, want ParentBased with %s", tt.rate, desc, tt.want)
		}
	}
}
