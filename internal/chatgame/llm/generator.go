// Package llm 은 캐릭터 응답 생성기(Gemini / 결정적 스텁)를 제공한다.
package llm

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	cgconfig "github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/config"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/model"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/messageprovider"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/telemetry"
)

// Request: 생성 요청. History 는 오래된 것부터이며 마지막이 사용자 메시지다.
type Request struct {
	SystemPrompt string
	History      []model.Message
	Model        string
	MaxTokens    int
	Temperature  float64
}

// Generator: 캐릭터 응답 생성기
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
}

// New: API 키가 있으면 Gemini, 없으면 스텁을 고른다. 결과는 트레이싱 래퍼로 감싼다.
func New(ctx context.Context, cfg cgconfig.GeneratorConfig, msgs *messageprovider.Provider, logger *slog.Logger) (Generator, error) {
	if cfg.APIKey == "" {
		logger.Warn("generator_selected", "provider", "stub", "reason", "api key not configured")
		return NewTraced(NewStubGenerator(msgs)), nil
	}
	gen, err := NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	logger.Info("generator_selected", "provider", gen.Name(), "model", cfg.Model)
	return NewTraced(gen), nil
}

// Traced: 생성 호출마다 span 을 남기는 래퍼
type Traced struct {
	inner Generator
}

// NewTraced: inner 를 감싼다.
func NewTraced(inner Generator) *Traced {
	return &Traced{inner: inner}
}

// Name: 내부 생성기 이름
func (t *Traced) Name() string { return t.inner.Name() }

// Generate: span 안에서 내부 생성기를 호출한다.
func (t *Traced) Generate(ctx context.Context, req Request) (string, error) {
	ctx, span := telemetry.Tracer("chatgame/llm").Start(ctx, "llm.generate")
	defer span.End()

	span.SetAttributes(
		attribute.String("llm.provider", t.inner.Name()),
		attribute.String("llm.model", req.Model),
		attribute.Int("llm.history_len", len(req.History)),
		attribute.Int("llm.max_tokens", req.MaxTokens),
	)

	reply, err := t.inner.Generate(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate failed")
		return "", err
	}
	span.SetAttributes(attribute.Int("llm.reply_len", len(reply)))
	return reply, nil
}
