package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/model"
)

var (
	// ErrMissingAPIKey 는 Gemini API 키가 없을 때 반환된다.
	ErrMissingAPIKey = errors.New("missing gemini api key")
	// ErrEmptyResponse 는 후보 텍스트가 비어 있을 때 반환된다.
	ErrEmptyResponse = errors.New("empty generator response")
)

// GeminiGenerator: google.golang.org/genai 로 응답을 생성한다.
type GeminiGenerator struct {
	client       *genai.Client
	defaultModel string
}

// NewGeminiGenerator: Gemini API 클라이언트를 만든다.
func NewGeminiGenerator(ctx context.Context, apiKey string, defaultModel string, timeout time.Duration) (*GeminiGenerator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if timeout > 0 {
		cc.HTTPOptions = genai.HTTPOptions{Timeout: genai.Ptr(timeout)}
	}
	client, err := genai.NewClient(context.WithoutCancel(ctx), cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiGenerator{client: client, defaultModel: defaultModel}, nil
}

// Name: 공급자 이름
func (g *GeminiGenerator) Name() string { return "gemini" }

// Generate: 대화 기록과 시스템 지시로 응답 텍스트를 생성한다.
func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (string, error) {
	modelName := req.Model
	if modelName == "" {
		modelName = g.defaultModel
	}

	resp, err := g.client.Models.GenerateContent(ctx, modelName, buildContents(req.History), buildConfig(req))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func buildConfig(req Request) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.SystemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	return config
}

// buildContents: system 역할은 SystemInstruction 으로 보내므로 제외한다.
func buildContents(history []model.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case model.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		case model.RoleUser:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	return contents
}
