package llm

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"

	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/assets"
	cgconfig "github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/config"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/model"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/messageprovider"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/testhelper"
)

func newMessages(t *testing.T) *messageprovider.Provider {
	t.Helper()
	p, err := messageprovider.NewFromYAMLAtPath(assets.GameMessagesYAML, "chatgame")
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	return p
}

func history(msgs ...string) []model.Message {
	out := make([]model.Message, 0, len(msgs))
	for i, m := range msgs {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAssistant
		}
		out = append(out, model.Message{Role: role, Content: m})
	}
	return out
}

func TestStubGenerator(t *testing.T) {
	gen := NewStubGenerator(newMessages(t))

	tests := []struct {
		name string
		hist []model.Message
		want string
	}{
		{"phone", history("전화번호 알려주실래요?"), "제 전화번호는 010-1234-5678입니다."},
		{"offer", history("저를 채용해 주세요"), "좋습니다. 함께 일하고 싶네요. 합격입니다!"},
		{"default", history("오늘 날씨 좋네요"), "이것은 테스트 응답입니다. 실제 API 키가 설정되지 않았습니다."},
		{"uses last user message", history("번호 주세요", "싫어요", "그냥 이야기해요"), "이것은 테스트 응답입니다. 실제 API 키가 설정되지 않았습니다."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := gen.Generate(context.Background(), Request{History: tt.hist})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStubGenerator_CancelledContext(t *testing.T) {
	gen := NewStubGenerator(newMessages(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := gen.Generate(ctx, Request{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNew_SelectsStubWithoutKey(t *testing.T) {
	gen, err := New(context.Background(), cgconfig.GeneratorConfig{}, newMessages(t), testhelper.DiscardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.Name() != "stub" {
		t.Errorf("expected stub, got %s", gen.Name())
	}
}

func TestNewGeminiGenerator_MissingKey(t *testing.T) {
	if _, err := NewGeminiGenerator(context.Background(), " ", "m", 0); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestBuildContents_MapsRoles(t *testing.T) {
	contents := buildContents([]model.Message{
		{Role: model.RoleSystem, Content: "ignored"},
		{Role: model.RoleUser, Content: "안녕"},
		{Role: model.RoleAssistant, Content: "반가워요"},
	})
	if len(contents) != 2 {
		t.Fatalf("expected 2 contents, got %d", len(contents))
	}
	if contents[0].Role != genai.RoleUser || contents[1].Role != genai.RoleModel {
		t.Errorf("unexpected roles: %s, %s", contents[0].Role, contents[1].Role)
	}
}

func TestBuildConfig(t *testing.T) {
	cfg := buildConfig(Request{SystemPrompt: "sys", MaxTokens: 300, Temperature: 0.7})
	if cfg.MaxOutputTokens != 300 || cfg.SystemInstruction == nil || cfg.Temperature == nil {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

type failingGenerator struct{ err error }

func (f failingGenerator) Name() string { return "failing" }
func (f failingGenerator) Generate(context.Context, Request) (string, error) {
	return "", f.err
}

func TestTraced_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	gen := NewTraced(failingGenerator{err: boom})
	if gen.Name() != "failing" {
		t.Errorf("expected inner name, got %s", gen.Name())
	}
	if _, err := gen.Generate(context.Background(), Request{}); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}
