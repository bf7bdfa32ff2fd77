package llm

import (
	"context"
	"strings"

	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/messages"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/model"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/messageprovider"
)

var (
	phoneRequestKeywords = []string{"전화번호", "번호", "연락처", "phone"}
	offerRequestKeywords = []string{"합격", "채용", "뽑아", "일하고 싶"}
)

// StubGenerator: API 키 없이 동작하는 결정적 생성기. 마지막 사용자 메시지의 키워드로 응답을 고른다.
type StubGenerator struct {
	msgs *messageprovider.Provider
}

// NewStubGenerator: StubGenerator 를 생성한다.
func NewStubGenerator(msgs *messageprovider.Provider) *StubGenerator {
	return &StubGenerator{msgs: msgs}
}

// Name: 공급자 이름
func (s *StubGenerator) Name() string { return "stub" }

// Generate: 키워드 매칭으로 고정 응답을 반환한다.
func (s *StubGenerator) Generate(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	last := strings.ToLower(lastUserMessage(req.History))
	switch {
	case containsAny(last, phoneRequestKeywords):
		return s.msgs.Get(messages.StubPhone), nil
	case containsAny(last, offerRequestKeywords):
		return s.msgs.Get(messages.StubOffer), nil
	default:
		return s.msgs.Get(messages.StubDefault), nil
	}
}

func lastUserMessage(history []model.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == model.RoleUser {
			return history[i].Content
		}
	}
	return ""
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
