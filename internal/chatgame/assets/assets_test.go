package assets

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/messages"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/messageprovider"
)

func TestGameMessagesYAML_AllKeysDefined(t *testing.T) {
	provider, err := messageprovider.NewFromYAMLAtPath(GameMessagesYAML, "chatgame")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	keys := []string{
		messages.StartWelcome, messages.StartItemNotFound, messages.StartCatalogEmpty,
		messages.AskMissingFields, messages.AskMessageTooLong, messages.AskSessionNotFound, messages.AskApology,
		messages.CheatVictory, messages.CheatDefeat,
		messages.EndMissingGameID, messages.EndFinishedPrefix, messages.EndVictory, messages.EndDefeat,
		messages.EndUnknown, messages.EndEvaluationVictory, messages.EndEvaluationDefeat,
		messages.PromptSystem, messages.PromptStatus, messages.PromptAdminDefault, messages.PromptAdminDefaultWelcome,
		messages.StubDefault, messages.StubPhone, messages.StubOffer,
		messages.AdminLoginSuccess, messages.AdminLoginFailed, messages.AdminLoginThrottled,
		messages.AdminMissingHeader, messages.AdminTokenExpired, messages.AdminTokenInvalid, messages.AdminDisabled,
		messages.AdminMissingField, messages.AdminMissingItemID, messages.AdminItemNotFound,
		messages.AdminItemCreated, messages.AdminItemUpdated, messages.AdminItemDeleted, messages.AdminPromptSaved,
		messages.AdminSessionRemoved, messages.AdminSessionNotFound,
		messages.CommonInvalidJSON, messages.CommonInternalError, messages.CommonLockBusy, messages.CommonHealth,
	}
	for _, key := range keys {
		if !provider.Has(key) {
			t.Errorf("message key %q is not defined", key)
		}
	}
}

func TestGameMessagesYAML_EndMessages(t *testing.T) {
	provider, err := messageprovider.NewFromYAMLAtPath(GameMessagesYAML, "chatgame")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got := provider.Get(messages.EndFinishedPrefix) + provider.Get(messages.EndVictory); got != "게임이 종료되었습니다. 승리!" {
		t.Errorf("unexpected victory message: %q", got)
	}
}

func TestDefaultCatalogYAML_Parses(t *testing.T) {
	var doc struct {
		Items []struct {
			Title    string `yaml:"title"`
			Category string `yaml:"category"`
			MaxTurns int    `yaml:"max_turns"`
		} `yaml:"items"`
	}
	if err := yaml.Unmarshal([]byte(DefaultCatalogYAML), &doc); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(doc.Items) != 3 {
		t.Fatalf("expected 3 default items, got %d", len(doc.Items))
	}
	if doc.Items[0].Title != "플러팅 고수! 전화번호 따기" || doc.Items[0].MaxTurns != 5 {
		t.Errorf("unexpected first item: %+v", doc.Items[0])
	}
}

func TestLockReleaseLua_ComparesToken(t *testing.T) {
	if !strings.Contains(LockReleaseLua, "ARGV[1]") || !strings.Contains(LockReleaseLua, "DEL") {
		t.Error("lock release script must compare token before delete")
	}
}
