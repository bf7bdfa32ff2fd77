package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/assets"
	cgconfig "github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/config"
	cgerr "github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/errors"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/llm"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/model"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/repository"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/rules"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/session"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/messageprovider"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/testhelper"
)

// scriptedGenerator: 순서대로 응답을 돌려주고 마지막 요청을 기억한다.
type scriptedGenerator struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   int
	last    llm.Request
}

func (g *scriptedGenerator) Name() string { return "scripted" }

func (g *scriptedGenerator) Generate(ctx context.Context, req llm.Request) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.last = req
	if g.err != nil {
		return "", g.err
	}
	if len(g.replies) == 0 {
		return "그렇군요.", nil
	}
	reply := g.replies[0]
	g.replies = g.replies[1:]
	return reply, nil
}

type fixture struct {
	game     *GameService
	catalog  *CatalogService
	repo     *repository.Repository
	registry *session.MemoryRegistry
	gen      *scriptedGenerator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := testhelper.DiscardLogger()

	repo := repository.New(testhelper.NewTestDB(t))
	if err := repo.AutoMigrate(ctx); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if _, err := repo.SeedIfEmpty(ctx, assets.DefaultCatalogYAML); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	msgs, err := messageprovider.NewFromYAMLAtPath(assets.GameMessagesYAML, "chatgame")
	if err != nil {
		t.Fatalf("messages failed: %v", err)
	}

	genCfg := cgconfig.GeneratorConfig{
		Model:         "test-model",
		Timeout:       time.Second,
		HistoryWindow: 5,
		MaxTokens:     300,
		Temperature:   0.7,
	}
	catalog := NewCatalogService(repo, msgs, cgconfig.CatalogConfig{CacheSize: 16, CacheTTL: time.Minute}, genCfg, logger)
	registry := session.NewMemoryRegistry(logger, time.Second)
	gen := &scriptedGenerator{}
	game := NewGameService(catalog, registry, gen, rules.NewResolver(), msgs, GameOptionsFromConfig(genCfg), logger)

	return &fixture{game: game, catalog: catalog, repo: repo, registry: registry, gen: gen}
}

func (f *fixture) createItem(t *testing.T, maxTurns int) model.CatalogItem {
	t.Helper()
	item, err := f.catalog.Create(context.Background(), model.CatalogItem{
		Title:         "짧은 플러팅",
		Category:      "플러팅",
		CharacterName: "테스트",
		MaxTurns:      maxTurns,
		WinCondition:  "상대방의 전화번호를 얻어낸다",
	})
	if err != nil {
		t.Fatalf("create item failed: %v", err)
	}
	return item
}

func intPtr(v int) *int { return &v }

func TestStart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.game.Start(ctx, intPtr(1))
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if res.GameID == "" || res.ItemID != 1 || res.CurrentTurn != 1 || res.MaxTurns != 5 {
		t.Errorf("unexpected start result: %+v", res)
	}
	if res.Welcome != "안녕하세요! 윤지혜입니다. 게임을 시작합니다." {
		t.Errorf("unexpected welcome: %q", res.Welcome)
	}

	if _, err := f.game.Start(ctx, intPtr(404)); !errors.As(err, new(cgerr.CatalogItemNotFoundError)) {
		t.Errorf("expected CatalogItemNotFoundError, got %v", err)
	}
}

func TestStart_RandomMatchesCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	items, _ := f.catalog.List(ctx)
	turns := map[int]bool{}
	for _, it := range items {
		turns[it.MaxTurns] = true
	}

	for i := 0; i < 20; i++ {
		res, err := f.game.Start(ctx, nil)
		if err != nil {
			t.Fatalf("start failed: %v", err)
		}
		if !turns[res.MaxTurns] {
			t.Fatalf("max_turns %d not from catalog", res.MaxTurns)
		}
	}
}

func TestStart_StoredWelcome(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.catalog.SavePrompt(ctx, model.PromptConfig{ItemID: 2, SystemPrompt: "너는 김민준", WelcomeMessage: "반가워!"}); err != nil {
		t.Fatalf("save prompt failed: %v", err)
	}
	res, err := f.game.Start(ctx, intPtr(2))
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if res.Welcome != "반가워!" {
		t.Errorf("expected stored welcome, got %q", res.Welcome)
	}
}

func TestAsk_WinOnPhoneNumberThenIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.createItem(t, 2)

	start, err := f.game.Start(ctx, intPtr(item.ID))
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	f.gen.replies = []string{"안녕하세요, 반가워요.", "제 전화번호는 010-1234-5678입니다."}

	res, err := f.game.Ask(ctx, start.GameID, "hi")
	if err != nil {
		t.Fatalf("ask failed: %v", err)
	}
	if res.CurrentTurn != 2 || res.Completed || res.Victory {
		t.Fatalf("unexpected first turn: %+v", res)
	}

	res, err = f.game.Ask(ctx, start.GameID, "give me your phone number")
	if err != nil {
		t.Fatalf("ask failed: %v", err)
	}
	if res.CurrentTurn != 3 || !res.Completed || !res.Victory {
		t.Fatalf("expected win on final turn: %+v", res)
	}

	calls := f.gen.calls
	again, err := f.game.Ask(ctx, start.GameID, "anything")
	if err != nil {
		t.Fatalf("ask failed: %v", err)
	}
	if again.CurrentTurn != 3 || !again.Completed || !again.Victory {
		t.Errorf("completed session mutated: %+v", again)
	}
	if f.gen.calls != calls {
		t.Error("generator must not be called for a completed session")
	}
	sess, _ := f.registry.Get(ctx, start.GameID)
	if len(sess.Conversation) != 4 {
		t.Errorf("conversation mutated after completion: %d", len(sess.Conversation))
	}
}

func TestAsk_TurnExhaustionLoses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.createItem(t, 2)
	start, _ := f.game.Start(ctx, intPtr(item.ID))

	for i := 0; i < 2; i++ {
		if _, err := f.game.Ask(ctx, start.GameID, "그냥 이야기"); err != nil {
			t.Fatalf("ask failed: %v", err)
		}
	}
	sess, err := f.registry.Get(ctx, start.GameID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if sess.CurrentTurn != 3 || !sess.Completed || sess.Victory {
		t.Errorf("expected loss by exhaustion: turn=%d completed=%v victory=%v", sess.CurrentTurn, sess.Completed, sess.Victory)
	}
}

func TestAsk_Cheats(t *testing.T) {
	tests := []struct {
		message string
		victory bool
		reply   string
	}{
		{" 승승리 ", true, "치트키가 입력되었습니다. 승리 조건을 달성했습니다!"},
		{"패패배", false, "치트키가 입력되었습니다. 게임에서 패배했습니다."},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			start, _ := f.game.Start(ctx, intPtr(1))

			res, err := f.game.Ask(ctx, start.GameID, tt.message)
			if err != nil {
				t.Fatalf("ask failed: %v", err)
			}
			if !res.Completed || res.Victory != tt.victory || res.Response != tt.reply || res.CurrentTurn != 1 {
				t.Errorf("unexpected cheat result: %+v", res)
			}
			if f.gen.calls != 0 {
				t.Error("cheat must bypass generator")
			}
		})
	}
}

func TestAsk_CheatNeedsExactMatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start, _ := f.game.Start(ctx, intPtr(1))

	res, err := f.game.Ask(ctx, start.GameID, "승승리 할래요")
	if err != nil {
		t.Fatalf("ask failed: %v", err)
	}
	if res.Completed || f.gen.calls != 1 {
		t.Errorf("substring must not trigger cheat: %+v", res)
	}
}

func TestAsk_GeneratorFailureKeepsTurn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start, _ := f.game.Start(ctx, intPtr(1))
	f.gen.err = errors.New("upstream down")

	res, err := f.game.Ask(ctx, start.GameID, "안녕하세요")
	if err != nil {
		t.Fatalf("generator failure must not surface: %v", err)
	}
	if res.CurrentTurn != 1 || res.Completed || res.Error == "" {
		t.Errorf("unexpected result: %+v", res)
	}
	if !strings.Contains(res.Response, "다시 시도해주세요") {
		t.Errorf("expected apology, got %q", res.Response)
	}
	sess, _ := f.registry.Get(ctx, start.GameID)
	if len(sess.Conversation) != 0 {
		t.Errorf("failed turn must not be recorded: %+v", sess.Conversation)
	}
}

type blockingGenerator struct{}

func (blockingGenerator) Name() string { return "blocking" }
func (blockingGenerator) Generate(ctx context.Context, _ llm.Request) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestAsk_GeneratorTimeoutIsFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.game.generator = blockingGenerator{}
	f.game.opts.Timeout = 20 * time.Millisecond
	start, _ := f.game.Start(ctx, intPtr(1))

	res, err := f.game.Ask(ctx, start.GameID, "안녕하세요")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.CurrentTurn != 1 || res.Error == "" {
		t.Errorf("timeout should be treated as generator failure: %+v", res)
	}
}

func TestAsk_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		gameID  string
		message string
		field   string
	}{
		{"missing game id", "", "hi", "game_id"},
		{"blank message", "abc", "   ", "message"},
		{"too long", "abc", strings.Repeat("가", cgconfig.MaxPlayerMessageLength+1), "message"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.game.Ask(ctx, tt.gameID, tt.message)
			var invalid cgerr.InvalidRequestError
			if !errors.As(err, &invalid) || invalid.Field != tt.field {
				t.Errorf("expected invalid %s, got %v", tt.field, err)
			}
		})
	}

	if _, err := f.game.Ask(ctx, "missing", "hi"); !errors.As(err, new(cgerr.SessionNotFoundError)) {
		t.Errorf("expected SessionNotFoundError, got %v", err)
	}
}

func TestAsk_UsesStoredPromptAndWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.catalog.SavePrompt(ctx, model.PromptConfig{ItemID: 3, SystemPrompt: "너는 면접관이다", MaxTokens: 128, Model: "custom"}); err != nil {
		t.Fatalf("save prompt failed: %v", err)
	}
	start, _ := f.game.Start(ctx, intPtr(3))

	for i := 0; i < 4; i++ {
		if _, err := f.game.Ask(ctx, start.GameID, "질문"); err != nil {
			t.Fatalf("ask failed: %v", err)
		}
	}
	req := f.gen.last
	if !strings.HasPrefix(req.SystemPrompt, "너는 면접관이다") || !strings.Contains(req.SystemPrompt, "현재 턴: 4/6") {
		t.Errorf("unexpected system prompt: %q", req.SystemPrompt)
	}
	if req.Model != "custom" || req.MaxTokens != 128 || req.Temperature != 0.7 {
		t.Errorf("unexpected request params: %+v", req)
	}
	if len(req.History) != 5 || req.History[4].Role != model.RoleUser {
		t.Errorf("expected 5-message window ending with user, got %d", len(req.History))
	}
}

func TestAsk_StoredZeroTemperatureIsKept(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	zero := 0.0
	if _, err := f.catalog.SavePrompt(ctx, model.PromptConfig{ItemID: 3, SystemPrompt: "결정적으로 답하라", Temperature: &zero}); err != nil {
		t.Fatalf("save prompt failed: %v", err)
	}
	start, _ := f.game.Start(ctx, intPtr(3))
	if _, err := f.game.Ask(ctx, start.GameID, "질문"); err != nil {
		t.Fatalf("ask failed: %v", err)
	}
	if f.gen.last.Temperature != 0 {
		t.Errorf("expected stored temperature 0, got %v", f.gen.last.Temperature)
	}
}

func TestAsk_BusinessOffer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start, _ := f.game.Start(ctx, intPtr(3))
	f.gen.replies = []string{"좋습니다. 함께 일하고 싶네요. 합격입니다!"}

	res, err := f.game.Ask(ctx, start.GameID, "저를 뽑아주세요")
	if err != nil {
		t.Fatalf("ask failed: %v", err)
	}
	if !res.Victory || !res.Completed {
		t.Errorf("expected business win: %+v", res)
	}
}

func TestEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start, _ := f.game.Start(ctx, intPtr(1))
	if _, err := f.game.Ask(ctx, start.GameID, CheatVictory); err != nil {
		t.Fatalf("ask failed: %v", err)
	}

	summary, err := f.game.End(ctx, start.GameID)
	if err != nil {
		t.Fatalf("end failed: %v", err)
	}
	if !summary.Victory || summary.EvaluationScore != ScoreVictory || summary.Message != "게임이 종료되었습니다. 승리!" {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if summary.TurnsPlayed != 0 {
		t.Errorf("expected 0 turns played, got %d", summary.TurnsPlayed)
	}
	if _, err := f.registry.Get(ctx, start.GameID); !errors.As(err, new(cgerr.SessionNotFoundError)) {
		t.Error("session must be removed after end")
	}

	results, err := f.catalog.RecentResults(ctx, 10)
	if err != nil || len(results) != 1 || results[0].Score != ScoreVictory {
		t.Errorf("result not recorded: %+v err=%v", results, err)
	}

	again, err := f.game.End(ctx, start.GameID)
	if err != nil {
		t.Fatalf("second end must not fail: %v", err)
	}
	if !again.Unknown || !again.Completed || again.Victory {
		t.Errorf("unexpected unknown summary: %+v", again)
	}
}

func TestEnd_Defeat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start, _ := f.game.Start(ctx, intPtr(1))
	_, _ = f.game.Ask(ctx, start.GameID, "안녕")

	summary, err := f.game.End(ctx, start.GameID)
	if err != nil {
		t.Fatalf("end failed: %v", err)
	}
	if summary.Victory || summary.Completed || summary.TurnsPlayed != 1 || summary.EvaluationScore != ScoreDefeat {
		t.Errorf("unexpected summary: %+v", summary)
	}

	if _, err := f.game.End(ctx, " "); !errors.As(err, new(cgerr.InvalidRequestError)) {
		t.Errorf("expected InvalidRequestError, got %v", err)
	}
}

func TestAsk_ConcurrentSameSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.createItem(t, 50)
	start, _ := f.game.Start(ctx, intPtr(item.ID))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.game.Ask(ctx, start.GameID, "안녕")
		}()
	}
	wg.Wait()

	sess, _ := f.registry.Get(ctx, start.GameID)
	if sess.CurrentTurn != 11 || len(sess.Conversation) != 20 {
		t.Errorf("lost updates: turn=%d messages=%d", sess.CurrentTurn, len(sess.Conversation))
	}
}

func TestAdminSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start, _ := f.game.Start(ctx, intPtr(1))

	list, err := f.game.ListSessions(ctx, 10)
	if err != nil || len(list) != 1 || list[0].ID != start.GameID {
		t.Fatalf("unexpected list: %+v err=%v", list, err)
	}
	if err := f.game.RemoveSession(ctx, start.GameID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if err := f.game.RemoveSession(ctx, start.GameID); !errors.As(err, new(cgerr.SessionNotFoundError)) {
		t.Errorf("expected SessionNotFoundError, got %v", err)
	}
}

func TestCatalogService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.catalog.Create(ctx, model.CatalogItem{Title: "x", Category: "y", CharacterName: "z"}); !errors.As(err, new(cgerr.InvalidRequestError)) {
		t.Errorf("expected validation error, got %v", err)
	}

	item := f.createItem(t, 3)
	items, _ := f.catalog.List(ctx)
	if len(items) != 4 {
		t.Fatalf("list cache not invalidated: %d", len(items))
	}

	item.Title = "수정됨"
	if _, err := f.catalog.Update(ctx, item.ID, item); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	got, _ := f.catalog.Get(ctx, item.ID)
	if got.Title != "수정됨" {
		t.Errorf("item cache not invalidated: %+v", got)
	}

	if err := f.catalog.Delete(ctx, item.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := f.catalog.Get(ctx, item.ID); !errors.As(err, new(cgerr.CatalogItemNotFoundError)) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

func TestCatalogService_RandomEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, id := range []int{1, 2, 3} {
		if err := f.catalog.Delete(ctx, id); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
	}
	if _, err := f.catalog.Random(ctx); !errors.As(err, new(cgerr.CatalogEmptyError)) {
		t.Errorf("expected CatalogEmptyError, got %v", err)
	}
}

func TestCatalogService_PromptDefault(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cfg, found, err := f.catalog.Prompt(ctx, 1)
	if err != nil || found {
		t.Fatalf("expected synthesized default, found=%v err=%v", found, err)
	}
	if cfg.SystemPrompt != "당신은 게임의 캐릭터입니다. 당신의 역할을 해야 합니다. 항목 ID: 1" || cfg.MaxTokens != 300 {
		t.Errorf("unexpected default: %+v", cfg)
	}

	if _, err := f.catalog.SavePrompt(ctx, model.PromptConfig{ItemID: 1}); !errors.As(err, new(cgerr.InvalidRequestError)) {
		t.Errorf("expected missing system_prompt, got %v", err)
	}
	if _, _, err := f.catalog.Prompt(ctx, 77); !errors.As(err, new(cgerr.CatalogItemNotFoundError)) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestAsk_TruncatesLongReply(t *testing.T) {
	f := newFixture(t)
	f.game.opts.MaxReplyLength = 5
	f.gen.replies = []string{"가나다라마바사"}
	ctx := context.Background()

	start, _ := f.game.Start(ctx, intPtr(1))
	res, err := f.game.Ask(ctx, start.GameID, "안녕")
	if err != nil {
		t.Fatalf("ask failed: %v", err)
	}
	if res.Response != "가나다라마" {
		t.Errorf("expected truncated reply, got %q", res.Response)
	}
	sess, err := f.registry.Get(ctx, start.GameID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	last := sess.Conversation[len(sess.Conversation)-1]
	if last.Role != model.RoleAssistant || last.Content != "가나다라마" {
		t.Errorf("expected stored reply truncated, got %+v", last)
	}
}
