// Package service 는 카탈로그 조회와 게임 세션 수명 주기(start/ask/end)를 구현한다.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	cgconfig "github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/config"
	cgerr "github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/errors"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/llm"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/messages"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/model"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/rules"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/session"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/messageprovider"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/telemetry"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/textutil"
)

// 치트 문자열. 공백 제거 후 정확히 일치할 때만 적용된다.
const (
	CheatVictory = "승승리"
	CheatDefeat  = "패패배"
)

// 종료 평가 점수
const (
	ScoreVictory = 75
	ScoreDefeat  = 45
)

// GameOptions: 턴 엔진 동작 파라미터
type GameOptions struct {
	Model            string
	HistoryWindow    int
	MaxTokens        int
	Temperature      float64
	Timeout          time.Duration
	MaxMessageLength int
	MaxReplyLength   int
}

// GameOptionsFromConfig: 생성기 설정에서 턴 엔진 옵션을 만든다.
func GameOptionsFromConfig(cfg cgconfig.GeneratorConfig) GameOptions {
	return GameOptions{
		Model:            cfg.Model,
		HistoryWindow:    cfg.HistoryWindow,
		MaxTokens:        cfg.MaxTokens,
		Temperature:      cfg.Temperature,
		Timeout:          cfg.Timeout,
		MaxMessageLength: cgconfig.MaxPlayerMessageLength,
		MaxReplyLength:   cgconfig.MaxReplyLength,
	}
}

// GameService: 게임 세션 수명 주기를 담당하는 턴 엔진
type GameService struct {
	catalog    *CatalogService
	registry   session.Registry
	generator  llm.Generator
	predicates *rules.Resolver
	msgs       *messageprovider.Provider
	opts       GameOptions
	logger     *slog.Logger
	tracer     trace.Tracer
	now        func() time.Time
}

// NewGameService: GameService 를 생성한다.
func NewGameService(
	catalog *CatalogService,
	registry session.Registry,
	generator llm.Generator,
	predicates *rules.Resolver,
	msgs *messageprovider.Provider,
	opts GameOptions,
	logger *slog.Logger,
) *GameService {
	return &GameService{
		catalog:    catalog,
		registry:   registry,
		generator:  generator,
		predicates: predicates,
		msgs:       msgs,
		opts:       opts,
		logger:     logger,
		tracer:     telemetry.Tracer("chatgame/service"),
		now:        time.Now,
	}
}

// Start: 항목(없으면 무작위)으로 새 세션을 만든다.
func (s *GameService) Start(ctx context.Context, itemID *int) (model.StartResult, error) {
	ctx, span := s.tracer.Start(ctx, "game.start")
	defer span.End()

	var (
		item model.CatalogItem
		err  error
	)
	if itemID != nil {
		item, err = s.catalog.Get(ctx, *itemID)
	} else {
		item, err = s.catalog.Random(ctx)
	}
	if err != nil {
		return model.StartResult{}, err
	}

	sess, err := s.registry.Create(ctx, item)
	if err != nil {
		return model.StartResult{}, fmt.Errorf("create session failed: %w", err)
	}
	span.SetAttributes(attribute.String("game.session_id", sess.ID), attribute.Int("game.item_id", item.ID))

	welcome := s.msgs.Get(messages.StartWelcome, messageprovider.P("character_name", item.CharacterName))
	if cfg, found, perr := s.catalog.StoredPrompt(ctx, item.ID); perr != nil {
		s.logger.Warn("prompt_lookup_failed", "item_id", item.ID, "err", perr)
	} else if found && cfg.WelcomeMessage != "" {
		welcome = cfg.WelcomeMessage
	}

	s.logger.Info("game_started", "session_id", sess.ID, "item_id", item.ID, "max_turns", item.MaxTurns)
	return model.StartResult{
		GameID:        sess.ID,
		ItemID:        item.ID,
		Title:         item.Title,
		Category:      item.Category,
		CharacterName: item.CharacterName,
		MaxTurns:      item.MaxTurns,
		CurrentTurn:   sess.CurrentTurn,
		WinCondition:  item.WinCondition,
		Welcome:       welcome,
	}, nil
}

// Ask: 플레이어 메시지 한 턴을 처리한다.
// 생성기 실패는 에러가 아니라 사과 응답(턴 미소모)으로 돌려준다.
func (s *GameService) Ask(ctx context.Context, gameID string, message string) (model.AskResult, error) {
	gameID = textutil.Normalize(gameID)
	message = textutil.Normalize(message)
	if gameID == "" {
		return model.AskResult{}, cgerr.InvalidRequestError{Field: "game_id", Reason: "required"}
	}
	if message == "" {
		return model.AskResult{}, cgerr.InvalidRequestError{Field: "message", Reason: "required"}
	}
	if s.opts.MaxMessageLength > 0 && textutil.RuneLen(message) > s.opts.MaxMessageLength {
		return model.AskResult{}, cgerr.InvalidRequestError{Field: "message", Reason: "too long"}
	}

	ctx, span := s.tracer.Start(ctx, "game.ask", trace.WithAttributes(attribute.String("game.session_id", gameID)))
	defer span.End()

	var result model.AskResult
	err := s.registry.WithLock(ctx, gameID, func(ctx context.Context) error {
		sess, err := s.registry.Get(ctx, gameID)
		if err != nil {
			return err
		}

		if sess.Completed {
			result = statusOf(sess, lastAssistantReply(sess))
			return nil
		}

		if reply, ok := s.applyCheat(sess, message); ok {
			if err := s.registry.Save(ctx, sess); err != nil {
				return fmt.Errorf("save session failed: %w", err)
			}
			s.logger.Info("cheat_applied", "session_id", sess.ID, "victory", sess.Victory)
			result = statusOf(sess, reply)
			return nil
		}

		result, err = s.playTurn(ctx, sess, message)
		return err
	})
	if err != nil {
		return model.AskResult{}, err
	}

	span.SetAttributes(
		attribute.Int("game.turn", result.CurrentTurn),
		attribute.Bool("game.completed", result.Completed),
		attribute.Bool("game.victory", result.Victory),
	)
	return result, nil
}

// applyCheat: 치트 문자열이면 세션을 종료 상태로 바꾸고 응답 문구를 반환한다. 턴과 대화는 건드리지 않는다.
func (s *GameService) applyCheat(sess *model.Session, message string) (string, bool) {
	switch message {
	case CheatVictory:
		sess.Completed, sess.Victory = true, true
		sess.UpdatedAt = s.now()
		return s.msgs.Get(messages.CheatVictory), true
	case CheatDefeat:
		sess.Completed, sess.Victory = true, false
		sess.UpdatedAt = s.now()
		return s.msgs.Get(messages.CheatDefeat), true
	default:
		return "", false
	}
}

func (s *GameService) playTurn(ctx context.Context, sess *model.Session, message string) (model.AskResult, error) {
	sess.Append(model.RoleUser, message, s.now())
	req := s.buildRequest(ctx, sess)

	genCtx, cancel := ctx, context.CancelFunc(func() {})
	if s.opts.Timeout > 0 {
		genCtx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
	}
	reply, err := s.generator.Generate(genCtx, req)
	cancel()
	if err == nil && textutil.IsBlank(reply) {
		err = llm.ErrEmptyResponse
	}
	if err != nil {
		genErr := cgerr.GeneratorError{Provider: s.generator.Name(), Err: err}
		s.logger.Warn("generator_failed", "session_id", sess.ID, "turn", sess.CurrentTurn, "err", genErr)
		// 저장하지 않으므로 사용자 메시지는 기록되지 않는다.
		sess.DropLast()
		res := statusOf(sess, s.msgs.Get(messages.AskApology))
		res.Error = genErr.Error()
		return res, nil
	}

	if s.opts.MaxReplyLength > 0 && textutil.RuneLen(reply) > s.opts.MaxReplyLength {
		s.logger.Debug("reply_truncated", "session_id", sess.ID, "length", textutil.RuneLen(reply))
		reply = textutil.TruncateRunes(reply, s.opts.MaxReplyLength)
	}
	sess.Append(model.RoleAssistant, reply, s.now())
	if s.predicates.Resolve(sess)(reply) {
		sess.Victory = true
	}
	sess.CurrentTurn++
	switch {
	case sess.Victory:
		sess.Completed = true
	case sess.CurrentTurn > sess.MaxTurns:
		sess.Completed = true
	}

	if err := s.registry.Save(ctx, sess); err != nil {
		return model.AskResult{}, fmt.Errorf("save session failed: %w", err)
	}
	if sess.Completed {
		s.logger.Info("game_decided", "session_id", sess.ID, "victory", sess.Victory, "turns", sess.TurnsPlayed())
	}
	return statusOf(sess, reply), nil
}

// buildRequest: 저장된 프롬프트 설정이 있으면 그것을, 없으면 기본 템플릿을 쓴다.
func (s *GameService) buildRequest(ctx context.Context, sess *model.Session) llm.Request {
	params := []messageprovider.Param{
		messageprovider.P("character_name", sess.CharacterName),
		messageprovider.P("character_setting", sess.CharacterSetting),
		messageprovider.P("title", sess.Title),
		messageprovider.P("win_condition", sess.WinCondition),
		messageprovider.P("current_turn", strconv.Itoa(sess.CurrentTurn)),
		messageprovider.P("max_turns", strconv.Itoa(sess.MaxTurns)),
	}
	req := llm.Request{
		SystemPrompt: s.msgs.Get(messages.PromptSystem, params...),
		History:      sess.Window(s.opts.HistoryWindow),
		Model:        s.opts.Model,
		MaxTokens:    s.opts.MaxTokens,
		Temperature:  s.opts.Temperature,
	}

	cfg, found, err := s.catalog.StoredPrompt(ctx, sess.ItemID)
	if err != nil {
		s.logger.Warn("prompt_lookup_failed", "item_id", sess.ItemID, "err", err)
		return req
	}
	if !found {
		return req
	}
	req.SystemPrompt = cfg.SystemPrompt + "\n\n" + s.msgs.Get(messages.PromptStatus, params...)
	if cfg.Model != "" {
		req.Model = cfg.Model
	}
	if cfg.MaxTokens > 0 {
		req.MaxTokens = cfg.MaxTokens
	}
	if cfg.Temperature != nil {
		req.Temperature = *cfg.Temperature
	}
	return req
}

// End: 세션을 종료하고 요약을 반환한다. 없는 세션도 에러 없이 unknown 요약을 준다.
func (s *GameService) End(ctx context.Context, gameID string) (model.EndSummary, error) {
	gameID = textutil.Normalize(gameID)
	if gameID == "" {
		return model.EndSummary{}, cgerr.InvalidRequestError{Field: "game_id", Reason: "required"}
	}

	ctx, span := s.tracer.Start(ctx, "game.end", trace.WithAttributes(attribute.String("game.session_id", gameID)))
	defer span.End()

	var removed *model.Session
	err := s.registry.WithLock(ctx, gameID, func(ctx context.Context) error {
		sess, err := s.registry.Remove(ctx, gameID)
		if err != nil {
			return err
		}
		removed = sess
		return nil
	})

	var notFound cgerr.SessionNotFoundError
	if errors.As(err, &notFound) {
		s.logger.Info("game_end_unknown", "session_id", gameID)
		return model.EndSummary{
			GameID:    gameID,
			Completed: true,
			Unknown:   true,
			Message:   s.msgs.Get(messages.EndUnknown),
		}, nil
	}
	if err != nil {
		return model.EndSummary{}, err
	}

	summary := s.summarize(removed)
	s.recordResult(ctx, removed, summary)
	s.logger.Info("game_ended", "session_id", removed.ID, "victory", removed.Victory, "turns", summary.TurnsPlayed)
	return summary, nil
}

func (s *GameService) summarize(sess *model.Session) model.EndSummary {
	outcome := s.msgs.Get(messages.EndDefeat)
	score := ScoreDefeat
	evaluation := s.msgs.Get(messages.EndEvaluationDefeat)
	if sess.Victory {
		outcome = s.msgs.Get(messages.EndVictory)
		score = ScoreVictory
		evaluation = s.msgs.Get(messages.EndEvaluationVictory)
	}
	return model.EndSummary{
		GameID:            sess.ID,
		Title:             sess.Title,
		Completed:         sess.Completed,
		Victory:           sess.Victory,
		TurnsPlayed:       sess.TurnsPlayed(),
		Message:           s.msgs.Get(messages.EndFinishedPrefix) + outcome,
		EvaluationScore:   score,
		EvaluationMessage: evaluation,
	}
}

// recordResult: 결과 저장 실패는 종료 응답에 영향을 주지 않는다.
func (s *GameService) recordResult(ctx context.Context, sess *model.Session, summary model.EndSummary) {
	err := s.catalog.RecordResult(context.WithoutCancel(ctx), model.GameResult{
		SessionID:   sess.ID,
		ItemID:      sess.ItemID,
		Title:       sess.Title,
		Victory:     sess.Victory,
		TurnsPlayed: summary.TurnsPlayed,
		Score:       summary.EvaluationScore,
		EndedAt:     s.now(),
	})
	if err != nil {
		s.logger.Warn("record_result_failed", "session_id", sess.ID, "err", err)
	}
}

// ListSessions: 관리자용 진행 중 세션 요약
func (s *GameService) ListSessions(ctx context.Context, limit int) ([]model.SessionSummary, error) {
	sessions, err := s.registry.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions failed: %w", err)
	}
	out := make([]model.SessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, sess.Summary())
	}
	return out, nil
}

// RemoveSession: 관리자 강제 삭제. 결과는 기록하지 않는다.
func (s *GameService) RemoveSession(ctx context.Context, gameID string) error {
	return s.registry.WithLock(ctx, gameID, func(ctx context.Context) error {
		if _, err := s.registry.Remove(ctx, gameID); err != nil {
			return err
		}
		s.logger.Info("session_removed_by_admin", "session_id", gameID)
		return nil
	})
}

// GeneratorName: 현재 연결된 생성기 이름 (debug 용)
func (s *GameService) GeneratorName() string { return s.generator.Name() }

func statusOf(sess *model.Session, response string) model.AskResult {
	return model.AskResult{
		GameID:      sess.ID,
		Response:    response,
		CurrentTurn: sess.CurrentTurn,
		MaxTurns:    sess.MaxTurns,
		Completed:   sess.Completed,
		Victory:     sess.Victory,
	}
}

func lastAssistantReply(sess *model.Session) string {
	for i := len(sess.Conversation) - 1; i >= 0; i-- {
		if sess.Conversation[i].Role == model.RoleAssistant {
			return sess.Conversation[i].Content
		}
	}
	return ""
}
