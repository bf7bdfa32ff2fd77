package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"

	cgconfig "github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/config"
	cgerr "github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/errors"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/messages"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/model"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/repository"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/cache"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/messageprovider"
)

const catalogListKey = -1

// CatalogService: 카탈로그/프롬프트/결과 조회와 관리자 변경을 담당한다. 항목 조회는 TTL LRU 로 캐시한다.
type CatalogService struct {
	repo   *repository.Repository
	msgs   *messageprovider.Provider
	logger *slog.Logger

	items *cache.TTLLRU[int, model.CatalogItem]
	lists *cache.TTLLRU[int, []model.CatalogItem]

	generatorDefaults cgconfig.GeneratorConfig
	pick              func(n int) int
}

// NewCatalogService: CatalogService 를 생성한다.
func NewCatalogService(
	repo *repository.Repository,
	msgs *messageprovider.Provider,
	catalogCfg cgconfig.CatalogConfig,
	generatorCfg cgconfig.GeneratorConfig,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		repo:              repo,
		msgs:              msgs,
		logger:            logger,
		items:             cache.NewTTLLRU[int, model.CatalogItem](catalogCfg.CacheSize, catalogCfg.CacheTTL),
		lists:             cache.NewTTLLRU[int, []model.CatalogItem](1, catalogCfg.CacheTTL),
		generatorDefaults: generatorCfg,
		pick:              rand.IntN,
	}
}

// List: 전체 카탈로그 (id 순)
func (s *CatalogService) List(ctx context.Context) ([]model.CatalogItem, error) {
	if items, ok := s.lists.Get(catalogListKey); ok {
		return items, nil
	}
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog failed: %w", err)
	}
	s.lists.Set(catalogListKey, items)
	return items, nil
}

// Get: 항목 하나. 없으면 CatalogItemNotFoundError.
func (s *CatalogService) Get(ctx context.Context, id int) (model.CatalogItem, error) {
	if item, ok := s.items.Get(id); ok {
		return item, nil
	}
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return model.CatalogItem{}, fmt.Errorf("get catalog item failed: %w", err)
	}
	s.items.Set(id, item)
	return item, nil
}

// Random: 균등 무작위로 항목 하나를 고른다. 비어 있으면 CatalogEmptyError.
func (s *CatalogService) Random(ctx context.Context) (model.CatalogItem, error) {
	items, err := s.List(ctx)
	if err != nil {
		return model.CatalogItem{}, err
	}
	if len(items) == 0 {
		return model.CatalogItem{}, cgerr.CatalogEmptyError{}
	}
	return items[s.pick(len(items))], nil
}

// Create: 관리자 항목 추가
func (s *CatalogService) Create(ctx context.Context, item model.CatalogItem) (model.CatalogItem, error) {
	if err := validateItem(item); err != nil {
		return model.CatalogItem{}, err
	}
	saved, err := s.repo.CreateItem(ctx, item)
	if err != nil {
		return model.CatalogItem{}, fmt.Errorf("create catalog item failed: %w", err)
	}
	s.invalidate(saved.ID)
	s.logger.Info("catalog_item_created", "item_id", saved.ID, "title", saved.Title)
	return saved, nil
}

// Update: 관리자 항목 수정. item 은 병합이 끝난 전체 값이다.
func (s *CatalogService) Update(ctx context.Context, id int, item model.CatalogItem) (model.CatalogItem, error) {
	if err := validateItem(item); err != nil {
		return model.CatalogItem{}, err
	}
	saved, err := s.repo.UpdateItem(ctx, id, item)
	if err != nil {
		return model.CatalogItem{}, fmt.Errorf("update catalog item failed: %w", err)
	}
	s.invalidate(id)
	s.logger.Info("catalog_item_updated", "item_id", id)
	return saved, nil
}

// Delete: 관리자 항목 삭제. 항목 프롬프트도 함께 지워진다.
func (s *CatalogService) Delete(ctx context.Context, id int) error {
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		return fmt.Errorf("delete catalog item failed: %w", err)
	}
	s.invalidate(id)
	s.logger.Info("catalog_item_deleted", "item_id", id)
	return nil
}

func (s *CatalogService) invalidate(id int) {
	s.items.Delete(id)
	s.lists.Purge()
}

// Prompt: 항목에 저장된 프롬프트 설정. 없으면 기본값을 합성하고 found=false.
func (s *CatalogService) Prompt(ctx context.Context, itemID int) (model.PromptConfig, bool, error) {
	if _, err := s.Get(ctx, itemID); err != nil {
		return model.PromptConfig{}, false, err
	}
	cfg, found, err := s.repo.GetPrompt(ctx, itemID)
	if err != nil {
		return model.PromptConfig{}, false, fmt.Errorf("get prompt failed: %w", err)
	}
	if found {
		return cfg, true, nil
	}
	temperature := s.generatorDefaults.Temperature
	return model.PromptConfig{
		ItemID:         itemID,
		SystemPrompt:   s.msgs.Get(messages.PromptAdminDefault, messageprovider.P("id", strconv.Itoa(itemID))),
		WelcomeMessage: s.msgs.Get(messages.PromptAdminDefaultWelcome),
		Model:          s.generatorDefaults.Model,
		MaxTokens:      s.generatorDefaults.MaxTokens,
		Temperature:    &temperature,
	}, false, nil
}

// SavePrompt: 항목 프롬프트 설정을 저장한다.
func (s *CatalogService) SavePrompt(ctx context.Context, cfg model.PromptConfig) (model.PromptConfig, error) {
	if cfg.SystemPrompt == "" {
		return model.PromptConfig{}, cgerr.InvalidRequestError{Field: "system_prompt", Reason: "required"}
	}
	if _, err := s.Get(ctx, cfg.ItemID); err != nil {
		return model.PromptConfig{}, err
	}
	saved, err := s.repo.SavePrompt(ctx, cfg)
	if err != nil {
		return model.PromptConfig{}, fmt.Errorf("save prompt failed: %w", err)
	}
	s.logger.Info("prompt_saved", "item_id", cfg.ItemID)
	return saved, nil
}

// StoredPrompt: 저장된 프롬프트만 조회한다. (턴 엔진용, 기본값 합성 없음)
func (s *CatalogService) StoredPrompt(ctx context.Context, itemID int) (model.PromptConfig, bool, error) {
	cfg, found, err := s.repo.GetPrompt(ctx, itemID)
	if err != nil {
		return model.PromptConfig{}, false, fmt.Errorf("get prompt failed: %w", err)
	}
	return cfg, found, nil
}

// RecordResult: 종료된 게임 결과를 저장한다.
func (s *CatalogService) RecordResult(ctx context.Context, result model.GameResult) error {
	if err := s.repo.RecordResult(ctx, result); err != nil {
		return fmt.Errorf("record result failed: %w", err)
	}
	return nil
}

// RecentResults: 최근 결과
func (s *CatalogService) RecentResults(ctx context.Context, limit int) ([]model.GameResult, error) {
	results, err := s.repo.RecentResults(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent results failed: %w", err)
	}
	return results, nil
}

// ResultStats: 전체/항목별 집계
func (s *CatalogService) ResultStats(ctx context.Context) (repository.ResultStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return repository.ResultStats{}, fmt.Errorf("result stats failed: %w", err)
	}
	return stats, nil
}

// validateItem: 필수 필드 검사
func validateItem(item model.CatalogItem) error {
	switch {
	case item.Title == "":
		return cgerr.InvalidRequestError{Field: "title", Reason: "required"}
	case item.Category == "":
		return cgerr.InvalidRequestError{Field: "category", Reason: "required"}
	case item.CharacterName == "":
		return cgerr.InvalidRequestError{Field: "character_name", Reason: "required"}
	case item.MaxTurns <= 0:
		return cgerr.InvalidRequestError{Field: "max_turns", Reason: "must be positive"}
	case item.WinCondition == "":
		return cgerr.InvalidRequestError{Field: "win_condition", Reason: "required"}
	}
	return nil
}
