package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/model"
	cerrors "github.com/park285/llm-kakao-bots/chat-game-go/internal/common/errors"
)

// GetPrompt: 항목의 프롬프트 설정을 조회한다. 저장된 값이 없으면 found=false.
func (r *Repository) GetPrompt(ctx context.Context, itemID int) (model.PromptConfig, bool, error) {
	var row PromptConfigRow
	err := r.db.WithContext(ctx).Where("item_id = ?", itemID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PromptConfig{}, false, nil
	}
	if err != nil {
		return model.PromptConfig{}, false, cerrors.DatabaseError{Operation: "prompt_get", Err: err}
	}
	return row.toModel(), true, nil
}

// SavePrompt: 프롬프트 설정을 upsert 한다.
func (r *Repository) SavePrompt(ctx context.Context, cfg model.PromptConfig) (model.PromptConfig, error) {
	row := PromptConfigRow{
		ItemID:         cfg.ItemID,
		SystemPrompt:   cfg.SystemPrompt,
		WelcomeMessage: cfg.WelcomeMessage,
		Model:          cfg.Model,
		MaxTokens:      cfg.MaxTokens,
		Temperature:    cfg.Temperature,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"system_prompt", "welcome_message", "model", "max_tokens", "temperature", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return model.PromptConfig{}, cerrors.DatabaseError{Operation: "prompt_save", Err: err}
	}
	return row.toModel(), nil
}
