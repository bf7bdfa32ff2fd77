package repository

import (
	"time"

	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/model"
)

// CatalogItemRow: 게임 시나리오 테이블. id 는 max(id)+1 로 직접 할당한다.
type CatalogItemRow struct {
	ID               int       `gorm:"column:id;primaryKey;autoIncrement:false"`
	Title            string    `gorm:"column:title;not null"`
	Category         string    `gorm:"column:category;not null;index"`
	CharacterName    string    `gorm:"column:character_name;not null"`
	CharacterSetting string    `gorm:"column:character_setting;not null;default:''"`
	MaxTurns         int       `gorm:"column:max_turns;not null"`
	WinCondition     string    `gorm:"column:win_condition;not null"`
	LoseCondition    string    `gorm:"column:lose_condition;not null;default:''"`
	Difficulty       string    `gorm:"column:difficulty;not null;default:''"`
	Notes            string    `gorm:"column:notes;not null;default:''"`
	CreatedAt        time.Time `gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (CatalogItemRow) TableName() string { return "catalog_items" }

func (r CatalogItemRow) toModel() model.CatalogItem {
	return model.CatalogItem{
		ID:               r.ID,
		Title:            r.Title,
		Category:         r.Category,
		CharacterName:    r.CharacterName,
		CharacterSetting: r.CharacterSetting,
		MaxTurns:         r.MaxTurns,
		WinCondition:     r.WinCondition,
		LoseCondition:    r.LoseCondition,
		Difficulty:       r.Difficulty,
		Notes:            r.Notes,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func catalogRowFromModel(item model.CatalogItem) CatalogItemRow {
	return CatalogItemRow{
		ID:               item.ID,
		Title:            item.Title,
		Category:         item.Category,
		CharacterName:    item.CharacterName,
		CharacterSetting: item.CharacterSetting,
		MaxTurns:         item.MaxTurns,
		WinCondition:     item.WinCondition,
		LoseCondition:    item.LoseCondition,
		Difficulty:       item.Difficulty,
		Notes:            item.Notes,
		CreatedAt:        item.CreatedAt,
	}
}

// PromptConfigRow: 항목별 프롬프트 설정 (item_id 당 1행)
type PromptConfigRow struct {
	ItemID         int       `gorm:"column:item_id;primaryKey;autoIncrement:false"`
	SystemPrompt   string    `gorm:"column:system_prompt;not null"`
	WelcomeMessage string    `gorm:"column:welcome_message;not null;default:''"`
	Model          string    `gorm:"column:model;not null;default:''"`
	MaxTokens      int       `gorm:"column:max_tokens;not null;default:0"`
	Temperature    *float64  `gorm:"column:temperature"`
	UpdatedAt      time.Time `gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (PromptConfigRow) TableName() string { return "prompt_configs" }

func (r PromptConfigRow) toModel() model.PromptConfig {
	return model.PromptConfig{
		ItemID:         r.ItemID,
		SystemPrompt:   r.SystemPrompt,
		WelcomeMessage: r.WelcomeMessage,
		Model:          r.Model,
		MaxTokens:      r.MaxTokens,
		Temperature:    r.Temperature,
		UpdatedAt:      r.UpdatedAt,
	}
}

// GameResultRow: 종료된 게임 기록
type GameResultRow struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	SessionID   string    `gorm:"column:session_id;not null;uniqueIndex"`
	ItemID      int       `gorm:"column:item_id;not null;index"`
	Title       string    `gorm:"column:title;not null;default:''"`
	Victory     bool      `gorm:"column:victory;not null"`
	TurnsPlayed int       `gorm:"column:turns_played;not null;default:0"`
	Score       int       `gorm:"column:score;not null;default:0"`
	EndedAt     time.Time `gorm:"column:ended_at;not null;index"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

func (GameResultRow) TableName() string { return "game_results" }

func (r GameResultRow) toModel() model.GameResult {
	return model.GameResult{
		SessionID:   r.SessionID,
		ItemID:      r.ItemID,
		Title:       r.Title,
		Victory:     r.Victory,
		TurnsPlayed: r.TurnsPlayed,
		Score:       r.Score,
		EndedAt:     r.EndedAt,
	}
}
