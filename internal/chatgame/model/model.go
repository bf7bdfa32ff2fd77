// Package model 은 대화형 게임의 카탈로그/세션/결과 도메인 타입을 정의한다.
package model

import (
	"time"
)

// Role: 대화 메시지 화자
type Role string

// 대화 역할 상수.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message: 대화 기록의 한 줄
type Message struct {
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// CatalogItem: 플레이 가능한 시나리오 하나. 세션은 생성 시점 값을 복사해서 쓴다.
type CatalogItem struct {
	ID               int       `json:"id"`
	Title            string    `json:"title"`
	Category         string    `json:"category"`
	CharacterName    string    `json:"character_name"`
	CharacterSetting string    `json:"character_setting"`
	MaxTurns         int       `json:"max_turns"`
	WinCondition     string    `json:"win_condition"`
	LoseCondition    string    `json:"lose_condition"`
	Difficulty       string    `json:"difficulty,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// PublicCatalogItem: 공개 목록에 노출하는 필드만 담는다.
type PublicCatalogItem struct {
	ID               int    `json:"id"`
	Title            string `json:"title"`
	Category         string `json:"category"`
	CharacterName    string `json:"character_name"`
	CharacterSetting string `json:"character_setting"`
	MaxTurns         int    `json:"max_turns"`
	WinCondition     string `json:"win_condition"`
	LoseCondition    string `json:"lose_condition"`
}

// Public: 관리자 전용 필드를 뺀 사본을 반환한다.
func (c CatalogItem) Public() PublicCatalogItem {
	return PublicCatalogItem{
		ID:               c.ID,
		Title:            c.Title,
		Category:         c.Category,
		CharacterName:    c.CharacterName,
		CharacterSetting: c.CharacterSetting,
		MaxTurns:         c.MaxTurns,
		WinCondition:     c.WinCondition,
		LoseCondition:    c.LoseCondition,
	}
}

// PromptConfig: 항목별 응답 생성 설정 (관리자 편집)
type PromptConfig struct {
	ItemID         int       `json:"item_id"`
	SystemPrompt   string    `json:"system_prompt"`
	WelcomeMessage string    `json:"welcome_message"`
	Model          string    `json:"model"`
	MaxTokens      int       `json:"max_tokens"`
	Temperature    *float64  `json:"temperature,omitempty"` // nil 이면 생성기 기본값
	UpdatedAt      time.Time `json:"updated_at,omitempty"`
}

// GameResult: 종료된 게임 기록 (관리자 통계용)
type GameResult struct {
	SessionID   string    `json:"session_id"`
	ItemID      int       `json:"item_id"`
	Title       string    `json:"title"`
	Victory     bool      `json:"victory"`
	TurnsPlayed int       `json:"turns_played"`
	Score       int       `json:"score"`
	EndedAt     time.Time `json:"ended_at"`
}
