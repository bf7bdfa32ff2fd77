package model

import (
	"slices"
	"time"
)

// State: 세션 진행 상태
type State string

// 세션 상태 상수.
const (
	StateActive State = "ACTIVE"
	StateWon    State = "WON"
	StateLost   State = "LOST"
)

// Session: 한 플레이어의 진행 중인 게임. CurrentTurn 은 1 부터 시작하며 MaxTurns+1 을 넘지 않는다.
type Session struct {
	ID               string    `json:"session_id"`
	ItemID           int       `json:"item_id"`
	Title            string    `json:"title"`
	Category         string    `json:"category"`
	CharacterName    string    `json:"character_name"`
	CharacterSetting string    `json:"character_setting"`
	WinCondition     string    `json:"win_condition"`
	LoseCondition    string    `json:"lose_condition"`
	MaxTurns         int       `json:"max_turns"`
	CurrentTurn      int       `json:"current_turn"`
	Completed        bool      `json:"completed"`
	Victory          bool      `json:"victory"`
	Conversation     []Message `json:"conversation"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewSession: 카탈로그 항목을 스냅샷해서 새 세션을 만든다.
func NewSession(id string, item CatalogItem, now time.Time) *Session {
	return &Session{
		ID:               id,
		ItemID:           item.ID,
		Title:            item.Title,
		Category:         item.Category,
		CharacterName:    item.CharacterName,
		CharacterSetting: item.CharacterSetting,
		WinCondition:     item.WinCondition,
		LoseCondition:    item.LoseCondition,
		MaxTurns:         item.MaxTurns,
		CurrentTurn:      1,
		Conversation:     []Message{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// State: 현재 진행 상태를 계산한다.
func (s *Session) State() State {
	switch {
	case !s.Completed:
		return StateActive
	case s.Victory:
		return StateWon
	default:
		return StateLost
	}
}

// TurnsPlayed: 진행한 턴 수 (current_turn - 1)
func (s *Session) TurnsPlayed() int {
	if s.CurrentTurn <= 1 {
		return 0
	}
	return s.CurrentTurn - 1
}

// Append: 대화 기록에 메시지를 추가한다.
func (s *Session) Append(role Role, content string, at time.Time) {
	s.Conversation = append(s.Conversation, Message{Role: role, Content: content, At: at})
	s.UpdatedAt = at
}

// DropLast: 마지막 메시지를 제거한다. 생성 실패 시 사용자 메시지를 되돌릴 때 쓴다.
func (s *Session) DropLast() {
	if n := len(s.Conversation); n > 0 {
		s.Conversation = s.Conversation[:n-1]
	}
}

// Window: 마지막 n 개의 메시지 사본
func (s *Session) Window(n int) []Message {
	if n <= 0 || len(s.Conversation) <= n {
		return slices.Clone(s.Conversation)
	}
	return slices.Clone(s.Conversation[len(s.Conversation)-n:])
}

// Clone: 대화 기록까지 복사한 독립 사본
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Conversation = slices.Clone(s.Conversation)
	return &c
}

// SessionSummary: 관리자 세션 목록 한 줄
type SessionSummary struct {
	ID          string    `json:"session_id"`
	ItemID      int       `json:"item_id"`
	Title       string    `json:"title"`
	State       State     `json:"state"`
	CurrentTurn int       `json:"current_turn"`
	MaxTurns    int       `json:"max_turns"`
	Messages    int       `json:"messages"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Summary: 관리자 목록용 요약
func (s *Session) Summary() SessionSummary {
	return SessionSummary{
		ID:          s.ID,
		ItemID:      s.ItemID,
		Title:       s.Title,
		State:       s.State(),
		CurrentTurn: s.CurrentTurn,
		MaxTurns:    s.MaxTurns,
		Messages:    len(s.Conversation),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
