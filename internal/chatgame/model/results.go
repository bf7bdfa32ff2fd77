package model

// StartResult: start 응답
type StartResult struct {
	GameID        string `json:"game_id"`
	ItemID        int    `json:"item_id"`
	Title         string `json:"title"`
	Category      string `json:"category"`
	CharacterName string `json:"character_name"`
	MaxTurns      int    `json:"max_turns"`
	CurrentTurn   int    `json:"current_turn"`
	WinCondition  string `json:"win_condition"`
	Welcome       string `json:"welcome_message"`
}

// AskResult: ask 응답. Error 는 생성 실패 시에만 채워진다.
type AskResult struct {
	GameID      string `json:"game_id"`
	Response    string `json:"response"`
	CurrentTurn int    `json:"current_turn"`
	MaxTurns    int    `json:"max_turns"`
	Completed   bool   `json:"completed"`
	Victory     bool   `json:"victory"`
	Error       string `json:"error,omitempty"`
}

// EndSummary: end 응답. 알 수 없는 세션이면 Unknown 이 true 다.
type EndSummary struct {
	GameID            string `json:"game_id"`
	Title             string `json:"title,omitempty"`
	Completed         bool   `json:"completed"`
	Victory           bool   `json:"victory"`
	Unknown           bool   `json:"unknown,omitempty"`
	TurnsPlayed       int    `json:"turns_played"`
	Message           string `json:"message"`
	EvaluationScore   int    `json:"evaluation_score,omitempty"`
	EvaluationMessage string `json:"evaluation_message,omitempty"`
}
