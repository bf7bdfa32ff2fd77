package repository

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/model"
	cerrors "github.com/park285/llm-kakao-bots/chat-game-go/internal/common/errors"
)

// RecordResult: 게임 결과를 저장한다. 같은 세션이 두 번 기록되면 무시한다.
func (r *Repository) RecordResult(ctx context.Context, result model.GameResult) error {
	row := GameResultRow{
		SessionID:   result.SessionID,
		ItemID:      result.ItemID,
		Title:       result.Title,
		Victory:     result.Victory,
		TurnsPlayed: result.TurnsPlayed,
		Score:       result.Score,
		EndedAt:     result.EndedAt,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoNothing: true,
	}).Create(&row).Error
	if err != nil {
		return cerrors.DatabaseError{Operation: "result_record", Err: err}
	}
	return nil
}

// RecentResults: 최근 종료 순으로 최대 limit 개의 결과를 반환한다.
func (r *Repository) RecentResults(ctx context.Context, limit int) ([]model.GameResult, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []GameResultRow
	if err := r.db.WithContext(ctx).Order("ended_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, cerrors.DatabaseError{Operation: "result_recent", Err: err}
	}
	out := make([]model.GameResult, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}

// ItemResultStats: 항목별 플레이/승리 집계
type ItemResultStats struct {
	ItemID  int `json:"item_id"`
	Played  int `json:"played"`
	Victory int `json:"victory"`
}

// ResultStats: 전체 결과 집계와 항목별 집계
type ResultStats struct {
	Total        int               `json:"total"`
	Victories    int               `json:"victories"`
	AverageScore float64           `json:"average_score"`
	ByItem       []ItemResultStats `json:"by_item"`
}

// Stats: 전체 합계(판 수, 승리 수, 평균 점수)와 항목별 집계를 반환한다.
func (r *Repository) Stats(ctx context.Context) (ResultStats, error) {
	var totals struct {
		Total        int
		Victories    int
		AverageScore float64
	}
	err := r.db.WithContext(ctx).Model(&GameResultRow{}).
		Select("COUNT(*) AS total, " +
			"COALESCE(SUM(CASE WHEN victory THEN 1 ELSE 0 END), 0) AS victories, " +
			"COALESCE(AVG(score), 0) AS average_score").
		Scan(&totals).Error
	if err != nil {
		return ResultStats{}, cerrors.DatabaseError{Operation: "result_totals", Err: err}
	}

	byItem := make([]ItemResultStats, 0)
	err = r.db.WithContext(ctx).Model(&GameResultRow{}).
		Select("item_id, COUNT(*) AS played, SUM(CASE WHEN victory THEN 1 ELSE 0 END) AS victory").
		Group("item_id").
		Order("item_id ASC").
		Scan(&byItem).Error
	if err != nil {
		return ResultStats{}, cerrors.DatabaseError{Operation: "result_stats", Err: err}
	}

	return ResultStats{
		Total:        totals.Total,
		Victories:    totals.Victories,
		AverageScore: totals.AverageScore,
		ByItem:       byItem,
	}, nil
}
