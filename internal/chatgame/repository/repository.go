package repository

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/model"
	cerrors "github.com/park285/llm-kakao-bots/chat-game-go/internal/common/errors"
)

// Repository: DB 접근을 위한 GORM 기반 리포지토리
// 메서드들은 도메인별 파일로 분리됨:
//   - catalog.go: 게임 시나리오 CRUD
//   - prompt.go: 항목별 프롬프트 설정
//   - results.go: 종료된 게임 기록
type Repository struct {
	db *gorm.DB
}

// New: 새로운 Repository 인스턴스를 생성한다.
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AutoMigrate: 자동으로 DB 테이블 스키마를 마이그레이션한다.
func (r *Repository) AutoMigrate(ctx context.Context) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("db is nil")
	}
	if err := r.db.WithContext(ctx).AutoMigrate(
		&CatalogItemRow{},
		&PromptConfigRow{},
		&GameResultRow{},
	); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}

type seedDocument struct {
	Items []struct {
		Title            string `yaml:"title"`
		Category         string `yaml:"category"`
		CharacterName    string `yaml:"character_name"`
		CharacterSetting string `yaml:"character_setting"`
		MaxTurns         int    `yaml:"max_turns"`
		WinCondition     string `yaml:"win_condition"`
		LoseCondition    string `yaml:"lose_condition"`
		Difficulty       string `yaml:"difficulty"`
		Notes            string `yaml:"notes"`
	} `yaml:"items"`
}

// SeedIfEmpty: 카탈로그 테이블이 비어 있을 때만 YAML 의 기본 시나리오를 1 번부터 채운다.
// 삽입한 개수를 반환한다.
func (r *Repository) SeedIfEmpty(ctx context.Context, seedYAML string) (int, error) {
	var doc seedDocument
	if err := yaml.Unmarshal([]byte(seedYAML), &doc); err != nil {
		return 0, fmt.Errorf("parse seed catalog failed: %w", err)
	}

	inserted := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&CatalogItemRow{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		rows := make([]CatalogItemRow, 0, len(doc.Items))
		for i, it := range doc.Items {
			rows = append(rows, catalogRowFromModel(model.CatalogItem{
				ID:               i + 1,
				Title:            it.Title,
				Category:         it.Category,
				CharacterName:    it.CharacterName,
				CharacterSetting: it.CharacterSetting,
				MaxTurns:         it.MaxTurns,
				WinCondition:     it.WinCondition,
				LoseCondition:    it.LoseCondition,
				Difficulty:       it.Difficulty,
				Notes:            it.Notes,
			}))
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
		inserted = len(rows)
		return nil
	})
	if err != nil {
		return 0, cerrors.DatabaseError{Operation: "catalog_seed", Err: err}
	}
	return inserted, nil
}
