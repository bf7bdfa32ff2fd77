package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	cgerr "github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/errors"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/model"
	cerrors "github.com/park285/llm-kakao-bots/chat-game-go/internal/common/errors"
)

// ListItems: 전체 카탈로그를 id 순으로 반환한다.
func (r *Repository) ListItems(ctx context.Context) ([]model.CatalogItem, error) {
	var rows []CatalogItemRow
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, cerrors.DatabaseError{Operation: "catalog_list", Err: err}
	}
	items := make([]model.CatalogItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toModel())
	}
	return items, nil
}

// GetItem: 항목 하나를 조회한다. 없으면 CatalogItemNotFoundError.
func (r *Repository) GetItem(ctx context.Context, id int) (model.CatalogItem, error) {
	var row CatalogItemRow
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CatalogItem{}, cgerr.CatalogItemNotFoundError{ItemID: id}
	}
	if err != nil {
		return model.CatalogItem{}, cerrors.DatabaseError{Operation: "catalog_get", Err: err}
	}
	return row.toModel(), nil
}

// CreateItem: 새 항목을 max(id)+1 로 저장하고 저장된 값을 반환한다. item.ID 는 무시한다.
func (r *Repository) CreateItem(ctx context.Context, item model.CatalogItem) (model.CatalogItem, error) {
	var saved CatalogItemRow
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxID int
		if err := tx.Model(&CatalogItemRow{}).Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
			return err
		}
		row := catalogRowFromModel(item)
		row.ID = maxID + 1
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		saved = row
		return nil
	})
	if err != nil {
		return model.CatalogItem{}, cerrors.DatabaseError{Operation: "catalog_create", Err: err}
	}
	return saved.toModel(), nil
}

// UpdateItem: id 의 항목을 item 값으로 덮어쓴다. 없으면 CatalogItemNotFoundError.
func (r *Repository) UpdateItem(ctx context.Context, id int, item model.CatalogItem) (model.CatalogItem, error) {
	var saved CatalogItemRow
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing CatalogItemRow
		if err := tx.Where("id = ?", id).Take(&existing).Error; err != nil {
			return err
		}
		row := catalogRowFromModel(item)
		row.ID = id
		row.CreatedAt = existing.CreatedAt
		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		saved = row
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CatalogItem{}, cgerr.CatalogItemNotFoundError{ItemID: id}
	}
	if err != nil {
		return model.CatalogItem{}, cerrors.DatabaseError{Operation: "catalog_update", Err: err}
	}
	return saved.toModel(), nil
}

// DeleteItem: 항목과 해당 프롬프트 설정을 삭제한다. 없으면 CatalogItemNotFoundError.
func (r *Repository) DeleteItem(ctx context.Context, id int) error {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&CatalogItemRow{})
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return tx.Where("item_id = ?", id).Delete(&PromptConfigRow{}).Error
	})
	if err != nil {
		return cerrors.DatabaseError{Operation: "catalog_delete", Err: err}
	}
	if affected == 0 {
		return cgerr.CatalogItemNotFoundError{ItemID: id}
	}
	return nil
}
