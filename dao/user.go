package dao

import (
	"context"
	"time"

	"meditation-assistant-backend/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertUser 登记或刷新Telegram用户资料
func (s *Store) UpsertUser(ctx context.Context, user *model.User) error {
	user.LastSeenAt = time.Now()
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "first_name", "last_name", "last_seen_at", "updated_at"}),
		}).
		Create(user).Error
}

func (s *Store) ListUsers(ctx context.Context, limit, offset int) ([]model.User, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).
		Model(&model.User{}).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := s.db.WithContext(ctx).Order("last_seen_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var users []model.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// DeleteUser 在同一事务中删除用户及其全部消息，避免留下孤儿消息
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&model.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		return tx.Where("user_id = ?", id).Delete(&model.Message{}).Error
	})
}
