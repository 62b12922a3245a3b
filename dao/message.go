package dao

import (
	"context"
	"errors"

	"meditation-assistant-backend/model"

	"gorm.io/gorm"
)

var ErrNotFound = gorm.ErrRecordNotFound

// ListMessagesByUser 返回某个用户的全部消息，按 (created_at, id) 升序
func (s *Store) ListMessagesByUser(ctx context.Context, userID int64) ([]model.Message, error) {
	var messages []model.Message
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// ListAllMessages 返回全量消息，供管理端会话视图与统计使用
func (s *Store) ListAllMessages(ctx context.Context) ([]model.Message, error) {
	var messages []model.Message
	if err := s.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *Store) ListMessagesBySession(ctx context.Context, userID int64, sessionID string) ([]model.Message, error) {
	var messages []model.Message
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND session_id = ?", userID, sessionID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// CreateMessagePair 在同一事务中写入一轮对话的用户消息和助手消息
func (s *Store) CreateMessagePair(ctx context.Context, userMsg, assistantMsg *model.Message) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(userMsg).Error; err != nil {
			return err
		}
		if err := tx.Create(assistantMsg).Error; err != nil {
			return err
		}
		return nil
	})
}

// DeleteMessage 按ID删除单条消息，目标不存在时返回 ErrNotFound
func (s *Store) DeleteMessage(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Message{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSession 删除会话内的全部消息；会话无独立存储，删完消息即删完会话
// userID 为 0 表示管理端调用，不限定用户
func (s *Store) DeleteSession(ctx context.Context, userID int64, sessionID string) error {
	query := s.db.WithContext(ctx).Where("session_id = ?", sessionID)
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}
	return query.Delete(&model.Message{}).Error
}

func (s *Store) GetMessageByID(ctx context.Context, id uint) (*model.Message, error) {
	var message model.Message
	if err := s.db.WithContext(ctx).
		Where("id = ?", id).
		First(&message).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &message, nil
}
