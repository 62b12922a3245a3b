// Package chat 负责一轮对话的编排：调用推荐引擎，然后成对写入消息。
package chat

import (
	"context"
	"fmt"
	"log/slog"

	"meditation-assistant-backend/dao"
	"meditation-assistant-backend/model"
	"meditation-assistant-backend/service/recommend"

	"github.com/google/uuid"
)

type Service struct {
	store       *dao.Store
	recommender recommend.Recommender
}

func NewService(store *dao.Store, recommender recommend.Recommender) *Service {
	return &Service{
		store:       store,
		recommender: recommender,
	}
}

// Answer 一轮对话的结果
type Answer struct {
	SessionID string           `json:"session_id"`
	Comment   string           `json:"comment"`
	Materials []model.Material `json:"materials"`

	// 消息落库失败时为false，回答仍然返回给调用方
	Persisted bool `json:"persisted"`
}

// Ask 执行一轮对话。
// 先调用推荐引擎，拿到回答后在同一事务中写入用户消息与助手消息：
// 引擎失败则不产生任何写入；事务失败仍返回回答，只记录错误，
// 避免出现只有用户消息没有助手回复的半截会话。
func (s *Service) Ask(ctx context.Context, userID int64, sessionID, question string) (*Answer, error) {
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	result, err := s.recommender.Recommend(ctx, userID, sessionID, question)
	if err != nil {
		return nil, fmt.Errorf("recommender call failed: %w", err)
	}

	userMsg := &model.Message{
		UserID:    userID,
		SessionID: sessionID,
		Role:      model.RoleUser,
		Content:   question,
	}
	assistantMsg := &model.Message{
		UserID:       userID,
		SessionID:    sessionID,
		Role:         model.RoleAssistant,
		Content:      result.Comment,
		MaterialRefs: model.EncodeMaterialRefs(result.MaterialIDs),
	}

	answer := &Answer{
		SessionID: sessionID,
		Comment:   result.Comment,
		Persisted: true,
	}

	if err := s.store.CreateMessagePair(ctx, userMsg, assistantMsg); err != nil {
		slog.Error("failed to persist chat turn",
			"user_id", userID,
			"session_id", sessionID,
			"err", err,
		)
		answer.Persisted = false
	}

	if len(result.MaterialIDs) > 0 {
		materials, err := s.store.GetMaterialsByIDs(ctx, result.MaterialIDs)
		if err != nil {
			slog.Error("failed to load recommended materials",
				"session_id", sessionID,
				"err", err,
			)
		} else {
			answer.Materials = materials
		}
	}

	return answer, nil
}
