package response

import (
	"time"

	"meditation-assistant-backend/model"
	"meditation-assistant-backend/service/history"
)

// 没有用户消息的会话在前端显示默认占位标题
const DefaultSessionTitle = "New chat"

type MessageResponse struct {
	ID           uint      `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Role         string    `json:"role"`
	Content      string    `json:"content"`
	MaterialRefs []uint    `json:"material_refs,omitempty"`
}

type SessionResponse struct {
	SessionID    string            `json:"session_id"`
	UserID       int64             `json:"user_id"`
	Title        string            `json:"title"`
	MessageCount int               `json:"message_count"`
	StartedAt    time.Time         `json:"started_at"`
	LastActiveAt time.Time         `json:"last_active_at"`
	Messages     []MessageResponse `json:"messages"`
}

type GetSessionsResponse struct {
	Sessions []SessionResponse `json:"sessions"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

type GetSessionMessagesResponse struct {
	Messages []MessageResponse `json:"messages"`
}

func NewMessageResponse(m model.Message) MessageResponse {
	return MessageResponse{
		ID:           m.ID,
		CreatedAt:    m.CreatedAt,
		Role:         m.Role,
		Content:      m.Content,
		MaterialRefs: model.DecodeMaterialRefs(m.MaterialRefs),
	}
}

func NewSessionResponse(s history.Session) SessionResponse {
	title := s.Preview
	if title == "" {
		title = DefaultSessionTitle
	}

	messages := make([]MessageResponse, 0, len(s.Messages))
	for _, m := range s.Messages {
		messages = append(messages, NewMessageResponse(m))
	}

	return SessionResponse{
		SessionID:    s.SessionID,
		UserID:       s.UserID,
		Title:        title,
		MessageCount: s.MessageCount,
		StartedAt:    s.StartedAt,
		LastActiveAt: s.LastActiveAt,
		Messages:     messages,
	}
}
