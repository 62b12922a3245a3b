// Package history 从扁平的消息记录中重建会话视图。
// 会话不落库：session_id 相同的消息集合即为一个会话。
package history

import (
	"sort"
	"time"

	"meditation-assistant-backend/model"
)

// Session 派生的会话视图
type Session struct {
	SessionID string          `json:"session_id"`
	UserID    int64           `json:"user_id"`
	Messages  []model.Message `json:"messages"`

	MessageCount int `json:"message_count"`

	// 会话内第一条用户消息的内容，不存在用户消息时为空串
	Preview string `json:"preview"`

	StartedAt    time.Time `json:"started_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}

// Reconstruct 按 session_id 精确分组重建会话视图：
// 会话内消息按 (created_at, id) 升序，会话按最近活跃时间降序。
// limit > 0 时只保留最近的 limit 个会话。
// 纯读操作，输入相同则输出相同。
func Reconstruct(messages []model.Message, limit int) []Session {
	if len(messages) == 0 {
		return nil
	}

	grouped := make(map[string][]model.Message)
	order := make([]string, 0)
	for _, msg := range messages {
		if _, ok := grouped[msg.SessionID]; !ok {
			order = append(order, msg.SessionID)
		}
		grouped[msg.SessionID] = append(grouped[msg.SessionID], msg)
	}

	sessions := make([]Session, 0, len(order))
	for _, sessionID := range order {
		msgs := grouped[sessionID]
		sort.SliceStable(msgs, func(i, j int) bool {
			if !msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
				return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
			}
			return msgs[i].ID < msgs[j].ID
		})

		sessions = append(sessions, Session{
			SessionID:    sessionID,
			UserID:       msgs[0].UserID,
			Messages:     msgs,
			MessageCount: len(msgs),
			Preview:      firstUserPreview(msgs),
			StartedAt:    msgs[0].CreatedAt,
			LastActiveAt: msgs[len(msgs)-1].CreatedAt,
		})
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		if !sessions[i].LastActiveAt.Equal(sessions[j].LastActiveAt) {
			return sessions[i].LastActiveAt.After(sessions[j].LastActiveAt)
		}
		// 活跃时间相同时按末尾消息ID、会话ID定序，保证输出确定
		li := sessions[i].Messages[len(sessions[i].Messages)-1].ID
		lj := sessions[j].Messages[len(sessions[j].Messages)-1].ID
		if li != lj {
			return li > lj
		}
		return sessions[i].SessionID < sessions[j].SessionID
	})

	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}

	return sessions
}

// Paginate 对重建结果分页，page 从 1 开始
func Paginate(sessions []Session, page, pageSize int) []Session {
	if pageSize <= 0 {
		return sessions
	}
	if page <= 0 {
		page = 1
	}

	start := (page - 1) * pageSize
	if start >= len(sessions) {
		return nil
	}

	end := start + pageSize
	if end > len(sessions) {
		end = len(sessions)
	}
	return sessions[start:end]
}

// 会话内可能只有助手消息（上游半次写入的遗留），此时预览为空串
func firstUserPreview(msgs []model.Message) string {
	for _, msg := range msgs {
		if msg.Role == model.RoleUser {
			return msg.Content
		}
	}
	return ""
}
