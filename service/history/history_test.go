package history

import (
	"testing"
	"time"

	"meditation-assistant-backend/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(sec int) time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(sec) * time.Second)
}

func msg(id uint, userID int64, session, role, content string, sec int) model.Message {
	return model.Message{
		ID:        id,
		UserID:    userID,
		SessionID: session,
		Role:      role,
		Content:   content,
		CreatedAt: ts(sec),
	}
}

func TestReconstructGroupsAndOrders(t *testing.T) {
	messages := []model.Message{
		msg(1, 7, "a", model.RoleUser, "hi", 10),
		msg(2, 7, "a", model.RoleAssistant, "hello", 11),
		msg(3, 7, "b", model.RoleUser, "yo", 5),
	}

	sessions := Reconstruct(messages, 0)
	require.Len(t, sessions, 2)

	// 会话a最近活跃于t=11，排在会话b之前
	assert.Equal(t, "a", sessions[0].SessionID)
	assert.Equal(t, "b", sessions[1].SessionID)

	assert.Equal(t, 2, sessions[0].MessageCount)
	assert.Equal(t, "hi", sessions[0].Preview)
	assert.Equal(t, ts(10), sessions[0].StartedAt)
	assert.Equal(t, ts(11), sessions[0].LastActiveAt)

	assert.Equal(t, "yo", sessions[1].Preview)
	assert.Equal(t, 1, sessions[1].MessageCount)
}

func TestReconstructNoMessageDroppedOrDuplicated(t *testing.T) {
	messages := []model.Message{
		msg(5, 1, "x", model.RoleAssistant, "a", 3),
		msg(1, 1, "y", model.RoleUser, "b", 9),
		msg(3, 1, "x", model.RoleUser, "c", 1),
		msg(4, 2, "z", model.RoleUser, "d", 2),
		msg(2, 1, "y", model.RoleAssistant, "e", 10),
	}

	sessions := Reconstruct(messages, 0)

	seen := make(map[uint]int)
	total := 0
	for _, s := range sessions {
		for _, m := range s.Messages {
			assert.Equal(t, s.SessionID, m.SessionID)
			seen[m.ID]++
			total++
		}
	}
	assert.Equal(t, len(messages), total)
	for id, n := range seen {
		assert.Equalf(t, 1, n, "message %d appeared %d times", id, n)
	}
}

func TestReconstructMessagesChronologicalWithIDTieBreak(t *testing.T) {
	// 时间戳相同时按ID定序
	messages := []model.Message{
		msg(9, 1, "s", model.RoleAssistant, "second", 5),
		msg(2, 1, "s", model.RoleUser, "first", 5),
		msg(4, 1, "s", model.RoleUser, "third", 8),
	}

	sessions := Reconstruct(messages, 0)
	require.Len(t, sessions, 1)

	got := sessions[0].Messages
	require.Len(t, got, 3)
	assert.Equal(t, uint(2), got[0].ID)
	assert.Equal(t, uint(9), got[1].ID)
	assert.Equal(t, uint(4), got[2].ID)

	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].CreatedAt.Before(got[i-1].CreatedAt))
	}
}

func TestReconstructSessionsSortedByRecency(t *testing.T) {
	messages := []model.Message{
		msg(1, 1, "old", model.RoleUser, "a", 1),
		msg(2, 1, "mid", model.RoleUser, "b", 50),
		msg(3, 1, "new", model.RoleUser, "c", 100),
		msg(4, 1, "old", model.RoleAssistant, "d", 2),
	}

	sessions := Reconstruct(messages, 0)
	require.Len(t, sessions, 3)
	for i := 1; i < len(sessions); i++ {
		assert.False(t, sessions[i].LastActiveAt.After(sessions[i-1].LastActiveAt))
	}
	assert.Equal(t, "new", sessions[0].SessionID)
	assert.Equal(t, "old", sessions[2].SessionID)
}

func TestReconstructLimitKeepsMostRecent(t *testing.T) {
	messages := []model.Message{
		msg(1, 1, "a", model.RoleUser, "a", 1),
		msg(2, 1, "b", model.RoleUser, "b", 2),
		msg(3, 1, "c", model.RoleUser, "c", 3),
	}

	sessions := Reconstruct(messages, 2)
	require.Len(t, sessions, 2)
	assert.Equal(t, "c", sessions[0].SessionID)
	assert.Equal(t, "b", sessions[1].SessionID)
}

func TestReconstructAssistantOnlySessionKept(t *testing.T) {
	messages := []model.Message{
		msg(1, 3, "orphan", model.RoleAssistant, "reply without question", 1),
	}

	sessions := Reconstruct(messages, 0)
	require.Len(t, sessions, 1)
	assert.Equal(t, "", sessions[0].Preview)
	assert.Equal(t, 1, sessions[0].MessageCount)
}

func TestReconstructEmptyInput(t *testing.T) {
	assert.Empty(t, Reconstruct(nil, 0))
	assert.Empty(t, Reconstruct([]model.Message{}, 10))
}

func TestReconstructIdempotent(t *testing.T) {
	messages := []model.Message{
		msg(3, 1, "x", model.RoleUser, "c", 1),
		msg(5, 1, "x", model.RoleAssistant, "a", 3),
		msg(1, 1, "y", model.RoleUser, "b", 3),
		msg(2, 2, "z", model.RoleUser, "d", 2),
	}

	first := Reconstruct(messages, 0)
	second := Reconstruct(messages, 0)
	assert.Equal(t, first, second)
}

func TestReconstructDeterministicOnEqualActivity(t *testing.T) {
	// 两个会话最近活跃时间完全相同
	messages := []model.Message{
		msg(1, 1, "p", model.RoleUser, "a", 5),
		msg(2, 1, "q", model.RoleUser, "b", 5),
	}

	sessions := Reconstruct(messages, 0)
	require.Len(t, sessions, 2)
	// 末尾消息ID更大的会话排在前面
	assert.Equal(t, "q", sessions[0].SessionID)
	assert.Equal(t, "p", sessions[1].SessionID)
}

func TestPaginate(t *testing.T) {
	var sessions []Session
	for i := 0; i < 5; i++ {
		sessions = append(sessions, Session{SessionID: string(rune('a' + i))})
	}

	page := Paginate(sessions, 2, 2)
	require.Len(t, page, 2)
	assert.Equal(t, "c", page[0].SessionID)
	assert.Equal(t, "d", page[1].SessionID)

	assert.Len(t, Paginate(sessions, 3, 2), 1)
	assert.Empty(t, Paginate(sessions, 4, 2))
	assert.Len(t, Paginate(sessions, 0, 0), 5)
}
