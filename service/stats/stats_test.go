package stats

import (
	"testing"
	"time"

	"meditation-assistant-backend/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func msg(id uint, userID int64, session, role string, at time.Time) model.Message {
	return model.Message{
		ID:        id,
		UserID:    userID,
		SessionID: session,
		Role:      role,
		CreatedAt: at,
	}
}

func TestAggregatePerUser(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	messages := []model.Message{
		msg(1, 7, "a", model.RoleUser, now.Add(-2*time.Hour)),
		msg(2, 7, "a", model.RoleAssistant, now.Add(-time.Hour)),
		msg(3, 7, "b", model.RoleUser, now.Add(-3*time.Hour)),
	}

	report := Aggregate(messages, now, 0)
	require.Len(t, report.Users, 1)

	u := report.Users[0]
	assert.Equal(t, int64(7), u.UserID)
	assert.Equal(t, 3, u.TotalMessages)
	assert.Equal(t, 2, u.UserMessages)
	assert.Equal(t, 1, u.AssistantMessages)
	// 50条消息的会话也只计1次，这里两个会话计2
	assert.Equal(t, 2, u.TotalSessions)
	assert.Equal(t, now.Add(-3*time.Hour), u.FirstMessageAt)
	assert.Equal(t, now.Add(-time.Hour), u.LastMessageAt)

	assert.Equal(t, 3, report.TotalMessages)
	assert.Equal(t, 1, report.TotalUsers)
}

func TestAggregateUserOrderingAndCap(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	var messages []model.Message
	id := uint(1)
	// 用户1发3条、用户2发1条、用户3发3条
	for _, userID := range []int64{1, 1, 1, 2, 3, 3, 3} {
		messages = append(messages, msg(id, userID, "s", model.RoleUser, now))
		id++
	}

	report := Aggregate(messages, now, 0)
	require.Len(t, report.Users, 3)
	// 消息量相同时按user_id升序
	assert.Equal(t, int64(1), report.Users[0].UserID)
	assert.Equal(t, int64(3), report.Users[1].UserID)
	assert.Equal(t, int64(2), report.Users[2].UserID)

	capped := Aggregate(messages, now, 2)
	require.Len(t, capped.Users, 2)
	assert.Equal(t, int64(1), capped.Users[0].UserID)
}

func TestAggregateDailyHistogramUTCWindow(t *testing.T) {
	now := time.Date(2025, 6, 30, 10, 0, 0, 0, time.UTC)
	messages := []model.Message{
		// 非UTC时区的时间戳按UTC日分桶：东八区6月2日早7点是UTC 6月1日23点
		msg(1, 1, "a", model.RoleUser, time.Date(2025, 6, 2, 7, 0, 0, 0, time.FixedZone("CST", 8*3600))),
		msg(2, 1, "a", model.RoleUser, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)),
		msg(3, 1, "a", model.RoleUser, time.Date(2025, 6, 29, 9, 0, 0, 0, time.UTC)),
		// 窗口外（30天前更早）的消息不进直方图，但仍计入用户聚合
		msg(4, 1, "a", model.RoleUser, time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)),
	}

	report := Aggregate(messages, now, 0)

	require.Len(t, report.Daily, 2)
	assert.Equal(t, DailyCount{Date: "2025-06-01", Count: 2}, report.Daily[0])
	assert.Equal(t, DailyCount{Date: "2025-06-29", Count: 1}, report.Daily[1])

	assert.Equal(t, 4, report.Users[0].TotalMessages)
}

func TestAggregateEmpty(t *testing.T) {
	report := Aggregate(nil, time.Now(), 0)
	assert.Zero(t, report.TotalMessages)
	assert.Zero(t, report.TotalUsers)
	assert.Empty(t, report.Users)
	assert.Empty(t, report.Daily)
}
