// Package stats 在全量消息集上计算管理端统计。
// 日直方图按UTC日历日分桶。
package stats

import (
	"sort"
	"time"

	"meditation-assistant-backend/model"
)

const (
	// 日直方图的滚动窗口长度
	histogramWindowDays = 30

	// 按消息量排序后返回的用户数上限默认值
	DefaultUserCap = 50
)

type UserStats struct {
	UserID            int64     `json:"user_id"`
	TotalMessages     int       `json:"total_messages"`
	UserMessages      int       `json:"user_messages"`
	AssistantMessages int       `json:"assistant_messages"`
	TotalSessions     int       `json:"total_sessions"`
	FirstMessageAt    time.Time `json:"first_message_at"`
	LastMessageAt     time.Time `json:"last_message_at"`
}

type DailyCount struct {
	// UTC日历日，格式 2006-01-02
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type Report struct {
	TotalMessages int          `json:"total_messages"`
	TotalUsers    int          `json:"total_users"`
	Users         []UserStats  `json:"users"`
	Daily         []DailyCount `json:"daily"`
}

// Aggregate 计算每用户聚合与全局日直方图。
// 用户按 total_messages 降序（相同时按 user_id 升序），最多返回 userCap 个；
// 直方图只包含窗口内有消息的日期，按日期升序。
func Aggregate(messages []model.Message, now time.Time, userCap int) Report {
	if userCap <= 0 {
		userCap = DefaultUserCap
	}

	perUser := make(map[int64]*UserStats)
	sessionsByUser := make(map[int64]map[string]struct{})
	daily := make(map[string]int)

	windowStart := now.UTC().AddDate(0, 0, -histogramWindowDays)

	for _, msg := range messages {
		u, ok := perUser[msg.UserID]
		if !ok {
			u = &UserStats{
				UserID:         msg.UserID,
				FirstMessageAt: msg.CreatedAt,
				LastMessageAt:  msg.CreatedAt,
			}
			perUser[msg.UserID] = u
			sessionsByUser[msg.UserID] = make(map[string]struct{})
		}

		u.TotalMessages++
		switch msg.Role {
		case model.RoleUser:
			u.UserMessages++
		case model.RoleAssistant:
			u.AssistantMessages++
		}
		sessionsByUser[msg.UserID][msg.SessionID] = struct{}{}

		if msg.CreatedAt.Before(u.FirstMessageAt) {
			u.FirstMessageAt = msg.CreatedAt
		}
		if msg.CreatedAt.After(u.LastMessageAt) {
			u.LastMessageAt = msg.CreatedAt
		}

		if !msg.CreatedAt.Before(windowStart) {
			daily[msg.CreatedAt.UTC().Format(time.DateOnly)]++
		}
	}

	report := Report{
		TotalMessages: len(messages),
		TotalUsers:    len(perUser),
	}

	for userID, u := range perUser {
		u.TotalSessions = len(sessionsByUser[userID])
		report.Users = append(report.Users, *u)
	}
	sort.Slice(report.Users, func(i, j int) bool {
		if report.Users[i].TotalMessages != report.Users[j].TotalMessages {
			return report.Users[i].TotalMessages > report.Users[j].TotalMessages
		}
		return report.Users[i].UserID < report.Users[j].UserID
	})
	if len(report.Users) > userCap {
		report.Users = report.Users[:userCap]
	}

	for date, count := range daily {
		report.Daily = append(report.Daily, DailyCount{Date: date, Count: count})
	}
	sort.Slice(report.Daily, func(i, j int) bool {
		return report.Daily[i].Date < report.Daily[j].Date
	})

	return report
}
