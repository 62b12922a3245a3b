package dao

import (
	"context"
	"testing"
	"time"

	"meditation-assistant-backend/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	return New(db)
}

func TestCreateMessagePair(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	userMsg := &model.Message{UserID: 7, SessionID: "s1", Role: model.RoleUser, Content: "hi"}
	assistantMsg := &model.Message{UserID: 7, SessionID: "s1", Role: model.RoleAssistant, Content: "hello"}
	require.NoError(t, store.CreateMessagePair(ctx, userMsg, assistantMsg))

	messages, err := store.ListMessagesBySession(ctx, 7, "s1")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, model.RoleUser, messages[0].Role)
	assert.Equal(t, model.RoleAssistant, messages[1].Role)
	assert.Less(t, messages[0].ID, messages[1].ID)
}

func TestListMessagesByUserOrder(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i, content := range []string{"first", "second", "third"} {
		msg := &model.Message{
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UserID:    3,
			SessionID: "s1",
			Role:      model.RoleUser,
			Content:   content,
		}
		require.NoError(t, store.db.Create(msg).Error)
	}
	require.NoError(t, store.db.Create(&model.Message{
		CreatedAt: base,
		UserID:    99,
		SessionID: "other",
		Role:      model.RoleUser,
		Content:   "not mine",
	}).Error)

	messages, err := store.ListMessagesByUser(ctx, 3)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "first", messages[0].Content)
	assert.Equal(t, "third", messages[2].Content)
}

func TestDeleteMessageNotFound(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.DeleteMessage(ctx, 12345)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteSessionScoped(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	seed := []model.Message{
		{UserID: 1, SessionID: "a", Role: model.RoleUser, Content: "m1"},
		{UserID: 1, SessionID: "a", Role: model.RoleAssistant, Content: "m2"},
		{UserID: 1, SessionID: "b", Role: model.RoleUser, Content: "m3"},
		{UserID: 2, SessionID: "a", Role: model.RoleUser, Content: "m4"},
	}
	for i := range seed {
		require.NoError(t, store.db.Create(&seed[i]).Error)
	}

	// 用户1删除会话a，不影响用户2的同名会话
	require.NoError(t, store.DeleteSession(ctx, 1, "a"))

	remaining, err := store.ListMessagesByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "b", remaining[0].SessionID)

	other, err := store.ListMessagesByUser(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestDeleteSessionAdminUnscoped(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	seed := []model.Message{
		{UserID: 1, SessionID: "a", Role: model.RoleUser, Content: "m1"},
		{UserID: 2, SessionID: "a", Role: model.RoleUser, Content: "m2"},
	}
	for i := range seed {
		require.NoError(t, store.db.Create(&seed[i]).Error)
	}

	require.NoError(t, store.DeleteSession(ctx, 0, "a"))

	all, err := store.ListAllMessages(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestGetMaterialsByIDsOrder(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, title := range []string{"breath", "body scan", "sleep"} {
		require.NoError(t, store.CreateMaterial(ctx, &model.Material{Title: title}))
	}

	materials, err := store.GetMaterialsByIDs(ctx, []uint{3, 1, 42})
	require.NoError(t, err)
	require.Len(t, materials, 2)
	assert.Equal(t, "sleep", materials[0].Title)
	assert.Equal(t, "breath", materials[1].Title)
}

func TestUpdateMaterialAsset(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	material := model.Material{Title: "breath", IndexStatus: model.IndexStatusIndexed}
	require.NoError(t, store.CreateMaterial(ctx, &material))

	err := store.UpdateMaterialAsset(ctx, material.ID, "materials/a.mp3", "materials/a.md", model.ScriptTypeMarkdown)
	require.NoError(t, err)

	got, err := store.GetMaterialByID(ctx, material.ID)
	require.NoError(t, err)
	assert.Equal(t, "materials/a.mp3", got.AudioObjectName)
	assert.Equal(t, model.ScriptTypeMarkdown, got.ScriptType)
	// 重新上传资源后需要重建索引
	assert.Equal(t, model.IndexStatusPending, got.IndexStatus)

	err = store.UpdateMaterialAsset(ctx, 9999, "x", "y", model.ScriptTypeText)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertUser(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	user := &model.User{ID: 42, Username: "anna", FirstName: "Anna", LastSeenAt: time.Now().UTC()}
	require.NoError(t, store.UpsertUser(ctx, user))

	updated := &model.User{ID: 42, Username: "anna_new", FirstName: "Anna", LastSeenAt: time.Now().UTC()}
	require.NoError(t, store.UpsertUser(ctx, updated))

	users, total, err := store.ListUsers(ctx, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, "anna_new", users[0].Username)
}

func TestDeleteUserRemovesMessages(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertUser(ctx, &model.User{ID: 5, Username: "bob"}))
	require.NoError(t, store.db.Create(&model.Message{
		UserID: 5, SessionID: "s1", Role: model.RoleUser, Content: "hi",
	}).Error)

	require.NoError(t, store.DeleteUser(ctx, 5))

	messages, err := store.ListMessagesByUser(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, messages)

	_, total, err := store.ListUsers(ctx, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}

func TestDeleteUserNotFoundKeepsMessages(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	// 消息存在但用户行不存在：事务回滚，消息不受影响
	require.NoError(t, store.db.Create(&model.Message{
		UserID: 6, SessionID: "s1", Role: model.RoleUser, Content: "hi",
	}).Error)

	err := store.DeleteUser(ctx, 6)
	assert.ErrorIs(t, err, ErrNotFound)

	messages, err := store.ListMessagesByUser(ctx, 6)
	require.NoError(t, err)
	assert.Len(t, messages, 1)
}
