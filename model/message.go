package model

import (
	"encoding/json"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// 会话不落库：session_id 相同的消息集合即为一个会话，
// 会话视图由 service/history 在读取时重建

// Message 建立联合索引 (session_id, created_at)
type Message struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index:idx_session_created" json:"created_at"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	SessionID string    `gorm:"not null;index:idx_session_created" json:"session_id"`
	Role      string    `gorm:"not null" json:"role"`
	Content   string    `gorm:"type:text" json:"content"`

	// 助手消息携带的推荐素材ID列表，按推荐顺序存储
	MaterialRefs json.RawMessage `gorm:"type:jsonb" json:"material_refs,omitempty"`
}

func (Message) TableName() string {
	return "chat_message"
}

// EncodeMaterialRefs 序列化推荐素材ID列表，空列表返回nil
func EncodeMaterialRefs(ids []uint) json.RawMessage {
	if len(ids) == 0 {
		return nil
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return nil
	}
	return data
}

// DecodeMaterialRefs 反序列化推荐素材ID列表，无引用时返回nil
func DecodeMaterialRefs(refs json.RawMessage) []uint {
	if len(refs) == 0 {
		return nil
	}
	var ids []uint
	if err := json.Unmarshal(refs, &ids); err != nil {
		return nil
	}
	return ids
}
