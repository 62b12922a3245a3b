package model

import "time"

type ScriptType string

const (
	ScriptTypePDF      ScriptType = "pdf"
	ScriptTypeMarkdown ScriptType = "md"
	ScriptTypeText     ScriptType = "txt"
)

type IndexStatus string

const (
	// 素材已创建，尚未进入向量索引
	IndexStatusPending IndexStatus = "PENDING"

	// 素材向量化索引完成
	IndexStatusIndexed IndexStatus = "INDEXED"

	// 素材向量化索引失败
	IndexStatusFailed IndexStatus = "INDEX_FAILED"
)

// Material 冥想练习素材
// 音频与引导文稿由前端直传OSS，这里只记录对象路径
type Material struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	CategoryID  uint      `gorm:"index" json:"category_id"`

	// 练习时长（秒）
	DurationSeconds int `json:"duration_seconds"`

	// 音频文件在OSS上的完整路径，不包含bucket名称
	AudioObjectName string `json:"audio_object_name"`

	// 引导文稿在OSS上的完整路径，可为空
	ScriptObjectName string     `json:"script_object_name"`
	ScriptType       ScriptType `json:"script_type"`

	// 向量索引状态
	IndexStatus IndexStatus `gorm:"not null;default:PENDING" json:"index_status"`
}

func (Material) TableName() string {
	return "material"
}

type Category struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name"`
	Emoji     string    `json:"emoji"`
	SortOrder int       `json:"sort_order"`
}

func (Category) TableName() string {
	return "category"
}
