package request

type MaterialRequest struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	CategoryID      uint   `json:"category_id"`
	DurationSeconds int    `json:"duration_seconds"`
}

// MaterialAssetRequest 前端将文件直传OSS成功后回报对象路径
type MaterialAssetRequest struct {
	AudioObjectName  string `json:"audio_object_name"`
	ScriptObjectName string `json:"script_object_name"`
	ScriptType       string `json:"script_type"`
}

type CategoryRequest struct {
	Name      string `json:"name" binding:"required"`
	Emoji     string `json:"emoji"`
	SortOrder int    `json:"sort_order"`
}
