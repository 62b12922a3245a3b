package request

type ChatRequest struct {
	// 为空表示开启新会话，服务端生成
	SessionID string `json:"session_id"`
	Question  string `json:"question" binding:"required"`
}
