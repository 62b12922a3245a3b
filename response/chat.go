package response

type ChatResponse struct {
	SessionID string             `json:"session_id"`
	Comment   string             `json:"comment"`
	Materials []MaterialResponse `json:"materials"`
	Persisted bool               `json:"persisted"`
}

type TranscriptionResponse struct {
	Text string `json:"text"`
}
