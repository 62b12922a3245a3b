// Package recommend 对接外部推荐引擎：POST用户问题，取回推荐语和素材ID。
package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"meditation-assistant-backend/utils"
)

// Recommender 供聊天服务注入，测试时用假实现替换
type Recommender interface {
	Recommend(ctx context.Context, userID int64, sessionID, question string) (*Result, error)
}

type Client struct {
	webhookURL string
	httpClient *http.Client
}

var _ Recommender = &Client{}

func NewClient(webhookURL string, timeout time.Duration) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: utils.NewHTTPClient(
			utils.WithTimeout(timeout),
		),
	}
}

type webhookRequest struct {
	UserID    int64  `json:"user_id"`
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
}

// Recommend 单次调用，不重试
func (c *Client) Recommend(ctx context.Context, userID int64, sessionID, question string) (*Result, error) {
	payload, err := json.Marshal(webhookRequest{
		UserID:    userID,
		SessionID: sessionID,
		Question:  question,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal webhook request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call recommender webhook: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read webhook response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("recommender webhook returned status %d: %s", resp.StatusCode, truncate(body))
	}

	return Parse(body)
}
