// Package transcription 调用Whisper接口把语音消息转写为文本。
package transcription

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"meditation-assistant-backend/utils"
)

// 转写包含上传耗时，超时给足
const requestTimeout = 120 * time.Second

// Transcriber 供controller注入，测试时用假实现替换
type Transcriber interface {
	Transcribe(ctx context.Context, audioFile *multipart.FileHeader) (string, error)
}

type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

var _ Transcriber = &Client{}

func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: utils.NewHTTPClient(
			utils.WithTimeout(requestTimeout),
		),
	}
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe 单次调用，不重试
func (c *Client) Transcribe(ctx context.Context, audioFile *multipart.FileHeader) (string, error) {
	file, err := audioFile.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open audio file: %v", err)
	}
	defer file.Close()

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		part, err := writer.CreateFormFile("file", audioFile.Filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := writer.WriteField("model", c.model); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(writer.Close())
	}()

	url := c.baseURL + "/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, pr)
	if err != nil {
		return "", fmt.Errorf("failed to create transcription request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call transcription api: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read transcription response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription api returned status %d: %s", resp.StatusCode, string(body))
	}

	var result transcriptionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse transcription response: %v", err)
	}

	return result.Text, nil
}
