package controller

import (
	"log/slog"
	"net/http"

	"meditation-assistant-backend/request"
	"meditation-assistant-backend/response"
	"meditation-assistant-backend/service/chat"
	"meditation-assistant-backend/service/transcription"

	"github.com/gin-gonic/gin"
)

type ChatController struct {
	Chat        *chat.Service
	Transcriber transcription.Transcriber
}

func NewChatController(chatSvc *chat.Service, transcriber transcription.Transcriber) *ChatController {
	return &ChatController{
		Chat:        chatSvc,
		Transcriber: transcriber,
	}
}

func (ctrl *ChatController) Ask(c *gin.Context) {
	var req request.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	userID := c.GetInt64("user_id")
	answer, err := ctrl.Chat.Ask(c.Request.Context(), userID, req.SessionID, req.Question)
	if err != nil {
		slog.Error(ErrChat.Error(), "user_id", userID, "err", err)
		c.AbortWithStatusJSON(http.StatusBadGateway, response.Response{
			Msg: ErrChat.Error(),
		})
		return
	}

	materials := make([]response.MaterialResponse, 0, len(answer.Materials))
	for _, m := range answer.Materials {
		materials = append(materials, response.NewMaterialResponse(m))
	}

	c.JSON(http.StatusOK, response.Response{
		Data: response.ChatResponse{
			SessionID: answer.SessionID,
			Comment:   answer.Comment,
			Materials: materials,
			Persisted: answer.Persisted,
		},
	})
}

// Transcribe 语音消息转写
func (ctrl *ChatController) Transcribe(c *gin.Context) {
	audioFile, err := c.FormFile("audio")
	if err != nil {
		slog.Error(ErrGetAudioFile.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrGetAudioFile.Error(),
		})
		return
	}

	text, err := ctrl.Transcriber.Transcribe(c.Request.Context(), audioFile)
	if err != nil {
		slog.Error(ErrTranscription.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadGateway, response.Response{
			Msg: ErrTranscription.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{
		Data: response.TranscriptionResponse{
			Text: text,
		},
	})
}
