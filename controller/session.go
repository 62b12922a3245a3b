package controller

import (
	"log/slog"
	"net/http"

	"meditation-assistant-backend/dao"
	"meditation-assistant-backend/response"
	"meditation-assistant-backend/service/history"

	"github.com/gin-gonic/gin"
)

const defaultSessionPageSize = 20

type SessionController struct {
	Store *dao.Store
}

func NewSessionController(store *dao.Store) *SessionController {
	return &SessionController{Store: store}
}

// GetSessions 当前用户的会话列表，按最近活跃降序分页
func (ctrl *SessionController) GetSessions(c *gin.Context) {
	userID := c.GetInt64("user_id")

	messages, err := ctrl.Store.ListMessagesByUser(c.Request.Context(), userID)
	if err != nil {
		slog.Error(ErrGetSessions.Error(), "user_id", userID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrGetSessions.Error(),
		})
		return
	}

	sessions := history.Reconstruct(messages, 0)
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", defaultSessionPageSize)

	resp := response.GetSessionsResponse{
		Sessions: make([]response.SessionResponse, 0),
		Total:    len(sessions),
		Page:     page,
		Limit:    limit,
	}
	for _, s := range history.Paginate(sessions, page, limit) {
		resp.Sessions = append(resp.Sessions, response.NewSessionResponse(s))
	}

	c.JSON(http.StatusOK, response.Response{
		Data: resp,
	})
}

func (ctrl *SessionController) GetSessionMessages(c *gin.Context) {
	userID := c.GetInt64("user_id")
	sessionID := c.Param("id")

	messages, err := ctrl.Store.ListMessagesBySession(c.Request.Context(), userID, sessionID)
	if err != nil {
		slog.Error(ErrGetSessionMessages.Error(), "session_id", sessionID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrGetSessionMessages.Error(),
		})
		return
	}

	var resp response.GetSessionMessagesResponse
	for _, m := range messages {
		resp.Messages = append(resp.Messages, response.NewMessageResponse(m))
	}

	c.JSON(http.StatusOK, response.Response{
		Data: resp,
	})
}

// DeleteSession 删除会话即删除其全部消息，重复删除不算错误
func (ctrl *SessionController) DeleteSession(c *gin.Context) {
	userID := c.GetInt64("user_id")
	sessionID := c.Param("id")

	if err := ctrl.Store.DeleteSession(c.Request.Context(), userID, sessionID); err != nil {
		slog.Error(ErrDeleteSession.Error(), "session_id", sessionID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrDeleteSession.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{})
}
