package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"meditation-assistant-backend/config"
	"meditation-assistant-backend/dao"
	"meditation-assistant-backend/model"
	"meditation-assistant-backend/response"
	"meditation-assistant-backend/service/history"
	"meditation-assistant-backend/service/stats"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	Store *dao.Store
}

func NewAdminController(store *dao.Store) *AdminController {
	return &AdminController{Store: store}
}

// GetSessions 管理端会话视图：可按用户过滤，缺省为全量
func (ctrl *AdminController) GetSessions(c *gin.Context) {
	userID, _ := strconv.ParseInt(c.Query("user_id"), 10, 64)

	var (
		input []model.Message
		err   error
	)
	if userID != 0 {
		input, err = ctrl.Store.ListMessagesByUser(c.Request.Context(), userID)
	} else {
		input, err = ctrl.Store.ListAllMessages(c.Request.Context())
	}
	if err != nil {
		slog.Error(ErrGetSessions.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrGetSessions.Error(),
		})
		return
	}

	sessions := history.Reconstruct(input, 0)
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

// GetStats 全量消息上的聚合统计
func (ctrl *AdminController) GetStats(c *gin.Context) {
	messages, err := ctrl.Store.ListAllMessages(c.Request.Context())
	if err != nil {
		slog.Error(ErrGetStats.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrGetStats.Error(),
		})
		return
	}

	report := stats.Aggregate(messages, time.Now(), config.Cfg.Stats.UserCap)

	c.JSON(http.StatusOK, response.Response{
		Data: report,
	})
}

// DeleteMessage 按ID删除单条消息，目标不存在返回404
func (ctrl *AdminController) DeleteMessage(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	if err := ctrl.Store.DeleteMessage(c.Request.Context(), id); err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, response.Response{
				Msg: ErrMessageNotFound.Error(),
			})
			return
		}
		slog.Error(ErrDeleteMessage.Error(), "message_id", id, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrDeleteMessage.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{})
}

// DeleteSession 管理端删除任意用户的会话
func (ctrl *AdminController) DeleteSession(c *gin.Context) {
	sessionID := c.Param("id")

	if err := ctrl.Store.DeleteSession(c.Request.Context(), 0, sessionID); err != nil {
		slog.Error(ErrDeleteSession.Error(), "session_id", sessionID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrDeleteSession.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{})
}

func (ctrl *AdminController) GetUsers(c *gin.Context) {
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", 50)

	users, total, err := ctrl.Store.ListUsers(c.Request.Context(), limit, (page-1)*limit)
	if err != nil {
		slog.Error(ErrGetUsers.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrGetUsers.Error(),
		})
		return
	}

	resp := response.GetUsersResponse{
		Users: make([]response.UserResponse, 0, len(users)),
		Total: total,
	}
	for _, u := range users {
		resp.Users = append(resp.Users, response.NewUserResponse(u))
	}

	c.JSON(http.StatusOK, response.Response{
		Data: resp,
	})
}

// DeleteUser 删除用户及其全部消息
func (ctrl *AdminController) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	if err := ctrl.Store.DeleteUser(c.Request.Context(), id); err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, response.Response{
				Msg: ErrDeleteUser.Error(),
			})
			return
		}
		slog.Error(ErrDeleteUser.Error(), "user_id", id, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrDeleteUser.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{})
}
