package controller

import (
	"log/slog"
	"net/http"
	"time"

	"meditation-assistant-backend/config"
	"meditation-assistant-backend/dao"
	"meditation-assistant-backend/middleware"
	"meditation-assistant-backend/model"
	"meditation-assistant-backend/request"
	"meditation-assistant-backend/response"
	"meditation-assistant-backend/service/auth"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const initDataMaxAge = 24 * time.Hour

type AuthController struct {
	Store *dao.Store
}

func NewAuthController(store *dao.Store) *AuthController {
	return &AuthController{Store: store}
}

// TelegramLogin 校验Mini-App的initData，登记用户并换发token
func (ctrl *AuthController) TelegramLogin(c *gin.Context) {
	var req request.TelegramLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	tgUser, err := auth.ValidateInitData(req.InitData, config.Cfg.Telegram.BotToken, initDataMaxAge)
	if err != nil {
		slog.Info(ErrTelegramAuth.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Response{
			Msg: ErrTelegramAuth.Error(),
		})
		return
	}

	user := model.User{
		ID:        tgUser.ID,
		Username:  tgUser.Username,
		FirstName: tgUser.FirstName,
		LastName:  tgUser.LastName,
	}
	if err := ctrl.Store.UpsertUser(c.Request.Context(), &user); err != nil {
		slog.Error(ErrRegisterUser.Error(), "user_id", tgUser.ID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrRegisterUser.Error(),
		})
		return
	}

	token, err := middleware.GenerateToken(user.ID, false)
	if err != nil {
		slog.Error(ErrGenerateToken.Error(), "user_id", user.ID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrGenerateToken.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{
		Data: response.AuthResponse{
			Token: token,
			User:  response.NewUserResponse(user),
		},
	})
}

// AdminLogin 管理端密码登录，密码与配置中的bcrypt哈希比对
func (ctrl *AuthController) AdminLogin(c *gin.Context) {
	var req request.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	if req.Username != config.Cfg.Admin.Username ||
		bcrypt.CompareHashAndPassword([]byte(config.Cfg.Admin.PasswordHash), []byte(req.Password)) != nil {
		slog.Info(ErrAdminLogin.Error(), "username", req.Username)
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Response{
			Msg: ErrAdminLogin.Error(),
		})
		return
	}

	token, err := middleware.GenerateToken(0, true)
	if err != nil {
		slog.Error(ErrGenerateToken.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrGenerateToken.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{
		Data: response.AdminAuthResponse{
			Token: token,
		},
	})
}
