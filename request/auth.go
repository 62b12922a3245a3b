package request

type TelegramLoginRequest struct {
	InitData string `json:"init_data" binding:"required"`
}

type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
