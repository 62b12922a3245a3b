package router

import (
	"meditation-assistant-backend/controller"
	"meditation-assistant-backend/middleware"

	"github.com/gin-gonic/gin"
)

type Controllers struct {
	Auth     *controller.AuthController
	Chat     *controller.ChatController
	Session  *controller.SessionController
	Material *controller.MaterialController
	Category *controller.CategoryController
	Admin    *controller.AdminController
}

func Register(ctrl Controllers) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api")
	{
		public := api.Group("/auth")
		{
			public.POST("/telegram", ctrl.Auth.TelegramLogin)
			public.POST("/admin", ctrl.Auth.AdminLogin)
		}

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("/chat", ctrl.Chat.Ask)
			protected.POST("/voice-recognition", ctrl.Chat.Transcribe)

			protected.GET("/sessions", ctrl.Session.GetSessions)
			protected.GET("/session/:id/messages", ctrl.Session.GetSessionMessages)
			protected.DELETE("/session/:id", ctrl.Session.DeleteSession)

			protected.GET("/materials", ctrl.Material.GetMaterials)
			protected.GET("/material/:id", ctrl.Material.GetMaterial)
			protected.GET("/material/:id/audio-link", ctrl.Material.GetAudioLink)
			protected.GET("/materials/search", ctrl.Material.SearchMaterials)
			protected.GET("/categories", ctrl.Category.GetCategories)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.AdminAuthMiddleware())
		{
			admin.GET("/sessions", ctrl.Admin.GetSessions)
			admin.DELETE("/session/:id", ctrl.Admin.DeleteSession)
			admin.DELETE("/message/:id", ctrl.Admin.DeleteMessage)

			admin.GET("/stats", ctrl.Admin.GetStats)

			admin.GET("/users", ctrl.Admin.GetUsers)
			admin.DELETE("/user/:id", ctrl.Admin.DeleteUser)

			admin.POST("/material", ctrl.Material.CreateMaterial)
			admin.PUT("/material/:id", ctrl.Material.UpdateMaterial)
			admin.DELETE("/material/:id", ctrl.Material.DeleteMaterial)
			admin.POST("/material/:id/asset", ctrl.Material.RegisterAsset)
			admin.GET("/oss/policy-token", ctrl.Material.GetPolicyToken)

			admin.POST("/category", ctrl.Category.CreateCategory)
			admin.PUT("/category/:id", ctrl.Category.UpdateCategory)
			admin.DELETE("/category/:id", ctrl.Category.DeleteCategory)
		}
	}

	return r
}
