package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meditation-assistant-backend/config"
	"meditation-assistant-backend/controller"
	"meditation-assistant-backend/dao"
	"meditation-assistant-backend/router"
	"meditation-assistant-backend/service/chat"
	"meditation-assistant-backend/service/library"
	"meditation-assistant-backend/service/library/etl"
	"meditation-assistant-backend/service/mq"
	"meditation-assistant-backend/service/recommend"
	"meditation-assistant-backend/service/transcription"
)

func main() {
	if err := config.Load(); err != nil {
		slog.Error("Failed to load config", "err", err)
		os.Exit(1)
	}

	store, err := dao.Open(config.Cfg.DB.DSN)
	if err != nil {
		slog.Error("Failed to open database", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()

	index, err := library.NewIndex(ctx)
	if err != nil {
		slog.Error("Failed to init material index", "err", err)
		os.Exit(1)
	}

	pipeline := etl.NewPipeline(store, index)

	broker, err := mq.NewBroker()
	if err != nil {
		slog.Error("Failed to init MQ broker", "err", err)
		os.Exit(1)
	}
	if err := broker.RegisterHandler(mq.TopicMaterialLibrary, mq.TagIndex, pipeline.HandleIndexMessage); err != nil {
		slog.Error("Failed to register index handler", "err", err)
		os.Exit(1)
	}
	if err := broker.RegisterHandler(mq.TopicMaterialLibrary, mq.TagDelete, pipeline.HandleDeleteMessage); err != nil {
		slog.Error("Failed to register delete handler", "err", err)
		os.Exit(1)
	}
	if err := broker.Run(); err != nil {
		slog.Error("Failed to start MQ broker", "err", err)
		os.Exit(1)
	}

	recommender := recommend.NewClient(
		config.Cfg.Recommender.WebhookURL,
		time.Duration(config.Cfg.Recommender.TimeoutSeconds)*time.Second,
	)
	transcriber := transcription.NewClient(
		config.Cfg.Model.BaseURL,
		config.Cfg.Model.APIKey,
		config.Cfg.Model.WhisperModel,
	)

	chatService := chat.NewService(store, recommender)

	r := router.Register(router.Controllers{
		Auth:     controller.NewAuthController(store),
		Chat:     controller.NewChatController(chatService, transcriber),
		Session:  controller.NewSessionController(store),
		Material: controller.NewMaterialController(store, broker, index),
		Category: controller.NewCategoryController(store),
		Admin:    controller.NewAdminController(store),
	})

	server := &http.Server{
		Addr:    ":" + config.Cfg.Server.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server listening", "port", config.Cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "err", err)
	}
	broker.Shutdown()
	if err := index.Close(shutdownCtx); err != nil {
		slog.Error("index close error", "err", err)
	}
}
