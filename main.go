package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"photofeed/auth"
	"photofeed/config"
	"photofeed/database"
	"photofeed/feed"
	"photofeed/handlers"
	"photofeed/logger"
	"photofeed/repositories"
	"photofeed/routes"
	"photofeed/templates"
	"photofeed/uploads"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	logger.InitLogger(cfg.LogFile, cfg.LogLevel)

	db, err := database.New(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Fatal("failed to get database handle")
	}
	defer sqlDB.Close()

	storage, err := uploads.New(cfg.UploadFolder)
	if err != nil {
		logrus.WithError(err).Fatal("failed to prepare upload folder")
	}
	tmpl, err := templates.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to parse templates")
	}

	store := repositories.NewStore(db)
	feedService := feed.NewService(store)
	authenticator := auth.New([]byte(cfg.SecretKey), store)

	router := routes.SetupRoutes(routes.Handlers{
		Posts:    handlers.NewPostHandler(feedService, authenticator),
		Likes:    handlers.NewLikeHandler(feedService, authenticator),
		Comments: handlers.NewCommentHandler(feedService, authenticator),
		Views:    handlers.NewViewHandler(feedService, authenticator, storage, tmpl),
		Users:    handlers.NewUserHandler(feedService, authenticator, storage, tmpl),
		System:   handlers.NewSystemHandler(sqlDB),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.WithField("port", cfg.Port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("server forced to shutdown")
	}
	logrus.Info("server exited")
}
