package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ekurt/clouddepo/internal/adapter/handler"
	"github.com/ekurt/clouddepo/internal/infrastructure/repository"
	"github.com/ekurt/clouddepo/internal/usecase"
	"github.com/ekurt/clouddepo/pkg/middleware"
	"github.com/ekurt/clouddepo/pkg/storage"
)

const (
	version     = "1.0.0"
	tokenExpiry = 7 * 24 * time.Hour
)

func main() {
	config := LoadConfig()

	db, err := repository.NewDB(config.Storage.Database)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	var blobs storage.BlobStore
	switch config.Storage.Backend {
	case "s3":
		blobs, err = storage.NewS3(config.Storage.S3)
	default:
		blobs, err = storage.NewLocal(config.Storage.Path)
	}
	if err != nil {
		log.Fatal("Failed to initialize blob store:", err)
	}

	userRepo := repository.NewUserRepository(db)
	fileRepo := repository.NewFileRepository(db)
	shareRepo := repository.NewShareRepository(db)

	tokens := middleware.NewTokenManager(config.API.JWTSecret, tokenExpiry)
	authUsecase := usecase.NewAuthUsecase(userRepo, tokens, config.Limits.StorageLimit)
	fileUsecase := usecase.NewFileUsecase(fileRepo, userRepo, shareRepo, blobs)

	healthUsecase := usecase.NewHealthUsecase(version)
	healthUsecase.AddCheck("database", usecase.DatabaseCheck(db))
	healthUsecase.AddCheck("storage", usecase.BlobStoreCheck(blobs))

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging(log.New(os.Stdout, "[HTTP] ", log.LstdFlags)))

	handler.NewHealthHandler(healthUsecase).RegisterRoutes(router)

	api := router.Group("/api")
	authed := router.Group("/api")
	authed.Use(middleware.RequireAuth(tokens, userRepo))

	handler.NewAuthHandler(authUsecase).RegisterRoutes(api, authed)
	handler.NewFileHandler(fileUsecase, config.Limits.MaxFileSize).RegisterRoutes(authed)

	log.Printf("Starting server on port %s", config.API.Port)
	if err := router.Run(":" + config.API.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
