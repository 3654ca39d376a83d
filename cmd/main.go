package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/taskloop/task-service/config"
	"github.com/taskloop/task-service/db"
	authhandler "github.com/taskloop/task-service/internal/auth/handler"
	authrepo "github.com/taskloop/task-service/internal/auth/repository/postgres"
	authservice "github.com/taskloop/task-service/internal/auth/service"
	taskhandler "github.com/taskloop/task-service/internal/task/handler"
	taskrepo "github.com/taskloop/task-service/internal/task/repository/postgres"
	taskservice "github.com/taskloop/task-service/internal/task/service"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	pool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	userRepo := authrepo.NewPostgresRepository(pool)
	taskRepo := taskrepo.NewPostgresRepository(pool)

	tokenService := authservice.NewTokenService(cfg.JWTSecret, cfg.AccessExpiryMin, cfg.RefreshExpiryMin)
	userService := authservice.NewUserService(userRepo, tokenService, cfg)
	taskService := taskservice.NewTaskService(taskRepo)

	authHandler := authhandler.NewAuthHandler(userService, cfg)
	taskHandler := taskhandler.NewTaskHandler(taskService)

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	authhandler.RegisterRoutes(app, authHandler)
	taskhandler.RegisterRoutes(app, taskHandler, authHandler)

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
