package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	docs "github.com/m-marika/userbase-backend/docs"
	"github.com/m-marika/userbase-backend/internal/auth"
	cfgpkg "github.com/m-marika/userbase-backend/internal/config"
	"github.com/m-marika/userbase-backend/internal/server"
	"github.com/m-marika/userbase-backend/internal/store"
	"github.com/m-marika/userbase-backend/internal/users"
)

// @title Userbase API
// @version 1.0
// @description User management API with token authentication.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := cfgpkg.Load()
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Title = "Userbase API"
	docs.SwaggerInfo.Description = "User management API with token authentication."
	docs.SwaggerInfo.BasePath = "/"

	db := store.Open(cfg.Database.URL)
	if cfg.Database.AutoMigrate {
		store.AutoMigrate(db)
	}

	repo := store.NewRepository(db)
	authSvc := auth.NewService(cfg.Auth, repo)
	usersH := users.NewHandler(authSvc, repo)

	r := server.NewRouter(authSvc, usersH)
	srv := server.NewHTTP(cfg.Server.HTTPAddr, r)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		log.Printf("listening on %s", cfg.Server.HTTPAddr)
		if err := srv.Start(); err != nil {
			log.Fatal(err)
		}
	}()
	<-ctx.Done()
	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(shutdown)
}
