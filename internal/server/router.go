package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/m-marika/userbase-backend/internal/auth"
	"github.com/m-marika/userbase-backend/internal/users"
)

func NewRouter(authSvc *auth.Service, usersH *users.Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.POST("/token", usersH.Login)
	r.POST("/users", usersH.CreateUser)
	r.GET("/users", usersH.ListUsers)

	guard := auth.JWTMiddleware(authSvc)
	r.GET("/users/me", guard, usersH.Me)
	r.PUT("/users/:id", guard, usersH.UpdateUser)
	r.DELETE("/users/:id", guard, usersH.DeleteUser)

	return r
}
