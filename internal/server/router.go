package server

import (
	"net/http"
	"time"

	"github.com/nazmulfx/Study-Buddy/internal/config"
	"github.com/nazmulfx/Study-Buddy/internal/handlers"
	"github.com/nazmulfx/Study-Buddy/internal/metrics"
	"github.com/nazmulfx/Study-Buddy/internal/middleware"
	"github.com/nazmulfx/Study-Buddy/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// SetupRouter wires services, handlers and middleware into the gin engine.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	authService := services.NewAuthService(db, cfg.JWTSecret, cfg.AccessTokenTTLMin, cfg.RefreshTokenTTLDays)
	topicService := services.NewTopicService(db)
	roomService := services.NewRoomService(db, topicService)
	messageService := services.NewMessageService(db, roomService)
	userService := services.NewUserService(db)

	authHandler := handlers.NewAuthHandler(authService)
	roomHandler := handlers.NewRoomHandler(roomService, messageService)
	listingHandler := handlers.NewListingHandler(roomService, messageService, topicService)
	profileHandler := handlers.NewProfileHandler(userService, roomService, messageService, topicService, cfg.UploadDir)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(metrics.GinMiddleware())
	r.Use(middleware.RateLimit(rate.Every(time.Second/20), 40))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.Static("/uploads", cfg.UploadDir)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", authHandler.Logout)
		}

		// Browsing is public; the original only gated writes behind login.
		// OptionalAuth records who is looking without ever blocking.
		public := api.Group("")
		public.Use(middleware.OptionalAuth(authService))
		{
			public.GET("/rooms", listingHandler.Home)
			public.GET("/rooms/:id", roomHandler.GetRoom)
			public.GET("/topics", listingHandler.Topics)
			public.GET("/activity", listingHandler.Activity)
			public.GET("/users/:id", profileHandler.GetProfile)
		}

		authed := api.Group("")
		authed.Use(middleware.RequireAuth(authService))
		{
			authed.POST("/rooms", roomHandler.CreateRoom)
			authed.PUT("/rooms/:id", roomHandler.UpdateRoom)
			authed.DELETE("/rooms/:id", roomHandler.DeleteRoom)
			authed.POST("/rooms/:id/messages", roomHandler.PostMessage)
			authed.DELETE("/messages/:id", roomHandler.DeleteMessage)
			authed.PUT("/users/me", profileHandler.UpdateMe)
			authed.POST("/users/me/avatar", profileHandler.UploadAvatar)
			authed.DELETE("/users/me", profileHandler.DeleteMe)
		}
	}

	return r
}
