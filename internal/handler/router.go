package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Enejivk/cleary-chat-Backend/internal/config"
	"github.com/Enejivk/cleary-chat-Backend/internal/index"
	"github.com/Enejivk/cleary-chat-Backend/internal/middleware"
	"github.com/Enejivk/cleary-chat-Backend/internal/pkg/jwt"
	"github.com/Enejivk/cleary-chat-Backend/internal/repository"
	"github.com/Enejivk/cleary-chat-Backend/internal/service"
)

// Dependencies carries the infrastructure built in main that the router
// cannot construct itself.
type Dependencies struct {
	Index     index.Index
	Completer service.ChatCompleter
	Storage   *service.StorageService
	Statuses  service.StatusStore
	Extractor service.PageExtractor
}

func SetupRouter(cfg *config.Config, db *gorm.DB, deps Dependencies) *gin.Engine {
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.RequestID())

	r.GET("/health", healthCheck)
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":      "Cleary Chat Backend",
			"version":      "1.0.0",
			"status":       "running",
			"health_check": "/health",
		})
	})

	// Repositories
	userRepo := repository.NewUserRepository(db)
	docRepo := repository.NewDocumentRepository(db)
	botRepo := repository.NewChatBotRepository(db)
	msgRepo := repository.NewMessageRepository(db)

	// Services
	jwtManager := jwt.NewManager(cfg.JWTSecret, cfg.AccessTokenExpireMin)
	chunker := service.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	ingestSvc := service.NewIngestService(deps.Extractor, chunker, deps.Index, deps.Statuses, cfg.CollectionName)
	authSvc := service.NewAuthService(userRepo, jwtManager, deps.Index, cfg.CollectionName)
	docSvc := service.NewDocumentService(docRepo, deps.Storage, ingestSvc, deps.Statuses, deps.Index, cfg.CollectionName)
	botSvc := service.NewChatBotService(botRepo, docRepo)
	chatSvc := service.NewChatService(deps.Index, deps.Completer, cfg.CollectionName)

	// Handlers
	authHandler := NewAuthHandler(authSvc)
	docHandler := NewDocumentHandler(docSvc, cfg.MaxUploadSize)
	botHandler := NewChatBotHandler(botSvc)
	chatHandler := NewChatHandler(chatSvc, botSvc, msgRepo)

	auth := middleware.NewAuthMiddleware(jwtManager, db)

	users := r.Group("/users")
	{
		users.POST("/register", authHandler.Register)
		users.POST("/login", authHandler.Login)

		authed := users.Group("", auth.JWTAuth())
		{
			authed.GET("/auth/me", authHandler.Me)
			authed.PUT("/profile", authHandler.UpdateProfile)
			authed.DELETE("/me", authHandler.DeleteAccount)
		}
	}

	chatbots := r.Group("/chatbots", auth.JWTAuth())
	{
		chatbots.POST("/upload", docHandler.Upload)
		chatbots.GET("/documents", docHandler.List)
		chatbots.GET("/get_all_documents", docHandler.List)
		chatbots.DELETE("/documents/:id", docHandler.Delete)
		chatbots.GET("/documents/:id/status", docHandler.Status)

		chatbots.POST("/create_chatbot", botHandler.Create)
		chatbots.GET("/get_chatbots", botHandler.List)
		chatbots.PUT("/chatbot/:id/update", botHandler.Update)
		chatbots.POST("/chatbot/:id/add_documents", botHandler.AddDocuments)
		chatbots.DELETE("/chatbot/:id", botHandler.Delete)

		chatbots.POST("/chat", chatHandler.Chat)
		chatbots.GET("/chatbot/:id/history", chatHandler.History)
		chatbots.DELETE("/chatbot/:id/history", chatHandler.ClearHistory)
	}

	return r
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "cleary-chat",
	})
}
