package routes

import (
	"log"
	"net/http"

	"quizroom/handlers"
	"quizroom/middleware"
	"quizroom/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // origin filtering handled by the reverse proxy
	},
}

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	triviaHandler *handlers.TriviaHandler,
	gameHandler *handlers.GameHandler,
	hub *services.Hub,
	authService *services.AuthService,
) {
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(authService))
		{
			protected.GET("/auth/profile", authHandler.GetProfile)
			protected.POST("/trivia-sets", triviaHandler.CreateTriviaSet)
		}

		// Public trivia content
		api.GET("/trivia-sets", triviaHandler.GetTriviaSets)
		api.GET("/trivia-sets/:id", triviaHandler.GetTriviaSetByID)

		// Public game routes
		games := api.Group("/games")
		{
			games.GET("/:roomCode", gameHandler.GetGameByRoomCode)
			games.GET("/:roomCode/leaderboard", gameHandler.GetLeaderboard)
		}

		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}

	// WebSocket endpoint carrying the room event protocol
	router.GET("/ws", func(c *gin.Context) {
		playerID := c.Query("playerId")
		playerName := c.Query("playerName")

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed: %v", err)
			return
		}

		hub.RegisterClient(conn, playerID, playerName)
	})
}
