package main

import (
	"log"

	"quizroom/config"
	"quizroom/handlers"
	"quizroom/middleware"
	"quizroom/models"
	"quizroom/routes"
	"quizroom/services"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
)

func main() {
	cfg := config.Load()

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	err = db.AutoMigrate(
		&models.Admin{},
		&models.TriviaSet{},
		&models.TriviaQuestion{},
		&models.AnswerOption{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Live game state lives in Redis; without a configured Redis host the
	// server falls back to process memory, which is fine for a single node.
	var store services.GameStore
	if cfg.RedisHost != "" {
		store = services.NewRedisGameStore(config.InitRedis(cfg))
	} else {
		log.Println("REDIS_HOST not set, using in-memory game store")
		store = services.NewMemoryGameStore()
	}

	clock := clockwork.NewRealClock()
	gameManager := services.NewGameManager(store, clock)
	triviaService := services.NewTriviaService(db)
	authService := services.NewAuthService(db, cfg.JWTSecret)

	hub := services.NewHub()
	orchestrator := services.NewOrchestrator(gameManager, hub, triviaService, clock)
	hub.SetOrchestrator(orchestrator)
	go hub.Run()

	authHandler := handlers.NewAuthHandler(authService)
	triviaHandler := handlers.NewTriviaHandler(triviaService)
	gameHandler := handlers.NewGameHandler(gameManager)

	router := gin.Default()
	router.Use(middleware.CORS(cfg.FrontendURL))

	routes.SetupRoutes(router, authHandler, triviaHandler, gameHandler, hub, authService)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.BindAddress + ":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
