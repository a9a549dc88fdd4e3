package handlers

import (
	"errors"
	"net/http"
	"strings"

	"quizroom/services"

	"github.com/gin-gonic/gin"
)

type GameHandler struct {
	manager *services.GameManager
}

func NewGameHandler(manager *services.GameManager) *GameHandler {
	return &GameHandler{manager: manager}
}

func (h *GameHandler) GetGameByRoomCode(c *gin.Context) {
	roomCode := strings.ToUpper(c.Param("roomCode"))
	if roomCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Room code required"})
		return
	}

	game, err := h.manager.GetGame(c.Request.Context(), roomCode)
	if err != nil {
		if errors.Is(err, services.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch game"})
		return
	}

	c.JSON(http.StatusOK, game)
}

func (h *GameHandler) GetLeaderboard(c *gin.Context) {
	roomCode := strings.ToUpper(c.Param("roomCode"))
	if roomCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Room code required"})
		return
	}

	leaderboard, err := h.manager.Leaderboard(c.Request.Context(), roomCode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leaderboard"})
		return
	}

	c.JSON(http.StatusOK, leaderboard)
}
