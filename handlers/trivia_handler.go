package handlers

import (
	"net/http"
	"strconv"

	"quizroom/services"

	"github.com/gin-gonic/gin"
)

type TriviaHandler struct {
	triviaService *services.TriviaService
}

func NewTriviaHandler(triviaService *services.TriviaService) *TriviaHandler {
	return &TriviaHandler{triviaService: triviaService}
}

func (h *TriviaHandler) GetTriviaSets(c *gin.Context) {
	sets, err := h.triviaService.GetPublicTriviaSets()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trivia sets"})
		return
	}

	c.JSON(http.StatusOK, sets)
}

func (h *TriviaHandler) GetTriviaSetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trivia set ID"})
		return
	}

	set, err := h.triviaService.GetTriviaSetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trivia set not found"})
		return
	}

	c.JSON(http.StatusOK, set)
}

func (h *TriviaHandler) CreateTriviaSet(c *gin.Context) {
	adminID, exists := c.Get("admin_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Admin not authenticated"})
		return
	}

	var req services.CreateTriviaSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	set, err := h.triviaService.CreateTriviaSet(adminID.(uint), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, set)
}
