package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"learn-ease-backend/middleware"
	"learn-ease-backend/models"
	"learn-ease-backend/services"
	"learn-ease-backend/utils"
)

// SetupAIRoutes registers the generation endpoints. They are the only group
// behind the rate limiter: every call can fan out to a paid provider.
func SetupAIRoutes(router *gin.Engine, auth *middleware.AuthMiddleware, rateLimit gin.HandlerFunc, aiService *services.AIService) {
	ai := router.Group("/ai")
	ai.Use(auth.RequireAuth())
	if rateLimit != nil {
		ai.Use(rateLimit)
	}

	ai.POST("/summarize-text", func(c *gin.Context) {
		var req models.SummarizeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		summary, err := aiService.Summarize(c.Request.Context(), req.Text)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SummarizeResponse{Summary: summary})
	})

	ai.POST("/generate-flashcards", func(c *gin.Context) {
		var req models.FlashcardsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		cards, err := aiService.GenerateFlashcards(c.Request.Context(), req.Text)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.FlashcardsResponse{Flashcards: cards})
	})

	ai.POST("/generate-study-notes", func(c *gin.Context) {
		var req models.StudyNotesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		notes, err := aiService.GenerateStudyNotes(c.Request.Context(), req.Text)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.StudyNotesResponse{StudyNotes: notes})
	})
}
