package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"learn-ease-backend/middleware"
	"learn-ease-backend/models"
	"learn-ease-backend/services"
	"learn-ease-backend/utils"
)

func SetupCategoryRoutes(router *gin.Engine, auth *middleware.AuthMiddleware, categoryService *services.CategoryService) {
	categories := router.Group("/categories")
	categories.Use(auth.RequireAuth())

	categories.POST("", func(c *gin.Context) {
		userID, ok := middleware.GetUserID(c)
		if !ok {
			utils.RespondWithUnauthorized(c, "Authentication required")
			return
		}

		var req models.CategoryCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		category, err := categoryService.Create(c.Request.Context(), userID, req.Name)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, category.Public())
	})

	categories.GET("", func(c *gin.Context) {
		userID, ok := middleware.GetUserID(c)
		if !ok {
			utils.RespondWithUnauthorized(c, "Authentication required")
			return
		}

		list, err := categoryService.List(c.Request.Context(), userID)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		public := make([]models.CategoryPublic, 0, len(list))
		for i := range list {
			public = append(public, list[i].Public())
		}
		c.JSON(http.StatusOK, public)
	})

	categories.PUT("/:category_id", func(c *gin.Context) {
		userID, ok := middleware.GetUserID(c)
		if !ok {
			utils.RespondWithUnauthorized(c, "Authentication required")
			return
		}

		var req models.CategoryUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		category, err := categoryService.Rename(c.Request.Context(), userID, c.Param("category_id"), req.Name)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, category.Public())
	})

	categories.DELETE("/:category_id", func(c *gin.Context) {
		userID, ok := middleware.GetUserID(c)
		if !ok {
			utils.RespondWithUnauthorized(c, "Authentication required")
			return
		}

		if err := categoryService.Delete(c.Request.Context(), userID, c.Param("category_id")); err != nil {
			respondServiceError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}
