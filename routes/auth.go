package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"learn-ease-backend/models"
	"learn-ease-backend/services"
	"learn-ease-backend/utils"
)

func SetupAuthRoutes(router *gin.Engine, userService *services.UserService) {
	auth := router.Group("/auth")

	auth.POST("/signup", func(c *gin.Context) {
		var req models.SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		user, err := userService.Signup(c.Request.Context(), &req)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, user.Info())
	})

	auth.POST("/login", func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		resp, err := userService.Login(c.Request.Context(), &req)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	})
}
