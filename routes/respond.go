package routes

import (
	"errors"

	"github.com/gin-gonic/gin"

	"learn-ease-backend/internal/ai"
	"learn-ease-backend/internal/logger"
	"learn-ease-backend/internal/telemetry"
	"learn-ease-backend/middleware"
	"learn-ease-backend/services"
	"learn-ease-backend/utils"
)

// respondServiceError maps service layer errors to HTTP responses. Ownership
// failures and absent records both land on 404 so the API never confirms
// that a foreign resource exists.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		utils.RespondWithBadRequest(c, err.Error(), nil)
	case errors.Is(err, services.ErrNotFound):
		utils.RespondWithNotFound(c, "Resource not found")
	case errors.Is(err, services.ErrDuplicateName):
		utils.RespondWithBadRequest(c, "A category with this name already exists", nil)
	case errors.Is(err, services.ErrEmailExists):
		utils.RespondWithBadRequest(c, "Email is already registered", nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.RespondWithUnauthorized(c, "Incorrect email or password")
	case errors.Is(err, ai.ErrNotConfigured):
		utils.RespondWithServiceUnavailable(c, "This feature is currently unavailable")
	case errors.Is(err, ai.ErrUpstream):
		utils.RespondWithBadGateway(c, "The generation provider failed to respond")
	case errors.Is(err, ai.ErrBadOutput):
		utils.RespondWithBadGateway(c, "The generation provider returned an unusable response")
	default:
		logger.Error("Unhandled service error",
			"request_id", middleware.GetRequestID(c),
			"trace_id", telemetry.TraceID(c.Request.Context()),
			"path", c.FullPath(),
			"error", err)
		utils.RespondWithInternalError(c, "An unexpected error occurred", nil)
	}
}
