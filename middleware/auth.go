package middleware

import (
	"github.com/gin-gonic/gin"

	"learn-ease-backend/internal/config"
	"learn-ease-backend/internal/identity"
	"learn-ease-backend/utils"
)

type AuthMiddleware struct {
	config *config.Config
}

func NewAuthMiddleware(cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{config: cfg}
}

// RequireAuth validates the bearer token and stores the authenticated user id
// in the request context. The token is read from the Authorization header
// first, then from the access_token cookie.
func (a *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			tokenString = utils.ExtractTokenFromHeader(authHeader)
		}
		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			utils.RespondWithUnauthorized(c, "Authentication token is required")
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(tokenString, a.config.JWTSecret)
		if err != nil {
			utils.RespondWithUnauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		userID, err := identity.Parse(claims.UserID)
		if err != nil {
			utils.RespondWithUnauthorized(c, "Invalid token subject")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("user_email", claims.Email)
		c.Next()
	}
}

// GetUserID returns the authenticated user id set by RequireAuth. The second
// return is false on unauthenticated requests.
func GetUserID(c *gin.Context) (identity.ID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return identity.ID{}, false
	}
	id, ok := value.(identity.ID)
	return id, ok
}
