package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"repairshop.dev/photo-gateway/app/domain/auth"
	"repairshop.dev/photo-gateway/app/interfaces/http/responses"
)

// AuthMiddleware requires a valid bearer JWT. The claims are stored under
// auth.ContextUserClaim; the raw token and the caller's identity travel on the
// request context for backend calls made on the caller's behalf.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorResponse{
				Code:  "55312c8d-4fa4-4ecf-a0a2-6fee16c8d7e0",
				Error: "missing authorization header",
			})
			return
		}

		scheme, tokenString, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(tokenString) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorResponse{
				Code:  "c6d6bafd-b9f3-4ebb-9c90-a21b07308ebc",
				Error: "authorization header must be a bearer token",
			})
			return
		}
		tokenString = strings.TrimSpace(tokenString)

		claims, err := auth.ParseJwt(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorResponse{
				Code:  "9d7a21c4-d94c-4451-841b-4d9333f86942",
				Error: "invalid token",
			})
			return
		}

		c.Set(auth.ContextUserClaim, claims)
		ctx := auth.WithBearer(c.Request.Context(), tokenString)
		ctx = auth.WithIdentity(ctx, claims.Identity())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRoles must run after AuthMiddleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, _ := c.Get(auth.ContextUserClaim)
		claims, _ := value.(*auth.UserClaim)
		if !claims.HasAnyRole(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, responses.ErrorResponse{
				Code:  "6cc0aa26-148d-4b8d-8f53-9d47b2a00ef1",
				Error: "insufficient role",
			})
			return
		}
		c.Next()
	}
}
