package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sm8ta/customer_microservice/internal/core/ports"
)

const (
	authorizationHeaderKey  = "authorization"
	authorizationType       = "bearer"
	authorizationPayloadKey = "authorization_payload"
)

func AuthMiddleware(token ports.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authorizationHeader := c.GetHeader(authorizationHeaderKey)
		if authorizationHeader == "" {
			newErrorResponse(c, http.StatusUnauthorized, "Auth header required")
			return
		}

		fields := strings.Fields(authorizationHeader)
		if len(fields) != 2 {
			newErrorResponse(c, http.StatusUnauthorized, "Auth fields required")
			return
		}

		currentAuthorizationType := strings.ToLower(fields[0])
		if currentAuthorizationType != authorizationType {
			newErrorResponse(c, http.StatusUnauthorized, "Unsupported authorization type")
			return
		}

		accessToken := fields[1]
		payload, err := token.VerifyToken(accessToken)
		if err != nil {
			newErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(authorizationPayloadKey, &payload)
		c.Next()
	}
}
