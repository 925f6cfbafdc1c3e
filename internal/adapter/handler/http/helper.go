package http

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sm8ta/customer_microservice/internal/core/domain"
)

func getAuthPayload(ctx *gin.Context, key string) (*domain.TokenPayload, bool) {
	value, exists := ctx.Get(key)
	if !exists {
		return nil, false
	}
	payload, ok := value.(*domain.TokenPayload)
	if !ok {
		return nil, false
	}
	return payload, true
}

// customerID reads the :id path parameter. Ids that are not positive
// integers cannot exist.
func customerID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryPayload keeps the first value of every query parameter.
func queryPayload(values url.Values) map[string]any {
	payload := make(map[string]any, len(values))
	for key, v := range values {
		if len(v) > 0 {
			payload[key] = v[0]
		}
	}
	return payload
}

// requester returns the username from the auth payload, if the route is protected.
func requester(c *gin.Context) string {
	if payload, ok := getAuthPayload(c, authorizationPayloadKey); ok {
		return payload.Username
	}
	return ""
}
