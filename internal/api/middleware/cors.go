package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func ConfigCORS(allowedDomains []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) bool {
			return OriginAllowed(origin, allowedDomains)
		},
		MaxAge: 12 * time.Hour,
	})
}

// OriginAllowed is the one origin policy, shared between the CORS layer and
// the websocket upgrader. An absent Origin header means a non-browser client.
func OriginAllowed(origin string, allowedDomains []string) bool {
	if origin == "" {
		return true
	}

	if strings.Contains(origin, "localhost") || strings.Contains(origin, "127.0.0.1") {
		return true
	}

	for _, domain := range allowedDomains {
		if strings.HasSuffix(origin, domain) {
			return true
		}
	}

	return false
}
