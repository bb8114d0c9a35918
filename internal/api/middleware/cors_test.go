package middleware_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fabrica-tour/api/internal/api/middleware"
)

func TestOriginAllowed(t *testing.T) {
	allowed := []string{"fabrica-tour.example.com"}

	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{"absent origin", "", true},
		{"localhost", "http://localhost:5173", true},
		{"loopback", "http://127.0.0.1:8080", true},
		{"configured domain", "https://app.fabrica-tour.example.com", true},
		{"unknown domain", "https://evil.example.net", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, middleware.OriginAllowed(tt.origin, allowed))
		})
	}
}
