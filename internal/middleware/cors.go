package middleware

import (
	"net/http"

	"amc-backend/internal/config"

	"github.com/rs/cors"
)

// NewCORS lets the console front-end call the API from its own origin. Report
// downloads need Content-Disposition exposed so the browser keeps the file name.
func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	origins := cfg.Server.CorsAllowedOrigins
	wildcard := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			wildcard = true
		}
	}
	if wildcard {
		origins = []string{"*"}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   cfg.Server.CorsAllowedMethods,
		AllowedHeaders:   append([]string{"Authorization", "Content-Type"}, cfg.Server.CorsAllowedHeaders...),
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: !wildcard, // browsers reject credentials with "*"
		MaxAge:           300,
	})
	return c.Handler
}
