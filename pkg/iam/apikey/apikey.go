// Package apikey guards the API with pre-shared keys. Keys are configured as
// bcrypt hashes so the plaintext never lives in the environment of the server.
package apikey

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/kabalen/permitdocs/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("APIKEY")

var (
	CodeMissingKey = ErrRegistry.Register("MISSING", errx.TypeAuthorization, http.StatusUnauthorized, "API key required")
	CodeInvalidKey = ErrRegistry.Register("INVALID", errx.TypeAuthorization, http.StatusUnauthorized, "Invalid API key")
)

// HeaderName is the request header holding the key
const HeaderName = "X-API-Key"

// Service validates presented keys against configured bcrypt hashes
type Service struct {
	hashes []string
}

// NewService creates a validator from a comma-separated list of bcrypt hashes.
// An empty list disables authentication (local development).
func NewService(hashList string) *Service {
	var hashes []string
	for _, h := range strings.Split(hashList, ",") {
		h = strings.TrimSpace(h)
		if h != "" {
			hashes = append(hashes, h)
		}
	}
	return &Service{hashes: hashes}
}

// Enabled reports whether any keys are configured
func (s *Service) Enabled() bool {
	return len(s.hashes) > 0
}

// Validate checks a plaintext key against the configured hashes
func (s *Service) Validate(key string) bool {
	if key == "" {
		return false
	}
	for _, h := range s.hashes {
		if bcrypt.CompareHashAndPassword([]byte(h), []byte(key)) == nil {
			return true
		}
	}
	return false
}

// Middleware returns a fiber handler enforcing the key on protected routes
func (s *Service) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !s.Enabled() {
			return c.Next()
		}

		key := c.Get(HeaderName)
		if key == "" {
			return ErrRegistry.New(CodeMissingKey)
		}
		if !s.Validate(key) {
			return ErrRegistry.New(CodeInvalidKey)
		}
		return c.Next()
	}
}
