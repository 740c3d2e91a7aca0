package apikey

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func hashKey(t *testing.T, key string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newProtectedApp(svc *Service) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(fiber.StatusUnauthorized)
		},
	})
	app.Get("/protected", svc.Middleware(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestValidateAgainstHashes(t *testing.T) {
	svc := NewService(hashKey(t, "sekret") + " , " + hashKey(t, "other"))

	assert.True(t, svc.Enabled())
	assert.True(t, svc.Validate("sekret"))
	assert.True(t, svc.Validate("other"))
	assert.False(t, svc.Validate("wrong"))
	assert.False(t, svc.Validate(""))
}

func TestMiddlewareEnforcesKey(t *testing.T) {
	svc := NewService(hashKey(t, "sekret"))
	app := newProtectedApp(svc)

	req := httptest.NewRequest("GET", "/protected", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set(HeaderName, "wrong")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set(HeaderName, "sekret")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestMiddlewareDisabledWhenUnconfigured(t *testing.T) {
	svc := NewService("")
	require.False(t, svc.Enabled())

	app := newProtectedApp(svc)
	req := httptest.NewRequest("GET", "/protected", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
