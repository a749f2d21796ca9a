package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/flowy/internal/models"
)

func (handler *Handler) setAuthCookie(c *fiber.Ctx, token string, ttl time.Duration, persistent bool) {
	cookie := &fiber.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
	}
	if persistent {
		cookie.Expires = time.Now().Add(ttl)
	}
	c.Cookie(cookie)
}

func (handler *Handler) clearAuthCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}

func (handler *Handler) buildToken(user *models.User, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = defaultAuthTokenTTL
	}
	now := time.Now()

	claims := authClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(handler.secretKey)
}

// startSession issues a token, stores it in the auth cookie and returns it
// for clients that send it as a bearer header.
func (handler *Handler) startSession(c *fiber.Ctx, user *models.User, rememberMe bool) (string, error) {
	ttl := defaultAuthTokenTTL
	if rememberMe {
		ttl = rememberAuthTokenTTL
	}
	token, err := handler.buildToken(user, ttl)
	if err != nil {
		return "", err
	}
	handler.setAuthCookie(c, token, ttl, rememberMe)
	return token, nil
}
