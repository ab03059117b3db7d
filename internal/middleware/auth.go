package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rzazoo/zoo-booking/internal/model"
	"github.com/rzazoo/zoo-booking/internal/session"
	"github.com/rzazoo/zoo-booking/internal/utils"
)

// AuthCookieName is the HttpOnly cookie carrying the signed session token.
const AuthCookieName = "zoo_session"

// userKey is the echo context key under which the loaded user is stored.
const userKey = "user"

// UserLoader resolves a session identity to a user record. Implemented by
// repository.UserRepo.
type UserLoader interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// LoadUser parses the auth cookie, loads the matching user row, and stores
// it in the request context. Any failure (no cookie, bad token, missing
// row) leaves the request anonymous; the gates below decide what that
// means per route.
func LoadUser(secret string, users UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(AuthCookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}
			id, err := utils.ParseSessionToken(secret, cookie.Value)
			if err != nil {
				return next(c)
			}
			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			u, err := users.GetByID(ctx, id)
			if err != nil {
				return next(c)
			}
			c.Set(userKey, u)
			return next(c)
		}
	}
}

// CurrentUser returns the user loaded by LoadUser, if any.
func CurrentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get(userKey).(model.User)
	return u, ok
}

// SetCurrentUser stashes a user in the context directly. Exists for
// handler tests that bypass LoadUser.
func SetCurrentUser(c echo.Context, u model.User) {
	c.Set(userKey, u)
}

// RequireUser redirects anonymous requests to the login page with an info
// flash.
func RequireUser(flashes *session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := CurrentUser(c); !ok {
				flashes.Add(c.Response(), c.Request(), session.FlashInfo, "Please log in first.")
				return c.Redirect(http.StatusFound, "/login")
			}
			return next(c)
		}
	}
}

// RequireAdmin lets only the admin role through; everyone else is sent
// home with a danger flash. Anonymous requests go to the login page.
func RequireAdmin(flashes *session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := CurrentUser(c)
			if !ok {
				flashes.Add(c.Response(), c.Request(), session.FlashInfo, "Please log in first.")
				return c.Redirect(http.StatusFound, "/login")
			}
			if !u.IsAdmin() {
				flashes.Add(c.Response(), c.Request(), session.FlashDanger, "Access denied — Admins only!")
				return c.Redirect(http.StatusFound, "/")
			}
			return next(c)
		}
	}
}
