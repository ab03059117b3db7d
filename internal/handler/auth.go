package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rzazoo/zoo-booking/internal/config"
	"github.com/rzazoo/zoo-booking/internal/middleware"
	"github.com/rzazoo/zoo-booking/internal/repository"
	"github.com/rzazoo/zoo-booking/internal/session"
	"github.com/rzazoo/zoo-booking/internal/utils"
)

// AuthHandler bundles dependencies for registration, login, and logout.
type AuthHandler struct {
	Cfg     config.Config
	Users   UserStore
	Flashes *session.Store
}

func NewAuthHandler(cfg config.Config, u UserStore, f *session.Store) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Flashes: f}
}

// ----- form DTOs -----

type registerForm struct {
	Username string `form:"username" validate:"required,max=64"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
	Confirm  string `form:"confirm_password" validate:"required"`
}

type loginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// ShowRegister renders the registration form.
func (h *AuthHandler) ShowRegister(c echo.Context) error {
	return render(c, h.Flashes, "register", nil)
}

// Register creates a new account. The first account ever registered gets
// the admin role; everyone after is regular.
func (h *AuthHandler) Register(c echo.Context) error {
	var form registerForm
	if err := c.Bind(&form); err != nil {
		return redirectFlash(c, h.Flashes, session.FlashError, "Could not read the form.", "/register")
	}
	if err := c.Validate(&form); err != nil {
		return redirectFlash(c, h.Flashes, session.FlashError, "Please fill in every field with a valid value.", "/register")
	}
	if form.Password != form.Confirm {
		return redirectFlash(c, h.Flashes, session.FlashError, "Passwords do not match", "/register")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	_, err := h.Users.Create(ctx, form.Username, form.Email, form.Password, h.Cfg.BcryptCost)
	switch {
	case errors.Is(err, repository.ErrEmailExists):
		return redirectFlash(c, h.Flashes, session.FlashError, "Email already registered", "/login")
	case errors.Is(err, repository.ErrUsernameExists):
		return redirectFlash(c, h.Flashes, session.FlashError, "Username already taken", "/register")
	case err != nil:
		return redirectFlash(c, h.Flashes, session.FlashDanger, "Could not create the account.", "/register")
	}
	return redirectFlash(c, h.Flashes, session.FlashSuccess, "Account created!", "/login")
}

// ShowLogin renders the login form.
func (h *AuthHandler) ShowLogin(c echo.Context) error {
	return render(c, h.Flashes, "login", nil)
}

// Login verifies the credentials and sets the session cookie. Absent user
// and wrong password produce the same message on purpose.
func (h *AuthHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return redirectFlash(c, h.Flashes, session.FlashError, "Could not read the form.", "/login")
	}
	if err := c.Validate(&form); err != nil {
		return redirectFlash(c, h.Flashes, session.FlashError, "Please fill in every field.", "/login")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, form.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return redirectFlash(c, h.Flashes, session.FlashDanger, "Invalid credentials", "/login")
		}
		return redirectFlash(c, h.Flashes, session.FlashDanger, "Could not log you in.", "/login")
	}
	if !utils.VerifyPassword(u.PasswordHash, form.Password) {
		return redirectFlash(c, h.Flashes, session.FlashDanger, "Invalid credentials", "/login")
	}

	tok, err := utils.NewSessionToken(h.Cfg.SessionSecret, u.ID, h.Cfg.SessionTTL)
	if err != nil {
		return redirectFlash(c, h.Flashes, session.FlashDanger, "Could not log you in.", "/login")
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    tok.Token,
		Path:     "/",
		Expires:  tok.Exp,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.Cfg.Env == "prod",
	})
	return c.Redirect(http.StatusFound, "/")
}

// Logout expires the session cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
	return redirectFlash(c, h.Flashes, session.FlashInfo, "Logged out", "/")
}
