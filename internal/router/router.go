// Package router defines how HTTP routes are registered for the site.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/rzazoo/zoo-booking/internal/config"
	"github.com/rzazoo/zoo-booking/internal/handler"
	mw "github.com/rzazoo/zoo-booking/internal/middleware"
	"github.com/rzazoo/zoo-booking/internal/session"
)

// Deps carries everything route registration needs.
type Deps struct {
	Cfg      config.Config
	CacheCfg config.CacheConfig
	Redis    *redis.Client // may be nil; the page cache then no-ops
	Flashes  *session.Store
	Users    mw.UserLoader
	Pages    *handler.PageHandler
	Auth     *handler.AuthHandler
	Bookings *handler.BookingHandler
	Admin    *handler.AdminHandler
}

// Register wires every route on the provided Echo instance.
func Register(e *echo.Echo, d Deps) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(mw.LoadUser(d.Cfg.SessionSecret, d.Users))

	e.Static("/static", d.Cfg.StaticDir)
	e.GET("/healthz", handler.Health)

	// Public pages. The informational ones sit behind the Redis page
	// cache; the home page lists live bookings so it is rendered fresh.
	e.GET("/", d.Pages.Home)
	cached := e.Group("", mw.PageCache(d.CacheCfg, d.Redis))
	cached.GET("/about", d.Pages.About)
	cached.GET("/education", d.Pages.Education)
	cached.GET("/animalsfact", d.Pages.AnimalsFact)
	e.GET("/booking", d.Pages.BookingForm)

	// Account creation and login.
	e.GET("/register", d.Auth.ShowRegister)
	e.POST("/register", d.Auth.Register)
	e.GET("/login", d.Auth.ShowLogin)
	e.POST("/login", d.Auth.Login)

	// Everything below needs an authenticated session.
	authed := e.Group("", mw.RequireUser(d.Flashes))
	authed.GET("/logout", d.Auth.Logout)
	authed.GET("/account", d.Bookings.Account)
	authed.POST("/booking/submit", d.Bookings.Submit)
	authed.GET("/edit_booking/:id", d.Bookings.EditForm)
	authed.POST("/edit_booking/:id", d.Bookings.EditSubmit)
	authed.GET("/delete_booking/:id", d.Bookings.Delete)

	// Admin dashboard, gated on the admin role.
	e.GET("/admin", d.Admin.Dashboard, mw.RequireUser(d.Flashes), mw.RequireAdmin(d.Flashes))
}
