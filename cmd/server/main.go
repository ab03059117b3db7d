package main // Entry point package

import (
	"context"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rzazoo/zoo-booking/internal/config"
	"github.com/rzazoo/zoo-booking/internal/database"
	"github.com/rzazoo/zoo-booking/internal/handler"
	"github.com/rzazoo/zoo-booking/internal/mailer"
	"github.com/rzazoo/zoo-booking/internal/queue"
	"github.com/rzazoo/zoo-booking/internal/repository"
	"github.com/rzazoo/zoo-booking/internal/router"
	"github.com/rzazoo/zoo-booking/internal/session"
	"github.com/rzazoo/zoo-booking/internal/validation"
	"github.com/rzazoo/zoo-booking/internal/view"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("db: open failed")
	}
	if err := database.EnsureSchema(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("db: schema bootstrap failed")
	}
	log.Info().Str("host", cfg.DBHost).Str("db", cfg.DBName).Msg("database connected")

	users := repository.NewUserRepo(db)
	bookings := repository.NewBookingRepo(db)
	flashes := session.NewStore(cfg.SessionSecret, cfg.Env == "prod")

	// Booking events and mail notifications stay off without a broker URL.
	var events handler.EventPublisher
	if cfg.AMQPURL != "" {
		events = queue.NewPublisher(cfg.AMQPURL, log)
		var notifier queue.Notifier
		if m := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPPass, log); m != nil {
			notifier = m
		}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go queue.StartConsumer(ctx, cfg.AMQPURL, notifier, log)
	}

	renderer, err := view.New(cfg.TemplateDir)
	if err != nil {
		log.Fatal().Err(err).Msg("templates: parse failed")
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.Validator = validation.NewEcho()

	router.Register(e, router.Deps{
		Cfg:      cfg,
		CacheCfg: config.LoadCacheConfig(),
		Redis:    config.NewRedisClient(),
		Flashes:  flashes,
		Users:    users,
		Pages:    handler.NewPageHandler(bookings, flashes),
		Auth:     handler.NewAuthHandler(cfg, users, flashes),
		Bookings: handler.NewBookingHandler(bookings, flashes, events),
		Admin:    handler.NewAdminHandler(bookings, flashes),
	})

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
