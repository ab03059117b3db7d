package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Strings for identifiers and secrets, ints for
// durations and costs.
type Config struct {
	Env           string // application environment (e.g. "dev", "prod")
	Port          string // HTTP port to listen on
	DBUser        string // database username
	DBPass        string // database password (optional)
	DBHost        string // database host address
	DBPort        string // database port number
	DBName        string // database name
	SessionSecret string // secret signing both the auth cookie and flash cookies
	SessionTTL    int    // auth cookie lifetime in hours
	BcryptCost    int    // bcrypt cost for password hashing
	AMQPURL       string // RabbitMQ URL; empty disables booking events
	SMTPHost      string // SMTP relay host; empty disables notification mail
	SMTPPort      string
	SMTPFrom      string
	SMTPPass      string
	TemplateDir   string // directory holding the HTML templates
	StaticDir     string // directory served under /static
}

// Load reads configuration from the environment, after loading a .env file
// when one is present. Required variables are enforced by must() and missing
// values cause the program to exit with a fatal log message.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Env:           getenv("APP_ENV", "dev"),
		Port:          must("APP_PORT"),
		DBUser:        must("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"), // empty allowed
		DBHost:        must("DB_HOST"),
		DBPort:        must("DB_PORT"),
		DBName:        must("DB_NAME"),
		SessionSecret: must("SESSION_SECRET"),
		SessionTTL:    intDefault("SESSION_TTL_HOURS", 72),
		BcryptCost:    intDefault("BCRYPT_COST", bcrypt.DefaultCost),
		AMQPURL:       amqpURL(),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      getenv("SMTP_PORT", "587"),
		SMTPFrom:      os.Getenv("SMTP_FROM"),
		SMTPPass:      os.Getenv("SMTP_PASS"),
		TemplateDir:   getenv("TEMPLATE_DIR", "web/templates"),
		StaticDir:     getenv("STATIC_DIR", "web/static"),
	}
}

// amqpURL accepts either RABBITMQ_URL or AMQP_URL. Empty means the broker
// integration stays off.
func amqpURL() string {
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		return v
	}
	return os.Getenv("AMQP_URL")
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intDefault(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
