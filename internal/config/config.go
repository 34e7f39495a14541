package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"`
	DatabaseURL string `env:"DATABASE_URL"`

	JWT    JWT    `envPrefix:"JWT_"`
	Stripe Stripe `envPrefix:"STRIPE_"`
}

type JWT struct {
	Secret string        `env:"SECRET"`
	TTL    time.Duration `env:"TTL" envDefault:"24h"`
}

// Stripe holds the processor credentials plus the two fixed price ids the
// club sells against: the annual membership subscription and the flat
// tournament/event entry fee.
type Stripe struct {
	BaseApiURL        string `env:"BASE_API_URL" envDefault:"https://api.stripe.com"`
	SecretKey         string `env:"SECRET_KEY"`
	WebhookSecret     string `env:"WEBHOOK_SECRET"`
	MembershipPriceID string `env:"MEMBERSHIP_PRICE_ID"`
	TournamentPriceID string `env:"TOURNAMENT_PRICE_ID"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
