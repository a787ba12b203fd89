package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	AppName     string `env:"APP_NAME" envDefault:"double-paws"`

	Server struct {
		Port            string   `env:"PORT" envDefault:"8080"`
		ReadTimeout     int      `env:"READ_TIMEOUT" envDefault:"5"`
		WriteTimeout    int      `env:"WRITE_TIMEOUT" envDefault:"10"`
		IdleTimeout     int      `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int      `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
		AllowedOrigins  []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	} `envPrefix:"SERVER_"`

	Log struct {
		Level  string `env:"LEVEL" envDefault:"info"`
		Format string `env:"FORMAT" envDefault:"text"`
	} `envPrefix:"LOG_"`

	// Sin DSN las sesiones del wizard quedan en memoria.
	Database struct {
		DSN            string `env:"DSN"`
		ConnectTimeout int    `env:"CONNECT_TIMEOUT" envDefault:"3"`
	} `envPrefix:"DATABASE_"`

	API struct {
		BaseURL string `env:"BASE_URL" envDefault:"http://localhost:3000/api"`
		Timeout int    `env:"TIMEOUT" envDefault:"10"`
	} `envPrefix:"DOUBLEPAWS_API_"`

	Geocoding struct {
		BaseURL        string  `env:"BASE_URL" envDefault:"https://nominatim.openstreetmap.org"`
		UserAgent      string  `env:"USER_AGENT" envDefault:"double-paws/1.0"`
		RatePerSecond  float64 `env:"RATE_PER_SECOND" envDefault:"1"`
		DebounceMillis int     `env:"DEBOUNCE_MS" envDefault:"300"`
		Limit          int     `env:"LIMIT" envDefault:"5"`
		CacheTTL       int     `env:"CACHE_TTL" envDefault:"86400"`
		Timeout        int     `env:"TIMEOUT" envDefault:"10"`
	} `envPrefix:"GEOCODING_"`

	// Sin Addr no hay cache de geocoding.
	Redis struct {
		Addr     string `env:"ADDR"`
		Password string `env:"PASSWORD"`
		DB       int    `env:"DB" envDefault:"0"`
	} `envPrefix:"REDIS_"`

	// Sin DSN no se publican eventos de registro.
	RabbitMQ struct {
		DSN            string `env:"DSN"`
		Exchange       string `env:"EXCHANGE" envDefault:"double-paws.events"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"5"`
	} `envPrefix:"RABBITMQ_"`

	// Sin secret el middleware queda en modo dev (X-Debug-User-ID).
	Auth struct {
		JWTSecret string `env:"JWT_SECRET"`
		JWTIssuer string `env:"JWT_ISSUER"`
	} `envPrefix:"AUTH_"`

	Registration struct {
		SessionTTL          int `env:"SESSION_TTL" envDefault:"3600"`
		ErrorDisplaySeconds int `env:"ERROR_DISPLAY_SECONDS" envDefault:"5"`
	} `envPrefix:"REGISTRATION_"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if errors.As(err, &aggErr) && len(aggErr.Errors) > 0 {
			// Solo el primero para que el log sea legible.
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func (c *Config) ReadTimeout() time.Duration     { return seconds(c.Server.ReadTimeout) }
func (c *Config) WriteTimeout() time.Duration    { return seconds(c.Server.WriteTimeout) }
func (c *Config) IdleTimeout() time.Duration     { return seconds(c.Server.IdleTimeout) }
func (c *Config) ShutdownTimeout() time.Duration { return seconds(c.Server.ShutdownTimeout) }
func (c *Config) APITimeout() time.Duration      { return seconds(c.API.Timeout) }
func (c *Config) GeocodingTimeout() time.Duration {
	return seconds(c.Geocoding.Timeout)
}
func (c *Config) GeocodeCacheTTL() time.Duration { return seconds(c.Geocoding.CacheTTL) }
func (c *Config) DebounceWait() time.Duration {
	return time.Duration(c.Geocoding.DebounceMillis) * time.Millisecond
}
func (c *Config) PublishTimeout() time.Duration { return seconds(c.RabbitMQ.PublishTimeout) }
func (c *Config) SessionTTL() time.Duration { return seconds(c.Registration.SessionTTL) }
func (c *Config) ErrorDisplay() time.Duration {
	return seconds(c.Registration.ErrorDisplaySeconds)
}
