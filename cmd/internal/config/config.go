package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"clinicdesk/cmd/internal/scheduling"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/gommon/log"
)

const (
	ProviderLocal   = "local"
	ProviderCognito = "cognito"
)

type Config struct {
	Port         string        `envconfig:"PORT" default:"6060"`
	DatabasePath string        `envconfig:"DATABASE_PATH" default:"./database.db"`
	DayEnd       string        `envconfig:"CLINIC_DAY_END" default:"19:00"`
	JWTSecret    string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL     time.Duration `envconfig:"TOKEN_TTL" default:"12h"`
	AuthProvider string        `envconfig:"AUTH_PROVIDER" default:"local"`
	CORSOrigins  []string      `envconfig:"CORS_ORIGINS" default:"*"`

	AWSRegion         string `envconfig:"AWS_REGION"`
	CognitoClientID   string `envconfig:"COGNITO_CLIENT_ID"`
	CognitoUserPoolID string `envconfig:"COGNITO_USER_POOL_ID"`
}

// Load reads an optional .env file, then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading env file: %w", err)
		}
		log.Warn("no .env file found, using process environment only")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if _, err := scheduling.ParseClock(c.DayEnd); err != nil {
		return fmt.Errorf("CLINIC_DAY_END: %w", err)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}

	switch c.AuthProvider {
	case ProviderLocal:
	case ProviderCognito:
		if c.AWSRegion == "" || c.CognitoClientID == "" || c.CognitoUserPoolID == "" {
			return errors.New("cognito provider needs AWS_REGION, COGNITO_CLIENT_ID and COGNITO_USER_POOL_ID")
		}
	default:
		return fmt.Errorf("unknown AUTH_PROVIDER %q", c.AuthProvider)
	}
	return nil
}

// DayEndMinutes is the closing time as minutes since midnight. Validate has
// already rejected malformed values.
func (c *Config) DayEndMinutes() int {
	m, err := scheduling.ParseClock(c.DayEnd)
	if err != nil {
		return scheduling.DefaultDayEnd
	}
	return m
}
