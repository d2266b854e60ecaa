package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr      string
	DBDSN         string
	JWTIssuer     string
	JWTSecret     string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	InternalToken string
	WSOrigin      string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var c Config
	var missing []string
	c.HTTPAddr = os.Getenv("HTTP_ADDR")
	if c.HTTPAddr == "" {
		missing = append(missing, "HTTP_ADDR")
	}
	c.DBDSN = os.Getenv("DB_DSN")
	if c.DBDSN == "" {
		missing = append(missing, "DB_DSN")
	}
	c.JWTIssuer = os.Getenv("JWT_ISSUER")
	if c.JWTIssuer == "" {
		missing = append(missing, "JWT_ISSUER")
	}
	c.JWTSecret = os.Getenv("JWT_SECRET")
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	c.InternalToken = os.Getenv("INTERNAL_API_TOKEN")
	if c.InternalToken == "" {
		missing = append(missing, "INTERNAL_API_TOKEN")
	}
	accessTTL := os.Getenv("JWT_ACCESS_TTL")
	if accessTTL == "" {
		c.AccessTTL = 24 * time.Hour
	} else {
		d, err := time.ParseDuration(accessTTL)
		if err != nil {
			return c, errors.New("invalid JWT_ACCESS_TTL: " + err.Error())
		}
		c.AccessTTL = d
	}
	refreshTTL := os.Getenv("JWT_REFRESH_TTL")
	if refreshTTL == "" {
		c.RefreshTTL = 30 * 24 * time.Hour
	} else {
		d, err := time.ParseDuration(refreshTTL)
		if err != nil {
			return c, errors.New("invalid JWT_REFRESH_TTL: " + err.Error())
		}
		c.RefreshTTL = d
	}
	if c.RefreshTTL <= c.AccessTTL {
		return c, errors.New("JWT_REFRESH_TTL must be longer than JWT_ACCESS_TTL")
	}
	c.WSOrigin = strings.TrimSpace(os.Getenv("WS_ORIGIN"))
	if c.WSOrigin == "" {
		c.WSOrigin = "*"
	}
	if len(missing) > 0 {
		return c, errors.New("missing required env: " + strings.Join(missing, ","))
	}
	return c, nil
}
