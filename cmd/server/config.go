package main

import (
	"os"
	"strconv"
	"strings"
)

// AppConfig is the environment backed configuration for the server and
// the auth stack.
type AppConfig struct {
	Addr            string
	DSN             string
	SigningKey      string
	SigningMethod   string
	ContextKey      string
	TokenExpiration int
	TokenLookup     string
	AuthScheme      string
	Issuer          string
	Audience        []string
}

func LoadConfig() *AppConfig {
	cfg := &AppConfig{
		Addr:            envString("ADDR", ":8080"),
		DSN:             envString("DATABASE_DSN", "file:sharesocial.db?cache=shared"),
		SigningKey:      envString("AUTH_SIGNING_KEY", ""),
		SigningMethod:   envString("AUTH_SIGNING_METHOD", "HS256"),
		ContextKey:      envString("AUTH_CONTEXT_KEY", "user"),
		TokenExpiration: envInt("AUTH_TOKEN_EXPIRATION", 168),
		TokenLookup:     envString("AUTH_TOKEN_LOOKUP", "header:Authorization"),
		AuthScheme:      envString("AUTH_SCHEME", "Bearer"),
		Issuer:          envString("AUTH_ISSUER", "sharesocial"),
	}

	if aud := envString("AUTH_AUDIENCE", "sharesocial"); aud != "" {
		for _, a := range strings.Split(aud, ",") {
			if a = strings.TrimSpace(a); a != "" {
				cfg.Audience = append(cfg.Audience, a)
			}
		}
	}

	return cfg
}

func (c *AppConfig) GetSigningKey() string { return c.SigningKey }

func (c *AppConfig) GetSigningMethod() string { return c.SigningMethod }

func (c *AppConfig) GetContextKey() string { return c.ContextKey }

func (c *AppConfig) GetTokenExpiration() int { return c.TokenExpiration }

func (c *AppConfig) GetTokenLookup() string { return c.TokenLookup }

func (c *AppConfig) GetAuthScheme() string { return c.AuthScheme }

func (c *AppConfig) GetIssuer() string { return c.Issuer }

func (c *AppConfig) GetAudience() []string { return c.Audience }

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
