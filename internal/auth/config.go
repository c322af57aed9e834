package auth

import (
	"net/http"
	"time"

	"github.com/selab-final/authportal/internal/config"
)

// Config holds the session cookie settings
type Config struct {
	CookieName      string
	SessionTTL      time.Duration
	CleanupInterval time.Duration
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		CookieName:      "sessionId",
		SessionTTL:      time.Hour,
		CleanupInterval: 10 * time.Minute,
	}
}

// LoadConfig takes the session section of the application config, keeping
// defaults for anything left unset.
func LoadConfig(cfg *config.Config) *Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}

	if cfg.Session.CookieName != "" {
		c.CookieName = cfg.Session.CookieName
	}
	if cfg.Session.TTL > 0 {
		c.SessionTTL = cfg.Session.TTL
	}
	if cfg.Session.CleanupInterval > 0 {
		c.CleanupInterval = cfg.Session.CleanupInterval
	}
	return c
}

// SessionCookie is the cookie handed out on login.
func (c *Config) SessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     c.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.SessionTTL / time.Second),
		HttpOnly: true,
	}
}

// ExpiredCookie clears the session cookie. net/http renders a negative MaxAge
// as Max-Age=0.
func (c *Config) ExpiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     c.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	}
}
