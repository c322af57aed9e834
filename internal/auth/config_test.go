package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/selab-final/authportal/internal/config"
)

func TestLoadConfig(t *testing.T) {
	assert.Equal(t, DefaultConfig(), LoadConfig(nil))

	app := &config.Config{}
	app.Session.CookieName = "sid"
	app.Session.TTL = 30 * time.Minute

	c := LoadConfig(app)
	assert.Equal(t, "sid", c.CookieName)
	assert.Equal(t, 30*time.Minute, c.SessionTTL)
	assert.Equal(t, 10*time.Minute, c.CleanupInterval)
}

func TestCookies(t *testing.T) {
	c := DefaultConfig()

	assert.Equal(t, "sessionId=0123abcd; Path=/; Max-Age=3600; HttpOnly", c.SessionCookie("0123abcd").String())
	assert.Equal(t, "sessionId=; Path=/; Max-Age=0; HttpOnly", c.ExpiredCookie().String())
}
