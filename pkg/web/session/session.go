package session

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/golang-jwt/jwt/v5"

	"github.com/xcsh-hit/goblog/pkg/common/config"
	"github.com/xcsh-hit/goblog/pkg/core/blog/model"
)

const flashCookie = "blog_flash"

var ErrNoSession = errors.New("no session")

// Manager mints and reads the signed session cookie. The cookie value is an
// HS256 token carrying the user id; the browser holds no other session state.
type Manager struct {
	cfg config.SessionConfig
}

func NewManager(cfg config.SessionConfig) *Manager {
	return &Manager{cfg: cfg}
}

// Issue logs the user in: signs a session token and sets the cookie.
func (m *Manager) Issue(c *app.RequestContext, user model.User) error {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"name":    user.Name,
		"iat":     now.Unix(),
		"exp":     now.Add(m.cfg.ExpireDuration).Unix(),
		"iss":     m.cfg.Issuer,
	})

	signed, err := token.SignedString([]byte(m.cfg.Secret))
	if err != nil {
		return fmt.Errorf("session token signing failed: %w", err)
	}

	c.SetCookie(m.cfg.CookieName, signed, int(m.cfg.ExpireDuration.Seconds()),
		"/", "", protocol.CookieSameSiteLaxMode, false, true)
	return nil
}

// Clear logs the user out by expiring the cookie.
func (m *Manager) Clear(c *app.RequestContext) {
	c.SetCookie(m.cfg.CookieName, "", -1,
		"/", "", protocol.CookieSameSiteLaxMode, false, true)
}

// UserID resolves the user id from the request's session cookie.
// Returns ErrNoSession when the cookie is absent, expired or tampered.
func (m *Manager) UserID(c *app.RequestContext) (int64, error) {
	raw := c.Cookie(m.cfg.CookieName)
	if len(raw) == 0 {
		return 0, ErrNoSession
	}

	token, err := jwt.Parse(string(raw), func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(m.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return 0, ErrNoSession
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrNoSession
	}
	id, ok := claims["user_id"].(float64)
	if !ok {
		return 0, ErrNoSession
	}
	return int64(id), nil
}

// Flash stores a one-time notice shown on the next rendered page.
func Flash(c *app.RequestContext, message string) {
	c.SetCookie(flashCookie, url.QueryEscape(message), 60,
		"/", "", protocol.CookieSameSiteLaxMode, false, true)
}

// PopFlash returns the pending notice, if any, and clears it.
func PopFlash(c *app.RequestContext) string {
	raw := c.Cookie(flashCookie)
	if len(raw) == 0 {
		return ""
	}
	c.SetCookie(flashCookie, "", -1,
		"/", "", protocol.CookieSameSiteLaxMode, false, true)
	message, err := url.QueryUnescape(string(raw))
	if err != nil {
		return ""
	}
	return message
}
