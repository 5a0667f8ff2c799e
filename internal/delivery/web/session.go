package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"job-tracker-backend/pkg/supabase"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	SessionCookieName = "jt_session"
	SessionTTL        = 24 * time.Hour
)

var ErrNoSession = errors.New("no valid session")

// Session is the signed-in user carried in the session cookie.
type Session struct {
	UserID string
	Email  string
	Name   string
}

// DisplayName falls back to the email when no name was given at sign-up.
func (s Session) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Email
}

type sessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// SessionManager signs and verifies the stateless session cookie.
type SessionManager struct {
	secret []byte
	secure bool
	now    func() time.Time
}

func NewSessionManager(secret string, secure bool) *SessionManager {
	return &SessionManager{secret: []byte(secret), secure: secure, now: time.Now}
}

func (m *SessionManager) Sign(user *supabase.User) (string, error) {
	now := m.now()
	claims := sessionClaims{
		Email: user.Email,
		Name:  user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *SessionManager) Verify(token string) (*Session, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !parsed.Valid {
		return nil, ErrNoSession
	}
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, ErrNoSession
	}
	return &Session{UserID: claims.Subject, Email: claims.Email, Name: claims.Name}, nil
}

// Start writes a fresh session cookie for user.
func (m *SessionManager) Start(c *gin.Context, user *supabase.User) error {
	token, err := m.Sign(user)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, int(SessionTTL.Seconds()), "/", "", m.secure, true)
	return nil
}

// Current returns the session from the request cookie, if it is still valid.
func (m *SessionManager) Current(c *gin.Context) (*Session, error) {
	token, err := c.Cookie(SessionCookieName)
	if err != nil || token == "" {
		return nil, ErrNoSession
	}
	return m.Verify(token)
}

func (m *SessionManager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", m.secure, true)
}
