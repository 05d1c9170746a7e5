// Package session issues signed session cookies and keeps per-session values
// in a TTL cache.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/boddenberg/financeiro-bfa-go/internal/infra/cache"
	"github.com/boddenberg/financeiro-bfa-go/internal/infra/observability"
	"github.com/boddenberg/financeiro-bfa-go/internal/port"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CookieName is the name of the session cookie.
const CookieName = "financeiro_session"

const issuer = "financeiro-bfa"

// ErrInvalidToken is returned for tampered, expired or malformed tokens.
var ErrInvalidToken = errors.New("invalid session token")

// Claims carries the session id in the subject.
type Claims struct {
	jwt.RegisteredClaims
}

// Manager signs and verifies session tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewManager creates a token manager. ttl is both the token lifetime and the
// cookie Max-Age.
func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL returns the session lifetime.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue creates a new session id and its signed token.
func (m *Manager) Issue() (id, token string, err error) {
	id = uuid.NewString()
	now := m.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", "", fmt.Errorf("signing session token: %w", err)
	}
	return id, token, nil
}

// Parse verifies a token and returns its session id.
func (m *Manager) Parse(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", fmt.Errorf("%w: subject is not a session id", ErrInvalidToken)
	}
	return claims.Subject, nil
}

// Store maps session cookies to per-session values of type T.
type Store[T any] struct {
	manager *Manager
	values  port.Cache[T]
	closer  func()
	metrics *observability.Metrics
	logger  *zap.Logger
	create  func() T
}

// NewStore creates a session store. create builds the value for a new session.
func NewStore[T any](manager *Manager, metrics *observability.Metrics, logger *zap.Logger, create func() T) *Store[T] {
	values := cache.New[T](manager.TTL())
	return &Store[T]{
		manager: manager,
		values:  values,
		closer:  values.Close,
		metrics: metrics,
		logger:  logger,
		create:  create,
	}
}

// Resolve returns the value for the request's session. A missing, tampered
// or expired cookie starts a fresh session and sets a new cookie on w.
func (s *Store[T]) Resolve(w http.ResponseWriter, r *http.Request) (T, error) {
	if c, err := r.Cookie(CookieName); err == nil {
		id, err := s.manager.Parse(c.Value)
		if err == nil {
			v, hit := s.values.GetOrCreate(id, s.create)
			s.record(hit)
			return v, nil
		}
		s.logger.Debug("discarding session cookie", zap.Error(err))
	}

	id, token, err := s.manager.Issue()
	if err != nil {
		var zero T
		return zero, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.manager.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	v, hit := s.values.GetOrCreate(id, s.create)
	s.record(hit)
	return v, nil
}

// Close stops the backing cache's sweeper.
func (s *Store[T]) Close() {
	s.closer()
}

func (s *Store[T]) record(hit bool) {
	if hit {
		s.metrics.IncrSessionHit()
		return
	}
	s.metrics.IncrSessionMiss()
}
