package security

import (
	"errors"
	"fmt"
	"time"

	"bitwise74/socials-api/internal/apperr"

	"github.com/golang-jwt/jwt/v5"
)

type TokenKind string

const (
	KindSession     TokenKind = "session"
	KindEmailChange TokenKind = "email_change"
)

const (
	SessionTTL     = 7 * 24 * time.Hour
	EmailChangeTTL = 3 * time.Minute
)

type Claims struct {
	UserID   string    `json:"user_id"`
	Kind     TokenKind `json:"kind"`
	Verified bool      `json:"verified,omitempty"`
	jwt.RegisteredClaims
}

// SessionIssuer signs and checks HS256 session tokens. Tokens are not
// persisted anywhere, so they stay valid until they expire.
type SessionIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewSessionIssuer(secret string) *SessionIssuer {
	return &SessionIssuer{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// WithClock replaces the time source, used by tests
func (s *SessionIssuer) WithClock(now func() time.Time) *SessionIssuer {
	s.now = now
	return s
}

// Issue returns a 7 day session token for userID
func (s *SessionIssuer) Issue(userID string) (string, time.Time, error) {
	return s.sign(userID, KindSession, false, SessionTTL)
}

// IssueEmailChange returns the short lived token that unlocks the email
// change endpoint after the OTP was confirmed
func (s *SessionIssuer) IssueEmailChange(userID string) (string, time.Time, error) {
	return s.sign(userID, KindEmailChange, true, EmailChangeTTL)
}

func (s *SessionIssuer) sign(userID string, kind TokenKind, verified bool, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(ttl)

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID:   userID,
		Kind:     kind,
		Verified: verified,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token, %w", err)
	}

	return signed, exp, nil
}

// Verify parses token and checks that it is of the wanted kind
func (s *SessionIssuer) Verify(token string, kind TokenKind) (*Claims, error) {
	if token == "" {
		return nil, apperr.Unauthorized("Unauthorized - no token provided")
	}

	var claims Claims

	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return s.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Wrap(apperr.KindExpired, "Token expired, please log in again", err)
		}

		return nil, apperr.Wrap(apperr.KindInvalidToken, "Unauthorized - invalid token", err)
	}

	if claims.Kind != kind || claims.UserID == "" {
		return nil, apperr.New(apperr.KindInvalidToken, "Unauthorized - invalid token")
	}

	return &claims, nil
}
