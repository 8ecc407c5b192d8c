package security

import (
	"regexp"
	"testing"
	"time"

	"bitwise74/socials-api/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgonRoundTrip(t *testing.T) {
	a := NewArgon()

	hash, err := a.GenerateFromPassword("Str0ng!Pass")
	require.NoError(t, err)
	assert.NotContains(t, hash, "Str0ng!Pass")
	assert.Regexp(t, `^\$argon2id\$v=19\$m=65536,t=3,p=2\$`, hash)

	ok, err := a.VerifyPasswd("Str0ng!Pass", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.VerifyPasswd("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArgonSaltsDiffer(t *testing.T) {
	a := NewArgon()

	h1, err := a.GenerateFromPassword("same")
	require.NoError(t, err)
	h2, err := a.GenerateFromPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestArgonRejectsGarbage(t *testing.T) {
	_, err := NewArgon().VerifyPasswd("x", "$2a$10$notargon")
	assert.ErrorIs(t, err, ErrInvalidHash)
}

func TestVerificationCode(t *testing.T) {
	re := regexp.MustCompile(`^\d{6}$`)

	for range 50 {
		code, err := VerificationCode()
		require.NoError(t, err)
		assert.Regexp(t, re, code)
	}
}

func TestResetToken(t *testing.T) {
	tok, err := ResetToken()
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-f]{64}$`, tok)
}

func TestSessionIssueVerify(t *testing.T) {
	s := NewSessionIssuer("secret")

	tok, exp, err := s.Issue("user-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(SessionTTL), exp, time.Minute)

	claims, err := s.Verify(tok, KindSession)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.False(t, claims.Verified)
}

func TestSessionVerifyErrors(t *testing.T) {
	now := time.Now()
	s := NewSessionIssuer("secret").WithClock(func() time.Time { return now })

	_, err := s.Verify("", KindSession)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = s.Verify("not.a.jwt", KindSession)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)

	other, _, err := NewSessionIssuer("other").Issue("user-1")
	require.NoError(t, err)
	_, err = s.Verify(other, KindSession)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)

	emailTok, _, err := s.IssueEmailChange("user-1")
	require.NoError(t, err)
	_, err = s.Verify(emailTok, KindSession)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)

	claims, err := s.Verify(emailTok, KindEmailChange)
	require.NoError(t, err)
	assert.True(t, claims.Verified)

	now = now.Add(EmailChangeTTL + time.Second)
	_, err = s.Verify(emailTok, KindEmailChange)
	assert.ErrorIs(t, err, apperr.ErrExpired)
	assert.Equal(t, 401, apperr.Status(err))
}
