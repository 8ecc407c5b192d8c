package service

import (
	"testing"
	"time"

	"bitwise74/socials-api/internal/apperr"
	"bitwise74/socials-api/pkg/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangePassword(t *testing.T) {
	e := newEnv(t)
	u := e.signUp(t, "Ann")

	err := e.account.ChangePassword(e.ctx, u.ID, "Wr0ng!Pass", "N3w!Passw0rd")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.EqualError(t, err, "Incorrect password")

	err = e.account.ChangePassword(e.ctx, u.ID, testPassword, testPassword)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	err = e.account.ChangePassword(e.ctx, u.ID, testPassword, "weak")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	require.NoError(t, e.account.ChangePassword(e.ctx, u.ID, testPassword, "N3w!Passw0rd"))
	assert.Equal(t, "Password Changed Successfully", e.mail.last().Subject)

	_, err = e.auth.Login(e.ctx, "ann@example.com", "N3w!Passw0rd")
	assert.NoError(t, err)
}

func TestRequestVerificationCode(t *testing.T) {
	e := newEnv(t)
	u := e.signUp(t, "Ann")
	first := e.user(t, u.ID).VerificationCode

	require.NoError(t, e.account.RequestVerificationCode(e.ctx, u.ID))

	stored := e.user(t, u.ID)
	require.NotNil(t, stored.VerificationExpiresAt)
	assert.True(t, stored.VerificationExpiresAt.Equal(e.clock().Add(10*time.Minute)))
	assert.Contains(t, e.mail.last().Text, stored.VerificationCode)
	assert.Contains(t, e.mail.last().Text, "10 minutes")

	if first != stored.VerificationCode {
		_, err := e.auth.VerifyEmail(e.ctx, first)
		assert.ErrorIs(t, err, apperr.ErrInvalidCode)
	}

	_, err := e.auth.VerifyEmail(e.ctx, stored.VerificationCode)
	assert.NoError(t, err)
}

func TestChangeUsername(t *testing.T) {
	e := newEnv(t)
	ann := e.signUp(t, "Ann")
	bob := e.signUp(t, "Bob")

	name, err := e.account.ChangeUsername(e.ctx, ann.ID, " Trinity ")
	require.NoError(t, err)
	assert.Equal(t, "trinity", name)
	assert.Equal(t, "Profile Updated", e.mail.last().Subject)

	// Re-claiming your own name is fine
	_, err = e.account.ChangeUsername(e.ctx, ann.ID, "trinity")
	assert.NoError(t, err)

	_, err = e.account.ChangeUsername(e.ctx, bob.ID, "TRINITY")
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.EqualError(t, err, "Username not available")

	_, err = e.account.ChangeUsername(e.ctx, bob.ID, "no spaces")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestEmailChangeFlow(t *testing.T) {
	e := newEnv(t)
	ann := e.signUp(t, "Ann")
	bob := e.signUp(t, "Bob")
	signupCode := e.user(t, ann.ID).VerificationCode

	require.NoError(t, e.account.RequestEmailChangeCode(e.ctx, ann.ID))
	assert.Equal(t, "Confirm your email change", e.mail.last().Subject)

	stored := e.user(t, ann.ID)
	code := stored.EmailChangeCode
	require.NotEmpty(t, code)
	assert.Equal(t, signupCode, stored.VerificationCode)

	// The two codes are not interchangeable
	if code != signupCode {
		_, err := e.auth.VerifyEmail(e.ctx, code)
		assert.ErrorIs(t, err, apperr.ErrInvalidCode)
		assert.False(t, e.user(t, ann.ID).Verified)

		_, err = e.account.VerifyEmailChangeCode(e.ctx, ann.ID, signupCode)
		assert.ErrorIs(t, err, apperr.ErrInvalidCode)
	}

	// Another user can't spend Ann's code
	_, err := e.account.VerifyEmailChangeCode(e.ctx, bob.ID, code)
	assert.ErrorIs(t, err, apperr.ErrInvalidCode)

	_, err = e.account.VerifyEmailChangeCode(e.ctx, ann.ID, "nope")
	assert.ErrorIs(t, err, apperr.ErrInvalidCode)

	grant, err := e.account.VerifyEmailChangeCode(e.ctx, ann.ID, code)
	require.NoError(t, err)
	assert.True(t, grant.ExpiresAt.Equal(e.clock().Add(security.EmailChangeTTL)))

	claims, err := e.sessions.Verify(grant.Token, security.KindEmailChange)
	require.NoError(t, err)
	assert.Equal(t, ann.ID, claims.UserID)
	assert.True(t, claims.Verified)

	_, err = e.account.VerifyEmailChangeCode(e.ctx, ann.ID, code)
	assert.ErrorIs(t, err, apperr.ErrInvalidCode)
	assert.Empty(t, e.user(t, ann.ID).EmailChangeCode)
	assert.Equal(t, signupCode, e.user(t, ann.ID).VerificationCode)

	_, err = e.account.ChangeEmail(e.ctx, ann.ID, "bob@example.com")
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = e.account.ChangeEmail(e.ctx, ann.ID, "not-an-email")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	email, err := e.account.ChangeEmail(e.ctx, ann.ID, "Ann.New@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "ann.new@example.com", email)
	assert.Equal(t, "ann.new@example.com", e.user(t, ann.ID).Email)
}

func TestEmailChangeCodeExpires(t *testing.T) {
	e := newEnv(t)
	ann := e.signUp(t, "Ann")

	require.NoError(t, e.account.RequestEmailChangeCode(e.ctx, ann.ID))
	code := e.user(t, ann.ID).EmailChangeCode

	e.advance(10 * time.Minute)

	_, err := e.account.VerifyEmailChangeCode(e.ctx, ann.ID, code)
	assert.ErrorIs(t, err, apperr.ErrInvalidCode)
}
