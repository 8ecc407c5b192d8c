package service

import (
	"testing"
	"time"

	"bitwise74/socials-api/internal/apperr"
	"bitwise74/socials-api/pkg/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignUpAndVerify(t *testing.T) {
	e := newEnv(t)

	sess, err := e.auth.SignUp(e.ctx, SignUpInput{
		FirstName: "Ann",
		LastName:  "Lee",
		Email:     "  Ann@Example.com ",
		Password:  testPassword,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "ann@example.com", sess.User.Email)
	assert.False(t, sess.User.Verified)

	claims, err := e.sessions.Verify(sess.Token, security.KindSession)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, claims.UserID)

	stored := e.user(t, sess.User.ID)
	require.Len(t, stored.VerificationCode, 6)
	assert.NotEqual(t, testPassword, stored.PasswordHash)

	mail := e.mail.last()
	assert.Equal(t, "ann@example.com", mail.To)
	assert.Equal(t, "Verify your email", mail.Subject)
	assert.Contains(t, mail.Text, stored.VerificationCode)
	assert.Contains(t, mail.Text, "24 hours")

	_, err = e.auth.VerifyEmail(e.ctx, "wrong")
	assert.ErrorIs(t, err, apperr.ErrInvalidCode)
	assert.Equal(t, 400, apperr.Status(err))

	code := stored.VerificationCode

	verified, err := e.auth.VerifyEmail(e.ctx, code)
	require.NoError(t, err)
	assert.True(t, verified.User.Verified)
	assert.Equal(t, "Welcome!", e.mail.last().Subject)

	stored = e.user(t, sess.User.ID)
	assert.True(t, stored.Verified)
	assert.Empty(t, stored.VerificationCode)
	assert.Nil(t, stored.VerificationExpiresAt)

	// Codes are single use
	_, err = e.auth.VerifyEmail(e.ctx, code)
	assert.ErrorIs(t, err, apperr.ErrInvalidCode)
}

func TestSignUpValidation(t *testing.T) {
	e := newEnv(t)

	_, err := e.auth.SignUp(e.ctx, SignUpInput{FirstName: "Ann", Email: "ann@example.com", Password: testPassword})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.EqualError(t, err, "All fields are required")

	_, err = e.auth.SignUp(e.ctx, SignUpInput{FirstName: "Ann", LastName: "Lee", Email: "nope", Password: testPassword})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = e.auth.SignUp(e.ctx, SignUpInput{FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Password: "weak"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	e.signUp(t, "Ann")

	_, err = e.auth.SignUp(e.ctx, SignUpInput{FirstName: "Other", LastName: "Lee", Email: "ANN@example.com", Password: testPassword})
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.EqualError(t, err, "Email already exists")
}

func TestVerifyEmailExpired(t *testing.T) {
	e := newEnv(t)

	u := e.signUp(t, "Ann")
	code := e.user(t, u.ID).VerificationCode

	e.advance(25 * time.Hour)

	_, err := e.auth.VerifyEmail(e.ctx, code)
	assert.ErrorIs(t, err, apperr.ErrInvalidCode)
}

func TestLogin(t *testing.T) {
	e := newEnv(t)

	u := e.signUp(t, "Neo")
	_, err := e.onboarding.SetUsername(e.ctx, u.ID, "Neo")
	require.NoError(t, err)

	e.advance(time.Hour)

	sess, err := e.auth.Login(e.ctx, "NEO@example.com", testPassword)
	require.NoError(t, err)
	assert.Equal(t, u.ID, sess.User.ID)

	stored := e.user(t, u.ID)
	require.NotNil(t, stored.LastLoginAt)
	assert.True(t, stored.LastLoginAt.Equal(e.clock()))

	sess, err = e.auth.Login(e.ctx, "neo.gta", testPassword)
	require.NoError(t, err)
	assert.Equal(t, u.ID, sess.User.ID)

	_, err = e.auth.Login(e.ctx, "neo@example.com", "Wr0ng!Pass")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = e.auth.Login(e.ctx, "ghost@example.com", testPassword)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = e.auth.Login(e.ctx, "", "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestPasswordReset(t *testing.T) {
	e := newEnv(t)

	u := e.signUp(t, "Ann")

	err := e.auth.ForgotPassword(e.ctx, "ghost@example.com")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	require.NoError(t, e.auth.ForgotPassword(e.ctx, "ann@example.com"))

	token := e.user(t, u.ID).ResetToken
	require.Len(t, token, 64)

	mail := e.mail.last()
	assert.Equal(t, "Reset Your Password", mail.Subject)
	assert.Contains(t, mail.Text, "https://client.test/auth/reset-password/"+token)

	err = e.auth.ResetPassword(e.ctx, token, "weak")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	err = e.auth.ResetPassword(e.ctx, "bogus", "N3w!Passw0rd")
	assert.ErrorIs(t, err, apperr.ErrInvalidOrExpired)

	require.NoError(t, e.auth.ResetPassword(e.ctx, token, "N3w!Passw0rd"))
	assert.Equal(t, "Password Changed Successfully", e.mail.last().Subject)

	_, err = e.auth.Login(e.ctx, "ann@example.com", "N3w!Passw0rd")
	require.NoError(t, err)

	_, err = e.auth.Login(e.ctx, "ann@example.com", testPassword)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	err = e.auth.ResetPassword(e.ctx, token, "An0ther!Pass")
	assert.ErrorIs(t, err, apperr.ErrInvalidOrExpired)
}

func TestPasswordResetExpires(t *testing.T) {
	e := newEnv(t)

	u := e.signUp(t, "Ann")
	require.NoError(t, e.auth.ForgotPassword(e.ctx, "ann@example.com"))
	token := e.user(t, u.ID).ResetToken

	e.advance(11 * time.Minute)

	err := e.auth.ResetPassword(e.ctx, token, "N3w!Passw0rd")
	assert.ErrorIs(t, err, apperr.ErrInvalidOrExpired)
}

func TestCheckAuth(t *testing.T) {
	e := newEnv(t)

	u := e.signUp(t, "Ann")

	p, err := e.auth.CheckAuth(e.ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", p.Email)
	assert.True(t, p.Level.Amateur)
	assert.False(t, p.IsVerified)

	_, err = e.auth.CheckAuth(e.ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
