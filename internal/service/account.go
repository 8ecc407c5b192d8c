package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"bitwise74/socials-api/internal/apperr"
	"bitwise74/socials-api/internal/model"
	"bitwise74/socials-api/internal/store"
	"bitwise74/socials-api/pkg/security"
	"bitwise74/socials-api/pkg/validators"
)

const otpTTL = 10 * time.Minute

// AccountService covers the settings page: password, username and email
// changes plus re-sending the verification code
type AccountService struct {
	clock

	store    *store.Store
	argon    *security.ArgonHash
	sessions *security.SessionIssuer
	notify   *Notifier
}

func NewAccountService(s *store.Store, argon *security.ArgonHash, sessions *security.SessionIssuer, n *Notifier) *AccountService {
	return &AccountService{
		store:    s,
		argon:    argon,
		sessions: sessions,
		notify:   n,
	}
}

func (s *AccountService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if current == "" || next == "" {
		return apperr.Validation("Current and new password are required")
	}

	u, err := loadUser(ctx, s.store, userID)
	if err != nil {
		return err
	}

	ok, err := s.argon.VerifyPasswd(current, u.PasswordHash)
	if err != nil {
		return apperr.Internal(err)
	}

	if !ok {
		return apperr.Forbidden("Incorrect password")
	}

	if current == next {
		return apperr.Validation("New password must be different from current password")
	}

	if err := validators.PasswordValidator(next); err != nil {
		return apperr.Validation(err.Error())
	}

	hash, err := s.argon.GenerateFromPassword(next)
	if err != nil {
		return apperr.Internal(err)
	}

	if err := updateUser(ctx, s.store, userID, store.UserUpdate{PasswordHash: &hash}); err != nil {
		return err
	}

	s.notify.PasswordChanged(u)

	return nil
}

// issueCode stores a fresh 10 minute code. Email change codes live in their
// own slot so /auth/verify-email never accepts them.
func (s *AccountService) issueCode(ctx context.Context, userID string, emailChange bool) (*model.User, string, error) {
	u, err := loadUser(ctx, s.store, userID)
	if err != nil {
		return nil, "", err
	}

	code, err := security.VerificationCode()
	if err != nil {
		return nil, "", apperr.Internal(err)
	}

	exp := s.Now().Add(otpTTL)

	slot := &store.TokenUpdate{Token: code, ExpiresAt: &exp}

	upd := store.UserUpdate{Verification: slot}
	if emailChange {
		upd = store.UserUpdate{EmailChange: slot}
	}

	if err := updateUser(ctx, s.store, userID, upd); err != nil {
		return nil, "", err
	}

	return u, code, nil
}

// RequestVerificationCode mails a new email verification code
func (s *AccountService) RequestVerificationCode(ctx context.Context, userID string) error {
	u, code, err := s.issueCode(ctx, userID, false)
	if err != nil {
		return err
	}

	s.notify.Verification(u, code, "10 minutes")

	return nil
}

func (s *AccountService) ChangeUsername(ctx context.Context, userID, username string) (string, error) {
	username, err := claimUsername(ctx, s.store, userID, username, false)
	if err != nil {
		return "", err
	}

	if err := updateUser(ctx, s.store, userID, store.UserUpdate{Username: &username}); err != nil {
		return "", usernameConflict(err)
	}

	u, err := loadUser(ctx, s.store, userID)
	if err != nil {
		return "", err
	}

	s.notify.ProfileUpdated(u)

	return username, nil
}

// RequestEmailChangeCode mails the OTP that starts an email change
func (s *AccountService) RequestEmailChangeCode(ctx context.Context, userID string) error {
	u, code, err := s.issueCode(ctx, userID, true)
	if err != nil {
		return err
	}

	s.notify.EmailChangeCode(u, code, "10 minutes")

	return nil
}

// EmailChangeGrant unlocks ChangeEmail for a few minutes
type EmailChangeGrant struct {
	Token     string
	ExpiresAt time.Time
}

// VerifyEmailChangeCode checks otp against the code held by userID and
// consumes it
func (s *AccountService) VerifyEmailChangeCode(ctx context.Context, userID, otp string) (*EmailChangeGrant, error) {
	u, err := loadUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}

	invalid := apperr.InvalidCode("Invalid Verification Code")

	if otp == "" || u.EmailChangeCode == "" || u.EmailChangeExpiresAt == nil {
		return nil, invalid
	}

	if subtle.ConstantTimeCompare([]byte(otp), []byte(u.EmailChangeCode)) != 1 {
		return nil, invalid
	}

	if !s.Now().Before(*u.EmailChangeExpiresAt) {
		return nil, invalid
	}

	if err := updateUser(ctx, s.store, userID, store.UserUpdate{EmailChange: &store.TokenUpdate{}}); err != nil {
		return nil, err
	}

	token, exp, err := s.sessions.IssueEmailChange(userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &EmailChangeGrant{Token: token, ExpiresAt: exp}, nil
}

// ChangeEmail must only be reached through the email change gate
func (s *AccountService) ChangeEmail(ctx context.Context, userID, email string) (string, error) {
	email = validators.NormalizeEmail(email)
	if err := validators.EmailValidator(email); err != nil {
		return "", apperr.Validation(err.Error())
	}

	err := s.store.Users.Update(ctx, userID, store.UserUpdate{Email: &email})
	switch {
	case err == nil:
	case errors.Is(err, store.ErrDuplicate):
		return "", apperr.Conflict("Email already exists")
	case errors.Is(err, store.ErrNotFound):
		return "", apperr.NotFound("User not found")
	default:
		return "", apperr.Internal(err)
	}

	u, err := loadUser(ctx, s.store, userID)
	if err != nil {
		return "", err
	}

	s.notify.ProfileUpdated(u)

	return email, nil
}
