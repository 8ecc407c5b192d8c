package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"bitwise74/socials-api/internal/apperr"
	"bitwise74/socials-api/internal/model"
	"bitwise74/socials-api/internal/store"
	"bitwise74/socials-api/pkg/security"
	"bitwise74/socials-api/pkg/util"
	"bitwise74/socials-api/pkg/validators"
)

const (
	verificationTTL = 24 * time.Hour
	resetTTL        = 10 * time.Minute
)

// AuthService drives the signup, verification, login and password reset
// lifecycle
type AuthService struct {
	clock

	store    *store.Store
	argon    *security.ArgonHash
	sessions *security.SessionIssuer
	notify   *Notifier
}

func NewAuthService(s *store.Store, argon *security.ArgonHash, sessions *security.SessionIssuer, n *Notifier) *AuthService {
	return &AuthService{
		store:    s,
		argon:    argon,
		sessions: sessions,
		notify:   n,
	}
}

// Session is a freshly issued session token for User
type Session struct {
	User      *model.User
	Token     string
	ExpiresAt time.Time
}

type SignUpInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*Session, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = validators.NormalizeEmail(in.Email)

	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Password == "" {
		return nil, apperr.Validation("All fields are required")
	}

	if err := validators.EmailValidator(in.Email); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	if err := validators.PasswordValidator(in.Password); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	hash, err := s.argon.GenerateFromPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	id, err := util.NewID()
	if err != nil {
		return nil, apperr.Internal(err)
	}

	code, err := security.VerificationCode()
	if err != nil {
		return nil, apperr.Internal(err)
	}

	now := s.Now()
	codeExp := now.Add(verificationTTL)

	u := &model.User{
		ID:                    id,
		FirstName:             in.FirstName,
		LastName:              in.LastName,
		Email:                 in.Email,
		PasswordHash:          hash,
		VerificationCode:      code,
		VerificationExpiresAt: &codeExp,
		Level:                 model.LevelAmateur,
		LastLoginAt:           &now,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	// The unique index decides, two racing signups can't both pass
	if err := s.store.Users.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict("Email already exists")
		}

		return nil, apperr.Internal(err)
	}

	sess, err := s.issue(u)
	if err != nil {
		return nil, err
	}

	s.notify.Verification(u, code, "24 hours")

	return sess, nil
}

func (s *AuthService) issue(u *model.User) (*Session, error) {
	token, exp, err := s.sessions.Issue(u.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &Session{User: u, Token: token, ExpiresAt: exp}, nil
}

// VerifyEmail consumes a verification code
func (s *AuthService) VerifyEmail(ctx context.Context, code string) (*Session, error) {
	code = strings.TrimSpace(code)

	u, err := s.store.Users.ByVerificationCode(ctx, code, s.Now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.InvalidCode("Invalid Verification Code")
		}

		return nil, apperr.Internal(err)
	}

	verified := true
	err = s.store.Users.Update(ctx, u.ID, store.UserUpdate{
		Verified:     &verified,
		Verification: &store.TokenUpdate{},
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}

	u.Verified = true
	u.VerificationCode = ""
	u.VerificationExpiresAt = nil

	sess, err := s.issue(u)
	if err != nil {
		return nil, err
	}

	s.notify.Welcome(u)

	return sess, nil
}

// Login accepts either the email or the username as identifier
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*Session, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))

	if identifier == "" || password == "" {
		return nil, apperr.Validation("All fields are required")
	}

	u, err := s.store.Users.ByEmailOrUsername(ctx, identifier)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}

		return nil, apperr.Internal(err)
	}

	ok, err := s.argon.VerifyPasswd(password, u.PasswordHash)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if !ok {
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	now := s.Now()
	if err := s.store.Users.Update(ctx, u.ID, store.UserUpdate{LastLoginAt: &now}); err != nil {
		return nil, apperr.Internal(err)
	}
	u.LastLoginAt = &now

	return s.issue(u)
}

// ForgotPassword mails a reset link, replacing any outstanding reset token
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = validators.NormalizeEmail(email)
	if email == "" {
		return apperr.Validation("Email is required")
	}

	u, err := s.store.Users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("User not found")
		}

		return apperr.Internal(err)
	}

	token, err := security.ResetToken()
	if err != nil {
		return apperr.Internal(err)
	}

	exp := s.Now().Add(resetTTL)

	err = s.store.Users.Update(ctx, u.ID, store.UserUpdate{
		Reset: &store.TokenUpdate{Token: token, ExpiresAt: &exp},
	})
	if err != nil {
		return apperr.Internal(err)
	}

	s.notify.ResetPassword(u, token, "10 minutes")

	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	if err := validators.PasswordValidator(password); err != nil {
		return apperr.Validation(err.Error())
	}

	u, err := s.store.Users.ByResetToken(ctx, token, s.Now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.InvalidOrExpired("Invalid or expired reset token")
		}

		return apperr.Internal(err)
	}

	hash, err := s.argon.GenerateFromPassword(password)
	if err != nil {
		return apperr.Internal(err)
	}

	err = s.store.Users.Update(ctx, u.ID, store.UserUpdate{
		PasswordHash: &hash,
		Reset:        &store.TokenUpdate{},
	})
	if err != nil {
		return apperr.Internal(err)
	}

	s.notify.PasswordChanged(u)

	return nil
}

// CheckAuth returns the profile of the authenticated user
func (s *AuthService) CheckAuth(ctx context.Context, userID string) (*ProfileView, error) {
	u, err := loadUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}

	return NewProfileView(u), nil
}

// loadUser fetches userID translating store errors
func loadUser(ctx context.Context, s *store.Store, userID string) (*model.User, error) {
	u, err := s.Users.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}

		return nil, apperr.Internal(err)
	}

	return u, nil
}
