package internal

import (
	"bitwise74/socials-api/internal/service"
	"bitwise74/socials-api/internal/store"
	"bitwise74/socials-api/pkg/security"
)

// Deps is handed to every handler
type Deps struct {
	Store    *store.Store
	Sessions *security.SessionIssuer

	Auth       *service.AuthService
	Account    *service.AccountService
	Profile    *service.ProfileService
	Onboarding *service.OnboardingService
	Feed       *service.FeedService
	Graph      *service.GraphService

	// Mail is nil when the notifier dispatches somewhere else, as in tests
	Mail *service.MailQueue

	// SecureCookies marks cookies Secure, set when serving over TLS
	SecureCookies bool
	MaxImageSize  int64
}

// NewDeps builds every service on top of one store and media backend
func NewDeps(st *store.Store, media service.MediaStore, argon *security.ArgonHash, sessions *security.SessionIssuer, n *service.Notifier) *Deps {
	profile := service.NewProfileService(st, media)

	return &Deps{
		Store:      st,
		Sessions:   sessions,
		Auth:       service.NewAuthService(st, argon, sessions, n),
		Account:    service.NewAccountService(st, argon, sessions, n),
		Profile:    profile,
		Onboarding: service.NewOnboardingService(st, profile),
		Feed:       service.NewFeedService(st, media),
		Graph:      service.NewGraphService(st),
	}
}
