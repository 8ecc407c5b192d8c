package service

import (
	"strings"

	"bitwise74/socials-api/internal/model"

	"go.uber.org/zap"
)

// Notifier renders the transactional emails and hands them to a Dispatcher.
// Every method is fire-and-forget.
type Notifier struct {
	d         Dispatcher
	appName   string
	clientURL string
}

func NewNotifier(d Dispatcher, appName, clientURL string) *Notifier {
	return &Notifier{
		d:         d,
		appName:   appName,
		clientURL: strings.TrimRight(clientURL, "/"),
	}
}

func (n *Notifier) send(t mailTemplate, u *model.User, d mailData) {
	d.App = n.appName
	d.Name = u.FirstName

	e, err := t.render(u.Email, d)
	if err != nil {
		zap.L().Error("Failed to render email", zap.Error(err), zap.String("subject", t.subject))
		return
	}

	n.d.Dispatch(e)
}

func (n *Notifier) Verification(u *model.User, code, expires string) {
	n.send(tmplVerification, u, mailData{Code: code, Expires: expires})
}

func (n *Notifier) Welcome(u *model.User) {
	n.send(tmplWelcome, u, mailData{})
}

// ResetLink builds the client URL the reset email points at
func (n *Notifier) ResetLink(token string) string {
	return n.clientURL + "/auth/reset-password/" + token
}

func (n *Notifier) ResetPassword(u *model.User, token, expires string) {
	n.send(tmplReset, u, mailData{Link: n.ResetLink(token), Expires: expires})
}

func (n *Notifier) PasswordChanged(u *model.User) {
	n.send(tmplPasswordChanged, u, mailData{})
}

func (n *Notifier) ProfileUpdated(u *model.User) {
	n.send(tmplProfileUpdated, u, mailData{})
}

func (n *Notifier) EmailChangeCode(u *model.User, code, expires string) {
	n.send(tmplEmailChange, u, mailData{Code: code, Expires: expires})
}
