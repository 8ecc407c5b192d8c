package service

import (
	"bytes"
	"html/template"
	textTemplate "text/template"
)

const layoutHTML = `{{define "layout"}}<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}} - {{.App}}</title>
<style>
body{font-family:Arial,sans-serif;background-color:#f4f4f4;margin:0;padding:0}
.container{background-color:#fff;margin:40px auto;padding:20px;max-width:600px;border-radius:10px}
.header{background-color:#007bff;padding:20px;text-align:center;border-radius:10px 10px 0 0}
.header h1{color:#fff;margin:0;font-size:24px}
.content{padding:20px;text-align:center}
.code{display:inline-block;padding:10px 20px;margin-top:20px;background-color:#007bff;color:#fff;border-radius:5px;font-size:24px}
.button{display:inline-block;padding:10px 20px;background-color:#007bff;color:#fff;text-decoration:none;border-radius:5px}
.footer{padding:20px;text-align:center;font-size:14px;color:#888}
</style>
</head>
<body>
<div class="container">
<div class="header"><h1>{{.App}}</h1></div>
<div class="content">
<h2>{{.Title}}</h2>
<p>Hi {{.Name}},</p>
{{template "body" .}}
</div>
<div class="footer"><p>If you did not request this, please ignore this email.</p></div>
</div>
</body>
</html>{{end}}`

type mailTemplate struct {
	subject string
	html    *template.Template
	text    *textTemplate.Template
}

func newMailTemplate(subject, body, text string) mailTemplate {
	h := template.Must(template.New("mail").Parse(layoutHTML))
	template.Must(h.New("body").Parse(body))

	return mailTemplate{
		subject: subject,
		html:    h,
		text:    textTemplate.Must(textTemplate.New("text").Parse(text)),
	}
}

var (
	tmplVerification = newMailTemplate(
		"Verify your email",
		`<p>Thank you for signing up! Use the code below to verify your email address. It expires in {{.Expires}}.</p>
<div class="code">{{.Code}}</div>`,
		"Hi {{.Name}}, your verification code is {{.Code}}. It expires in {{.Expires}}.",
	)
	tmplWelcome = newMailTemplate(
		"Welcome!",
		`<p>Your email is verified. We're excited to have you onboard.</p>`,
		"Hi {{.Name}}, welcome to {{.App}}! We're excited to have you onboard.",
	)
	tmplReset = newMailTemplate(
		"Reset Your Password",
		`<p>We received a request to reset your password. The link expires in {{.Expires}}.</p>
<p><a class="button" href="{{.Link}}">Reset Password</a></p>`,
		"Hi {{.Name}}, reset your password here: {{.Link}} (expires in {{.Expires}})",
	)
	tmplPasswordChanged = newMailTemplate(
		"Password Changed Successfully",
		`<p>Your password has been changed successfully. If this wasn't you, reset your password immediately.</p>`,
		"Hi {{.Name}}, your password has been changed successfully.",
	)
	tmplProfileUpdated = newMailTemplate(
		"Profile Updated",
		`<p>Your profile has been updated.</p>`,
		"Hi {{.Name}}, your profile has been updated.",
	)
	tmplEmailChange = newMailTemplate(
		"Confirm your email change",
		`<p>Use the code below to confirm that you want to change your email address. It expires in {{.Expires}}.</p>
<div class="code">{{.Code}}</div>`,
		"Hi {{.Name}}, your email change code is {{.Code}}. It expires in {{.Expires}}.",
	)
)

type mailData struct {
	App     string
	Title   string
	Name    string
	Code    string
	Link    string
	Expires string
}

func (t mailTemplate) render(to string, d mailData) (Email, error) {
	d.Title = t.subject

	var h, txt bytes.Buffer

	if err := t.html.ExecuteTemplate(&h, "layout", d); err != nil {
		return Email{}, err
	}

	if err := t.text.Execute(&txt, d); err != nil {
		return Email{}, err
	}

	return Email{
		To:      to,
		Subject: t.subject,
		Text:    txt.String(),
		HTML:    h.String(),
	}, nil
}
