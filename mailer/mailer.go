// Package mailer delivers transactional email through SendGrid.
package mailer

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/mindhaven-app/mindhaven-api/config"
	templates "github.com/mindhaven-app/mindhaven-api/templates/html"
)

// Mailer sends one-time-code emails. The account flows depend on this
// interface so tests can capture deliveries.
type Mailer interface {
	SendCode(toEmail, subject, intro, code string) error
}

// SendGrid is the production Mailer.
type SendGrid struct {
	apiKey string
	from   *mail.Email
}

// New builds a SendGrid mailer from config.
func New(conf *config.Config) *SendGrid {
	from := conf.EmailFrom
	if from == "" {
		from = "no-reply@mindhaven.example"
	}
	return &SendGrid{
		apiKey: conf.SendGridAPIKey,
		from:   mail.NewEmail("MindHaven", from),
	}
}

// SendCode delivers a one-time code email and reports delivery failure.
func (s *SendGrid) SendCode(toEmail, subject, intro, code string) error {
	if s.apiKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY not set, cannot send email")
	}

	to := mail.NewEmail("", toEmail)
	plainTextContent := fmt.Sprintf("%s %s. This code will expire in 10 minutes.", intro, code)
	htmlContent := templates.RenderCode(code, intro)
	message := mail.NewSingleEmail(s.from, subject, to, plainTextContent, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return err
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		zap.S().Infow("email sent", "to", toEmail, "statusCode", response.StatusCode)
		return nil
	}
	zap.S().Warnw("email sent with non-2xx status", "to", toEmail, "statusCode", response.StatusCode, "body", response.Body)
	return fmt.Errorf("email delivery failed with status %d", response.StatusCode)
}
