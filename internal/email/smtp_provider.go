package email

import (
	"fmt"

	"visaflow_backend/internal/config"

	"gopkg.in/gomail.v2"
)

// SMTPProvider delivers email over SMTP via gomail.
type SMTPProvider struct {
	cfg       *config.Config
	dialer    *gomail.Dialer
	templates *TemplateManager
}

func NewSMTPProvider(cfg *config.Config) (*SMTPProvider, error) {
	if cfg.Email.SMTPHost == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.Email.SMTPPort <= 0 || cfg.Email.SMTPPort > 65535 {
		return nil, fmt.Errorf("invalid SMTP port: %d", cfg.Email.SMTPPort)
	}

	tm, err := NewTemplateManager()
	if err != nil {
		return nil, err
	}

	dialer := gomail.NewDialer(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUsername,
		cfg.Email.SMTPPassword,
	)

	return &SMTPProvider{
		cfg:       cfg,
		dialer:    dialer,
		templates: tm,
	}, nil
}

func (p *SMTPProvider) Send(email *Email) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.cfg.Email.FromEmail, p.cfg.Email.FromName)
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)

	if email.HTMLBody != "" {
		m.SetBody("text/html", email.HTMLBody)
		if email.Body != "" {
			m.AddAlternative("text/plain", email.Body)
		}
	} else {
		m.SetBody("text/plain", email.Body)
	}

	if err := p.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (p *SMTPProvider) SendVerification(to string, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", p.cfg.Email.BaseURL, token)
	html, err := p.templates.Render("verification", TemplateData{"Link": link})
	if err != nil {
		return err
	}
	return p.Send(&Email{
		To:       []string{to},
		Subject:  "Confirm your email address",
		HTMLBody: html,
	})
}

func (p *SMTPProvider) SendPasswordReset(to string, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", p.cfg.Email.BaseURL, token)
	html, err := p.templates.Render("password_reset", TemplateData{"Link": link})
	if err != nil {
		return err
	}
	return p.Send(&Email{
		To:       []string{to},
		Subject:  "Reset your password",
		HTMLBody: html,
	})
}

func (p *SMTPProvider) Close() error {
	return nil
}
