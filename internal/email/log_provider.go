package email

import (
	"visaflow_backend/internal/logger"
)

// LogProvider is the development fallback when no SMTP host is
// configured. It logs instead of sending.
type LogProvider struct{}

func NewLogProvider() *LogProvider {
	return &LogProvider{}
}

func (p *LogProvider) Send(email *Email) error {
	logger.Info("email (log provider)", "to", email.To, "subject", email.Subject)
	return nil
}

func (p *LogProvider) SendVerification(to string, token string) error {
	logger.Info("verification email (log provider)", "to", to, "token", token)
	return nil
}

func (p *LogProvider) SendPasswordReset(to string, token string) error {
	logger.Info("password reset email (log provider)", "to", to, "token", token)
	return nil
}

func (p *LogProvider) Close() error {
	return nil
}
