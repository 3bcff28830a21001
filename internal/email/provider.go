package email

// Provider sends transactional email. Implementations must be safe for
// concurrent use.
type Provider interface {
	// Send delivers a prepared message.
	Send(email *Email) error

	// SendVerification sends the address-verification email.
	SendVerification(to string, token string) error

	// SendPasswordReset sends the password-reset email.
	SendPasswordReset(to string, token string) error

	// Close releases provider resources.
	Close() error
}
