package push

import (
	"visaflow_backend/internal/logger"
)

// LogProvider is the development fallback when no gateway is configured.
type LogProvider struct{}

func NewLogProvider() *LogProvider {
	return &LogProvider{}
}

func (p *LogProvider) Send(tokens []string, payload Payload) error {
	logger.Info("push (log provider)",
		"tokens", len(tokens),
		"title", payload.Title,
		"badge", payload.Badge,
	)
	return nil
}
