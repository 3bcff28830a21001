package push

// Payload is one push message fanned out to a user's devices.
type Payload struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Badge int64             `json:"badge"`
	Data  map[string]string `json:"data,omitempty"`
}

// Provider dispatches mobile push notifications. Delivery guarantees are
// whatever the gateway offers; callers treat Send as best-effort.
type Provider interface {
	// Send pushes the payload to every token. A non-nil error means the
	// dispatch as a whole failed; per-token failures are the gateway's
	// concern.
	Send(tokens []string, payload Payload) error
}
