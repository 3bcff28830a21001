package push

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// GatewayProvider posts payloads to an HTTP push gateway (FCM-style
// server API). The gateway handles per-device delivery.
type GatewayProvider struct {
	url    string
	apiKey string
	client *http.Client
}

func NewGatewayProvider(url, apiKey string) *GatewayProvider {
	return &GatewayProvider{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type gatewayRequest struct {
	Tokens       []string          `json:"registration_ids"`
	Notification gatewayMessage    `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type gatewayMessage struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Badge int64  `json:"badge"`
}

func (p *GatewayProvider) Send(tokens []string, payload Payload) error {
	if len(tokens) == 0 {
		return nil
	}

	reqBody := gatewayRequest{
		Tokens: tokens,
		Notification: gatewayMessage{
			Title: payload.Title,
			Body:  payload.Body,
			Badge: payload.Badge,
		},
		Data: payload.Data,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal push payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("push gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("push gateway returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
