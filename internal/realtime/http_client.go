package realtime

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"visaflow_backend/internal/config"
	"visaflow_backend/internal/models"
)

// HTTPClient talks to the realtime backend's server-side REST API.
type HTTPClient struct {
	baseURL   string
	appID     string
	serverKey string
	client    *http.Client
}

func NewHTTPClient(cfg *config.Config) *HTTPClient {
	return &HTTPClient{
		baseURL:   cfg.Realtime.BaseURL,
		appID:     cfg.Realtime.AppID,
		serverKey: cfg.Realtime.ServerKey,
		client:    &http.Client{Timeout: time.Duration(cfg.Realtime.TimeoutSec) * time.Second},
	}
}

type identityRequest struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

type identityResponse struct {
	UID string `json:"uid"`
}

func (c *HTTPClient) ProvisionIdentity(userID, displayName string) (string, error) {
	var resp identityResponse
	err := c.do(http.MethodPost, "/identities", identityRequest{
		UserID:      userID,
		DisplayName: displayName,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.UID, nil
}

func (c *HTTPClient) CreateInvitation(input CreateInvitationInput) (*models.CallInvitation, error) {
	var inv models.CallInvitation
	if err := c.do(http.MethodPost, "/invitations", input, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

type transitionRequest struct {
	ActorUID string `json:"actor_uid"`
}

func (c *HTTPClient) AcceptInvitation(invitationID, actorUID string) (*models.CallInvitation, error) {
	return c.transition(invitationID, "accept", actorUID)
}

func (c *HTTPClient) RejectInvitation(invitationID, actorUID string) (*models.CallInvitation, error) {
	return c.transition(invitationID, "reject", actorUID)
}

func (c *HTTPClient) CancelInvitation(invitationID, actorUID string) (*models.CallInvitation, error) {
	return c.transition(invitationID, "cancel", actorUID)
}

func (c *HTTPClient) EndInvitation(invitationID, actorUID string) (*models.CallInvitation, error) {
	return c.transition(invitationID, "end", actorUID)
}

func (c *HTTPClient) transition(invitationID, action, actorUID string) (*models.CallInvitation, error) {
	var inv models.CallInvitation
	path := fmt.Sprintf("/invitations/%s/%s", invitationID, action)
	if err := c.do(http.MethodPost, path, transitionRequest{ActorUID: actorUID}, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (c *HTTPClient) do(method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-App-ID", c.appID)
	req.Header.Set("Authorization", "Bearer "+c.serverKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("realtime backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("realtime backend returned %d: %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode realtime response: %w", err)
		}
	}
	return nil
}
