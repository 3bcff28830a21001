package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"visaflow_backend/internal/config"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUpgradeServer(t *testing.T) (*httptest.Server, *Manager) {
	t.Helper()
	m := NewManager()
	go m.Run()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(m, w, r, "user-1")
	}))
	t.Cleanup(srv.Close)
	return srv, m
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dialWithOrigin(srv *httptest.Server, origin string) (*websocket.Conn, *http.Response, error) {
	var header http.Header
	if origin != "" {
		header = http.Header{"Origin": {origin}}
	}
	return websocket.DefaultDialer.Dial(wsURL(srv), header)
}

func TestUpgradeAllowsNonBrowserClients(t *testing.T) {
	config.AppConfig = &config.Config{}
	srv, m := newUpgradeServer(t)

	conn, _, err := dialWithOrigin(srv, "")
	require.NoError(t, err)
	defer conn.Close()
	waitForUsers(t, m, 1)
}

func TestUpgradeEnforcesAllowedOrigins(t *testing.T) {
	config.AppConfig = &config.Config{}
	config.AppConfig.Server.AllowedOrigins = []string{"https://app.visaflow.example"}
	srv, m := newUpgradeServer(t)

	_, resp, err := dialWithOrigin(srv, "https://evil.example.com")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	conn, _, err := dialWithOrigin(srv, "https://app.visaflow.example")
	require.NoError(t, err)
	defer conn.Close()
	waitForUsers(t, m, 1)
}

func TestUpgradeRejectsBrowsersWhenNoOriginsConfigured(t *testing.T) {
	config.AppConfig = &config.Config{}
	srv, _ := newUpgradeServer(t)

	_, resp, err := dialWithOrigin(srv, "https://app.visaflow.example")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}
