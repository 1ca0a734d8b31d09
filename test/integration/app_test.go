package integration_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	t.Parallel()
	ts := newServer(t)

	res, body := ts.SendRequest(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"status":"ok","store":"memory"}`, body)
	assert.NotEmpty(t, res.Header.Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	t.Parallel()
	ts := newServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.Server.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "trace-123")

	res, _ := ts.Do(t, req)
	assert.Equal(t, "trace-123", res.Header.Get("X-Request-ID"))
}

func TestNotificationTickets_Validation(t *testing.T) {
	t.Parallel()
	ts := newServer(t)

	res, _ := ts.SendRequest(t, http.MethodGet, "/api/v1/notifications/tickets", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/notifications/tickets?userId=nobody", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `[]`, body)
}
