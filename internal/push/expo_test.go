package push

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "ExponentPushToken[xxxxxxxxxxxxxxxxxxxxxx]"

func newExpoServer(t *testing.T, reply string, captured *[]map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		if captured != nil {
			require.NoError(t, json.Unmarshal(body, captured))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestExpoSender_Send(t *testing.T) {
	var sent []map[string]any
	srv := newExpoServer(t, `{"data":[{"status":"ok","id":"ticket-1"}]}`, &sent)

	sender := NewExpoSender(ExpoConfig{Host: srv.URL})
	ticket, err := sender.Send(context.Background(), &Message{
		To:    testToken,
		Title: "Read chapter 3",
		Body:  "You have a task to do by 9:00 AM",
		Data:  map[string]string{"scheduleId": "s1"},
	})
	require.NoError(t, err)

	assert.Equal(t, "ticket-1", ticket.ID)
	assert.Equal(t, "ok", ticket.Status)

	require.Len(t, sent, 1)
	assert.Equal(t, "Read chapter 3", sent[0]["title"])
	assert.Equal(t, "default", sent[0]["sound"])
}

func TestExpoSender_RejectedTicket(t *testing.T) {
	srv := newExpoServer(t, `{"data":[{"status":"error","message":"not registered","details":{"error":"DeviceNotRegistered"}}]}`, nil)

	sender := NewExpoSender(ExpoConfig{Host: srv.URL})
	ticket, err := sender.Send(context.Background(), &Message{To: testToken, Title: "t", Body: "b"})

	assert.Error(t, err)
	require.NotNil(t, ticket)
	assert.Equal(t, "error", ticket.Status)
}

func TestExpoSender_TokenChecks(t *testing.T) {
	sender := NewExpoSender(ExpoConfig{Host: "http://127.0.0.1:1"})

	_, err := sender.Send(context.Background(), &Message{Title: "t"})
	assert.ErrorIs(t, err, ErrNoToken)

	_, err = sender.Send(context.Background(), &Message{To: "not-a-token", Title: "t"})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDisabledSender(t *testing.T) {
	_, err := DisabledSender{}.Send(context.Background(), &Message{To: testToken})
	assert.ErrorIs(t, err, ErrDisabled)
}
