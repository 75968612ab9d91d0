package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Wyydra/callbridge/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerCallPostsHandshakePayload(t *testing.T) {
	var got callRequest
	var gotAuth, gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(callResponse{Success: true})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token", "10001", time.Second)
	err := c.AnswerCall(context.Background(), "wacid.abc", domain.ActionPreAccept, "v=0\r\n", "15550002222")
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "/10001/calls", gotPath)
	assert.Equal(t, "whatsapp", got.MessagingProduct)
	assert.Equal(t, "pre_accept", got.Action)
	assert.Equal(t, "wacid.abc", got.CallID)
	assert.Equal(t, "15550002222", got.To)
	require.NotNil(t, got.Session)
	assert.Equal(t, "answer", got.Session.SDPType)
	assert.Equal(t, "v=0\r\n", got.Session.SDP)
}

func TestAnswerCallUnsuccessfulResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(callResponse{Success: false})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token", "10001", time.Second)
	err := c.AnswerCall(context.Background(), "wacid.abc", domain.ActionAccept, "v=0\r\n", "15550002222")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accept")
}

func TestAnswerCallHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"bad token"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad-token", "10001", time.Second)
	err := c.AnswerCall(context.Background(), "wacid.abc", domain.ActionPreAccept, "v=0\r\n", "15550002222")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestTerminateCallPostsTerminateAction(t *testing.T) {
	var got callRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(callResponse{Success: true})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token", "10001", time.Second)
	require.NoError(t, c.TerminateCall(context.Background(), "wacid.abc"))

	assert.Equal(t, "terminate", got.Action)
	assert.Equal(t, "wacid.abc", got.CallID)
	assert.Nil(t, got.Session)
}

func TestAnswerCallHonorsContextCancellation(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	c := NewClient(srv.URL, "secret-token", "10001", time.Second)
	err := c.AnswerCall(ctx, "wacid.abc", domain.ActionPreAccept, "v=0\r\n", "15550002222")
	require.Error(t, err)
}
