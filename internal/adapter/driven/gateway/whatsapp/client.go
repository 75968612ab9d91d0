package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Wyydra/callbridge/internal/core/domain"
	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL   = "https://graph.facebook.com/v23.0"
	messagingProduct = "whatsapp"
	actionTerminate  = "terminate"
)

// Client talks to the WhatsApp Cloud API calls endpoint. It implements
// port.SignalingGateway.
type Client struct {
	baseURL       string
	token         string
	phoneNumberID string
	http          *http.Client
}

func NewClient(baseURL, token, phoneNumberID string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		token:         token,
		phoneNumberID: phoneNumberID,
		http:          &http.Client{Timeout: timeout},
	}
}

type callSession struct {
	SDPType string `json:"sdp_type"`
	SDP     string `json:"sdp"`
}

type callRequest struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to,omitempty"`
	Action           string       `json:"action"`
	CallID           string       `json:"call_id"`
	Session          *callSession `json:"session,omitempty"`
}

type callResponse struct {
	Success bool `json:"success"`
}

func (c *Client) AnswerCall(ctx context.Context, callID string, action domain.CallAction, sdpAnswer, to string) error {
	log.Debug().Str("call_id", callID).Str("action", string(action)).Msg("Answering call")

	resp, err := c.post(ctx, callRequest{
		MessagingProduct: messagingProduct,
		To:               to,
		Action:           string(action),
		CallID:           callID,
		Session:          &callSession{SDPType: "answer", SDP: sdpAnswer},
	})
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("provider refused %s for call %s", action, callID)
	}
	return nil
}

func (c *Client) TerminateCall(ctx context.Context, callID string) error {
	log.Debug().Str("call_id", callID).Msg("Terminating call")

	resp, err := c.post(ctx, callRequest{
		MessagingProduct: messagingProduct,
		Action:           actionTerminate,
		CallID:           callID,
	})
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("provider refused terminate for call %s", callID)
	}
	return nil
}

func (c *Client) post(ctx context.Context, payload callRequest) (*callResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s/calls", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("calls API returned %s: %s", resp.Status, detail)
	}

	var out callResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding calls API response: %w", err)
	}
	return &out, nil
}
