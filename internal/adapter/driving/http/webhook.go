package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Wyydra/callbridge/internal/core/domain"
	"github.com/rs/zerolog/log"
)

const signatureHeader = "X-Hub-Signature-256"

// VerifyWebhook answers the provider's subscription handshake.
func (h *Handler) VerifyWebhook(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		log.Info().Msg("Webhook subscription verified")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(challenge))
		return
	}

	log.Warn().Str("mode", mode).Msg("Webhook verification failed")
	writeJSON(w, http.StatusForbidden, map[string]string{"error": "verification failed"})
}

// ReceiveWebhook decodes a call event delivery and hands it to the call
// service. Handling failures come back as error acknowledgments, never as a
// dropped connection.
func (h *Handler) ReceiveWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read body"})
		return
	}

	if h.appSecret != "" {
		if !h.validSignature(body, r.Header.Get(signatureHeader)) {
			log.Warn().Msg("Webhook signature verification failed")
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "invalid signature"})
			return
		}
	}

	var req domain.WebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		log.Warn().Err(err).Msg("Malformed webhook payload")
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	if _, err := h.CallService.HandleWebhook(r.Context(), req); err != nil {
		log.Error().Err(err).Msg("Failed to handle webhook")
		writeJSON(w, statusForError(err), map[string]string{
			"status": "error",
			"error":  err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validSignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(h.appSecret))
	mac.Write(body)
	expected := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnsupportedEvent):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrDuplicateSession):
		return http.StatusConflict
	case errors.Is(err, domain.ErrPreAcceptRejected), errors.Is(err, domain.ErrAcceptRejected):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to write response")
	}
}
