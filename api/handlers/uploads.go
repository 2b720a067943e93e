package handlers

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/mindhaven-app/mindhaven-api/api"
	"github.com/mindhaven-app/mindhaven-api/config"
)

// UploadHandler signs direct-to-CDN attachment uploads for chat messages
type UploadHandler struct {
	Config config.Config
}

// GenerateSignature generates an HMAC-SHA1 upload signature. The client
// uploads the attachment itself and sends the resulting URL as an IMAGE,
// FILE, AUDIO or VIDEO message.
func (u UploadHandler) GenerateSignature(w http.ResponseWriter, r *http.Request) {
	if _, err := api.RequireAuthentication(r.Context()); err != nil {
		config.ErrorStatus("authentication required", http.StatusUnauthorized, w, err)
		return
	}

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	// Create the signature
	h := hmac.New(sha1.New, []byte(u.Config.UploadSecret))
	h.Write([]byte("timestamp=" + timestamp + "&upload_preset=" + u.Config.UploadPreset))
	signature := hex.EncodeToString(h.Sum(nil))

	// Respond with the timestamp and signature
	response := map[string]string{
		"timestamp": timestamp,
		"signature": signature,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
