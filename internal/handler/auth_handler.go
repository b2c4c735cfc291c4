package handler

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/kwestra/hexfront/internal/auth"
)

// AuthHandler issues spectator tokens for the WebSocket endpoint.
type AuthHandler struct {
	jwtMgr *auth.JWTManager
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(jwtMgr *auth.JWTManager) *AuthHandler {
	return &AuthHandler{jwtMgr: jwtMgr}
}

// SpectatorToken handles POST /auth/spectator — mints an anonymous spectator
// identity and its token.
func (h *AuthHandler) SpectatorToken(w http.ResponseWriter, r *http.Request) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate spectator id")
		return
	}
	spectatorID := "spec-" + hex.EncodeToString(buf)

	token, err := h.jwtMgr.GenerateToken(spectatorID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"spectator_id": spectatorID,
		"token":        token,
	})
}
