package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/script-worker/internal/apperror"
	"github.com/sakif/script-worker/internal/auth"
)

// AuthHandler implements the client-credentials token grant.
//
// There is a single configured client (id + bcrypt secret hash from the
// environment). That is deliberate: this worker sits behind an orchestrator,
// not in front of end users, so one machine credential is the whole tenant
// model.
type AuthHandler struct {
	clientID   string
	secretHash string
	secrets    *auth.SecretService
	tokens     *auth.TokenService
	logger     *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(clientID, secretHash string, secrets *auth.SecretService, tokens *auth.TokenService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		clientID:   clientID,
		secretHash: secretHash,
		secrets:    secrets,
		tokens:     tokens,
		logger:     logger,
	}
}

// tokenRequest is the grant body.
type tokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// tokenResponse follows the usual OAuth2 token response field names so
// off-the-shelf clients can parse it.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// HandleToken exchanges client credentials for a Bearer token.
//
// HTTP: POST /auth/token
// REQUEST BODY: {"client_id": "...", "client_secret": "..."}
//
// Wrong ID and wrong secret produce the same 401 — no hint which half was
// wrong.
func (h *AuthHandler) HandleToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	if req.ClientID != h.clientID || h.secrets.Verify(h.secretHash, req.ClientSecret) != nil {
		h.logger.Warn("token grant rejected", slog.String("clientId", req.ClientID))
		writeError(w, apperror.Unauthorized("invalid client credentials"))
		return
	}

	token, err := h.tokens.Generate(req.ClientID)
	if err != nil {
		h.logger.Error("failed to sign token", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(auth.TokenTTL.Seconds()),
	})
}
