package handler

import (
	"net/http"
	"time"
)

// handleCreateAccessToken handles POST /api/access_token.
func (h *Handler) handleCreateAccessToken(w http.ResponseWriter, r *http.Request) {
	var req CreateAccessTokenRequest
	if err := decode(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	validity := time.Duration(req.ValidityInSeconds) * time.Second
	t, err := h.svc.Tokens.Login(r.Context(), req.Username, req.Password, validity)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	created(w, r, "New access token created.", t)
}

// handleDeleteAccessToken handles DELETE /api/access_token/{token} and
// DELETE /api/access_token with the token in the body.
func (h *Handler) handleDeleteAccessToken(w http.ResponseWriter, r *http.Request) {
	plaintext := r.PathValue("token")
	if plaintext == "" {
		var req DeleteAccessTokenRequest
		if err := decode(w, r, &req); err != nil {
			WriteError(w, r, err)
			return
		}
		plaintext = req.AccessToken
	}

	if err := h.svc.Tokens.RevokeToken(r.Context(), plaintext); err != nil {
		WriteError(w, r, err)
		return
	}
	ok(w, r, "Access token deleted.", nil)
}
