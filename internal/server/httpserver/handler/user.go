package handler

import (
	"net/http"
)

// handleCreateUser handles POST /api/user.
func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decode(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	user, err := h.svc.Users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	created(w, r, "New user created.", user)
}

// handleGetSelf handles GET /api/user.
func (h *Handler) handleGetSelf(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	ok(w, r, "Found your user's details.", user)
}

// handleDeleteUser handles DELETE /api/user.
func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	id, err := h.svc.Users.Delete(r.Context(), user.ID)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	ok(w, r, "User has been deleted.", id)
}

// handleChangeUsername handles PATCH /api/user/username.
func (h *Handler) handleChangeUsername(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	var req ChangeUsernameRequest
	if err := decode(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	updated, err := h.svc.Users.ChangeUsername(r.Context(), user.ID, req.NewUsername)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	ok(w, r, "Username changed.", updated)
}

// handleChangePassword handles PATCH /api/user/password.
func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	var req ChangePasswordRequest
	if err := decode(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	updated, err := h.svc.Users.ChangePassword(r.Context(), user.ID, req.NewPassword)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	ok(w, r, "Password changed.", updated)
}
