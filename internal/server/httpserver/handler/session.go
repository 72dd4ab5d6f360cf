package handler

import (
	"net/http"
)

// handleCreateSession handles POST /api/session.
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	var req CreateSessionRequest
	if err := decode(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	s, err := h.svc.Sessions.Create(r.Context(), user.ID, req.Name, req.Description)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	created(w, r, "New session created.", s)
}

// handleListSessions handles GET /api/session.
func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	sessions, err := h.svc.Sessions.List(r.Context(), user.ID)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	ok(w, r, "Returned all user's sessions.", sessions)
}

// handleGetSession handles GET /api/session/{session_id}.
func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	id, err := pathID(r, "session_id")
	if err != nil {
		WriteError(w, r, err)
		return
	}

	s, err := h.svc.Sessions.Get(r.Context(), user.ID, id)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	ok(w, r, "Session found.", s)
}

// handleEditSession handles PATCH /api/session/{session_id}.
func (h *Handler) handleEditSession(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	id, err := pathID(r, "session_id")
	if err != nil {
		WriteError(w, r, err)
		return
	}

	var req EditSessionRequest
	if err := decode(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	s, err := h.svc.Sessions.Edit(r.Context(), user.ID, id, req.Patch())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	ok(w, r, "Session modified if changes were requested.", s)
}

// handleFinishSession handles PATCH /api/session/{session_id}/finish.
func (h *Handler) handleFinishSession(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	id, err := pathID(r, "session_id")
	if err != nil {
		WriteError(w, r, err)
		return
	}

	s, err := h.svc.Sessions.Finish(r.Context(), user.ID, id)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	ok(w, r, "Session set as finished.", s)
}

// handleDeleteSession handles DELETE /api/session/{session_id}.
func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	id, err := pathID(r, "session_id")
	if err != nil {
		WriteError(w, r, err)
		return
	}

	deleted, err := h.svc.Sessions.Delete(r.Context(), user.ID, id)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	ok(w, r, "Session and related items deleted.", deleted)
}
