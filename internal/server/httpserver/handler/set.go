package handler

import (
	"net/http"
)

// handleCreateSet handles POST /api/set.
func (h *Handler) handleCreateSet(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	var req CreateSetRequest
	if err := decode(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	s, err := h.svc.Sets.Create(r.Context(), user.ID, req.ExerciseInstanceID)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	created(w, r, "New set created without reps or weight.", s)
}

// handleGetSet handles GET /api/set/{set_id}.
func (h *Handler) handleGetSet(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	id, err := pathID(r, "set_id")
	if err != nil {
		WriteError(w, r, err)
		return
	}

	s, err := h.svc.Sets.Get(r.Context(), user.ID, id)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	ok(w, r, "Found set from ID.", s)
}

// handleEditSet handles PATCH /api/set/{set_id}.
func (h *Handler) handleEditSet(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	id, err := pathID(r, "set_id")
	if err != nil {
		WriteError(w, r, err)
		return
	}

	var req EditSetRequest
	if err := decode(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	s, err := h.svc.Sets.Edit(r.Context(), user.ID, id, req.Patch())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	ok(w, r, "Requested changes to set made successfully.", s)
}

// handleDeleteSet handles DELETE /api/set/{set_id}.
func (h *Handler) handleDeleteSet(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	id, err := pathID(r, "set_id")
	if err != nil {
		WriteError(w, r, err)
		return
	}

	deleted, err := h.svc.Sets.Delete(r.Context(), user.ID, id)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	ok(w, r, "Deleted specified set.", deleted)
}
