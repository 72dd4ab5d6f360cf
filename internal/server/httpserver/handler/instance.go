package handler

import (
	"net/http"
)

// handleCreateInstance handles POST /api/exercise_instance.
func (h *Handler) handleCreateInstance(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	var req CreateInstanceRequest
	if err := decode(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	inst, err := h.svc.Instances.Create(r.Context(), user.ID, req.SessionID, req.ExerciseID)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	created(w, r, "New exercise instance created.", inst)
}

// handleListInstances handles GET /api/exercise_instance/session/{session_id}.
func (h *Handler) handleListInstances(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	sessionID, err := pathID(r, "session_id")
	if err != nil {
		WriteError(w, r, err)
		return
	}

	instances, err := h.svc.Instances.ListBySession(r.Context(), user.ID, sessionID)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	ok(w, r, "Returned session's exercise instances.", instances)
}

// handleGetInstance handles GET /api/exercise_instance/{exercise_instance_id}.
func (h *Handler) handleGetInstance(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	id, err := pathID(r, "exercise_instance_id")
	if err != nil {
		WriteError(w, r, err)
		return
	}

	inst, err := h.svc.Instances.Get(r.Context(), user.ID, id)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	ok(w, r, "Exercise instance found.", inst)
}

// handleEditInstance handles PATCH /api/exercise_instance/{exercise_instance_id}.
func (h *Handler) handleEditInstance(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	id, err := pathID(r, "exercise_instance_id")
	if err != nil {
		WriteError(w, r, err)
		return
	}

	var req EditInstanceRequest
	if err := decode(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	inst, err := h.svc.Instances.Edit(r.Context(), user.ID, id, req.Patch())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	ok(w, r, "Exercise instance modified if changes were requested.", inst)
}

// handleDeleteInstance handles DELETE /api/exercise_instance/{exercise_instance_id}.
func (h *Handler) handleDeleteInstance(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	id, err := pathID(r, "exercise_instance_id")
	if err != nil {
		WriteError(w, r, err)
		return
	}

	deleted, err := h.svc.Instances.Delete(r.Context(), user.ID, id)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	ok(w, r, "Exercise instance and its sets deleted.", deleted)
}

// handleAddComment handles POST /api/exercise_instance/{exercise_instance_id}/comment.
func (h *Handler) handleAddComment(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	id, err := pathID(r, "exercise_instance_id")
	if err != nil {
		WriteError(w, r, err)
		return
	}

	var req CommentRequest
	if err := decode(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	inst, err := h.svc.Instances.AddComment(r.Context(), user.ID, id, req.Comment)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	ok(w, r, "Comment added.", inst)
}

// handleEditComment handles
// PATCH /api/exercise_instance/{exercise_instance_id}/comment/{comment_index}.
func (h *Handler) handleEditComment(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	id, err := pathID(r, "exercise_instance_id")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	index, err := pathIndex(r, "comment_index")
	if err != nil {
		WriteError(w, r, err)
		return
	}

	var req CommentRequest
	if err := decode(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	inst, err := h.svc.Instances.EditComment(r.Context(), user.ID, id, index, req.Comment)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	ok(w, r, "Comment modified.", inst)
}

// handleDeleteComment handles
// DELETE /api/exercise_instance/{exercise_instance_id}/comment/{comment_index}.
func (h *Handler) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	id, err := pathID(r, "exercise_instance_id")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	index, err := pathIndex(r, "comment_index")
	if err != nil {
		WriteError(w, r, err)
		return
	}

	inst, err := h.svc.Instances.DeleteComment(r.Context(), user.ID, id, index)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	ok(w, r, "Comment deleted.", inst)
}
