package handler

import (
	"fmt"
	"net/http"

	"github.com/liftlog/liftlog-go/internal/core/domain"
)

// handleCreateExercise handles POST /api/exercise.
func (h *Handler) handleCreateExercise(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	var req CreateExerciseRequest
	if err := decode(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	e, err := h.svc.Exercises.Create(r.Context(), user.ID, req.Exercise())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	created(w, r, "New exercise created.", e)
}

// handleListExercises handles GET /api/exercise/all[/{kind}] and its
// /api/exercises alias.
func (h *Handler) handleListExercises(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	var kind *domain.ExerciseKind
	if raw := r.PathValue("kind"); raw != "" {
		if !domain.IsValidExerciseKind(raw) {
			WriteError(w, r, domain.ErrMalformedPath.
				WithField("kind").
				WithMessage(fmt.Sprintf("Invalid input in `kind` field: %s.", kindMessage)))
			return
		}
		k := domain.ExerciseKind(raw)
		kind = &k
	}

	exercises, err := h.svc.Exercises.List(r.Context(), user.ID, kind)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	ok(w, r, "Returned user's exercises.", exercises)
}

// handleGetExercise handles GET /api/exercise/{exercise_id}.
func (h *Handler) handleGetExercise(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	id, err := pathID(r, "exercise_id")
	if err != nil {
		WriteError(w, r, err)
		return
	}

	e, err := h.svc.Exercises.Get(r.Context(), user.ID, id)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	ok(w, r, "Exercise found.", e)
}

// handleEditExercise handles PATCH /api/exercise/{exercise_id}.
func (h *Handler) handleEditExercise(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	id, err := pathID(r, "exercise_id")
	if err != nil {
		WriteError(w, r, err)
		return
	}

	var req EditExerciseRequest
	if err := decode(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	e, err := h.svc.Exercises.Edit(r.Context(), user.ID, id, req.Patch())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	ok(w, r, "Exercise modified if changes were requested.", e)
}

// handleDeleteExercise handles DELETE /api/exercise/{exercise_id}.
func (h *Handler) handleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	id, err := pathID(r, "exercise_id")
	if err != nil {
		WriteError(w, r, err)
		return
	}

	deleted, err := h.svc.Exercises.Delete(r.Context(), user.ID, id)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	ok(w, r, "Exercise deleted.", deleted)
}
