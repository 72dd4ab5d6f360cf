package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/liftlog/liftlog-go/internal/core/domain"
	"github.com/liftlog/liftlog-go/internal/core/service"
)

// maxBodyBytes bounds every request body.
const maxBodyBytes = 1 << 20

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services bundles the services the handlers call.
type Services struct {
	Users     *service.UserService
	Tokens    *service.TokenService
	Exercises *service.ExerciseService
	Sessions  *service.SessionService
	Instances *service.InstanceService
	Sets      *service.SetService

	// Store backs the readiness probe. Nil means always ready.
	Store Pinger
}

// Route binds a method pattern to a handler.
type Route struct {
	Pattern string
	Public  bool
	Handler http.HandlerFunc
}

// Handler serves the LiftLog API.
type Handler struct {
	svc Services
}

// New creates a Handler.
func New(svc Services) *Handler {
	return &Handler{svc: svc}
}

// Routes returns every API route. Routes that are not Public require an
// authenticated user in the request context.
func (h *Handler) Routes() []Route {
	return []Route{
		{"GET /api/ping", true, h.handlePing},

		{"POST /api/user", true, h.handleCreateUser},
		{"GET /api/user", false, h.handleGetSelf},
		{"DELETE /api/user", false, h.handleDeleteUser},
		{"PATCH /api/user/username", false, h.handleChangeUsername},
		{"PATCH /api/user/password", false, h.handleChangePassword},

		{"POST /api/access_token", true, h.handleCreateAccessToken},
		{"DELETE /api/access_token", true, h.handleDeleteAccessToken},
		{"DELETE /api/access_token/{token}", true, h.handleDeleteAccessToken},

		{"POST /api/exercise", false, h.handleCreateExercise},
		{"GET /api/exercise/all", false, h.handleListExercises},
		{"GET /api/exercise/all/{kind}", false, h.handleListExercises},
		{"GET /api/exercises", false, h.handleListExercises},
		{"GET /api/exercises/{kind}", false, h.handleListExercises},
		{"GET /api/exercise/{exercise_id}", false, h.handleGetExercise},
		{"PATCH /api/exercise/{exercise_id}", false, h.handleEditExercise},
		{"DELETE /api/exercise/{exercise_id}", false, h.handleDeleteExercise},

		{"POST /api/session", false, h.handleCreateSession},
		{"GET /api/session", false, h.handleListSessions},
		{"GET /api/session/{session_id}", false, h.handleGetSession},
		{"PATCH /api/session/{session_id}", false, h.handleEditSession},
		{"DELETE /api/session/{session_id}", false, h.handleDeleteSession},
		{"PATCH /api/session/{session_id}/finish", false, h.handleFinishSession},

		{"POST /api/exercise_instance", false, h.handleCreateInstance},
		{"GET /api/exercise_instance/session/{session_id}", false, h.handleListInstances},
		{"GET /api/exercise_instance/{exercise_instance_id}", false, h.handleGetInstance},
		{"PATCH /api/exercise_instance/{exercise_instance_id}", false, h.handleEditInstance},
		{"DELETE /api/exercise_instance/{exercise_instance_id}", false, h.handleDeleteInstance},
		{"POST /api/exercise_instance/{exercise_instance_id}/comment", false, h.handleAddComment},
		{"PATCH /api/exercise_instance/{exercise_instance_id}/comment/{comment_index}", false, h.handleEditComment},
		{"DELETE /api/exercise_instance/{exercise_instance_id}/comment/{comment_index}", false, h.handleDeleteComment},

		{"POST /api/set", false, h.handleCreateSet},
		{"GET /api/set/{set_id}", false, h.handleGetSet},
		{"PATCH /api/set/{set_id}", false, h.handleEditSet},
		{"DELETE /api/set/{set_id}", false, h.handleDeleteSet},

		{"GET /health", true, h.handleHealth},
		{"GET /ready", true, h.handleReady},
	}
}

// decode reads a JSON body into dst and validates it.
func decode(w http.ResponseWriter, r *http.Request, dst Validator) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.ErrMalformedBody.WithDetails(err.Error()).WithCause(err)
	}
	return dst.Validate()
}

// pathID parses a UUID path parameter.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, domain.ErrMalformedPath.
			WithField(name).
			WithMessage(fmt.Sprintf("Invalid UUID in path parameter `%s`.", name)).
			WithCause(err)
	}
	return id, nil
}

// pathIndex parses a non-negative integer path parameter.
func pathIndex(r *http.Request, name string) (int, error) {
	n, err := strconv.Atoi(r.PathValue(name))
	if err != nil || n < 0 {
		return 0, domain.ErrMalformedPath.
			WithField(name).
			WithMessage(fmt.Sprintf("Invalid index in path parameter `%s`.", name))
	}
	return n, nil
}

// currentUser returns the authenticated user of a protected route.
func currentUser(r *http.Request) (*domain.User, error) {
	user := UserFromContext(r.Context())
	if user == nil {
		return nil, domain.ErrInternal.WithDetails("protected route served without user")
	}
	return user, nil
}

func ok(w http.ResponseWriter, r *http.Request, message string, data any) {
	Success(message, data, http.StatusOK).Write(w, r)
}

func created(w http.ResponseWriter, r *http.Request, message string, data any) {
	Success(message, data, http.StatusCreated).Write(w, r)
}

// NotFound writes the fallback envelope for unmatched routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, domain.ErrRouteNotFound)
}
