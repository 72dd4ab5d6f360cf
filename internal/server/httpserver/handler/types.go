package handler

import (
	"strings"

	"github.com/google/uuid"

	"github.com/liftlog/liftlog-go/internal/core/domain"
	"github.com/liftlog/liftlog-go/internal/core/service"
)

// Messages shared by several request validators.
const (
	msgNotNull     = "cannot be null"
	msgNonNegative = "must be a non-negative number"
	msgValidity    = "must be between 1 and 2592000"
	msgWeight      = "must be between -10000 and 10000"
)

// Weight bounds in kilograms.
const (
	minWeight = -10000
	maxWeight = 10000
)

var kindMessage = func() string {
	kinds := domain.ValidExerciseKinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return "must be one of " + strings.Join(names, ", ")
}()

// Validator is implemented by request bodies that check their own fields.
type Validator interface {
	Validate() error
}

// CreateUserRequest is the request body for POST /api/user.
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *CreateUserRequest) Validate() error {
	var v domain.ValidationErrors
	v.ValidateUsername("username", r.Username)
	v.ValidatePassword("password", r.Password)
	return v.Err()
}

// ChangeUsernameRequest is the request body for PATCH /api/user/username.
type ChangeUsernameRequest struct {
	NewUsername string `json:"new_username"`
}

func (r *ChangeUsernameRequest) Validate() error {
	var v domain.ValidationErrors
	v.ValidateUsername("new_username", r.NewUsername)
	return v.Err()
}

// ChangePasswordRequest is the request body for PATCH /api/user/password.
type ChangePasswordRequest struct {
	NewPassword string `json:"new_password"`
}

func (r *ChangePasswordRequest) Validate() error {
	var v domain.ValidationErrors
	v.ValidatePassword("new_password", r.NewPassword)
	return v.Err()
}

// CreateAccessTokenRequest is the request body for POST /api/access_token.
type CreateAccessTokenRequest struct {
	Username          string `json:"username"`
	Password          string `json:"password"`
	ValidityInSeconds int64  `json:"validity_in_seconds"`
}

func (r *CreateAccessTokenRequest) Validate() error {
	var v domain.ValidationErrors
	if !domain.ValidityInRange(r.ValidityInSeconds) {
		v.Add("validity_in_seconds", msgValidity)
	}
	return v.Err()
}

// DeleteAccessTokenRequest is the request body for DELETE /api/access_token.
type DeleteAccessTokenRequest struct {
	AccessToken string `json:"access_token"`
}

func (r *DeleteAccessTokenRequest) Validate() error {
	var v domain.ValidationErrors
	if r.AccessToken == "" {
		v.Add("access_token", "is required")
	}
	return v.Err()
}

// CreateExerciseRequest is the request body for POST /api/exercise.
type CreateExerciseRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Favourite   bool    `json:"favourite"`
	Notes       *string `json:"notes"`
	Kind        string  `json:"kind"`
}

func (r *CreateExerciseRequest) Validate() error {
	var v domain.ValidationErrors
	v.CheckLength("name", r.Name, 1, domain.ExerciseNameMaxLength)
	v.CheckOptionalLength("description", r.Description, 1, domain.TextMaxLength)
	v.CheckOptionalLength("notes", r.Notes, 1, domain.TextMaxLength)
	if !domain.IsValidExerciseKind(r.Kind) {
		v.Add("kind", kindMessage)
	}
	return v.Err()
}

// Exercise converts the request into a new exercise.
func (r *CreateExerciseRequest) Exercise() *domain.Exercise {
	return &domain.Exercise{
		Name:        r.Name,
		Description: r.Description,
		Favourite:   r.Favourite,
		Notes:       r.Notes,
		Kind:        domain.ExerciseKind(r.Kind),
	}
}

// EditExerciseRequest is the request body for PATCH /api/exercise/{exercise_id}.
type EditExerciseRequest struct {
	Name        domain.Optional[string] `json:"name"`
	Description domain.Optional[string] `json:"description"`
	Favourite   domain.Optional[bool]   `json:"favourite"`
	Notes       domain.Optional[string] `json:"notes"`
	Kind        domain.Optional[string] `json:"kind"`
}

func (r *EditExerciseRequest) Validate() error {
	var v domain.ValidationErrors
	checkRequiredText(&v, "name", r.Name, domain.ExerciseNameMaxLength)
	v.CheckOptionalLength("description", r.Description.Ptr(), 1, domain.TextMaxLength)
	if r.Favourite.Set && r.Favourite.Null {
		v.Add("favourite", msgNotNull)
	}
	v.CheckOptionalLength("notes", r.Notes.Ptr(), 1, domain.TextMaxLength)
	if r.Kind.Set {
		if r.Kind.Null {
			v.Add("kind", msgNotNull)
		} else if !domain.IsValidExerciseKind(r.Kind.V) {
			v.Add("kind", kindMessage)
		}
	}
	return v.Err()
}

// Patch converts the request into a domain patch.
func (r *EditExerciseRequest) Patch() domain.ExercisePatch {
	p := domain.ExercisePatch{
		Name:        r.Name,
		Description: r.Description,
		Favourite:   r.Favourite,
		Notes:       r.Notes,
	}
	if kind, ok := r.Kind.Value(); ok {
		p.Kind = domain.Some(domain.ExerciseKind(kind))
	}
	return p
}

// CreateSessionRequest is the request body for POST /api/session.
type CreateSessionRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (r *CreateSessionRequest) Validate() error {
	var v domain.ValidationErrors
	v.CheckLength("name", r.Name, 1, domain.SessionNameMaxLength)
	v.CheckOptionalLength("description", r.Description, 1, domain.TextMaxLength)
	return v.Err()
}

// EditSessionRequest is the request body for PATCH /api/session/{session_id}.
type EditSessionRequest struct {
	Name        domain.Optional[string] `json:"name"`
	Description domain.Optional[string] `json:"description"`
}

func (r *EditSessionRequest) Validate() error {
	var v domain.ValidationErrors
	checkRequiredText(&v, "name", r.Name, domain.SessionNameMaxLength)
	v.CheckOptionalLength("description", r.Description.Ptr(), 1, domain.TextMaxLength)
	return v.Err()
}

// Patch converts the request into a domain patch.
func (r *EditSessionRequest) Patch() domain.SessionPatch {
	return domain.SessionPatch{Name: r.Name, Description: r.Description}
}

// CreateInstanceRequest is the request body for POST /api/exercise_instance.
type CreateInstanceRequest struct {
	SessionID  uuid.UUID `json:"session_id"`
	ExerciseID uuid.UUID `json:"exercise_id"`
}

func (r *CreateInstanceRequest) Validate() error {
	var v domain.ValidationErrors
	if r.SessionID == uuid.Nil {
		v.Add("session_id", "is required")
	}
	if r.ExerciseID == uuid.Nil {
		v.Add("exercise_id", "is required")
	}
	return v.Err()
}

// EditInstanceRequest is the request body for PATCH /api/exercise_instance/{exercise_instance_id}.
type EditInstanceRequest struct {
	ExerciseID domain.Optional[uuid.UUID] `json:"exercise_id"`
	Comments   domain.Optional[[]string]  `json:"comments"`
}

func (r *EditInstanceRequest) Validate() error {
	var v domain.ValidationErrors
	if r.ExerciseID.Set && r.ExerciseID.Null {
		v.Add("exercise_id", msgNotNull)
	}
	if r.Comments.Set {
		if r.Comments.Null {
			v.Add("comments", msgNotNull)
		}
		for _, c := range r.Comments.V {
			v.CheckLength("comments", c, 1, domain.TextMaxLength)
		}
	}
	return v.Err()
}

// Patch converts the request into a service patch.
func (r *EditInstanceRequest) Patch() service.InstancePatch {
	var p service.InstancePatch
	p.ExerciseID = r.ExerciseID.Ptr()
	p.Comments = r.Comments.Ptr()
	return p
}

// CommentRequest is the request body for adding or replacing a comment.
type CommentRequest struct {
	Comment string `json:"comment"`
}

func (r *CommentRequest) Validate() error {
	var v domain.ValidationErrors
	v.CheckLength("comment", r.Comment, 1, domain.TextMaxLength)
	return v.Err()
}

// CreateSetRequest is the request body for POST /api/set.
type CreateSetRequest struct {
	ExerciseInstanceID uuid.UUID `json:"exercise_instance_id"`
}

func (r *CreateSetRequest) Validate() error {
	var v domain.ValidationErrors
	if r.ExerciseInstanceID == uuid.Nil {
		v.Add("exercise_instance_id", "is required")
	}
	return v.Err()
}

// EditSetRequest is the request body for PATCH /api/set/{set_id}.
// Weight and reps accept null to clear the value.
type EditSetRequest struct {
	Weight    domain.Optional[float64] `json:"weight"`
	Reps      domain.Optional[int32]   `json:"reps"`
	Completed domain.Optional[bool]    `json:"completed"`
}

func (r *EditSetRequest) Validate() error {
	var v domain.ValidationErrors
	if w, ok := r.Weight.Value(); ok && (w < minWeight || w > maxWeight) {
		v.Add("weight", msgWeight)
	}
	if n, ok := r.Reps.Value(); ok && n < 0 {
		v.Add("reps", msgNonNegative)
	}
	if r.Completed.Set && r.Completed.Null {
		v.Add("completed", msgNotNull)
	}
	return v.Err()
}

// Patch converts the request into a domain patch.
func (r *EditSetRequest) Patch() domain.SetPatch {
	return domain.SetPatch{Weight: r.Weight, Reps: r.Reps, Completed: r.Completed}
}

// checkRequiredText validates a non-nullable text field of a partial update.
func checkRequiredText(v *domain.ValidationErrors, field string, o domain.Optional[string], max int) {
	if !o.Set {
		return
	}
	if o.Null {
		v.Add(field, msgNotNull)
		return
	}
	v.CheckLength(field, o.V, 1, max)
}
