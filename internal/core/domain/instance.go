package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExerciseInstance is an exercise performed within a session.
// Sets is ordered by creation.
type ExerciseInstance struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	SessionID  uuid.UUID `json:"session_id"`
	Created    time.Time `json:"created"`
	ExerciseID uuid.UUID `json:"exercise_id"`
	Comments   []string  `json:"comments"`
	Sets       []Set     `json:"sets"`
}

// HasComment reports whether index addresses an existing comment.
func (i *ExerciseInstance) HasComment(index int) bool {
	return index >= 0 && index < len(i.Comments)
}
