package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is a workout occasion. ExerciseInstances is ordered by creation.
type Session struct {
	ID                uuid.UUID          `json:"id"`
	UserID            uuid.UUID          `json:"user_id"`
	Name              string             `json:"name"`
	Description       *string            `json:"description"`
	Started           time.Time          `json:"started"`
	Finished          *time.Time         `json:"finished"`
	ExerciseInstances []ExerciseInstance `json:"exercise_instances"`
}

// IsFinished reports whether the session has been marked as finished.
func (s *Session) IsFinished() bool {
	return s.Finished != nil
}

// SessionPatch describes a partial update of a session.
type SessionPatch struct {
	Name        Optional[string]
	Description Optional[string]
}

// Apply writes the present fields of p onto s.
func (p SessionPatch) Apply(s *Session) {
	if v, ok := p.Name.Value(); ok {
		s.Name = v
	}
	if p.Description.Set {
		s.Description = p.Description.Ptr()
	}
}
