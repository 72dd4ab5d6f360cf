package domain

import (
	"github.com/google/uuid"
)

// ExerciseKind is the equipment category of an exercise.
type ExerciseKind string

const (
	ExerciseKindDumbbell   ExerciseKind = "dumbbell"
	ExerciseKindBarbell    ExerciseKind = "barbell"
	ExerciseKindCable      ExerciseKind = "cable"
	ExerciseKindMachine    ExerciseKind = "machine"
	ExerciseKindBodyweight ExerciseKind = "bodyweight"
)

// ValidExerciseKinds returns all exercise kinds.
func ValidExerciseKinds() []ExerciseKind {
	return []ExerciseKind{
		ExerciseKindDumbbell,
		ExerciseKindBarbell,
		ExerciseKindCable,
		ExerciseKindMachine,
		ExerciseKindBodyweight,
	}
}

// IsValidExerciseKind checks if a string is a valid exercise kind.
func IsValidExerciseKind(s string) bool {
	for _, k := range ValidExerciseKinds() {
		if string(k) == s {
			return true
		}
	}
	return false
}

// Exercise is a user-defined movement definition.
type Exercise struct {
	ID          uuid.UUID    `json:"id"`
	UserID      uuid.UUID    `json:"user_id"`
	Name        string       `json:"name"`
	Description *string      `json:"description"`
	Favourite   bool         `json:"favourite"`
	Notes       *string      `json:"notes"`
	Kind        ExerciseKind `json:"kind"`
}

// ExercisePatch describes a partial update of an exercise.
type ExercisePatch struct {
	Name        Optional[string]
	Description Optional[string]
	Favourite   Optional[bool]
	Notes       Optional[string]
	Kind        Optional[ExerciseKind]
}

// Apply writes the present fields of p onto e.
func (p ExercisePatch) Apply(e *Exercise) {
	if v, ok := p.Name.Value(); ok {
		e.Name = v
	}
	if p.Description.Set {
		e.Description = p.Description.Ptr()
	}
	if v, ok := p.Favourite.Value(); ok {
		e.Favourite = v
	}
	if p.Notes.Set {
		e.Notes = p.Notes.Ptr()
	}
	if v, ok := p.Kind.Value(); ok {
		e.Kind = v
	}
}
