package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Set is a single weight/rep entry within an exercise instance.
//
// Weight is in kilograms with one decimal; a negative weight means the
// movement was assisted.
type Set struct {
	ID                 uuid.UUID `json:"id"`
	UserID             uuid.UUID `json:"user_id"`
	ExerciseInstanceID uuid.UUID `json:"exercise_instance_id"`
	Weight             *float64  `json:"weight"`
	Reps               *int32    `json:"reps"`
	Completed          bool      `json:"completed"`
	Created            time.Time `json:"created"`
}

// RoundWeight rounds w to one decimal place.
func RoundWeight(w float64) float64 {
	r := math.Round(w*10) / 10
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}

// SetPatch describes a partial update of a set.
type SetPatch struct {
	Weight    Optional[float64]
	Reps      Optional[int32]
	Completed Optional[bool]
}

// Apply writes the present fields of p onto s. Weights are rounded.
func (p SetPatch) Apply(s *Set) {
	if p.Weight.Set {
		s.Weight = p.Weight.Ptr()
		if s.Weight != nil {
			w := RoundWeight(*s.Weight)
			s.Weight = &w
		}
	}
	if p.Reps.Set {
		s.Reps = p.Reps.Ptr()
	}
	if v, ok := p.Completed.Value(); ok {
		s.Completed = v
	}
}
