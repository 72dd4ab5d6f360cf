package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/liftlog/liftlog-go/internal/core/domain"
)

type workoutServices struct {
	store     *mockStore
	exercises *ExerciseService
	sessions  *SessionService
	instances *InstanceService
	sets      *SetService
}

func newWorkoutServices() *workoutServices {
	store := newMockStore()
	return &workoutServices{
		store:     store,
		exercises: NewExerciseService(store),
		sessions:  NewSessionService(store, store),
		instances: NewInstanceService(store, store, store),
		sets:      NewSetService(store),
	}
}

// scenario creates an exercise, a session, an instance and a set for userID.
func (w *workoutServices) scenario(t *testing.T, userID uuid.UUID) (*domain.Exercise, *domain.Session, *domain.ExerciseInstance, *domain.Set) {
	t.Helper()
	ctx := context.Background()

	ex, err := w.exercises.Create(ctx, userID, &domain.Exercise{Name: "Bench press", Kind: domain.ExerciseKindBarbell})
	if err != nil {
		t.Fatalf("create exercise: %v", err)
	}
	sess, err := w.sessions.Create(ctx, userID, "Push day", nil)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	inst, err := w.instances.Create(ctx, userID, sess.ID, ex.ID)
	if err != nil {
		t.Fatalf("create instance: %v", err)
	}
	set, err := w.sets.Create(ctx, userID, inst.ID)
	if err != nil {
		t.Fatalf("create set: %v", err)
	}
	return ex, sess, inst, set
}

func TestOwnershipIsolation(t *testing.T) {
	w := newWorkoutServices()
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	ex, sess, inst, set := w.scenario(t, alice)

	tests := []struct {
		name string
		call func() error
		want *domain.DomainError
	}{
		{"get exercise", func() error { _, err := w.exercises.Get(ctx, bob, ex.ID); return err }, domain.ErrExerciseNotFound},
		{"edit exercise", func() error {
			_, err := w.exercises.Edit(ctx, bob, ex.ID, domain.ExercisePatch{Name: domain.Some("x")})
			return err
		}, domain.ErrExerciseNotFound},
		{"delete exercise", func() error { _, err := w.exercises.Delete(ctx, bob, ex.ID); return err }, domain.ErrExerciseNotFound},
		{"get session", func() error { _, err := w.sessions.Get(ctx, bob, sess.ID); return err }, domain.ErrSessionNotFound},
		{"finish session", func() error { _, err := w.sessions.Finish(ctx, bob, sess.ID); return err }, domain.ErrSessionNotFound},
		{"delete session", func() error { _, err := w.sessions.Delete(ctx, bob, sess.ID); return err }, domain.ErrSessionNotFound},
		{"get instance", func() error { _, err := w.instances.Get(ctx, bob, inst.ID); return err }, domain.ErrInstanceNotFound},
		{"list instances", func() error { _, err := w.instances.ListBySession(ctx, bob, sess.ID); return err }, domain.ErrSessionNotFound},
		{"add comment", func() error { _, err := w.instances.AddComment(ctx, bob, inst.ID, "x"); return err }, domain.ErrInstanceNotFound},
		{"get set", func() error { _, err := w.sets.Get(ctx, bob, set.ID); return err }, domain.ErrSetNotFound},
		{"edit set", func() error {
			_, err := w.sets.Edit(ctx, bob, set.ID, domain.SetPatch{Completed: domain.Some(true)})
			return err
		}, domain.ErrSetNotFound},
		{"delete set", func() error { _, err := w.sets.Delete(ctx, bob, set.ID); return err }, domain.ErrSetNotFound},
		{"create set in foreign instance", func() error { _, err := w.sets.Create(ctx, bob, inst.ID); return err }, domain.ErrInstanceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if got := domain.AsDomainError(err).HTTPStatus(); got != 404 {
				t.Errorf("status = %d, want 404", got)
			}
		})
	}
}

func TestInstanceService_Create_ForeignReferences(t *testing.T) {
	w := newWorkoutServices()
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	ex, sess, _, _ := w.scenario(t, alice)
	bobEx, bobSess, _, _ := w.scenario(t, bob)

	_, err := w.instances.Create(ctx, alice, bobSess.ID, ex.ID)
	de := domain.AsDomainError(err)
	if de.Code != domain.ErrSessionNotFound.Code || de.Field != "session_id" {
		t.Errorf("foreign session: error = %+v", de)
	}

	_, err = w.instances.Create(ctx, alice, sess.ID, bobEx.ID)
	de = domain.AsDomainError(err)
	if de.Code != domain.ErrExerciseNotFound.Code || de.Field != "exercise_id" {
		t.Errorf("foreign exercise: error = %+v", de)
	}
}

func TestSessionService_GetNested(t *testing.T) {
	w := newWorkoutServices()
	ctx := context.Background()
	alice := uuid.New()

	_, sess, inst, set := w.scenario(t, alice)

	got, err := w.sessions.Get(ctx, alice, sess.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.ExerciseInstances) != 1 || got.ExerciseInstances[0].ID != inst.ID {
		t.Fatalf("ExerciseInstances = %+v", got.ExerciseInstances)
	}
	if len(got.ExerciseInstances[0].Sets) != 1 || got.ExerciseInstances[0].Sets[0].ID != set.ID {
		t.Errorf("Sets = %+v", got.ExerciseInstances[0].Sets)
	}
}

func TestSessionService_FinishIsSticky(t *testing.T) {
	w := newWorkoutServices()
	ctx := context.Background()
	alice := uuid.New()

	sess, _ := w.sessions.Create(ctx, alice, "Legs", nil)

	first, err := w.sessions.Finish(ctx, alice, sess.ID)
	if err != nil || first.Finished == nil {
		t.Fatalf("Finish() = %v, %v", first, err)
	}
	second, _ := w.sessions.Finish(ctx, alice, sess.ID)
	if !second.Finished.Equal(*first.Finished) {
		t.Errorf("second Finish() changed timestamp: %v != %v", second.Finished, first.Finished)
	}
}

func TestSessionService_DeleteCascades(t *testing.T) {
	w := newWorkoutServices()
	ctx := context.Background()
	alice := uuid.New()

	_, sess, inst, set := w.scenario(t, alice)

	if _, err := w.sessions.Delete(ctx, alice, sess.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := w.instances.Get(ctx, alice, inst.ID); !errors.Is(err, domain.ErrInstanceNotFound) {
		t.Errorf("instance survived session delete: %v", err)
	}
	if _, err := w.sets.Get(ctx, alice, set.ID); !errors.Is(err, domain.ErrSetNotFound) {
		t.Errorf("set survived session delete: %v", err)
	}
}

func TestExerciseService_DeleteInUse(t *testing.T) {
	w := newWorkoutServices()
	ctx := context.Background()
	alice := uuid.New()

	ex, _, inst, _ := w.scenario(t, alice)

	if _, err := w.exercises.Delete(ctx, alice, ex.ID); !errors.Is(err, domain.ErrExerciseInUse) {
		t.Fatalf("Delete(in use) error = %v, want ErrExerciseInUse", err)
	}

	_, _ = w.instances.Delete(ctx, alice, inst.ID)
	if _, err := w.exercises.Delete(ctx, alice, ex.ID); err != nil {
		t.Errorf("Delete(unused) error = %v", err)
	}
}

func TestExerciseService_ListByKind(t *testing.T) {
	w := newWorkoutServices()
	ctx := context.Background()
	alice := uuid.New()

	_, _ = w.exercises.Create(ctx, alice, &domain.Exercise{Name: "Curl", Kind: domain.ExerciseKindDumbbell})
	_, _ = w.exercises.Create(ctx, alice, &domain.Exercise{Name: "Squat", Kind: domain.ExerciseKindBarbell})
	_, _ = w.exercises.Create(ctx, uuid.New(), &domain.Exercise{Name: "Row", Kind: domain.ExerciseKindDumbbell})

	all, _ := w.exercises.List(ctx, alice, nil)
	if len(all) != 2 {
		t.Errorf("List(all) = %d, want 2", len(all))
	}

	kind := domain.ExerciseKindDumbbell
	dumbbell, _ := w.exercises.List(ctx, alice, &kind)
	if len(dumbbell) != 1 || dumbbell[0].Name != "Curl" {
		t.Errorf("List(dumbbell) = %+v", dumbbell)
	}

	empty, _ := w.exercises.List(ctx, uuid.New(), nil)
	if empty == nil {
		t.Error("List() should return an empty slice, not nil")
	}
}

func TestInstanceService_Comments(t *testing.T) {
	w := newWorkoutServices()
	ctx := context.Background()
	alice := uuid.New()

	_, _, inst, _ := w.scenario(t, alice)

	for _, c := range []string{"felt heavy", "elbow ok", "add weight next time"} {
		if _, err := w.instances.AddComment(ctx, alice, inst.ID, c); err != nil {
			t.Fatalf("AddComment(%q) error = %v", c, err)
		}
	}

	got, err := w.instances.EditComment(ctx, alice, inst.ID, 1, "elbow sore")
	if err != nil {
		t.Fatalf("EditComment() error = %v", err)
	}
	if got.Comments[1] != "elbow sore" {
		t.Errorf("Comments = %v", got.Comments)
	}

	got, err = w.instances.DeleteComment(ctx, alice, inst.ID, 0)
	if err != nil {
		t.Fatalf("DeleteComment() error = %v", err)
	}
	if len(got.Comments) != 2 || got.Comments[0] != "elbow sore" {
		t.Errorf("Comments after delete = %v", got.Comments)
	}

	for _, idx := range []int{-1, 2, 99} {
		_, err := w.instances.EditComment(ctx, alice, inst.ID, idx, "x")
		if !errors.Is(err, domain.ErrCommentNotFound) {
			t.Errorf("EditComment(%d) error = %v, want ErrCommentNotFound", idx, err)
		}
		_, err = w.instances.DeleteComment(ctx, alice, inst.ID, idx)
		if !errors.Is(err, domain.ErrCommentNotFound) {
			t.Errorf("DeleteComment(%d) error = %v, want ErrCommentNotFound", idx, err)
		}
	}
}

func TestInstanceService_Edit(t *testing.T) {
	w := newWorkoutServices()
	ctx := context.Background()
	alice := uuid.New()

	_, _, inst, _ := w.scenario(t, alice)
	other, _ := w.exercises.Create(ctx, alice, &domain.Exercise{Name: "Dips", Kind: domain.ExerciseKindBodyweight})

	comments := []string{"new"}
	got, err := w.instances.Edit(ctx, alice, inst.ID, InstancePatch{ExerciseID: &other.ID, Comments: &comments})
	if err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	if got.ExerciseID != other.ID || len(got.Comments) != 1 {
		t.Errorf("Edit() = %+v", got)
	}

	foreign := uuid.New()
	_, err = w.instances.Edit(ctx, alice, inst.ID, InstancePatch{ExerciseID: &foreign})
	if de := domain.AsDomainError(err); de.Code != domain.ErrExerciseNotFound.Code || de.Field != "exercise_id" {
		t.Errorf("Edit(foreign exercise) error = %+v", de)
	}
}

func TestSetService_Edit(t *testing.T) {
	w := newWorkoutServices()
	ctx := context.Background()
	alice := uuid.New()

	_, _, _, set := w.scenario(t, alice)

	got, err := w.sets.Edit(ctx, alice, set.ID, domain.SetPatch{Weight: domain.Some(10.08), Reps: domain.Some(int32(8))})
	if err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	if got.Weight == nil || *got.Weight != 10.1 {
		t.Errorf("Weight = %v, want 10.1", got.Weight)
	}

	got, _ = w.sets.Edit(ctx, alice, set.ID, domain.SetPatch{Weight: domain.Null[float64]()})
	if got.Weight != nil || got.Reps == nil || *got.Reps != 8 {
		t.Errorf("after clearing weight: %+v", got)
	}
}
