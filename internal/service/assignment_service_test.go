package service

import (
	"context"
	"testing"

	"grading-service/internal/models"
)

func moduleQuestion(id, authorID string) models.Question {
	return models.Question{ID: id, ModuleID: "m1", AuthorID: authorID}
}

func newAssignmentFixture(questions []models.Question) (*AssignmentService, *memPointStore) {
	points := &memPointStore{}
	svc := NewAssignmentService(
		&memAssignmentStore{},
		&memQuestionStore{questions: questions},
		NewPointService(points, nil, nil),
		nil,
	)
	return svc, points
}

func TestDistributeRerunIsNoOp(t *testing.T) {
	svc, points := newAssignmentFixture([]models.Question{
		moduleQuestion("q1", "alice"),
		moduleQuestion("q2", "alice"),
		moduleQuestion("q3", "bob"),
		moduleQuestion("q4", "bob"),
		moduleQuestion("q5", "carol"),
		moduleQuestion("q6", "carol"),
	})
	ctx := context.Background()

	first, err := svc.Distribute(ctx, "m1")
	if err != nil {
		t.Fatalf("first distribution failed: %v", err)
	}
	if !first.Created {
		t.Fatal("first distribution must report created")
	}
	grantsAfterFirst := len(points.points)

	second, err := svc.Distribute(ctx, "m1")
	if err != nil {
		t.Fatalf("rerun failed: %v", err)
	}
	if second.Created {
		t.Error("rerun must not report a new batch")
	}
	if second.Batch.ID != first.Batch.ID {
		t.Errorf("rerun returned batch %s, want %s", second.Batch.ID, first.Batch.ID)
	}
	if len(points.points) != grantsAfterFirst {
		t.Errorf("rerun granted points: %d before, %d after", grantsAfterFirst, len(points.points))
	}

	pairs := func(assignments []models.QuestionAssignment) map[[2]string]bool {
		out := make(map[[2]string]bool, len(assignments))
		for _, a := range assignments {
			out[[2]string{a.QuestionID, a.AssignedTo}] = true
		}
		return out
	}
	got, want := pairs(second.Assignments), pairs(first.Assignments)
	if len(got) != len(want) {
		t.Fatalf("rerun returned %d assignments, want %d", len(got), len(want))
	}
	for pair := range want {
		if !got[pair] {
			t.Errorf("rerun is missing assignment %v", pair)
		}
	}
}

func TestDistributeRerunIncludesShortageGrants(t *testing.T) {
	// A single-author module yields no assignments and two automatic
	// shortage grants. The rerun must return those grants, not an absent
	// list next to a batch that says they exist.
	svc, points := newAssignmentFixture([]models.Question{
		moduleQuestion("q1", "alice"),
	})
	ctx := context.Background()

	first, err := svc.Distribute(ctx, "m1")
	if err != nil {
		t.Fatalf("first distribution failed: %v", err)
	}
	if len(first.PointGrants) != models.ValidationSlotsPerAuthor {
		t.Fatalf("expected %d shortage grants, got %d", models.ValidationSlotsPerAuthor, len(first.PointGrants))
	}

	second, err := svc.Distribute(ctx, "m1")
	if err != nil {
		t.Fatalf("rerun failed: %v", err)
	}
	if second.Created {
		t.Error("rerun must not report a new batch")
	}
	if len(second.PointGrants) != len(first.PointGrants) {
		t.Errorf("rerun returned %d grants, want %d", len(second.PointGrants), len(first.PointGrants))
	}
	for _, grant := range second.PointGrants {
		if grant.StudentID != "alice" || grant.Category != models.CategoryQuestionValidation {
			t.Errorf("unexpected grant %+v", grant)
		}
	}
	if len(points.points) != models.ValidationSlotsPerAuthor {
		t.Errorf("ledger holds %d grants after rerun, want %d", len(points.points), models.ValidationSlotsPerAuthor)
	}
}
