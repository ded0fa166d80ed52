package service

import (
	"context"
	"errors"
	"testing"

	"grading-service/internal/models"
)

func TestEditChangesOnlyPointsAndReason(t *testing.T) {
	store := &memPointStore{}
	svc := NewPointService(store, nil, nil)
	ctx := context.Background()

	granted, err := svc.Grant(ctx, &models.Point{
		StudentID: "alice",
		Points:    3,
		Reason:    "Forum contribution",
		Category:  models.CategoryForumParticipation,
	})
	if err != nil {
		t.Fatalf("grant failed: %v", err)
	}

	edited, err := svc.Edit(ctx, granted.ID, 5, "Forum contribution, recounted")
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if edited.Points != 5 || edited.Reason != "Forum contribution, recounted" {
		t.Errorf("edit not applied: %+v", edited)
	}
	if edited.StudentID != "alice" {
		t.Errorf("edit changed the student: %s", edited.StudentID)
	}
	if edited.Category != models.CategoryForumParticipation {
		t.Errorf("edit changed the category: %s", edited.Category)
	}

	stored := store.points[0]
	if stored.StudentID != "alice" || stored.Category != models.CategoryForumParticipation {
		t.Errorf("stored grant mutated beyond points and reason: %+v", stored)
	}
}

func TestEditUnknownPointNotFound(t *testing.T) {
	svc := NewPointService(&memPointStore{}, nil, nil)
	_, err := svc.Edit(context.Background(), "missing", 2, "whatever")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestGrantRejectsUnknownCategory(t *testing.T) {
	svc := NewPointService(&memPointStore{}, nil, nil)
	_, err := svc.Grant(context.Background(), &models.Point{
		StudentID: "alice",
		Points:    1,
		Reason:    "r",
		Category:  "freestyle",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
}
