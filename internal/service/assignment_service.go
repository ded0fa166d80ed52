package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"grading-service/internal/distribution"
	"grading-service/internal/event"
	"grading-service/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type AssignmentService struct {
	Repo         AssignmentStore
	QuestionRepo QuestionStore
	Points       *PointService
	Publisher    *event.EventPublisher
}

func NewAssignmentService(
	repo AssignmentStore,
	questionRepo QuestionStore,
	points *PointService,
	publisher *event.EventPublisher,
) *AssignmentService {
	return &AssignmentService{Repo: repo, QuestionRepo: questionRepo, Points: points, Publisher: publisher}
}

type DistributionResult struct {
	Batch       models.AssignmentBatch      `json:"batch"`
	Assignments []models.QuestionAssignment `json:"assignments"`
	PointGrants []models.Point              `json:"point_grants"`
	PerQuestion map[string]int              `json:"per_question"`
	Created     bool                        `json:"created"`
}

// Distribute runs the validation-week batch for a module. The batch header
// insert is the idempotency gate: a second run hits the unique index and
// returns the stored batch instead. Assignments and shortage grants are
// persisted one by one; a mid-batch persistence error aborts and surfaces,
// leaving the writes made so far in place, so a retry is a no-op rather than
// a duplicate batch.
func (s *AssignmentService) Distribute(ctx context.Context, moduleID string) (*DistributionResult, error) {
	questions, err := s.QuestionRepo.FindByModule(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: module %s has no questions", ErrValidation, moduleID)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	plan := distribution.BuildPlan(questions, models.ValidationSlotsPerAuthor, rng)

	batch := models.AssignmentBatch{
		ID:              uuid.NewString(),
		ModuleID:        moduleID,
		WeekNumber:      models.ValidationWeekNumber,
		AssignmentCount: len(plan.Assignments),
		AutoGrantCount:  len(plan.ShortageGrants),
		CreatedAt:       nowUTC(),
	}
	if err := s.Repo.CreateBatch(ctx, &batch); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return s.existingBatch(ctx, moduleID)
		}
		return nil, err
	}

	result := &DistributionResult{
		Batch:       batch,
		PerQuestion: plan.PerQuestion,
		Created:     true,
	}

	for _, planned := range plan.Assignments {
		assignment := models.QuestionAssignment{
			ID:         primitive.NewObjectID().Hex(),
			BatchID:    batch.ID,
			QuestionID: planned.QuestionID,
			AssignedTo: planned.AssignedTo,
			ModuleID:   moduleID,
			WeekNumber: models.ValidationWeekNumber,
			AssignedAt: batch.CreatedAt,
		}
		if err := s.Repo.Create(ctx, &assignment); err != nil {
			return nil, err
		}
		result.Assignments = append(result.Assignments, assignment)
	}

	for _, grant := range plan.ShortageGrants {
		point, err := s.Points.Grant(ctx, &models.Point{
			StudentID:     grant.AuthorID,
			Points:        models.PointsPerShortageSlot,
			Reason:        fmt.Sprintf("Automatic validation credit: no reviewable question available in module %s", moduleID),
			Category:      models.CategoryQuestionValidation,
			RelatedEntity: &models.RelatedEntity{Type: "module", ID: moduleID},
		})
		if err != nil {
			return nil, err
		}
		result.PointGrants = append(result.PointGrants, *point)
	}

	if s.Publisher != nil {
		s.Publisher.Publish(event.BatchCreated, map[string]interface{}{
			"module_id":   moduleID,
			"batch_id":    batch.ID,
			"assignments": len(result.Assignments),
			"auto_grants": len(result.PointGrants),
		})
	}
	return result, nil
}

// existingBatch reconstructs the result of a previous run for an idempotent
// re-invocation, shortage grants included.
func (s *AssignmentService) existingBatch(ctx context.Context, moduleID string) (*DistributionResult, error) {
	batch, err := s.Repo.FindBatch(ctx, moduleID, models.ValidationWeekNumber)
	if err != nil {
		return nil, err
	}
	assignments, err := s.Repo.FindByBatch(ctx, batch.ID)
	if err != nil {
		return nil, err
	}
	grants, err := s.Points.AutoGrants(ctx, moduleID)
	if err != nil {
		return nil, err
	}

	perQuestion := make(map[string]int)
	for _, a := range assignments {
		perQuestion[a.QuestionID]++
	}
	return &DistributionResult{
		Batch:       *batch,
		Assignments: assignments,
		PointGrants: grants,
		PerQuestion: perQuestion,
		Created:     false,
	}, nil
}

type UserAssignments struct {
	Assignments    []models.QuestionAssignment `json:"assignments"`
	Questions      []models.Question           `json:"questions"`
	AutoGrantCount int64                       `json:"auto_grant_count"`
}

// ListForUser returns a user's validation-week duties in a module, the
// questions behind them, and the count of automatic shortage grants they
// received instead of assignments.
func (s *AssignmentService) ListForUser(ctx context.Context, moduleID, userID string) (*UserAssignments, error) {
	assignments, err := s.Repo.FindByModuleAndUser(ctx, moduleID, userID, models.ValidationWeekNumber)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.QuestionID)
	}
	questions, err := s.QuestionRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	autoGrants, err := s.Points.AutoGrantCount(ctx, userID, moduleID)
	if err != nil {
		return nil, err
	}

	return &UserAssignments{
		Assignments:    assignments,
		Questions:      questions,
		AutoGrantCount: autoGrants,
	}, nil
}

// DeleteModule cascades a module deletion into its batches and assignments.
func (s *AssignmentService) DeleteModule(ctx context.Context, moduleID string) error {
	return s.Repo.DeleteByModule(ctx, moduleID)
}
