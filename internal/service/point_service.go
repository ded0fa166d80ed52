package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"grading-service/internal/cache"
	"grading-service/internal/event"
	"grading-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type PointService struct {
	Repo      PointStore
	Publisher *event.EventPublisher
	Cache     *cache.SummaryCache
}

func NewPointService(repo PointStore, publisher *event.EventPublisher, summaryCache *cache.SummaryCache) *PointService {
	return &PointService{Repo: repo, Publisher: publisher, Cache: summaryCache}
}

// Grant appends one point grant to the ledger. The ledger never deduplicates;
// idempotency is the caller's job (question milestone flags, batch existence).
func (s *PointService) Grant(ctx context.Context, point *models.Point) (*models.Point, error) {
	if point.StudentID == "" {
		return nil, fmt.Errorf("%w: student id is required", ErrValidation)
	}
	if point.Points <= 0 {
		return nil, fmt.Errorf("%w: points must be positive", ErrValidation)
	}
	if point.Reason == "" {
		return nil, fmt.Errorf("%w: reason is required", ErrValidation)
	}
	if !models.IsValidCategory(point.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, point.Category)
	}

	point.ID = primitive.NewObjectID().Hex()
	point.CreatedAt = nowUTC()

	if err := s.Repo.Create(ctx, point); err != nil {
		return nil, err
	}

	if s.Cache != nil {
		s.Cache.Invalidate(ctx, point.StudentID)
	}
	if s.Publisher != nil {
		s.Publisher.Publish(event.PointGranted, point)
	}
	return point, nil
}

// GrantBestEffort performs a fire-and-forget grant for the secondary-effect
// paths: a failure is logged and published, never returned, so the primary
// operation (question creation, validation, submission) always proceeds.
func (s *PointService) GrantBestEffort(ctx context.Context, point *models.Point) {
	if _, err := s.Grant(ctx, point); err != nil {
		log.Printf("point grant failed for student %s (%s): %v", point.StudentID, point.Category, err)
		if s.Publisher != nil {
			s.Publisher.Publish(event.PointGrantFailed, map[string]interface{}{
				"student_id": point.StudentID,
				"category":   point.Category,
				"reason":     point.Reason,
				"error":      err.Error(),
			})
		}
	}
}

func (s *PointService) ListByStudent(ctx context.Context, studentID string) ([]models.Point, error) {
	return s.Repo.FindByStudent(ctx, studentID)
}

// Summarize aggregates a student's grants by category. Summaries are computed
// by full scan, with a short-lived cache in front when Redis is configured.
func (s *PointService) Summarize(ctx context.Context, studentID string) (models.PointSummary, error) {
	if s.Cache != nil {
		if summary, ok := s.Cache.Get(ctx, studentID); ok {
			return *summary, nil
		}
	}

	grants, err := s.Repo.FindByStudent(ctx, studentID)
	if err != nil {
		return models.PointSummary{}, err
	}
	summary := models.SummarizePoints(studentID, grants)

	if s.Cache != nil {
		s.Cache.Set(ctx, summary)
	}
	return summary, nil
}

func (s *PointService) SummarizeMany(ctx context.Context, studentIDs []string) ([]models.PointSummary, error) {
	summaries := make([]models.PointSummary, 0, len(studentIDs))
	for _, id := range studentIDs {
		summary, err := s.Summarize(ctx, id)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// Edit changes a grant's points and reason. Student and category are
// immutable once granted.
func (s *PointService) Edit(ctx context.Context, id string, points int, reason string) (*models.Point, error) {
	if points <= 0 {
		return nil, fmt.Errorf("%w: points must be positive", ErrValidation)
	}
	if reason == "" {
		return nil, fmt.Errorf("%w: reason is required", ErrValidation)
	}

	err := s.Repo.Update(ctx, id, bson.M{"points": points, "reason": reason})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: point %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	point, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Cache != nil {
		s.Cache.Invalidate(ctx, point.StudentID)
	}
	return point, nil
}

// Delete removes one grant. Deliberately, this never clears the points_awarded
// flag on an originating question, so the milestone cannot be re-granted.
func (s *PointService) Delete(ctx context.Context, id string) error {
	point, err := s.Repo.FindByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%w: point %s", ErrNotFound, id)
	}
	if err != nil {
		return err
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("%w: point %s", ErrNotFound, id)
		}
		return err
	}
	if s.Cache != nil {
		s.Cache.Invalidate(ctx, point.StudentID)
	}
	return nil
}

// AutoGrantCount reports how many automatic shortage grants a student received
// for a module's validation week.
func (s *PointService) AutoGrantCount(ctx context.Context, studentID, moduleID string) (int64, error) {
	return s.Repo.CountAutoGrants(ctx, studentID, moduleID)
}

// AutoGrants returns every automatic shortage grant recorded for a module's
// validation week, across all students.
func (s *PointService) AutoGrants(ctx context.Context, moduleID string) ([]models.Point, error) {
	return s.Repo.FindAutoGrants(ctx, moduleID)
}
