package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"grading-service/internal/event"
	"grading-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type QuestionService struct {
	Repo      QuestionStore
	Points    *PointService
	Publisher *event.EventPublisher
}

func NewQuestionService(repo QuestionStore, points *PointService, publisher *event.EventPublisher) *QuestionService {
	return &QuestionService{Repo: repo, Points: points, Publisher: publisher}
}

func (s *QuestionService) ListQuestions(ctx context.Context) ([]models.Question, error) {
	return s.Repo.FindAll(ctx)
}

func (s *QuestionService) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	question, err := s.Repo.FindByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: question %s", ErrNotFound, id)
	}
	return question, err
}

// CreateQuestion stores a new question and credits its author with the
// creation milestone, best-effort.
func (s *QuestionService) CreateQuestion(ctx context.Context, question *models.Question) error {
	if question.Text == "" {
		return fmt.Errorf("%w: question text is required", ErrValidation)
	}
	if question.ModuleID == "" {
		return fmt.Errorf("%w: module id is required", ErrValidation)
	}
	if question.AuthorID == "" {
		return fmt.Errorf("%w: author id is required", ErrValidation)
	}
	if !question.ValidateOptions() {
		return fmt.Errorf("%w: question needs options a-d and a correct option among them", ErrValidation)
	}

	question.ID = primitive.NewObjectID().Hex()
	question.CreatedAt = nowUTC()
	question.PeerValidated = false
	question.TeacherValidated = false
	question.PointsAwarded = models.PointsAwarded{}

	if err := s.Repo.Create(ctx, question); err != nil {
		return err
	}

	s.grantMilestone(ctx, question.ID, "creation", &models.Point{
		StudentID:     question.AuthorID,
		Points:        models.PointsForCreation,
		Reason:        "Question created",
		Category:      models.CategoryQuestionCreation,
		RelatedEntity: &models.RelatedEntity{Type: "question", ID: question.ID},
	})
	return nil
}

// UpdateQuestion applies a partial update. Authorship and milestone flags are
// not editable through this path.
func (s *QuestionService) UpdateQuestion(ctx context.Context, id string, update map[string]any) error {
	delete(update, "author_id")
	delete(update, "points_awarded")
	if len(update) == 0 {
		return fmt.Errorf("%w: nothing to update", ErrValidation)
	}
	if _, err := s.GetQuestion(ctx, id); err != nil {
		return err
	}
	return s.Repo.Update(ctx, id, bson.M(update))
}

func (s *QuestionService) DeleteQuestion(ctx context.Context, id string) error {
	if _, err := s.GetQuestion(ctx, id); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, id)
}

// Validate records a peer validation and credits the validator with the
// validation milestone, best-effort and at most once per question.
func (s *QuestionService) Validate(ctx context.Context, questionID, validatorID, comment string) (*models.Question, error) {
	if _, err := s.GetQuestion(ctx, questionID); err != nil {
		return nil, err
	}

	err := s.Repo.Update(ctx, questionID, bson.M{
		"peer_validated":          true,
		"peer_validation_comment": comment,
		"peer_validator_id":       validatorID,
	})
	if err != nil {
		return nil, err
	}

	s.grantMilestone(ctx, questionID, "validation", &models.Point{
		StudentID:     validatorID,
		Points:        models.PointsForValidation,
		Reason:        "Peer validation of question",
		Category:      models.CategoryQuestionValidation,
		RelatedEntity: &models.RelatedEntity{Type: "question", ID: questionID},
	})

	if s.Publisher != nil {
		s.Publisher.Publish(event.QuestionPeerReviewed, map[string]string{
			"question_id":  questionID,
			"validator_id": validatorID,
		})
	}
	return s.GetQuestion(ctx, questionID)
}

// Respond records the author's agreement with the validation feedback and
// credits the reparation milestone, best-effort and at most once.
func (s *QuestionService) Respond(ctx context.Context, questionID, callerID string, agreed bool, comment string) (*models.Question, error) {
	question, err := s.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if question.AuthorID != callerID {
		return nil, fmt.Errorf("%w: only the author may respond", ErrForbidden)
	}

	err = s.Repo.Update(ctx, questionID, bson.M{
		"author_agreement": models.AuthorAgreement{Agreed: &agreed, Comment: comment},
	})
	if err != nil {
		return nil, err
	}

	s.grantMilestone(ctx, questionID, "reparation", &models.Point{
		StudentID:     question.AuthorID,
		Points:        models.PointsForReparation,
		Reason:        "Question reparation response",
		Category:      models.CategoryQuestionReparation,
		RelatedEntity: &models.RelatedEntity{Type: "question", ID: questionID},
	})
	return s.GetQuestion(ctx, questionID)
}

// TeacherValidate records the teacher's verdict. No points are granted here.
func (s *QuestionService) TeacherValidate(ctx context.Context, questionID, comment string) (*models.Question, error) {
	if comment == "" {
		return nil, fmt.Errorf("%w: comment is required", ErrValidation)
	}
	if _, err := s.GetQuestion(ctx, questionID); err != nil {
		return nil, err
	}

	err := s.Repo.Update(ctx, questionID, bson.M{
		"teacher_validated":          true,
		"teacher_validation_comment": comment,
	})
	if err != nil {
		return nil, err
	}
	return s.GetQuestion(ctx, questionID)
}

// grantMilestone flips the question's milestone flag and, only when this call
// won the flip, appends the grant. Losing the flip means the milestone was
// already credited; a failed grant after a won flip is logged and swallowed.
func (s *QuestionService) grantMilestone(ctx context.Context, questionID, flag string, point *models.Point) {
	won, err := s.Repo.ClaimPointsFlag(ctx, questionID, flag)
	if err != nil {
		log.Printf("claiming %s flag on question %s failed: %v", flag, questionID, err)
		return
	}
	if !won {
		return
	}
	s.Points.GrantBestEffort(ctx, point)
}
