package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"grading-service/internal/event"
	"grading-service/internal/models"
	"grading-service/internal/pool"
	"grading-service/internal/scoring"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const hardestQuestionsLimit = 5

type TestService struct {
	Repo         TestStore
	AttemptRepo  AttemptStore
	QuestionRepo QuestionStore
	Points       *PointService
	Publisher    *event.EventPublisher
}

func NewTestService(
	repo TestStore,
	attemptRepo AttemptStore,
	questionRepo QuestionStore,
	points *PointService,
	publisher *event.EventPublisher,
) *TestService {
	return &TestService{
		Repo:         repo,
		AttemptRepo:  attemptRepo,
		QuestionRepo: questionRepo,
		Points:       points,
		Publisher:    publisher,
	}
}

func (s *TestService) GetTest(ctx context.Context, id string) (*models.Test, error) {
	test, err := s.Repo.FindByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: test %s", ErrNotFound, id)
	}
	return test, err
}

// CreateTest validates and stores a test. Pool sufficiency is checked against
// the validated questions of the selected modules at creation time only; the
// pool may legitimately shrink afterwards and is re-checked at attempt start.
func (s *TestService) CreateTest(ctx context.Context, test *models.Test) error {
	if test.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if test.TotalQuestions <= 0 {
		return fmt.Errorf("%w: total questions must be positive", ErrValidation)
	}
	if !test.DateStart.Before(test.DateEnd) {
		return fmt.Errorf("%w: date_start must be before date_end", ErrValidation)
	}
	if test.MaxAttempts <= 0 {
		return fmt.Errorf("%w: max attempts must be positive", ErrValidation)
	}
	if test.PassingScorePercent < 0 || test.PassingScorePercent > 100 {
		return fmt.Errorf("%w: passing score must be between 0 and 100", ErrValidation)
	}
	if len(test.SelectedModuleIDs) == 0 {
		return fmt.Errorf("%w: at least one module must be selected", ErrValidation)
	}

	validated, err := s.QuestionRepo.FindValidatedByModules(ctx, test.SelectedModuleIDs)
	if err != nil {
		return err
	}
	if test.TotalQuestions > len(validated) {
		return fmt.Errorf("%w: %d questions requested, %d eligible", ErrInsufficientPool, test.TotalQuestions, len(validated))
	}

	test.ID = primitive.NewObjectID().Hex()
	test.IsPublished = false
	test.CreatedAt = nowUTC()
	return s.Repo.Create(ctx, test)
}

func (s *TestService) PublishTest(ctx context.Context, id string) (*models.Test, error) {
	if _, err := s.GetTest(ctx, id); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, id, bson.M{"is_published": true}); err != nil {
		return nil, err
	}
	return s.GetTest(ctx, id)
}

// AddQuestionToPool curates a question into the test's pool. The unique
// (test, question) index rejects a duplicate curation.
func (s *TestService) AddQuestionToPool(ctx context.Context, testID, questionID, addedBy string) error {
	if _, err := s.GetTest(ctx, testID); err != nil {
		return err
	}
	question, err := s.QuestionRepo.FindByID(ctx, questionID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%w: question %s", ErrNotFound, questionID)
	}
	if err != nil {
		return err
	}
	if question.Status == models.QuestionStatusDeleted {
		return fmt.Errorf("%w: question %s is deleted", ErrValidation, questionID)
	}

	entry := &models.TestPoolEntry{
		ID:         primitive.NewObjectID().Hex(),
		TestID:     testID,
		QuestionID: questionID,
		AddedBy:    addedBy,
		AddedAt:    nowUTC(),
	}
	err = s.Repo.AddPoolEntry(ctx, entry)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: question already in pool", ErrValidation)
	}
	return err
}

func (s *TestService) RemoveQuestionFromPool(ctx context.Context, testID, questionID string) error {
	err := s.Repo.RemovePoolEntry(ctx, testID, questionID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%w: question not in pool", ErrNotFound)
	}
	return err
}

// ComposePool assembles the test's eligible question set: curated entries in
// curation order, then the peer-validated questions of the selected modules,
// deduplicated. Soft-deleted questions drop out of both halves.
func (s *TestService) ComposePool(ctx context.Context, test *models.Test) ([]models.Question, error) {
	entries, err := s.Repo.FindPoolEntries(ctx, test.ID)
	if err != nil {
		return nil, err
	}

	curatedIDs := make([]string, 0, len(entries))
	for _, e := range entries {
		curatedIDs = append(curatedIDs, e.QuestionID)
	}
	fetched, err := s.QuestionRepo.FindByIDs(ctx, curatedIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Question, len(fetched))
	for _, q := range fetched {
		if q.Status != models.QuestionStatusDeleted {
			byID[q.ID] = q
		}
	}
	curated := make([]models.Question, 0, len(entries))
	for _, e := range entries {
		if q, ok := byID[e.QuestionID]; ok {
			curated = append(curated, q)
		}
	}

	validated, err := s.QuestionRepo.FindValidatedByModules(ctx, test.SelectedModuleIDs)
	if err != nil {
		return nil, err
	}
	return pool.Compose(curated, validated), nil
}

// StartAttempt begins (or resumes) a student's run at a test. An in-progress
// attempt is returned unchanged; otherwise a fresh random sample is drawn and
// inserted, with the partial unique index catching a concurrent double start.
func (s *TestService) StartAttempt(ctx context.Context, testID, userID string) (*models.TestAttempt, bool, error) {
	test, err := s.GetTest(ctx, testID)
	if err != nil {
		return nil, false, err
	}
	if !test.IsPublished {
		return nil, false, fmt.Errorf("%w: test %s", ErrNotPublished, testID)
	}
	if !test.InWindow(nowUTC()) {
		return nil, false, fmt.Errorf("%w: test %s", ErrOutOfWindow, testID)
	}

	completed, err := s.AttemptRepo.CountCompleted(ctx, testID, userID)
	if err != nil {
		return nil, false, err
	}
	if completed >= int64(test.MaxAttempts) {
		return nil, false, fmt.Errorf("%w: %d of %d used", ErrMaxAttemptsReached, completed, test.MaxAttempts)
	}

	existing, err := s.AttemptRepo.FindInProgress(ctx, testID, userID)
	if err == nil {
		s.publishResumed(existing)
		return existing, true, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, err
	}

	eligible, err := s.ComposePool(ctx, test)
	if err != nil {
		return nil, false, err
	}
	if len(eligible) < test.TotalQuestions {
		return nil, false, fmt.Errorf("%w: pool has %d of %d questions", ErrInsufficientPool, len(eligible), test.TotalQuestions)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	sampled := pool.Sample(eligible, test.TotalQuestions, rng)

	attempt := &models.TestAttempt{
		ID:        primitive.NewObjectID().Hex(),
		TestID:    testID,
		UserID:    userID,
		Questions: make([]models.AttemptQuestion, len(sampled)),
		StartedAt: nowUTC(),
	}
	for i, q := range sampled {
		attempt.Questions[i] = models.AttemptQuestion{QuestionID: q.ID}
	}

	if err := s.AttemptRepo.Create(ctx, attempt); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost the race against a concurrent start: resume theirs.
			existing, ferr := s.AttemptRepo.FindInProgress(ctx, testID, userID)
			if ferr != nil {
				return nil, false, ferr
			}
			s.publishResumed(existing)
			return existing, true, nil
		}
		return nil, false, err
	}

	if s.Publisher != nil {
		s.Publisher.Publish(event.AttemptStarted, map[string]string{
			"attempt_id": attempt.ID,
			"test_id":    testID,
			"user_id":    userID,
		})
	}
	return attempt, false, nil
}

func (s *TestService) publishResumed(attempt *models.TestAttempt) {
	if s.Publisher == nil {
		return
	}
	s.Publisher.Publish(event.AttemptResumed, map[string]string{
		"attempt_id": attempt.ID,
		"test_id":    attempt.TestID,
		"user_id":    attempt.UserID,
	})
}

type SubmittedAnswer struct {
	QuestionID       string `json:"question_id"`
	SelectedAnswer   string `json:"selected_answer"`
	TimeSpentSeconds int    `json:"time_spent_seconds"`
}

type SubmissionResult struct {
	AttemptID      string `json:"attempt_id"`
	Score          int    `json:"score"`
	Passed         bool   `json:"passed"`
	CorrectAnswers int    `json:"correct_answers"`
	TotalQuestions int    `json:"total_questions"`
}

// SubmitAttempt grades and completes an attempt. Grading reads each
// question's correct option as stored now, so an edit between start and
// submit is honored. Completion is single-shot; a second submission fails.
func (s *TestService) SubmitAttempt(ctx context.Context, attemptID, userID string, answers []SubmittedAnswer) (*SubmissionResult, error) {
	attempt, err := s.AttemptRepo.FindByID(ctx, attemptID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: attempt %s", ErrNotFound, attemptID)
	}
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, fmt.Errorf("%w: attempt belongs to another user", ErrForbidden)
	}
	if attempt.IsCompleted {
		return nil, fmt.Errorf("%w: attempt %s", ErrAlreadyCompleted, attemptID)
	}

	test, err := s.GetTest(ctx, attempt.TestID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(attempt.Questions))
	for _, aq := range attempt.Questions {
		ids = append(ids, aq.QuestionID)
	}
	questions, err := s.QuestionRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	correctByQuestion := make(map[string]string, len(questions))
	for _, q := range questions {
		correctByQuestion[q.ID] = q.CorrectOption
	}

	answerByQuestion := make(map[string]string, len(answers))
	timeByQuestion := make(map[string]int, len(answers))
	for _, a := range answers {
		answerByQuestion[a.QuestionID] = a.SelectedAnswer
		timeByQuestion[a.QuestionID] = a.TimeSpentSeconds
	}

	graded, correctCount := scoring.GradeAttempt(attempt.Questions, answerByQuestion, correctByQuestion)
	for i := range graded {
		graded[i].TimeSpentSeconds = timeByQuestion[graded[i].QuestionID]
	}

	score := scoring.Score(correctCount, len(attempt.Questions))
	passed := scoring.Passed(score, test.PassingScorePercent)
	submittedAt := nowUTC()

	completedNow, err := s.AttemptRepo.Complete(ctx, attemptID, bson.M{
		"questions":    graded,
		"submitted_at": submittedAt,
		"score":        score,
		"passed":       passed,
		"is_completed": true,
	})
	if err != nil {
		return nil, err
	}
	if !completedNow {
		return nil, fmt.Errorf("%w: attempt %s", ErrAlreadyCompleted, attemptID)
	}

	if passed {
		s.Points.GrantBestEffort(ctx, &models.Point{
			StudentID:     userID,
			Points:        models.PointsForPassedTest,
			Reason:        fmt.Sprintf("Passed test %q with %d%%", test.Title, score),
			Category:      models.CategoryTestPerformance,
			RelatedEntity: &models.RelatedEntity{Type: "test", ID: test.ID},
		})
	}

	if s.Publisher != nil {
		s.Publisher.Publish(event.AttemptCompleted, map[string]interface{}{
			"attempt_id": attemptID,
			"test_id":    test.ID,
			"user_id":    userID,
			"score":      score,
			"passed":     passed,
		})
	}

	return &SubmissionResult{
		AttemptID:      attemptID,
		Score:          score,
		Passed:         passed,
		CorrectAnswers: correctCount,
		TotalQuestions: len(attempt.Questions),
	}, nil
}

// Statistics aggregates a test's completed attempts.
func (s *TestService) Statistics(ctx context.Context, testID string) (*scoring.TestStatistics, error) {
	if _, err := s.GetTest(ctx, testID); err != nil {
		return nil, err
	}
	attempts, err := s.AttemptRepo.FindCompletedByTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	stats := scoring.ComputeStatistics(attempts, hardestQuestionsLimit)
	return &stats, nil
}
