package service

import (
	"context"
	"time"

	"grading-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// In-memory stores for service tests. They reproduce the constraints the
// real collections carry: the unique batch index, the partial unique index
// on in-flight attempts, and the conditional milestone and completion
// updates.

func duplicateKeyErr() error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}}}
}

type memQuestionStore struct {
	questions []models.Question
	claimed   map[string]map[string]bool
}

func (m *memQuestionStore) FindAll(ctx context.Context) ([]models.Question, error) {
	var out []models.Question
	for _, q := range m.questions {
		if q.Status != models.QuestionStatusDeleted {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *memQuestionStore) FindByID(ctx context.Context, id string) (*models.Question, error) {
	for _, q := range m.questions {
		if q.ID == id {
			cp := q
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *memQuestionStore) FindByIDs(ctx context.Context, ids []string) ([]models.Question, error) {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var out []models.Question
	for _, q := range m.questions {
		if wanted[q.ID] {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *memQuestionStore) FindByModule(ctx context.Context, moduleID string) ([]models.Question, error) {
	var out []models.Question
	for _, q := range m.questions {
		if q.ModuleID == moduleID && q.Status != models.QuestionStatusDeleted {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *memQuestionStore) FindValidatedByModules(ctx context.Context, moduleIDs []string) ([]models.Question, error) {
	wanted := make(map[string]bool, len(moduleIDs))
	for _, id := range moduleIDs {
		wanted[id] = true
	}
	var out []models.Question
	for _, q := range m.questions {
		if wanted[q.ModuleID] && q.PeerValidated && q.Status != models.QuestionStatusDeleted {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *memQuestionStore) Create(ctx context.Context, question *models.Question) error {
	m.questions = append(m.questions, *question)
	return nil
}

func (m *memQuestionStore) Update(ctx context.Context, id string, update bson.M) error {
	return nil
}

func (m *memQuestionStore) Delete(ctx context.Context, id string) error {
	for i := range m.questions {
		if m.questions[i].ID == id {
			m.questions[i].Status = models.QuestionStatusDeleted
		}
	}
	return nil
}

func (m *memQuestionStore) ClaimPointsFlag(ctx context.Context, id, flag string) (bool, error) {
	if m.claimed == nil {
		m.claimed = make(map[string]map[string]bool)
	}
	if m.claimed[id] == nil {
		m.claimed[id] = make(map[string]bool)
	}
	if m.claimed[id][flag] {
		return false, nil
	}
	m.claimed[id][flag] = true
	return true, nil
}

type memPointStore struct {
	points []models.Point
}

func (m *memPointStore) Create(ctx context.Context, point *models.Point) error {
	m.points = append(m.points, *point)
	return nil
}

func (m *memPointStore) FindByID(ctx context.Context, id string) (*models.Point, error) {
	for _, p := range m.points {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *memPointStore) FindByStudent(ctx context.Context, studentID string) ([]models.Point, error) {
	var out []models.Point
	for _, p := range m.points {
		if p.StudentID == studentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPointStore) isAutoGrant(p models.Point, moduleID string) bool {
	return p.Category == models.CategoryQuestionValidation &&
		p.RelatedEntity != nil &&
		p.RelatedEntity.Type == "module" &&
		p.RelatedEntity.ID == moduleID
}

func (m *memPointStore) FindAutoGrants(ctx context.Context, moduleID string) ([]models.Point, error) {
	var out []models.Point
	for _, p := range m.points {
		if m.isAutoGrant(p, moduleID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPointStore) CountAutoGrants(ctx context.Context, studentID, moduleID string) (int64, error) {
	var n int64
	for _, p := range m.points {
		if p.StudentID == studentID && m.isAutoGrant(p, moduleID) {
			n++
		}
	}
	return n, nil
}

// Update applies every key it is given, so a test can detect a service
// leaking an immutable field into the update document.
func (m *memPointStore) Update(ctx context.Context, id string, update bson.M) error {
	for i := range m.points {
		if m.points[i].ID != id {
			continue
		}
		if v, ok := update["points"].(int); ok {
			m.points[i].Points = v
		}
		if v, ok := update["reason"].(string); ok {
			m.points[i].Reason = v
		}
		if v, ok := update["student_id"].(string); ok {
			m.points[i].StudentID = v
		}
		if v, ok := update["category"].(string); ok {
			m.points[i].Category = v
		}
		return nil
	}
	return mongo.ErrNoDocuments
}

func (m *memPointStore) Delete(ctx context.Context, id string) error {
	for i := range m.points {
		if m.points[i].ID == id {
			m.points = append(m.points[:i], m.points[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

type memAssignmentStore struct {
	batches     []models.AssignmentBatch
	assignments []models.QuestionAssignment
}

func (m *memAssignmentStore) CreateBatch(ctx context.Context, batch *models.AssignmentBatch) error {
	for _, b := range m.batches {
		if b.ModuleID == batch.ModuleID && b.WeekNumber == batch.WeekNumber {
			return duplicateKeyErr()
		}
	}
	m.batches = append(m.batches, *batch)
	return nil
}

func (m *memAssignmentStore) FindBatch(ctx context.Context, moduleID string, weekNumber int) (*models.AssignmentBatch, error) {
	for _, b := range m.batches {
		if b.ModuleID == moduleID && b.WeekNumber == weekNumber {
			cp := b
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *memAssignmentStore) Create(ctx context.Context, assignment *models.QuestionAssignment) error {
	m.assignments = append(m.assignments, *assignment)
	return nil
}

func (m *memAssignmentStore) FindByBatch(ctx context.Context, batchID string) ([]models.QuestionAssignment, error) {
	var out []models.QuestionAssignment
	for _, a := range m.assignments {
		if a.BatchID == batchID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAssignmentStore) FindByModuleAndUser(ctx context.Context, moduleID, userID string, weekNumber int) ([]models.QuestionAssignment, error) {
	var out []models.QuestionAssignment
	for _, a := range m.assignments {
		if a.ModuleID == moduleID && a.AssignedTo == userID && a.WeekNumber == weekNumber {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAssignmentStore) DeleteByModule(ctx context.Context, moduleID string) error {
	var batches []models.AssignmentBatch
	for _, b := range m.batches {
		if b.ModuleID != moduleID {
			batches = append(batches, b)
		}
	}
	m.batches = batches
	var assignments []models.QuestionAssignment
	for _, a := range m.assignments {
		if a.ModuleID != moduleID {
			assignments = append(assignments, a)
		}
	}
	m.assignments = assignments
	return nil
}

type memTestStore struct {
	tests   map[string]models.Test
	entries []models.TestPoolEntry
}

func (m *memTestStore) FindByID(ctx context.Context, id string) (*models.Test, error) {
	if t, ok := m.tests[id]; ok {
		cp := t
		return &cp, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *memTestStore) Create(ctx context.Context, test *models.Test) error {
	if m.tests == nil {
		m.tests = make(map[string]models.Test)
	}
	m.tests[test.ID] = *test
	return nil
}

func (m *memTestStore) Update(ctx context.Context, id string, update bson.M) error {
	t, ok := m.tests[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if v, ok := update["is_published"].(bool); ok {
		t.IsPublished = v
	}
	m.tests[id] = t
	return nil
}

func (m *memTestStore) AddPoolEntry(ctx context.Context, entry *models.TestPoolEntry) error {
	for _, e := range m.entries {
		if e.TestID == entry.TestID && e.QuestionID == entry.QuestionID {
			return duplicateKeyErr()
		}
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memTestStore) RemovePoolEntry(ctx context.Context, testID, questionID string) error {
	for i, e := range m.entries {
		if e.TestID == testID && e.QuestionID == questionID {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (m *memTestStore) FindPoolEntries(ctx context.Context, testID string) ([]models.TestPoolEntry, error) {
	var out []models.TestPoolEntry
	for _, e := range m.entries {
		if e.TestID == testID {
			out = append(out, e)
		}
	}
	return out, nil
}

type memAttemptStore struct {
	attempts map[string]models.TestAttempt

	// racing, when set, is inserted behind the caller's back on the next
	// FindInProgress miss, simulating a concurrent start that wins the
	// insert between the in-progress check and Create.
	racing *models.TestAttempt

	// staleReadOnce makes the next FindByID report the stored attempt as
	// not yet completed, simulating a read that raced a completion.
	staleReadOnce bool
}

func (m *memAttemptStore) FindByID(ctx context.Context, id string) (*models.TestAttempt, error) {
	a, ok := m.attempts[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := a
	if m.staleReadOnce {
		m.staleReadOnce = false
		cp.IsCompleted = false
	}
	return &cp, nil
}

func (m *memAttemptStore) Create(ctx context.Context, attempt *models.TestAttempt) error {
	for _, a := range m.attempts {
		if a.TestID == attempt.TestID && a.UserID == attempt.UserID && !a.IsCompleted {
			return duplicateKeyErr()
		}
	}
	if m.attempts == nil {
		m.attempts = make(map[string]models.TestAttempt)
	}
	m.attempts[attempt.ID] = *attempt
	return nil
}

func (m *memAttemptStore) FindInProgress(ctx context.Context, testID, userID string) (*models.TestAttempt, error) {
	for _, a := range m.attempts {
		if a.TestID == testID && a.UserID == userID && !a.IsCompleted {
			cp := a
			return &cp, nil
		}
	}
	if m.racing != nil {
		if m.attempts == nil {
			m.attempts = make(map[string]models.TestAttempt)
		}
		m.attempts[m.racing.ID] = *m.racing
		m.racing = nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *memAttemptStore) CountCompleted(ctx context.Context, testID, userID string) (int64, error) {
	var n int64
	for _, a := range m.attempts {
		if a.TestID == testID && a.UserID == userID && a.IsCompleted {
			n++
		}
	}
	return n, nil
}

func (m *memAttemptStore) Complete(ctx context.Context, id string, update bson.M) (bool, error) {
	a, ok := m.attempts[id]
	if !ok || a.IsCompleted {
		return false, nil
	}
	if v, ok := update["questions"].([]models.AttemptQuestion); ok {
		a.Questions = v
	}
	if v, ok := update["submitted_at"].(time.Time); ok {
		a.SubmittedAt = &v
	}
	if v, ok := update["score"].(int); ok {
		a.Score = &v
	}
	if v, ok := update["passed"].(bool); ok {
		a.Passed = &v
	}
	if v, ok := update["is_completed"].(bool); ok {
		a.IsCompleted = v
	}
	m.attempts[id] = a
	return true, nil
}

func (m *memAttemptStore) FindCompletedByTest(ctx context.Context, testID string) ([]models.TestAttempt, error) {
	var out []models.TestAttempt
	for _, a := range m.attempts {
		if a.TestID == testID && a.IsCompleted {
			out = append(out, a)
		}
	}
	return out, nil
}
