package models

import "time"

// Point categories. Unknown categories found in the store are still summed
// under their literal value, never dropped.
const (
	CategoryQuestionCreation   = "question_creation"
	CategoryQuestionValidation = "question_validation"
	CategoryQuestionReparation = "question_reparation"
	CategoryTestPerformance    = "test_performance"
	CategoryForumParticipation = "forum_participation"
	CategoryProjectWork        = "project_work"
	CategoryOther              = "other"
)

var PointCategories = []string{
	CategoryQuestionCreation,
	CategoryQuestionValidation,
	CategoryQuestionReparation,
	CategoryTestPerformance,
	CategoryForumParticipation,
	CategoryProjectWork,
	CategoryOther,
}

// Point values for the automatic milestone grants.
const (
	PointsForCreation        = 1
	PointsForValidation      = 1
	PointsForReparation      = 1
	PointsForPassedTest      = 1
	PointsPerShortageSlot    = 1
	ValidationSlotsPerAuthor = 2
	ValidationWeekNumber     = 2
)

func IsValidCategory(category string) bool {
	for _, c := range PointCategories {
		if c == category {
			return true
		}
	}
	return false
}

type RelatedEntity struct {
	Type string `bson:"type" json:"type"`
	ID   string `bson:"id" json:"id"`
}

type Point struct {
	ID            string         `bson:"_id,omitempty" json:"id"`
	StudentID     string         `bson:"student_id" json:"student_id"`
	AwardedBy     string         `bson:"awarded_by,omitempty" json:"awarded_by,omitempty"`
	Reason        string         `bson:"reason" json:"reason"`
	Points        int            `bson:"points" json:"points"`
	Category      string         `bson:"category" json:"category"`
	RelatedEntity *RelatedEntity `bson:"related_entity,omitempty" json:"related_entity,omitempty"`
	CreatedAt     time.Time      `bson:"created_at" json:"created_at"`
}

type PointSummary struct {
	StudentID  string         `json:"student_id"`
	ByCategory map[string]int `json:"by_category"`
	Total      int            `json:"total"`
}

// SummarizePoints aggregates a student's grants by category. The summary is
// computed on demand from the full grant list; no running total is stored.
func SummarizePoints(studentID string, grants []Point) PointSummary {
	summary := PointSummary{
		StudentID:  studentID,
		ByCategory: make(map[string]int),
	}
	for _, grant := range grants {
		summary.ByCategory[grant.Category] += grant.Points
		summary.Total += grant.Points
	}
	return summary
}
