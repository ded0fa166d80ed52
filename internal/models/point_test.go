package models

import "testing"

func TestSummarizePoints(t *testing.T) {
	grants := []Point{
		{StudentID: "s1", Category: CategoryQuestionCreation, Points: 1},
		{StudentID: "s1", Category: CategoryQuestionCreation, Points: 1},
		{StudentID: "s1", Category: CategoryQuestionValidation, Points: 2},
		{StudentID: "s1", Category: CategoryTestPerformance, Points: 3},
	}

	summary := SummarizePoints("s1", grants)

	if summary.Total != 7 {
		t.Errorf("expected total 7, got %d", summary.Total)
	}
	if summary.ByCategory[CategoryQuestionCreation] != 2 {
		t.Errorf("expected 2 creation points, got %d", summary.ByCategory[CategoryQuestionCreation])
	}
	if summary.ByCategory[CategoryQuestionValidation] != 2 {
		t.Errorf("expected 2 validation points, got %d", summary.ByCategory[CategoryQuestionValidation])
	}
}

func TestSummarizePointsUnknownCategory(t *testing.T) {
	// Legacy or external categories are bucketed under their literal name,
	// never dropped.
	grants := []Point{
		{StudentID: "s1", Category: "legacy_bonus", Points: 5},
	}

	summary := SummarizePoints("s1", grants)

	if summary.ByCategory["legacy_bonus"] != 5 {
		t.Errorf("expected unknown category kept literally, got %v", summary.ByCategory)
	}
	if summary.Total != 5 {
		t.Errorf("expected total 5, got %d", summary.Total)
	}
}

func TestSummarizePointsEmpty(t *testing.T) {
	summary := SummarizePoints("s1", nil)
	if summary.Total != 0 || len(summary.ByCategory) != 0 {
		t.Errorf("expected empty summary, got %+v", summary)
	}
}

func TestIsValidCategory(t *testing.T) {
	for _, c := range PointCategories {
		if !IsValidCategory(c) {
			t.Errorf("expected %s to be valid", c)
		}
	}
	if IsValidCategory("made_up") {
		t.Error("expected made_up to be invalid")
	}
}
