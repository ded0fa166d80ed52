package pool

import (
	"math/rand"
	"testing"

	"grading-service/internal/models"
)

func q(id string, peerValidated bool) models.Question {
	return models.Question{ID: id, PeerValidated: peerValidated}
}

func TestComposeCuratedFirst(t *testing.T) {
	curated := []models.Question{q("c1", false), q("c2", true)}
	validated := []models.Question{q("v1", true), q("v2", true)}

	got := Compose(curated, validated)

	if len(got) != 4 {
		t.Fatalf("expected 4 questions, got %d", len(got))
	}
	if got[0].ID != "c1" || got[1].ID != "c2" {
		t.Errorf("curated questions must lead the pool, got %s, %s", got[0].ID, got[1].ID)
	}
}

func TestComposeIncludesUnvalidatedCurated(t *testing.T) {
	// An explicitly curated question is eligible even without peer validation.
	got := Compose([]models.Question{q("c1", false)}, nil)
	if len(got) != 1 || got[0].ID != "c1" {
		t.Fatalf("expected unvalidated curated question in pool, got %v", got)
	}
}

func TestComposeDeduplicates(t *testing.T) {
	curated := []models.Question{q("x", true)}
	validated := []models.Question{q("x", true), q("y", true)}

	got := Compose(curated, validated)

	if len(got) != 2 {
		t.Fatalf("expected 2 questions after dedup, got %d", len(got))
	}
	counts := make(map[string]int)
	for _, question := range got {
		counts[question.ID]++
	}
	if counts["x"] != 1 {
		t.Errorf("question x appears %d times, want 1", counts["x"])
	}
}

func TestComposeEmptyInputs(t *testing.T) {
	if got := Compose(nil, nil); len(got) != 0 {
		t.Errorf("expected empty pool, got %d questions", len(got))
	}
}

func TestSampleWithoutReplacement(t *testing.T) {
	pool := []models.Question{q("a", true), q("b", true), q("c", true), q("d", true), q("e", true)}

	for seed := int64(0); seed < 10; seed++ {
		rng := rand.New(rand.NewSource(seed))
		got := Sample(pool, 3, rng)

		if len(got) != 3 {
			t.Fatalf("seed %d: expected 3 questions, got %d", seed, len(got))
		}
		seen := make(map[string]bool)
		for _, question := range got {
			if seen[question.ID] {
				t.Fatalf("seed %d: question %s sampled twice", seed, question.ID)
			}
			seen[question.ID] = true
		}
	}
}

func TestSampleDoesNotMutatePool(t *testing.T) {
	pool := []models.Question{q("a", true), q("b", true), q("c", true)}
	rng := rand.New(rand.NewSource(42))

	Sample(pool, 2, rng)

	for i, id := range []string{"a", "b", "c"} {
		if pool[i].ID != id {
			t.Fatalf("pool order changed at %d: got %s, want %s", i, pool[i].ID, id)
		}
	}
}

func TestSampleShortPool(t *testing.T) {
	pool := []models.Question{q("a", true)}
	rng := rand.New(rand.NewSource(1))
	if got := Sample(pool, 5, rng); len(got) != 1 {
		t.Errorf("expected the whole short pool, got %d questions", len(got))
	}
}
