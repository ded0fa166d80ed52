package pool

import (
	"math/rand"

	"grading-service/internal/models"
)

// Compose builds a test's eligible question set: curated questions first, in
// curation order, then the peer-validated questions of the test's modules,
// deduplicated by id. Curated questions count even without peer validation.
func Compose(curated, validated []models.Question) []models.Question {
	seen := make(map[string]bool, len(curated)+len(validated))
	out := make([]models.Question, 0, len(curated)+len(validated))

	for _, q := range curated {
		if seen[q.ID] {
			continue
		}
		seen[q.ID] = true
		out = append(out, q)
	}
	for _, q := range validated {
		if seen[q.ID] {
			continue
		}
		seen[q.ID] = true
		out = append(out, q)
	}
	return out
}

// Sample draws count questions uniformly without replacement. The pool is not
// mutated. Callers must have checked sufficiency already; a short pool returns
// everything it has.
func Sample(questions []models.Question, count int, rng *rand.Rand) []models.Question {
	shuffledPool := make([]models.Question, len(questions))
	copy(shuffledPool, questions)
	rng.Shuffle(len(shuffledPool), func(i, j int) {
		shuffledPool[i], shuffledPool[j] = shuffledPool[j], shuffledPool[i]
	})
	if count > len(shuffledPool) {
		count = len(shuffledPool)
	}
	return shuffledPool[:count]
}
