package distribution

import (
	"math/rand"

	"grading-service/internal/models"
)

// PlannedAssignment is one "user reviews question" pairing produced by a
// distribution run, before persistence.
type PlannedAssignment struct {
	QuestionID string
	AssignedTo string
}

// ShortageGrant marks one validation slot that could not be filled with any
// question; the author is compensated with an automatic point instead.
type ShortageGrant struct {
	AuthorID string
}

type Plan struct {
	Assignments    []PlannedAssignment
	ShortageGrants []ShortageGrant
	PerQuestion    map[string]int
}

// BuildPlan partitions a module's question pool among its authors for peer
// validation. Every author ends up with exactly slotsPerAuthor validation
// duties, satisfied in order of preference: an unreused question by someone
// else, a reused question by someone else, or an automatic shortage grant.
//
// The first pass draws from a single shared shuffle so no question is handed
// to two reviewers while unreused ones remain. The reuse pass draws from an
// independent shuffle of the full set, since reuse is already necessary at
// that point.
func BuildPlan(questions []models.Question, slotsPerAuthor int, rng *rand.Rand) Plan {
	plan := Plan{PerQuestion: make(map[string]int)}

	authors := distinctAuthors(questions)
	if len(authors) == 0 {
		return plan
	}

	pool := shuffled(questions, rng)
	globallyAssigned := make(map[string]bool)

	for _, author := range authors {
		mine := make(map[string]bool)
		filled := 0

		for _, q := range pool {
			if filled == slotsPerAuthor {
				break
			}
			if q.AuthorID == author || globallyAssigned[q.ID] {
				continue
			}
			plan.assign(q.ID, author)
			globallyAssigned[q.ID] = true
			mine[q.ID] = true
			filled++
		}

		if filled < slotsPerAuthor {
			for _, q := range shuffled(questions, rng) {
				if filled == slotsPerAuthor {
					break
				}
				if q.AuthorID == author || mine[q.ID] {
					continue
				}
				plan.assign(q.ID, author)
				mine[q.ID] = true
				filled++
			}
		}

		for ; filled < slotsPerAuthor; filled++ {
			plan.ShortageGrants = append(plan.ShortageGrants, ShortageGrant{AuthorID: author})
		}
	}

	return plan
}

func (p *Plan) assign(questionID, userID string) {
	p.Assignments = append(p.Assignments, PlannedAssignment{QuestionID: questionID, AssignedTo: userID})
	p.PerQuestion[questionID]++
}

// distinctAuthors preserves first-appearance order so a run is deterministic
// for a given stored question order and random seed.
func distinctAuthors(questions []models.Question) []string {
	seen := make(map[string]bool)
	var authors []string
	for _, q := range questions {
		if !seen[q.AuthorID] {
			seen[q.AuthorID] = true
			authors = append(authors, q.AuthorID)
		}
	}
	return authors
}

func shuffled(questions []models.Question, rng *rand.Rand) []models.Question {
	out := make([]models.Question, len(questions))
	copy(out, questions)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
