package models

import "time"

type Option struct {
	ID   string `bson:"id" json:"id"`
	Text string `bson:"text" json:"text"`
}

// OptionIDs is the fixed answer-option layout of every question.
var OptionIDs = []string{"a", "b", "c", "d"}

type AuthorAgreement struct {
	Agreed  *bool  `bson:"agreed" json:"agreed"`
	Comment string `bson:"comment" json:"comment"`
}

// PointsAwarded records which point milestones have already been credited for
// this question. Each flag flips false -> true exactly once; the flip is a
// conditional update so two concurrent graders cannot double-credit.
type PointsAwarded struct {
	Creation   bool `bson:"creation" json:"creation"`
	Validation bool `bson:"validation" json:"validation"`
	Reparation bool `bson:"reparation" json:"reparation"`
}

type Question struct {
	ID                       string          `bson:"_id,omitempty" json:"id"`
	Text                     string          `bson:"text" json:"text"`
	Options                  []Option        `bson:"options" json:"options"`
	CorrectOption            string          `bson:"correct_option" json:"correct_option"`
	ModuleID                 string          `bson:"module_id" json:"module_id"`
	AuthorID                 string          `bson:"author_id" json:"author_id"`
	PeerValidated            bool            `bson:"peer_validated" json:"peer_validated"`
	PeerValidationComment    string          `bson:"peer_validation_comment" json:"peer_validation_comment"`
	PeerValidatorID          string          `bson:"peer_validator_id" json:"peer_validator_id"`
	TeacherValidated         bool            `bson:"teacher_validated" json:"teacher_validated"`
	TeacherValidationComment string          `bson:"teacher_validation_comment" json:"teacher_validation_comment"`
	AuthorAgreement          AuthorAgreement `bson:"author_agreement" json:"author_agreement"`
	PointsAwarded            PointsAwarded   `bson:"points_awarded" json:"points_awarded"`
	Status                   string          `bson:"status" json:"status"`
	CreatedAt                time.Time       `bson:"created_at" json:"created_at"`
}

const QuestionStatusDeleted = "deleted"

// HasOption reports whether id is one of the question's answer options.
func (q *Question) HasOption(id string) bool {
	for _, opt := range q.Options {
		if opt.ID == id {
			return true
		}
	}
	return false
}

// ValidateOptions checks that the question carries the full a..d option set
// and that the correct option is one of them.
func (q *Question) ValidateOptions() bool {
	if len(q.Options) != len(OptionIDs) {
		return false
	}
	seen := make(map[string]bool, len(q.Options))
	for _, opt := range q.Options {
		seen[opt.ID] = true
	}
	for _, id := range OptionIDs {
		if !seen[id] {
			return false
		}
	}
	return q.HasOption(q.CorrectOption)
}
