package grading

import (
	"fmt"

	"github.com/rubenor28/EduZasAPI-sub001/internal/exam"
)

// Grade is the scored outcome for one question within one answer. Besides the
// points it carries the comparison detail needed for audit display; only the
// fields for its Kind are set.
type Grade struct {
	QuestionID  string    `json:"question_id"`
	Kind        exam.Kind `json:"kind"`
	Title       string    `json:"title"`
	Points      float64   `json:"points"`
	TotalPoints float64   `json:"total_points"`
	NeedsManual bool      `json:"needs_manual,omitempty"`

	SelectedOption  string            `json:"selected_option,omitempty"`
	CorrectOption   string            `json:"correct_option,omitempty"`
	SelectedOptions []string          `json:"selected_options,omitempty"`
	CorrectOptions  []string          `json:"correct_options,omitempty"`
	Sequence        []string          `json:"sequence,omitempty"`
	CorrectSequence []string          `json:"correct_sequence,omitempty"`
	Pairs           map[string]string `json:"pairs,omitempty"`
	CorrectPairs    map[string]string `json:"correct_pairs,omitempty"`
	Response        string            `json:"response,omitempty"`

	// ManualCorrect records a reviewer decision when one exists. For
	// automatically comparable kinds it is audit-only and never changes
	// the points.
	ManualCorrect *bool `json:"manual_correct,omitempty"`
}

// strategy scores a single (question, answer, manual override) triple.
// The kind match is checked before dispatch, so strategies may assume it.
type strategy interface {
	score(q exam.Question, a exam.QuestionAnswer, manual *bool) Grade
}

var strategies = map[exam.Kind]strategy{
	exam.KindMultipleChoice:    multipleChoiceStrategy{},
	exam.KindMultipleSelection: multipleSelectionStrategy{},
	exam.KindOrdering:          orderingStrategy{},
	exam.KindConceptRelation:   conceptRelationStrategy{},
	exam.KindOpen:              openStrategy{},
}

// Score grades one question. Pure; safe from any number of workers.
// A (question kind, answer kind) mismatch or an unknown kind is a fatal
// contract violation, never a recoverable condition.
func Score(q exam.Question, a exam.QuestionAnswer, manual *bool) (Grade, error) {
	if q.Kind != a.Kind {
		return Grade{}, fmt.Errorf("question %s: %w: question is %s, answer is %s",
			q.ID, ErrKindMismatch, q.Kind, a.Kind)
	}
	s, ok := strategies[q.Kind]
	if !ok {
		return Grade{}, fmt.Errorf("question %s: unknown question kind %q", q.ID, q.Kind)
	}
	return s.score(q, a, manual), nil
}

// questionWeight is the question's points total: explicit weight when set,
// otherwise a uniform 1.
func questionWeight(q exam.Question) float64 {
	if q.Weight > 0 {
		return q.Weight
	}
	return 1
}

func baseGrade(q exam.Question, manual *bool) Grade {
	return Grade{
		QuestionID:    q.ID,
		Kind:          q.Kind,
		Title:         q.Title,
		TotalPoints:   questionWeight(q),
		ManualCorrect: manual,
	}
}

type multipleChoiceStrategy struct{}

func (multipleChoiceStrategy) score(q exam.Question, a exam.QuestionAnswer, manual *bool) Grade {
	g := baseGrade(q, manual)
	g.SelectedOption = a.SelectedOption
	g.CorrectOption = q.CorrectOption
	// The automatic comparison always wins; a manual override is recorded
	// for audit but does not flip the points.
	if a.SelectedOption == q.CorrectOption {
		g.Points = g.TotalPoints
	}
	return g
}

// multipleSelectionStrategy applies the exact-set rule: full credit iff the
// selected set equals the correct set, zero otherwise.
type multipleSelectionStrategy struct{}

func (multipleSelectionStrategy) score(q exam.Question, a exam.QuestionAnswer, manual *bool) Grade {
	g := baseGrade(q, manual)
	g.SelectedOptions = a.SelectedOptions
	g.CorrectOptions = q.CorrectOptions
	if equalStringSets(a.SelectedOptions, q.CorrectOptions) {
		g.Points = g.TotalPoints
	}
	return g
}

type orderingStrategy struct{}

func (orderingStrategy) score(q exam.Question, a exam.QuestionAnswer, manual *bool) Grade {
	g := baseGrade(q, manual)
	g.Sequence = a.Sequence
	g.CorrectSequence = q.CorrectSequence
	if equalSequences(a.Sequence, q.CorrectSequence) {
		g.Points = g.TotalPoints
	}
	return g
}

type conceptRelationStrategy struct{}

func (conceptRelationStrategy) score(q exam.Question, a exam.QuestionAnswer, manual *bool) Grade {
	g := baseGrade(q, manual)
	g.Pairs = a.Pairs
	g.CorrectPairs = q.CorrectPairs
	if equalPairs(a.Pairs, q.CorrectPairs) {
		g.Points = g.TotalPoints
	}
	return g
}

// openStrategy cannot judge automatically: the reviewer decision is the
// score. Without one the question is worth 0 and flagged NeedsManual.
type openStrategy struct{}

func (openStrategy) score(q exam.Question, a exam.QuestionAnswer, manual *bool) Grade {
	g := baseGrade(q, manual)
	g.Response = a.Response
	if manual == nil {
		g.NeedsManual = true
		return g
	}
	if *manual {
		g.Points = g.TotalPoints
	}
	return g
}

func equalStringSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := map[string]int{}
	for _, s := range a {
		seen[s]++
	}
	for _, s := range b {
		seen[s]--
	}
	for _, v := range seen {
		if v != 0 {
			return false
		}
	}
	return true
}

func equalSequences(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalPairs(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}
