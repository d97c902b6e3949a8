package grading

import (
	"fmt"
	"sort"

	"github.com/rubenor28/EduZasAPI-sub001/internal/exam"
)

// AnswerGrade is the aggregated scored outcome for one student's Answer.
// It is produced fresh on every call and never persisted here.
type AnswerGrade struct {
	StudentID   string  `json:"student_id"`
	Points      float64 `json:"points"`
	TotalPoints float64 `json:"total_points"`
	Details     []Grade `json:"details"` // ordered by question id
}

// GradeAnswer scores one student's full answer set against a test.
//
// When the test requires manual grades that the answer metadata does not yet
// carry, it returns *MissingManualGradeError: an expected condition, not a
// fault. A test question with no matching answer entry is a fault.
func GradeAnswer(a exam.Answer, t exam.Test) (AnswerGrade, error) {
	// Snapshot the reviewer decisions once; concurrent graders must not
	// observe a half-updated map.
	manual := make(map[string]bool, len(a.Metadata.ManualGrade))
	for id, v := range a.Metadata.ManualGrade {
		manual[id] = v
	}

	var missing []string
	for _, id := range t.RequiresManualGrade {
		if _, ok := manual[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return AnswerGrade{}, &MissingManualGradeError{QuestionIDs: missing}
	}

	ids := make([]string, 0, len(t.Content))
	for id := range t.Content {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := AnswerGrade{StudentID: a.StudentID, Details: make([]Grade, 0, len(ids))}
	for _, id := range ids {
		q := t.Content[id]
		qa, ok := a.Content[id]
		if !ok {
			return AnswerGrade{}, fmt.Errorf("student %s, question %s: %w",
				a.StudentID, id, ErrAnswerEntryMissing)
		}
		var override *bool
		if v, ok := manual[id]; ok {
			v := v
			override = &v
		}
		g, err := Score(q, qa, override)
		if err != nil {
			return AnswerGrade{}, err
		}
		out.Points += g.Points
		out.TotalPoints += g.TotalPoints
		out.Details = append(out.Details, g)
	}
	return out, nil
}
