package grading

import (
	"errors"
	"fmt"
	"strings"
)

// Fatal faults. These mean the stored data broke the Test/Answer contract
// upstream; they are never surfaced as user errors.
var (
	ErrKindMismatch       = errors.New("question/answer kind mismatch")
	ErrAnswerEntryMissing = errors.New("no answer entry for question")
)

// MissingManualGradeError is the expected "not ready to grade" condition:
// one or more manually-graded questions still lack a reviewer decision.
type MissingManualGradeError struct {
	QuestionIDs []string // sorted
}

func (e *MissingManualGradeError) Error() string {
	return fmt.Sprintf("manual grade missing for questions: %s", strings.Join(e.QuestionIDs, ", "))
}

// IndividualGradeError attributes a grading failure to one student inside a
// batch. It is collected alongside successes and never aborts siblings.
type IndividualGradeError struct {
	StudentID string
	Err       error
}

func (e *IndividualGradeError) Error() string {
	return fmt.Sprintf("student %s: %v", e.StudentID, e.Err)
}

func (e *IndividualGradeError) Unwrap() error { return e.Err }
