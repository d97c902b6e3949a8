package exam

import "time"

// Kind tags a Question and its paired QuestionAnswer. Grading dispatches on
// this tag and refuses mismatched pairs.
type Kind string

const (
	KindMultipleChoice    Kind = "multiple_choice"
	KindMultipleSelection Kind = "multiple_selection"
	KindOrdering          Kind = "ordering"
	KindConceptRelation   Kind = "concept_relation"
	KindOpen              Kind = "open"
)

// Question is one item of a Test. Only the fields for its Kind are set.
type Question struct {
	ID    string `json:"id"`
	Kind  Kind   `json:"kind"`
	Title string `json:"title"`

	CorrectOption   string            `json:"correct_option,omitempty"`   // multiple_choice
	CorrectOptions  []string          `json:"correct_options,omitempty"`  // multiple_selection
	CorrectSequence []string          `json:"correct_sequence,omitempty"` // ordering
	CorrectPairs    map[string]string `json:"correct_pairs,omitempty"`    // concept_relation

	// Weight defaults to 1 when zero or negative.
	Weight float64 `json:"weight,omitempty"`
}

// QuestionAnswer is a student's response to one Question. Its Kind must match
// the Question it answers.
type QuestionAnswer struct {
	Kind Kind `json:"kind"`

	SelectedOption  string            `json:"selected_option,omitempty"`  // multiple_choice
	SelectedOptions []string          `json:"selected_options,omitempty"` // multiple_selection
	Sequence        []string          `json:"sequence,omitempty"`         // ordering
	Pairs           map[string]string `json:"pairs,omitempty"`            // concept_relation
	Response        string            `json:"response,omitempty"`         // open
}

// Test is the immutable definition of a composite assessment. Once fetched
// for grading it is shared read-only across workers.
type Test struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ProfessorID string `json:"professor_id"`

	// Content maps question id -> question; iteration order is irrelevant.
	Content map[string]Question `json:"content"`

	// RequiresManualGrade lists question ids that need a reviewer decision
	// before a definitive score exists.
	RequiresManualGrade []string `json:"requires_manual_grade,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
}

// AnswerMetadata carries reviewer state attached to an Answer.
type AnswerMetadata struct {
	// ManualGrade maps question id -> reviewer correctness decision.
	// Key presence, not the value, is what gates grading.
	ManualGrade map[string]bool `json:"manual_grade,omitempty"`
	TryFinished bool            `json:"try_finished"`
}

// Answer is one student's full submission against a Test.
type Answer struct {
	StudentID string `json:"student_id"`
	TestID    string `json:"test_id"`
	ClassID   string `json:"class_id"`

	// Content maps question id -> response; must be pairwise kind-matched
	// with the Test's Content for the same id.
	Content map[string]QuestionAnswer `json:"content"`

	Metadata AnswerMetadata `json:"metadata"`
}

// User is the slice of a user record that report decoration needs.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Class is a course group a Test is applied to.
type Class struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ProfessorID string `json:"professor_id"`
}
