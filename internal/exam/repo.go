package exam

import (
	"context"
	"errors"
)

var (
	ErrTestNotFound   = errors.New("test not found")
	ErrClassNotFound  = errors.New("class not found")
	ErrAnswerNotFound = errors.New("answer not found")
	ErrUserNotFound   = errors.New("user not found")
)

// AnswerPage is one page of submissions for a (test, class) pair.
type AnswerPage struct {
	Items      []Answer `json:"items"`
	TotalPages int      `json:"total_pages"`
}

// AnswerPageSource hands out submissions page by page. Pages are 0-based;
// callers drain until page+1 >= TotalPages.
type AnswerPageSource interface {
	GetAnswerPage(ctx context.Context, testID, classID string, page int) (AnswerPage, error)
}

// UserLookup resolves ids to display data. A missing user for an id that
// already produced a graded answer is a contract breach, not a 404.
type UserLookup interface {
	GetUser(ctx context.Context, id string) (User, error)
}

// Store is the persistence boundary for tests, answers, classes and users.
type Store interface {
	AnswerPageSource
	UserLookup

	PutTest(ctx context.Context, t Test) error
	GetTest(ctx context.Context, id string) (Test, error)

	GetClass(ctx context.Context, id string) (Class, error)

	PutAnswer(ctx context.Context, a Answer) error
	GetAnswer(ctx context.Context, testID, classID, studentID string) (Answer, error)

	// ApplyManualGrades merges reviewer decisions into the answer metadata.
	ApplyManualGrades(ctx context.Context, testID, classID, studentID string, grades map[string]bool) (Answer, error)

	// AppendEvent records an audit event (report_built, manual_grades_applied).
	AppendEvent(ctx context.Context, typ, key string, data any) error
}
