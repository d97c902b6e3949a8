package report

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rubenor28/EduZasAPI-sub001/internal/exam"
)

/* ---------------- In-memory fake that satisfies report.Backend ---------------- */

type fakeBackend struct {
	test  exam.Test
	class exam.Class
	users map[string]exam.User
	pages [][]exam.Answer

	pageCalls int
}

func (f *fakeBackend) GetTest(_ context.Context, id string) (exam.Test, error) {
	if id != f.test.ID {
		return exam.Test{}, exam.ErrTestNotFound
	}
	return f.test, nil
}

func (f *fakeBackend) GetClass(_ context.Context, id string) (exam.Class, error) {
	if id != f.class.ID {
		return exam.Class{}, exam.ErrClassNotFound
	}
	return f.class, nil
}

func (f *fakeBackend) GetUser(_ context.Context, id string) (exam.User, error) {
	u, ok := f.users[id]
	if !ok {
		return exam.User{}, exam.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeBackend) GetAnswerPage(_ context.Context, _, _ string, page int) (exam.AnswerPage, error) {
	f.pageCalls++
	if page >= len(f.pages) {
		return exam.AnswerPage{Items: []exam.Answer{}, TotalPages: len(f.pages)}, nil
	}
	return exam.AnswerPage{Items: f.pages[page], TotalPages: len(f.pages)}, nil
}

/* ------------------------------------------ Fixtures ------------------------------------------ */

func fixtureTest() exam.Test {
	return exam.Test{
		ID:          "test-1",
		Title:       "Algebra Midterm",
		ProfessorID: "prof-1",
		Content: map[string]exam.Question{
			"q1": {ID: "q1", Kind: exam.KindMultipleChoice, CorrectOption: "B"},
			"q2": {ID: "q2", Kind: exam.KindOrdering, CorrectSequence: []string{"x", "y"}},
		},
		CreatedAt: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	}
}

// fixtureAnswer scores `correct` of the 2 questions for studentID.
func fixtureAnswer(studentID string, correct int) exam.Answer {
	a := exam.Answer{
		StudentID: studentID,
		TestID:    "test-1",
		ClassID:   "class-1",
		Content: map[string]exam.QuestionAnswer{
			"q1": {Kind: exam.KindMultipleChoice, SelectedOption: "A"},
			"q2": {Kind: exam.KindOrdering, Sequence: []string{"y", "x"}},
		},
		Metadata: exam.AnswerMetadata{TryFinished: true},
	}
	if correct >= 1 {
		a.Content["q1"] = exam.QuestionAnswer{Kind: exam.KindMultipleChoice, SelectedOption: "B"}
	}
	if correct >= 2 {
		a.Content["q2"] = exam.QuestionAnswer{Kind: exam.KindOrdering, Sequence: []string{"x", "y"}}
	}
	return a
}

func fixtureBackend(pages ...[]exam.Answer) *fakeBackend {
	users := map[string]exam.User{
		"prof-1": {ID: "prof-1", Name: "Prof. Rivera", Role: "professor"},
	}
	for _, page := range pages {
		for _, a := range page {
			users[a.StudentID] = exam.User{ID: a.StudentID, Name: "Student " + a.StudentID, Role: "student"}
		}
	}
	return &fakeBackend{
		test:  fixtureTest(),
		class: exam.Class{ID: "class-1", Name: "Group A", ProfessorID: "prof-1"},
		users: users,
		pages: pages,
	}
}

/* ------------------------------------------ Tests ------------------------------------------ */

func TestBuild_DrainsAllPagesAndDecorates(t *testing.T) {
	f := fixtureBackend(
		[]exam.Answer{fixtureAnswer("s1", 2), fixtureAnswer("s2", 1)},
		[]exam.Answer{fixtureAnswer("s3", 0)},
	)
	b := NewBuilder(f, 0.6)

	rep, err := b.Build(context.Background(), "test-1", "class-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.pageCalls != 2 {
		t.Fatalf("page calls = %d, want 2", f.pageCalls)
	}
	if rep.TestTitle != "Algebra Midterm" || rep.ClassName != "Group A" || rep.ProfessorName != "Prof. Rivera" {
		t.Fatalf("header fields wrong: %+v", rep)
	}
	if !rep.TestDate.Equal(fixtureTest().CreatedAt) {
		t.Fatalf("test date = %v", rep.TestDate)
	}
	if rep.TotalStudents != 3 || len(rep.Results) != 3 {
		t.Fatalf("students = %d, results = %d, want 3/3", rep.TotalStudents, len(rep.Results))
	}
	if rep.PassThreshold != 0.6 {
		t.Fatalf("pass threshold = %v, want 0.6", rep.PassThreshold)
	}
	// Ascending by grade: s3 (0%), s2 (50%), s1 (100%).
	wantOrder := []string{"s3", "s2", "s1"}
	for i, r := range rep.Results {
		if r.StudentID != wantOrder[i] {
			t.Fatalf("results[%d] = %s, want %s", i, r.StudentID, wantOrder[i])
		}
		if r.StudentName != "Student "+r.StudentID {
			t.Fatalf("results[%d] name = %q", i, r.StudentName)
		}
	}
	if rep.PassPercentage != 33.33 {
		t.Fatalf("pass rate = %v, want 33.33", rep.PassPercentage)
	}
	if len(rep.Errors) != 0 {
		t.Fatalf("expected no grade errors, got %+v", rep.Errors)
	}
}

func TestBuild_NoAnswersYetIsConflict(t *testing.T) {
	b := NewBuilder(fixtureBackend(), 0.6)

	_, err := b.Build(context.Background(), "test-1", "class-1")
	if !errors.Is(err, ErrNoAnswersYet) {
		t.Fatalf("expected ErrNoAnswersYet, got %v", err)
	}
}

func TestBuild_CarriesGradeErrorsIntoReport(t *testing.T) {
	tst := fixtureTest()
	tst.Content["q3"] = exam.Question{ID: "q3", Kind: exam.KindOpen}
	tst.RequiresManualGrade = []string{"q3"}

	pending := fixtureAnswer("s1", 2)
	pending.Content["q3"] = exam.QuestionAnswer{Kind: exam.KindOpen, Response: "essay"}

	f := fixtureBackend([]exam.Answer{pending})
	f.test = tst
	b := NewBuilder(f, 0.6)

	rep, err := b.Build(context.Background(), "test-1", "class-1")
	if err != nil {
		t.Fatalf("answers exist, so this is an empty report, not an error: %v", err)
	}
	if rep.TotalStudents != 0 || len(rep.Results) != 0 {
		t.Fatalf("expected zero successes, got %+v", rep)
	}
	if rep.AveragePercentage != 0 || rep.StandardDeviationPercentage != 0 {
		t.Fatalf("expected zero aggregates, got %+v", rep)
	}
	if len(rep.Errors) != 1 || rep.Errors[0].StudentID != "s1" {
		t.Fatalf("expected one grade error for s1, got %+v", rep.Errors)
	}
	if rep.Errors[0].StudentName != "Student s1" {
		t.Fatalf("grade error not decorated: %+v", rep.Errors[0])
	}
	if rep.Errors[0].ErrorMessage == "" {
		t.Fatalf("grade error lost its message")
	}
}

func TestBuild_MissingUserIsFatal(t *testing.T) {
	f := fixtureBackend([]exam.Answer{fixtureAnswer("s1", 1)})
	delete(f.users, "s1") // graded student with no user record: contract breach

	b := NewBuilder(f, 0.6)
	_, err := b.Build(context.Background(), "test-1", "class-1")
	if !errors.Is(err, exam.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestBuild_UnknownTestOrClass(t *testing.T) {
	b := NewBuilder(fixtureBackend(), 0.6)

	if _, err := b.Build(context.Background(), "nope", "class-1"); !errors.Is(err, exam.ErrTestNotFound) {
		t.Fatalf("expected ErrTestNotFound, got %v", err)
	}
	if _, err := b.Build(context.Background(), "test-1", "nope"); !errors.Is(err, exam.ErrClassNotFound) {
		t.Fatalf("expected ErrClassNotFound, got %v", err)
	}
}

func TestBuild_ManyStudentsAcrossPages(t *testing.T) {
	var pages [][]exam.Answer
	for p := 0; p < 5; p++ {
		var page []exam.Answer
		for i := 0; i < 10; i++ {
			page = append(page, fixtureAnswer(fmt.Sprintf("s%02d-%02d", p, i), i%3))
		}
		pages = append(pages, page)
	}
	b := NewBuilder(fixtureBackend(pages...), 0.5)

	rep, err := b.Build(context.Background(), "test-1", "class-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.TotalStudents != 50 {
		t.Fatalf("students = %d, want 50", rep.TotalStudents)
	}
	for i := 1; i < len(rep.Results); i++ {
		if rep.Results[i].GradePercentage < rep.Results[i-1].GradePercentage {
			t.Fatalf("results not ascending at %d", i)
		}
	}
}
