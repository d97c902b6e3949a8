package report

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rubenor28/EduZasAPI-sub001/internal/exam"
	"github.com/rubenor28/EduZasAPI-sub001/internal/grading"
)

// ErrNoAnswersYet is returned when a report is requested before any student
// has submitted. It is a business conflict, distinct from the empty report
// produced when answers exist but none could be scored.
var ErrNoAnswersYet = errors.New("no answers submitted yet")

// Backend is what the builder needs from persistence. The SQL store
// satisfies it; tests use in-memory fakes.
type Backend interface {
	exam.AnswerPageSource
	exam.UserLookup
	GetTest(ctx context.Context, id string) (exam.Test, error)
	GetClass(ctx context.Context, id string) (exam.Class, error)
}

// Builder drains all submitted answers for a (test, class) pair, grades them
// as a batch, aggregates the statistics and decorates the result with
// display names.
type Builder struct {
	backend       Backend
	passThreshold float64 // fraction in [0,1], read once per build
}

func NewBuilder(b Backend, passThreshold float64) *Builder {
	return &Builder{backend: b, passThreshold: passThreshold}
}

// Build produces the class report for one test.
func (b *Builder) Build(ctx context.Context, testID, classID string) (ClassTestReport, error) {
	t, err := b.backend.GetTest(ctx, testID)
	if err != nil {
		return ClassTestReport{}, fmt.Errorf("load test %s: %w", testID, err)
	}
	cl, err := b.backend.GetClass(ctx, classID)
	if err != nil {
		return ClassTestReport{}, fmt.Errorf("load class %s: %w", classID, err)
	}

	answers, err := b.drainAnswers(ctx, testID, classID)
	if err != nil {
		return ClassTestReport{}, err
	}
	if len(answers) == 0 {
		return ClassTestReport{}, ErrNoAnswersYet
	}

	grades, gradeErrs := grading.Partition(grading.GradeMany(ctx, answers, t))
	if err := ctx.Err(); err != nil {
		return ClassTestReport{}, err
	}
	stats := Aggregate(grades, b.passThreshold)

	names, err := b.lookupNames(ctx, cl.ProfessorID, stats.Results, gradeErrs)
	if err != nil {
		return ClassTestReport{}, err
	}

	out := ClassTestReport{
		TestTitle:                   t.Title,
		ClassName:                   cl.Name,
		ProfessorName:               names[cl.ProfessorID],
		TestDate:                    t.CreatedAt,
		TotalStudents:               stats.TotalStudents,
		PassThreshold:               b.passThreshold,
		AveragePercentage:           stats.AveragePercentage,
		MedianPercentage:            stats.MedianPercentage,
		PassPercentage:              stats.PassPercentage,
		StandardDeviationPercentage: stats.StandardDeviationPercentage,
		MaxScorePercentage:          stats.MaxScorePercentage,
		MinScorePercentage:          stats.MinScorePercentage,
		Results:                     stats.Results,
		Errors:                      make([]GradeErrorDetail, 0, len(gradeErrs)),
	}
	for i := range out.Results {
		out.Results[i].StudentName = names[out.Results[i].StudentID]
	}
	for _, ge := range gradeErrs {
		out.Errors = append(out.Errors, GradeErrorDetail{
			StudentID:    ge.StudentID,
			StudentName:  names[ge.StudentID],
			ErrorMessage: ge.Err.Error(),
		})
	}
	return out, nil
}

// drainAnswers collects every page before grading starts (collect-all, not
// streaming).
func (b *Builder) drainAnswers(ctx context.Context, testID, classID string) ([]exam.Answer, error) {
	var all []exam.Answer
	for page := 0; ; page++ {
		p, err := b.backend.GetAnswerPage(ctx, testID, classID, page)
		if err != nil {
			return nil, fmt.Errorf("answers page %d: %w", page, err)
		}
		all = append(all, p.Items...)
		if page+1 >= p.TotalPages {
			break
		}
	}
	return all, nil
}

// lookupNames resolves every user id the report mentions, concurrently.
// A student that produced a graded answer must exist; a miss here is a
// contract breach and fails the whole build.
func (b *Builder) lookupNames(ctx context.Context, professorID string, results []StudentResult, gradeErrs []grading.IndividualGradeError) (map[string]string, error) {
	ids := map[string]struct{}{professorID: {}}
	for _, r := range results {
		ids[r.StudentID] = struct{}{}
	}
	for _, ge := range gradeErrs {
		ids[ge.StudentID] = struct{}{}
	}

	names := make(map[string]string, len(ids))
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	for id := range ids {
		id := id
		g.Go(func() error {
			u, err := b.backend.GetUser(ctx, id)
			if err != nil {
				return fmt.Errorf("lookup user %s: %w", id, err)
			}
			mu.Lock()
			names[id] = u.Name
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return names, nil
}
