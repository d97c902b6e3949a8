package grading

import (
	"context"
	"runtime"
	"sync"

	"github.com/rubenor28/EduZasAPI-sub001/internal/exam"
)

// BatchResult is one per-student outcome from GradeMany: exactly one of
// Grade or Err is set.
type BatchResult struct {
	Grade *AnswerGrade
	Err   *IndividualGradeError
}

// GradeMany grades every answer against the shared test, one result per
// answer that was started, in no particular order.
//
// Work runs on a pool bounded by the available parallelism. The test is
// shared read-only, so workers need no synchronization beyond the result
// channel. A per-student failure is wrapped into an IndividualGradeError and
// collected alongside successes; it never aborts sibling students.
//
// Cancelling ctx stops new answers from being dispatched; results already
// produced are still returned, since grading has no side effects to undo.
func GradeMany(ctx context.Context, answers []exam.Answer, t exam.Test) []BatchResult {
	if len(answers) == 0 {
		return nil
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > len(answers) {
		workers = len(answers)
	}

	jobs := make(chan exam.Answer)
	results := make(chan BatchResult)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for a := range jobs {
				ag, err := GradeAnswer(a, t)
				if err != nil {
					ige, ok := err.(*IndividualGradeError)
					if !ok {
						ige = &IndividualGradeError{StudentID: a.StudentID, Err: err}
					}
					results <- BatchResult{Err: ige}
					continue
				}
				results <- BatchResult{Grade: &ag}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, a := range answers {
			select {
			case jobs <- a:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]BatchResult, 0, len(answers))
	for r := range results {
		out = append(out, r)
	}
	return out
}

// Partition splits batch results into successes and per-student errors.
func Partition(results []BatchResult) ([]AnswerGrade, []IndividualGradeError) {
	grades := make([]AnswerGrade, 0, len(results))
	var errs []IndividualGradeError
	for _, r := range results {
		switch {
		case r.Grade != nil:
			grades = append(grades, *r.Grade)
		case r.Err != nil:
			errs = append(errs, *r.Err)
		}
	}
	return grades, errs
}
