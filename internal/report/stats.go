package report

import (
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/rubenor28/EduZasAPI-sub001/internal/grading"
)

// Statistics is the aggregate fragment of a ClassTestReport, before display
// names are attached.
type Statistics struct {
	TotalStudents               int
	AveragePercentage           float64
	MedianPercentage            float64
	PassPercentage              float64
	StandardDeviationPercentage float64
	MaxScorePercentage          float64
	MinScorePercentage          float64
	Results                     []StudentResult // ascending by percentage
}

// Above this count per-student percentages are computed on a fan-out of
// chunk workers. Purely a tuning knob; output is identical either way.
const parallelStatsThreshold = 4096

// Aggregate turns successfully graded answers into class-level statistics.
// passThreshold is a fraction in [0,1]. All grades are assumed to share the
// same TotalPoints (same test), which the min/max normalization relies on.
//
// Zero successes is not an error: every aggregate is 0 and the result list
// is empty.
func Aggregate(successes []grading.AnswerGrade, passThreshold float64) Statistics {
	n := len(successes)
	if n == 0 {
		return Statistics{Results: []StudentResult{}}
	}

	pcts := percentages(successes)

	results := make([]StudentResult, n)
	for i, g := range successes {
		results[i] = StudentResult{StudentID: g.StudentID, GradePercentage: round2(pcts[i])}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].GradePercentage != results[j].GradePercentage {
			return results[i].GradePercentage < results[j].GradePercentage
		}
		return results[i].StudentID < results[j].StudentID
	})

	sorted := make([]float64, n)
	copy(sorted, pcts)
	sort.Float64s(sorted)

	var sum float64
	passed := 0
	passMark := passThreshold * 100
	for _, p := range pcts {
		sum += p
		if p >= passMark {
			passed++
		}
	}
	avg := sum / float64(n)

	var median float64
	if n%2 == 1 {
		median = sorted[n/2]
	} else {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	// Population standard deviation over the unit-scaled grades.
	var sq float64
	for _, p := range pcts {
		d := p/100 - avg/100
		sq += d * d
	}
	stddev := math.Sqrt(sq/float64(n)) * 100

	// Extremes come from the raw points of the best and worst student,
	// normalized against the shared total.
	maxG, minG := successes[0], successes[0]
	for _, g := range successes[1:] {
		if g.Points > maxG.Points {
			maxG = g
		}
		if g.Points < minG.Points {
			minG = g
		}
	}

	return Statistics{
		TotalStudents:               n,
		AveragePercentage:           round2(avg),
		MedianPercentage:            round2(median),
		PassPercentage:              round2(float64(passed) / float64(n) * 100),
		StandardDeviationPercentage: round3(stddev),
		MaxScorePercentage:          round2(percentageOf(maxG)),
		MinScorePercentage:          round2(percentageOf(minG)),
		Results:                     results,
	}
}

func percentageOf(g grading.AnswerGrade) float64 {
	if g.TotalPoints == 0 {
		return 0
	}
	return g.Points / g.TotalPoints * 100
}

func percentages(grades []grading.AnswerGrade) []float64 {
	out := make([]float64, len(grades))
	if len(grades) < parallelStatsThreshold {
		for i, g := range grades {
			out[i] = percentageOf(g)
		}
		return out
	}

	workers := runtime.GOMAXPROCS(0)
	chunk := (len(grades) + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < len(grades); start += chunk {
		end := start + chunk
		if end > len(grades) {
			end = len(grades)
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				out[i] = percentageOf(grades[i])
			}
		}(start, end)
	}
	wg.Wait()
	return out
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
