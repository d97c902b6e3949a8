package report

import (
	"fmt"
	"testing"

	"github.com/rubenor28/EduZasAPI-sub001/internal/grading"
)

// grades builds AnswerGrades over a shared 100-point total, one per
// percentage value.
func grades(pcts ...float64) []grading.AnswerGrade {
	out := make([]grading.AnswerGrade, 0, len(pcts))
	for i, p := range pcts {
		out = append(out, grading.AnswerGrade{
			StudentID:   fmt.Sprintf("s%02d", i),
			Points:      p,
			TotalPoints: 100,
		})
	}
	return out
}

func TestAggregate_MedianOdd(t *testing.T) {
	s := Aggregate(grades(20, 50, 80), 0.6)
	if s.MedianPercentage != 50 {
		t.Fatalf("median = %v, want 50", s.MedianPercentage)
	}
}

func TestAggregate_MedianEven(t *testing.T) {
	s := Aggregate(grades(20, 40, 60, 80), 0.6)
	if s.MedianPercentage != 50 {
		t.Fatalf("median = %v, want 50", s.MedianPercentage)
	}
}

func TestAggregate_PassRate(t *testing.T) {
	s := Aggregate(grades(50, 60, 70, 90), 0.6)
	if s.PassPercentage != 75 {
		t.Fatalf("pass rate = %v, want 75", s.PassPercentage)
	}
}

func TestAggregate_ZeroSuccesses(t *testing.T) {
	s := Aggregate(nil, 0.6)
	if s.TotalStudents != 0 {
		t.Fatalf("total students = %d, want 0", s.TotalStudents)
	}
	if s.AveragePercentage != 0 || s.MedianPercentage != 0 || s.PassPercentage != 0 ||
		s.StandardDeviationPercentage != 0 || s.MaxScorePercentage != 0 || s.MinScorePercentage != 0 {
		t.Fatalf("expected all aggregates zero, got %+v", s)
	}
	if s.Results == nil || len(s.Results) != 0 {
		t.Fatalf("expected empty (non-nil) result list, got %v", s.Results)
	}
}

func TestAggregate_ZeroVariance(t *testing.T) {
	s := Aggregate(grades(70, 70, 70), 0.6)
	if s.StandardDeviationPercentage != 0 {
		t.Fatalf("stddev = %v, want 0", s.StandardDeviationPercentage)
	}
	if s.AveragePercentage != 70 || s.MedianPercentage != 70 {
		t.Fatalf("avg/median = %v/%v, want 70/70", s.AveragePercentage, s.MedianPercentage)
	}
}

func TestAggregate_Extremes(t *testing.T) {
	s := Aggregate(grades(15, 85, 40), 0.6)
	if s.MaxScorePercentage != 85 {
		t.Fatalf("max = %v, want 85", s.MaxScorePercentage)
	}
	if s.MinScorePercentage != 15 {
		t.Fatalf("min = %v, want 15", s.MinScorePercentage)
	}
}

func TestAggregate_ResultsSortedAscending(t *testing.T) {
	s := Aggregate(grades(80, 20, 50), 0.6)
	want := []float64{20, 50, 80}
	for i, r := range s.Results {
		if r.GradePercentage != want[i] {
			t.Fatalf("results[%d] = %v, want %v", i, r.GradePercentage, want[i])
		}
	}
}

func TestAggregate_ZeroTotalPointsYieldsZeroPercent(t *testing.T) {
	gs := []grading.AnswerGrade{{StudentID: "s1", Points: 0, TotalPoints: 0}}
	s := Aggregate(gs, 0.6)
	if s.Results[0].GradePercentage != 0 {
		t.Fatalf("zero-total grade = %v, want 0 (never NaN)", s.Results[0].GradePercentage)
	}
	if s.MaxScorePercentage != 0 || s.MinScorePercentage != 0 {
		t.Fatalf("extremes = %v/%v, want 0/0", s.MaxScorePercentage, s.MinScorePercentage)
	}
}

func TestAggregate_Rounding(t *testing.T) {
	// 1/3 and 2/3 of 100 points exercise the 2-decimal rounding.
	gs := []grading.AnswerGrade{
		{StudentID: "s1", Points: 100.0 / 3, TotalPoints: 100},
		{StudentID: "s2", Points: 200.0 / 3, TotalPoints: 100},
	}
	s := Aggregate(gs, 0.5)
	if s.AveragePercentage != 50 {
		t.Fatalf("average = %v, want 50", s.AveragePercentage)
	}
	if s.Results[0].GradePercentage != 33.33 {
		t.Fatalf("low grade = %v, want 33.33", s.Results[0].GradePercentage)
	}
	if s.Results[1].GradePercentage != 66.67 {
		t.Fatalf("high grade = %v, want 66.67", s.Results[1].GradePercentage)
	}
	// Population stddev of {1/3, 2/3} is 1/6: 16.667 at 3 decimals.
	if s.StandardDeviationPercentage != 16.667 {
		t.Fatalf("stddev = %v, want 16.667", s.StandardDeviationPercentage)
	}
}

func TestAggregate_LargeInputMatchesSmallPath(t *testing.T) {
	n := parallelStatsThreshold + 100
	gs := make([]grading.AnswerGrade, n)
	for i := range gs {
		gs[i] = grading.AnswerGrade{
			StudentID:   fmt.Sprintf("s%06d", i),
			Points:      float64(i % 101),
			TotalPoints: 100,
		}
	}
	s := Aggregate(gs, 0.6)
	if s.TotalStudents != n {
		t.Fatalf("total students = %d, want %d", s.TotalStudents, n)
	}
	if s.MaxScorePercentage != 100 || s.MinScorePercentage != 0 {
		t.Fatalf("extremes = %v/%v, want 100/0", s.MaxScorePercentage, s.MinScorePercentage)
	}
}
