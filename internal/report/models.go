package report

import "time"

// StudentResult is one row of the report, ascending by grade.
type StudentResult struct {
	StudentID       string  `json:"studentId"`
	StudentName     string  `json:"studentName"`
	GradePercentage float64 `json:"gradePercentage"`
}

// GradeErrorDetail is one student whose answer could not be scored, with the
// reason (typically pending manual grades).
type GradeErrorDetail struct {
	StudentID    string `json:"studentId"`
	StudentName  string `json:"studentName"`
	ErrorMessage string `json:"errorMessage"`
}

// ClassTestReport is the statistical summary of one test within one class.
// Percentages are rounded to 2 decimal places, standard deviation to 3.
type ClassTestReport struct {
	TestTitle     string    `json:"testTitle"`
	ClassName     string    `json:"className"`
	ProfessorName string    `json:"professorName"`
	TestDate      time.Time `json:"testDate"`

	TotalStudents int     `json:"totalStudents"`
	PassThreshold float64 `json:"passThreshold"`

	AveragePercentage           float64 `json:"averagePercentage"`
	MedianPercentage            float64 `json:"medianPercentage"`
	PassPercentage              float64 `json:"passPercentage"`
	StandardDeviationPercentage float64 `json:"standardDeviationPercentage"`
	MaxScorePercentage          float64 `json:"maxScorePercentage"`
	MinScorePercentage          float64 `json:"minScorePercentage"`

	Results []StudentResult    `json:"results"`
	Errors  []GradeErrorDetail `json:"errors"`
}
