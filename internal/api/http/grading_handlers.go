package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	authmw "github.com/rubenor28/EduZasAPI-sub001/internal/auth/middleware"
	"github.com/rubenor28/EduZasAPI-sub001/internal/exam"
	"github.com/rubenor28/EduZasAPI-sub001/internal/grading"
	"github.com/rubenor28/EduZasAPI-sub001/internal/rbac"
)

// GET /tests/{testID}/classes/{classID}/students/{studentID}/grade
//
// Grades one student's submission on demand. A pending manual grade is a 409
// with the missing question ids, not a server error.
func GetStudentGradeHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		testID := chi.URLParam(r, "testID")
		classID := chi.URLParam(r, "classID")
		studentID := chi.URLParam(r, "studentID")

		// Students may only fetch their own grade.
		role := rbac.RoleFromContext(r.Context())
		if role == "student" && authmw.SubjectFromContext(r.Context()) != studentID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		t, err := store.GetTest(r.Context(), testID)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, exam.ErrTestNotFound) {
				status = http.StatusNotFound
			}
			http.Error(w, err.Error(), status)
			return
		}
		a, err := store.GetAnswer(r.Context(), testID, classID, studentID)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, exam.ErrAnswerNotFound) {
				status = http.StatusNotFound
			}
			http.Error(w, err.Error(), status)
			return
		}

		g, err := grading.GradeAnswer(a, t)
		var missing *grading.MissingManualGradeError
		switch {
		case errors.As(err, &missing):
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error":          "not ready to grade",
				"missing_manual": missing.QuestionIDs,
			})
			return
		case err != nil:
			http.Error(w, "grade: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(g)
	}
}

// POST /tests/{testID}/classes/{classID}/students/{studentID}/manual-grades
// Body: { "q3": true, "q7": false }
func ApplyManualGradesHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		testID := chi.URLParam(r, "testID")
		classID := chi.URLParam(r, "classID")
		studentID := chi.URLParam(r, "studentID")

		var grades map[string]bool
		if err := json.NewDecoder(r.Body).Decode(&grades); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if len(grades) == 0 {
			http.Error(w, "no grades supplied", http.StatusBadRequest)
			return
		}

		t, err := store.GetTest(r.Context(), testID)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, exam.ErrTestNotFound) {
				status = http.StatusNotFound
			}
			http.Error(w, err.Error(), status)
			return
		}
		for id := range grades {
			if _, ok := t.Content[id]; !ok {
				http.Error(w, "unknown question id: "+id, http.StatusBadRequest)
				return
			}
		}

		a, err := store.ApplyManualGrades(r.Context(), testID, classID, studentID, grades)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, exam.ErrAnswerNotFound) {
				status = http.StatusNotFound
			}
			http.Error(w, "apply grades: "+err.Error(), status)
			return
		}

		_ = store.AppendEvent(r.Context(), "manual_grades_applied", testID+"|"+classID+"|"+studentID, map[string]any{
			"graded_by": authmw.SubjectFromContext(r.Context()),
			"questions": len(grades),
		})
		_ = json.NewEncoder(w).Encode(a)
	}
}
