package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	authmw "github.com/rubenor28/EduZasAPI-sub001/internal/auth/middleware"
	"github.com/rubenor28/EduZasAPI-sub001/internal/exam"
	"github.com/rubenor28/EduZasAPI-sub001/internal/rbac"
)

var validKinds = map[exam.Kind]bool{
	exam.KindMultipleChoice:    true,
	exam.KindMultipleSelection: true,
	exam.KindOrdering:          true,
	exam.KindConceptRelation:   true,
	exam.KindOpen:              true,
}

// POST /tests
func UploadTestHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var t exam.Test
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if len(t.Content) == 0 {
			http.Error(w, "test has no questions", http.StatusBadRequest)
			return
		}
		for id, q := range t.Content {
			if !validKinds[q.Kind] {
				http.Error(w, "question "+id+": unknown kind "+string(q.Kind), http.StatusBadRequest)
				return
			}
		}
		for _, id := range t.RequiresManualGrade {
			if _, ok := t.Content[id]; !ok {
				http.Error(w, "manual-grade id not in content: "+id, http.StatusBadRequest)
				return
			}
		}
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		if t.ProfessorID == "" {
			t.ProfessorID = authmw.SubjectFromContext(r.Context())
		}
		if err := store.PutTest(r.Context(), t); err != nil {
			http.Error(w, "save test: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": t.ID})
	}
}

// GET /tests/{testID}
func GetTestHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := store.GetTest(r.Context(), chi.URLParam(r, "testID"))
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, exam.ErrTestNotFound) {
				status = http.StatusNotFound
			}
			http.Error(w, err.Error(), status)
			return
		}
		// Strip answer keys when serving to students.
		if rbac.RoleFromContext(r.Context()) == "student" {
			for id, q := range t.Content {
				q.CorrectOption = ""
				q.CorrectOptions = nil
				q.CorrectSequence = nil
				q.CorrectPairs = nil
				t.Content[id] = q
			}
		}
		_ = json.NewEncoder(w).Encode(t)
	}
}

// POST /tests/{testID}/classes/{classID}/answers
func SubmitAnswerHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var a exam.Answer
		if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		a.TestID = chi.URLParam(r, "testID")
		a.ClassID = chi.URLParam(r, "classID")
		if a.StudentID == "" {
			a.StudentID = authmw.SubjectFromContext(r.Context())
		}
		if a.StudentID == "" {
			http.Error(w, "student_id required", http.StatusBadRequest)
			return
		}
		if len(a.Content) == 0 {
			http.Error(w, "answer has no content", http.StatusBadRequest)
			return
		}
		if err := store.PutAnswer(r.Context(), a); err != nil {
			http.Error(w, "save answer: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}
}
