package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rubenor28/EduZasAPI-sub001/internal/exam"
	"github.com/rubenor28/EduZasAPI-sub001/internal/report"
)

// GET /tests/{testID}/classes/{classID}/report
func BuildReportHandler(store exam.Store, passThreshold float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		testID := chi.URLParam(r, "testID")
		classID := chi.URLParam(r, "classID")

		builder := report.NewBuilder(store, passThreshold)
		rep, err := builder.Build(r.Context(), testID, classID)
		switch {
		case errors.Is(err, report.ErrNoAnswersYet):
			http.Error(w, "no answers submitted yet", http.StatusConflict)
			return
		case errors.Is(err, exam.ErrTestNotFound), errors.Is(err, exam.ErrClassNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		case err != nil:
			http.Error(w, "build report: "+err.Error(), http.StatusInternalServerError)
			return
		}

		// Audit trail; the report itself is never persisted.
		_ = store.AppendEvent(r.Context(), "report_built", testID+"|"+classID, map[string]any{
			"total_students": rep.TotalStudents,
			"errors":         len(rep.Errors),
		})

		_ = json.NewEncoder(w).Encode(rep)
	}
}
