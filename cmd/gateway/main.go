package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/rubenor28/EduZasAPI-sub001/internal/api/http"
	auth "github.com/rubenor28/EduZasAPI-sub001/internal/auth/middleware"
	"github.com/rubenor28/EduZasAPI-sub001/internal/config"
	"github.com/rubenor28/EduZasAPI-sub001/internal/db"
	"github.com/rubenor28/EduZasAPI-sub001/internal/exam"
	"github.com/rubenor28/EduZasAPI-sub001/internal/rbac"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := exam.NewSQLStore(dbh, cfg.AnswerPageSize)

	// --- Auth ---
	authSvc := auth.NewAuthService(cfg.AuthHMACSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, dbh))

	// Protected API (JWT → subject+role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("test:create")).
			Post("/tests", api.UploadTestHandler(store))
		pr.With(rbac.Require("test:view")).
			Get("/tests/{testID}", api.GetTestHandler(store))

		pr.With(rbac.Require("answer:submit")).
			Post("/tests/{testID}/classes/{classID}/answers", api.SubmitAnswerHandler(store))

		pr.With(rbac.RequireAny("grade:view-own", "grade:view-all")).
			Get("/tests/{testID}/classes/{classID}/students/{studentID}/grade", api.GetStudentGradeHandler(store))
		pr.With(rbac.Require("grade:manual")).
			Post("/tests/{testID}/classes/{classID}/students/{studentID}/manual-grades", api.ApplyManualGradesHandler(store))

		pr.With(rbac.Require("report:view")).
			Get("/tests/{testID}/classes/{classID}/report", api.BuildReportHandler(store, cfg.PassThreshold))
	})

	log.Printf("gateway listening on %s", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatal(err)
	}
}
