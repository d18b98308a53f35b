package main

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	httpadp "coven-backend/internal/adapter/http"
	"coven-backend/internal/adapter/middleware"
	"coven-backend/internal/adapter/repository/mysql"
	"coven-backend/internal/config"
	"coven-backend/internal/infrastructure/ai"
	"coven-backend/internal/infrastructure/cache"
	"coven-backend/internal/infrastructure/db"
	"coven-backend/internal/infrastructure/ocr"
	"coven-backend/internal/storage"
	"coven-backend/internal/usecase/analysis"
	"coven-backend/internal/usecase/covenant"
	"coven-backend/internal/usecase/dashboard"
	"coven-backend/internal/usecase/document"
	"coven-backend/internal/usecase/loan"
	"coven-backend/internal/usecase/risk"
	"coven-backend/internal/usecase/scoring"
	"coven-backend/internal/usecase/timeline"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.WithError(err).Fatal("connecting to mysql")
	}
	if err := db.Migrate(gdb); err != nil {
		log.WithError(err).Fatal("migrating schema")
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.WithError(err).Fatal("connecting to redis")
	}

	blobs, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		log.WithError(err).Fatal("preparing upload dir")
	}

	unit := mysql.NewGormUoW(gdb)
	groq := ai.NewClient(cfg.GroqAPIKey)
	ocrClient := ocr.NewClient(cfg.OCRSpaceAPIKey)

	loanUC := loan.NewUsecase(unit)
	covenantUC := covenant.NewUsecase(unit, log)
	timelineUC := timeline.NewUsecase(unit)
	dashboardUC := dashboard.NewUsecase(unit)
	documentUC := document.NewUsecase(unit, blobs)
	riskUC := risk.NewUsecase(unit)
	analysisUC := analysis.NewUsecase(unit, groq, ocrClient, log)
	scorer := scoring.NewEngine(unit)

	h := httpadp.NewHandler()
	loanH := httpadp.NewLoanHandler(loanUC)
	covenantH := httpadp.NewCovenantHandler(covenantUC)
	timelineH := httpadp.NewTimelineHandler(timelineUC)
	dashboardH := httpadp.NewDashboardHandler(dashboardUC)
	documentH := httpadp.NewDocumentHandler(documentUC)
	riskH := httpadp.NewRiskHandler(riskUC)
	dnaH := httpadp.NewDNAHandler(analysisUC)
	aiH := httpadp.NewAIHandler(analysisUC, scorer)
	authH := httpadp.NewAuthHandler(cfg.JWTSecret, cfg.AuthUser, cfg.AuthPass, cfg.AuthName)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	e.GET("/health", h.Health)
	e.POST("/api/auth/login", authH.Login)

	api := e.Group("/api",
		middleware.JWTAuth(cfg.JWTSecret),
		middleware.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second),
	)

	api.GET("/dashboard", dashboardH.Stats)

	api.POST("/loans", loanH.CreateLoan)
	api.GET("/loans", loanH.ListLoans)
	api.GET("/loans/:loan_id", loanH.GetLoan)
	api.PATCH("/loans/:loan_id", loanH.UpdateLoan)
	api.DELETE("/loans/:loan_id", loanH.DeleteLoan)
	api.GET("/loans/:loan_id/dashboard", loanH.LoanDashboard)

	api.POST("/loans/:loan_id/covenants", covenantH.CreateCovenant)
	api.GET("/loans/:loan_id/covenants", covenantH.ListCovenants)
	api.GET("/covenants/:covenant_id", covenantH.GetCovenant)
	api.PATCH("/covenants/:covenant_id", covenantH.UpdateCovenant)
	api.PATCH("/covenants/:covenant_id/status", covenantH.UpdateCovenantStatus)
	api.DELETE("/covenants/:covenant_id", covenantH.DeleteCovenant)

	api.POST("/loans/:loan_id/timeline", timelineH.CreateEvent)
	api.GET("/loans/:loan_id/timeline", timelineH.ListEvents)

	api.POST("/loans/:loan_id/documents", documentH.Upload)
	api.GET("/loans/:loan_id/documents", documentH.List)

	api.POST("/loans/:loan_id/predictions", riskH.CreatePrediction)
	api.GET("/loans/:loan_id/predictions", riskH.ListPredictions)

	api.POST("/loan-dna", dnaH.SaveDNA)
	api.GET("/loans/:loan_id/dna", dnaH.GetDNA)

	api.POST("/ai/loan-summary", aiH.LoanSummary)
	api.POST("/ai/covenant-explanation", aiH.CovenantExplanation)
	api.POST("/ai/risk-predictions", aiH.RiskPredictions)
	api.POST("/ai/what-changed", aiH.WhatChanged)
	api.POST("/ai/extract-loan-dna", aiH.ExtractLoanDNA)
	api.POST("/ai/recalculate-score", aiH.RecalculateScore)

	addr := ":" + cfg.AppPort
	log.WithField("addr", addr).Info("listening")
	if err := e.Start(addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
