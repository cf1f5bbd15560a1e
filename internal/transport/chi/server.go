// Package chi implements the HTTP API for drafts and analyses.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tenderlens/tenderlens/internal/domain"
	analysisuc "github.com/tenderlens/tenderlens/internal/usecase/analysis"
	draftuc "github.com/tenderlens/tenderlens/internal/usecase/draft"
)

// ErrorCode is the machine-readable error code in error responses.
type ErrorCode string

const (
	CodeBadRequest        ErrorCode = "bad_request"
	CodeValidationFailed  ErrorCode = "validation_failed"
	CodeDraftNotFound     ErrorCode = "draft_not_found"
	CodeAnalysisNotFound  ErrorCode = "analysis_not_found"
	CodeGenerationFailed  ErrorCode = "generation_failed"
	CodeInvalidModelReply ErrorCode = "invalid_model_output"
	CodeInternalError     ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// Pinger reports store liveness for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the drafts and analysis API.
type Server struct {
	drafts        *draftuc.Service
	analyses      *analysisuc.Service
	store         Pinger
	backend       string
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. backend names the active generation
// backend ("openai" or "mock") and is reported by the health endpoint.
func NewServer(
	drafts *draftuc.Service,
	analyses *analysisuc.Service,
	store Pinger,
	backend string,
	logger *zap.Logger,
) *Server {
	s := &Server{
		drafts:   drafts,
		analyses: analyses,
		store:    store,
		backend:  backend,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrDraftNotFound, http.StatusNotFound, CodeDraftNotFound),
		sentinelHandler(domain.ErrAnalysisNotFound, http.StatusNotFound, CodeAnalysisNotFound),
		sentinelHandler(domain.ErrGeneration, http.StatusBadGateway, CodeGenerationFailed),
		sentinelHandler(domain.ErrParse, http.StatusUnprocessableEntity, CodeInvalidModelReply),
	}
	return s
}

// RegisterRoutes mounts all API routes on the router.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/drafts", s.CreateDraft)
		r.Get("/drafts", s.ListDrafts)
		r.Get("/drafts/{id}", s.GetDraft)
		r.Post("/drafts/{id}/analyze", s.AnalyzeDraft)
		r.Get("/drafts/{id}/analysis", s.GetAnalysis)
	})
	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// CreateDraftRequest is the POST /drafts request body.
type CreateDraftRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CPVCode     string `json:"cpv_code,omitempty"`
}

// CreateDraft handles POST /api/v1/drafts.
func (s *Server) CreateDraft(w http.ResponseWriter, r *http.Request) {
	var req CreateDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	d, err := s.drafts.Create(r.Context(), req.Title, req.Description, req.CPVCode)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/drafts/"+d.ID)
	writeJSON(w, http.StatusCreated, d)
}

// DraftListResponse is the GET /drafts response body.
type DraftListResponse struct {
	Items []domain.Draft `json:"items"`
	Total int            `json:"total"`
}

// ListDrafts handles GET /api/v1/drafts.
func (s *Server) ListDrafts(w http.ResponseWriter, r *http.Request) {
	drafts, err := s.drafts.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if drafts == nil {
		drafts = []domain.Draft{}
	}
	writeJSON(w, http.StatusOK, DraftListResponse{Items: drafts, Total: len(drafts)})
}

// GetDraft handles GET /api/v1/drafts/{id}.
func (s *Server) GetDraft(w http.ResponseWriter, r *http.Request) {
	d, err := s.drafts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// AnalyzeDraft handles POST /api/v1/drafts/{id}/analyze. The call is
// synchronous: the response is the completed analysis.
func (s *Server) AnalyzeDraft(w http.ResponseWriter, r *http.Request) {
	res, err := s.analyses.Analyze(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetAnalysis handles GET /api/v1/drafts/{id}/analysis.
func (s *Server) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	res, err := s.analyses.GetAnalysis(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HealthResponse is the GET /healthz response body.
type HealthResponse struct {
	Status            string            `json:"status"`
	Checks            map[string]string `json:"checks"`
	GenerationBackend string            `json:"generation_backend"`
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"store": "ok"}
	status, httpStatus := "healthy", http.StatusOK

	if err := s.store.Ping(r.Context()); err != nil {
		checks["store"] = "unavailable"
		status, httpStatus = "unhealthy", http.StatusServiceUnavailable
		s.logger.Warn("store health check failed", zap.Error(err))
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:            status,
		Checks:            checks,
		GenerationBackend: s.backend,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns the error text for known sentinels without
// exposing internals for anything else.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrValidation,
		domain.ErrDraftNotFound,
		domain.ErrAnalysisNotFound,
		domain.ErrGeneration,
		domain.ErrParse,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return err.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
