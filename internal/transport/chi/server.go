package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sensorank/internal/domain"
	"github.com/kailas-cloud/sensorank/internal/domain/facet"
	"github.com/kailas-cloud/sensorank/internal/domain/weights"
	"github.com/kailas-cloud/sensorank/internal/version"

	healthuc "github.com/kailas-cloud/sensorank/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/sensorank/internal/usecase/recommend"
)

const quickSearchMinScore = 0.3

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Defaults hold per-request fallbacks taken from configuration.
type Defaults struct {
	Profile  weights.Profile
	TopK     int
	MaxTopK  int
	MinScore float64
}

// Server is the sensorank HTTP API.
type Server struct {
	rec           *recommenduc.Service
	health        *healthuc.Service
	defaults      Defaults
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	rec *recommenduc.Service,
	health *healthuc.Service,
	defaults Defaults,
	logger *zap.Logger,
) *Server {
	s := &Server{
		rec:      rec,
		health:   health,
		defaults: defaults,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyWeightProfile, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrUnknownFacet, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidTopK, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProviderError),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusInternalServerError, codeCatalogIntegrityError),
	}
	return s
}

// Routes registers all API routes on the router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/api/recommend", s.Recommend)
	r.Get("/api/quick-search", s.QuickSearch)
	r.Get("/api/sensor-types", s.SensorTypes)
	r.Get("/api/status", s.Status)
	r.Get("/health", s.Health)
	r.Get("/metrics", s.Metrics)
}

// Recommend handles POST /api/recommend.
func (s *Server) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Query == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Query text is required")
		return
	}

	profile, err := s.resolveProfile(req.Weights)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	topK := req.TopK
	if topK == 0 {
		topK = s.defaults.TopK
	}
	if topK > s.defaults.MaxTopK {
		topK = s.defaults.MaxTopK
	}

	minScore := s.defaults.MinScore
	if req.MinScore != nil {
		minScore = *req.MinScore
	}
	if minScore < 0 || minScore > 1 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "min_score must be between 0 and 1")
		return
	}

	result, err := s.rec.Recommend(r.Context(), recommenduc.Request{
		Text:          req.Query,
		RequestedType: req.SensorType,
		Modules:       req.Modules,
		EnvTags:       req.Environment,
		Profile:       profile,
		TopK:          topK,
		MinScore:      minScore,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := result.Items()
	recs := make([]Recommendation, len(items))
	for i := range items {
		recs[i] = recommendationFromScored(&items[i])
	}

	appliedProfile := result.Profile()
	writeJSON(w, http.StatusOK, RecommendResponse{
		Recommendations: recs,
		TotalMatched:    result.TotalMatched(),
		TopK:            result.TopK(),
		Weights:         weightsToJSON(appliedProfile.Map()),
		SearchTimestamp: time.Now().UTC(),
	})
}

// QuickSearch handles GET /api/quick-search with default-profile parameters.
func (s *Server) QuickSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Query parameter q is required")
		return
	}

	limit := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	if limit > s.defaults.MaxTopK {
		limit = s.defaults.MaxTopK
	}

	result, err := s.rec.Recommend(r.Context(), recommenduc.Request{
		Text:     q,
		Profile:  s.defaults.Profile,
		TopK:     limit,
		MinScore: quickSearchMinScore,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := result.Items()
	results := make([]QuickSearchResult, len(items))
	for i := range items {
		it := items[i].Item()
		results[i] = QuickSearchResult{
			ID:      it.ID(),
			Name:    it.Name(),
			Type:    it.SensorType(),
			Score:   items[i].Total(),
			Modules: it.Modules(),
		}
	}

	writeJSON(w, http.StatusOK, QuickSearchResponse{Results: results, Total: len(results)})
}

// SensorTypes handles GET /api/sensor-types.
func (s *Server) SensorTypes(w http.ResponseWriter, _ *http.Request) {
	counts := s.rec.TypeCounts()
	writeJSON(w, http.StatusOK, SensorTypesResponse{
		SensorTypes:  counts,
		TotalSensors: s.rec.CatalogSize(),
	})
}

// Status handles GET /api/status.
func (s *Server) Status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		Ready:        true,
		TotalSensors: s.rec.CatalogSize(),
		Version:      version.Version,
	})
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for name, res := range report.Checks {
		checks[name] = string(res)
	}

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, HealthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// resolveProfile builds a weight profile from request weights, falling back to
// the configured default when none were sent.
func (s *Server) resolveProfile(raw map[string]float64) (weights.Profile, error) {
	if len(raw) == 0 {
		return s.defaults.Profile, nil
	}

	m := make(map[facet.Facet]float64, len(raw))
	for name, v := range raw {
		m[facet.Facet(name)] = v
	}
	return weights.New(m)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyWeightProfile,
		domain.ErrUnknownFacet,
		domain.ErrInvalidTopK,
		domain.ErrEmbeddingProviderError,
		domain.ErrVectorDimMismatch,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
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
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
