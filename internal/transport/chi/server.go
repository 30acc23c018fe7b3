package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/kailas-cloud/nearwiki/internal/domain"
	"github.com/kailas-cloud/nearwiki/internal/domain/geo"
	domnearby "github.com/kailas-cloud/nearwiki/internal/domain/nearby"
	"github.com/kailas-cloud/nearwiki/internal/metrics"
	healthuc "github.com/kailas-cloud/nearwiki/internal/usecase/health"
	nearbyuc "github.com/kailas-cloud/nearwiki/internal/usecase/nearby"
	sessionuc "github.com/kailas-cloud/nearwiki/internal/usecase/session"
)

// DefaultNearbyRadius is used by GET /nearby when radius is omitted.
const DefaultNearbyRadius = 1000

const maxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the nearby and view session HTTP API.
type Server struct {
	nearby        *nearbyuc.Service
	sessions      *sessionuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	nearby *nearbyuc.Service,
	sessions *sessionuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		nearby:   nearby,
		sessions: sessions,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrViewNotFound, http.StatusNotFound, ErrorCodeViewNotFound),
		sentinelHandler(domain.ErrMarkerNotFound, http.StatusNotFound, ErrorCodeMarkerNotFound),
		sentinelHandler(domain.ErrUnsupportedSpatialReference, http.StatusBadRequest, ErrorCodeUnsupportedSR),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, ErrorCodeInvalidQuery),
		sentinelHandler(domain.ErrUpstream, http.StatusBadGateway, ErrorCodeUpstreamError),
	}
	return s
}

// Register mounts all routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Get("/nearby", s.FindNearby)

	r.Route("/views", func(r chi.Router) {
		r.Post("/", s.CreateView)
		r.Route("/{view}", func(r chi.Router) {
			r.Get("/", s.GetView)
			r.Delete("/", s.DeleteView)
			r.Put("/extent", s.SetExtent)
			r.Get("/overlay", s.GetOverlay)
			r.Post("/search", s.SearchView)
			r.Delete("/markers", s.ClearMarkers)
			r.Post("/markers/{id}/highlight", s.HighlightMarker)
		})
	})
}

// FindNearby handles GET /nearby.
func (s *Server) FindNearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var lat, lon float64
	if err := runtime.BindQueryParameter("form", true, true, "lat", q, &lat); err != nil {
		writeParamError(w, "lat", err)
		return
	}
	if err := runtime.BindQueryParameter("form", true, true, "lon", q, &lon); err != nil {
		writeParamError(w, "lon", err)
		return
	}
	var radius, limit, wkid *int
	if err := runtime.BindQueryParameter("form", true, false, "radius", q, &radius); err != nil {
		writeParamError(w, "radius", err)
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &limit); err != nil {
		writeParamError(w, "limit", err)
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "wkid", q, &wkid); err != nil {
		writeParamError(w, "wkid", err)
		return
	}

	opts := nearbyuc.Options{
		Center:           geo.NewGeographic(lat, lon),
		RadiusMeters:     derefInt(radius, DefaultNearbyRadius),
		MaxResults:       derefInt(limit, 0),
		SpatialReference: geo.SpatialReference(derefInt(wkid, 0)),
	}
	items, err := s.nearby.FindNearbyItems(r.Context(), opts)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if items == nil {
		items = []domnearby.Item{}
	}

	writeJSON(w, http.StatusOK, NearbyResponse{Items: items, Count: len(items)})
}

// CreateView handles POST /views.
func (s *Server) CreateView(w http.ResponseWriter, r *http.Request) {
	var req CreateViewRequest
	if !decodeBody(w, r, &req) {
		return
	}
	sr := geo.SpatialReference(req.WKID)
	if sr == 0 {
		sr = geo.WebMercator
	}

	sess, err := s.sessions.Create(r.Context(), req.Extent.toDomain(sr))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.Header().Set("Location", "/views/"+sess.ID())
	writeJSON(w, http.StatusCreated, viewToResponse(sess))
}

// GetView handles GET /views/{view}.
func (s *Server) GetView(w http.ResponseWriter, r *http.Request) {
	id, ok := viewParam(w, r)
	if !ok {
		return
	}
	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewToResponse(sess))
}

// DeleteView handles DELETE /views/{view}.
func (s *Server) DeleteView(w http.ResponseWriter, r *http.Request) {
	id, ok := viewParam(w, r)
	if !ok {
		return
	}
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetExtent handles PUT /views/{view}/extent.
func (s *Server) SetExtent(w http.ResponseWriter, r *http.Request) {
	id, ok := viewParam(w, r)
	if !ok {
		return
	}
	var req SetExtentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sr := geo.SpatialReference(req.WKID)
	if sr == 0 {
		current, err := s.sessions.Get(r.Context(), id)
		if err != nil {
			s.handleDomainError(w, r, err)
			return
		}
		sr = current.View().SpatialReference()
	}

	sess, err := s.sessions.SetExtent(r.Context(), id, req.Extent.toDomain(sr))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewToResponse(sess))
}

// GetOverlay handles GET /views/{view}/overlay.
func (s *Server) GetOverlay(w http.ResponseWriter, r *http.Request) {
	id, ok := viewParam(w, r)
	if !ok {
		return
	}
	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	fc, err := sess.View().FeatureCollection()
	if err != nil {
		s.handleDomainError(w, r, fmt.Errorf("export overlay: %w", err))
		return
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		s.handleDomainError(w, r, fmt.Errorf("marshal overlay: %w", err))
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// SearchView handles POST /views/{view}/search.
func (s *Server) SearchView(w http.ResponseWriter, r *http.Request) {
	id, ok := viewParam(w, r)
	if !ok {
		return
	}
	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		writeParamError(w, "limit", err)
		return
	}

	sess, err := s.sessions.Search(r.Context(), id, derefInt(limit, 0))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewToResponse(sess))
}

// ClearMarkers handles DELETE /views/{view}/markers.
func (s *Server) ClearMarkers(w http.ResponseWriter, r *http.Request) {
	id, ok := viewParam(w, r)
	if !ok {
		return
	}
	sess, err := s.sessions.Clear(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewToResponse(sess))
}

// HighlightMarker handles POST /views/{view}/markers/{id}/highlight.
func (s *Server) HighlightMarker(w http.ResponseWriter, r *http.Request) {
	id, ok := viewParam(w, r)
	if !ok {
		return
	}
	var itemID int64
	if err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &itemID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true},
	); err != nil {
		writeParamError(w, "id", err)
		return
	}

	mk, sess, err := s.sessions.Highlight(r.Context(), id, domnearby.ItemID(itemID))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, HighlightResponse{Marker: mk, View: viewToResponse(sess)})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

func viewParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	var id string
	if err := runtime.BindStyledParameterWithOptions("simple", "view", chi.URLParam(r, "view"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true},
	); err != nil {
		writeParamError(w, "view", err)
		return "", false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid request body")
		return false
	}
	return true
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
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

func writeParamError(w http.ResponseWriter, name string, _ error) {
	writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, fmt.Sprintf("invalid %s parameter", name))
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrViewNotFound,
		domain.ErrMarkerNotFound,
		domain.ErrUnsupportedSpatialReference,
		domain.ErrInvalidQuery,
		domain.ErrUpstream,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
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

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.logger.With(zap.String("request_id", chiMiddleware.GetReqID(r.Context())))
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
