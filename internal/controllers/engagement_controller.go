package controllers

import (
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"

	"emt/internal/models"
	"emt/internal/providers"
	"emt/internal/services"
)

const maxRequestBodySize = 1 << 20 // 1 MB

const (
	metricsMaxAge  = 60
	trendingMaxAge = 300
)

type EngagementController struct {
	logger  providers.Logger
	service services.EngagementServiceInterface
	cache   providers.CacheProviderInterface
}

func NewEngagementController(logger providers.Logger, service services.EngagementServiceInterface, cache providers.CacheProviderInterface) *EngagementController {
	return &EngagementController{
		logger:  logger,
		service: service,
		cache:   cache,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

// writeError maps the error taxonomy onto status codes: validation failures
// are the client's fault, everything else is a server error. Store failures
// are never downgraded to empty results on the write path.
func (ec *EngagementController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if models.IsValidationError(err) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	ec.logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "%s %s failed: %s", r.Method, r.URL.Path, err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("malformed request body: %w", err)
	}
	return nil
}

func (ec *EngagementController) serveFromCacheOrCompute(w http.ResponseWriter, r *http.Request, cacheKey string, maxAge int, compute func() (any, error)) {
	cacheControl := fmt.Sprintf("public, max-age=%d", maxAge)
	if data, ok := ec.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", cacheControl)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		ec.writeError(w, r, err)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ec.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", cacheControl)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (ec *EngagementController) TrackView(w http.ResponseWriter, r *http.Request) {
	var req models.TrackViewRequest
	if err := decodeBody(w, r, &req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	result, err := ec.service.TrackView(r.Context(), &req)
	if err != nil {
		ec.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (ec *EngagementController) ToggleVote(w http.ResponseWriter, r *http.Request) {
	var req models.VoteRequest
	if err := decodeBody(w, r, &req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	result, err := ec.service.ToggleVote(r.Context(), &req)
	if err != nil {
		ec.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (ec *EngagementController) ToggleSave(w http.ResponseWriter, r *http.Request) {
	var req models.SaveRequest
	if err := decodeBody(w, r, &req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	result, err := ec.service.ToggleSave(r.Context(), &req)
	if err != nil {
		ec.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (ec *EngagementController) GetMetrics(w http.ResponseWriter, r *http.Request) {
	itemID := r.URL.Query().Get("id")
	fingerprint := r.URL.Query().Get("f")
	cacheKey := "metrics:" + itemID + ":" + fingerprint
	ec.serveFromCacheOrCompute(w, r, cacheKey, metricsMaxAge, func() (any, error) {
		return ec.service.GetMetrics(r.Context(), itemID, fingerprint)
	})
}

func (ec *EngagementController) GetTrending(w http.ResponseWriter, r *http.Request) {
	ec.serveFromCacheOrCompute(w, r, "trending", trendingMaxAge, func() (any, error) {
		return ec.service.GetTrending(r.Context())
	})
}
