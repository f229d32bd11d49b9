package controllers

import (
	"net/http"

	json "github.com/goccy/go-json"

	"emt/internal/models"
	"emt/internal/providers"
	"emt/internal/store"
	"emt/internal/trending"
)

// AdminController exposes the operational surface: bulk invalidation of
// derived keys and a manual trending trigger. Not meant for anonymous
// clients; the deployment fronts it with its own access control.
type AdminController struct {
	logger     providers.Logger
	store      store.EngagementStoreInterface
	cache      providers.CacheProviderInterface
	recomputer *trending.Recomputer
}

func NewAdminController(logger providers.Logger, engagementStore store.EngagementStoreInterface, cache providers.CacheProviderInterface, recomputer *trending.Recomputer) *AdminController {
	return &AdminController{
		logger:     logger,
		store:      engagementStore,
		cache:      cache,
		recomputer: recomputer,
	}
}

type clearCachesRequest struct {
	Keys []string `json:"keys"`
}

// ClearCaches drops the named derived keys. Each key is handled on its own:
// one failure never aborts the rest. Snapshot slots are removed from the
// store; every key is also evicted from the response cache.
func (ac *AdminController) ClearCaches(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req clearCachesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	result := &models.ClearCachesResult{Results: make(map[string]string, len(req.Keys))}
	for _, key := range req.Keys {
		ac.cache.Del(key)
		if key == store.SlotCurrent || key == store.SlotBackup {
			if err := ac.store.DeleteSnapshot(r.Context(), key); err != nil {
				ac.logger.Errorf(providers.TypePost, "Failed to delete %s: %s", key, err)
				result.Results[key] = "error: " + err.Error()
				continue
			}
		}
		result.Results[key] = "ok"
		result.KeysDeleted++
	}

	ac.logger.Infof(providers.TypePost, "Cleared %d of %d requested keys", result.KeysDeleted, len(req.Keys))
	writeJSON(w, http.StatusOK, result)
}

// RecomputeTrending runs one recomputation synchronously. The run carries
// its own deadline and single-flight guard.
func (ac *AdminController) RecomputeTrending(w http.ResponseWriter, r *http.Request) {
	if err := ac.recomputer.Run(r.Context()); err != nil {
		ac.logger.Errorf(providers.TypePost, "Manual trending run failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	// Drop the cached ranking so the next read serves the fresh snapshot.
	ac.cache.Del("trending")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
