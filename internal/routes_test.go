package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emt/internal/controllers"
	"emt/internal/services"
	"emt/internal/store"
	"emt/internal/structures"
	"emt/internal/testutil"
	"emt/internal/trending"
)

func routeTestConfig() *structures.Config {
	return &structures.Config{
		Trending: structures.TrendingConfig{
			Interval: 5 * time.Minute,
			Deadline: 5 * time.Second,
			TopN:     5,
		},
	}
}

func routeTestControllers() (*controllers.EngagementController, *controllers.AdminController, *structures.Config) {
	conf := routeTestConfig()
	logger := &testutil.MockLogger{}
	cache := testutil.NewMockCache()
	mem := store.NewMemoryStore()
	service := services.NewEngagementService(mem, logger)
	recomputer := trending.NewRecomputer(conf, mem, logger, &testutil.MockMetrics{})
	ec := controllers.NewEngagementController(logger, service, cache)
	ac := controllers.NewAdminController(logger, mem, cache, recomputer)
	return ec, ac, conf
}

func TestInitRoutes_RegistersSevenRoutes(t *testing.T) {
	ec, ac, conf := routeTestControllers()

	router := InitRoutes(ec, ac, conf)
	routes := router.GetRoutes()

	require.Len(t, routes, 7)

	urls := make([]string, len(routes))
	for i, r := range routes {
		urls[i] = r.Url
	}

	assert.Contains(t, urls, "/views")
	assert.Contains(t, urls, "/votes")
	assert.Contains(t, urls, "/saves")
	assert.Contains(t, urls, "/metrics/item")
	assert.Contains(t, urls, "/trending")
	assert.Contains(t, urls, "/admin/cache/clear")
	assert.Contains(t, urls, "/admin/trending/recompute")
}

func TestInitRoutes_MethodEnforcement(t *testing.T) {
	ec, ac, conf := routeTestControllers()

	router := InitRoutes(ec, ac, conf)
	routes := router.GetRoutes()

	mux := http.NewServeMux()
	for _, r := range routes {
		mux.Handle(r.Url, r.Handler)
	}

	// POST /trending should fail
	req := httptest.NewRequest(http.MethodPost, "/trending", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	// GET /views should fail
	req = httptest.NewRequest(http.MethodGet, "/views", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
