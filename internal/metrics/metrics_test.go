package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveBuild(t *testing.T) {
	r := NewRegistry()
	r.ObserveBuild("seo", 120*time.Millisecond, 50, nil)
	r.ObserveBuild("seo", time.Second, 0, errors.New("boom"))
	r.ObserveBuild("esa", time.Second, 0, errors.New("unavailable"))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.builds.WithLabelValues("seo", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.builds.WithLabelValues("seo", ResultError)))
	assert.Equal(t, 50.0, testutil.ToFloat64(r.lastScore.WithLabelValues("seo")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.buildDuration))
}

func TestObserveCache(t *testing.T) {
	r := NewRegistry()
	r.ObserveCache("content", true)
	r.ObserveCache("content", false)
	r.ObserveCache("content", false)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.cacheLookups.WithLabelValues("content", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.cacheLookups.WithLabelValues("content", "miss")))
}

func TestSubscribers(t *testing.T) {
	r := NewRegistry()
	r.SubscriberAdded()
	r.SubscriberAdded()
	r.SubscriberRemoved()
	assert.Equal(t, 1.0, testutil.ToFloat64(r.subscribers))
}

func TestNilRegistry(t *testing.T) {
	var r *Registry
	assert.NotPanics(t, func() {
		r.ObserveBuild("seo", time.Second, 1, nil)
		r.ObserveCache("seo", true)
		r.SubscriberAdded()
		r.SubscriberRemoved()
	})
}

func TestMiddlewareAndHandler(t *testing.T) {
	r := NewRegistry()
	router := chi.NewRouter()
	router.Use(r.Middleware)
	router.Get("/api/{kind}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	router.Handle("/metrics", r.Handler())

	for _, path := range []string{"/api/seo", "/api/esa"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusTeapot, rec.Code)
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(r.httpRequests.WithLabelValues("/api/{kind}", "GET", "418")))

	srv := httptest.NewServer(router)
	defer srv.Close()
	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `atlas_http_requests_total{code="418",method="GET",route="/api/{kind}"} 2`)
	assert.Contains(t, string(body), "go_goroutines")
}
