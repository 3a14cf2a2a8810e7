package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	swhttp "github.com/milan604/swretail-go/pkg/http"
)

func TestCollector_Finished(t *testing.T) {
	c := NewCollector()

	c.Started("GET")
	assert.Equal(t, 1.0, testutil.ToFloat64(c.inFlight))

	c.Finished("GET", swhttp.KindOK, 200, 20*time.Millisecond)
	c.Started("GET")
	c.Finished("GET", swhttp.KindConnect, 0, time.Millisecond)

	assert.Equal(t, 0.0, testutil.ToFloat64(c.inFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.reqCount.WithLabelValues("GET", "ok", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.reqCount.WithLabelValues("GET", "connect_error", "0")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.reqDurHist))
}

func TestCollector_WithTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	c := NewCollector()
	client, err := swhttp.NewClient(swhttp.Config{BaseURL: srv.URL}, swhttp.WithObserver(c))
	require.NoError(t, err)

	_, err = client.Do(context.Background(), swhttp.Request{Method: "GET", Path: "items"})
	require.NoError(t, err)
	_, err = client.Do(context.Background(), swhttp.Request{Method: "GET", Path: "missing"})
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.reqCount.WithLabelValues("GET", "ok", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.reqCount.WithLabelValues("GET", "client_error", "404")))

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "swretail_requests_total")
	assert.Contains(t, rec.Body.String(), "swretail_requests_in_flight 0")
}
