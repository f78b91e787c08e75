package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorders(t *testing.T) {
	m := New()
	m.RecordPrediction("catboost_model.cbm", 40, 25)
	m.RecordPredictionFailure("catboost_model.cbm")
	m.RecordChat("text", nil)
	m.RecordChat("text", errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Predictions.WithLabelValues("catboost_model.cbm", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Predictions.WithLabelValues("catboost_model.cbm", "error")))
	assert.Equal(t, 40.0, testutil.ToFloat64(m.PredictedRecords))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChatRequests.WithLabelValues("text", "error")))
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/healthz", "200")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "churnradar_http_requests_total")

	// two instances do not collide
	assert.NotPanics(t, func() { New() })
}
