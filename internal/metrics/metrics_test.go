package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestIngestRows(t *testing.T) {
	before := testutil.ToFloat64(IngestRows.WithLabelValues("calls", OutcomeInserted))
	IngestRows.WithLabelValues("calls", OutcomeInserted).Add(3)
	assert.Equal(t, before+3, testutil.ToFloat64(IngestRows.WithLabelValues("calls", OutcomeInserted)))
}

func TestObserveOperation(t *testing.T) {
	var err error
	ObserveOperation("unit-ok", time.Now(), &err)
	err = errors.New("boom")
	ObserveOperation("unit-fail", time.Now(), &err)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()

	assert.True(t, strings.Contains(body, `crimegraph_operation_duration_seconds_count{operation="unit-ok",status="ok"} 1`))
	assert.True(t, strings.Contains(body, `crimegraph_operation_duration_seconds_count{operation="unit-fail",status="error"} 1`))
}
