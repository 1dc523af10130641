package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAggregates(t *testing.T) {
	c := NewChecker()
	c.Register("redis", func(context.Context) error { return nil })
	report := c.Run(context.Background())
	assert.Equal(t, StatusUp, report.Status)
	assert.Equal(t, StatusUp, report.Components["redis"].Status)

	c.Register("kafka", func(context.Context) error { return errors.New("connection refused") })
	report = c.Run(context.Background())
	assert.Equal(t, StatusDown, report.Status)
	assert.Equal(t, "connection refused", report.Components["kafka"].Message)
	assert.Equal(t, []string{"kafka", "redis"}, c.Names())
}

func TestReadyHandler(t *testing.T) {
	c := NewChecker()
	rec := httptest.NewRecorder()
	c.ReadyHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	c.Register("redis", func(context.Context) error { return errors.New("down") })
	rec = httptest.NewRecorder()
	c.ReadyHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var report Report
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	assert.Equal(t, StatusDown, report.Status)
}
