package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordStoreQuery(t *testing.T) {
	before := testutil.ToFloat64(StoreQueryErrors.WithLabelValues("catalog", "find_recent", "timeout"))

	RecordStoreQuery("catalog", "find_recent", 5*time.Millisecond, nil)
	RecordStoreQuery("catalog", "find_recent", time.Second, fmt.Errorf("query: %w", context.DeadlineExceeded))

	after := testutil.ToFloat64(StoreQueryErrors.WithLabelValues("catalog", "find_recent", "timeout"))
	assert.Equal(t, before+1, after)
}

func TestErrorType(t *testing.T) {
	assert.Equal(t, "timeout", errorType(context.DeadlineExceeded))
	assert.Equal(t, "canceled", errorType(fmt.Errorf("wrapped: %w", context.Canceled)))
	assert.Equal(t, "error", errorType(errors.New("connection refused")))
}

func TestRecordHTTPRequest(t *testing.T) {
	c := HTTPRequests.WithLabelValues("GET", "/api/v1/recommendations/:userId", "404")
	before := testutil.ToFloat64(c)

	RecordHTTPRequest("GET", "/api/v1/recommendations/:userId", 404, time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(c))
}
