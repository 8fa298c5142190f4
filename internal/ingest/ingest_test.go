package ingest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/maxviazov/lexico-users/internal/ingest"
	"github.com/maxviazov/lexico-users/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is an endpoint that remembers every key it was sent.
type recorder struct {
	mu      sync.Mutex
	keys    []int64
	ctypes  []string
	status  int
	replyFn func(model.Record) string
}

func (rc *recorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var rec model.Record
	_ = json.NewDecoder(r.Body).Decode(&rec)
	rc.mu.Lock()
	rc.keys = append(rc.keys, rec.Key)
	rc.ctypes = append(rc.ctypes, r.Header.Get("Content-Type"))
	rc.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rc.status)
	_, _ = io.WriteString(w, rc.replyFn(rec))
}

func newRecorder(status int) *recorder {
	return &recorder{status: status, replyFn: func(model.Record) string { return `{"ok":true}` }}
}

func newIngestor(endpoint string, logs io.Writer) *ingest.Ingestor {
	return ingest.New(
		ingest.NewSeededGenerator(42),
		ingest.NewHTTPSubmitter(endpoint, 2*time.Second),
		zerolog.New(logs),
	)
}

func TestRun_SubmitsContiguousAscendingKeys(t *testing.T) {
	rc := newRecorder(http.StatusCreated)
	srv := httptest.NewServer(rc)
	defer srv.Close()

	sum, err := newIngestor(srv.URL, io.Discard).Run(context.Background(), 20)
	require.NoError(t, err)

	assert.Equal(t, int64(20), sum.Attempted)
	assert.Equal(t, int64(20), sum.Succeeded)
	assert.Zero(t, sum.Failed)
	assert.NotEmpty(t, sum.RunID)
	require.Len(t, rc.keys, 20)
	for i, k := range rc.keys {
		assert.Equal(t, int64(i+1), k, "key at position %d", i+1)
	}
	for _, ct := range rc.ctypes {
		assert.Equal(t, "application/json", ct)
	}
}

func TestRun_PayloadHasExactlyFourFields(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&raw)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	_, err := newIngestor(srv.URL, io.Discard).Run(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, raw, 4)
	assert.Equal(t, float64(1), raw["Clave_Cliente"])
	for _, f := range []string{"Nombre", "Celular", "Email"} {
		s, ok := raw[f].(string)
		assert.True(t, ok && s != "", "field %s should be a non-empty string", f)
	}
}

func TestRun_RejectingEndpointCompletesNormally(t *testing.T) {
	rc := newRecorder(http.StatusBadRequest)
	rc.replyFn = func(rec model.Record) string { return `{"error":"invalid_input"}` }
	srv := httptest.NewServer(rc)
	defer srv.Close()

	var logs bytes.Buffer
	sum, err := newIngestor(srv.URL, &logs).Run(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, ingest.Summary{RunID: sum.RunID, Attempted: 5, Failed: 5, Took: sum.Took}, sum)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, rc.keys)
	assert.Equal(t, 5, strings.Count(logs.String(), `"message":"submission rejected"`))
	assert.Contains(t, logs.String(), `"body":{"error":"invalid_input"}`)
	assert.Contains(t, logs.String(), `"status":400`)
}

func TestRun_UnreachableEndpointKeepsGoing(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	var logs bytes.Buffer
	sum, err := newIngestor(url, &logs).Run(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), sum.Attempted)
	assert.Equal(t, int64(4), sum.Failed)
	assert.Equal(t, 4, strings.Count(logs.String(), `"message":"submission failed"`))
}

func TestRun_ZeroCountMakesNoAttempts(t *testing.T) {
	rc := newRecorder(http.StatusCreated)
	srv := httptest.NewServer(rc)
	defer srv.Close()

	for _, n := range []int64{0, -3} {
		sum, err := newIngestor(srv.URL, io.Discard).Run(context.Background(), n)
		require.NoError(t, err)
		assert.Zero(t, sum.Attempted)
	}
	assert.Empty(t, rc.keys)
}

func TestRun_LogsStatusAndBodyOnSuccess(t *testing.T) {
	rc := newRecorder(http.StatusCreated)
	srv := httptest.NewServer(rc)
	defer srv.Close()

	var logs bytes.Buffer
	_, err := newIngestor(srv.URL, &logs).Run(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(logs.String(), `"message":"record submitted"`))
	assert.Contains(t, logs.String(), `"status":201`)
	assert.Contains(t, logs.String(), `"body":{"ok":true}`)
}

// cancelingSubmitter cancels the run after n submissions.
type cancelingSubmitter struct {
	n      int
	seen   []int64
	cancel context.CancelFunc
}

func (c *cancelingSubmitter) Submit(_ context.Context, rec model.Record) (ingest.Result, error) {
	c.seen = append(c.seen, rec.Key)
	if len(c.seen) == c.n {
		c.cancel()
	}
	return ingest.Result{Status: http.StatusCreated}, nil
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub := &cancelingSubmitter{n: 3, cancel: cancel}

	sum, err := ingest.New(ingest.NewGenerator(), sub, zerolog.New(io.Discard)).Run(ctx, 10)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(3), sum.Attempted)
	assert.Equal(t, []int64{1, 2, 3}, sub.seen)
}
