package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/maxviazov/lexico-users/internal/model"
)

// maxBodyBytes caps how much of a response body is kept for logging.
const maxBodyBytes = 64 << 10

// Result is what the endpoint answered for one record.
type Result struct {
	Status int
	Body   []byte
}

// OK reports a 2xx status.
func (r Result) OK() bool { return r.Status >= 200 && r.Status < 300 }

// HTTPSubmitter POSTs one record per request as JSON.
type HTTPSubmitter struct {
	client   *http.Client
	endpoint string
}

func NewHTTPSubmitter(endpoint string, timeout time.Duration) *HTTPSubmitter {
	return &HTTPSubmitter{
		client:   &http.Client{Timeout: timeout},
		endpoint: endpoint,
	}
}

// Submit sends rec and returns the response status and body. An error means
// no response was obtained at all; any status, including 4xx/5xx, is a Result.
func (s *HTTPSubmitter) Submit(ctx context.Context, rec model.Record) (Result, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return Result{}, fmt.Errorf("encode record %d: %w", rec.Key, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("post record %d: %w", rec.Key, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Result{Status: resp.StatusCode}, fmt.Errorf("read response for record %d: %w", rec.Key, err)
	}
	return Result{Status: resp.StatusCode, Body: body}, nil
}
