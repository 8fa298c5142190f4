// Package ingest generates synthetic user records and submits them one by one
// to the users API. The loop is strictly sequential: one request in flight,
// keys 1..count in order, and a failed submission is logged and skipped.
package ingest

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/maxviazov/lexico-users/internal/model"
	"github.com/rs/zerolog"
)

// Source builds the record for a given key.
type Source interface {
	Next(key int64) model.Record
}

// Submitter delivers one record and reports what the endpoint answered.
type Submitter interface {
	Submit(ctx context.Context, rec model.Record) (Result, error)
}

// Summary counts what happened during a run.
type Summary struct {
	RunID     string        `json:"run_id"`
	Attempted int64         `json:"attempted"`
	Succeeded int64         `json:"succeeded"`
	Failed    int64         `json:"failed"`
	Took      time.Duration `json:"took"`
}

// Ingestor pairs a Source with a Submitter and drives one sequential run.
type Ingestor struct {
	src Source
	sub Submitter
	log zerolog.Logger
}

// New builds an Ingestor that logs under the ingest component.
func New(src Source, sub Submitter, logger zerolog.Logger) *Ingestor {
	return &Ingestor{src: src, sub: sub, log: logger.With().Str("component", "ingest").Logger()}
}

// Run submits records with keys 1..count. It never retries and never stops on
// a failed submission; only ctx cancellation ends it early, in which case the
// partial summary is returned with ctx.Err().
func (in *Ingestor) Run(ctx context.Context, count int64) (Summary, error) {
	start := time.Now()
	sum := Summary{RunID: uuid.NewString()}
	log := in.log.With().Str("run_id", sum.RunID).Logger()
	log.Info().Int64("count", count).Msg("ingest started")

	for key := int64(1); key <= count; key++ {
		if err := ctx.Err(); err != nil {
			sum.Took = time.Since(start)
			log.Warn().Err(err).Int64("next_key", key).Msg("ingest interrupted")
			return sum, err
		}

		rec := in.src.Next(key)
		sum.Attempted++
		res, err := in.sub.Submit(ctx, rec)

		switch {
		case err != nil:
			sum.Failed++
			log.Warn().Err(err).Int64("key", key).Int("status", res.Status).Msg("submission failed")
		case !res.OK():
			sum.Failed++
			withBody(log.Warn(), res.Body).Int64("key", key).Int("status", res.Status).Msg("submission rejected")
		default:
			sum.Succeeded++
			withBody(log.Info(), res.Body).Int64("key", key).Int("status", res.Status).Msg("record submitted")
		}
	}

	sum.Took = time.Since(start)
	log.Info().
		Int64("attempted", sum.Attempted).
		Int64("succeeded", sum.Succeeded).
		Int64("failed", sum.Failed).
		Dur("took", sum.Took).
		Msg("ingest finished")
	return sum, nil
}

// withBody embeds JSON bodies as-is and anything else as a string.
func withBody(e *zerolog.Event, body []byte) *zerolog.Event {
	if len(body) > 0 && json.Valid(body) {
		return e.RawJSON("body", body)
	}
	return e.Str("body", string(body))
}
