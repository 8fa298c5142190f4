package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/maxviazov/lexico-users/internal/model"
	"github.com/maxviazov/lexico-users/internal/reader"
	"github.com/maxviazov/lexico-users/internal/repository"
	"github.com/rs/zerolog"
)

// recordService holds record use-case logic: validation + orchestration, no transport / storage details.
type recordService struct {
	repo     repository.RecordRepository
	reader   *reader.Reader
	validate *validator.Validate
	log      zerolog.Logger
}

func NewRecordService(repo repository.RecordRepository, logger zerolog.Logger) RecordService {
	l := logger.With().Str("module", "service").Str("component", "record").Logger()
	return &recordService{
		repo:     repo,
		reader:   reader.New(repo, logger),
		validate: newValidator(),
		log:      l,
	}
}

func (s *recordService) CreateRecord(ctx context.Context, rec model.Record) (model.Record, error) {
	start := time.Now()
	rec.Name = strings.TrimSpace(rec.Name)
	rec.Phone = strings.TrimSpace(rec.Phone)
	rec.Email = strings.TrimSpace(rec.Email)

	if err := s.validate.Struct(rec); err != nil {
		ferrs := toFieldErrors(err)
		if ferrs == nil {
			return model.Record{}, err
		}
		s.log.Debug().Int64("key", rec.Key).Interface("field_errors", ferrs).Msg("record validation failed")
		return model.Record{}, NewInvalidInputError(ferrs)
	}

	out, err := s.repo.Create(ctx, rec)
	if err != nil {
		// Repository surfaces domain-level errors already, do not wrap.
		s.log.Error().Err(err).Int64("key", rec.Key).Msg("create record failed")
		return model.Record{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("key", out.Key).Msg("record created")
	return out, nil
}

func (s *recordService) GetRecord(ctx context.Context, key int64) (model.Record, error) {
	if key <= 0 {
		return model.Record{}, NewInvalidInputError([]FieldError{{Field: "Clave_Cliente", Message: "must be > 0"}})
	}
	return s.repo.GetByKey(ctx, key)
}

func (s *recordService) ListPage(ctx context.Context, page, pageSize int) ([]model.Record, model.PageInfo, error) {
	if err := NewInvalidInputError(checkPageWindow(page, pageSize)); err != nil {
		return nil, model.PageInfo{}, err
	}
	items, info, err := s.reader.FetchPageInfo(ctx, page, pageSize)
	if err != nil {
		s.log.Error().Err(err).Int("page", page).Int("limit", pageSize).Msg("list records failed")
		return nil, model.PageInfo{}, err
	}
	return items, info, nil
}

func (s *recordService) ListAfter(ctx context.Context, afterKey int64, limit int) ([]model.Record, error) {
	var ferrs []FieldError
	if afterKey < 0 {
		ferrs = append(ferrs, FieldError{Field: "after", Message: "must be >= 0"})
	}
	if limit < 1 || limit > MaxPageSize {
		ferrs = append(ferrs, FieldError{Field: "limit", Message: "must be between 1 and 1000"})
	}
	if err := NewInvalidInputError(ferrs); err != nil {
		return nil, err
	}
	items, err := s.reader.FetchAfter(ctx, afterKey, limit)
	if err != nil {
		s.log.Error().Err(err).Int64("after", afterKey).Int("limit", limit).Msg("list records after key failed")
		return nil, err
	}
	return items, nil
}
