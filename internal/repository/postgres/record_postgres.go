package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/lexico-users/internal/model"
	"github.com/maxviazov/lexico-users/internal/repository"
)

type recordRepository struct{ pool *pgxpool.Pool }

func NewRecordRepository(pool *pgxpool.Pool) repository.RecordRepository {
	return &recordRepository{pool: pool}
}

func ensurePool(p *pgxpool.Pool) error {
	if p == nil {
		return errors.New("postgres pool is nil")
	}
	return nil
}

func (r *recordRepository) Create(ctx context.Context, rec model.Record) (model.Record, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Record{}, err
	}
	row := r.pool.QueryRow(ctx,
		`INSERT INTO users (clave_cliente, nombre, celular, email)
		 VALUES ($1, $2, $3, $4)
		 RETURNING clave_cliente, nombre, celular, email`,
		rec.Key, rec.Name, rec.Phone, rec.Email,
	)
	var out model.Record
	if err := row.Scan(&out.Key, &out.Name, &out.Phone, &out.Email); err != nil {
		return model.Record{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *recordRepository) GetByKey(ctx context.Context, key int64) (model.Record, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Record{}, err
	}
	row := r.pool.QueryRow(ctx,
		`SELECT clave_cliente, nombre, celular, email FROM users WHERE clave_cliente = $1`, key,
	)
	var out model.Record
	if err := row.Scan(&out.Key, &out.Name, &out.Phone, &out.Email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Record{}, repository.ErrNotFound
		}
		return model.Record{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *recordRepository) List(ctx context.Context, p repository.Page) (repository.PageResult[model.Record], error) {
	if err := ensurePool(r.pool); err != nil {
		return repository.PageResult[model.Record]{}, err
	}
	p = p.Sanitized()
	rows, err := r.pool.Query(ctx,
		`SELECT clave_cliente, nombre, celular, email, COUNT(*) OVER() AS total
		 FROM users
		 ORDER BY clave_cliente
		 LIMIT $1 OFFSET $2`,
		p.Limit, p.Offset,
	)
	if err != nil {
		return repository.PageResult[model.Record]{}, repository.MapPgError(err)
	}
	defer rows.Close()

	res := repository.PageResult[model.Record]{Items: make([]model.Record, 0, p.Limit)}
	for rows.Next() {
		var it model.Record
		if err := rows.Scan(&it.Key, &it.Name, &it.Phone, &it.Email, &res.Total); err != nil {
			return repository.PageResult[model.Record]{}, repository.MapPgError(err)
		}
		res.Items = append(res.Items, it)
	}
	if err := rows.Err(); err != nil {
		return repository.PageResult[model.Record]{}, repository.MapPgError(err)
	}

	// The window function yields no total once the offset runs past the end.
	if len(res.Items) == 0 && p.Offset > 0 {
		total, err := r.Count(ctx)
		if err != nil {
			return repository.PageResult[model.Record]{}, err
		}
		res.Total = total
	}
	return res, nil
}

func (r *recordRepository) ListWindow(ctx context.Context, p repository.Page) ([]model.Record, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	p = p.Sanitized()
	rows, err := r.pool.Query(ctx,
		`SELECT clave_cliente, nombre, celular, email
		 FROM users
		 ORDER BY clave_cliente
		 LIMIT $1 OFFSET $2`,
		p.Limit, p.Offset,
	)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	return collectRecords(rows)
}

func (r *recordRepository) ListAfter(ctx context.Context, afterKey int64, limit int) ([]model.Record, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	limit = repository.Page{Limit: limit}.Sanitized().Limit
	rows, err := r.pool.Query(ctx,
		`SELECT clave_cliente, nombre, celular, email
		 FROM users WHERE clave_cliente > $1
		 ORDER BY clave_cliente
		 LIMIT $2`,
		afterKey, limit,
	)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	return collectRecords(rows)
}

// collectRecords drains rows into a never-nil slice.
func collectRecords(rows pgx.Rows) ([]model.Record, error) {
	records, err := pgx.CollectRows(rows, pgx.RowToStructByPos[model.Record])
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	if records == nil {
		records = []model.Record{}
	}
	return records, nil
}

func (r *recordRepository) Count(ctx context.Context) (int64, error) {
	if err := ensurePool(r.pool); err != nil {
		return 0, err
	}
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, repository.MapPgError(err)
	}
	return n, nil
}

var _ repository.RecordRepository = (*recordRepository)(nil)
