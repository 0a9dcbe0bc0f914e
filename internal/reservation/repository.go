package reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/reserva-app/reserva-backend/internal/db"
)

type Repository interface {
	Create(ctx context.Context, rsv *Reservation) error
	GetByID(ctx context.Context, id int64) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)
	Delete(ctx context.Context, id int64) error

	// WithTx returns a copy of the repository bound to the given transaction.
	WithTx(tx pgx.Tx) Repository
}

type pgxRepository struct {
	db db.Querier
}

func NewPgxRepository(q db.Querier) Repository {
	return &pgxRepository{db: q}
}

func (r *pgxRepository) WithTx(tx pgx.Tx) Repository {
	return &pgxRepository{db: tx}
}

func (r *pgxRepository) Create(ctx context.Context, rsv *Reservation) error {
	const query = `
		INSERT INTO public.reservations (resource_id, user_id, start_time, end_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, rsv.ResourceID, rsv.UserID, rsv.StartTime, rsv.EndTime).
		Scan(&rsv.ID, &rsv.CreatedAt)
	if err != nil {
		return fmt.Errorf("create reservation failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Reservation, error) {
	const query = `
		SELECT rv.id, rv.resource_id, r.title, rv.user_id, u.name,
		       rv.start_time, rv.end_time, rv.created_at
		FROM public.reservations rv
		JOIN public.resources r ON rv.resource_id = r.id
		JOIN public.users u ON rv.user_id = u.id
		WHERE rv.id = $1
	`

	var rsv Reservation
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rsv.ID, &rsv.ResourceID, &rsv.ResourceTitle, &rsv.UserID, &rsv.UserName,
		&rsv.StartTime, &rsv.EndTime, &rsv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get reservation failed: %w", err)
	}
	return &rsv, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"rv.id", "rv.resource_id", "r.title", "rv.user_id", "u.name",
		"rv.start_time", "rv.end_time", "rv.created_at",
		"count(*) OVER() AS total_count",
	).
		From("public.reservations rv").
		Join("public.resources r ON rv.resource_id = r.id").
		Join("public.users u ON rv.user_id = u.id")

	if filter.UserID != 0 {
		query = query.Where(squirrel.Eq{"rv.user_id": filter.UserID})
	}
	if filter.ResourceID != 0 {
		query = query.Where(squirrel.Eq{"rv.resource_id": filter.ResourceID})
	}

	query = query.OrderBy("rv.start_time DESC")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list reservations query failed: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations failed: %w", err)
	}
	defer rows.Close()

	var reservations []*Reservation
	var total int

	for rows.Next() {
		var rsv Reservation
		if err := rows.Scan(
			&rsv.ID, &rsv.ResourceID, &rsv.ResourceTitle, &rsv.UserID, &rsv.UserName,
			&rsv.StartTime, &rsv.EndTime, &rsv.CreatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan reservation failed: %w", err)
		}
		reservations = append(reservations, &rsv)
	}

	return reservations, total, nil
}

func (r *pgxRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM public.reservations WHERE id = $1`
	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete reservation failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
