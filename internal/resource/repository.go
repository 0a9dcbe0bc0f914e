package resource

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/reserva-app/reserva-backend/internal/db"
)

type Repository interface {
	Create(ctx context.Context, res *Resource) error
	GetByID(ctx context.Context, id int64) (*Resource, error)
	List(ctx context.Context, filter Filter) ([]*Resource, int, error)
	Update(ctx context.Context, res *Resource) error
	Delete(ctx context.Context, id int64) error

	// CountDependents returns how many schedules, unavailable slots and
	// reservations still reference the resource.
	CountDependents(ctx context.Context, id int64) (int, error)

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

func (r *pgxRepository) Create(ctx context.Context, res *Resource) error {
	const query = `
		INSERT INTO public.resources (title, description, owner_id, is_blocked)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, res.Title, res.Description, res.OwnerID, res.IsBlocked).
		Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		return fmt.Errorf("create resource failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Resource, error) {
	const query = `
		SELECT r.id, r.title, r.description, r.owner_id, u.name, r.is_blocked, r.photo_path, r.created_at
		FROM public.resources r
		JOIN public.users u ON r.owner_id = u.id
		WHERE r.id = $1
	`

	var res Resource
	err := r.db.QueryRow(ctx, query, id).Scan(
		&res.ID, &res.Title, &res.Description, &res.OwnerID, &res.OwnerName,
		&res.IsBlocked, &res.PhotoPath, &res.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get resource failed: %w", err)
	}
	return &res, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Resource, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"r.id", "r.title", "r.description", "r.owner_id", "u.name",
		"r.is_blocked", "r.photo_path", "r.created_at",
		"count(*) OVER() AS total_count",
	).
		From("public.resources r").
		Join("public.users u ON r.owner_id = u.id")

	if filter.OwnerID != 0 {
		query = query.Where(squirrel.Eq{"r.owner_id": filter.OwnerID})
	}
	if filter.IsBlocked != nil {
		query = query.Where(squirrel.Eq{"r.is_blocked": *filter.IsBlocked})
	}

	query = query.OrderBy("r.created_at DESC")

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
		return nil, 0, fmt.Errorf("build list resources query failed: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list resources failed: %w", err)
	}
	defer rows.Close()

	var result []*Resource
	var total int

	for rows.Next() {
		var res Resource
		if err := rows.Scan(
			&res.ID, &res.Title, &res.Description, &res.OwnerID, &res.OwnerName,
			&res.IsBlocked, &res.PhotoPath, &res.CreatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan resource failed: %w", err)
		}
		result = append(result, &res)
	}

	return result, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, res *Resource) error {
	const query = `
		UPDATE public.resources
		SET title = $1, description = $2, is_blocked = $3, photo_path = $4
		WHERE id = $5
	`
	ct, err := r.db.Exec(ctx, query, res.Title, res.Description, res.IsBlocked, res.PhotoPath, res.ID)
	if err != nil {
		return fmt.Errorf("update resource failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM public.resources WHERE id = $1`
	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete resource failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) CountDependents(ctx context.Context, id int64) (int, error) {
	const query = `
		SELECT
			(SELECT count(*) FROM public.schedules WHERE resource_id = $1) +
			(SELECT count(*) FROM public.unavailable_slots WHERE resource_id = $1) +
			(SELECT count(*) FROM public.reservations WHERE resource_id = $1)
	`
	var total int
	if err := r.db.QueryRow(ctx, query, id).Scan(&total); err != nil {
		return 0, fmt.Errorf("count resource dependents failed: %w", err)
	}
	return total, nil
}
