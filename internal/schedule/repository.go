package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/reserva-app/reserva-backend/internal/db"
	"github.com/reserva-app/reserva-backend/internal/pkg/timeslot"
)

type Repository interface {
	CreateSchedule(ctx context.Context, sch *Schedule) error
	GetScheduleByID(ctx context.Context, id int64) (*Schedule, error)
	ListSchedulesByResource(ctx context.Context, resourceID int64) ([]*Schedule, error)
	UpdateSchedule(ctx context.Context, sch *Schedule) error
	DeleteSchedule(ctx context.Context, id int64) error

	CreateSlot(ctx context.Context, slot *UnavailableSlot) error
	GetSlotByID(ctx context.Context, id int64) (*UnavailableSlot, error)
	ListSlotsByResource(ctx context.Context, resourceID int64) ([]*UnavailableSlot, error)
	DeleteSlot(ctx context.Context, id int64) error

	// ListOverlappingSchedules returns schedules of the resource whose interval
	// strictly overlaps slot. excludeID skips one record during updates.
	ListOverlappingSchedules(ctx context.Context, resourceID int64, slot timeslot.Range, excludeID int64) ([]*Schedule, error)

	// ListOverlappingSlots is the same-kind guard for unavailable slots.
	ListOverlappingSlots(ctx context.Context, resourceID int64, slot timeslot.Range, excludeID int64) ([]*UnavailableSlot, error)

	// HasAvailableScheduleContaining reports whether an is_available schedule
	// of the resource fully contains slot (non-strict at the boundaries).
	HasAvailableScheduleContaining(ctx context.Context, resourceID int64, slot timeslot.Range) (bool, error)

	// HasSlotOverlapping reports whether any unavailable slot of the resource
	// strictly overlaps slot.
	HasSlotOverlapping(ctx context.Context, resourceID int64, slot timeslot.Range) (bool, error)

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

func (r *pgxRepository) CreateSchedule(ctx context.Context, sch *Schedule) error {
	const query = `
		INSERT INTO public.schedules (resource_id, start_time, end_time, is_available)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, sch.ResourceID, sch.StartTime, sch.EndTime, sch.IsAvailable).
		Scan(&sch.ID, &sch.CreatedAt, &sch.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create schedule failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetScheduleByID(ctx context.Context, id int64) (*Schedule, error) {
	const query = `
		SELECT id, resource_id, start_time, end_time, is_available, created_at, updated_at
		FROM public.schedules
		WHERE id = $1
	`

	var sch Schedule
	err := r.db.QueryRow(ctx, query, id).Scan(
		&sch.ID, &sch.ResourceID, &sch.StartTime, &sch.EndTime,
		&sch.IsAvailable, &sch.CreatedAt, &sch.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get schedule failed: %w", err)
	}
	return &sch, nil
}

func (r *pgxRepository) ListSchedulesByResource(ctx context.Context, resourceID int64) ([]*Schedule, error) {
	const query = `
		SELECT id, resource_id, start_time, end_time, is_available, created_at, updated_at
		FROM public.schedules
		WHERE resource_id = $1
		ORDER BY start_time ASC
	`

	rows, err := r.db.Query(ctx, query, resourceID)
	if err != nil {
		return nil, fmt.Errorf("list schedules failed: %w", err)
	}
	defer rows.Close()

	var schedules []*Schedule
	for rows.Next() {
		var sch Schedule
		if err := rows.Scan(
			&sch.ID, &sch.ResourceID, &sch.StartTime, &sch.EndTime,
			&sch.IsAvailable, &sch.CreatedAt, &sch.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan schedule failed: %w", err)
		}
		schedules = append(schedules, &sch)
	}

	return schedules, nil
}

func (r *pgxRepository) UpdateSchedule(ctx context.Context, sch *Schedule) error {
	const query = `
		UPDATE public.schedules
		SET start_time = $1, end_time = $2, is_available = $3, updated_at = now()
		WHERE id = $4
	`
	ct, err := r.db.Exec(ctx, query, sch.StartTime, sch.EndTime, sch.IsAvailable, sch.ID)
	if err != nil {
		return fmt.Errorf("update schedule failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) DeleteSchedule(ctx context.Context, id int64) error {
	const query = `DELETE FROM public.schedules WHERE id = $1`
	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete schedule failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) CreateSlot(ctx context.Context, slot *UnavailableSlot) error {
	const query = `
		INSERT INTO public.unavailable_slots (resource_id, start_time, end_time)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, slot.ResourceID, slot.StartTime, slot.EndTime).
		Scan(&slot.ID, &slot.CreatedAt)
	if err != nil {
		return fmt.Errorf("create unavailable slot failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetSlotByID(ctx context.Context, id int64) (*UnavailableSlot, error) {
	const query = `
		SELECT id, resource_id, start_time, end_time, created_at
		FROM public.unavailable_slots
		WHERE id = $1
	`

	var slot UnavailableSlot
	err := r.db.QueryRow(ctx, query, id).
		Scan(&slot.ID, &slot.ResourceID, &slot.StartTime, &slot.EndTime, &slot.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("get unavailable slot failed: %w", err)
	}
	return &slot, nil
}

func (r *pgxRepository) ListSlotsByResource(ctx context.Context, resourceID int64) ([]*UnavailableSlot, error) {
	const query = `
		SELECT id, resource_id, start_time, end_time, created_at
		FROM public.unavailable_slots
		WHERE resource_id = $1
		ORDER BY start_time ASC
	`

	rows, err := r.db.Query(ctx, query, resourceID)
	if err != nil {
		return nil, fmt.Errorf("list unavailable slots failed: %w", err)
	}
	defer rows.Close()

	var slots []*UnavailableSlot
	for rows.Next() {
		var slot UnavailableSlot
		if err := rows.Scan(&slot.ID, &slot.ResourceID, &slot.StartTime, &slot.EndTime, &slot.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan unavailable slot failed: %w", err)
		}
		slots = append(slots, &slot)
	}

	return slots, nil
}

func (r *pgxRepository) DeleteSlot(ctx context.Context, id int64) error {
	const query = `DELETE FROM public.unavailable_slots WHERE id = $1`
	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete unavailable slot failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrSlotNotFound
	}
	return nil
}

func (r *pgxRepository) ListOverlappingSchedules(ctx context.Context, resourceID int64, slot timeslot.Range, excludeID int64) ([]*Schedule, error) {
	// Overlap is strict: records that merely touch at an endpoint do not count.
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("id", "resource_id", "start_time", "end_time", "is_available", "created_at", "updated_at").
		From("public.schedules").
		Where(squirrel.Eq{"resource_id": resourceID}).
		Where(squirrel.Lt{"start_time": slot.End}).
		Where(squirrel.Gt{"end_time": slot.Start}).
		OrderBy("start_time ASC")

	if excludeID != 0 {
		query = query.Where(squirrel.NotEq{"id": excludeID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build overlapping schedules query failed: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list overlapping schedules failed: %w", err)
	}
	defer rows.Close()

	var schedules []*Schedule
	for rows.Next() {
		var sch Schedule
		if err := rows.Scan(
			&sch.ID, &sch.ResourceID, &sch.StartTime, &sch.EndTime,
			&sch.IsAvailable, &sch.CreatedAt, &sch.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan schedule failed: %w", err)
		}
		schedules = append(schedules, &sch)
	}

	return schedules, nil
}

func (r *pgxRepository) ListOverlappingSlots(ctx context.Context, resourceID int64, slot timeslot.Range, excludeID int64) ([]*UnavailableSlot, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("id", "resource_id", "start_time", "end_time", "created_at").
		From("public.unavailable_slots").
		Where(squirrel.Eq{"resource_id": resourceID}).
		Where(squirrel.Lt{"start_time": slot.End}).
		Where(squirrel.Gt{"end_time": slot.Start}).
		OrderBy("start_time ASC")

	if excludeID != 0 {
		query = query.Where(squirrel.NotEq{"id": excludeID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build overlapping slots query failed: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list overlapping slots failed: %w", err)
	}
	defer rows.Close()

	var slots []*UnavailableSlot
	for rows.Next() {
		var s UnavailableSlot
		if err := rows.Scan(&s.ID, &s.ResourceID, &s.StartTime, &s.EndTime, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan unavailable slot failed: %w", err)
		}
		slots = append(slots, &s)
	}

	return slots, nil
}

func (r *pgxRepository) HasAvailableScheduleContaining(ctx context.Context, resourceID int64, slot timeslot.Range) (bool, error) {
	// Containment is non-strict: a window matching the slot exactly contains it.
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM public.schedules
			WHERE resource_id = $1
			  AND is_available = true
			  AND start_time <= $2
			  AND end_time >= $3
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, resourceID, slot.Start, slot.End).Scan(&exists); err != nil {
		return false, fmt.Errorf("check containing schedule failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) HasSlotOverlapping(ctx context.Context, resourceID int64, slot timeslot.Range) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM public.unavailable_slots
			WHERE resource_id = $1
			  AND start_time < $2
			  AND end_time > $3
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, resourceID, slot.End, slot.Start).Scan(&exists); err != nil {
		return false, fmt.Errorf("check overlapping slot failed: %w", err)
	}
	return exists, nil
}
