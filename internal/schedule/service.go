package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/reserva-app/reserva-backend/internal/db"
	"github.com/reserva-app/reserva-backend/internal/pkg/timeslot"
	"github.com/reserva-app/reserva-backend/internal/resource"
)

type CreateScheduleRequest struct {
	ResourceID  int64
	StartTime   time.Time
	EndTime     time.Time
	IsAvailable bool
}

type UpdateScheduleRequest struct {
	StartTime   *time.Time
	EndTime     *time.Time
	IsAvailable *bool
}

type CreateSlotRequest struct {
	ResourceID int64
	StartTime  time.Time
	EndTime    time.Time
}

type Service interface {
	CreateSchedule(ctx context.Context, req CreateScheduleRequest, actorID int64, isAdmin bool) (*Schedule, error)
	UpdateSchedule(ctx context.Context, id int64, req UpdateScheduleRequest, actorID int64, isAdmin bool) (*Schedule, error)
	DeleteSchedule(ctx context.Context, id int64, actorID int64, isAdmin bool) error
	ListSchedules(ctx context.Context, resourceID int64) ([]*Schedule, error)

	CreateSlot(ctx context.Context, req CreateSlotRequest, actorID int64, isAdmin bool) (*UnavailableSlot, error)
	DeleteSlot(ctx context.Context, id int64, actorID int64, isAdmin bool) error
	ListSlots(ctx context.Context, resourceID int64) ([]*UnavailableSlot, error)
}

type service struct {
	repo       Repository
	resService resource.Service
	tx         db.TxManager
}

func NewService(repo Repository, resService resource.Service, tx db.TxManager) Service {
	return &service{
		repo:       repo,
		resService: resService,
		tx:         tx,
	}
}

// CreateSchedule inserts a new availability window after the same-kind
// overlap guard passes. The guard and the insert share one serializable
// transaction so concurrent writers cannot slip past each other.
func (s *service) CreateSchedule(ctx context.Context, req CreateScheduleRequest, actorID int64, isAdmin bool) (*Schedule, error) {
	slot, err := timeslot.New(req.StartTime, req.EndTime)
	if err != nil {
		return nil, ErrInvalidTimeRange
	}

	if err := s.resService.CanMutate(ctx, req.ResourceID, actorID, isAdmin); err != nil {
		return nil, err
	}

	sch := &Schedule{
		ResourceID:  req.ResourceID,
		StartTime:   slot.Start,
		EndTime:     slot.End,
		IsAvailable: req.IsAvailable,
	}

	err = s.tx.Serializable(ctx, func(tx pgx.Tx) error {
		repo := s.repo.WithTx(tx)

		conflicts, err := repo.ListOverlappingSchedules(ctx, req.ResourceID, slot, 0)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return ErrTimeConflict.WithDetails(scheduleConflicts(conflicts))
		}

		return repo.CreateSchedule(ctx, sch)
	})
	if err != nil {
		return nil, err
	}

	return sch, nil
}

// UpdateSchedule merges the provided fields over the stored record and
// re-runs the overlap guard against the merged interval, excluding the
// record itself.
func (s *service) UpdateSchedule(ctx context.Context, id int64, req UpdateScheduleRequest, actorID int64, isAdmin bool) (*Schedule, error) {
	if req.StartTime == nil && req.EndTime == nil && req.IsAvailable == nil {
		return nil, ErrNoFields
	}

	sch, err := s.repo.GetScheduleByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.resService.CanMutate(ctx, sch.ResourceID, actorID, isAdmin); err != nil {
		return nil, err
	}

	newStart := sch.StartTime
	newEnd := sch.EndTime
	if req.StartTime != nil {
		newStart = *req.StartTime
	}
	if req.EndTime != nil {
		newEnd = *req.EndTime
	}

	slot, err := timeslot.New(newStart, newEnd)
	if err != nil {
		return nil, ErrInvalidTimeRange
	}

	sch.StartTime = slot.Start
	sch.EndTime = slot.End
	if req.IsAvailable != nil {
		sch.IsAvailable = *req.IsAvailable
	}

	err = s.tx.Serializable(ctx, func(tx pgx.Tx) error {
		repo := s.repo.WithTx(tx)

		conflicts, err := repo.ListOverlappingSchedules(ctx, sch.ResourceID, slot, sch.ID)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return ErrTimeConflict.WithDetails(scheduleConflicts(conflicts))
		}

		return repo.UpdateSchedule(ctx, sch)
	})
	if err != nil {
		return nil, err
	}

	return sch, nil
}

func (s *service) DeleteSchedule(ctx context.Context, id int64, actorID int64, isAdmin bool) error {
	sch, err := s.repo.GetScheduleByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.resService.CanMutate(ctx, sch.ResourceID, actorID, isAdmin); err != nil {
		return err
	}

	return s.repo.DeleteSchedule(ctx, id)
}

func (s *service) ListSchedules(ctx context.Context, resourceID int64) ([]*Schedule, error) {
	// Listing against a missing resource is a 404, not an empty list.
	if _, err := s.resService.GetByID(ctx, resourceID); err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			return nil, resource.ErrNotFound
		}
		return nil, err
	}
	return s.repo.ListSchedulesByResource(ctx, resourceID)
}

func (s *service) CreateSlot(ctx context.Context, req CreateSlotRequest, actorID int64, isAdmin bool) (*UnavailableSlot, error) {
	slot, err := timeslot.New(req.StartTime, req.EndTime)
	if err != nil {
		return nil, ErrInvalidTimeRange
	}

	if err := s.resService.CanMutate(ctx, req.ResourceID, actorID, isAdmin); err != nil {
		return nil, err
	}

	record := &UnavailableSlot{
		ResourceID: req.ResourceID,
		StartTime:  slot.Start,
		EndTime:    slot.End,
	}

	err = s.tx.Serializable(ctx, func(tx pgx.Tx) error {
		repo := s.repo.WithTx(tx)

		conflicts, err := repo.ListOverlappingSlots(ctx, req.ResourceID, slot, 0)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return ErrTimeConflict.WithDetails(slotConflicts(conflicts))
		}

		return repo.CreateSlot(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

func (s *service) DeleteSlot(ctx context.Context, id int64, actorID int64, isAdmin bool) error {
	slot, err := s.repo.GetSlotByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.resService.CanMutate(ctx, slot.ResourceID, actorID, isAdmin); err != nil {
		return err
	}

	return s.repo.DeleteSlot(ctx, id)
}

func (s *service) ListSlots(ctx context.Context, resourceID int64) ([]*UnavailableSlot, error) {
	if _, err := s.resService.GetByID(ctx, resourceID); err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			return nil, resource.ErrNotFound
		}
		return nil, err
	}
	return s.repo.ListSlotsByResource(ctx, resourceID)
}
