package reservation

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/reserva-app/reserva-backend/internal/availability"
	"github.com/reserva-app/reserva-backend/internal/db"
	"github.com/reserva-app/reserva-backend/internal/pkg/timeslot"
)

// CreateParams carries the caller-supplied fields of a new reservation.
// The owning user always comes from the authenticated caller, never from
// the request body.
type CreateParams struct {
	ResourceID int64
	StartTime  time.Time
	EndTime    time.Time
}

type Service interface {
	Create(ctx context.Context, callerID int64, params CreateParams) (*Reservation, error)
	GetByID(ctx context.Context, id int64) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)
	Delete(ctx context.Context, id int64, callerID int64, isAdmin bool) error
	CheckAvailability(ctx context.Context, resourceID int64, slot timeslot.Range) (availability.Decision, error)
}

type service struct {
	repo    Repository
	checker *availability.Checker
	tx      db.TxManager
}

func NewService(repo Repository, checker *availability.Checker, tx db.TxManager) Service {
	return &service{
		repo:    repo,
		checker: checker,
		tx:      tx,
	}
}

// Create admits the requested interval and persists the reservation in one
// serializable transaction, so no write can slip in between the check and
// the insert.
func (s *service) Create(ctx context.Context, callerID int64, params CreateParams) (*Reservation, error) {
	if callerID == 0 {
		return nil, ErrMissingIdentity
	}

	slot, err := timeslot.New(params.StartTime, params.EndTime)
	if err != nil {
		return nil, ErrInvalidTimeRange
	}

	rsv := &Reservation{
		ResourceID: params.ResourceID,
		UserID:     callerID,
		StartTime:  slot.Start,
		EndTime:    slot.End,
	}

	err = s.tx.Serializable(ctx, func(tx pgx.Tx) error {
		decision, err := s.checker.WithTx(tx).Check(ctx, params.ResourceID, slot)
		if err != nil {
			return err
		}
		if !decision.Available {
			return notAvailable(decision.Reason)
		}
		return s.repo.WithTx(tx).Create(ctx, rsv)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, rsv.ID)
}

func (s *service) GetByID(ctx context.Context, id int64) (*Reservation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Delete(ctx context.Context, id int64, callerID int64, isAdmin bool) error {
	rsv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rsv.UserID != callerID && !isAdmin {
		return ErrPermissionDenied
	}
	return s.repo.Delete(ctx, id)
}

// CheckAvailability answers a read-only probe without reserving anything.
func (s *service) CheckAvailability(ctx context.Context, resourceID int64, slot timeslot.Range) (availability.Decision, error) {
	return s.checker.Check(ctx, resourceID, slot)
}
