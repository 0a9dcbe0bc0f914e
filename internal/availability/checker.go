package availability

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/reserva-app/reserva-backend/internal/pkg/timeslot"
	"github.com/reserva-app/reserva-backend/internal/resource"
	"github.com/reserva-app/reserva-backend/internal/schedule"
)

// Rejection reasons returned by Check. The wording is part of the API
// contract: clients match on these strings.
const (
	ReasonResourceNotFound  = "resource not found"
	ReasonResourceBlocked   = "resource is blocked"
	ReasonNotAvailable      = "time not marked available"
	ReasonBlockedByOverride = "blocked by override"
)

// Decision is the outcome of an availability check. A rejected slot is a
// normal result, not an error; errors are reserved for storage faults.
type Decision struct {
	Available bool
	Reason    string
}

func rejected(reason string) Decision {
	return Decision{Available: false, Reason: reason}
}

// Checker decides whether a requested interval may become a reservation.
// It is authorization-agnostic; callers enforce permissions before asking.
type Checker struct {
	resources resource.Repository
	schedules schedule.Repository
}

func NewChecker(resources resource.Repository, schedules schedule.Repository) *Checker {
	return &Checker{
		resources: resources,
		schedules: schedules,
	}
}

// WithTx returns a copy of the checker whose lookups run inside tx, so the
// decision and the subsequent write share one snapshot.
func (c *Checker) WithTx(tx pgx.Tx) *Checker {
	return &Checker{
		resources: c.resources.WithTx(tx),
		schedules: c.schedules.WithTx(tx),
	}
}

// Check runs the four admission rules in order and stops at the first
// violation, so the reason always names the first rule that failed:
//  1. the resource must exist
//  2. the resource must not be blocked
//  3. an available schedule must fully contain the requested interval
//  4. no unavailable slot may overlap the requested interval
func (c *Checker) Check(ctx context.Context, resourceID int64, slot timeslot.Range) (Decision, error) {
	res, err := c.resources.GetByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			return rejected(ReasonResourceNotFound), nil
		}
		return Decision{}, err
	}

	if res.IsBlocked {
		return rejected(ReasonResourceBlocked), nil
	}

	// Containment, not overlap: an interval that only partially falls inside
	// an available window is rejected outright.
	contained, err := c.schedules.HasAvailableScheduleContaining(ctx, resourceID, slot)
	if err != nil {
		return Decision{}, err
	}
	if !contained {
		return rejected(ReasonNotAvailable), nil
	}

	overridden, err := c.schedules.HasSlotOverlapping(ctx, resourceID, slot)
	if err != nil {
		return Decision{}, err
	}
	if overridden {
		return rejected(ReasonBlockedByOverride), nil
	}

	return Decision{Available: true}, nil
}
