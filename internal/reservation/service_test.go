package reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/reserva-app/reserva-backend/internal/availability"
	"github.com/reserva-app/reserva-backend/internal/pkg/apperror"
	"github.com/reserva-app/reserva-backend/internal/pkg/timeslot"
	"github.com/reserva-app/reserva-backend/internal/resource"
	"github.com/reserva-app/reserva-backend/internal/schedule"
)

func at(hour int) time.Time {
	return time.Date(2026, 3, 14, hour, 0, 0, 0, time.UTC)
}

type fakeTxManager struct{}

func (fakeTxManager) Serializable(_ context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type fakeResourceRepo struct {
	resource.Repository
	resources map[int64]*resource.Resource
}

func (f *fakeResourceRepo) GetByID(_ context.Context, id int64) (*resource.Resource, error) {
	res, ok := f.resources[id]
	if !ok {
		return nil, resource.ErrNotFound
	}
	return res, nil
}

func (f *fakeResourceRepo) WithTx(pgx.Tx) resource.Repository { return f }

type fakeScheduleRepo struct {
	schedule.Repository
	schedules []*schedule.Schedule
	slots     []*schedule.UnavailableSlot
}

func (f *fakeScheduleRepo) HasAvailableScheduleContaining(_ context.Context, resourceID int64, s timeslot.Range) (bool, error) {
	for _, sch := range f.schedules {
		if sch.ResourceID != resourceID || !sch.IsAvailable {
			continue
		}
		window := timeslot.Range{Start: sch.StartTime, End: sch.EndTime}
		if window.Contains(s) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeScheduleRepo) HasSlotOverlapping(_ context.Context, resourceID int64, s timeslot.Range) (bool, error) {
	for _, slot := range f.slots {
		if slot.ResourceID != resourceID {
			continue
		}
		blocked := timeslot.Range{Start: slot.StartTime, End: slot.EndTime}
		if blocked.Overlaps(s) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeScheduleRepo) WithTx(pgx.Tx) schedule.Repository { return f }

type fakeRepo struct {
	nextID       int64
	reservations map[int64]*Reservation
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, reservations: make(map[int64]*Reservation)}
}

func (f *fakeRepo) WithTx(pgx.Tx) Repository { return f }

func (f *fakeRepo) Create(_ context.Context, rsv *Reservation) error {
	rsv.ID = f.nextID
	f.nextID++
	rsv.CreatedAt = time.Now()
	stored := *rsv
	f.reservations[rsv.ID] = &stored
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*Reservation, error) {
	rsv, ok := f.reservations[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rsv
	return &cp, nil
}

func (f *fakeRepo) List(_ context.Context, filter Filter) ([]*Reservation, int, error) {
	var out []*Reservation
	for _, rsv := range f.reservations {
		if filter.UserID != 0 && rsv.UserID != filter.UserID {
			continue
		}
		if filter.ResourceID != 0 && rsv.ResourceID != filter.ResourceID {
			continue
		}
		cp := *rsv
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.reservations[id]; !ok {
		return ErrNotFound
	}
	delete(f.reservations, id)
	return nil
}

func newTestService() (Service, *fakeRepo) {
	resources := &fakeResourceRepo{resources: map[int64]*resource.Resource{
		1: {ID: 1, Title: "Sala A"},
		2: {ID: 2, Title: "Sala B", IsBlocked: true},
	}}
	schedules := &fakeScheduleRepo{
		schedules: []*schedule.Schedule{
			{ID: 10, ResourceID: 1, StartTime: at(9), EndTime: at(18), IsAvailable: true},
			{ID: 11, ResourceID: 2, StartTime: at(9), EndTime: at(18), IsAvailable: true},
		},
		slots: []*schedule.UnavailableSlot{
			{ID: 20, ResourceID: 1, StartTime: at(12), EndTime: at(13)},
		},
	}

	repo := newFakeRepo()
	checker := availability.NewChecker(resources, schedules)
	return NewService(repo, checker, fakeTxManager{}), repo
}

func TestCreate(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	t.Run("reservation belongs to the caller", func(t *testing.T) {
		rsv, err := svc.Create(ctx, 42, CreateParams{
			ResourceID: 1,
			StartTime:  at(9),
			EndTime:    at(10),
		})
		require.NoError(t, err)
		require.Equal(t, int64(42), rsv.UserID)

		stored, err := repo.GetByID(ctx, rsv.ID)
		require.NoError(t, err)
		require.Equal(t, int64(42), stored.UserID)
	})

	t.Run("missing identity", func(t *testing.T) {
		_, err := svc.Create(ctx, 0, CreateParams{
			ResourceID: 1,
			StartTime:  at(9),
			EndTime:    at(10),
		})
		require.ErrorIs(t, err, ErrMissingIdentity)
	})

	t.Run("inverted interval", func(t *testing.T) {
		_, err := svc.Create(ctx, 42, CreateParams{
			ResourceID: 1,
			StartTime:  at(10),
			EndTime:    at(9),
		})
		require.ErrorIs(t, err, ErrInvalidTimeRange)
	})

	t.Run("nothing is persisted when the check rejects", func(t *testing.T) {
		before := len(repo.reservations)

		_, err := svc.Create(ctx, 42, CreateParams{
			ResourceID: 1,
			StartTime:  at(12),
			EndTime:    at(14),
		})
		require.Error(t, err)
		require.Len(t, repo.reservations, before)
	})
}

// The rejection error carries the engine's reason verbatim as its message,
// so clients learn which rule failed first.
func TestCreateRejectionReasons(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name       string
		resourceID int64
		startH     int
		endH       int
		reason     string
	}{
		{name: "unknown resource", resourceID: 99, startH: 9, endH: 10, reason: availability.ReasonResourceNotFound},
		{name: "blocked resource", resourceID: 2, startH: 9, endH: 10, reason: availability.ReasonResourceBlocked},
		{name: "outside every window", resourceID: 1, startH: 6, endH: 8, reason: availability.ReasonNotAvailable},
		{name: "overlapping an override", resourceID: 1, startH: 11, endH: 14, reason: availability.ReasonBlockedByOverride},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, 42, CreateParams{
				ResourceID: tt.resourceID,
				StartTime:  at(tt.startH),
				EndTime:    at(tt.endH),
			})
			require.ErrorIs(t, err, ErrNotAvailable)

			var appErr *apperror.AppError
			require.True(t, errors.As(err, &appErr))
			require.Equal(t, tt.reason, appErr.Message)
		})
	}
}

// Reservations are not checked against each other, only against schedules
// and unavailable slots. Two callers can hold the same interval; this test
// documents that behavior.
func TestCreateDoesNotGuardAgainstReservations(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, CreateParams{ResourceID: 1, StartTime: at(9), EndTime: at(10)})
	require.NoError(t, err)

	_, err = svc.Create(ctx, 2, CreateParams{ResourceID: 1, StartTime: at(9), EndTime: at(10)})
	require.NoError(t, err)
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	rsv, err := svc.Create(ctx, 42, CreateParams{ResourceID: 1, StartTime: at(9), EndTime: at(10)})
	require.NoError(t, err)

	t.Run("stranger is rejected", func(t *testing.T) {
		err := svc.Delete(ctx, rsv.ID, 7, false)
		require.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("admin may delete", func(t *testing.T) {
		err := svc.Delete(ctx, rsv.ID, 7, true)
		require.NoError(t, err)
	})

	t.Run("unknown id", func(t *testing.T) {
		err := svc.Delete(ctx, 999, 42, false)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCheckAvailability(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	slot, err := timeslot.New(at(9), at(10))
	require.NoError(t, err)

	dec, err := svc.CheckAvailability(ctx, 1, slot)
	require.NoError(t, err)
	require.True(t, dec.Available)

	dec, err = svc.CheckAvailability(ctx, 2, slot)
	require.NoError(t, err)
	require.False(t, dec.Available)
	require.Equal(t, availability.ReasonResourceBlocked, dec.Reason)
}
