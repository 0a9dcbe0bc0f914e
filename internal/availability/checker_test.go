package availability

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/reserva-app/reserva-backend/internal/pkg/timeslot"
	"github.com/reserva-app/reserva-backend/internal/resource"
	"github.com/reserva-app/reserva-backend/internal/schedule"
)

func at(hour int) time.Time {
	return time.Date(2026, 3, 14, hour, 0, 0, 0, time.UTC)
}

func slot(t *testing.T, startH, endH int) timeslot.Range {
	t.Helper()
	r, err := timeslot.New(at(startH), at(endH))
	require.NoError(t, err)
	return r
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

func newTestChecker(resources map[int64]*resource.Resource, schedules []*schedule.Schedule, slots []*schedule.UnavailableSlot) *Checker {
	return NewChecker(
		&fakeResourceRepo{resources: resources},
		&fakeScheduleRepo{schedules: schedules, slots: slots},
	)
}

func TestCheck(t *testing.T) {
	resources := map[int64]*resource.Resource{
		1: {ID: 1, Title: "Sala A"},
		2: {ID: 2, Title: "Sala B", IsBlocked: true},
	}
	schedules := []*schedule.Schedule{
		{ID: 10, ResourceID: 1, StartTime: at(9), EndTime: at(18), IsAvailable: true},
		{ID: 11, ResourceID: 1, StartTime: at(19), EndTime: at(22), IsAvailable: false},
		{ID: 12, ResourceID: 2, StartTime: at(9), EndTime: at(18), IsAvailable: true},
	}
	slots := []*schedule.UnavailableSlot{
		{ID: 20, ResourceID: 1, StartTime: at(12), EndTime: at(13)},
	}

	checker := newTestChecker(resources, schedules, slots)
	ctx := context.Background()

	tests := []struct {
		name       string
		resourceID int64
		startH     int
		endH       int
		available  bool
		reason     string
	}{
		{
			name:       "fully inside available window",
			resourceID: 1, startH: 9, endH: 11,
			available: true,
		},
		{
			name:       "exactly matching the window boundaries",
			resourceID: 1, startH: 9, endH: 12,
			available: true,
		},
		{
			name:       "unknown resource",
			resourceID: 99, startH: 9, endH: 11,
			reason: ReasonResourceNotFound,
		},
		{
			name:       "blocked resource rejected before any window lookup",
			resourceID: 2, startH: 9, endH: 11,
			reason: ReasonResourceBlocked,
		},
		{
			name:       "outside every window",
			resourceID: 1, startH: 6, endH: 8,
			reason: ReasonNotAvailable,
		},
		{
			name:       "partially outside the window",
			resourceID: 1, startH: 17, endH: 19,
			reason: ReasonNotAvailable,
		},
		{
			name:       "window marked unavailable does not count",
			resourceID: 1, startH: 19, endH: 21,
			reason: ReasonNotAvailable,
		},
		{
			name:       "overlapping an unavailable slot",
			resourceID: 1, startH: 11, endH: 14,
			reason: ReasonBlockedByOverride,
		},
		{
			name:       "touching an unavailable slot boundary is allowed",
			resourceID: 1, startH: 13, endH: 15,
			available: true,
		},
		{
			name:       "ending where the slot starts is allowed",
			resourceID: 1, startH: 10, endH: 12,
			available: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, err := checker.Check(ctx, tt.resourceID, slot(t, tt.startH, tt.endH))
			require.NoError(t, err)
			require.Equal(t, tt.available, dec.Available)
			require.Equal(t, tt.reason, dec.Reason)
		})
	}
}

// A blocked resource with no schedules at all must still report "resource is
// blocked": the rules run in a fixed order and the first failure wins.
func TestCheckRuleOrder(t *testing.T) {
	checker := newTestChecker(
		map[int64]*resource.Resource{1: {ID: 1, IsBlocked: true}},
		nil,
		nil,
	)

	dec, err := checker.Check(context.Background(), 1, slot(t, 9, 10))
	require.NoError(t, err)
	require.False(t, dec.Available)
	require.Equal(t, ReasonResourceBlocked, dec.Reason)
}
