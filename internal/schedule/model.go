package schedule

import (
	"net/http"
	"time"

	"github.com/reserva-app/reserva-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "schedule not found")
	ErrSlotNotFound     = apperror.New(http.StatusNotFound, "unavailable slot not found")
	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, "start time must be before end time")
	ErrTimeConflict     = apperror.New(http.StatusConflict, "time range overlaps existing records")
	ErrNoFields         = apperror.New(http.StatusBadRequest, "no fields to update")
)

// Schedule is an explicit availability window: a claim that the resource can
// be booked inside [StartTime, EndTime) while IsAvailable is true. Windows of
// the same resource never overlap.
type Schedule struct {
	ID          int64
	ResourceID  int64
	StartTime   time.Time
	EndTime     time.Time
	IsAvailable bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UnavailableSlot is an override that makes an interval unbookable regardless
// of schedule state. Slots of the same resource never overlap.
type UnavailableSlot struct {
	ID         int64
	ResourceID int64
	StartTime  time.Time
	EndTime    time.Time
	CreatedAt  time.Time
}

// ConflictRecord is the caller-facing shape of a record that blocked a write.
// It rides along in the conflict error so clients can render the collision.
type ConflictRecord struct {
	ID          int64     `json:"id"`
	ResourceID  int64     `json:"resource_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	IsAvailable *bool     `json:"is_available,omitempty"`
}

func scheduleConflicts(schedules []*Schedule) []ConflictRecord {
	records := make([]ConflictRecord, len(schedules))
	for i, sch := range schedules {
		avail := sch.IsAvailable
		records[i] = ConflictRecord{
			ID:          sch.ID,
			ResourceID:  sch.ResourceID,
			StartTime:   sch.StartTime,
			EndTime:     sch.EndTime,
			IsAvailable: &avail,
		}
	}
	return records
}

func slotConflicts(slots []*UnavailableSlot) []ConflictRecord {
	records := make([]ConflictRecord, len(slots))
	for i, slot := range slots {
		records[i] = ConflictRecord{
			ID:         slot.ID,
			ResourceID: slot.ResourceID,
			StartTime:  slot.StartTime,
			EndTime:    slot.EndTime,
		}
	}
	return records
}
