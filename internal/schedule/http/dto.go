package http

import (
	"time"

	"github.com/reserva-app/reserva-backend/internal/schedule"
)

type CreateScheduleRequest struct {
	ResourceID int64     `json:"resource_id" binding:"required,min=1"`
	StartTime  time.Time `json:"start_time" binding:"required"`
	EndTime    time.Time `json:"end_time" binding:"required"`
	// Defaults to true when omitted, matching how windows are usually published.
	IsAvailable *bool `json:"is_available"`
}

type UpdateScheduleRequest struct {
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	IsAvailable *bool      `json:"is_available"`
}

type CreateSlotRequest struct {
	ResourceID int64     `json:"resource_id" binding:"required,min=1"`
	StartTime  time.Time `json:"start_time" binding:"required"`
	EndTime    time.Time `json:"end_time" binding:"required"`
}

type ScheduleResponse struct {
	ID          int64     `json:"id"`
	ResourceID  int64     `json:"resource_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewScheduleResponse(sch *schedule.Schedule) ScheduleResponse {
	return ScheduleResponse{
		ID:          sch.ID,
		ResourceID:  sch.ResourceID,
		StartTime:   sch.StartTime,
		EndTime:     sch.EndTime,
		IsAvailable: sch.IsAvailable,
		CreatedAt:   sch.CreatedAt,
		UpdatedAt:   sch.UpdatedAt,
	}
}

type SlotResponse struct {
	ID         int64     `json:"id"`
	ResourceID int64     `json:"resource_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewSlotResponse(slot *schedule.UnavailableSlot) SlotResponse {
	return SlotResponse{
		ID:         slot.ID,
		ResourceID: slot.ResourceID,
		StartTime:  slot.StartTime,
		EndTime:    slot.EndTime,
		CreatedAt:  slot.CreatedAt,
	}
}
