package http

import (
	"time"

	"github.com/reserva-app/reserva-backend/internal/availability"
	"github.com/reserva-app/reserva-backend/internal/reservation"
)

type CreateReservationRequest struct {
	ResourceID int64     `json:"resource_id" binding:"required,min=1"`
	StartTime  time.Time `json:"start_time" binding:"required"`
	EndTime    time.Time `json:"end_time" binding:"required"`
}

type ListReservationsRequest struct {
	ResourceID int64 `form:"resource_id" binding:"omitempty,min=1"`
	Page       int   `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize   int   `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

type ReservationResponse struct {
	ID            int64     `json:"id"`
	ResourceID    int64     `json:"resource_id"`
	ResourceTitle string    `json:"resource_title"`
	UserID        int64     `json:"user_id"`
	UserName      string    `json:"user_name"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewReservationResponse(rsv *reservation.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:            rsv.ID,
		ResourceID:    rsv.ResourceID,
		ResourceTitle: rsv.ResourceTitle,
		UserID:        rsv.UserID,
		UserName:      rsv.UserName,
		StartTime:     rsv.StartTime,
		EndTime:       rsv.EndTime,
		CreatedAt:     rsv.CreatedAt,
	}
}

type CheckAvailabilityRequest struct {
	ResourceID int64  `form:"resource_id" binding:"required,min=1"`
	StartTime  string `form:"start_time" binding:"required"`
	EndTime    string `form:"end_time" binding:"required"`
}

type AvailabilityResponse struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

func NewAvailabilityResponse(dec availability.Decision) AvailabilityResponse {
	return AvailabilityResponse{
		Available: dec.Available,
		Reason:    dec.Reason,
	}
}
