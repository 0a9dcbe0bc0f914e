package resource

import (
	"net/http"
	"time"

	"github.com/reserva-app/reserva-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "resource not found")
	ErrTitleRequired    = apperror.New(http.StatusBadRequest, "title is required")
	ErrHasDependents    = apperror.New(http.StatusConflict, "resource has schedules, blocks or reservations and cannot be deleted")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
	ErrInvalidPhoto     = apperror.New(http.StatusBadRequest, "photo must be a JPEG or PNG image")
	ErrNoPhoto          = apperror.New(http.StatusNotFound, "resource has no photo")
)

// Resource represents a bookable entity (e.g., a room or a piece of equipment)
// owned by a user. IsBlocked is a hard kill-switch: while set, no interval of
// the resource is bookable, regardless of schedules.
type Resource struct {
	ID          int64
	Title       string
	Description string
	OwnerID     int64
	OwnerName   string
	IsBlocked   bool
	PhotoPath   *string
	CreatedAt   time.Time
}

// Filter defines parameters for listing resources.
type Filter struct {
	OwnerID   int64
	IsBlocked *bool
	Page      int
	PageSize  int
}
