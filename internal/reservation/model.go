package reservation

import (
	"net/http"
	"time"

	"github.com/reserva-app/reserva-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "reservation not found")
	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, "start time must be before end time")
	ErrMissingIdentity  = apperror.New(http.StatusUnauthorized, "caller identity is required")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
	ErrNotAvailable     = apperror.New(http.StatusConflict, "time slot not available")
)

// notAvailable builds the conflict error for a rejected availability check.
// The message carries the engine's reason verbatim so clients see which rule
// failed first.
func notAvailable(reason string) error {
	return &apperror.AppError{
		Code:    http.StatusConflict,
		Message: reason,
		Err:     ErrNotAvailable,
	}
}

// Reservation is a confirmed booking of a resource by a user for the
// interval [StartTime, EndTime).
type Reservation struct {
	ID            int64
	ResourceID    int64
	ResourceTitle string
	UserID        int64
	UserName      string
	StartTime     time.Time
	EndTime       time.Time
	CreatedAt     time.Time
}

// Filter defines parameters for listing reservations.
type Filter struct {
	UserID     int64
	ResourceID int64
	Page       int
	PageSize   int
}
