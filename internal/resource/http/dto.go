package http

import (
	"time"

	"github.com/reserva-app/reserva-backend/internal/pkg/request"
	"github.com/reserva-app/reserva-backend/internal/resource"
	userHttp "github.com/reserva-app/reserva-backend/internal/user/http"
)

type CreateResourceRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type UpdateResourceRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsBlocked   *bool   `json:"is_blocked"`
}

// ListResourcesRequest defines query parameters for listing resources.
type ListResourcesRequest struct {
	request.ListParams
	OwnerID   int64 `form:"owner_id" binding:"omitempty,min=1"`
	IsBlocked *bool `form:"is_blocked"`
}

type ResourceResponse struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Owner       userHttp.UserTag `json:"owner"`
	IsBlocked   bool             `json:"is_blocked"`
	HasPhoto    bool             `json:"has_photo"`
	CreatedAt   time.Time        `json:"created_at"`
}

// ResourceTag is a brief representation of a resource.
type ResourceTag struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func NewResourceResponse(r *resource.Resource) ResourceResponse {
	return ResourceResponse{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Owner:       userHttp.UserTag{ID: r.OwnerID, Name: r.OwnerName},
		IsBlocked:   r.IsBlocked,
		HasPhoto:    r.PhotoPath != nil,
		CreatedAt:   r.CreatedAt,
	}
}
