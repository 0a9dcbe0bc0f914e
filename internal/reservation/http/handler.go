package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reserva-app/reserva-backend/internal/auth"
	"github.com/reserva-app/reserva-backend/internal/pkg/request"
	"github.com/reserva-app/reserva-backend/internal/pkg/response"
	"github.com/reserva-app/reserva-backend/internal/pkg/timeslot"
	"github.com/reserva-app/reserva-backend/internal/reservation"
)

type Handler struct {
	service reservation.Service
}

func NewHandler(service reservation.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateReservationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	rsv, err := h.service.Create(c.Request.Context(), auth.GetUserID(c), reservation.CreateParams{
		ResourceID: body.ResourceID,
		StartTime:  body.StartTime,
		EndTime:    body.EndTime,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewReservationResponse(rsv))
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	rsv, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if rsv.UserID != auth.GetUserID(c) && !auth.IsAdmin(c) {
		response.Error(c, reservation.ErrPermissionDenied)
		return
	}

	c.JSON(http.StatusOK, NewReservationResponse(rsv))
}

// List returns the caller's reservations. Admins see everyone's.
func (h *Handler) List(c *gin.Context) {
	var query ListReservationsRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := reservation.Filter{
		ResourceID: query.ResourceID,
		Page:       query.Page,
		PageSize:   query.PageSize,
	}
	if !auth.IsAdmin(c) {
		filter.UserID = auth.GetUserID(c)
	}

	reservations, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ReservationResponse, len(reservations))
	for i, rsv := range reservations {
		items[i] = NewReservationResponse(rsv)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, query.Page, query.PageSize, total))
}

func (h *Handler) Delete(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), req.ID, auth.GetUserID(c), auth.IsAdmin(c)); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CheckAvailability answers whether a slot could be reserved right now,
// without creating anything.
func (h *Handler) CheckAvailability(c *gin.Context) {
	var query CheckAvailabilityRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	slot, err := timeslot.Parse(query.StartTime, query.EndTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	decision, err := h.service.CheckAvailability(c.Request.Context(), query.ResourceID, slot)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewAvailabilityResponse(decision))
}
