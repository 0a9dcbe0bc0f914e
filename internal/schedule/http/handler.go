package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/reserva-app/reserva-backend/internal/auth"
	"github.com/reserva-app/reserva-backend/internal/pkg/request"
	"github.com/reserva-app/reserva-backend/internal/pkg/response"
	"github.com/reserva-app/reserva-backend/internal/schedule"
)

type Handler struct {
	service schedule.Service
}

func NewHandler(service schedule.Service) *Handler {
	return &Handler{service: service}
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// ListByResource returns every availability window of a resource, ordered by
// start time.
func (h *Handler) ListByResource(c *gin.Context) {
	resourceID, ok := parseIDParam(c, "resourceId")
	if !ok {
		return
	}

	schedules, err := h.service.ListSchedules(c.Request.Context(), resourceID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ScheduleResponse, len(schedules))
	for i, sch := range schedules {
		items[i] = NewScheduleResponse(sch)
	}

	c.JSON(http.StatusOK, items)
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateScheduleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	isAvailable := true
	if body.IsAvailable != nil {
		isAvailable = *body.IsAvailable
	}

	sch, err := h.service.CreateSchedule(c.Request.Context(), schedule.CreateScheduleRequest{
		ResourceID:  body.ResourceID,
		StartTime:   body.StartTime,
		EndTime:     body.EndTime,
		IsAvailable: isAvailable,
	}, auth.GetUserID(c), auth.IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewScheduleResponse(sch))
}

func (h *Handler) Update(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var body UpdateScheduleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sch, err := h.service.UpdateSchedule(c.Request.Context(), req.ID, schedule.UpdateScheduleRequest{
		StartTime:   body.StartTime,
		EndTime:     body.EndTime,
		IsAvailable: body.IsAvailable,
	}, auth.GetUserID(c), auth.IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewScheduleResponse(sch))
}

func (h *Handler) Delete(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.service.DeleteSchedule(c.Request.Context(), req.ID, auth.GetUserID(c), auth.IsAdmin(c)); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) CreateSlot(c *gin.Context) {
	var body CreateSlotRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	slot, err := h.service.CreateSlot(c.Request.Context(), schedule.CreateSlotRequest{
		ResourceID: body.ResourceID,
		StartTime:  body.StartTime,
		EndTime:    body.EndTime,
	}, auth.GetUserID(c), auth.IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewSlotResponse(slot))
}

func (h *Handler) ListSlotsByResource(c *gin.Context) {
	resourceID, ok := parseIDParam(c, "resourceId")
	if !ok {
		return
	}

	slots, err := h.service.ListSlots(c.Request.Context(), resourceID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]SlotResponse, len(slots))
	for i, slot := range slots {
		items[i] = NewSlotResponse(slot)
	}

	c.JSON(http.StatusOK, items)
}

func (h *Handler) DeleteSlot(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteSlot(c.Request.Context(), id, auth.GetUserID(c), auth.IsAdmin(c)); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
