package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-engine/internal/httperr"
	"github.com/BruksfildServices01/barbershop-engine/internal/middleware"
	ucSchedule "github.com/BruksfildServices01/barbershop-engine/internal/usecase/schedule"
)

type ScheduleHandler struct {
	upsert *ucSchedule.UpsertSlot
	list   *ucSchedule.ListSlots
}

func NewScheduleHandler(upsert *ucSchedule.UpsertSlot, list *ucSchedule.ListSlots) *ScheduleHandler {
	return &ScheduleHandler{upsert: upsert, list: list}
}

type UpsertSlotRequest struct {
	UserID      string `json:"userId"`
	LocationID  string `json:"locationId" binding:"required"`
	DayOfWeek   *int   `json:"dayOfWeek" binding:"required,min=0,max=6"`
	StartTime   string `json:"startTime" binding:"required"`
	EndTime     string `json:"endTime" binding:"required"`
	IsAvailable *bool  `json:"isAvailable"`
}

func (h *ScheduleHandler) List(c *gin.Context) {
	slots, err := h.list.Execute(
		c.Request.Context(),
		middleware.PrincipalFrom(c),
		c.Query("userId"),
		c.Query("locationId"),
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

func (h *ScheduleHandler) Upsert(c *gin.Context) {
	var req UpsertSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, bindError(err))
		return
	}

	slot, err := h.upsert.Execute(c.Request.Context(), ucSchedule.UpsertSlotInput{
		Principal:   middleware.PrincipalFrom(c),
		UserID:      req.UserID,
		LocationID:  req.LocationID,
		DayOfWeek:   *req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}
