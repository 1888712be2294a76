package api

import (
	"net/http"
	"time"

	"fitbook/internal/domain/actor"
	"fitbook/internal/domain/booking"
	reqdto "fitbook/internal/handler/dto/request"
	resdto "fitbook/internal/handler/dto/response"
	"fitbook/internal/handler/httperr"
	"fitbook/internal/handler/middleware"
	"fitbook/internal/usecase/commands"
	"fitbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	commands commands.BookingCommands
	queries  queries.BookingQueries
}

func NewBookingHandler(cmds commands.BookingCommands, qrs queries.BookingQueries) *BookingHandler {
	return &BookingHandler{commands: cmds, queries: qrs}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	act, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.commands.CreateBooking(c.Request.Context(), act, commands.CreateBookingParams{
		Kind:            booking.Kind(req.Kind),
		RoomID:          req.RoomID,
		StaffID:         req.StaffID,
		ClientID:        req.ClientID,
		Start:           req.StartsAt,
		End:             req.EndsAt,
		TimeZone:        req.TimeZone,
		Notes:           req.Notes,
		Capacity:        req.Capacity,
		CreditsRequired: req.CreditsRequired,
	})
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromBookingResult(result))
}

func (h *BookingHandler) MoveBooking(c *gin.Context) {
	act, id, ok := actorAndID(c)
	if !ok {
		return
	}

	var req reqdto.MoveBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.commands.MoveBooking(c.Request.Context(), act, commands.MoveBookingParams{
		BookingID: id,
		NewStart:  req.StartsAt,
		NewEnd:    req.EndsAt,
	})
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingResult(result))
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	act, id, ok := actorAndID(c)
	if !ok {
		return
	}

	var req reqdto.CancelBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}
	}

	result, err := h.commands.CancelBooking(c.Request.Context(), act, commands.CancelBookingParams{
		BookingID:   id,
		ForceRefund: req.ForceRefund,
		Reason:      req.Reason,
	})
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingResult(result))
}

func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	act, id, ok := actorAndID(c)
	if !ok {
		return
	}
	result, err := h.commands.CompleteBooking(c.Request.Context(), act, id)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingResult(result))
}

func (h *BookingHandler) MarkNoShow(c *gin.Context) {
	act, id, ok := actorAndID(c)
	if !ok {
		return
	}
	result, err := h.commands.MarkBookingNoShow(c.Request.Context(), act, id)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingResult(result))
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID format"})
		return
	}
	view, err := h.queries.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *BookingHandler) ListRoomSchedule(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID format"})
		return
	}
	from, to, ok := parseWindow(c)
	if !ok {
		return
	}
	views, err := h.queries.ListRoomSchedule(c.Request.Context(), roomID, from, to)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *BookingHandler) ListClientBookings(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID format"})
		return
	}
	from := time.Now().UTC()
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'from' timestamp"})
			return
		}
		from = t
	}
	views, err := h.queries.ListClientBookings(c.Request.Context(), clientID, from)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func actorAndID(c *gin.Context) (act actor.Context, id uuid.UUID, ok bool) {
	act, found := middleware.GetActor(c)
	if !found {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return act, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return act, uuid.Nil, false
	}
	return act, id, true
}

func parseWindow(c *gin.Context) (from, to time.Time, ok bool) {
	fromStr, toStr := c.Query("from"), c.Query("to")
	if fromStr == "" || toStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' and 'to' query parameters are required"})
		return
	}
	var err error
	if from, err = time.Parse(time.RFC3339, fromStr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'from' timestamp"})
		return
	}
	if to, err = time.Parse(time.RFC3339, toStr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'to' timestamp"})
		return
	}
	return from, to, true
}
