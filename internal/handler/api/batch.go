package api

import (
	"net/http"

	reqdto "fitbook/internal/handler/dto/request"
	resdto "fitbook/internal/handler/dto/response"
	"fitbook/internal/handler/httperr"
	"fitbook/internal/handler/middleware"
	"fitbook/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

// BatchHandler exposes the admin-triggered batch jobs: recurrence expansion
// and monthly payout calculation. Both are idempotent and safe to re-run.
type BatchHandler struct {
	schedules commands.ScheduleCommands
	payouts   commands.PayoutCommands
}

func NewBatchHandler(schedules commands.ScheduleCommands, payouts commands.PayoutCommands) *BatchHandler {
	return &BatchHandler{schedules: schedules, payouts: payouts}
}

func (h *BatchHandler) ExpandClasses(c *gin.Context) {
	act, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.ExpandClassesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.schedules.ExpandRecurringClasses(c.Request.Context(), act, req.HorizonDays)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromExpandResult(result))
}

func (h *BatchHandler) CalculatePayouts(c *gin.Context) {
	act, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.CalculatePayoutsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.payouts.CalculateMonthlyPayouts(c.Request.Context(), act, req.Period)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPayoutResult(result))
}
