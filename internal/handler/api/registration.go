package api

import (
	"context"
	"net/http"

	"fitbook/internal/domain/actor"
	reqdto "fitbook/internal/handler/dto/request"
	resdto "fitbook/internal/handler/dto/response"
	"fitbook/internal/handler/httperr"
	"fitbook/internal/handler/middleware"
	"fitbook/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RegistrationHandler struct {
	commands commands.RegistrationCommands
}

func NewRegistrationHandler(cmds commands.RegistrationCommands) *RegistrationHandler {
	return &RegistrationHandler{commands: cmds}
}

// Register books a client into the class occurrence named in the path, or
// waitlists them when the class is full.
func (h *RegistrationHandler) Register(c *gin.Context) {
	act, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	occurrenceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid occurrence ID format"})
		return
	}

	var req reqdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.commands.Register(c.Request.Context(), act, req.ClientID, occurrenceID)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromRegistrationResult(result))
}

func (h *RegistrationHandler) Cancel(c *gin.Context) {
	h.transition(c, h.commands.CancelRegistration)
}

func (h *RegistrationHandler) CheckIn(c *gin.Context) {
	h.transition(c, h.commands.CheckIn)
}

func (h *RegistrationHandler) MarkNoShow(c *gin.Context) {
	h.transition(c, h.commands.MarkNoShow)
}

func (h *RegistrationHandler) transition(
	c *gin.Context,
	fn func(ctx context.Context, act actor.Context, id uuid.UUID) (*commands.RegistrationResult, error),
) {
	act, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid registration ID format"})
		return
	}

	result, err := fn(c.Request.Context(), act, id)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromRegistrationResult(result))
}
