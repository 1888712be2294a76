package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"fitbook/internal/handler/httperr"
	"fitbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuditHandler struct {
	queries queries.AuditQueries
}

func NewAuditHandler(qrs queries.AuditQueries) *AuditHandler {
	return &AuditHandler{queries: qrs}
}

// List pages the change log newest-first. Filters combine with AND; paging is
// cursor-based via the opaque "after" token from the previous page.
func (h *AuditHandler) List(c *gin.Context) {
	filter, ok := parseAuditFilter(c)
	if !ok {
		return
	}

	limit := 0
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}

	page, err := h.queries.List(c.Request.Context(), filter, limit, c.Query("after"))
	if err != nil {
		if errors.Is(err, queries.ErrInvalidCursor) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cursor"})
			return
		}
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func parseAuditFilter(c *gin.Context) (queries.AuditFilter, bool) {
	var f queries.AuditFilter

	if s := c.Query("entity_kind"); s != "" {
		f.EntityKind = &s
	}
	if s := c.Query("action"); s != "" {
		f.Action = &s
	}
	if s := c.Query("entity_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entity_id"})
			return f, false
		}
		f.EntityID = &id
	}
	if s := c.Query("actor_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid actor_id"})
			return f, false
		}
		f.ActorID = &id
	}
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'from' timestamp"})
			return f, false
		}
		f.From = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'to' timestamp"})
			return f, false
		}
		f.To = &t
	}
	return f, true
}
