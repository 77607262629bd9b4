package handlers

import (
	"net/http"
	"strconv"
	"time"

	"tasktrack/backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const defaultRecentLimit = 5

type DashboardHandler struct {
	db           *gorm.DB
	queryService services.TaskQueryService
}

func NewDashboardHandler(db *gorm.DB, queryService services.TaskQueryService) *DashboardHandler {
	return &DashboardHandler{db: db, queryService: queryService}
}

func (h *DashboardHandler) RecentTasks(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		abortNotAuthenticated(c)
		return
	}

	limit := defaultRecentLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = parsed
	}

	tasks, err := h.queryService.RecentTasks(h.db, ownerID, limit)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// DueToday resolves "today" in the caller's timezone when a tz query
// parameter names an IANA location; otherwise the server's local day
// is used.
func (h *DashboardHandler) DueToday(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		abortNotAuthenticated(c)
		return
	}

	now := time.Now()
	if tz := c.Query("tz"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown timezone"})
			return
		}
		now = now.In(loc)
	}

	tasks, err := h.queryService.DueToday(h.db, ownerID, now)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		abortNotAuthenticated(c)
		return
	}

	summary, err := h.queryService.StatusCounts(h.db, ownerID)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
