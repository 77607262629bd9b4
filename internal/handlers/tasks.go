package handlers

import (
	"errors"
	"net/http"

	"tasktrack/backend/internal/middleware"
	"tasktrack/backend/internal/services"
	"tasktrack/backend/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type TaskHandler struct {
	db           *gorm.DB
	taskService  services.TaskService
	queryService services.TaskQueryService
}

func NewTaskHandler(db *gorm.DB, taskService services.TaskService, queryService services.TaskQueryService) *TaskHandler {
	return &TaskHandler{db: db, taskService: taskService, queryService: queryService}
}

// currentUserID pulls the authenticated identity set by the auth
// middleware. Its absence is a 401, never a 404.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(middleware.UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	idStr, ok := value.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.FromString(idStr)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func abortNotAuthenticated(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		abortNotAuthenticated(c)
		return
	}

	var input validation.CreateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payload, err := validation.ValidateCreate(input)
	if err != nil {
		handleTaskError(c, err)
		return
	}

	task, err := h.taskService.CreateTask(h.db, ownerID, payload)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		abortNotAuthenticated(c)
		return
	}

	id := uuid.FromStringOrNil(c.Param("id"))
	task, err := h.taskService.GetTask(h.db, ownerID, id)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		abortNotAuthenticated(c)
		return
	}

	id := uuid.FromStringOrNil(c.Param("id"))

	var input validation.UpdateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// id and owner are immutable; a payload naming a different one is
	// malformed
	if input.ID != nil && *input.ID != id.String() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "task id is immutable"})
		return
	}
	if input.UserID != nil && *input.UserID != ownerID.String() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "task owner is immutable"})
		return
	}

	payload, err := validation.ValidateUpdate(input)
	if err != nil {
		handleTaskError(c, err)
		return
	}

	task, err := h.taskService.UpdateTask(h.db, ownerID, id, payload)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

type statusInput struct {
	Status string `json:"status" binding:"required"`
}

func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		abortNotAuthenticated(c)
		return
	}

	id := uuid.FromStringOrNil(c.Param("id"))

	var input statusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := validation.ValidateStatus(input.Status)
	if err != nil {
		handleTaskError(c, err)
		return
	}

	if err := h.taskService.UpdateTaskStatus(h.db, ownerID, id, status); err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "task status updated"})
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		abortNotAuthenticated(c)
		return
	}

	id := uuid.FromStringOrNil(c.Param("id"))
	if err := h.taskService.DeleteTask(h.db, ownerID, id); err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// GetTasks returns the owner's tasks newest first; the query service
// owns the ordering rules.
func (h *TaskHandler) GetTasks(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		abortNotAuthenticated(c)
		return
	}

	tasks, err := h.queryService.AllTasks(h.db, ownerID)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"total": len(tasks),
	})
}

func handleTaskError(c *gin.Context, err error) {
	var verr *validation.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
	case errors.Is(err, services.ErrTaskNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process task request"})
	}
}
