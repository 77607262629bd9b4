package services

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"tasktrack/backend/internal/models"
	"tasktrack/backend/internal/validation"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// ErrTaskNotFound covers both a missing task and a task owned by
// someone else, so callers cannot probe other users' ids.
var ErrTaskNotFound = errors.New("task not found")

type TaskService interface {
	CreateTask(db *gorm.DB, ownerID uuid.UUID, payload validation.CreatePayload) (models.Task, error)
	GetTask(db *gorm.DB, ownerID, id uuid.UUID) (models.Task, error)
	UpdateTask(db *gorm.DB, ownerID, id uuid.UUID, payload validation.UpdatePayload) (models.Task, error)
	UpdateTaskStatus(db *gorm.DB, ownerID, id uuid.UUID, status models.TaskStatus) error
	DeleteTask(db *gorm.DB, ownerID, id uuid.UUID) error
	ListTasks(db *gorm.DB, ownerID uuid.UUID) ([]models.Task, error)
}

type TaskServiceImpl struct {
	mu        sync.Mutex
	seq       int64
	seqLoaded bool
}

func NewTaskService() *TaskServiceImpl {
	return &TaskServiceImpl{}
}

// nextSeq hands out creation sequence numbers. The counter is seeded
// from the table on first use so restarts keep it monotonic.
func (s *TaskServiceImpl) nextSeq(db *gorm.DB) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.seqLoaded {
		var max sql.NullInt64
		if err := db.Model(&models.Task{}).Select("MAX(seq)").Scan(&max).Error; err != nil {
			return 0, fmt.Errorf("failed to seed task sequence: %w", err)
		}
		s.seq = max.Int64
		s.seqLoaded = true
	}

	s.seq++
	return s.seq, nil
}

func (s *TaskServiceImpl) CreateTask(db *gorm.DB, ownerID uuid.UUID, payload validation.CreatePayload) (models.Task, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to generate task id: %w", err)
	}

	seq, err := s.nextSeq(db)
	if err != nil {
		return models.Task{}, err
	}

	task := models.Task{
		ID:          id,
		UserID:      ownerID,
		Title:       payload.Title,
		Description: payload.Description,
		Status:      models.StatusTodo,
		Deadline:    payload.Deadline,
		Labels:      payload.Labels,
		Seq:         seq,
		CreatedAt:   time.Now().UTC(),
	}

	if err := db.Create(&task).Error; err != nil {
		return models.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

func (s *TaskServiceImpl) GetTask(db *gorm.DB, ownerID, id uuid.UUID) (models.Task, error) {
	var task models.Task
	err := db.Where("id = ? AND user_id = ?", id, ownerID).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Task{}, ErrTaskNotFound
	}
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskServiceImpl) UpdateTask(db *gorm.DB, ownerID, id uuid.UUID, payload validation.UpdatePayload) (models.Task, error) {
	task, err := s.GetTask(db, ownerID, id)
	if err != nil {
		return models.Task{}, err
	}

	// created_at is immutable; a payload restating the stored value
	// is fine, one changing it is not
	if payload.CreatedAt != nil && !payload.CreatedAt.Equal(task.CreatedAt) {
		return models.Task{}, &validation.ValidationError{Field: "created_at", Message: "created_at is immutable"}
	}

	if payload.Title != nil {
		task.Title = *payload.Title
	}
	if payload.Description != nil {
		task.Description = *payload.Description
	}
	if payload.ClearDeadline {
		task.Deadline = nil
	} else if payload.Deadline != nil {
		task.Deadline = payload.Deadline
	}
	if payload.Labels != nil {
		task.Labels = *payload.Labels
	}
	if payload.Status != nil {
		task.Status = *payload.Status
	}

	if err := db.Save(&task).Error; err != nil {
		return models.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

func (s *TaskServiceImpl) UpdateTaskStatus(db *gorm.DB, ownerID, id uuid.UUID, status models.TaskStatus) error {
	if _, err := validation.ValidateStatus(string(status)); err != nil {
		return err
	}

	result := db.Model(&models.Task{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update task status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (s *TaskServiceImpl) DeleteTask(db *gorm.DB, ownerID, id uuid.UUID) error {
	result := db.Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.Task{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (s *TaskServiceImpl) ListTasks(db *gorm.DB, ownerID uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	if err := db.Where("user_id = ?", ownerID).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}
