package services

import (
	"fmt"
	"time"

	"tasktrack/backend/internal/cache"
	"tasktrack/backend/internal/models"
	"tasktrack/backend/internal/validation"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

const (
	taskCacheTTL = 30 * time.Minute
	listCacheTTL = 10 * time.Minute
)

// CachedTaskService wraps a TaskService with a redis cache of single
// tasks and per-owner task lists. Cache failures fall through to the
// database and are never surfaced to callers.
type CachedTaskService struct {
	tasks TaskService
	cache *cache.RedisCache
}

func NewCachedTaskService(tasks TaskService, cacheInstance *cache.RedisCache) *CachedTaskService {
	return &CachedTaskService{tasks: tasks, cache: cacheInstance}
}

func taskKey(id uuid.UUID) string {
	return fmt.Sprintf("task:%s", id.String())
}

func ownerTasksKey(ownerID uuid.UUID) string {
	return fmt.Sprintf("user_tasks:%s", ownerID.String())
}

func (s *CachedTaskService) invalidate(ownerID, id uuid.UUID) {
	s.cache.Delete(taskKey(id), ownerTasksKey(ownerID))
}

func (s *CachedTaskService) CreateTask(db *gorm.DB, ownerID uuid.UUID, payload validation.CreatePayload) (models.Task, error) {
	task, err := s.tasks.CreateTask(db, ownerID, payload)
	if err != nil {
		return models.Task{}, err
	}

	s.cache.Set(taskKey(task.ID), task, taskCacheTTL)
	s.cache.Delete(ownerTasksKey(ownerID))

	return task, nil
}

func (s *CachedTaskService) GetTask(db *gorm.DB, ownerID, id uuid.UUID) (models.Task, error) {
	var cached models.Task
	if err := s.cache.Get(taskKey(id), &cached); err == nil {
		// ownership still has to hold for the caller
		if cached.UserID == ownerID {
			return cached, nil
		}
		return models.Task{}, ErrTaskNotFound
	}

	task, err := s.tasks.GetTask(db, ownerID, id)
	if err != nil {
		return task, err
	}

	s.cache.Set(taskKey(id), task, taskCacheTTL)
	return task, nil
}

func (s *CachedTaskService) UpdateTask(db *gorm.DB, ownerID, id uuid.UUID, payload validation.UpdatePayload) (models.Task, error) {
	task, err := s.tasks.UpdateTask(db, ownerID, id, payload)
	if err != nil {
		return models.Task{}, err
	}

	s.invalidate(ownerID, id)
	return task, nil
}

func (s *CachedTaskService) UpdateTaskStatus(db *gorm.DB, ownerID, id uuid.UUID, status models.TaskStatus) error {
	if err := s.tasks.UpdateTaskStatus(db, ownerID, id, status); err != nil {
		return err
	}

	s.invalidate(ownerID, id)
	return nil
}

func (s *CachedTaskService) DeleteTask(db *gorm.DB, ownerID, id uuid.UUID) error {
	if err := s.tasks.DeleteTask(db, ownerID, id); err != nil {
		return err
	}

	s.invalidate(ownerID, id)
	return nil
}

func (s *CachedTaskService) ListTasks(db *gorm.DB, ownerID uuid.UUID) ([]models.Task, error) {
	key := ownerTasksKey(ownerID)

	var cached []models.Task
	if err := s.cache.Get(key, &cached); err == nil {
		return cached, nil
	}

	tasks, err := s.tasks.ListTasks(db, ownerID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, tasks, listCacheTTL)
	return tasks, nil
}
