package services

import (
	"sort"
	"time"

	"tasktrack/backend/internal/models"
	"tasktrack/backend/internal/validation"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// StatusSummary is the dashboard aggregate. Counts always carries an
// entry for each of the three statuses, even when zero.
type StatusSummary struct {
	Counts  map[models.TaskStatus]int `json:"counts"`
	Total   int                       `json:"total"`
	Pending int                       `json:"pending"`
}

// TaskQueryService answers dashboard questions. Everything here is a
// pure derivation over TaskService.ListTasks; it holds no state of
// its own.
type TaskQueryService interface {
	AllTasks(db *gorm.DB, ownerID uuid.UUID) ([]models.Task, error)
	RecentTasks(db *gorm.DB, ownerID uuid.UUID, n int) ([]models.Task, error)
	DueToday(db *gorm.DB, ownerID uuid.UUID, ref time.Time) ([]models.Task, error)
	StatusCounts(db *gorm.DB, ownerID uuid.UUID) (StatusSummary, error)
}

type TaskQueryServiceImpl struct {
	tasks TaskService
}

func NewTaskQueryService(tasks TaskService) *TaskQueryServiceImpl {
	return &TaskQueryServiceImpl{tasks: tasks}
}

// AllTasks returns the owner's tasks newest first. Equal creation
// times are broken by the store-assigned sequence so the order is
// deterministic.
func (s *TaskQueryServiceImpl) AllTasks(db *gorm.DB, ownerID uuid.UUID) ([]models.Task, error) {
	tasks, err := s.tasks.ListTasks(db, ownerID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		return tasks[i].Seq > tasks[j].Seq
	})
	return tasks, nil
}

func (s *TaskQueryServiceImpl) RecentTasks(db *gorm.DB, ownerID uuid.UUID, n int) ([]models.Task, error) {
	if n <= 0 {
		return nil, &validation.ValidationError{Field: "limit", Message: "limit must be a positive integer"}
	}

	tasks, err := s.AllTasks(db, ownerID)
	if err != nil {
		return nil, err
	}
	if len(tasks) > n {
		tasks = tasks[:n]
	}
	return tasks, nil
}

// DueToday returns tasks whose deadline falls on ref's calendar day,
// in ref's location. Tasks without a deadline are excluded.
func (s *TaskQueryServiceImpl) DueToday(db *gorm.DB, ownerID uuid.UUID, ref time.Time) ([]models.Task, error) {
	tasks, err := s.AllTasks(db, ownerID)
	if err != nil {
		return nil, err
	}

	start := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	end := start.AddDate(0, 0, 1)

	due := []models.Task{}
	for _, task := range tasks {
		if task.Deadline == nil {
			continue
		}
		d := task.Deadline.In(ref.Location())
		if !d.Before(start) && d.Before(end) {
			due = append(due, task)
		}
	}
	return due, nil
}

func (s *TaskQueryServiceImpl) StatusCounts(db *gorm.DB, ownerID uuid.UUID) (StatusSummary, error) {
	tasks, err := s.tasks.ListTasks(db, ownerID)
	if err != nil {
		return StatusSummary{}, err
	}

	summary := StatusSummary{
		Counts: map[models.TaskStatus]int{
			models.StatusTodo:       0,
			models.StatusInProgress: 0,
			models.StatusDone:       0,
		},
	}
	for _, task := range tasks {
		summary.Counts[task.Status]++
		summary.Total++
	}
	summary.Pending = summary.Total - summary.Counts[models.StatusDone]
	return summary, nil
}
