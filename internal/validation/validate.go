package validation

import (
	"fmt"
	"strings"
	"time"

	"tasktrack/backend/internal/models"
)

// ValidationError reports a malformed input field. It is returned
// before any store mutation happens.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// deadline strings are accepted as RFC 3339 or as a bare calendar date
var deadlineFormats = []string{time.RFC3339, "2006-01-02"}

func ParseDeadline(s string) (time.Time, error) {
	for _, layout := range deadlineFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// CreateTaskInput is the untrusted shape accepted on task creation.
// Status is intentionally absent: new tasks always start as todo.
type CreateTaskInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Deadline    *string  `json:"deadline"`
	Labels      []string `json:"labels"`
}

// CreatePayload is a normalized, validated creation request.
type CreatePayload struct {
	Title       string
	Description string
	Deadline    *time.Time
	Labels      models.Labels
}

func ValidateCreate(in CreateTaskInput) (CreatePayload, error) {
	var p CreatePayload

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return p, &ValidationError{Field: "title", Message: "title is required"}
	}
	p.Title = title
	p.Description = in.Description

	deadline, err := validateDeadline(in.Deadline)
	if err != nil {
		return p, err
	}
	p.Deadline = deadline

	labels, err := validateLabels(in.Labels)
	if err != nil {
		return p, err
	}
	p.Labels = labels

	return p, nil
}

// UpdateTaskInput is the untrusted shape accepted on task update.
// Nil fields were not supplied and leave the stored value untouched.
// An empty deadline string clears the deadline.
type UpdateTaskInput struct {
	ID          *string   `json:"id"`
	UserID      *string   `json:"user_id"`
	CreatedAt   *string   `json:"created_at"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Deadline    *string   `json:"deadline"`
	Labels      *[]string `json:"labels"`
	Status      *string   `json:"status"`
}

// UpdatePayload is a normalized, validated partial update. Nil fields
// are left untouched by the store. CreatedAt is never merged: the
// store rejects it unless it restates the stored value.
type UpdatePayload struct {
	CreatedAt     *time.Time
	Title         *string
	Description   *string
	Deadline      *time.Time
	ClearDeadline bool
	Labels        *models.Labels
	Status        *models.TaskStatus
}

func ValidateUpdate(in UpdateTaskInput) (UpdatePayload, error) {
	var p UpdatePayload

	if in.CreatedAt != nil {
		t, err := time.Parse(time.RFC3339Nano, *in.CreatedAt)
		if err != nil {
			return p, &ValidationError{Field: "created_at", Message: "created_at must be an RFC 3339 timestamp"}
		}
		p.CreatedAt = &t
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return p, &ValidationError{Field: "title", Message: "title must not be empty"}
		}
		p.Title = &title
	}

	p.Description = in.Description

	if in.Deadline != nil {
		if *in.Deadline == "" {
			p.ClearDeadline = true
		} else {
			deadline, err := validateDeadline(in.Deadline)
			if err != nil {
				return p, err
			}
			p.Deadline = deadline
		}
	}

	if in.Labels != nil {
		labels, err := validateLabels(*in.Labels)
		if err != nil {
			return p, err
		}
		p.Labels = &labels
	}

	if in.Status != nil {
		status, err := ValidateStatus(*in.Status)
		if err != nil {
			return p, err
		}
		p.Status = &status
	}

	return p, nil
}

func ValidateStatus(s string) (models.TaskStatus, error) {
	status := models.TaskStatus(s)
	if !status.Valid() {
		return "", &ValidationError{Field: "status", Message: fmt.Sprintf("status must be one of %q, %q, %q", models.StatusTodo, models.StatusInProgress, models.StatusDone)}
	}
	return status, nil
}

func validateDeadline(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := ParseDeadline(*s)
	if err != nil {
		return nil, &ValidationError{Field: "deadline", Message: err.Error()}
	}
	return &t, nil
}

func validateLabels(labels []string) (models.Labels, error) {
	if labels == nil {
		return models.Labels{}, nil
	}
	out := make(models.Labels, 0, len(labels))
	for _, l := range labels {
		if strings.TrimSpace(l) == "" {
			return nil, &ValidationError{Field: "labels", Message: "labels must not contain empty strings"}
		}
		out = append(out, l)
	}
	return out, nil
}
