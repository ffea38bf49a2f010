package store

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/taskdeck-dev/taskdeck/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TaskStore owns tasks. Unlike roster mutation, task mutation is open
// to any caller with member-level access.
type TaskStore struct {
	db     *gorm.DB
	access *AccessEvaluator
}

func NewTaskStore(db *gorm.DB, access *AccessEvaluator) *TaskStore {
	return &TaskStore{db: db, access: access}
}

type CreateTaskParams struct {
	Title       string
	Description string
	Status      string
	AssigneeID  *uint
	DueDate     *time.Time
	Tags        []string
	Image       string
}

type UpdateTaskParams struct {
	Title       *string
	Description *string
	Status      *string
	AssigneeID  *uint
	DueDate     *time.Time
	Tags        []string
	Image       *string
}

func (s *TaskStore) Create(projectID, callerID uint, p CreateTaskParams) (*models.Task, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, &ValidationError{Field: "title", Reason: "is required"}
	}

	status := p.Status
	if status == "" {
		status = models.StatusPending
	}
	if !models.ValidStatus(status) {
		return nil, &ValidationError{Field: "status", Reason: "must be one of pending, in-progress, done"}
	}

	if err := s.access.Check(callerID, projectID, AccessMember); err != nil {
		return nil, err
	}

	task := models.Task{
		ProjectID:   projectID,
		AssigneeID:  p.AssigneeID,
		Title:       title,
		Description: p.Description,
		Status:      status,
		DueDate:     p.DueDate,
		Image:       p.Image,
	}

	if p.Tags != nil {
		tags, err := json.Marshal(p.Tags)
		if err != nil {
			return nil, &ValidationError{Field: "tags", Reason: "must be a list of strings"}
		}
		task.Tags = datatypes.JSON(tags)
	}

	if err := s.db.Create(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, &ValidationError{Field: "assignee_id", Reason: "user does not exist"}
		}
		return nil, err
	}

	return &task, nil
}

func (s *TaskStore) List(projectID, callerID uint) ([]models.Task, error) {
	if err := s.access.Check(callerID, projectID, AccessMember); err != nil {
		return nil, err
	}

	var tasks []models.Task

	err := s.db.Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&tasks).Error

	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// resolveProject looks up the project a task belongs to. The access
// check for update/delete must run against this value, never against a
// caller-supplied project id, or a crafted request could pair a task
// with a project the caller happens to belong to.
func (s *TaskStore) resolveProject(taskID uint) (uint, error) {
	var task models.Task

	err := s.db.Select("id", "project_id").Take(&task, "id = ?", taskID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	return task.ProjectID, nil
}

func (s *TaskStore) Update(taskID, callerID uint, p UpdateTaskParams) (*models.Task, error) {
	projectID, err := s.resolveProject(taskID)
	if err != nil {
		return nil, err
	}

	if err := s.access.Check(callerID, projectID, AccessMember); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return nil, &ValidationError{Field: "title", Reason: "cannot be empty"}
		}
		updates["title"] = title
	}

	if p.Description != nil {
		updates["description"] = *p.Description
	}

	if p.Status != nil {
		if !models.ValidStatus(*p.Status) {
			return nil, &ValidationError{Field: "status", Reason: "must be one of pending, in-progress, done"}
		}
		updates["status"] = *p.Status
	}

	if p.AssigneeID != nil {
		updates["assignee_id"] = *p.AssigneeID
	}

	if p.DueDate != nil {
		updates["due_date"] = *p.DueDate
	}

	if p.Tags != nil {
		tags, err := json.Marshal(p.Tags)
		if err != nil {
			return nil, &ValidationError{Field: "tags", Reason: "must be a list of strings"}
		}
		updates["tags"] = datatypes.JSON(tags)
	}

	if p.Image != nil {
		updates["image"] = *p.Image
	}

	if len(updates) == 0 {
		return nil, &ValidationError{Field: "fields", Reason: "no fields to update"}
	}

	var task models.Task

	result := s.db.Model(&task).
		Clauses(clause.Returning{}).
		Where("id = ?", taskID).
		Updates(updates)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return nil, &ValidationError{Field: "assignee_id", Reason: "user does not exist"}
		}
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return &task, nil
}

// Delete removes the task and reports the project it belonged to so
// callers can notify that project's subscribers.
func (s *TaskStore) Delete(taskID, callerID uint) (uint, error) {
	projectID, err := s.resolveProject(taskID)
	if err != nil {
		return 0, err
	}

	if err := s.access.Check(callerID, projectID, AccessMember); err != nil {
		return 0, err
	}

	result := s.db.Where("id = ?", taskID).Delete(&models.Task{})

	if result.Error != nil {
		return 0, result.Error
	}

	if result.RowsAffected == 0 {
		return 0, ErrNotFound
	}

	return projectID, nil
}
