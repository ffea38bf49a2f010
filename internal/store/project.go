package store

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/taskdeck-dev/taskdeck/internal/models"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProjectStore owns project records. Every mutation embeds the
// ownership condition in its WHERE clause so the authorization check
// and the write are one statement.
type ProjectStore struct {
	db     *gorm.DB
	access *AccessEvaluator
	log    *zap.Logger
}

func NewProjectStore(db *gorm.DB, access *AccessEvaluator, log *zap.Logger) *ProjectStore {
	return &ProjectStore{db: db, access: access, log: log}
}

type CreateProjectParams struct {
	Name        string
	Description string
	Tags        []string
	Deadline    *time.Time
	Priority    string
	Image       string
}

type UpdateProjectParams struct {
	Name        *string
	Description *string
	Tags        []string
	Deadline    *time.Time
	Priority    *string
	Image       *string
}

// Create inserts the project and the owner's "manager" membership row.
// The membership insert is idempotent and non-fatal: the access
// evaluator treats ownership as sufficient on its own, so the project
// row is the source of truth even if the roster row is missing.
func (s *ProjectStore) Create(ownerID uint, p CreateProjectParams) (*models.Project, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "is required"}
	}

	priority := p.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidPriority(priority) {
		return nil, &ValidationError{Field: "priority", Reason: "must be one of low, medium, high"}
	}

	project := models.Project{
		OwnerID:     ownerID,
		Name:        name,
		Description: p.Description,
		Deadline:    p.Deadline,
		Priority:    priority,
		Image:       p.Image,
	}

	if p.Tags != nil {
		tags, err := json.Marshal(p.Tags)
		if err != nil {
			return nil, &ValidationError{Field: "tags", Reason: "must be a list of strings"}
		}
		project.Tags = datatypes.JSON(tags)
	}

	if err := s.db.Create(&project).Error; err != nil {
		return nil, err
	}

	member := models.ProjectMember{
		ProjectID: project.ID,
		UserID:    ownerID,
		Role:      models.RoleManager,
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&member).Error

	if err != nil {
		s.log.Warn("owner membership insert failed, ownership check still covers access",
			zap.Uint("project_id", project.ID),
			zap.Uint("owner_id", ownerID),
			zap.Error(err))
	}

	return &project, nil
}

// List returns every distinct project the caller owns or belongs to,
// newest first.
func (s *ProjectStore) List(callerID uint) ([]models.Project, error) {
	var projects []models.Project

	err := s.db.
		Distinct("projects.*").
		Joins("LEFT JOIN project_members ON project_members.project_id = projects.id").
		Where("projects.owner_id = ? OR project_members.user_id = ?", callerID, callerID).
		Order("projects.created_at DESC").
		Find(&projects).Error

	if err != nil {
		return nil, err
	}

	return projects, nil
}

// Get fetches a project the caller can see at member level.
func (s *ProjectStore) Get(id, callerID uint) (*models.Project, error) {
	if err := s.access.Check(callerID, id, AccessMember); err != nil {
		return nil, err
	}

	var project models.Project

	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &project, nil
}

// Update merges the provided fields into the project. Ownership is
// enforced by the update predicate itself: zero rows affected means
// the project does not exist or the caller is not its owner.
func (s *ProjectStore) Update(id, callerID uint, p UpdateProjectParams) (*models.Project, error) {
	updates := make(map[string]interface{})

	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, &ValidationError{Field: "name", Reason: "cannot be empty"}
		}
		updates["name"] = name
	}

	if p.Description != nil {
		updates["description"] = *p.Description
	}

	if p.Priority != nil {
		if !models.ValidPriority(*p.Priority) {
			return nil, &ValidationError{Field: "priority", Reason: "must be one of low, medium, high"}
		}
		updates["priority"] = *p.Priority
	}

	if p.Deadline != nil {
		updates["deadline"] = *p.Deadline
	}

	if p.Image != nil {
		updates["image"] = *p.Image
	}

	if p.Tags != nil {
		tags, err := json.Marshal(p.Tags)
		if err != nil {
			return nil, &ValidationError{Field: "tags", Reason: "must be a list of strings"}
		}
		updates["tags"] = datatypes.JSON(tags)
	}

	if len(updates) == 0 {
		return nil, &ValidationError{Field: "fields", Reason: "no fields to update"}
	}

	var project models.Project

	result := s.db.Model(&project).
		Clauses(clause.Returning{}).
		Where("id = ? AND owner_id = ?", id, callerID).
		Updates(updates)

	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		return nil, ErrDenied
	}

	return &project, nil
}

// Delete removes the project; memberships and tasks go with it via
// the foreign-key cascades.
func (s *ProjectStore) Delete(id, callerID uint) error {
	result := s.db.Where("id = ? AND owner_id = ?", id, callerID).Delete(&models.Project{})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrDenied
	}

	return nil
}
