package store

import (
	"errors"
	"time"

	"github.com/taskdeck-dev/taskdeck/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MemberView joins a membership row with the member's identity fields
// for roster listings.
type MemberView struct {
	ID        uint      `json:"id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
}

// MemberStore owns the project roster. Listing is member-gated,
// mutation is owner-gated.
type MemberStore struct {
	db     *gorm.DB
	access *AccessEvaluator
}

func NewMemberStore(db *gorm.DB, access *AccessEvaluator) *MemberStore {
	return &MemberStore{db: db, access: access}
}

func (s *MemberStore) List(projectID, callerID uint) ([]MemberView, error) {
	if err := s.access.Check(callerID, projectID, AccessMember); err != nil {
		return nil, err
	}

	var members []MemberView

	err := s.db.Table("project_members").
		Select("project_members.id, project_members.role, project_members.created_at, users.id AS user_id, users.username, users.email").
		Joins("JOIN users ON users.id = project_members.user_id").
		Where("project_members.project_id = ?", projectID).
		Order("project_members.created_at").
		Scan(&members).Error

	if err != nil {
		return nil, err
	}

	return members, nil
}

// Add upserts a membership on the (project_id, user_id) key: adding an
// existing member overwrites the role instead of duplicating the row.
func (s *MemberStore) Add(projectID, callerID, targetUserID uint, role string) (*MemberView, error) {
	if targetUserID == 0 {
		return nil, &ValidationError{Field: "user_id", Reason: "is required"}
	}

	if err := s.access.Check(callerID, projectID, AccessOwner); err != nil {
		return nil, err
	}

	if role == "" {
		role = models.RoleMember
	}

	member := models.ProjectMember{
		ProjectID: projectID,
		UserID:    targetUserID,
		Role:      role,
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"role": role}),
	}).Create(&member).Error

	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, &ValidationError{Field: "user_id", Reason: "user does not exist"}
		}
		return nil, err
	}

	var view MemberView

	err = s.db.Table("project_members").
		Select("project_members.id, project_members.role, project_members.created_at, users.id AS user_id, users.username, users.email").
		Joins("JOIN users ON users.id = project_members.user_id").
		Where("project_members.id = ?", member.ID).
		Take(&view).Error

	if err != nil {
		return nil, err
	}

	return &view, nil
}

// Remove deletes a membership row. The delete is scoped to
// (id, project_id) so a row id belonging to another project cannot be
// removed through this one.
func (s *MemberStore) Remove(projectID, callerID, memberID uint) error {
	if err := s.access.Check(callerID, projectID, AccessOwner); err != nil {
		return err
	}

	result := s.db.Where("id = ? AND project_id = ?", memberID, projectID).Delete(&models.ProjectMember{})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
