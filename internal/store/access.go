package store

import "gorm.io/gorm"

type AccessLevel int

const (
	// AccessMember is satisfied by the project owner or any user
	// holding a membership row. Gates task operations and member
	// listings.
	AccessMember AccessLevel = iota
	// AccessOwner is satisfied only by the project's owner. Gates
	// project mutation and roster changes.
	AccessOwner
)

// AccessEvaluator answers allow/deny for project-scoped operations.
// Each check is a single read so a concurrent membership revocation
// cannot slip between two application-level lookups.
type AccessEvaluator struct {
	db *gorm.DB
}

func NewAccessEvaluator(db *gorm.DB) *AccessEvaluator {
	return &AccessEvaluator{db: db}
}

// Check returns nil when callerID holds level on projectID and
// ErrDenied otherwise. Absence of any matching row is a denial, never
// an error: a nonexistent project looks identical to one the caller
// cannot see.
func (e *AccessEvaluator) Check(callerID, projectID uint, level AccessLevel) error {
	var matched int

	query := `SELECT 1 FROM projects WHERE id = ? AND owner_id = ?`
	args := []interface{}{projectID, callerID}

	if level == AccessMember {
		query += ` UNION SELECT 1 FROM project_members WHERE project_id = ? AND user_id = ?`
		args = append(args, projectID, callerID)
	}

	if err := e.db.Raw(query, args...).Scan(&matched).Error; err != nil {
		return err
	}

	if matched == 0 {
		return ErrDenied
	}

	return nil
}
