package models

const (
	// RoleManager is assigned to the owner's automatic membership row.
	RoleManager = "manager"
	// RoleMember is the default role for invited members.
	RoleMember = "member"
)

// ProjectMember is the role-annotated join between users and projects.
// A user holds at most one row per project; role assignment is an
// upsert on the (project_id, user_id) key.
type ProjectMember struct {
	BaseModel

	ProjectID uint   `gorm:"not null;uniqueIndex:idx_project_user" json:"project_id"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_project_user" json:"user_id"`
	Role      string `gorm:"not null;default:'member'" json:"role"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
