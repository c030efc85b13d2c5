package model

import "time"

type Project struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Name        string          `gorm:"type:varchar(128);not null;comment:项目名" json:"name"`
	Description *string         `gorm:"type:text;comment:项目描述" json:"description"`
	OwnerID     uint            `gorm:"index;not null;comment:创建者" json:"ownerId"`
	Owner       *User           `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Members     []ProjectMember `json:"members,omitempty"`
	Lists       []TaskList      `json:"lists,omitempty"`
}

// ProjectMember is unique per (project, user).
type ProjectMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	ProjectID uint      `gorm:"uniqueIndex:idx_project_user;not null" json:"projectId"`
	UserID    uint      `gorm:"uniqueIndex:idx_project_user;not null" json:"userId"`
	Role      Role      `gorm:"not null;comment:用户在项目中的角色 (viewer, member, admin)" json:"role"`
	InvitedBy *uint     `json:"invitedBy"`
	User      *User     `json:"user,omitempty"`
}
