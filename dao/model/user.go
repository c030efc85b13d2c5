package model

import (
	"time"

	"gorm.io/datatypes"
)

type UserAttribute struct {
	Email    *string `json:"email,omitempty"`
	Nickname *string `json:"nickname,omitempty"`
}

// User is the basic entity of the system
type User struct {
	ID         uint                              `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time                         `json:"createdAt"`
	UpdatedAt  time.Time                         `json:"updatedAt"`
	Name       string                            `gorm:"uniqueIndex;type:varchar(64);not null;comment:用户名" json:"name"`
	Password   string                            `gorm:"type:varchar(128);not null;comment:密码哈希" json:"-"`
	Role       Role                              `gorm:"not null;default:2;comment:平台角色 (viewer, member, admin)" json:"role"`
	Status     Status                            `gorm:"not null;default:1;comment:用户状态 (active, inactive)" json:"-"`
	Attributes datatypes.JSONType[UserAttribute] `gorm:"comment:用户额外属性" json:"attributes"`
}
