package model

import "time"

// TaskList is a board column. Lists of a project are ordered by Position.
type TaskList struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
	ProjectID uint        `gorm:"index;not null" json:"projectId"`
	Name      string      `gorm:"type:varchar(128);not null" json:"name"`
	Position  float64     `gorm:"not null;default:0" json:"position"`
	StatusID  *uint       `json:"statusId"`
	Status    *TaskStatus `json:"status,omitempty"`
	Tasks     []Task      `gorm:"foreignKey:ListID" json:"tasks,omitempty"`
}

// Task belongs to exactly one list, and that list belongs to ProjectID.
type Task struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	ProjectID   uint          `gorm:"index;not null" json:"projectId"`
	ListID      uint          `gorm:"index;not null" json:"listId"`
	Title       string        `gorm:"type:varchar(255);not null" json:"title"`
	Description *string       `gorm:"type:text" json:"description"`
	StatusID    uint          `gorm:"index;not null;default:1" json:"statusId"`
	PriorityID  uint          `gorm:"index;not null;default:2" json:"priorityId"`
	AssigneeID  *uint         `gorm:"index" json:"assigneeId"`
	CreatorID   uint          `gorm:"not null" json:"creatorId"`
	DueDate     *time.Time    `json:"dueDate"`
	Position    float64       `gorm:"not null;default:0" json:"position"`
	CompletedAt *time.Time    `json:"completedAt"`
	List        *TaskList     `gorm:"foreignKey:ListID" json:"list,omitempty"`
	Project     *Project      `json:"project,omitempty"`
	Status      *TaskStatus   `json:"status,omitempty"`
	Priority    *TaskPriority `json:"priority,omitempty"`
	Assignee    *User         `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Creator     *User         `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Comments    []Comment     `json:"comments,omitempty"`
}

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	TaskID    uint      `gorm:"index;not null" json:"taskId"`
	UserID    uint      `gorm:"not null" json:"userId"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	User      *User     `json:"user,omitempty"`
}

// TaskStatus and TaskPriority are lookup tables seeded by migration.
type TaskStatus struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"type:varchar(32);uniqueIndex;not null" json:"name"`
	Color string `gorm:"type:varchar(16)" json:"color"`
}

type TaskPriority struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"type:varchar(32);uniqueIndex;not null" json:"name"`
	Level int    `gorm:"not null" json:"level"`
}
