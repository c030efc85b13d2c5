// 定义与数据库表字段对应的常量
// 由于 Gin 框架在进行参数校验时，如果给了 required 标签，则不能传入零值
// 所以在定义常量时，最好将零值排除在外，请使用 iota + 1 定义第一个常量
package model

import "fmt"

// Role of a user on the platform or in a project.
// Higher values include the privileges of lower ones.
type Role uint8

const (
	RoleViewer Role = iota + 1
	RoleMember
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleViewer:
		return "viewer"
	case RoleMember:
		return "member"
	case RoleAdmin:
		return "admin"
	default:
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
}

func (r Role) Valid() bool {
	return r >= RoleViewer && r <= RoleAdmin
}

// ParseRole accepts the role name.
func ParseRole(s string) (Role, error) {
	switch s {
	case "viewer":
		return RoleViewer, nil
	case "member":
		return RoleMember, nil
	case "admin":
		return RoleAdmin, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// User status
type Status uint8

const (
	StatusActive   Status = iota + 1 // Active status
	StatusInactive                   // Inactive status
)

// Seeded ids of the task_statuses table.
const (
	TaskStatusTodo       uint = 1
	TaskStatusInProgress uint = 2
	TaskStatusDone       uint = 3
)

// Seeded ids of the task_priorities table.
const (
	TaskPriorityLow    uint = 1
	TaskPriorityMedium uint = 2
	TaskPriorityHigh   uint = 3
	TaskPriorityUrgent uint = 4
)
