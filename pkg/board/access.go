package board

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/raids-lab/taskflow/dao/model"
)

// Actor is the authenticated user performing an operation, with the
// user's global role.
type Actor struct {
	UserID uint
	Role   model.Role
}

// IsPlatformAdmin reports whether the actor bypasses project membership checks.
func (a Actor) IsPlatformAdmin() bool {
	return a.Role == model.RoleAdmin
}

// HasAccess reports whether subject satisfies at least one of the allowed
// roles. Roles form the total order viewer < member < admin, and a role
// carries the privileges of every role below it.
func HasAccess(subject model.Role, allowed ...model.Role) bool {
	if !subject.Valid() {
		return false
	}
	for _, r := range allowed {
		if r.Valid() && subject >= r {
			return true
		}
	}
	return false
}

// ResolveMembership returns the membership of userID in projectID, or nil
// when the user is not a member.
func (s *Service) ResolveMembership(ctx context.Context, projectID, userID uint) (*model.ProjectMember, error) {
	return resolveMembership(s.db.WithContext(ctx), projectID, userID)
}

func resolveMembership(tx *gorm.DB, projectID, userID uint) (*model.ProjectMember, error) {
	var member model.ProjectMember
	err := tx.Where("project_id = ? AND user_id = ?", projectID, userID).Take(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// Authorize checks that projectID exists and that actor holds at least the
// required role in it. Platform admins pass without a membership.
func (s *Service) Authorize(ctx context.Context, actor Actor, projectID uint, required model.Role) error {
	return authorize(s.db.WithContext(ctx), actor, projectID, required)
}

func authorize(tx *gorm.DB, actor Actor, projectID uint, required model.Role) error {
	var count int64
	if err := tx.Model(&model.Project{}).Where("id = ?", projectID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return notFound("project", projectID)
	}
	if actor.IsPlatformAdmin() {
		return nil
	}

	member, err := resolveMembership(tx, projectID, actor.UserID)
	if err != nil {
		return err
	}
	if member == nil {
		return fmt.Errorf("%w: not a member of project %d", ErrAccessDenied, projectID)
	}
	if !HasAccess(member.Role, required) {
		return fmt.Errorf("%w: %s role required in project %d", ErrAccessDenied, required, projectID)
	}
	return nil
}
