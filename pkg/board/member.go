package board

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/raids-lab/taskflow/dao/model"
	"github.com/raids-lab/taskflow/pkg/logutils"
)

func (s *Service) ListMembers(ctx context.Context, actor Actor, projectID uint) ([]model.ProjectMember, error) {
	db := s.db.WithContext(ctx)
	if err := authorize(db, actor, projectID, model.RoleViewer); err != nil {
		return nil, err
	}
	var members []model.ProjectMember
	err := db.Preload("User").Where("project_id = ?", projectID).Order("id ASC").Find(&members).Error
	return members, err
}

// AddMember adds userID to the project with role. Adding an existing member
// fails with ErrDuplicateMembership and leaves the existing row untouched.
func (s *Service) AddMember(ctx context.Context, actor Actor, projectID, userID uint, role model.Role) (*model.ProjectMember, error) {
	if !role.Valid() {
		return nil, invalidInput("invalid role %d", role)
	}
	db := s.db.WithContext(ctx)
	if err := authorize(db, actor, projectID, model.RoleAdmin); err != nil {
		return nil, err
	}

	var user model.User
	if err := db.Take(&user, userID).Error; err != nil {
		return nil, lookupErr(err, "user", userID)
	}
	existing, err := resolveMembership(db, projectID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: user %d is already in project %d", ErrDuplicateMembership, userID, projectID)
	}

	inviter := actor.UserID
	member := model.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
		InvitedBy: &inviter,
	}
	if err := db.Create(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: user %d is already in project %d", ErrDuplicateMembership, userID, projectID)
		}
		return nil, err
	}
	member.User = &user

	var project model.Project
	if err := db.Take(&project, projectID).Error; err == nil {
		invitee := user
		s.notifyAsync(func(ctx context.Context) error {
			return s.notifier.NotifyInvitation(ctx, &invitee, &project, role)
		}, func(err error) {
			logutils.Log.WithFields(logutils.Fields{
				"project": projectID,
				"user":    userID,
			}).Warnf("send invitation: %v", err)
		})
	}
	return &member, nil
}

// UpdateMemberRole changes the role of an existing member. The owner always
// stays admin.
func (s *Service) UpdateMemberRole(ctx context.Context, actor Actor, projectID, userID uint, role model.Role) (*model.ProjectMember, error) {
	if !role.Valid() {
		return nil, invalidInput("invalid role %d", role)
	}
	db := s.db.WithContext(ctx)
	if err := authorize(db, actor, projectID, model.RoleAdmin); err != nil {
		return nil, err
	}
	member, err := s.mustMember(db, projectID, userID)
	if err != nil {
		return nil, err
	}
	if role != model.RoleAdmin {
		if err := s.checkNotOwner(db, projectID, userID, "demote"); err != nil {
			return nil, err
		}
	}

	if err := db.Model(member).Update("role", role).Error; err != nil {
		return nil, err
	}
	member.Role = role
	return member, nil
}

// RemoveMember deletes the membership and unassigns the user's tasks in the
// project. The owner cannot be removed.
func (s *Service) RemoveMember(ctx context.Context, actor Actor, projectID, userID uint) error {
	db := s.db.WithContext(ctx)
	if err := authorize(db, actor, projectID, model.RoleAdmin); err != nil {
		return err
	}
	member, err := s.mustMember(db, projectID, userID)
	if err != nil {
		return err
	}
	if err := s.checkNotOwner(db, projectID, userID, "remove"); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Task{}).
			Where("project_id = ? AND assignee_id = ?", projectID, userID).
			Update("assignee_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(member).Error
	})
}

func (s *Service) mustMember(db *gorm.DB, projectID, userID uint) (*model.ProjectMember, error) {
	member, err := resolveMembership(db, projectID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, fmt.Errorf("%w: user %d is not in project %d", ErrNotFound, userID, projectID)
	}
	return member, nil
}

func (s *Service) checkNotOwner(db *gorm.DB, projectID, userID uint, action string) error {
	var project model.Project
	if err := db.Select("id", "owner_id").Take(&project, projectID).Error; err != nil {
		return lookupErr(err, "project", projectID)
	}
	if project.OwnerID == userID {
		return fmt.Errorf("%w: cannot %s the project owner", ErrInvalidState, action)
	}
	return nil
}
