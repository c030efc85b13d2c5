package board

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/raids-lab/taskflow/dao/model"
	"github.com/raids-lab/taskflow/pkg/logutils"
)

type ProjectCreate struct {
	Name        string
	Description *string
}

type ProjectUpdate struct {
	Name        *string
	Description *string
}

// CreateProject creates the project with the actor as its admin member, then
// adds the default lists. A failure on the default lists is logged and does
// not undo the project.
func (s *Service) CreateProject(ctx context.Context, actor Actor, req ProjectCreate) (*model.Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalidInput("project name is required")
	}

	project := model.Project{
		Name:        name,
		Description: req.Description,
		OwnerID:     actor.UserID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		return tx.Create(&model.ProjectMember{
			ProjectID: project.ID,
			UserID:    actor.UserID,
			Role:      model.RoleAdmin,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.CreateDefaultLists(ctx, project.ID); err != nil {
		logutils.Log.WithFields(logutils.Fields{
			"project": project.ID,
		}).Errorf("create default lists: %v", err)
	}

	return s.loadProject(s.db.WithContext(ctx), project.ID)
}

// ListProjects returns the projects the actor belongs to, newest first.
// Platform admins see every project.
func (s *Service) ListProjects(ctx context.Context, actor Actor) ([]model.Project, error) {
	db := s.db.WithContext(ctx)
	q := db.Model(&model.Project{})
	if !actor.IsPlatformAdmin() {
		memberOf := db.Model(&model.ProjectMember{}).Select("project_id").Where("user_id = ?", actor.UserID)
		q = q.Where("id IN (?)", memberOf)
	}
	var projects []model.Project
	if err := q.Preload("Owner").Order("id DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *Service) GetProject(ctx context.Context, actor Actor, projectID uint) (*model.Project, error) {
	db := s.db.WithContext(ctx)
	if err := authorize(db, actor, projectID, model.RoleViewer); err != nil {
		return nil, err
	}
	return s.loadProject(db, projectID)
}

func (s *Service) UpdateProject(ctx context.Context, actor Actor, projectID uint, req ProjectUpdate) (*model.Project, error) {
	db := s.db.WithContext(ctx)
	if err := authorize(db, actor, projectID, model.RoleAdmin); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, invalidInput("project name must not be empty")
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if len(updates) > 0 {
		if err := db.Model(&model.Project{ID: projectID}).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.loadProject(db, projectID)
}

// DeleteProject removes the project together with its comments, tasks,
// lists and members.
func (s *Service) DeleteProject(ctx context.Context, actor Actor, projectID uint) error {
	db := s.db.WithContext(ctx)
	if err := authorize(db, actor, projectID, model.RoleAdmin); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		taskIDs := tx.Model(&model.Task{}).Select("id").Where("project_id = ?", projectID)
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&model.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&model.TaskList{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&model.ProjectMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Project{}, projectID).Error
	})
}

func (s *Service) loadProject(db *gorm.DB, projectID uint) (*model.Project, error) {
	var project model.Project
	err := db.
		Preload("Owner").
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Members.User").
		Preload("Lists", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		Take(&project, projectID).Error
	if err != nil {
		return nil, lookupErr(err, "project", projectID)
	}
	return &project, nil
}
