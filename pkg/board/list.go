package board

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/raids-lab/taskflow/dao/model"
)

type ListCreate struct {
	Name     string
	Position *float64 // appended after the last list when nil
	StatusID *uint
}

type ListUpdate struct {
	Name     *string
	Position *float64
	StatusID *uint
}

type defaultList struct {
	name     string
	statusID *uint
}

func statusRef(id uint) *uint { return &id }

var defaultLists = []defaultList{
	{name: "Backlog"},
	{name: "To Do", statusID: statusRef(model.TaskStatusTodo)},
	{name: "In Progress", statusID: statusRef(model.TaskStatusInProgress)},
	{name: "Review"},
	{name: "Done", statusID: statusRef(model.TaskStatusDone)},
}

// CreateDefaultLists inserts the standard board columns at positions 1 to 5.
func (s *Service) CreateDefaultLists(ctx context.Context, projectID uint) error {
	lists := make([]model.TaskList, 0, len(defaultLists))
	for i, l := range defaultLists {
		lists = append(lists, model.TaskList{
			ProjectID: projectID,
			Name:      l.name,
			Position:  float64(i + 1),
			StatusID:  l.statusID,
		})
	}
	return s.db.WithContext(ctx).Create(&lists).Error
}

// ListLists returns the project's lists by position, each with its tasks by
// position and the task associations needed to render a card.
func (s *Service) ListLists(ctx context.Context, actor Actor, projectID uint) ([]model.TaskList, error) {
	db := s.db.WithContext(ctx)
	if err := authorize(db, actor, projectID, model.RoleViewer); err != nil {
		return nil, err
	}

	var lists []model.TaskList
	err := preloadListTasks(db).
		Where("project_id = ?", projectID).
		Order("position ASC, id ASC").
		Find(&lists).Error
	return lists, err
}

func (s *Service) CreateList(ctx context.Context, actor Actor, projectID uint, req ListCreate) (*model.TaskList, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalidInput("list name is required")
	}
	db := s.db.WithContext(ctx)
	if err := authorize(db, actor, projectID, model.RoleMember); err != nil {
		return nil, err
	}
	if err := checkStatus(db, req.StatusID); err != nil {
		return nil, err
	}

	list := model.TaskList{
		ProjectID: projectID,
		Name:      name,
		StatusID:  req.StatusID,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if req.Position != nil {
			list.Position = *req.Position
		} else {
			var maxPos float64
			if err := tx.Model(&model.TaskList{}).
				Where("project_id = ?", projectID).
				Select("COALESCE(MAX(position), 0)").
				Row().Scan(&maxPos); err != nil {
				return err
			}
			list.Position = maxPos + 1
		}
		return tx.Create(&list).Error
	})
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// UpdateList applies name, position and status changes. Other fields of the
// list are never touched.
func (s *Service) UpdateList(ctx context.Context, actor Actor, listID uint, req ListUpdate) (*model.TaskList, error) {
	db := s.db.WithContext(ctx)
	list, err := getList(db, listID)
	if err != nil {
		return nil, err
	}
	if err := authorize(db, actor, list.ProjectID, model.RoleMember); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, invalidInput("list name must not be empty")
		}
		updates["name"] = name
	}
	if req.Position != nil {
		updates["position"] = *req.Position
	}
	if req.StatusID != nil {
		if err := checkStatus(db, req.StatusID); err != nil {
			return nil, err
		}
		updates["status_id"] = *req.StatusID
	}
	if len(updates) > 0 {
		if err := db.Model(list).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return getList(db, listID)
}

// DeleteList removes an empty list. Lists that still own tasks are rejected
// with ErrInvalidState.
func (s *Service) DeleteList(ctx context.Context, actor Actor, listID uint) error {
	db := s.db.WithContext(ctx)
	list, err := getList(db, listID)
	if err != nil {
		return err
	}
	if err := authorize(db, actor, list.ProjectID, model.RoleAdmin); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Task{}).Where("list_id = ?", listID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: list %d still has %d task(s)", ErrInvalidState, listID, count)
		}
		return tx.Delete(list).Error
	})
}

func getList(db *gorm.DB, listID uint) (*model.TaskList, error) {
	var list model.TaskList
	if err := db.Take(&list, listID).Error; err != nil {
		return nil, lookupErr(err, "list", listID)
	}
	return &list, nil
}

// lockList reads the list row with a row lock, serializing position
// assignment within the list. sqlite ignores the locking clause.
func lockList(tx *gorm.DB, listID uint) (*model.TaskList, error) {
	var list model.TaskList
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Take(&list, listID).Error; err != nil {
		return nil, lookupErr(err, "list", listID)
	}
	return &list, nil
}

func preloadListTasks(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		Preload("Tasks.Assignee").
		Preload("Tasks.Status").
		Preload("Tasks.Priority").
		Preload("Tasks.Creator")
}

func checkStatus(db *gorm.DB, statusID *uint) error {
	if statusID == nil {
		return nil
	}
	var count int64
	if err := db.Model(&model.TaskStatus{}).Where("id = ?", *statusID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return invalidInput("unknown status %d", *statusID)
	}
	return nil
}

func checkPriority(db *gorm.DB, priorityID *uint) error {
	if priorityID == nil {
		return nil
	}
	var count int64
	if err := db.Model(&model.TaskPriority{}).Where("id = ?", *priorityID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return invalidInput("unknown priority %d", *priorityID)
	}
	return nil
}
