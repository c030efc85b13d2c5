package board

import (
	"context"

	"gorm.io/gorm"

	"github.com/raids-lab/taskflow/dao/model"
	"github.com/raids-lab/taskflow/pkg/metrics"
)

type TaskOrder struct {
	TaskID   uint
	Position float64
}

// MoveTask puts the task into targetListID at the given position. The caller
// chooses the position, typically the midpoint of the new neighbours or the
// last position plus one. Positions are never renormalized.
//
// The actor must belong to the task's project and to the target list's
// project; both are checked even when they are the same project.
func (s *Service) MoveTask(ctx context.Context, actor Actor, taskID, targetListID uint, position float64) (*model.Task, error) {
	db := s.db.WithContext(ctx)
	task, err := getTask(db, taskID)
	if err != nil {
		return nil, err
	}
	if err := authorize(db, actor, task.ProjectID, model.RoleViewer); err != nil {
		return nil, err
	}
	target, err := getList(db, targetListID)
	if err != nil {
		return nil, err
	}
	if err := authorize(db, actor, target.ProjectID, model.RoleViewer); err != nil {
		return nil, err
	}

	updates := map[string]any{
		"list_id":    target.ID,
		"project_id": target.ProjectID,
		"position":   position,
	}
	if target.ProjectID != task.ProjectID && task.AssigneeID != nil {
		// the assignee has to be a member of the project the task lives in
		member, err := resolveMembership(db, target.ProjectID, *task.AssigneeID)
		if err != nil {
			return nil, err
		}
		if member == nil {
			updates["assignee_id"] = nil
		}
	}

	if err := db.Model(task).Updates(updates).Error; err != nil {
		return nil, err
	}
	metrics.TaskMoves.Inc()
	return loadTask(db, taskID)
}

// ReorderTasks sets the position of each listed task in one transaction.
// Each update is scoped to listID, so ids of tasks in other lists are
// skipped without error. It returns the list with its tasks in the new order.
func (s *Service) ReorderTasks(ctx context.Context, actor Actor, listID uint, orders []TaskOrder) (*model.TaskList, error) {
	db := s.db.WithContext(ctx)
	list, err := getList(db, listID)
	if err != nil {
		return nil, err
	}
	if err := authorize(db, actor, list.ProjectID, model.RoleViewer); err != nil {
		return nil, err
	}

	var moved int64
	err = db.Transaction(func(tx *gorm.DB) error {
		for _, o := range orders {
			result := tx.Model(&model.Task{}).
				Where("id = ? AND list_id = ?", o.TaskID, listID).
				Update("position", o.Position)
			if result.Error != nil {
				return result.Error
			}
			moved += result.RowsAffected
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.TaskMoves.Add(float64(moved))

	var reordered model.TaskList
	if err := preloadListTasks(db).Take(&reordered, listID).Error; err != nil {
		return nil, lookupErr(err, "list", listID)
	}
	return &reordered, nil
}
