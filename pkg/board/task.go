package board

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/raids-lab/taskflow/dao/model"
)

type TaskCreate struct {
	ListID      uint
	Title       string
	Description *string
	PriorityID  *uint
	AssigneeID  *uint
	DueDate     *time.Time
}

// TaskUpdate carries the fields to change. AssigneeID 0 unassigns the task.
type TaskUpdate struct {
	Title        *string
	Description  *string
	StatusID     *uint
	PriorityID   *uint
	AssigneeID   *uint
	DueDate      *time.Time
	ClearDueDate bool
}

type TaskFilter struct {
	StatusID   *uint
	PriorityID *uint
	AssigneeID *uint
}

// CreateTask appends a task to the end of its list: position is the largest
// position in the list plus one, or 1 for an empty list.
func (s *Service) CreateTask(ctx context.Context, actor Actor, req TaskCreate) (*model.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, invalidInput("task title is required")
	}
	db := s.db.WithContext(ctx)
	list, err := getList(db, req.ListID)
	if err != nil {
		return nil, err
	}
	if err := authorize(db, actor, list.ProjectID, model.RoleMember); err != nil {
		return nil, err
	}
	if err := checkPriority(db, req.PriorityID); err != nil {
		return nil, err
	}
	if req.AssigneeID != nil {
		if err := checkAssignee(db, list.ProjectID, *req.AssigneeID); err != nil {
			return nil, err
		}
	}

	task := model.Task{
		ProjectID:   list.ProjectID,
		ListID:      list.ID,
		Title:       title,
		Description: req.Description,
		StatusID:    model.TaskStatusTodo,
		PriorityID:  model.TaskPriorityMedium,
		AssigneeID:  req.AssigneeID,
		CreatorID:   actor.UserID,
		DueDate:     req.DueDate,
	}
	if req.PriorityID != nil {
		task.PriorityID = *req.PriorityID
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if _, err := lockList(tx, list.ID); err != nil {
			return err
		}
		var maxPos float64
		if err := tx.Model(&model.Task{}).
			Where("list_id = ?", list.ID).
			Select("COALESCE(MAX(position), 0)").
			Row().Scan(&maxPos); err != nil {
			return err
		}
		task.Position = maxPos + 1
		return tx.Create(&task).Error
	})
	if err != nil {
		return nil, err
	}
	return loadTask(db, task.ID)
}

// GetTask returns the task with its list, project, status, priority, people
// and comments (oldest first).
func (s *Service) GetTask(ctx context.Context, actor Actor, taskID uint) (*model.Task, error) {
	db := s.db.WithContext(ctx)
	task, err := getTask(db, taskID)
	if err != nil {
		return nil, err
	}
	if err := authorize(db, actor, task.ProjectID, model.RoleViewer); err != nil {
		return nil, err
	}
	return loadTask(db, taskID)
}

func (s *Service) UpdateTask(ctx context.Context, actor Actor, taskID uint, req TaskUpdate) (*model.Task, error) {
	db := s.db.WithContext(ctx)
	task, err := getTask(db, taskID)
	if err != nil {
		return nil, err
	}
	if err := authorize(db, actor, task.ProjectID, model.RoleMember); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, invalidInput("task title must not be empty")
		}
		updates["title"] = title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.PriorityID != nil {
		if err := checkPriority(db, req.PriorityID); err != nil {
			return nil, err
		}
		updates["priority_id"] = *req.PriorityID
	}
	if req.StatusID != nil && *req.StatusID != task.StatusID {
		if err := checkStatus(db, req.StatusID); err != nil {
			return nil, err
		}
		updates["status_id"] = *req.StatusID
		switch {
		case *req.StatusID == model.TaskStatusDone && task.CompletedAt == nil:
			updates["completed_at"] = s.now()
		case *req.StatusID != model.TaskStatusDone:
			updates["completed_at"] = nil
		}
	}
	if req.AssigneeID != nil {
		if *req.AssigneeID == 0 {
			updates["assignee_id"] = nil
		} else if task.AssigneeID == nil || *task.AssigneeID != *req.AssigneeID {
			if err := checkAssignee(db, task.ProjectID, *req.AssigneeID); err != nil {
				return nil, err
			}
			updates["assignee_id"] = *req.AssigneeID
		}
	}
	if req.ClearDueDate {
		updates["due_date"] = nil
	} else if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
	}

	if len(updates) > 0 {
		if err := db.Model(task).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return loadTask(db, taskID)
}

func (s *Service) DeleteTask(ctx context.Context, actor Actor, taskID uint) error {
	db := s.db.WithContext(ctx)
	task, err := getTask(db, taskID)
	if err != nil {
		return err
	}
	if err := authorize(db, actor, task.ProjectID, model.RoleMember); err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", taskID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(task).Error
	})
}

// CompleteTask marks the task done and stamps the completion time. Calling it
// on a completed task refreshes the timestamp.
func (s *Service) CompleteTask(ctx context.Context, actor Actor, taskID uint) (*model.Task, error) {
	db := s.db.WithContext(ctx)
	task, err := getTask(db, taskID)
	if err != nil {
		return nil, err
	}
	if err := authorize(db, actor, task.ProjectID, model.RoleViewer); err != nil {
		return nil, err
	}
	err = db.Model(task).Updates(map[string]any{
		"status_id":    model.TaskStatusDone,
		"completed_at": s.now(),
	}).Error
	if err != nil {
		return nil, err
	}
	return loadTask(db, taskID)
}

func (s *Service) ListProjectTasks(ctx context.Context, actor Actor, projectID uint, filter TaskFilter) ([]model.Task, error) {
	db := s.db.WithContext(ctx)
	if err := authorize(db, actor, projectID, model.RoleViewer); err != nil {
		return nil, err
	}

	q := db.Preload("Assignee").Preload("Status").Preload("Priority").
		Where("project_id = ?", projectID)
	if filter.StatusID != nil {
		q = q.Where("status_id = ?", *filter.StatusID)
	}
	if filter.PriorityID != nil {
		q = q.Where("priority_id = ?", *filter.PriorityID)
	}
	if filter.AssigneeID != nil {
		q = q.Where("assignee_id = ?", *filter.AssigneeID)
	}

	var tasks []model.Task
	err := q.Order("position ASC, id ASC").Find(&tasks).Error
	return tasks, err
}

// OverdueTasks returns open, assigned tasks whose due date is before now,
// with assignee and project loaded.
func (s *Service) OverdueTasks(ctx context.Context, now time.Time) ([]model.Task, error) {
	var tasks []model.Task
	err := s.db.WithContext(ctx).
		Preload("Assignee").
		Preload("Project").
		Where("due_date < ? AND completed_at IS NULL AND assignee_id IS NOT NULL", now).
		Where("status_id <> ?", model.TaskStatusDone).
		Order("due_date ASC, id ASC").
		Find(&tasks).Error
	return tasks, err
}

// CountTasksByStatus returns the number of tasks keyed by status name.
func (s *Service) CountTasksByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Name  string
		Count int64
	}
	err := s.db.WithContext(ctx).
		Model(&model.TaskStatus{}).
		Select("task_statuses.name AS name, COUNT(tasks.id) AS count").
		Joins("LEFT JOIN tasks ON tasks.status_id = task_statuses.id").
		Group("task_statuses.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Name] = r.Count
	}
	return counts, nil
}

func getTask(db *gorm.DB, taskID uint) (*model.Task, error) {
	var task model.Task
	if err := db.Take(&task, taskID).Error; err != nil {
		return nil, lookupErr(err, "task", taskID)
	}
	return &task, nil
}

func loadTask(db *gorm.DB, taskID uint) (*model.Task, error) {
	var task model.Task
	err := db.
		Preload("List").
		Preload("Project").
		Preload("Status").
		Preload("Priority").
		Preload("Assignee").
		Preload("Creator").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Preload("Comments.User").
		Take(&task, taskID).Error
	if err != nil {
		return nil, lookupErr(err, "task", taskID)
	}
	return &task, nil
}

// checkAssignee requires userID to hold a membership row in the project.
func checkAssignee(db *gorm.DB, projectID, userID uint) error {
	member, err := resolveMembership(db, projectID, userID)
	if err != nil {
		return err
	}
	if member == nil {
		return fmt.Errorf("%w: user %d is not a member of project %d", ErrInvalidAssignee, userID, projectID)
	}
	return nil
}
