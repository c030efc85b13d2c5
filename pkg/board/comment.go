package board

import (
	"context"
	"strings"

	"github.com/raids-lab/taskflow/dao/model"
)

func (s *Service) AddComment(ctx context.Context, actor Actor, taskID uint, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalidInput("comment must not be empty")
	}
	db := s.db.WithContext(ctx)
	task, err := getTask(db, taskID)
	if err != nil {
		return nil, err
	}
	if err := authorize(db, actor, task.ProjectID, model.RoleMember); err != nil {
		return nil, err
	}

	comment := model.Comment{
		TaskID:  taskID,
		UserID:  actor.UserID,
		Content: content,
	}
	if err := db.Create(&comment).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("User").Take(&comment, comment.ID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *Service) ListComments(ctx context.Context, actor Actor, taskID uint) ([]model.Comment, error) {
	db := s.db.WithContext(ctx)
	task, err := getTask(db, taskID)
	if err != nil {
		return nil, err
	}
	if err := authorize(db, actor, task.ProjectID, model.RoleViewer); err != nil {
		return nil, err
	}

	var comments []model.Comment
	err = db.Preload("User").
		Where("task_id = ?", taskID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

// DeleteComment lets the author or a project admin remove a comment.
func (s *Service) DeleteComment(ctx context.Context, actor Actor, commentID uint) error {
	db := s.db.WithContext(ctx)
	var comment model.Comment
	if err := db.Take(&comment, commentID).Error; err != nil {
		return lookupErr(err, "comment", commentID)
	}
	task, err := getTask(db, comment.TaskID)
	if err != nil {
		return err
	}

	required := model.RoleViewer
	if comment.UserID != actor.UserID {
		required = model.RoleAdmin
	}
	if err := authorize(db, actor, task.ProjectID, required); err != nil {
		return err
	}
	return db.Delete(&comment).Error
}
