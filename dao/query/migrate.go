package query

import (
	"fmt"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/raids-lab/taskflow/dao/model"
)

func defaultStatuses() []model.TaskStatus {
	return []model.TaskStatus{
		{ID: model.TaskStatusTodo, Name: "todo", Color: "#64748b"},
		{ID: model.TaskStatusInProgress, Name: "in_progress", Color: "#2563eb"},
		{ID: model.TaskStatusDone, Name: "done", Color: "#16a34a"},
	}
}

func defaultPriorities() []model.TaskPriority {
	return []model.TaskPriority{
		{ID: model.TaskPriorityLow, Name: "low", Level: 1},
		{ID: model.TaskPriorityMedium, Name: "medium", Level: 2},
		{ID: model.TaskPriorityHigh, Name: "high", Level: 3},
		{ID: model.TaskPriorityUrgent, Name: "urgent", Level: 4},
	}
}

func migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "202610010000_create_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&model.User{},
					&model.Project{},
					&model.ProjectMember{},
					&model.TaskStatus{},
					&model.TaskPriority{},
					&model.TaskList{},
					&model.Task{},
					&model.Comment{},
				)
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(
					&model.Comment{},
					&model.Task{},
					&model.TaskList{},
					&model.TaskPriority{},
					&model.TaskStatus{},
					&model.ProjectMember{},
					&model.Project{},
					&model.User{},
				)
			},
		},
		{
			ID: "202610010001_seed_lookup_tables",
			Migrate: func(tx *gorm.DB) error {
				statuses := defaultStatuses()
				if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&statuses).Error; err != nil {
					return err
				}
				priorities := defaultPriorities()
				return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&priorities).Error
			},
			Rollback: func(tx *gorm.DB) error {
				if err := tx.Where("1 = 1").Delete(&model.TaskPriority{}).Error; err != nil {
					return err
				}
				return tx.Where("1 = 1").Delete(&model.TaskStatus{}).Error
			},
		},
	}
}

// Migrate brings the schema up to date.
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, migrations())
	if err := m.Migrate(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// RollbackLast undoes the most recently applied migration.
func RollbackLast(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, migrations())
	if err := m.RollbackLast(); err != nil {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}
