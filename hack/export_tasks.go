// Usage: TASKFLOW_CONFIG_PATH=${PWD}/etc/debug-config.yaml go run hack/export_tasks.go
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/raids-lab/taskflow/dao/model"
	"github.com/raids-lab/taskflow/dao/query"
)

func main() {
	db := query.GetDB()

	var tasks []model.Task
	if err := db.
		Preload("Project").
		Preload("List").
		Preload("Status").
		Preload("Priority").
		Preload("Assignee").
		Preload("Creator").
		Order("project_id ASC, list_id ASC, position ASC").
		Find(&tasks).Error; err != nil {
		panic(fmt.Errorf("failed to fetch tasks: %w", err))
	}

	file, err := os.Create("tasks_export.csv")
	if err != nil {
		panic(fmt.Errorf("failed to create CSV file: %w", err))
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := []string{
		"ID", "ProjectID", "ProjectName", "ListID", "ListName", "Position",
		"Title", "Status", "Priority", "Assignee", "Creator",
		"DueDate", "CompletedAt", "CreatedAt",
	}
	if err := writer.Write(headers); err != nil {
		panic(fmt.Errorf("failed to write CSV header: %w", err))
	}

	for i := range tasks {
		if err := writer.Write(taskToCSVRecord(&tasks[i])); err != nil {
			panic(fmt.Errorf("failed to write CSV record: %w", err))
		}
	}

	fmt.Printf("Successfully exported %d tasks to tasks_export.csv\n", len(tasks))
}

func taskToCSVRecord(task *model.Task) []string {
	formatTime := func(t *time.Time) string {
		if t == nil || t.IsZero() {
			return ""
		}
		return t.Format(time.RFC3339)
	}
	userName := func(u *model.User) string {
		if u == nil {
			return ""
		}
		return u.Name
	}

	var projectName, listName, status, priority string
	if task.Project != nil {
		projectName = task.Project.Name
	}
	if task.List != nil {
		listName = task.List.Name
	}
	if task.Status != nil {
		status = task.Status.Name
	}
	if task.Priority != nil {
		priority = task.Priority.Name
	}

	return []string{
		fmt.Sprintf("%d", task.ID),
		fmt.Sprintf("%d", task.ProjectID),
		projectName,
		fmt.Sprintf("%d", task.ListID),
		listName,
		fmt.Sprintf("%g", task.Position),
		task.Title,
		status,
		priority,
		userName(task.Assignee),
		userName(task.Creator),
		formatTime(task.DueDate),
		formatTime(task.CompletedAt),
		formatTime(&task.CreatedAt),
	}
}
