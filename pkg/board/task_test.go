package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raids-lab/taskflow/dao/model"
)

func TestCreateTaskPosition(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner", model.RoleMember)
	p := f.project(t, owner, "Apollo")
	backlog := p.Lists[0]

	first := f.task(t, owner, backlog.ID, "first")
	assert.InDelta(t, 1.0, first.Position, 0)

	// positions need not be contiguous
	require.NoError(t, f.db.Model(first).Update("position", 7.25).Error)
	second := f.task(t, owner, backlog.ID, "second")
	assert.InDelta(t, 8.25, second.Position, 0)

	other := f.task(t, owner, p.Lists[1].ID, "other list")
	assert.InDelta(t, 1.0, other.Position, 0)
}

func TestCreateTaskDefaults(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner", model.RoleMember)
	p := f.project(t, owner, "Apollo")

	task := f.task(t, owner, p.Lists[0].ID, "  Launch  ")
	assert.Equal(t, "Launch", task.Title)
	assert.Equal(t, p.ID, task.ProjectID)
	assert.Equal(t, model.TaskStatusTodo, task.StatusID)
	assert.Equal(t, model.TaskPriorityMedium, task.PriorityID)
	assert.Equal(t, owner.UserID, task.CreatorID)
	assert.Nil(t, task.CompletedAt)
	require.NotNil(t, task.Creator)
	assert.Equal(t, "owner", task.Creator.Name)

	due := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	high, err := f.svc.CreateTask(f.ctx, owner, TaskCreate{
		ListID:      p.Lists[0].ID,
		Title:       "Urgent",
		Description: ptr("now"),
		PriorityID:  ptr(model.TaskPriorityHigh),
		DueDate:     &due,
	})
	require.NoError(t, err)
	assert.Equal(t, model.TaskPriorityHigh, high.PriorityID)
	require.NotNil(t, high.DueDate)
	assert.True(t, due.Equal(*high.DueDate))

	_, err = f.svc.CreateTask(f.ctx, owner, TaskCreate{ListID: p.Lists[0].ID, Title: "x", PriorityID: ptr(uint(42))})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.svc.CreateTask(f.ctx, owner, TaskCreate{ListID: p.Lists[0].ID})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.svc.CreateTask(f.ctx, owner, TaskCreate{ListID: 9999, Title: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateTaskRoles(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner", model.RoleMember)
	member := f.user(t, "member", model.RoleMember)
	viewer := f.user(t, "viewer", model.RoleMember)
	root := f.user(t, "root", model.RoleAdmin)
	p := f.project(t, owner, "Apollo")
	f.addMember(t, owner, p.ID, member, model.RoleMember)
	f.addMember(t, owner, p.ID, viewer, model.RoleViewer)
	listID := p.Lists[0].ID

	_, err := f.svc.CreateTask(f.ctx, viewer, TaskCreate{ListID: listID, Title: "denied"})
	assert.ErrorIs(t, err, ErrAccessDenied)

	for _, actor := range []Actor{member, owner, root} {
		_, err := f.svc.CreateTask(f.ctx, actor, TaskCreate{ListID: listID, Title: "allowed"})
		assert.NoError(t, err)
	}
}

func TestCreateTaskAssignee(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner", model.RoleMember)
	bob := f.user(t, "bob", model.RoleMember)
	outsider := f.user(t, "outsider", model.RoleMember)
	p := f.project(t, owner, "Apollo")
	f.addMember(t, owner, p.ID, bob, model.RoleViewer)

	task, err := f.svc.CreateTask(f.ctx, owner, TaskCreate{ListID: p.Lists[0].ID, Title: "a", AssigneeID: &bob.UserID})
	require.NoError(t, err)
	require.NotNil(t, task.Assignee)
	assert.Equal(t, "bob", task.Assignee.Name)

	_, err = f.svc.CreateTask(f.ctx, owner, TaskCreate{ListID: p.Lists[0].ID, Title: "b", AssigneeID: &outsider.UserID})
	assert.ErrorIs(t, err, ErrInvalidAssignee)
}

func TestUpdateTask(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner", model.RoleMember)
	bob := f.user(t, "bob", model.RoleMember)
	outsider := f.user(t, "outsider", model.RoleMember)
	p := f.project(t, owner, "Apollo")
	f.addMember(t, owner, p.ID, bob, model.RoleMember)
	task := f.task(t, owner, p.Lists[0].ID, "Launch")

	updated, err := f.svc.UpdateTask(f.ctx, owner, task.ID, TaskUpdate{
		Title:      ptr("Launch rocket"),
		PriorityID: ptr(model.TaskPriorityUrgent),
		AssigneeID: &bob.UserID,
		StatusID:   ptr(model.TaskStatusDone),
	})
	require.NoError(t, err)
	assert.Equal(t, "Launch rocket", updated.Title)
	assert.Equal(t, model.TaskPriorityUrgent, updated.PriorityID)
	require.NotNil(t, updated.AssigneeID)
	assert.Equal(t, bob.UserID, *updated.AssigneeID)
	assert.Equal(t, model.TaskStatusDone, updated.StatusID)
	require.NotNil(t, updated.CompletedAt)

	reopened, err := f.svc.UpdateTask(f.ctx, bob, task.ID, TaskUpdate{StatusID: ptr(model.TaskStatusInProgress)})
	require.NoError(t, err)
	assert.Nil(t, reopened.CompletedAt)

	_, err = f.svc.UpdateTask(f.ctx, owner, task.ID, TaskUpdate{AssigneeID: &outsider.UserID})
	assert.ErrorIs(t, err, ErrInvalidAssignee)

	unassigned, err := f.svc.UpdateTask(f.ctx, owner, task.ID, TaskUpdate{AssigneeID: ptr(uint(0))})
	require.NoError(t, err)
	assert.Nil(t, unassigned.AssigneeID)

	_, err = f.svc.UpdateTask(f.ctx, outsider, task.ID, TaskUpdate{Title: ptr("x")})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCompleteTask(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner", model.RoleMember)
	viewer := f.user(t, "viewer", model.RoleMember)
	p := f.project(t, owner, "Apollo")
	f.addMember(t, owner, p.ID, viewer, model.RoleViewer)
	task := f.task(t, owner, p.Lists[0].ID, "Launch")

	done, err := f.svc.CompleteTask(f.ctx, viewer, task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusDone, done.StatusID)
	require.NotNil(t, done.CompletedAt)
	assert.True(t, f.svc.now().Equal(*done.CompletedAt))

	// completing again is allowed and restamps the time
	later := f.svc.now().Add(time.Hour)
	f.svc.now = func() time.Time { return later }
	again, err := f.svc.CompleteTask(f.ctx, viewer, task.ID)
	require.NoError(t, err)
	require.NotNil(t, again.CompletedAt)
	assert.True(t, later.Equal(*again.CompletedAt))
}

func TestGetTaskGraph(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner", model.RoleMember)
	bob := f.user(t, "bob", model.RoleMember)
	outsider := f.user(t, "outsider", model.RoleMember)
	p := f.project(t, owner, "Apollo")
	f.addMember(t, owner, p.ID, bob, model.RoleMember)
	task := f.task(t, owner, p.Lists[0].ID, "Launch")

	_, err := f.svc.AddComment(f.ctx, owner, task.ID, "first")
	require.NoError(t, err)
	_, err = f.svc.AddComment(f.ctx, bob, task.ID, "second")
	require.NoError(t, err)

	got, err := f.svc.GetTask(f.ctx, bob, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got.List)
	assert.Equal(t, "Backlog", got.List.Name)
	require.NotNil(t, got.Project)
	assert.Equal(t, "Apollo", got.Project.Name)
	require.NotNil(t, got.Status)
	require.NotNil(t, got.Priority)
	require.Len(t, got.Comments, 2)
	assert.Equal(t, "first", got.Comments[0].Content)
	assert.Equal(t, "second", got.Comments[1].Content)
	require.NotNil(t, got.Comments[1].User)
	assert.Equal(t, "bob", got.Comments[1].User.Name)

	_, err = f.svc.GetTask(f.ctx, outsider, task.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)
	_, err = f.svc.GetTask(f.ctx, owner, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteTask(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner", model.RoleMember)
	viewer := f.user(t, "viewer", model.RoleMember)
	p := f.project(t, owner, "Apollo")
	f.addMember(t, owner, p.ID, viewer, model.RoleViewer)
	task := f.task(t, owner, p.Lists[0].ID, "Launch")
	_, err := f.svc.AddComment(f.ctx, owner, task.ID, "bye")
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.DeleteTask(f.ctx, viewer, task.ID), ErrAccessDenied)
	require.NoError(t, f.svc.DeleteTask(f.ctx, owner, task.ID))

	_, err = f.svc.GetTask(f.ctx, owner, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	var comments int64
	require.NoError(t, f.db.Model(&model.Comment{}).Where("task_id = ?", task.ID).Count(&comments).Error)
	assert.Zero(t, comments)
}

func TestListProjectTasksFilters(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner", model.RoleMember)
	bob := f.user(t, "bob", model.RoleMember)
	p := f.project(t, owner, "Apollo")
	f.addMember(t, owner, p.ID, bob, model.RoleMember)

	a, err := f.svc.CreateTask(f.ctx, owner, TaskCreate{ListID: p.Lists[0].ID, Title: "a", AssigneeID: &bob.UserID})
	require.NoError(t, err)
	b, err := f.svc.CreateTask(f.ctx, owner, TaskCreate{ListID: p.Lists[1].ID, Title: "b", PriorityID: ptr(model.TaskPriorityHigh)})
	require.NoError(t, err)
	c := f.task(t, owner, p.Lists[0].ID, "c")
	_, err = f.svc.CompleteTask(f.ctx, owner, c.ID)
	require.NoError(t, err)

	all, err := f.svc.ListProjectTasks(f.ctx, bob, p.ID, TaskFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// a and b share position 1, ties by id
	assert.Equal(t, []uint{a.ID, b.ID, c.ID}, []uint{all[0].ID, all[1].ID, all[2].ID})

	byAssignee, err := f.svc.ListProjectTasks(f.ctx, bob, p.ID, TaskFilter{AssigneeID: &bob.UserID})
	require.NoError(t, err)
	require.Len(t, byAssignee, 1)
	assert.Equal(t, a.ID, byAssignee[0].ID)

	byPriority, err := f.svc.ListProjectTasks(f.ctx, bob, p.ID, TaskFilter{PriorityID: ptr(model.TaskPriorityHigh)})
	require.NoError(t, err)
	require.Len(t, byPriority, 1)
	assert.Equal(t, b.ID, byPriority[0].ID)

	byStatus, err := f.svc.ListProjectTasks(f.ctx, bob, p.ID, TaskFilter{StatusID: ptr(model.TaskStatusDone)})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, c.ID, byStatus[0].ID)
}

func TestOverdueTasksAndCounts(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner", model.RoleMember)
	p := f.project(t, owner, "Apollo")
	now := f.svc.now()
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	overdue, err := f.svc.CreateTask(f.ctx, owner, TaskCreate{ListID: p.Lists[0].ID, Title: "late", AssigneeID: &owner.UserID, DueDate: &past})
	require.NoError(t, err)
	_, err = f.svc.CreateTask(f.ctx, owner, TaskCreate{ListID: p.Lists[0].ID, Title: "fine", AssigneeID: &owner.UserID, DueDate: &future})
	require.NoError(t, err)
	_, err = f.svc.CreateTask(f.ctx, owner, TaskCreate{ListID: p.Lists[0].ID, Title: "nobody", DueDate: &past})
	require.NoError(t, err)
	done, err := f.svc.CreateTask(f.ctx, owner, TaskCreate{ListID: p.Lists[0].ID, Title: "done", AssigneeID: &owner.UserID, DueDate: &past})
	require.NoError(t, err)
	_, err = f.svc.CompleteTask(f.ctx, owner, done.ID)
	require.NoError(t, err)

	tasks, err := f.svc.OverdueTasks(f.ctx, now)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, overdue.ID, tasks[0].ID)
	require.NotNil(t, tasks[0].Assignee)
	require.NotNil(t, tasks[0].Project)

	counts, err := f.svc.CountTasksByStatus(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"todo": 3, "in_progress": 0, "done": 1}, counts)
}

func TestComments(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner", model.RoleMember)
	bob := f.user(t, "bob", model.RoleMember)
	carol := f.user(t, "carol", model.RoleMember)
	viewer := f.user(t, "viewer", model.RoleMember)
	p := f.project(t, owner, "Apollo")
	f.addMember(t, owner, p.ID, bob, model.RoleMember)
	f.addMember(t, owner, p.ID, carol, model.RoleMember)
	f.addMember(t, owner, p.ID, viewer, model.RoleViewer)
	task := f.task(t, owner, p.Lists[0].ID, "Launch")

	_, err := f.svc.AddComment(f.ctx, viewer, task.ID, "hi")
	assert.ErrorIs(t, err, ErrAccessDenied)
	_, err = f.svc.AddComment(f.ctx, bob, task.ID, "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	c, err := f.svc.AddComment(f.ctx, bob, task.ID, "looks good")
	require.NoError(t, err)
	assert.Equal(t, "bob", c.User.Name)

	comments, err := f.svc.ListComments(f.ctx, viewer, task.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)

	assert.ErrorIs(t, f.svc.DeleteComment(f.ctx, carol, c.ID), ErrAccessDenied)
	require.NoError(t, f.svc.DeleteComment(f.ctx, owner, c.ID))
	assert.ErrorIs(t, f.svc.DeleteComment(f.ctx, bob, c.ID), ErrNotFound)
}
