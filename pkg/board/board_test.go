package board

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/raids-lab/taskflow/dao/model"
	"github.com/raids-lab/taskflow/internal/testutil"
)

type invitation struct {
	user    string
	project string
	role    model.Role
}

type fakeNotifier struct {
	mu          sync.Mutex
	invitations []invitation
}

func (f *fakeNotifier) NotifyInvitation(_ context.Context, invitee *model.User, project *model.Project, role model.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invitations = append(f.invitations, invitation{user: invitee.Name, project: project.Name, role: role})
	return nil
}

func (f *fakeNotifier) NotifyOverdue(context.Context, *model.User, []model.Task) error { return nil }

type fixture struct {
	ctx      context.Context
	db       *gorm.DB
	svc      *Service
	notifier *fakeNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	notifier := &fakeNotifier{}
	svc := NewService(db, notifier)
	svc.now = func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) }
	return &fixture{ctx: context.Background(), db: db, svc: svc, notifier: notifier}
}

func (f *fixture) user(t *testing.T, name string, role model.Role) Actor {
	t.Helper()
	u := testutil.CreateUser(t, f.db, name, role)
	return Actor{UserID: u.ID, Role: u.Role}
}

func (f *fixture) project(t *testing.T, owner Actor, name string) *model.Project {
	t.Helper()
	p, err := f.svc.CreateProject(f.ctx, owner, ProjectCreate{Name: name})
	require.NoError(t, err)
	return p
}

func (f *fixture) addMember(t *testing.T, admin Actor, projectID uint, member Actor, role model.Role) {
	t.Helper()
	_, err := f.svc.AddMember(f.ctx, admin, projectID, member.UserID, role)
	require.NoError(t, err)
}

func (f *fixture) list(t *testing.T, actor Actor, projectID uint, name string) *model.TaskList {
	t.Helper()
	l, err := f.svc.CreateList(f.ctx, actor, projectID, ListCreate{Name: name})
	require.NoError(t, err)
	return l
}

func (f *fixture) task(t *testing.T, actor Actor, listID uint, title string) *model.Task {
	t.Helper()
	task, err := f.svc.CreateTask(f.ctx, actor, TaskCreate{ListID: listID, Title: title})
	require.NoError(t, err)
	return task
}

func ptr[T any](v T) *T { return &v }
