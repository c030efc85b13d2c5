package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/raids-lab/taskflow/dao/model"
	"github.com/raids-lab/taskflow/internal/resputil"
	"github.com/raids-lab/taskflow/internal/util"
	"github.com/raids-lab/taskflow/pkg/board"
	"github.com/raids-lab/taskflow/pkg/logutils"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewProjectMgr)
}

type ProjectMgr struct {
	name  string
	board *board.Service
}

func NewProjectMgr(conf *RegisterConfig) Manager {
	return &ProjectMgr{
		name:  "projects",
		board: conf.Board,
	}
}

func (mgr *ProjectMgr) GetName() string { return mgr.name }

func (mgr *ProjectMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *ProjectMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("", mgr.ListProjects)
	g.POST("", mgr.CreateProject)
	g.GET("/:pid", mgr.GetProject)
	g.PUT("/:pid", mgr.UpdateProject)
	g.DELETE("/:pid", mgr.DeleteProject)

	g.GET("/:pid/members", mgr.ListMembers)
	g.POST("/:pid/members", mgr.AddMember)
	g.PUT("/:pid/members/:uid", mgr.UpdateMemberRole)
	g.DELETE("/:pid/members/:uid", mgr.RemoveMember)

	g.GET("/:pid/lists", mgr.ListLists)
	g.POST("/:pid/lists", mgr.CreateList)
	g.GET("/:pid/tasks", mgr.ListTasks)
}

func (mgr *ProjectMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type (
	CreateProjectReq struct {
		Name        string  `json:"name" binding:"required,max=128"`
		Description *string `json:"description"`
	}

	UpdateProjectReq struct {
		Name        *string `json:"name" binding:"omitempty,max=128"`
		Description *string `json:"description"`
	}

	AddMemberReq struct {
		UserID uint       `json:"userId" binding:"required"`
		Role   model.Role `json:"role" binding:"required"`
	}

	CreateListReq struct {
		Name     string   `json:"name" binding:"required,max=128"`
		Position *float64 `json:"position"`
		StatusID *uint    `json:"statusId"`
	}

	ListTasksReq struct {
		StatusID   *uint `form:"status"`
		PriorityID *uint `form:"priority"`
		AssigneeID *uint `form:"assignee"`
	}
)

// ListProjects godoc
// @Summary List projects
// @Description Projects the user belongs to, newest first. Platform admins see all projects.
// @Tags Project
// @Produce json
// @Security Bearer
// @Success 200 {object} resputil.Response[[]model.Project] "projects"
// @Failure 500 {object} resputil.Response[any] "other errors"
// @Router /v1/projects [get]
func (mgr *ProjectMgr) ListProjects(c *gin.Context) {
	projects, err := mgr.board.ListProjects(c, util.GetActor(c))
	if err != nil {
		resputil.BoardError(c, err)
		return
	}
	resputil.Success(c, projects)
}

// CreateProject godoc
// @Summary Create a project
// @Description The caller becomes owner and admin member. The default lists are created.
// @Tags Project
// @Accept json
// @Produce json
// @Security Bearer
// @Param data body CreateProjectReq true "project"
// @Success 201 {object} resputil.Response[model.Project] "created"
// @Failure 400 {object} resputil.Response[any] "invalid request"
// @Router /v1/projects [post]
func (mgr *ProjectMgr) CreateProject(c *gin.Context) {
	var req CreateProjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	actor := util.GetActor(c)
	project, err := mgr.board.CreateProject(c, actor, board.ProjectCreate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		resputil.BoardError(c, err)
		return
	}
	logutils.Log.WithFields(logutils.Fields{
		"project": project.ID,
		"user":    actor.UserID,
	}).Info("project created")
	resputil.Created(c, project)
}

// GetProject godoc
// @Summary Get a project
// @Description Project with owner, members and lists
// @Tags Project
// @Produce json
// @Security Bearer
// @Param pid path uint true "project id"
// @Success 200 {object} resputil.Response[model.Project] "project"
// @Failure 403 {object} resputil.Response[any] "not a member"
// @Failure 404 {object} resputil.Response[any] "not found"
// @Router /v1/projects/{pid} [get]
func (mgr *ProjectMgr) GetProject(c *gin.Context) {
	var uri ProjectIDReq
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	project, err := mgr.board.GetProject(c, util.GetActor(c), uri.ProjectID)
	if err != nil {
		resputil.BoardError(c, err)
		return
	}
	resputil.Success(c, project)
}

// UpdateProject godoc
// @Summary Update a project
// @Description Project admins only
// @Tags Project
// @Accept json
// @Produce json
// @Security Bearer
// @Param pid path uint true "project id"
// @Param data body UpdateProjectReq true "changes"
// @Success 200 {object} resputil.Response[model.Project] "updated"
// @Failure 403 {object} resputil.Response[any] "not an admin"
// @Router /v1/projects/{pid} [put]
func (mgr *ProjectMgr) UpdateProject(c *gin.Context) {
	var uri ProjectIDReq
	var req UpdateProjectReq
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	project, err := mgr.board.UpdateProject(c, util.GetActor(c), uri.ProjectID, board.ProjectUpdate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		resputil.BoardError(c, err)
		return
	}
	resputil.Success(c, project)
}

// DeleteProject godoc
// @Summary Delete a project
// @Description Removes the project with its lists, tasks, comments and members
// @Tags Project
// @Produce json
// @Security Bearer
// @Param pid path uint true "project id"
// @Success 200 {object} resputil.Response[string] "deleted"
// @Failure 403 {object} resputil.Response[any] "not an admin"
// @Router /v1/projects/{pid} [delete]
func (mgr *ProjectMgr) DeleteProject(c *gin.Context) {
	var uri ProjectIDReq
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	actor := util.GetActor(c)
	if err := mgr.board.DeleteProject(c, actor, uri.ProjectID); err != nil {
		resputil.BoardError(c, err)
		return
	}
	logutils.Log.WithFields(logutils.Fields{
		"project": uri.ProjectID,
		"user":    actor.UserID,
	}).Info("project deleted")
	resputil.Success(c, "")
}

// ListMembers godoc
// @Summary List members
// @Tags Member
// @Produce json
// @Security Bearer
// @Param pid path uint true "project id"
// @Success 200 {object} resputil.Response[[]model.ProjectMember] "members"
// @Router /v1/projects/{pid}/members [get]
func (mgr *ProjectMgr) ListMembers(c *gin.Context) {
	var uri ProjectIDReq
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	members, err := mgr.board.ListMembers(c, util.GetActor(c), uri.ProjectID)
	if err != nil {
		resputil.BoardError(c, err)
		return
	}
	resputil.Success(c, members)
}

// AddMember godoc
// @Summary Invite a member
// @Description Project admins add a user with a role. The user is notified by mail when SMTP is enabled.
// @Tags Member
// @Accept json
// @Produce json
// @Security Bearer
// @Param pid path uint true "project id"
// @Param data body AddMemberReq true "member"
// @Success 201 {object} resputil.Response[model.ProjectMember] "added"
// @Failure 409 {object} resputil.Response[any] "already a member"
// @Router /v1/projects/{pid}/members [post]
func (mgr *ProjectMgr) AddMember(c *gin.Context) {
	var uri ProjectIDReq
	var req AddMemberReq
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	member, err := mgr.board.AddMember(c, util.GetActor(c), uri.ProjectID, req.UserID, req.Role)
	if err != nil {
		resputil.BoardError(c, err)
		return
	}
	resputil.Created(c, member)
}

// UpdateMemberRole godoc
// @Summary Change a member's role
// @Tags Member
// @Accept json
// @Produce json
// @Security Bearer
// @Param pid path uint true "project id"
// @Param uid path uint true "user id"
// @Param data body RoleReq true "role"
// @Success 200 {object} resputil.Response[model.ProjectMember] "updated"
// @Failure 409 {object} resputil.Response[any] "the owner stays admin"
// @Router /v1/projects/{pid}/members/{uid} [put]
func (mgr *ProjectMgr) UpdateMemberRole(c *gin.Context) {
	var uri MemberIDReq
	var req RoleReq
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	member, err := mgr.board.UpdateMemberRole(c, util.GetActor(c), uri.ProjectID, uri.UserID, req.Role)
	if err != nil {
		resputil.BoardError(c, err)
		return
	}
	resputil.Success(c, member)
}

// RemoveMember godoc
// @Summary Remove a member
// @Description The member's tasks in the project are unassigned
// @Tags Member
// @Produce json
// @Security Bearer
// @Param pid path uint true "project id"
// @Param uid path uint true "user id"
// @Success 200 {object} resputil.Response[string] "removed"
// @Router /v1/projects/{pid}/members/{uid} [delete]
func (mgr *ProjectMgr) RemoveMember(c *gin.Context) {
	var uri MemberIDReq
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if err := mgr.board.RemoveMember(c, util.GetActor(c), uri.ProjectID, uri.UserID); err != nil {
		resputil.BoardError(c, err)
		return
	}
	resputil.Success(c, "")
}

// ListLists godoc
// @Summary Board of a project
// @Description Lists ordered by position, each with its tasks ordered by position
// @Tags List
// @Produce json
// @Security Bearer
// @Param pid path uint true "project id"
// @Success 200 {object} resputil.Response[[]model.TaskList] "lists"
// @Router /v1/projects/{pid}/lists [get]
func (mgr *ProjectMgr) ListLists(c *gin.Context) {
	var uri ProjectIDReq
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	lists, err := mgr.board.ListLists(c, util.GetActor(c), uri.ProjectID)
	if err != nil {
		resputil.BoardError(c, err)
		return
	}
	resputil.Success(c, lists)
}

// CreateList godoc
// @Summary Create a list
// @Description Appended after the last list unless a position is given
// @Tags List
// @Accept json
// @Produce json
// @Security Bearer
// @Param pid path uint true "project id"
// @Param data body CreateListReq true "list"
// @Success 201 {object} resputil.Response[model.TaskList] "created"
// @Router /v1/projects/{pid}/lists [post]
func (mgr *ProjectMgr) CreateList(c *gin.Context) {
	var uri ProjectIDReq
	var req CreateListReq
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	list, err := mgr.board.CreateList(c, util.GetActor(c), uri.ProjectID, board.ListCreate{
		Name:     req.Name,
		Position: req.Position,
		StatusID: req.StatusID,
	})
	if err != nil {
		resputil.BoardError(c, err)
		return
	}
	resputil.Created(c, list)
}

// ListTasks godoc
// @Summary Tasks of a project
// @Description Optionally filtered by status, priority and assignee
// @Tags Task
// @Produce json
// @Security Bearer
// @Param pid path uint true "project id"
// @Param status query uint false "status id"
// @Param priority query uint false "priority id"
// @Param assignee query uint false "assignee user id"
// @Success 200 {object} resputil.Response[[]model.Task] "tasks"
// @Router /v1/projects/{pid}/tasks [get]
func (mgr *ProjectMgr) ListTasks(c *gin.Context) {
	var uri ProjectIDReq
	var req ListTasksReq
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	tasks, err := mgr.board.ListProjectTasks(c, util.GetActor(c), uri.ProjectID, board.TaskFilter{
		StatusID:   req.StatusID,
		PriorityID: req.PriorityID,
		AssigneeID: req.AssigneeID,
	})
	if err != nil {
		resputil.BoardError(c, err)
		return
	}
	resputil.Success(c, tasks)
}
