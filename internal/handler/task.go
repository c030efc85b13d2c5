package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/raids-lab/taskflow/internal/resputil"
	"github.com/raids-lab/taskflow/internal/util"
	"github.com/raids-lab/taskflow/pkg/board"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewTaskMgr)
}

type TaskMgr struct {
	name  string
	board *board.Service
}

func NewTaskMgr(conf *RegisterConfig) Manager {
	return &TaskMgr{
		name:  "tasks",
		board: conf.Board,
	}
}

func (mgr *TaskMgr) GetName() string { return mgr.name }

func (mgr *TaskMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *TaskMgr) RegisterProtected(g *gin.RouterGroup) {
	g.POST("", mgr.CreateTask)
	g.GET("/:tid", mgr.GetTask)
	g.PUT("/:tid", mgr.UpdateTask)
	g.DELETE("/:tid", mgr.DeleteTask)
	g.PATCH("/:tid/move", mgr.MoveTask)
	g.PATCH("/:tid/complete", mgr.CompleteTask)

	g.GET("/:tid/comments", mgr.ListComments)
	g.POST("/:tid/comments", mgr.AddComment)
	g.DELETE("/comments/:cid", mgr.DeleteComment)
}

func (mgr *TaskMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type (
	CreateTaskReq struct {
		ListID      uint       `json:"listId" binding:"required"`
		Title       string     `json:"title" binding:"required,max=255"`
		Description *string    `json:"description"`
		PriorityID  *uint      `json:"priorityId"`
		AssigneeID  *uint      `json:"assigneeId"`
		DueDate     *time.Time `json:"dueDate"`
	}

	UpdateTaskReq struct {
		Title        *string    `json:"title" binding:"omitempty,max=255"`
		Description  *string    `json:"description"`
		StatusID     *uint      `json:"statusId"`
		PriorityID   *uint      `json:"priorityId"`
		AssigneeID   *uint      `json:"assigneeId"` // 0 unassigns
		DueDate      *time.Time `json:"dueDate"`
		ClearDueDate bool       `json:"clearDueDate"`
	}

	MoveTaskReq struct {
		TargetListID uint     `json:"targetListId" binding:"required"`
		Position     *float64 `json:"position" binding:"required"`
	}

	CommentReq struct {
		Content string `json:"content" binding:"required"`
	}
)

// CreateTask godoc
// @Summary Create a task
// @Description Appended to the end of the list with status todo
// @Tags Task
// @Accept json
// @Produce json
// @Security Bearer
// @Param data body CreateTaskReq true "task"
// @Success 201 {object} resputil.Response[model.Task] "created"
// @Failure 400 {object} resputil.Response[any] "invalid request or assignee"
// @Failure 403 {object} resputil.Response[any] "member role required"
// @Router /v1/tasks [post]
func (mgr *TaskMgr) CreateTask(c *gin.Context) {
	var req CreateTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	task, err := mgr.board.CreateTask(c, util.GetActor(c), board.TaskCreate{
		ListID:      req.ListID,
		Title:       req.Title,
		Description: req.Description,
		PriorityID:  req.PriorityID,
		AssigneeID:  req.AssigneeID,
		DueDate:     req.DueDate,
	})
	if err != nil {
		resputil.BoardError(c, err)
		return
	}
	resputil.Created(c, task)
}

// GetTask godoc
// @Summary Get a task
// @Description Task with list, project, status, priority, people and comments
// @Tags Task
// @Produce json
// @Security Bearer
// @Param tid path uint true "task id"
// @Success 200 {object} resputil.Response[model.Task] "task"
// @Failure 404 {object} resputil.Response[any] "not found"
// @Router /v1/tasks/{tid} [get]
func (mgr *TaskMgr) GetTask(c *gin.Context) {
	var uri TaskIDReq
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	task, err := mgr.board.GetTask(c, util.GetActor(c), uri.TaskID)
	if err != nil {
		resputil.BoardError(c, err)
		return
	}
	resputil.Success(c, task)
}

// UpdateTask godoc
// @Summary Update a task
// @Tags Task
// @Accept json
// @Produce json
// @Security Bearer
// @Param tid path uint true "task id"
// @Param data body UpdateTaskReq true "changes"
// @Success 200 {object} resputil.Response[model.Task] "updated"
// @Router /v1/tasks/{tid} [put]
func (mgr *TaskMgr) UpdateTask(c *gin.Context) {
	var uri TaskIDReq
	var req UpdateTaskReq
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	task, err := mgr.board.UpdateTask(c, util.GetActor(c), uri.TaskID, board.TaskUpdate{
		Title:        req.Title,
		Description:  req.Description,
		StatusID:     req.StatusID,
		PriorityID:   req.PriorityID,
		AssigneeID:   req.AssigneeID,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDueDate,
	})
	if err != nil {
		resputil.BoardError(c, err)
		return
	}
	resputil.Success(c, task)
}

// DeleteTask godoc
// @Summary Delete a task
// @Tags Task
// @Produce json
// @Security Bearer
// @Param tid path uint true "task id"
// @Success 200 {object} resputil.Response[string] "deleted"
// @Router /v1/tasks/{tid} [delete]
func (mgr *TaskMgr) DeleteTask(c *gin.Context) {
	var uri TaskIDReq
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if err := mgr.board.DeleteTask(c, util.GetActor(c), uri.TaskID); err != nil {
		resputil.BoardError(c, err)
		return
	}
	resputil.Success(c, "")
}

// MoveTask godoc
// @Summary Move a task
// @Description Puts the task into a list at the given position
// @Tags Task
// @Accept json
// @Produce json
// @Security Bearer
// @Param tid path uint true "task id"
// @Param data body MoveTaskReq true "target"
// @Success 200 {object} resputil.Response[model.Task] "moved"
// @Router /v1/tasks/{tid}/move [patch]
func (mgr *TaskMgr) MoveTask(c *gin.Context) {
	var uri TaskIDReq
	var req MoveTaskReq
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	task, err := mgr.board.MoveTask(c, util.GetActor(c), uri.TaskID, req.TargetListID, *req.Position)
	if err != nil {
		resputil.BoardError(c, err)
		return
	}
	resputil.Success(c, task)
}

// CompleteTask godoc
// @Summary Complete a task
// @Description Sets status done and stamps the completion time
// @Tags Task
// @Produce json
// @Security Bearer
// @Param tid path uint true "task id"
// @Success 200 {object} resputil.Response[model.Task] "completed"
// @Router /v1/tasks/{tid}/complete [patch]
func (mgr *TaskMgr) CompleteTask(c *gin.Context) {
	var uri TaskIDReq
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	task, err := mgr.board.CompleteTask(c, util.GetActor(c), uri.TaskID)
	if err != nil {
		resputil.BoardError(c, err)
		return
	}
	resputil.Success(c, task)
}

// ListComments godoc
// @Summary Comments of a task
// @Tags Comment
// @Produce json
// @Security Bearer
// @Param tid path uint true "task id"
// @Success 200 {object} resputil.Response[[]model.Comment] "comments, oldest first"
// @Router /v1/tasks/{tid}/comments [get]
func (mgr *TaskMgr) ListComments(c *gin.Context) {
	var uri TaskIDReq
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	comments, err := mgr.board.ListComments(c, util.GetActor(c), uri.TaskID)
	if err != nil {
		resputil.BoardError(c, err)
		return
	}
	resputil.Success(c, comments)
}

// AddComment godoc
// @Summary Comment on a task
// @Tags Comment
// @Accept json
// @Produce json
// @Security Bearer
// @Param tid path uint true "task id"
// @Param data body CommentReq true "comment"
// @Success 201 {object} resputil.Response[model.Comment] "created"
// @Router /v1/tasks/{tid}/comments [post]
func (mgr *TaskMgr) AddComment(c *gin.Context) {
	var uri TaskIDReq
	var req CommentReq
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	comment, err := mgr.board.AddComment(c, util.GetActor(c), uri.TaskID, req.Content)
	if err != nil {
		resputil.BoardError(c, err)
		return
	}
	resputil.Created(c, comment)
}

// DeleteComment godoc
// @Summary Delete a comment
// @Description The author or a project admin
// @Tags Comment
// @Produce json
// @Security Bearer
// @Param cid path uint true "comment id"
// @Success 200 {object} resputil.Response[string] "deleted"
// @Router /v1/tasks/comments/{cid} [delete]
func (mgr *TaskMgr) DeleteComment(c *gin.Context) {
	var uri CommentIDReq
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if err := mgr.board.DeleteComment(c, util.GetActor(c), uri.CommentID); err != nil {
		resputil.BoardError(c, err)
		return
	}
	resputil.Success(c, "")
}
