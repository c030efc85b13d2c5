package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/raids-lab/taskflow/internal/resputil"
	"github.com/raids-lab/taskflow/internal/util"
	"github.com/raids-lab/taskflow/pkg/board"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewListMgr)
}

type ListMgr struct {
	name  string
	board *board.Service
}

func NewListMgr(conf *RegisterConfig) Manager {
	return &ListMgr{
		name:  "lists",
		board: conf.Board,
	}
}

func (mgr *ListMgr) GetName() string { return mgr.name }

func (mgr *ListMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *ListMgr) RegisterProtected(g *gin.RouterGroup) {
	g.PUT("/:lid", mgr.UpdateList)
	g.DELETE("/:lid", mgr.DeleteList)
	g.PATCH("/:lid/reorder", mgr.ReorderTasks)
}

func (mgr *ListMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type (
	UpdateListReq struct {
		Name     *string  `json:"name" binding:"omitempty,max=128"`
		Position *float64 `json:"position"`
		StatusID *uint    `json:"statusId"`
	}

	TaskOrderReq struct {
		TaskID   uint     `json:"taskId" binding:"required"`
		Position *float64 `json:"position" binding:"required"`
	}

	ReorderReq struct {
		TaskOrders []TaskOrderReq `json:"taskOrders" binding:"required,dive"`
	}
)

// UpdateList godoc
// @Summary Update a list
// @Tags List
// @Accept json
// @Produce json
// @Security Bearer
// @Param lid path uint true "list id"
// @Param data body UpdateListReq true "changes"
// @Success 200 {object} resputil.Response[model.TaskList] "updated"
// @Failure 403 {object} resputil.Response[any] "member role required"
// @Router /v1/lists/{lid} [put]
func (mgr *ListMgr) UpdateList(c *gin.Context) {
	var uri ListIDReq
	var req UpdateListReq
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	list, err := mgr.board.UpdateList(c, util.GetActor(c), uri.ListID, board.ListUpdate{
		Name:     req.Name,
		Position: req.Position,
		StatusID: req.StatusID,
	})
	if err != nil {
		resputil.BoardError(c, err)
		return
	}
	resputil.Success(c, list)
}

// DeleteList godoc
// @Summary Delete an empty list
// @Tags List
// @Produce json
// @Security Bearer
// @Param lid path uint true "list id"
// @Success 200 {object} resputil.Response[string] "deleted"
// @Failure 409 {object} resputil.Response[any] "list still has tasks"
// @Router /v1/lists/{lid} [delete]
func (mgr *ListMgr) DeleteList(c *gin.Context) {
	var uri ListIDReq
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if err := mgr.board.DeleteList(c, util.GetActor(c), uri.ListID); err != nil {
		resputil.BoardError(c, err)
		return
	}
	resputil.Success(c, "")
}

// ReorderTasks godoc
// @Summary Reorder tasks in a list
// @Description Applies all positions in one transaction. Tasks of other lists are skipped.
// @Tags List
// @Accept json
// @Produce json
// @Security Bearer
// @Param lid path uint true "list id"
// @Param data body ReorderReq true "new positions"
// @Success 200 {object} resputil.Response[model.TaskList] "list with reordered tasks"
// @Router /v1/lists/{lid}/reorder [patch]
func (mgr *ListMgr) ReorderTasks(c *gin.Context) {
	var uri ListIDReq
	var req ReorderReq
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	orders := lo.Map(req.TaskOrders, func(o TaskOrderReq, _ int) board.TaskOrder {
		return board.TaskOrder{TaskID: o.TaskID, Position: *o.Position}
	})
	list, err := mgr.board.ReorderTasks(c, util.GetActor(c), uri.ListID, orders)
	if err != nil {
		resputil.BoardError(c, err)
		return
	}
	resputil.Success(c, list)
}
