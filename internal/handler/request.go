package handler

import "github.com/raids-lab/taskflow/dao/model"

// Path parameters shared by the board handlers.
type (
	ProjectIDReq struct {
		ProjectID uint `uri:"pid" binding:"required"`
	}

	MemberIDReq struct {
		ProjectID uint `uri:"pid" binding:"required"`
		UserID    uint `uri:"uid" binding:"required"`
	}

	ListIDReq struct {
		ListID uint `uri:"lid" binding:"required"`
	}

	TaskIDReq struct {
		TaskID uint `uri:"tid" binding:"required"`
	}

	CommentIDReq struct {
		CommentID uint `uri:"cid" binding:"required"`
	}

	UserIDReq struct {
		UserID uint `uri:"uid" binding:"required"`
	}
)

type RoleReq struct {
	Role model.Role `json:"role" binding:"required"` // viewer, member or admin
}
