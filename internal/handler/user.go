package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/raids-lab/taskflow/dao/model"
	"github.com/raids-lab/taskflow/internal/resputil"
	"github.com/raids-lab/taskflow/pkg/logutils"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewUserMgr)
}

type UserMgr struct {
	name string
	db   *gorm.DB
}

func NewUserMgr(conf *RegisterConfig) Manager {
	return &UserMgr{
		name: "users",
		db:   conf.DB,
	}
}

func (mgr *UserMgr) GetName() string { return mgr.name }

func (mgr *UserMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *UserMgr) RegisterProtected(_ *gin.RouterGroup) {}

func (mgr *UserMgr) RegisterAdmin(g *gin.RouterGroup) {
	g.GET("", mgr.ListUser)
	g.PUT("/:uid/role", mgr.UpdateRole)
}

// ListUser godoc
// @Summary List users
// @Description All users, newest first
// @Tags User
// @Produce json
// @Security Bearer
// @Success 200 {object} resputil.Response[[]model.User] "users"
// @Failure 500 {object} resputil.Response[any] "other errors"
// @Router /v1/admin/users [get]
func (mgr *UserMgr) ListUser(c *gin.Context) {
	var users []model.User
	if err := mgr.db.WithContext(c).Order("id DESC").Find(&users).Error; err != nil {
		logutils.Log.Errorf("list users failed, detail: %v", err)
		resputil.Error(c, "internal server error", resputil.NotSpecified)
		return
	}
	resputil.Success(c, users)
}

// UpdateRole godoc
// @Summary Change a platform role
// @Tags User
// @Accept json
// @Produce json
// @Security Bearer
// @Param uid path uint true "user id"
// @Param data body RoleReq true "role"
// @Success 200 {object} resputil.Response[model.User] "updated"
// @Failure 400 {object} resputil.Response[any] "invalid role"
// @Failure 404 {object} resputil.Response[any] "user not found"
// @Router /v1/admin/users/{uid}/role [put]
func (mgr *UserMgr) UpdateRole(c *gin.Context) {
	var uri UserIDReq
	var req RoleReq
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if !req.Role.Valid() {
		resputil.BadRequestError(c, fmt.Sprintf("invalid role %s", req.Role))
		return
	}

	var user model.User
	if err := mgr.db.WithContext(c).Take(&user, uri.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resputil.HTTPError(c, http.StatusNotFound, fmt.Sprintf("user %d not found", uri.UserID), resputil.NotFound)
			return
		}
		resputil.Error(c, "internal server error", resputil.NotSpecified)
		return
	}
	if err := mgr.db.WithContext(c).Model(&user).Update("role", req.Role).Error; err != nil {
		logutils.Log.Errorf("update user role failed, detail: %v", err)
		resputil.Error(c, "internal server error", resputil.NotSpecified)
		return
	}
	user.Role = req.Role

	logutils.Log.Infof("update user role success, user: %s, role: %s", user.Name, req.Role)
	resputil.Success(c, user)
}
