package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/raids-lab/taskflow/dao/model"
	"github.com/raids-lab/taskflow/internal/resputil"
	"github.com/raids-lab/taskflow/internal/util"
	"github.com/raids-lab/taskflow/pkg/logutils"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewAuthMgr)
}

type AuthMgr struct {
	name     string
	db       *gorm.DB
	tokenMgr *util.TokenManager
}

func NewAuthMgr(conf *RegisterConfig) Manager {
	return &AuthMgr{
		name:     "auth",
		db:       conf.DB,
		tokenMgr: conf.TokenMgr,
	}
}

func (mgr *AuthMgr) GetName() string { return mgr.name }

func (mgr *AuthMgr) RegisterPublic(g *gin.RouterGroup) {
	g.POST("/register", mgr.Register)
	g.POST("/login", mgr.Login)
	g.POST("/refresh", mgr.RefreshToken)
}

func (mgr *AuthMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("/me", mgr.Me)
}

func (mgr *AuthMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type (
	RegisterReq struct {
		Username string  `json:"username" binding:"required,min=2,max=64"`
		Password string  `json:"password" binding:"required,min=6"`
		Email    *string `json:"email" binding:"omitempty,email"`
		Nickname *string `json:"nickname"`
	}

	LoginReq struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	LoginResp struct {
		AccessToken  string      `json:"accessToken"`
		RefreshToken string      `json:"refreshToken"`
		User         *model.User `json:"user"`
	}
)

// Register godoc
// @Summary Register a new account
// @Description Create a user with the member platform role (admin for the first account) and return a token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param data body RegisterReq true "account"
// @Success 201 {object} resputil.Response[LoginResp] "created"
// @Failure 400 {object} resputil.Response[any] "invalid request"
// @Failure 409 {object} resputil.Response[any] "username taken"
// @Router /v1/auth/register [post]
func (mgr *AuthMgr) Register(c *gin.Context) {
	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	name := strings.TrimSpace(req.Username)
	l := logutils.Log.WithFields(logutils.Fields{"username": name})

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		l.Error("hash password: ", err)
		resputil.Error(c, "internal server error", resputil.NotSpecified)
		return
	}

	user := model.User{
		Name:     name,
		Password: string(hash),
		Role:     model.RoleMember,
		Status:   model.StatusActive,
		Attributes: datatypes.NewJSONType(model.UserAttribute{
			Email:    req.Email,
			Nickname: req.Nickname,
		}),
	}
	err = mgr.db.WithContext(c).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return gorm.ErrDuplicatedKey
		}
		// the first account of a fresh installation administers the platform
		if err := tx.Model(&model.User{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			user.Role = model.RoleAdmin
		}
		return tx.Create(&user).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		resputil.HTTPError(c, http.StatusConflict, fmt.Sprintf("user %s already exists", name), resputil.UserExists)
		return
	}
	if err != nil {
		l.Error("create user: ", err)
		resputil.Error(c, "internal server error", resputil.NotSpecified)
		return
	}

	l.Info("user registered")
	resp, err := mgr.issueTokens(&user)
	if err != nil {
		resputil.Error(c, "internal server error", resputil.NotSpecified)
		return
	}
	resputil.Created(c, resp)
}

// Login godoc
// @Summary Log in
// @Description Check the password and return an access and a refresh token
// @Tags Auth
// @Accept json
// @Produce json
// @Param data body LoginReq true "credentials"
// @Success 200 {object} resputil.Response[LoginResp] "logged in"
// @Failure 400 {object} resputil.Response[any] "invalid request"
// @Failure 401 {object} resputil.Response[any] "wrong username or password"
// @Router /v1/auth/login [post]
func (mgr *AuthMgr) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	l := logutils.Log.WithFields(logutils.Fields{"username": req.Username})

	var user model.User
	err := mgr.db.WithContext(c).Where("name = ?", req.Username).Take(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		l.Error(err)
		resputil.Error(c, "internal server error", resputil.NotSpecified)
		return
	}
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		l.Warn("invalid credentials")
		resputil.HTTPError(c, http.StatusUnauthorized, "Invalid credentials", resputil.InvalidCredentials)
		return
	}
	if user.Status != model.StatusActive {
		l.Warn("user is not active")
		resputil.HTTPError(c, http.StatusUnauthorized, "User is not active", resputil.UserInactive)
		return
	}

	resp, err := mgr.issueTokens(&user)
	if err != nil {
		resputil.Error(c, "internal server error", resputil.NotSpecified)
		return
	}
	resputil.Success(c, resp)
}

type (
	RefreshReq struct {
		RefreshToken string `json:"refreshToken" binding:"required"` // without the `Bearer ` prefix
	}

	RefreshResp struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
)

// RefreshToken godoc
// @Summary Refresh tokens
// @Description Exchange a refresh token for a new token pair carrying the current platform role
// @Tags Auth
// @Accept json
// @Produce json
// @Param data body RefreshReq true "refresh token"
// @Success 200 {object} resputil.Response[RefreshResp] "new tokens"
// @Failure 401 {object} resputil.Response[any] "invalid refresh token"
// @Router /v1/auth/refresh [post]
func (mgr *AuthMgr) RefreshToken(c *gin.Context) {
	var request RefreshReq
	if err := c.ShouldBindJSON(&request); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	claims, err := mgr.tokenMgr.CheckRefreshToken(request.RefreshToken)
	if err != nil {
		resputil.HTTPError(c, http.StatusUnauthorized, "Invalid refresh token", resputil.TokenInvalid)
		return
	}

	var user model.User
	if err := mgr.db.WithContext(c).Take(&user, claims.UserID).Error; err != nil || user.Status != model.StatusActive {
		resputil.HTTPError(c, http.StatusUnauthorized, "User not found", resputil.TokenInvalid)
		return
	}

	resp, err := mgr.issueTokens(&user)
	if err != nil {
		resputil.Error(c, "internal server error", resputil.NotSpecified)
		return
	}
	resputil.Success(c, RefreshResp{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	})
}

// Me godoc
// @Summary Current user
// @Description Return the authenticated user
// @Tags Auth
// @Produce json
// @Security Bearer
// @Success 200 {object} resputil.Response[model.User] "current user"
// @Failure 404 {object} resputil.Response[any] "user deleted"
// @Router /v1/auth/me [get]
func (mgr *AuthMgr) Me(c *gin.Context) {
	token := util.GetToken(c)
	var user model.User
	if err := mgr.db.WithContext(c).Take(&user, token.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resputil.HTTPError(c, http.StatusNotFound, "User not found", resputil.NotFound)
			return
		}
		resputil.Error(c, "internal server error", resputil.NotSpecified)
		return
	}
	resputil.Success(c, user)
}

func (mgr *AuthMgr) issueTokens(user *model.User) (*LoginResp, error) {
	accessToken, refreshToken, err := mgr.tokenMgr.CreateTokens(&util.JWTMessage{
		UserID:       user.ID,
		Username:     user.Name,
		RolePlatform: user.Role,
	})
	if err != nil {
		return nil, err
	}
	return &LoginResp{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}
