package util

import (
	"errors"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/raids-lab/taskflow/dao/model"
	"github.com/raids-lab/taskflow/pkg/config"
	"github.com/raids-lab/taskflow/pkg/logutils"
)

const (
	tokenKindAccess  = "access"
	tokenKindRefresh = "refresh"
)

var ErrWrongTokenKind = errors.New("wrong token kind")

type (
	JWTClaims struct {
		UserID       uint       `json:"ui"`
		Username     string     `json:"un"`
		RolePlatform model.Role `json:"rp"`
		Kind         string     `json:"tk"`
		jwt.RegisteredClaims
	}
	JWTMessage struct {
		UserID       uint       `json:"userID"`       // User ID
		Username     string     `json:"username"`     // Username
		RolePlatform model.Role `json:"rolePlatform"` // Role in platform (viewer, member, admin)
	}
)

type TokenManager struct {
	secretKey       string
	accessTokenTTL  int
	refreshTokenTTL int
}

var (
	once     sync.Once
	tokenMgr *TokenManager
)

func GetTokenMgr() *TokenManager {
	once.Do(func() {
		auth := config.GetConfig().Auth
		tokenMgr = NewTokenManager(auth.AccessTokenSecret,
			auth.AccessTokenExpiryHour,
			auth.RefreshTokenExpiryHour,
		)
	})
	return tokenMgr
}

func NewTokenManager(secretKey string, accessTokenTTL, refreshTokenTTL int) *TokenManager {
	return &TokenManager{
		secretKey,
		accessTokenTTL,
		refreshTokenTTL,
	}
}

func (tm *TokenManager) createToken(msg *JWTMessage, kind string, ttl int) (string, error) {
	expiresAt := time.Now().Add(time.Hour * time.Duration(ttl))

	claims := &JWTClaims{
		UserID:       msg.UserID,
		Username:     msg.Username,
		RolePlatform: msg.RolePlatform,
		Kind:         kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(tm.secretKey))
}

// CreateTokens creates a new access token and a new refresh token
func (tm *TokenManager) CreateTokens(msg *JWTMessage) (
	accessToken string, refreshToken string, err error) {
	accessToken, err = tm.createToken(msg, tokenKindAccess, tm.accessTokenTTL)
	if err != nil {
		logutils.Log.Error(err)
		return "", "", err
	}
	refreshToken, err = tm.createToken(msg, tokenKindRefresh, tm.refreshTokenTTL)
	if err != nil {
		logutils.Log.Error(err)
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// CheckToken validates an access token.
func (tm *TokenManager) CheckToken(requestToken string) (JWTMessage, error) {
	return tm.check(requestToken, tokenKindAccess)
}

// CheckRefreshToken validates a refresh token.
func (tm *TokenManager) CheckRefreshToken(requestToken string) (JWTMessage, error) {
	return tm.check(requestToken, tokenKindRefresh)
}

func (tm *TokenManager) check(requestToken, kind string) (JWTMessage, error) {
	claims := JWTClaims{}
	_, err := jwt.ParseWithClaims(requestToken, &claims, func(_ *jwt.Token) (any, error) {
		return []byte(tm.secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return JWTMessage{}, err
	}
	if claims.Kind != kind {
		return JWTMessage{}, ErrWrongTokenKind
	}
	return JWTMessage{
		UserID:       claims.UserID,
		Username:     claims.Username,
		RolePlatform: claims.RolePlatform,
	}, nil
}
