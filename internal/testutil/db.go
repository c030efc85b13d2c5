// Package testutil provides an in-memory database and fixtures for tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/raids-lab/taskflow/dao/model"
	"github.com/raids-lab/taskflow/dao/query"
)

// NewTestDB opens a private in-memory sqlite database with the schema
// migrated. The database is closed when the test ends.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, query.Migrate(db))
	return db
}

// Password is the plain text password of every user created by CreateUser.
const Password = "s3cret-pass"

// CreateUser inserts an active user with the given global role.
func CreateUser(t *testing.T, db *gorm.DB, name string, role model.Role) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	email := name + "@example.com"
	user := &model.User{
		Name:       name,
		Password:   string(hash),
		Role:       role,
		Status:     model.StatusActive,
		Attributes: datatypes.NewJSONType(model.UserAttribute{Email: &email}),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
