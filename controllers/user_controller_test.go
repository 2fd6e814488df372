// file: controllers/user_controller_test.go
package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"NovaCTF/models"
	"NovaCTF/services"
	"NovaCTF/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Challenge{},
		&models.Submission{},
		&models.SubmissionLog{},
		&models.UserBadge{},
	))
	return db
}

func newUserController(db *gorm.DB) *UserController {
	return NewUserController(db, nil, services.NewBadgeService(db), services.NewLeaderboardService(db, nil))
}

func newTestContext(t *testing.T, method string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, "/", nil)
	return c, w
}

func decodeResp(t *testing.T, w *httptest.ResponseRecorder) utils.Response {
	t.Helper()
	var resp utils.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestDeleteUserSoftRemoval(t *testing.T) {
	db := newTestDB(t)
	ctl := newUserController(db)

	user := models.User{Username: "target", Password: "password123", Email: "target@example.com"}
	require.NoError(t, db.Create(&user).Error)

	c, w := newTestContext(t, http.MethodDelete)
	c.Params = gin.Params{{Key: "id", Value: strconv.Itoa(int(user.ID))}}
	ctl.DeleteUser(c)

	resp := decodeResp(t, w)
	assert.Equal(t, 0, resp.Code)

	// 软删除：行仍在，状态置为 banned，历史与分数不受影响
	var kept models.User
	require.NoError(t, db.First(&kept, user.ID).Error)
	assert.Equal(t, models.StatusBanned, kept.Status)
}

func TestDeleteUserNotFound(t *testing.T) {
	db := newTestDB(t)
	ctl := newUserController(db)

	c, w := newTestContext(t, http.MethodDelete)
	c.Params = gin.Params{{Key: "id", Value: "9999"}}
	ctl.DeleteUser(c)

	resp := decodeResp(t, w)
	assert.Equal(t, 4004, resp.Code)
}

// 名次查询失败时个人详情仍可用，rank 字段整体省略而不是伪造成 0
func TestGetUserDetailRankLookupFailure(t *testing.T) {
	db := newTestDB(t)

	// 排行榜服务挂在一个已关闭的库上，名次查询必然失败
	brokenDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	brokenSQL, err := brokenDB.DB()
	require.NoError(t, err)
	require.NoError(t, brokenSQL.Close())

	ctl := NewUserController(db, nil, services.NewBadgeService(db), services.NewLeaderboardService(brokenDB, nil))

	user := models.User{Username: "lonely", Password: "password123", Email: "lonely@example.com"}
	require.NoError(t, db.Create(&user).Error)

	c, w := newTestContext(t, http.MethodGet)
	c.Params = gin.Params{{Key: "id", Value: strconv.Itoa(int(user.ID))}}
	c.Set("user_id", user.ID)
	c.Set("user_role", models.RoleUser)
	ctl.GetUserDetail(c)

	resp := decodeResp(t, w)
	assert.Equal(t, 0, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "lonely", data["username"])
	_, hasRank := data["rank"]
	assert.False(t, hasRank)
}
