// file: services/testutil_test.go
package services

import (
	"fmt"
	"testing"
	"time"

	"NovaCTF/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 建一个进程内 sqlite 库。限制单连接，避免 :memory: 按连接隔离
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

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		Username:    username,
		Password:    "password123",
		Email:       username + "@example.com",
		DisplayName: username,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createChallenge(t *testing.T, db *gorm.DB, title string, category models.ChallengeCategory, points uint, flag string, active bool) models.Challenge {
	t.Helper()
	ch := models.Challenge{
		Title:       title,
		Description: "test challenge " + title,
		Category:    category,
		Difficulty:  models.ChallengeDifficultyEasy,
		Points:      points,
		Flag:        flag,
		IsActive:    active,
	}
	require.NoError(t, db.Create(&ch).Error)
	return ch
}

// recordSolve 直接写入一条正确提交并同步用户分数，供视图类测试铺数据
func recordSolve(t *testing.T, db *gorm.DB, user models.User, ch models.Challenge, at time.Time) {
	t.Helper()
	sub := models.Submission{
		UserID:        user.ID,
		ChallengeID:   ch.ID,
		SubmittedFlag: ch.Flag,
		IsCorrect:     true,
		SubmittedAt:   at,
	}
	require.NoError(t, db.Create(&sub).Error)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		UpdateColumn("score", gorm.Expr("score + ?", ch.Points)).Error)
}

func reloadUser(t *testing.T, db *gorm.DB, id uint32) models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, id).Error)
	return user
}

func uniqueTitle(prefix string, i int) string {
	return fmt.Sprintf("%s-%d", prefix, i)
}
