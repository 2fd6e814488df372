// file: services/activity_service_test.go
package services

import (
	"context"
	"testing"
	"time"

	"NovaCTF/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRecentActivityMergeFairness(t *testing.T) {
	db := newTestDB(t)
	svc := NewActivityService(db, nil)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	// 解题者的注册时间放在窗口之外，不干扰合并断言
	solver := models.User{
		Username:    "active-solver",
		Password:    "password123",
		Email:       "active-solver@example.com",
		DisplayName: "active-solver",
		CreatedAt:   base.Add(-24 * time.Hour),
	}
	require.NoError(t, db.Create(&solver).Error)

	// 5 条解题与 5 条注册按时间交错：注册在奇数分钟，解题在偶数分钟
	for i := 0; i < 5; i++ {
		u := models.User{
			Username:    uniqueTitle("newbie", i),
			Password:    "password123",
			Email:       uniqueTitle("newbie", i) + "@example.com",
			DisplayName: uniqueTitle("newbie", i),
			CreatedAt:   base.Add(time.Duration(2*i+1) * time.Minute),
		}
		require.NoError(t, db.Create(&u).Error)
	}
	for i := 0; i < 5; i++ {
		ch := createChallenge(t, db, uniqueTitle("feed", i), models.CategoryWeb, 10, uniqueTitle("CTF{feed}", i), true)
		recordSolve(t, db, solver, ch, base.Add(time.Duration(2*i)*time.Minute))
	}

	// limit=5 必须取跨两个来源的最新 5 条，而不是最新 5 条解题
	entries, err := svc.GetRecentActivity(ctx, 5)
	require.NoError(t, err)
	require.Len(t, entries, 5)

	// 最新事件是 +9m 的注册，然后 +8m 解题、+7m 注册、+6m 解题、+5m 注册
	wantTypes := []ActivityType{ActivityRegister, ActivitySolve, ActivityRegister, ActivitySolve, ActivityRegister}
	for i, e := range entries {
		assert.Equal(t, wantTypes[i], e.Type, "entry %d", i)
	}
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].OccurredAt.After(entries[i-1].OccurredAt))
	}
}

func TestGetRecentActivityEntryContents(t *testing.T) {
	db := newTestDB(t)
	svc := NewActivityService(db, nil)
	ctx := context.Background()

	user := createUser(t, db, "feedster")
	ch := createChallenge(t, db, "feed-item", models.CategoryPwn, 75, "CTF{feed-item}", true)
	recordSolve(t, db, user, ch, time.Now().Add(-time.Minute))

	entries, err := svc.GetRecentActivity(ctx, 10)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	// 解题事件应带题目与分值摘要
	var solve *ActivityEntry
	for i := range entries {
		if entries[i].Type == ActivitySolve {
			solve = &entries[i]
			break
		}
	}
	require.NotNil(t, solve)
	assert.Equal(t, user.ID, solve.UserID)
	assert.Equal(t, "feedster", solve.Username)
	assert.Equal(t, ch.ID, solve.ChallengeID)
	assert.Equal(t, "feed-item", solve.ChallengeTitle)
	assert.Equal(t, uint(75), solve.Points)

	// 注册事件紧随其后（注册早于解题）
	var register *ActivityEntry
	for i := range entries {
		if entries[i].Type == ActivityRegister {
			register = &entries[i]
			break
		}
	}
	require.NotNil(t, register)
	assert.Equal(t, "feedster", register.Username)
}

func TestGetRecentActivityTruncation(t *testing.T) {
	db := newTestDB(t)
	svc := NewActivityService(db, nil)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		createUser(t, db, uniqueTitle("bulk", i))
	}

	entries, err := svc.GetRecentActivity(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	// limit<=0 回退默认值
	entries, err = svc.GetRecentActivity(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 8)
}
