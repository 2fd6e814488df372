// file: services/leaderboard_service_test.go
package services

import (
	"context"
	"testing"
	"time"

	"NovaCTF/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLeaderboardOrderingAndTotality(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db, nil)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")
	dave := createUser(t, db, "dave") // 零分用户也必须在榜

	base := time.Now().Add(-time.Hour)
	c1 := createChallenge(t, db, "b1", models.CategoryWeb, 100, "CTF{b1}", true)
	c2 := createChallenge(t, db, "b2", models.CategoryPwn, 100, "CTF{b2}", true)

	// alice 与 bob 同为 200 分；bob 先达到，应排前
	recordSolve(t, db, bob, c1, base)
	recordSolve(t, db, bob, c2, base.Add(5*time.Minute))
	recordSolve(t, db, alice, c1, base.Add(10*time.Minute))
	recordSolve(t, db, alice, c2, base.Add(20*time.Minute))
	recordSolve(t, db, carol, c1, base.Add(30*time.Minute))

	entries, err := svc.GetLeaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.Equal(t, bob.ID, entries[0].UserID)
	assert.Equal(t, alice.ID, entries[1].UserID)
	assert.Equal(t, carol.ID, entries[2].UserID)
	assert.Equal(t, dave.ID, entries[3].UserID)

	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank)
	}
	assert.Equal(t, 2, entries[0].SolvedCount)
	assert.Equal(t, 1, entries[2].SolvedCount)
	assert.Equal(t, 0, entries[3].SolvedCount)
	assert.Equal(t, uint(0), entries[3].Score)
}

func TestGetLeaderboardZeroScoreTieBreaksByID(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db, nil)

	u1 := createUser(t, db, "zed1")
	u2 := createUser(t, db, "zed2")

	entries, err := svc.GetLeaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, u1.ID, entries[0].UserID)
	assert.Equal(t, u2.ID, entries[1].UserID)
}

func TestGetUserRank(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db, nil)
	ctx := context.Background()

	leader := createUser(t, db, "leader")
	chaser := createUser(t, db, "chaser")
	ch := createChallenge(t, db, "rank", models.CategoryMisc, 100, "CTF{rank}", true)
	recordSolve(t, db, leader, ch, time.Now().Add(-time.Minute))

	rank, err := svc.GetUserRank(ctx, chaser.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, rank)

	_, err = svc.GetUserRank(ctx, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetChallengeSolversFirstBlood(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db, nil)
	ctx := context.Background()

	ch := createChallenge(t, db, "fb", models.CategoryCrypto, 100, "CTF{fb}", true)
	base := time.Now().Add(-time.Hour)

	var want []uint32
	for i := 0; i < 4; i++ {
		u := createUser(t, db, uniqueTitle("solver", i))
		// 乱序写入，时间决定名次
		recordSolve(t, db, u, ch, base.Add(time.Duration((i*7)%11)*time.Minute))
		want = append(want, u.ID)
	}
	// 期望顺序按解题时间：i=0 (+0m), i=2 (+3m), i=1 (+7m), i=3 (+10m)
	expected := []uint32{want[0], want[2], want[1], want[3]}

	solvers, err := svc.GetChallengeSolvers(ctx, ch.ID, 0)
	require.NoError(t, err)
	require.Len(t, solvers, 4)
	for i, s := range solvers {
		assert.Equal(t, expected[i], s.UserID)
	}
	assert.True(t, solvers[0].SolvedAt.Before(solvers[1].SolvedAt))
}

func TestGetChallengeSolversLimit(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db, nil)
	ctx := context.Background()

	ch := createChallenge(t, db, "crowded", models.CategoryWeb, 10, "CTF{crowd}", true)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 15; i++ {
		u := createUser(t, db, uniqueTitle("mass", i))
		recordSolve(t, db, u, ch, base.Add(time.Duration(i)*time.Minute))
	}

	// 默认截断 10 条
	solvers, err := svc.GetChallengeSolvers(ctx, ch.ID, 0)
	require.NoError(t, err)
	assert.Len(t, solvers, 10)

	solvers, err = svc.GetChallengeSolvers(ctx, ch.ID, 3)
	require.NoError(t, err)
	assert.Len(t, solvers, 3)
}

func TestGetChallengeSolversUnknownChallenge(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db, nil)

	_, err := svc.GetChallengeSolvers(context.Background(), 777, 10)
	assert.ErrorIs(t, err, ErrChallengeNotFound)
}

func TestGetChallengeSolversEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db, nil)

	ch := createChallenge(t, db, "lonely", models.CategoryReverse, 500, "CTF{none}", true)

	solvers, err := svc.GetChallengeSolvers(context.Background(), ch.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, solvers)
}
