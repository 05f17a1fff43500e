package service

import (
	"testing"
	"time"

	"pixelvault/gallery-api/model"

	"github.com/stretchr/testify/require"
)

func TestCheckInFirstTime(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)

	u := newTestUser(t, db, "first", 0, nil)

	res, err := CheckIn(db, u, testNow)
	require.NoError(t, err)
	require.False(t, res.AlreadyCheckedIn)
	require.Equal(t, 1, res.Streak)
	require.Equal(t, int64(50), res.Granted)

	require.Equal(t, int64(50), u.BonusStorage)
	require.Equal(t, testNow.UnixMilli(), *u.LastCheckIn)
}

func TestCheckInSameDayIdempotent(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)

	u := newTestUser(t, db, "twice", 0, nil)

	_, err := CheckIn(db, u, testNow)
	require.NoError(t, err)

	firstLast := *u.LastCheckIn

	// Later the same calendar day: informational no-op
	res, err := CheckIn(db, u, testNow.Add(5*time.Hour))
	require.NoError(t, err)
	require.True(t, res.AlreadyCheckedIn)
	require.Equal(t, 1, res.Streak)
	require.Equal(t, int64(50), u.BonusStorage)
	require.Equal(t, firstLast, *u.LastCheckIn)

	var stored model.User
	require.NoError(t, db.First(&stored, "id = ?", u.ID).Error)
	require.Equal(t, 1, stored.CheckInStreak)
	require.Equal(t, int64(50), stored.BonusStorage)
}

func TestCheckInConsecutiveDays(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)

	u := newTestUser(t, db, "streak", 0, nil)

	for day := range 3 {
		res, err := CheckIn(db, u, testNow.AddDate(0, 0, day))
		require.NoError(t, err)
		require.False(t, res.AlreadyCheckedIn)
		require.Equal(t, day+1, res.Streak)
	}

	require.Equal(t, int64(150), u.BonusStorage)
}
