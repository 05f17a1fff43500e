package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"pixelvault/gallery-api/model"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named in-memory database with a shared cache, so every
	// connection in gorm's pool sees the same data
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.User{}, model.MediaItem{}))

	return db
}

func setTestConfig(t *testing.T) {
	t.Helper()

	viper.Set("quota.base_storage", 1000)
	viper.Set("quota.checkin_bonus", 50)
	viper.Set("quota.miss_penalty", 100)
	viper.Set("upload.immediate_count", 2)
	viper.Set("upload.queue_delay", 0)
	viper.Set("upload.file_delay", 0)
}

func newTestUser(t *testing.T, db *gorm.DB, id string, bonus int64, lastCheckIn *time.Time) *model.User {
	t.Helper()

	u := &model.User{
		ID:           id,
		Email:        id + "@example.com",
		PasswordHash: "x",
		BonusStorage: bonus,
		CreatedAt:    time.Now().Unix(),
	}
	if lastCheckIn != nil {
		ms := lastCheckIn.UnixMilli()
		u.LastCheckIn = &ms
	}

	require.NoError(t, db.Create(u).Error)
	return u
}

func addMedia(t *testing.T, db *gorm.DB, userID string, title string, data []byte) *model.MediaItem {
	t.Helper()

	item := &model.MediaItem{
		UserID:    userID,
		Type:      "image",
		Title:     title,
		Data:      data,
		Size:      int64(len(data)),
		Checksum:  Checksum(data),
		Timestamp: time.Now().UnixMilli(),
	}
	require.NoError(t, db.Create(item).Error)

	return item
}

func TestEffectiveQuota(t *testing.T) {
	setTestConfig(t)

	tests := []struct {
		name  string
		bonus int64
		want  int64
	}{
		{"no bonus", 0, 1000},
		{"positive bonus", 250, 1250},
		{"negative bonus", -300, 700},
		{"penalized below zero quota", -1500, -500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &model.User{BonusStorage: tt.bonus}
			require.Equal(t, tt.want, EffectiveQuota(u))
		})
	}
}

func TestStorageUsed(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)

	u := newTestUser(t, db, "user1", 0, nil)
	other := newTestUser(t, db, "user2", 0, nil)

	addMedia(t, db, u.ID, "a", make([]byte, 100))
	addMedia(t, db, u.ID, "b", make([]byte, 250))
	addMedia(t, db, other.ID, "c", make([]byte, 999))

	used, err := StorageUsed(db, u.ID)
	require.NoError(t, err)
	require.Equal(t, int64(350), used)

	used, err = StorageUsed(db, "nobody")
	require.NoError(t, err)
	require.Zero(t, used)
}

func TestUsagePercentage(t *testing.T) {
	require.Equal(t, float64(50), UsagePercentage(500, 1000))
	require.Equal(t, float64(100), UsagePercentage(1000, 1000))

	// Clamped for display, usage can transiently exceed the quota
	require.Equal(t, float64(100), UsagePercentage(1500, 1000))
	require.Equal(t, float64(100), UsagePercentage(0, 0))
	require.Equal(t, float64(100), UsagePercentage(10, -50))
}

func TestAdmitBoundary(t *testing.T) {
	// Exactly filling the quota is allowed, one byte over is not
	require.True(t, Admit(900, 100, 1000))
	require.False(t, Admit(900, 101, 1000))
	require.True(t, Admit(0, 1000, 1000))
	require.False(t, Admit(1000, 1, 1000))
}
