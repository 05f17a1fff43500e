package service

import (
	"context"
	"testing"
	"time"

	"pixelvault/gallery-api/model"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func uploadFiles(titles ...string) []UploadFile {
	files := make([]UploadFile, 0, len(titles))
	for _, title := range titles {
		files = append(files, UploadFile{
			Title:       title,
			Type:        "image",
			ContentType: "image/png",
			Data:        []byte("payload-" + title),
		})
	}
	return files
}

func storedTitles(t *testing.T, db *gorm.DB, userID string) []string {
	t.Helper()

	var items []model.MediaItem
	require.NoError(t, db.Where("user_id = ?", userID).Order("id asc").Find(&items).Error)

	titles := make([]string, 0, len(items))
	for _, item := range items {
		titles = append(titles, item.Title)
	}
	return titles
}

func TestSchedulePartitionAndOrder(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)

	s := NewScheduler(db, nil)
	defer s.Shutdown()

	u := newTestUser(t, db, "batch", 0, nil)
	files := uploadFiles("f1", "f2", "f3", "f4", "f5")

	res, err := s.Schedule(context.Background(), u, files)
	require.NoError(t, err)

	// Immediate lane handles exactly the first two, the rest is queued
	require.Equal(t, 2, res.Processed)
	require.Equal(t, 3, res.Queued)
	require.Equal(t, 5, res.Total)
	require.Len(t, res.Created, 2)
	require.Equal(t, []string{"f1", "f2"}, storedTitles(t, db, u.ID))

	require.Eventually(t, func() bool {
		_, pending := s.Pending(u.ID)
		return !pending
	}, 3*time.Second, 10*time.Millisecond)

	// The queued lane kept the original order
	require.Equal(t, []string{"f1", "f2", "f3", "f4", "f5"}, storedTitles(t, db, u.ID))
}

func TestScheduleDuplicateSkip(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)

	s := NewScheduler(db, nil)
	defer s.Shutdown()

	u := newTestUser(t, db, "dupbatch", 0, nil)
	payload := []byte("identical payload")
	addMedia(t, db, u.ID, "existing", payload)

	usedBefore, err := StorageUsed(db, u.ID)
	require.NoError(t, err)

	res, err := s.Schedule(context.Background(), u, []UploadFile{
		{Title: "same-again", Type: "image", Data: payload},
	})
	require.NoError(t, err)

	// Skipped, counted, but still advances progress
	require.Equal(t, 1, res.Duplicates)
	require.Equal(t, 1, res.Processed)
	require.Empty(t, res.Created)

	usedAfter, err := StorageUsed(db, u.ID)
	require.NoError(t, err)
	require.Equal(t, usedBefore, usedAfter)
}

func TestScheduleAdmissionPerFile(t *testing.T) {
	setTestConfig(t)
	viper.Set("quota.base_storage", 20)
	db := newTestDB(t)

	s := NewScheduler(db, nil)
	defer s.Shutdown()

	u := newTestUser(t, db, "tight", 0, nil)

	// 12 bytes each against a 20 byte quota: the first fits, the second
	// no longer does because the first already consumed its share
	res, err := s.Schedule(context.Background(), u, []UploadFile{
		{Title: "fits", Type: "image", Data: []byte("abcdefghijkl")},
		{Title: "too-big", Type: "image", Data: []byte("mnopqrstuvwx")},
	})
	require.NoError(t, err)

	require.Len(t, res.Created, 1)
	require.Equal(t, []string{"too-big"}, res.Rejected)
	require.Equal(t, []string{"fits"}, storedTitles(t, db, u.ID))
}

func TestScheduleExactFitAdmitted(t *testing.T) {
	setTestConfig(t)
	viper.Set("quota.base_storage", 12)
	db := newTestDB(t)

	s := NewScheduler(db, nil)
	defer s.Shutdown()

	u := newTestUser(t, db, "exact", 0, nil)

	res, err := s.Schedule(context.Background(), u, []UploadFile{
		{Title: "exact-fit", Type: "image", Data: []byte("abcdefghijkl")},
	})
	require.NoError(t, err)
	require.Len(t, res.Created, 1)
	require.Empty(t, res.Rejected)
}

func TestScheduleSecondBatchRejected(t *testing.T) {
	setTestConfig(t)
	viper.Set("upload.queue_delay", 5)
	db := newTestDB(t)

	s := NewScheduler(db, nil)
	defer s.Shutdown()

	u := newTestUser(t, db, "busy", 0, nil)

	_, err := s.Schedule(context.Background(), u, uploadFiles("a", "b", "c"))
	require.NoError(t, err)

	// The queued lane is still counting down
	_, err = s.Schedule(context.Background(), u, uploadFiles("d"))
	require.ErrorIs(t, err, ErrBatchPending)

	// A different user is unaffected
	other := newTestUser(t, db, "idle", 0, nil)
	_, err = s.Schedule(context.Background(), other, uploadFiles("e"))
	require.NoError(t, err)
}

func TestSchedulePendingSnapshot(t *testing.T) {
	setTestConfig(t)
	viper.Set("upload.queue_delay", 5)
	db := newTestDB(t)

	s := NewScheduler(db, nil)
	defer s.Shutdown()

	u := newTestUser(t, db, "watcher", 0, nil)

	_, err := s.Schedule(context.Background(), u, uploadFiles("a", "b", "c", "d"))
	require.NoError(t, err)

	snap, ok := s.Pending(u.ID)
	require.True(t, ok)
	require.Equal(t, []string{"c", "d"}, snap.Queued)
	require.Equal(t, 4, snap.Total)
	require.Equal(t, 2, snap.Processed)
	require.LessOrEqual(t, snap.Countdown, 5)

	_, ok = s.Pending("nobody")
	require.False(t, ok)
}
