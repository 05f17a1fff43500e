package service

import (
	"context"
	"fmt"
	"time"

	"pixelvault/gallery-api/model"
	"pixelvault/gallery-api/storage"
	"pixelvault/gallery-api/util"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dayMillis = int64(24 * time.Hour / time.Millisecond)

type ReconcileResult struct {
	User       *model.User
	MediaReset bool
	MissedDays int
	Penalty    int64
	Notice     string
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether the two instants fall on the same local calendar day
func SameDay(a, b time.Time) bool {
	return dayStart(a).Equal(dayStart(b))
}

// Reconcile settles the gap between now and the user's last check-in. It
// runs once per session resume (app load or login) and is the only place
// penalties are applied:
//
//   - gap of 0 or 1 calendar days: grace period, nothing happens
//   - gap of 2+ days: every fully elapsed day except the most recent one
//     counts as a miss and costs quota.miss_penalty bytes of bonus storage
//   - if the shrunken limit no longer covers what the user has stored, all
//     of their media is deleted and the ledger starts over
//
// On the penalty path the last check-in advances by exactly the penalized
// day count rather than to now, so running reconciliation twice over the
// same gap never double-charges.
func Reconcile(db *gorm.DB, store *storage.S3Store, user *model.User, now time.Time) (*ReconcileResult, error) {
	res := &ReconcileResult{User: user}

	if user.LastCheckIn == nil {
		return res, nil
	}

	last := time.UnixMilli(*user.LastCheckIn).In(now.Location())
	diffDays := int(dayStart(now).Sub(dayStart(last)) / (24 * time.Hour))

	if diffDays <= 1 {
		return res, nil
	}

	missed := diffDays - 1
	penalty := int64(missed) * viper.GetInt64("quota.miss_penalty")
	potentialBonus := user.BonusStorage - penalty
	potentialLimit := BaseQuota() + potentialBonus

	used, err := StorageUsed(db, user.ID)
	if err != nil {
		return nil, err
	}

	res.MissedDays = missed
	res.Penalty = penalty

	if used > potentialLimit {
		// Wipe path: the shrunken allowance no longer covers the stored
		// data. Rows and ledger reset together in one transaction; blobs
		// go afterwards since the rows are what quota accounting reads.
		var blobKeys []string

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.
				Model(model.MediaItem{}).
				Where("user_id = ? AND blob_key <> ''", user.ID).
				Pluck("blob_key", &blobKeys).
				Error; err != nil {
				return err
			}

			if err := tx.
				Where("user_id = ?", user.ID).
				Delete(model.MediaItem{}).
				Error; err != nil {
				return err
			}

			nowMs := now.UnixMilli()
			user.BonusStorage = 0
			user.CheckInStreak = 0
			user.LastCheckIn = &nowMs

			return tx.Save(user).Error
		})
		if err != nil {
			return nil, err
		}

		if store != nil {
			store.Delete(context.Background(), blobKeys...)
		}

		res.MediaReset = true
		res.Notice = fmt.Sprintf(
			"You missed %d day(s) of check-ins and the %s penalty shrank your storage below the %s you were using. All media was removed and your bonus storage was reset.",
			missed, util.FormatBytes(penalty), util.FormatBytes(used))

		zap.L().Warn("Media wiped during reconciliation",
			zap.String("userID", user.ID),
			zap.Int("missedDays", missed),
			zap.Int64("usedSpace", used),
			zap.Int64("potentialLimit", potentialLimit))

		return res, nil
	}

	// Penalty path
	newLast := *user.LastCheckIn + int64(missed)*dayMillis

	user.BonusStorage = potentialBonus
	user.CheckInStreak = 0
	user.LastCheckIn = &newLast

	if err := db.Save(user).Error; err != nil {
		return nil, err
	}

	res.Notice = fmt.Sprintf(
		"You missed %d day(s) of check-ins. %s of bonus storage was deducted, your balance is now %s.",
		missed, util.FormatBytes(penalty), util.FormatBytes(user.BonusStorage))

	zap.L().Info("Missed-day penalty applied",
		zap.String("userID", user.ID),
		zap.Int("missedDays", missed),
		zap.Int64("penalty", penalty))

	return res, nil
}
