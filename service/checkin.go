package service

import (
	"time"

	"pixelvault/gallery-api/model"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CheckInResult struct {
	User             *model.User
	AlreadyCheckedIn bool
	Streak           int
	Granted          int64
}

// CheckIn performs the once-per-calendar-day check-in. A repeat call on
// the same local day is not an error, it just reports AlreadyCheckedIn
// and writes nothing.
func CheckIn(db *gorm.DB, user *model.User, now time.Time) (*CheckInResult, error) {
	if user.LastCheckIn != nil && SameDay(time.UnixMilli(*user.LastCheckIn).In(now.Location()), now) {
		return &CheckInResult{
			User:             user,
			AlreadyCheckedIn: true,
			Streak:           user.CheckInStreak,
		}, nil
	}

	bonus := viper.GetInt64("quota.checkin_bonus")
	nowMs := now.UnixMilli()

	user.CheckInStreak++
	user.BonusStorage += bonus
	user.LastCheckIn = &nowMs

	if err := db.Save(user).Error; err != nil {
		return nil, err
	}

	zap.L().Info("User checked in",
		zap.String("userID", user.ID),
		zap.Int("streak", user.CheckInStreak))

	return &CheckInResult{
		User:    user,
		Streak:  user.CheckInStreak,
		Granted: bonus,
	}, nil
}
