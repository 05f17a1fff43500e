// Package service implements the quota ledger, the daily reconciliation
// engine and the upload pipeline sitting between the HTTP handlers and
// the database.
package service

import (
	"pixelvault/gallery-api/model"

	"github.com/spf13/viper"
	"gorm.io/gorm"
)

// BaseQuota returns the configured storage allowance every account starts
// with, in bytes.
func BaseQuota() int64 {
	return viper.GetInt64("quota.base_storage")
}

// EffectiveQuota is the base quota plus the user's signed bonus balance.
// It is deliberately not clamped at zero: a balance penalized below the
// current usage is exactly what triggers the wipe path in reconciliation.
func EffectiveQuota(u *model.User) int64 {
	return BaseQuota() + u.BonusStorage
}

// StorageUsed sums the recorded sizes of every media item the user owns
func StorageUsed(db *gorm.DB, userID string) (int64, error) {
	var used int64

	err := db.
		Model(model.MediaItem{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(size), 0)").
		Scan(&used).
		Error
	if err != nil {
		return 0, err
	}

	return used, nil
}

// UsagePercentage is clamped at 100 for display only. Actual usage can
// nominally exceed the quota between penalty accrual and reconciliation.
func UsagePercentage(used, quota int64) float64 {
	if quota <= 0 {
		return 100
	}

	pct := float64(used) / float64(quota) * 100
	if pct > 100 {
		return 100
	}

	return pct
}

// Admit decides whether a payload of the given size fits under the quota.
// The check runs freshly per file, so space consumed by earlier files in
// the same batch is already reflected in used.
func Admit(used, size, quota int64) bool {
	return used+size <= quota
}
