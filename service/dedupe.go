package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"pixelvault/gallery-api/model"
	"pixelvault/gallery-api/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Checksum is the payload identity used for duplicate detection. Hashing
// once at upload time turns the per-upload duplicate probe into an indexed
// equality lookup instead of a byte-for-byte scan of the whole gallery.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// IsDuplicate reports whether the user already owns an item with an
// identical payload
func IsDuplicate(db *gorm.DB, userID, checksum string) (bool, error) {
	var count int64

	err := db.
		Model(model.MediaItem{}).
		Where("user_id = ? AND checksum = ?", userID, checksum).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

type DuplicateGroup struct {
	Checksum  string            `json:"-"`
	Keep      model.MediaItem   `json:"keep"`
	Redundant []model.MediaItem `json:"redundant"`
}

// FindDuplicates is the deep-scan half of deduplication: it groups a
// user's media by payload identity and reports every item after the first
// of each group. Nothing is deleted here; the caller decides.
func FindDuplicates(db *gorm.DB, userID string) ([]DuplicateGroup, error) {
	var items []model.MediaItem

	err := db.
		Select("id, user_id, type, title, blob_key, size, checksum, timestamp").
		Where("user_id = ?", userID).
		Order("timestamp asc, id asc").
		Find(&items).
		Error
	if err != nil {
		return nil, err
	}

	byChecksum := map[string]int{}
	var groups []DuplicateGroup

	for _, item := range items {
		idx, seen := byChecksum[item.Checksum]
		if !seen {
			byChecksum[item.Checksum] = len(groups)
			groups = append(groups, DuplicateGroup{Checksum: item.Checksum, Keep: item})
			continue
		}
		groups[idx].Redundant = append(groups[idx].Redundant, item)
	}

	out := groups[:0]
	for _, g := range groups {
		if len(g.Redundant) > 0 {
			out = append(out, g)
		}
	}

	return out, nil
}

// CleanDuplicates deletes every redundant item found by FindDuplicates and
// returns the removed IDs and the bytes freed
func CleanDuplicates(db *gorm.DB, store *storage.S3Store, userID string) ([]uint, int64, error) {
	groups, err := FindDuplicates(db, userID)
	if err != nil {
		return nil, 0, err
	}

	var ids []uint
	var blobKeys []string
	var freed int64

	for _, g := range groups {
		for _, item := range g.Redundant {
			ids = append(ids, item.ID)
			freed += item.Size
			if item.BlobKey != "" {
				blobKeys = append(blobKeys, item.BlobKey)
			}
		}
	}

	if len(ids) == 0 {
		return nil, 0, nil
	}

	err = db.
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(model.MediaItem{}).
		Error
	if err != nil {
		return nil, 0, err
	}

	if store != nil {
		store.Delete(context.Background(), blobKeys...)
	}

	zap.L().Info("Duplicates cleaned",
		zap.String("userID", userID),
		zap.Int("removed", len(ids)),
		zap.Int64("freed", freed))

	return ids, freed, nil
}

// FactoryReset unconditionally deletes every media item the user owns,
// independent of quota state. The ledger is left untouched.
func FactoryReset(db *gorm.DB, store *storage.S3Store, userID string) error {
	var blobKeys []string

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Model(model.MediaItem{}).
			Where("user_id = ? AND blob_key <> ''", userID).
			Pluck("blob_key", &blobKeys).
			Error; err != nil {
			return err
		}

		return tx.
			Where("user_id = ?", userID).
			Delete(model.MediaItem{}).
			Error
	})
	if err != nil {
		return err
	}

	if store != nil {
		store.Delete(context.Background(), blobKeys...)
	}

	zap.L().Warn("Factory reset performed", zap.String("userID", userID))
	return nil
}
