package model

type MediaItem struct {
	ID     uint   `gorm:"primaryKey;autoIncrement;index" json:"id"`
	UserID string `gorm:"index" json:"-"`

	Type  string `json:"type"` // "image" or "video"
	Title string `json:"title"`

	// Payload bytes when storage.type is "inline". Empty when the payload
	// was offloaded to a bucket, in which case BlobKey is set.
	Data    []byte `json:"-"`
	BlobKey string `json:"-"`

	// Byte size captured from the payload at upload time. This is the
	// authoritative quota figure, never recomputed from the row.
	Size int64 `json:"size"`

	// Hex SHA-256 of the payload, used for duplicate detection
	Checksum string `gorm:"index" json:"-"`

	// Unix millisecond timestamp
	Timestamp int64 `gorm:"not null" json:"timestamp"`
}
