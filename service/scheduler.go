package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"pixelvault/gallery-api/model"
	"pixelvault/gallery-api/storage"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrBatchPending is returned when a user starts a new upload while a
// queued batch of theirs is still in flight. Queued batches share the
// pending-queue state, so overlapping runs are rejected outright.
var ErrBatchPending = errors.New("an upload batch is already pending")

const (
	outcomeStored = iota
	outcomeDuplicate
	outcomeRejected
)

// UploadFile is one selected file, fully read into memory
type UploadFile struct {
	Title       string
	Type        string // "image" or "video"
	ContentType string
	Data        []byte
}

// UploadResult describes the immediate lane of a batch. Queued counts how
// many files were deferred to the delayed lane.
type UploadResult struct {
	Created    []model.MediaItem `json:"created"`
	Duplicates int               `json:"duplicates"`
	Rejected   []string          `json:"rejected"`
	Processed  int               `json:"processed"`
	Total      int               `json:"total"`
	Queued     int               `json:"queued"`
}

// PendingSnapshot is the user-facing view of a queued batch
type PendingSnapshot struct {
	Queued     []string `json:"queued"`
	Countdown  int      `json:"countdown"`
	Processed  int      `json:"processed"`
	Total      int      `json:"total"`
	Duplicates int      `json:"duplicates"`
	Rejected   []string `json:"rejected"`
}

type batch struct {
	userID string
	files  []UploadFile

	mu         sync.Mutex
	queued     []string
	countdown  int
	processed  int
	total      int
	duplicates int
	rejected   []string
}

func (b *batch) bump(outcome int, title string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.processed++
	switch outcome {
	case outcomeDuplicate:
		b.duplicates++
	case outcomeRejected:
		b.rejected = append(b.rejected, title)
	}
}

func (b *batch) pop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.queued) > 0 {
		b.queued = b.queued[1:]
	}
}

func (b *batch) dec() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.countdown > 0 {
		b.countdown--
	}
	return b.countdown
}

func (b *batch) snapshot() *PendingSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	return &PendingSnapshot{
		Queued:     append([]string(nil), b.queued...),
		Countdown:  b.countdown,
		Processed:  b.processed,
		Total:      b.total,
		Duplicates: b.duplicates,
		Rejected:   append([]string(nil), b.rejected...),
	}
}

// Scheduler splits upload batches into an immediate lane, processed before
// the request returns, and a delayed queued lane paced by timers. At most
// one queued batch may be in flight per user.
type Scheduler struct {
	db    *gorm.DB
	store *storage.S3Store

	mu      sync.Mutex
	batches map[string]*batch

	ctx    context.Context
	cancel context.CancelFunc
}

func NewScheduler(db *gorm.DB, store *storage.S3Store) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		db:      db,
		store:   store,
		batches: make(map[string]*batch),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Shutdown abandons every in-flight queued batch. Files not yet processed
// are simply never persisted; there is no resumption across restarts.
func (s *Scheduler) Shutdown() {
	s.cancel()
}

// Pending returns the state of the user's queued batch, if any
func (s *Scheduler) Pending(userID string) (*PendingSnapshot, bool) {
	s.mu.Lock()
	b, ok := s.batches[userID]
	s.mu.Unlock()

	if !ok {
		return nil, false
	}
	return b.snapshot(), true
}

// Schedule partitions files into the two lanes and processes the immediate
// one before returning. Files are handled strictly in input order in both
// lanes; every file ends up stored, skipped as a duplicate, or rejected by
// admission control, and each of those advances the progress counter.
func (s *Scheduler) Schedule(ctx context.Context, user *model.User, files []UploadFile) (*UploadResult, error) {
	res := &UploadResult{Total: len(files)}
	if len(files) == 0 {
		return res, nil
	}

	k := viper.GetInt("upload.immediate_count")
	if k > len(files) {
		k = len(files)
	}

	var b *batch

	s.mu.Lock()
	if _, pending := s.batches[user.ID]; pending {
		s.mu.Unlock()
		return nil, ErrBatchPending
	}
	if len(files) > k {
		b = &batch{
			userID:    user.ID,
			files:     files[k:],
			total:     len(files),
			countdown: viper.GetInt("upload.queue_delay"),
		}
		for _, f := range b.files {
			b.queued = append(b.queued, f.Title)
		}
		s.batches[user.ID] = b
	}
	s.mu.Unlock()

	for _, f := range files[:k] {
		outcome, item, err := s.processOne(ctx, user, f)
		if err != nil {
			if b != nil {
				s.drop(user.ID)
			}
			return res, err
		}

		res.Processed++
		if b != nil {
			b.bump(outcome, f.Title)
		}

		switch outcome {
		case outcomeStored:
			res.Created = append(res.Created, *item)
		case outcomeDuplicate:
			res.Duplicates++
		case outcomeRejected:
			res.Rejected = append(res.Rejected, f.Title)
		}
	}

	if b != nil {
		res.Queued = len(b.files)
		go s.run(b)
	}

	return res, nil
}

func (s *Scheduler) drop(userID string) {
	s.mu.Lock()
	delete(s.batches, userID)
	s.mu.Unlock()
}

// run drives the queued lane: wait out the initial delay while ticking the
// countdown for user feedback, then process the files in order with an
// inter-file pause after each one except the last.
func (s *Scheduler) run(b *batch) {
	defer s.drop(b.userID)

	if !s.waitInitial(b) {
		zap.L().Debug("Queued batch abandoned during countdown", zap.String("userID", b.userID))
		return
	}

	delay := time.Duration(viper.GetInt("upload.file_delay")) * time.Second

	for i, f := range b.files {
		// Re-read the user so bonus changes (a check-in, another
		// reconciliation) are visible to this admission check
		var user model.User
		if err := s.db.First(&user, "id = ?", b.userID).Error; err != nil {
			zap.L().Error("Failed to load user for queued upload", zap.Error(err), zap.String("userID", b.userID))
			return
		}

		outcome, _, err := s.processOne(s.ctx, &user, f)
		if err != nil {
			zap.L().Error("Queued upload failed, abandoning remaining files", zap.Error(err), zap.String("userID", b.userID))
			return
		}

		b.pop()
		b.bump(outcome, f.Title)

		if i < len(b.files)-1 && delay > 0 {
			t := time.NewTimer(delay)
			select {
			case <-s.ctx.Done():
				t.Stop()
				return
			case <-t.C:
			}
		}
	}
}

func (s *Scheduler) waitInitial(b *batch) bool {
	b.mu.Lock()
	remaining := b.countdown
	b.mu.Unlock()

	if remaining <= 0 {
		return true
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return false
		case <-ticker.C:
			if b.dec() <= 0 {
				return true
			}
		}
	}
}

// processOne runs a single file through duplicate detection, admission
// control and persistence. Duplicate and rejected are terminal non-error
// outcomes; only storage failures surface as errors.
func (s *Scheduler) processOne(ctx context.Context, user *model.User, f UploadFile) (int, *model.MediaItem, error) {
	sum := Checksum(f.Data)

	dup, err := IsDuplicate(s.db, user.ID, sum)
	if err != nil {
		return 0, nil, err
	}
	if dup {
		zap.L().Debug("Duplicate upload skipped",
			zap.String("userID", user.ID),
			zap.String("title", f.Title))
		return outcomeDuplicate, nil, nil
	}

	used, err := StorageUsed(s.db, user.ID)
	if err != nil {
		return 0, nil, err
	}

	size := int64(len(f.Data))
	if !Admit(used, size, EffectiveQuota(user)) {
		zap.L().Info("Upload rejected by admission control",
			zap.String("userID", user.ID),
			zap.String("title", f.Title),
			zap.Int64("used", used),
			zap.Int64("size", size))
		return outcomeRejected, nil, nil
	}

	item := &model.MediaItem{
		UserID:    user.ID,
		Type:      f.Type,
		Title:     f.Title,
		Size:      size,
		Checksum:  sum,
		Timestamp: time.Now().UnixMilli(),
	}

	if s.store != nil {
		key, err := s.store.Put(ctx, f.Data, f.ContentType)
		if err != nil {
			return 0, nil, err
		}
		item.BlobKey = key
	} else {
		item.Data = f.Data
	}

	if err := s.db.Create(item).Error; err != nil {
		if s.store != nil && item.BlobKey != "" {
			s.store.Delete(context.Background(), item.BlobKey)
		}
		return 0, nil, err
	}

	return outcomeStored, item, nil
}
