package services

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"learn-ease-backend/internal/logger"
	"learn-ease-backend/internal/storage"
)

// Sweeper periodically removes blobs no record references. Orphans appear when
// a compensating delete itself fails mid-ingestion or the process dies between
// a blob write and the metadata insert.
type Sweeper struct {
	store     *storage.FileStore
	books     BookRepo
	interval  time.Duration
	minAge    time.Duration
	scheduler *gocron.Scheduler
}

func NewSweeper(store *storage.FileStore, books BookRepo, interval, minAge time.Duration) *Sweeper {
	return &Sweeper{
		store:    store,
		books:    books,
		interval: interval,
		minAge:   minAge,
	}
}

// Start schedules the sweep in the background. Call Stop on shutdown.
func (s *Sweeper) Start() {
	s.scheduler = gocron.NewScheduler(time.UTC)
	s.scheduler.Every(s.interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		s.Sweep(ctx)
	})
	s.scheduler.StartAsync()
	logger.Info("Orphan blob sweeper started", "interval", s.interval.String(), "min_age", s.minAge.String())
}

func (s *Sweeper) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// Sweep runs one pass over both blob directories. A blob is removed only when
// it is older than the minimum age and no record references its key; the age
// guard keeps the sweep from racing an ingestion that has written the blob
// but not yet committed the record.
func (s *Sweeper) Sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.minAge)

	pdfs, err := s.store.ListPDFs()
	if err != nil {
		logger.Error("Sweep failed to list PDF blobs", "error", err)
	} else {
		s.sweepBlobs(ctx, pdfs, cutoff, s.store.RemovePDF)
	}

	texts, err := s.store.ListTexts()
	if err != nil {
		logger.Error("Sweep failed to list text blobs", "error", err)
	} else {
		s.sweepBlobs(ctx, texts, cutoff, s.store.RemoveText)
	}
}

func (s *Sweeper) sweepBlobs(ctx context.Context, blobs []storage.BlobInfo, cutoff time.Time, remove func(string) error) {
	for _, blob := range blobs {
		if ctx.Err() != nil {
			return
		}
		if blob.ModTime.After(cutoff) {
			continue
		}
		referenced, err := s.books.ExistsByStoredKey(ctx, blob.Key)
		if err != nil {
			logger.Error("Sweep lookup failed, keeping blob", "key", blob.Key, "error", err)
			continue
		}
		if referenced {
			continue
		}
		if err := remove(blob.Key); err != nil {
			logger.Error("Sweep failed to remove orphan blob", "key", blob.Key, "error", err)
			continue
		}
		logger.Info("Removed orphan blob", "key", blob.Key)
	}
}
