package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"househunt/internal/model"
	"househunt/internal/repository"
)

const (
	actionBatchSize     = 10
	actionFlushInterval = 1 * time.Second
)

// ActionLogger writes booking decisions to the audit ledger asynchronously.
// A nil repository makes it a no-op, used when no database is configured.
type ActionLogger struct {
	repo    repository.BookingActionRepository
	logger  *slog.Logger
	entries chan model.BookingAction
	done    chan struct{}
	once    sync.Once
}

// NewActionLogger starts the background writer. Call Close to flush it.
func NewActionLogger(repo repository.BookingActionRepository, logger *slog.Logger) *ActionLogger {
	if logger == nil {
		logger = slog.Default()
	}
	l := &ActionLogger{
		repo:   repo,
		logger: logger,
		done:   make(chan struct{}),
	}
	if repo == nil {
		close(l.done)
		return l
	}
	l.entries = make(chan model.BookingAction, 100)
	go l.logWorker(context.Background())
	return l
}

// Enabled reports whether entries are persisted.
func (l *ActionLogger) Enabled() bool { return l != nil && l.repo != nil }

// Record queues an entry. When the queue is full the entry is written
// synchronously.
func (l *ActionLogger) Record(ctx context.Context, action model.BookingAction) {
	if !l.Enabled() {
		return
	}
	if action.CreatedAt.IsZero() {
		action.CreatedAt = time.Now()
	}
	select {
	case l.entries <- action:
	default:
		if err := l.repo.Create(ctx, &action); err != nil {
			l.logger.Error("audit write failed", "booking_id", action.BookingID, "error", err)
		}
	}
}

// Recent returns the newest ledger entries.
func (l *ActionLogger) Recent(ctx context.Context, limit int) ([]model.BookingAction, error) {
	if !l.Enabled() {
		return []model.BookingAction{}, nil
	}
	return l.repo.ListRecent(ctx, limit)
}

// History returns the ledger entries of one booking, oldest first.
func (l *ActionLogger) History(ctx context.Context, bookingID string) ([]model.BookingAction, error) {
	if !l.Enabled() {
		return []model.BookingAction{}, nil
	}
	return l.repo.ListByBooking(ctx, bookingID)
}

// Close stops accepting entries and waits for the pending batch to be written.
// Record must not be called after Close.
func (l *ActionLogger) Close() {
	if !l.Enabled() {
		return
	}
	l.once.Do(func() { close(l.entries) })
	<-l.done
}

// logWorker writes entries in batches of actionBatchSize or every
// actionFlushInterval, whichever comes first.
func (l *ActionLogger) logWorker(ctx context.Context) {
	defer close(l.done)

	batch := make([]model.BookingAction, 0, actionBatchSize)
	ticker := time.NewTicker(actionFlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := l.repo.CreateBatch(ctx, batch); err != nil {
			l.logger.Error("audit batch write failed", "entries", len(batch), "error", err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case entry, ok := <-l.entries:
			if !ok {
				// channel closed, flush remaining entries
				flush()
				return
			}
			batch = append(batch, entry)
			if len(batch) >= actionBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-ctx.Done():
			return
		}
	}
}
