// internal/historian/historian.go
package historian

import (
	"context"
	"sync"
	"time"

	"github.com/president-online/president/internal/cache"
	"github.com/president-online/president/internal/database"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Source yields queued action records. Pop returns (nil, nil) when nothing arrived
// within timeout.
type Source interface {
	Pop(ctx context.Context, timeout time.Duration) (*cache.RoomActionRecord, error)
}

// Sink persists a batch of action records.
type Sink interface {
	Write(ctx context.Context, records []cache.RoomActionRecord) error
}

// RedisSource pops records from a Redis list.
type RedisSource struct {
	Client *redis.Client
	Queue  string
}

func (s RedisSource) Pop(ctx context.Context, timeout time.Duration) (*cache.RoomActionRecord, error) {
	return cache.PopRoomAction(ctx, s.Client, s.Queue, timeout)
}

// PostgresSink writes records into the room_actions table.
type PostgresSink struct{}

func (PostgresSink) Write(ctx context.Context, records []cache.RoomActionRecord) error {
	return database.InsertRoomActions(ctx, records)
}

// Service drains a Source into a Sink in batches. A batch is flushed when it reaches
// batchSize or every flushDelay, whichever comes first.
type Service struct {
	source     Source
	sink       Sink
	batchSize  int
	flushDelay time.Duration
	popTimeout time.Duration

	batchMu sync.Mutex
	batch   []cache.RoomActionRecord
}

// New builds a Service. Non-positive sizes fall back to 20 records and 500ms.
func New(source Source, sink Sink, batchSize int, flushDelay time.Duration) *Service {
	if batchSize <= 0 {
		batchSize = 20
	}
	if flushDelay <= 0 {
		flushDelay = 500 * time.Millisecond
	}
	popTimeout := 3 * time.Second
	if flushDelay < popTimeout {
		popTimeout = flushDelay
	}
	return &Service{
		source:     source,
		sink:       sink,
		batchSize:  batchSize,
		flushDelay: flushDelay,
		popTimeout: popTimeout,
		batch:      make([]cache.RoomActionRecord, 0, batchSize),
	}
}

// Run reads until ctx is cancelled, then flushes whatever is left.
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(s.flushDelay)
	defer ticker.Stop()

	log.Info("historian started")
	defer func() {
		s.Flush(context.Background())
		log.Info("historian stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Flush(ctx)
		default:
			rec, err := s.source.Pop(ctx, s.popTimeout)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.WithError(err).Error("historian pop failed")
				continue
			}
			if rec != nil {
				s.Add(ctx, *rec)
			}
		}
	}
}

// Add appends rec to the batch, flushing when the batch is full.
func (s *Service) Add(ctx context.Context, rec cache.RoomActionRecord) {
	s.batchMu.Lock()
	s.batch = append(s.batch, rec)
	full := len(s.batch) >= s.batchSize
	s.batchMu.Unlock()

	if full {
		s.Flush(ctx)
	}
}

// Flush writes the pending batch to the sink. A failed batch is dropped and logged.
func (s *Service) Flush(ctx context.Context) {
	s.batchMu.Lock()
	if len(s.batch) == 0 {
		s.batchMu.Unlock()
		return
	}
	pending := make([]cache.RoomActionRecord, len(s.batch))
	copy(pending, s.batch)
	s.batch = s.batch[:0]
	s.batchMu.Unlock()

	if err := s.sink.Write(ctx, pending); err != nil {
		log.WithError(err).WithField("count", len(pending)).Error("historian flush failed")
		return
	}
	log.WithField("count", len(pending)).Debug("flushed room actions")
}

// Pending returns the number of buffered records.
func (s *Service) Pending() int {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()
	return len(s.batch)
}
