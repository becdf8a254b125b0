package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/Mediamoney08/mediamoney-gateway/models"
	"github.com/Mediamoney08/mediamoney-gateway/stores"
	"github.com/Mediamoney08/mediamoney-gateway/utils"
	"github.com/google/uuid"
)

const usageBufferSize = 1024

// UsageService appends one record per gateway request for billing and
// observability. Recording is fire-and-forget: a full buffer drops the
// entry and a store failure is only logged; the response already computed
// is never affected.
type UsageService struct {
	store   *stores.UsageStore
	entries chan *models.UsageLog
	done    chan struct{}
	dropped atomic.Int64
	log     *utils.Logger
}

func CreateUsageService(store *stores.UsageStore) *UsageService {
	s := &UsageService{
		store:   store,
		entries: make(chan *models.UsageLog, usageBufferSize),
		done:    make(chan struct{}),
		log:     utils.NewLogger("usage"),
	}
	go s.run()
	return s
}

func (s *UsageService) Record(entry *models.UsageLog) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	select {
	case s.entries <- entry:
	default:
		s.dropped.Add(1)
	}
}

func (s *UsageService) Dropped() int64 {
	return s.dropped.Load()
}

// Close drains the buffer and stops the writer.
func (s *UsageService) Close() {
	close(s.entries)
	<-s.done
}

func (s *UsageService) run() {
	defer close(s.done)

	for entry := range s.entries {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.store.Append(ctx, entry); err != nil {
			s.log.Warn(ctx, "failed to append usage log", map[string]interface{}{
				"api_key_id": entry.APIKeyID,
				"endpoint":   entry.Endpoint,
				"error":      err.Error(),
			})
		}
		cancel()
	}
}
