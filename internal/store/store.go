// Package store owns the authoritative in-memory list of recordings and
// mirrors every accepted mutation into durable storage.
package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"bptracker/internal/codec"
	"bptracker/internal/models"
)

// Persistence is the durable blob store behind the collection. Load returns
// the previously saved document, or the empty string when nothing was ever
// saved.
type Persistence interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, document string) error
}

// Store applies intents strictly one at a time against the latest in-memory
// list. The durable copy is a best-effort mirror written after every accepted
// mutation without blocking the dispatcher, so it can transiently lag the
// in-memory state.
type Store struct {
	persistence Persistence
	logger      zerolog.Logger

	mu          sync.Mutex
	recordings  []models.Recording
	subscribers map[int]func([]models.Recording)
	nextSubID   int

	saves sync.WaitGroup
}

func NewStore(persistence Persistence, logger zerolog.Logger) *Store {
	return &Store{
		persistence: persistence,
		logger:      logger,
		subscribers: make(map[int]func([]models.Recording)),
	}
}

// Dispatch applies one intent and returns the resulting list. The in-memory
// list is the source of truth for the running session; the save it triggers
// is fire-and-forget.
func (s *Store) Dispatch(action Action) []models.Recording {
	snapshot := s.apply(action)
	s.persist(snapshot)
	return snapshot
}

// apply runs the reducer and notifies subscribers without touching durable
// storage. Load's degradation branches go through here directly so that a
// document this process failed to read is never overwritten with an empty one.
func (s *Store) apply(action Action) []models.Recording {
	s.mu.Lock()
	s.recordings = Reduce(s.recordings, action)
	snapshot := append([]models.Recording(nil), s.recordings...)
	listeners := make([]func([]models.Recording), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
	return snapshot
}

func (s *Store) persist(recordings []models.Recording) {
	document, err := codec.Encode(recordings)
	if err != nil {
		s.logger.Error().Err(err).Msg("encode recordings for save")
		return
	}
	s.saves.Add(1)
	go func() {
		defer s.saves.Done()
		if err := s.persistence.Save(context.Background(), document); err != nil {
			// Dropped, never retried; the in-memory list stays authoritative.
			s.logger.Error().Err(err).Msg("save recordings")
		}
	}()
}

// Recordings returns a snapshot of the current list.
func (s *Store) Recordings() []models.Recording {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Recording(nil), s.recordings...)
}

// Get looks up one recording by id.
func (s *Store) Get(id string) (models.Recording, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.recordings {
		if rec.ID == id {
			return rec, true
		}
	}
	return models.Recording{}, false
}

// Subscribe registers fn to run after every dispatch with the new list. The
// returned function removes the subscription.
func (s *Store) Subscribe(fn func([]models.Recording)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Load reads the stored document and dispatches Initialize with its
// contents. Nothing stored, a failing load or an undecodable document all
// degrade to an empty collection; the failure is logged, never surfaced, and
// the stored document is left alone so it can be recovered.
func (s *Store) Load(ctx context.Context) []models.Recording {
	document, err := s.persistence.Load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("load recordings, starting empty")
		return s.apply(Initialize{})
	}
	if document == "" {
		s.logger.Warn().Msg("no stored recordings found")
		return s.apply(Initialize{})
	}
	recordings, err := codec.Decode(document)
	if err != nil {
		s.logger.Error().Err(err).Msg("decode stored recordings, starting empty")
		return s.apply(Initialize{})
	}
	return s.Dispatch(Initialize{Recordings: recordings})
}

// Start kicks off the boot load without blocking the caller.
func (s *Store) Start(ctx context.Context) {
	go s.Load(ctx)
}

// Flush waits for in-flight saves to settle. Called on shutdown and by
// anything that needs the durable copy caught up.
func (s *Store) Flush() {
	s.saves.Wait()
}
