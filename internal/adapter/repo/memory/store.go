package memory

import (
	"context"
	"sync"

	"petquest/internal/app/ports"
	"petquest/internal/domain/adventure"
	"petquest/internal/domain/vitality"
)

type txMarker struct{}

// Store backs every memory repository. RunInTx holds the store lock for the
// whole callback; calls outside a transaction take it per call.
type Store struct {
	mu        sync.Mutex
	pets      map[string]vitality.Pet
	sessions  map[string]adventure.Session
	ledger    map[string]int
	policies  []ports.DailyLimitPolicy
	settings  map[string]string
	decayRuns map[string]ports.DecayRunRecord
	events    map[string][]vitality.Event
}

func NewStore() *Store {
	return &Store{
		pets:      make(map[string]vitality.Pet),
		sessions:  make(map[string]adventure.Session),
		ledger:    make(map[string]int),
		settings:  make(map[string]string),
		decayRuns: make(map[string]ports.DecayRunRecord),
		events:    make(map[string][]vitality.Event),
	}
}

func (s *Store) with(ctx context.Context, fn func()) {
	if ctx.Value(txMarker{}) != nil {
		fn()
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

func ledgerKey(userID, localDate string) string {
	return userID + "::" + localDate
}

func (s *Store) SeedPet(pet vitality.Pet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pets[pet.ID] = pet
}

func (s *Store) SeedSession(session adventure.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
}
