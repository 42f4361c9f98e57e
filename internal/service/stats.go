package service

import (
	"sync"

	"github.com/octobees/foodbot/internal/entity"
)

// StatsSnapshot is the read-only view served by the admin surface.
type StatsSnapshot struct {
	EventsByIntent   map[string]int    `json:"events_by_intent"`
	DialoguesStarted int               `json:"dialogues_started"`
	Searches         int               `json:"searches"`
	EmptySearches    int               `json:"empty_searches"`
	FailedSearches   int               `json:"failed_searches"`
	ResultsRendered  int               `json:"results_rendered"`
	LastResults      []entity.Business `json:"last_results,omitempty"`
}

// Stats collects process-lifetime counters about handled events and
// searches. All methods are safe for concurrent use.
type Stats struct {
	mu               sync.Mutex
	eventsByIntent   map[string]int
	dialoguesStarted int
	searches         int
	emptySearches    int
	failedSearches   int
	resultsRendered  int
	lastResults      []entity.Business
}

// NewStats builds an empty collector.
func NewStats() *Stats {
	return &Stats{eventsByIntent: make(map[string]int)}
}

// RecordIntent counts one routed event for the named intent.
func (s *Stats) RecordIntent(intent string) {
	s.mu.Lock()
	s.eventsByIntent[intent]++
	s.mu.Unlock()
}

// RecordDialogueStarted counts one new food dialogue.
func (s *Stats) RecordDialogueStarted() {
	s.mu.Lock()
	s.dialoguesStarted++
	s.mu.Unlock()
}

// RecordSearch counts one search call and keeps the businesses of the
// most recent successful one.
func (s *Stats) RecordSearch(businesses []entity.Business, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.searches++
	switch {
	case err != nil:
		s.failedSearches++
	case len(businesses) == 0:
		s.emptySearches++
	default:
		s.resultsRendered += len(businesses)
		s.lastResults = append([]entity.Business(nil), businesses...)
	}
}

// Snapshot copies the current counters.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	byIntent := make(map[string]int, len(s.eventsByIntent))
	for intent, count := range s.eventsByIntent {
		byIntent[intent] = count
	}
	return StatsSnapshot{
		EventsByIntent:   byIntent,
		DialoguesStarted: s.dialoguesStarted,
		Searches:         s.searches,
		EmptySearches:    s.emptySearches,
		FailedSearches:   s.failedSearches,
		ResultsRendered:  s.resultsRendered,
		LastResults:      append([]entity.Business(nil), s.lastResults...),
	}
}
