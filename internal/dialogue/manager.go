package dialogue

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/octobees/foodbot/internal/entity"
	"github.com/octobees/foodbot/internal/slack"
	"github.com/octobees/foodbot/internal/store"
)

// Searcher is the search collaborator the dialogue invokes once cuisine
// and location are collected.
type Searcher interface {
	Search(ctx context.Context, query entity.SearchQuery) ([]entity.Business, error)
}

// SearchRecorder receives the outcome of every search call.
type SearchRecorder interface {
	RecordSearch(businesses []entity.Business, err error)
}

// Manager drives food dialogues: it owns conversation lifecycles, feeds
// user replies through the state machine, and performs the side effects
// each transition asks for.
type Manager struct {
	store        store.ConversationStore
	messenger    slack.Messenger
	searcher     Searcher
	classifier   Classifier
	recorder     SearchRecorder
	maxReprompts int
}

// NewManager wires a dialogue manager. The recorder may be nil.
func NewManager(conversations store.ConversationStore, messenger slack.Messenger, searcher Searcher, classifier Classifier, maxReprompts int, recorder SearchRecorder) *Manager {
	return &Manager{
		store:        conversations,
		messenger:    messenger,
		searcher:     searcher,
		classifier:   classifier,
		recorder:     recorder,
		maxReprompts: maxReprompts,
	}
}

// Start opens a dialogue for the triggering message. An already-active
// dialogue for the pair is replaced; the platform serializes turns, so
// the newest trigger wins.
func (m *Manager) Start(ctx context.Context, msg entity.InboundMessage) error {
	conv := entity.NewConversation(msg.Channel, msg.User, msg.Timestamp)
	if err := m.store.Put(ctx, conv); err != nil {
		return fmt.Errorf("store conversation: %w", err)
	}
	m.send(ctx, conv.Channel, Open())
	return nil
}

// Resume feeds a reply into the user's active dialogue. It reports false
// when no dialogue is in flight, so the intent router can take over.
func (m *Manager) Resume(ctx context.Context, msg entity.InboundMessage) (bool, error) {
	conv, err := m.store.Get(ctx, msg.Channel, msg.User)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load conversation: %w", err)
	}

	outcome := Advance(conv, msg.Text, m.classifier, m.maxReprompts)
	m.send(ctx, conv.Channel, outcome.Messages)

	if outcome.RunSearch {
		m.runSearch(ctx, conv)
	}

	if err := m.finish(ctx, conv); err != nil {
		return true, err
	}
	return true, nil
}

// Active reports whether the pair has a dialogue in flight.
func (m *Manager) Active(ctx context.Context, channel, user string) (bool, error) {
	_, err := m.store.Get(ctx, channel, user)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (m *Manager) runSearch(ctx context.Context, conv *entity.Conversation) {
	query := entity.SearchQuery{Term: conv.Cuisine, Location: conv.Location}
	businesses, err := m.searcher.Search(ctx, query)
	if err != nil {
		log.Printf("search failed term=%q location=%q: %v", query.Term, query.Location, err)
	}
	if m.recorder != nil {
		m.recorder.RecordSearch(businesses, err)
	}
	m.send(ctx, conv.Channel, ResolveSearch(conv, businesses, err))
}

// finish persists a live conversation or removes a finished one.
func (m *Manager) finish(ctx context.Context, conv *entity.Conversation) error {
	if conv.Step.Terminal() {
		if err := m.store.Delete(ctx, conv.Channel, conv.User); err != nil {
			return fmt.Errorf("delete conversation: %w", err)
		}
		return nil
	}
	if err := m.store.Put(ctx, conv); err != nil {
		return fmt.Errorf("store conversation: %w", err)
	}
	return nil
}

// send posts messages in order. Delivery failures are logged, never
// allowed to abort the dialogue.
func (m *Manager) send(ctx context.Context, channel string, messages []slack.Message) {
	for _, msg := range messages {
		if err := m.messenger.PostMessage(ctx, channel, msg); err != nil {
			log.Printf("post message to %s failed: %v", channel, err)
		}
	}
}
