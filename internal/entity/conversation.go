package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Step identifies where a food dialogue currently sits.
type Step int

const (
	StepAwaitConfirmation Step = iota
	StepAwaitCuisine
	StepAwaitLocation
	StepSearching
	StepShowingResults
	StepAwaitRetry
	StepDeclined
	StepEnded
)

// String returns the snake_case name used in logs and admin payloads.
func (s Step) String() string {
	switch s {
	case StepAwaitConfirmation:
		return "await_confirmation"
	case StepAwaitCuisine:
		return "await_cuisine"
	case StepAwaitLocation:
		return "await_location"
	case StepSearching:
		return "searching"
	case StepShowingResults:
		return "showing_results"
	case StepAwaitRetry:
		return "await_retry"
	case StepDeclined:
		return "declined"
	case StepEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the step by name so stored and rendered
// conversations stay readable.
func (s Step) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the names produced by MarshalJSON.
func (s *Step) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	step, ok := stepsByName[name]
	if !ok {
		return fmt.Errorf("unknown step %q", name)
	}
	*s = step
	return nil
}

var stepsByName = map[string]Step{
	"await_confirmation": StepAwaitConfirmation,
	"await_cuisine":      StepAwaitCuisine,
	"await_location":     StepAwaitLocation,
	"searching":          StepSearching,
	"showing_results":    StepShowingResults,
	"await_retry":        StepAwaitRetry,
	"declined":           StepDeclined,
	"ended":              StepEnded,
}

// Terminal reports whether the dialogue is finished at this step.
func (s Step) Terminal() bool {
	return s == StepShowingResults || s == StepDeclined || s == StepEnded
}

// Conversation is one in-flight food dialogue with a single user. It is
// created when food intent is detected and deleted once a terminal step
// is reached; there is never more than one per (channel, user) pair.
type Conversation struct {
	ID        string    `json:"id"`
	Channel   string    `json:"channel"`
	User      string    `json:"user"`
	TriggerTS string    `json:"trigger_ts"`
	Step      Step      `json:"step"`
	Cuisine   string    `json:"cuisine,omitempty"`
	Location  string    `json:"location,omitempty"`
	Reprompts int       `json:"reprompts"`
	StartedAt time.Time `json:"started_at"`
}

// NewConversation starts a dialogue at the confirmation step.
func NewConversation(channel, user, triggerTS string) *Conversation {
	return &Conversation{
		ID:        uuid.NewString(),
		Channel:   channel,
		User:      user,
		TriggerTS: triggerTS,
		Step:      StepAwaitConfirmation,
		StartedAt: time.Now().UTC(),
	}
}
