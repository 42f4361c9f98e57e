package intent

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/octobees/foodbot/internal/dialogue"
	"github.com/octobees/foodbot/internal/entity"
	"github.com/octobees/foodbot/internal/slack"
)

// Intent is the classified purpose of an inbound message.
type Intent string

const (
	IntentFood     Intent = "food"
	IntentGreeting Intent = "greeting"
	IntentHelp     Intent = "help"
	IntentUnknown  Intent = "unknown"
)

const (
	helpMessage     = "I can wake up on command, say hello to you, and help you find food."
	fallbackMessage = "I'm sorry; I don't understand that message."
	genericGreeting = "Hello there!"
)

var (
	foodPattern     = regexp.MustCompile(`(?i)\b(hungry|food|restaurant|eat|dinner|breakfast|lunch)\b`)
	greetingPattern = regexp.MustCompile(`(?i)\b(hello|hi|howdy)\b`)
)

// Detect classifies message text against the fixed keyword sets. Food
// wins over greeting when both match ("hi, I'm hungry" starts a dialogue).
func Detect(text string) Intent {
	switch {
	case foodPattern.MatchString(text):
		return IntentFood
	case greetingPattern.MatchString(text):
		return IntentGreeting
	case strings.EqualFold(strings.TrimSpace(text), "help"):
		return IntentHelp
	default:
		return IntentUnknown
	}
}

// IntentRecorder counts routed events per intent.
type IntentRecorder interface {
	RecordIntent(intent string)
	RecordDialogueStarted()
}

// Router dispatches each inbound message to exactly one handler: the
// active dialogue if one exists, otherwise the matching intent branch.
type Router struct {
	messenger slack.Messenger
	directory slack.Directory
	dialogues *dialogue.Manager
	recorder  IntentRecorder
}

// NewRouter wires an intent router. The recorder may be nil.
func NewRouter(messenger slack.Messenger, directory slack.Directory, dialogues *dialogue.Manager, recorder IntentRecorder) *Router {
	return &Router{
		messenger: messenger,
		directory: directory,
		dialogues: dialogues,
		recorder:  recorder,
	}
}

// HandleMessage routes one inbound message. Every branch replies with at
// least one message; no input is silently dropped.
func (r *Router) HandleMessage(ctx context.Context, msg entity.InboundMessage) error {
	handled, err := r.dialogues.Resume(ctx, msg)
	if err != nil {
		return fmt.Errorf("resume dialogue: %w", err)
	}
	if handled {
		return nil
	}

	detected := Detect(msg.Text)
	if r.recorder != nil {
		r.recorder.RecordIntent(string(detected))
	}

	switch detected {
	case IntentFood:
		if r.recorder != nil {
			r.recorder.RecordDialogueStarted()
		}
		return r.dialogues.Start(ctx, msg)

	case IntentGreeting:
		return r.messenger.PostMessage(ctx, msg.Channel, slack.Text(r.greetingFor(ctx, msg.User)))

	case IntentHelp:
		return r.messenger.PostMessage(ctx, msg.Channel, slack.Text(helpMessage))

	default:
		return r.messenger.PostMessage(ctx, msg.Channel, slack.Text(fallbackMessage))
	}
}

// greetingFor personalizes the greeting when identity lookup succeeds.
// Lookup failures degrade to the generic form, never abort handling.
func (r *Router) greetingFor(ctx context.Context, userID string) string {
	user, err := r.directory.UserInfo(ctx, userID)
	if err != nil {
		log.Printf("user lookup for %s failed: %v", userID, err)
		return genericGreeting
	}
	name := user.DisplayName()
	if name == "" {
		return genericGreeting
	}
	return fmt.Sprintf("Hello, %s!", name)
}
