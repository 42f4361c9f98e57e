package dialogue

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/octobees/foodbot/internal/entity"
	"github.com/octobees/foodbot/internal/slack"
)

// Lines the bot speaks, kept verbatim so transcripts stay stable.
const (
	PromptConfirm  = "Would you like some food recommendations near you?"
	PromptCuisine  = "What kind of food would you like?"
	PromptLocation = "Where are you located?"
	PromptRetry    = "Would you like to search for something else?"

	msgGreat         = "Great!"
	msgDeclined      = "Then don't tell me you're hungry!"
	msgConfirmRepeat = "I'm sorry, I didn't understand your response."
	msgRetryRepeat   = "Sorry, I didn't understand your response."
	msgSearchIntro   = "Let me see what I can find for you."
	msgNoResults     = "I'm sorry, I couldn't find anything that matched your criteria."
	msgRetryDeclined = "All right, let me know if you need anything else!"
	msgFound         = "Here's what I found:"
	msgGaveUp        = "All right, let's try this again some other time!"

	resultFallback = "business info"
)

// Outcome is what a single transition produced: the messages to send and
// whether the search collaborator must now be invoked. The conversation
// itself carries the next step.
type Outcome struct {
	Messages  []slack.Message
	RunSearch bool
}

// Open returns the opening prompt for a freshly created conversation.
func Open() []slack.Message {
	return []slack.Message{slack.Text(PromptConfirm)}
}

// Advance applies one user reply to the conversation. Each case is a
// pure function of (step, collected fields, input); the caller persists
// the mutated conversation and performs the returned side effects.
func Advance(conv *entity.Conversation, input string, cls Classifier, maxReprompts int) Outcome {
	switch conv.Step {
	case entity.StepAwaitConfirmation:
		switch cls.Classify(input) {
		case Affirmative:
			conv.Step = entity.StepAwaitCuisine
			conv.Reprompts = 0
			return say(msgGreat, PromptCuisine)
		case Negative:
			conv.Step = entity.StepDeclined
			return say(msgDeclined)
		default:
			return reprompt(conv, maxReprompts, msgConfirmRepeat, PromptConfirm)
		}

	case entity.StepAwaitCuisine:
		cuisine := strings.TrimSpace(input)
		if cuisine == "" {
			return reprompt(conv, maxReprompts, msgConfirmRepeat, PromptCuisine)
		}
		conv.Cuisine = cuisine
		conv.Step = entity.StepAwaitLocation
		conv.Reprompts = 0
		return say(PromptLocation)

	case entity.StepAwaitLocation:
		location := strings.TrimSpace(input)
		if location == "" {
			return reprompt(conv, maxReprompts, msgConfirmRepeat, PromptLocation)
		}
		conv.Location = location
		conv.Step = entity.StepSearching
		conv.Reprompts = 0
		out := say(
			fmt.Sprintf("So, you're looking for %s in %s.", conv.Cuisine, conv.Location),
			msgSearchIntro,
		)
		out.RunSearch = true
		return out

	case entity.StepAwaitRetry:
		switch cls.Classify(input) {
		case Affirmative:
			conv.Step = entity.StepAwaitCuisine
			conv.Reprompts = 0
			return say(msgGreat, PromptCuisine)
		case Negative:
			conv.Step = entity.StepDeclined
			return say(msgRetryDeclined)
		default:
			return reprompt(conv, maxReprompts, msgRetryRepeat, PromptRetry)
		}

	default:
		// Searching and terminal steps consume no user input.
		return Outcome{}
	}
}

// ResolveSearch applies the search result to a conversation sitting in
// the Searching step. Errors and empty result sets take the same retry
// branch; the raw error never reaches the user.
func ResolveSearch(conv *entity.Conversation, businesses []entity.Business, searchErr error) []slack.Message {
	if searchErr != nil || len(businesses) == 0 {
		conv.Step = entity.StepAwaitRetry
		conv.Reprompts = 0
		return []slack.Message{slack.Text(msgNoResults), slack.Text(PromptRetry)}
	}

	conv.Step = entity.StepShowingResults
	messages := make([]slack.Message, 0, len(businesses)+1)
	messages = append(messages, slack.Text(msgFound))
	for _, business := range businesses {
		messages = append(messages, slack.Message{
			Attachments: []entity.Attachment{{
				Fallback: resultFallback,
				Title:    business.Name,
				Text:     "Rating: " + formatRating(business.Rating),
				ImageURL: business.ImageURL,
			}},
		})
	}
	return messages
}

func say(lines ...string) Outcome {
	messages := make([]slack.Message, 0, len(lines))
	for _, line := range lines {
		messages = append(messages, slack.Text(line))
	}
	return Outcome{Messages: messages}
}

// reprompt repeats the question, giving up once the bound is exhausted.
// A bound of zero preserves the original endless re-ask behavior.
func reprompt(conv *entity.Conversation, maxReprompts int, apology, question string) Outcome {
	conv.Reprompts++
	if maxReprompts > 0 && conv.Reprompts >= maxReprompts {
		conv.Step = entity.StepEnded
		return say(msgGaveUp)
	}
	return say(apology, question)
}

func formatRating(rating float64) string {
	return strconv.FormatFloat(rating, 'f', -1, 64)
}
