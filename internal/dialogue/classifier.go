package dialogue

import "regexp"

// Verdict is the three-valued result of classifying a yes/no answer.
type Verdict int

const (
	Unrecognized Verdict = iota
	Affirmative
	Negative
)

// Classifier decides whether free-form text answers a yes/no prompt.
// It is a capability so tests and future NLU backends can swap it out.
type Classifier interface {
	Classify(text string) Verdict
}

var (
	affirmativePattern = regexp.MustCompile(`(?i)^\s*(yes|yeah|yep|yea|yup|ya|yah|sure|ok|okay|y)\b`)
	negativePattern    = regexp.MustCompile(`(?i)^\s*(no|nope|nah|naw|n)\b`)
)

// UtteranceClassifier matches the fixed affirmative/negative utterance
// sets at the start of the reply, case-insensitively.
type UtteranceClassifier struct{}

// NewClassifier returns the default utterance classifier.
func NewClassifier() UtteranceClassifier {
	return UtteranceClassifier{}
}

// Classify returns Affirmative, Negative, or Unrecognized for the text.
// Affirmative wins when both patterns could apply ("yeah nah" is a yes).
func (UtteranceClassifier) Classify(text string) Verdict {
	switch {
	case affirmativePattern.MatchString(text):
		return Affirmative
	case negativePattern.MatchString(text):
		return Negative
	default:
		return Unrecognized
	}
}
