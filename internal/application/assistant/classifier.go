package assistant

import "github.com/navina/travelguide/internal/domain/entities"

// Classifier maps an utterance to one canned reply. It holds only
// read-only tables and a concurrency-safe random source, so one instance
// can serve many goroutines.
type Classifier struct {
	facts  *GuideFacts
	random RandomSource
	rules  []intentRule
}

// Option configures a Classifier
type Option func(*Classifier)

// WithRandomSource replaces the process-wide random source used for flavor text
func WithRandomSource(src RandomSource) Option {
	return func(c *Classifier) {
		if src != nil {
			c.random = src
		}
	}
}

// NewClassifier creates a classifier over the given fact tables.
// Nil facts selects the embedded defaults.
func NewClassifier(facts *GuideFacts, opts ...Option) *Classifier {
	if facts == nil {
		facts = DefaultFacts()
	}
	c := &Classifier{
		facts:  facts,
		random: globalSource{},
		rules:  defaultRules(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify answers one utterance. It never fails: input that matches no
// rule, including empty input, gets the fallback reply.
func (c *Classifier) Classify(utterance string, convCtx entities.ConversationContext) IntentResponse {
	text := normalize(utterance)
	t := turn{
		text:     text,
		entities: ExtractEntities(text),
		lastPOI:  convCtx.LastPOI,
	}

	if text == "" {
		return fallback()
	}

	for _, rule := range c.rules {
		if rule.matches(t) {
			return rule.respond(c, t)
		}
	}
	return fallback()
}

// Facts exposes the tables the classifier answers from
func (c *Classifier) Facts() *GuideFacts {
	return c.facts
}
