package chathub

import "github.com/samber/lo"

// Conversation starters handed to a freshly matched pair. Purely cosmetic;
// the client shows them as ice-breakers.
var conversationStarters = []string{
	"What's the best thing that happened to you this week?",
	"If you could live anywhere for a year, where would it be?",
	"What's a movie you can rewatch endlessly?",
	"What skill would you love to wake up knowing?",
	"Cats, dogs, or something more exotic?",
	"What's the last song you had on repeat?",
	"What food could you never give up?",
	"Early bird or night owl?",
	"What's a small thing that made you smile today?",
	"If you had a free plane ticket right now, where to?",
}

const matchedTopicCount = 3

// sampleTopics picks a few random starters for a new match.
func sampleTopics() []string {
	return lo.Samples(conversationStarters, matchedTopicCount)
}
