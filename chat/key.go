// Package chat holds the messaging domain: conversation identity, the
// message store, the participant directory and the conversation aggregator.
package chat

// ConversationKey derives the stable conversation id for a pair of
// participants. The two ids are sorted lexicographically and joined with an
// underscore, so key(a,b) == key(b,a) and any two messages between the same
// pair land in the same conversation regardless of who initiated.
func ConversationKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "_" + b
}
