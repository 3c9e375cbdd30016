package models

import "time"

// Message is an inbound chat message, independent of the chat platform
type Message struct {
	ID          string
	ChannelID   string
	ChannelName string
	Content     string
	AuthorID    string
	AuthorName  string
	AuthorBot   bool

	// Mentions holds the ids of users mentioned in the message
	Mentions []string

	CreatedAt time.Time
}

// Mentioned reports whether userID is among the message mentions
func (m *Message) Mentioned(userID string) bool {
	for _, id := range m.Mentions {
		if id == userID {
			return true
		}
	}
	return false
}
