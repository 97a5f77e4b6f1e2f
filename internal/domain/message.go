package domain

import "time"

// Message is a single entry in a conversation. Messages are append-only;
// deletion is a soft tombstone that blanks the text.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Text           string    `json:"text"`
	MediaRef       string    `json:"media_ref,omitempty"`
	// ReadBy tracks which participants have seen the message. The sender
	// is included from the start.
	ReadBy  []string  `json:"read_by"`
	Deleted bool      `json:"deleted,omitempty"`
	SentAt  time.Time `json:"sent_at"`
}

// ReadByUser reports whether the user has marked this message read.
func (m *Message) ReadByUser(userID string) bool {
	for _, id := range m.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}

// MarkReadBy records a reader if not already present.
func (m *Message) MarkReadBy(userID string) {
	if m.ReadByUser(userID) {
		return
	}
	m.ReadBy = append(m.ReadBy, userID)
}

// Preview returns the denormalized snapshot stored on the conversation.
func (m *Message) Preview() MessagePreview {
	text := m.Text
	if m.Deleted {
		text = ""
	}
	return MessagePreview{
		MessageID: m.ID,
		SenderID:  m.SenderID,
		Text:      text,
		SentAt:    m.SentAt,
	}
}
