// File: internal/domain/conversation.go
package domain

import "time"

// DefaultTitle is the placeholder a conversation carries until its first
// turn derives a real title from the user's message.
const DefaultTitle = "New Chat"

// Conversation represents a single chat thread owned by one user. The
// owner never changes after creation; every operation that touches a
// conversation or its messages must check the caller against UserID.
type Conversation struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Title     string    `json:"title" gorm:"not null"`
	UserID    string    `json:"userId" gorm:"size:36;not null;index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Messages is not a stored column; list responses carry an empty
	// slice and message history is loaded separately.
	Messages []Message `json:"messages" gorm:"-"`
}
