// File: internal/domain/message.go
package domain

import "time"

// Message roles. The set is closed at this layer; system or tool roles do
// not exist in the gateway's data model.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single message within a conversation. Ascending
// Timestamp defines the order in which history is reconstructed.
type Message struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	ConversationID string    `json:"-" gorm:"size:36;not null;index"`
	Role           string    `json:"role" gorm:"not null"` // "user" or "assistant"
	Content        string    `json:"content" gorm:"not null"`
	Timestamp      time.Time `json:"timestamp" gorm:"index"`
}
