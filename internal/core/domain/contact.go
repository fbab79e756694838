package domain

import "time"

// MessageStatus tracks how far an incoming contact message has been handled.
type MessageStatus string

const (
	MessageNew      MessageStatus = "NOUVEAU"
	MessageRead     MessageStatus = "LU"
	MessageHandled  MessageStatus = "TRAITE"
	MessageArchived MessageStatus = "ARCHIVE"
)

var MessageStatuses = []MessageStatus{MessageNew, MessageRead, MessageHandled, MessageArchived}

func (s MessageStatus) Valid() bool {
	for _, known := range MessageStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ContactMessage is a request submitted through the public contact form.
type ContactMessage struct {
	ID        string        `json:"id" bson:"_id"`
	Name      string        `json:"name" bson:"name"`
	Email     string        `json:"email" bson:"email"`
	Company   string        `json:"company,omitempty" bson:"company,omitempty"`
	Subject   string        `json:"subject" bson:"subject"`
	Message   string        `json:"message" bson:"message"`
	Status    MessageStatus `json:"status" bson:"status"`
	CreatedAt time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time     `json:"updatedAt" bson:"updated_at"`
}
