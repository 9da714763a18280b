package models

import "time"

type MessageStatus string

const (
	MessageNew  MessageStatus = "new"
	MessageRead MessageStatus = "read"
)

func (s MessageStatus) Valid() bool {
	return s == MessageNew || s == MessageRead
}

// Message is a contact-form submission.
type Message struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone,omitempty"`
	Message   string        `json:"message"`
	Status    MessageStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}
