package kafka

import "time"

type EventType string

const (
	EventUserRegistered      EventType = "user.registered"
	EventUserApproved        EventType = "user.approved"
	EventBorrowRequested     EventType = "borrow.requested"
	EventBorrowStatusChanged EventType = "borrow.status_changed"
	EventVerifiedImported    EventType = "verified.imported"
)

type EventPortal struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	UserID    string    `json:"userId,omitempty"`
	BookID    string    `json:"bookId,omitempty"`
	RecordID  string    `json:"recordId,omitempty"`
	Status    string    `json:"status,omitempty"`
	Count     int       `json:"count,omitempty"`
}
