package journal

import (
	"time"

	"github.com/google/uuid"
)

// Outcome is how a command delivery ended.
type Outcome string

const (
	OutcomeHandled        Outcome = "HANDLED"
	OutcomeRejected       Outcome = "REJECTED"
	OutcomeFailed         Outcome = "FAILED"
	OutcomeUnknownCommand Outcome = "UNKNOWN_COMMAND"
)

func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeHandled, OutcomeRejected, OutcomeFailed, OutcomeUnknownCommand:
		return true
	default:
		return false
	}
}

// Entry records one command delivery. Entries are append-only and are
// never replayed into bot state.
type Entry struct {
	ID         int64     `json:"-"`
	EntryID    uuid.UUID `json:"entryId"`
	EventID    string    `json:"eventId,omitempty"`
	ChatID     string    `json:"chatId"`
	SenderID   string    `json:"senderId,omitempty"`
	Command    string    `json:"command"`
	Args       []string  `json:"args,omitempty"`
	Outcome    Outcome   `json:"outcome"`
	Error      *string   `json:"error,omitempty"`
	DurationMs int64     `json:"durationMs"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewEntry starts an entry for a command delivery.
func NewEntry(eventID, chatID, senderID, command string, args []string) *Entry {
	return &Entry{
		EntryID:   uuid.New(),
		EventID:   eventID,
		ChatID:    chatID,
		SenderID:  senderID,
		Command:   command,
		Args:      args,
		Outcome:   OutcomeHandled,
		CreatedAt: time.Now().UTC(),
	}
}

// Finish stamps the outcome and elapsed time.
func (e *Entry) Finish(outcome Outcome, err error) {
	e.Outcome = outcome
	if err != nil {
		msg := err.Error()
		e.Error = &msg
	}
	e.DurationMs = time.Since(e.CreatedAt).Milliseconds()
}

// Filter narrows journal listings.
type Filter struct {
	ChatID  *string
	Outcome *Outcome
}
