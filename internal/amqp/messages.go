package amqp

import (
	"encoding/json"
	"errors"
	"fmt"

	"finmanager/internal/core"
)

var ErrInvalidMessage = errors.New("invalid message")

// TransactionAddedMessage is the wire form of a core.TransactionAdded event.
type TransactionAddedMessage struct {
	EventID     string           `json:"event_id"`
	TS          string           `json:"ts"`
	Transaction core.Transaction `json:"transaction"`
}

func NewTransactionAddedMessage(evt core.TransactionAdded) *TransactionAddedMessage {
	meta := evt.Meta()
	return &TransactionAddedMessage{
		EventID:     meta.ID,
		TS:          meta.TS,
		Transaction: evt.Transaction,
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionAddedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ToEvent rebuilds the domain event carried by the message.
func (m *TransactionAddedMessage) ToEvent() core.TransactionAdded {
	return core.TransactionAdded{
		EventMeta:   core.EventMeta{ID: m.EventID, TS: m.TS},
		Transaction: m.Transaction,
	}
}

// TransactionAddedMessageFromJSON decodes a message and rejects payloads
// without an event id or with an incomplete transaction.
func TransactionAddedMessageFromJSON(data []byte) (*TransactionAddedMessage, error) {
	var msg TransactionAddedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if msg.EventID == "" {
		return nil, fmt.Errorf("%w: missing event_id", ErrInvalidMessage)
	}
	if err := msg.Transaction.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	return &msg, nil
}
