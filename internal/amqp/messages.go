package amqp

import (
	"encoding/json"
	"time"
)

// LoanChangedMessage tells consumers that a user's loans changed. It only
// carries identifiers; consumers reload the loans from the store.
type LoanChangedMessage struct {
	UserID    string    `json:"userId"`
	LoanID    string    `json:"loanId"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLoanChangedMessage(userID, loanID string) *LoanChangedMessage {
	return &LoanChangedMessage{
		UserID:    userID,
		LoanID:    loanID,
		Timestamp: time.Now(),
	}
}

func (m *LoanChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LoanChangedMessageFromJSON(data []byte) (*LoanChangedMessage, error) {
	var msg LoanChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
