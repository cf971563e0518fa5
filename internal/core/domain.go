package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	StatusActive    LoanStatus = "active"
	StatusCompleted LoanStatus = "completed"
)

const (
	KindUpcoming NotificationKind = "upcoming"
	KindOverdue  NotificationKind = "overdue"
)

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

type (
	LoanStatus       string
	NotificationKind string
	Severity         string

	// LoanRecord is a loan as held by the loan store. The engine only reads it.
	LoanRecord struct {
		ID          string          `json:"id"`
		UserID      string          `json:"userId"`
		LoanType    string          `json:"loanType"`
		LoanPurpose string          `json:"loanPurpose"`
		LoanAmount  decimal.Decimal `json:"loanAmount"`
		EMIAmount   decimal.Decimal `json:"emiAmount"`
		PaymentDate int             `json:"paymentDate"` // day of month, 1-31
		Status      LoanStatus      `json:"status"`
	}

	// Notification is recomputed on every evaluation and never mutated.
	Notification struct {
		ID       string           `json:"id"`
		Kind     NotificationKind `json:"kind"`
		Title    string           `json:"title"`
		Message  string           `json:"message"`
		Severity Severity         `json:"severity"`
	}

	Stats struct {
		TotalLoanAmount decimal.Decimal `json:"totalLoanAmount"`
		TotalEMI        decimal.Decimal `json:"totalEMI"`
		ActiveLoans     int             `json:"activeLoans"`
		CompletedLoans  int             `json:"completedLoans"`
	}
)

var (
	ErrInvalidLoan        = errors.New("invalid loan")
	ErrEmptyLoanType      = fmt.Errorf("%w: empty loan type", ErrInvalidLoan)
	ErrInvalidAmount      = fmt.Errorf("%w: amount must be positive", ErrInvalidLoan)
	ErrInvalidPaymentDate = fmt.Errorf("%w: payment date must be between 1 and 31", ErrInvalidLoan)
	ErrInvalidStatus      = fmt.Errorf("%w: unknown status", ErrInvalidLoan)
)

// IsValid reports whether s is one of the statuses the dashboard counts.
func (s LoanStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusCompleted:
		return true
	default:
		return false
	}
}

// Validate checks a loan submitted for creation. Records read back from a
// store are never validated; bad numbers there are coerced instead.
func (l LoanRecord) Validate() error {
	if strings.TrimSpace(l.LoanType) == "" {
		return ErrEmptyLoanType
	}
	if len(l.LoanType) > 100 || len(l.LoanPurpose) > 200 {
		return fmt.Errorf("%w: text too long", ErrInvalidLoan)
	}
	if !l.LoanAmount.IsPositive() || !l.EMIAmount.IsPositive() {
		return ErrInvalidAmount
	}
	if l.PaymentDate < 1 || l.PaymentDate > 31 {
		return ErrInvalidPaymentDate
	}
	if !l.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

// NotificationID derives the stable identifier for a loan and kind.
func NotificationID(kind NotificationKind, loanID string) string {
	return string(kind) + "-" + loanID
}

// FilterByStatus returns the loans with the given status, preserving order.
func FilterByStatus(loans []LoanRecord, status LoanStatus) []LoanRecord {
	out := make([]LoanRecord, 0, len(loans))
	for _, l := range loans {
		if l.Status == status {
			out = append(out, l)
		}
	}
	return out
}
