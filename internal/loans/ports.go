// Package loans defines the ports the dashboard uses to reach the external
// loan store and the language preference store.
package loans

import (
	"context"
	"errors"

	"loandash/internal/core"
)

// ErrReadOnly is returned by stores that cannot create loans.
var ErrReadOnly = errors.New("loan store is read-only")

// Filter narrows a loan query. The zero value matches every loan.
type Filter struct {
	Status core.LoanStatus
}

// Matches reports whether l passes the filter.
func (f Filter) Matches(l core.LoanRecord) bool {
	return f.Status == "" || l.Status == f.Status
}

// Ports for outbound adapters.
type (
	Store interface {
		// List returns the user's loans matching filter, in store order.
		List(ctx context.Context, userID string, filter Filter) ([]core.LoanRecord, error)
	}

	Writer interface {
		// Create stores a loan and returns it with its assigned ID.
		Create(ctx context.Context, loan core.LoanRecord) (core.LoanRecord, error)
	}

	// PreferenceStore persists one language code per user.
	PreferenceStore interface {
		// Language returns the stored code, or "" when none is stored.
		Language(ctx context.Context, userID string) (string, error)
		SetLanguage(ctx context.Context, userID, lang string) error
	}
)
