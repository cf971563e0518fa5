package dashboard

import "loandash/internal/core"

// Event drives the coordinator's state machine.
type Event interface {
	event()
}

// LanguageChanged starts a new translation cycle and advances the token.
type LanguageChanged struct {
	Language string
}

// LoansLoaded carries the result of loan fetch number Fetch.
type LoansLoaded struct {
	Fetch uint64
	Loans []core.LoanRecord
	Err   error
}

// TranslationCompleted carries the content produced by the cycle stamped
// with Token, built from the loans of fetch number Fetch.
type TranslationCompleted struct {
	Token    uint64
	Fetch    uint64
	Language string
	Content  Content
}

// Content is the language-dependent part of the view.
type Content struct {
	Loans         []core.LoanRecord
	Notifications []core.Notification
	Labels        map[string]string
}

func (LanguageChanged) event()      {}
func (LoansLoaded) event()          {}
func (TranslationCompleted) event() {}
