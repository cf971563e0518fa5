package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"

	"loandash/internal/core"
	"loandash/internal/loans"
)

// Store keeps loans and language preferences in process memory.
type Store struct {
	mu     sync.Mutex
	nextID int64
	items  []core.LoanRecord
	langs  map[string]string
}

var (
	_ loans.Store           = (*Store)(nil)
	_ loans.Writer          = (*Store)(nil)
	_ loans.PreferenceStore = (*Store)(nil)
)

func New(seed ...core.LoanRecord) *Store {
	s := &Store{langs: make(map[string]string)}
	for _, l := range seed {
		s.insert(l)
	}
	return s
}

// NewFromFile seeds the store from a JSON array of loans. A missing file
// yields an empty store.
func NewFromFile(path string) (*Store, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed []core.LoanRecord
	if err := json.Unmarshal(b, &seed); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return New(seed...), nil
}

// List returns copies of the user's loans matching filter.
func (s *Store) List(_ context.Context, userID string, filter loans.Filter) ([]core.LoanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.LoanRecord, 0)
	for _, l := range s.items {
		if l.UserID == userID && filter.Matches(l) {
			out = append(out, l)
		}
	}
	return out, nil
}

// Create validates and stores the loan with a sequential ID.
func (s *Store) Create(_ context.Context, loan core.LoanRecord) (core.LoanRecord, error) {
	if err := loan.Validate(); err != nil {
		return core.LoanRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	loan.ID = ""
	return s.insert(loan), nil
}

// insert assigns the next sequential ID to loans without one. Numeric seed
// IDs move the sequence past them so minted IDs never collide.
func (s *Store) insert(l core.LoanRecord) core.LoanRecord {
	if l.ID == "" {
		s.nextID++
		l.ID = strconv.FormatInt(s.nextID, 10)
	} else if n, err := strconv.ParseInt(l.ID, 10, 64); err == nil && n > s.nextID {
		s.nextID = n
	}
	s.items = append(s.items, l)
	return l
}

func (s *Store) Language(_ context.Context, userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.langs[userID], nil
}

func (s *Store) SetLanguage(_ context.Context, userID, lang string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.langs[userID] = lang
	return nil
}
