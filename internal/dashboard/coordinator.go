// Package dashboard orchestrates one user's dashboard view: loan fetch,
// statistics, notifications and translation into the selected language.
//
// The Coordinator is an explicit state machine (Idle, Translating) fed by
// LanguageChanged, LoansLoaded and TranslationCompleted events. Every
// language change advances a sequence token; a cycle's results are only
// committed while its token is still current, so a slow cycle for an old
// language can never overwrite a newer one. Loan fetches are sequenced on
// their own counter and are not cancelled by a language change.
package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"loandash/internal/core"
	"loandash/internal/loans"
	applog "loandash/internal/log"
)

type State string

const (
	StateIdle        State = "idle"
	StateTranslating State = "translating"
)

// FetchErrorMessage is shown when the loan store cannot be reached.
const FetchErrorMessage = "Failed to fetch loans data"

// Translator translates a list of strings, same length and order.
// translation.Batcher implements it.
type Translator interface {
	TranslateAll(ctx context.Context, items []string, lang string) []string
}

// View is the observable dashboard state.
type View struct {
	Language      string              `json:"language"`
	State         State               `json:"state"`
	Token         uint64              `json:"token"`
	Loans         []core.LoanRecord   `json:"loans"`
	Stats         core.Stats          `json:"stats"`
	Notifications []core.Notification `json:"notifications"`
	Labels        map[string]string   `json:"labels"`
	FetchError    string              `json:"fetchError,omitempty"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

type Coordinator struct {
	userID     string
	store      loans.Store
	prefs      loans.PreferenceStore
	translator Translator
	now        func() time.Time

	startOnce sync.Once

	mu           sync.Mutex
	state        State
	lang         string
	token        uint64
	fetchSeq     uint64 // last fetch started
	contentFetch uint64 // fetch behind the committed content
	rawLoans     []core.LoanRecord
	view         View
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithPreferences persists language changes and restores them on Start.
func WithPreferences(prefs loans.PreferenceStore) Option {
	return func(c *Coordinator) { c.prefs = prefs }
}

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// New creates a coordinator for userID. Nothing is fetched until Start.
func New(userID string, store loans.Store, translator Translator, opts ...Option) *Coordinator {
	c := &Coordinator{
		userID:     userID,
		store:      store,
		translator: translator,
		now:        time.Now,
		state:      StateIdle,
		lang:       core.DefaultLanguage,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.view = View{
		Language:      c.lang,
		State:         c.state,
		Loans:         []core.LoanRecord{},
		Notifications: []core.Notification{},
		Labels:        labelMap(LabelSources()),
	}
	return c
}

// Start restores the stored language preference and runs the first cycle.
// Later calls return immediately once the first has finished.
func (c *Coordinator) Start(ctx context.Context) View {
	c.startOnce.Do(func() {
		lang := core.DefaultLanguage
		if c.prefs != nil {
			stored, err := c.prefs.Language(ctx, c.userID)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to read language preference",
					applog.FieldComponent, applog.ComponentDashboard,
					applog.FieldUserID, c.userID,
					applog.FieldError, err)
			} else if stored != "" {
				lang = stored
			}
		}
		c.Dispatch(LanguageChanged{Language: lang})
		c.runCycle(ctx)
	})
	return c.View()
}

// ChangeLanguage switches the dashboard to lang, persists the choice and
// re-runs fetch and translation. If another change arrives before this
// cycle finishes, this cycle's content is discarded.
func (c *Coordinator) ChangeLanguage(ctx context.Context, lang string) View {
	c.startOnce.Do(func() {}) // an explicit choice replaces the stored one
	c.Dispatch(LanguageChanged{Language: lang})

	if c.prefs != nil {
		if err := c.prefs.SetLanguage(ctx, c.userID, c.Language()); err != nil {
			slog.ErrorContext(ctx, "Failed to persist language preference",
				applog.FieldComponent, applog.ComponentDashboard,
				applog.FieldUserID, c.userID,
				applog.FieldError, err)
		}
	}

	c.runCycle(ctx)
	return c.View()
}

// Refresh refetches loans for the current language, e.g. after a loan was
// added. The language token is not advanced.
func (c *Coordinator) Refresh(ctx context.Context) View {
	c.mu.Lock()
	c.state = StateTranslating
	c.view.State = c.state
	c.mu.Unlock()

	c.runCycle(ctx)
	return c.View()
}

// runCycle performs fetch -> aggregate/generate -> translate for the token
// current at entry. Static labels do not depend on loans and are translated
// while the fetch is in flight.
func (c *Coordinator) runCycle(ctx context.Context) {
	c.mu.Lock()
	token, lang := c.token, c.lang
	c.fetchSeq++
	fetch := c.fetchSeq
	c.mu.Unlock()

	var (
		g      errgroup.Group
		labels map[string]string
		loaded []core.LoanRecord
	)
	g.Go(func() error {
		labels = labelMap(c.translator.TranslateAll(ctx, LabelSources(), lang))
		return nil
	})
	g.Go(func() error {
		var err error
		loaded, err = c.store.List(ctx, c.userID, loans.Filter{})
		return err
	})
	fetchErr := g.Wait()

	c.Dispatch(LoansLoaded{Fetch: fetch, Loans: loaded, Err: fetchErr})

	raw := c.committedLoans()
	notifications := core.GenerateNotifications(core.FilterByStatus(raw, core.StatusActive), c.now(), lang)
	content := c.translateLoanContent(ctx, raw, notifications, lang)
	content.Labels = labels

	c.Dispatch(TranslationCompleted{Token: token, Fetch: fetch, Language: lang, Content: content})
}

// translateLoanContent translates loan types and purposes, plus the
// notifications when lang has no native templates, in one batch.
func (c *Coordinator) translateLoanContent(ctx context.Context, raw []core.LoanRecord, notifications []core.Notification, lang string) Content {
	content := Content{
		Loans:         append([]core.LoanRecord(nil), raw...),
		Notifications: notifications,
	}
	if core.IsDefaultLanguage(lang) {
		return content
	}

	translateNotifications := !core.HasTemplates(lang)
	items := make([]string, 0, 2*len(raw)+2*len(notifications))
	for _, l := range raw {
		items = append(items, l.LoanType, l.LoanPurpose)
	}
	if translateNotifications {
		for _, n := range notifications {
			items = append(items, n.Title, n.Message)
		}
	}
	if len(items) == 0 {
		return content
	}

	out := c.translator.TranslateAll(ctx, items, lang)
	if len(out) != len(items) {
		return content
	}

	i := 0
	for j := range content.Loans {
		content.Loans[j].LoanType = out[i]
		content.Loans[j].LoanPurpose = out[i+1]
		i += 2
	}
	if translateNotifications {
		translated := make([]core.Notification, len(notifications))
		for j, n := range notifications {
			n.Title = out[i]
			n.Message = out[i+1]
			translated[j] = n
			i += 2
		}
		content.Notifications = translated
	}
	return content
}

// Dispatch applies an event and reports whether it changed observable
// state. Stale loan loads and stale translation results are dropped.
func (c *Coordinator) Dispatch(ev Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch e := ev.(type) {
	case LanguageChanged:
		lang := core.NormalizeLanguage(e.Language)
		if lang == "" {
			lang = core.DefaultLanguage
		}
		c.token++
		c.lang = lang
		c.state = StateTranslating
		c.view.Language = lang
		c.view.Token = c.token
		c.view.State = c.state
		return true

	case LoansLoaded:
		if e.Fetch != c.fetchSeq {
			slog.Debug("Discarding superseded loan fetch",
				applog.FieldComponent, applog.ComponentDashboard,
				applog.FieldUserID, c.userID,
				applog.FieldFetchSeq, e.Fetch)
			return false
		}
		if e.Err != nil {
			slog.Error("Loan fetch failed",
				applog.FieldComponent, applog.ComponentDashboard,
				applog.FieldUserID, c.userID,
				applog.FieldOperation, applog.OpFetch,
				applog.FieldError, e.Err)
			c.view.FetchError = FetchErrorMessage
			return true
		}
		c.rawLoans = append([]core.LoanRecord(nil), e.Loans...)
		c.view.Stats = core.Aggregate(c.rawLoans)
		c.view.FetchError = ""
		return true

	case TranslationCompleted:
		if e.Token != c.token || e.Fetch < c.contentFetch {
			slog.Debug("Discarding stale translation cycle",
				applog.FieldComponent, applog.ComponentDashboard,
				applog.FieldUserID, c.userID,
				applog.FieldLanguage, e.Language,
				applog.FieldToken, e.Token)
			return false
		}
		c.contentFetch = e.Fetch
		c.state = StateIdle
		c.view.State = c.state
		c.view.Loans = nonNilLoans(e.Content.Loans)
		c.view.Notifications = nonNilNotifications(e.Content.Notifications)
		if e.Content.Labels != nil {
			c.view.Labels = e.Content.Labels
		}
		c.view.UpdatedAt = c.now()
		slog.Debug("Dashboard content committed",
			applog.FieldComponent, applog.ComponentDashboard,
			applog.FieldUserID, c.userID,
			applog.FieldLanguage, e.Language,
			applog.FieldToken, e.Token,
			applog.FieldLoanCount, len(c.view.Loans),
			applog.FieldNotifications, len(c.view.Notifications))
		return true
	}
	return false
}

// View returns a snapshot of the observable state.
func (c *Coordinator) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := c.view
	v.Loans = append(make([]core.LoanRecord, 0, len(c.view.Loans)), c.view.Loans...)
	v.Notifications = append(make([]core.Notification, 0, len(c.view.Notifications)), c.view.Notifications...)
	v.Labels = make(map[string]string, len(c.view.Labels))
	for k, s := range c.view.Labels {
		v.Labels[k] = s
	}
	return v
}

func (c *Coordinator) Language() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lang
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Token returns the current language sequence token.
func (c *Coordinator) Token() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Coordinator) UserID() string {
	return c.userID
}

func (c *Coordinator) committedLoans() []core.LoanRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]core.LoanRecord(nil), c.rawLoans...)
}

func nonNilLoans(in []core.LoanRecord) []core.LoanRecord {
	if in == nil {
		return []core.LoanRecord{}
	}
	return in
}

func nonNilNotifications(in []core.Notification) []core.Notification {
	if in == nil {
		return []core.Notification{}
	}
	return in
}
