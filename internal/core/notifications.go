package core

import (
	"strconv"
	"strings"
	"text/template"
	"time"
)

// notificationText is the localized wording for one notification kind.
type notificationText struct {
	Title   string
	Message *template.Template
}

type templateKey struct {
	Kind   NotificationKind
	Locale string
}

// messageData is interpolated into message templates.
type messageData struct {
	LoanType string
	EMI      string
	Days     int
}

// notificationTemplates is keyed by kind and locale; adding a locale means
// adding rows here and a tag to supportedTags.
var notificationTemplates = map[templateKey]notificationText{
	{KindUpcoming, "en-IN"}: {
		Title:   "Upcoming EMI Payment",
		Message: mustMessage("{{.LoanType}} EMI of {{.EMI}} is due in {{.Days}} days"),
	},
	{KindOverdue, "en-IN"}: {
		Title:   "Payment Overdue",
		Message: mustMessage("{{.LoanType}} EMI of {{.EMI}} was due {{.Days}} days ago"),
	},
	{KindUpcoming, "hi-IN"}: {
		Title:   "आगामी ईएमआई भुगतान",
		Message: mustMessage("{{.LoanType}} ईएमआई {{.EMI}} {{.Days}} दिनों में देय है"),
	},
	{KindOverdue, "hi-IN"}: {
		Title:   "बकाया भुगतान",
		Message: mustMessage("{{.LoanType}} ईएमआई {{.EMI}} {{.Days}} दिन पहले देय था"),
	},
}

var severities = map[NotificationKind]Severity{
	KindUpcoming: SeverityInfo,
	KindOverdue:  SeverityWarning,
}

func mustMessage(text string) *template.Template {
	return template.Must(template.New("message").Option("missingkey=error").Parse(text))
}

// HasTemplates reports whether lang is served by a built-in locale rather
// than the default-locale fallback.
func HasTemplates(lang string) bool {
	_, ok := MatchLocale(lang)
	return ok
}

// GenerateNotifications classifies each active loan against today and
// returns at most one notification per loan, in input order.
//
// A loan due in 1 to UpcomingWindowDays days gets an upcoming notification,
// a loan whose day has passed this month gets an overdue one, and anything
// else (due today, or further out) gets none. Loans are not modified.
func GenerateNotifications(loans []LoanRecord, today time.Time, lang string) []Notification {
	locale, _ := MatchLocale(lang)
	out := make([]Notification, 0)

	for _, loan := range loans {
		if loan.Status != StatusActive {
			continue
		}

		days := DaysUntilDue(today, loan.PaymentDate)
		var kind NotificationKind
		switch {
		case days > 0 && days <= UpcomingWindowDays:
			kind = KindUpcoming
		case days < 0:
			kind = KindOverdue
			days = -days
		default:
			continue
		}

		out = append(out, buildNotification(kind, loan, days, locale))
	}

	return out
}

func buildNotification(kind NotificationKind, loan LoanRecord, days int, locale string) Notification {
	text, ok := notificationTemplates[templateKey{kind, locale}]
	if !ok {
		text = notificationTemplates[templateKey{kind, DefaultLanguage}]
	}

	data := messageData{
		LoanType: loan.LoanType,
		EMI:      FormatINR(loan.EMIAmount),
		Days:     days,
	}

	var msg strings.Builder
	if err := text.Message.Execute(&msg, data); err != nil {
		// Templates are static and checked by tests; keep the notification usable.
		msg.Reset()
		msg.WriteString(data.LoanType + " " + data.EMI + " " + strconv.Itoa(days))
	}

	return Notification{
		ID:       NotificationID(kind, loan.ID),
		Kind:     kind,
		Title:    text.Title,
		Message:  msg.String(),
		Severity: severities[kind],
	}
}
