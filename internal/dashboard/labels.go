package dashboard

// label is one static UI string with its stable key.
type label struct {
	Key    string
	Source string
}

// staticLabels are translated on every language change, independently of
// the user's loans.
var staticLabels = []label{
	{"overviewTitle", "Overview"},
	{"dashboardDesc", "Manage your loans and track EMI payments"},
	{"addLoanText", "Add New Loan"},
	{"notificationsTitle", "Notifications"},
	{"noNotifications", "No new notifications"},
	{"totalLoan", "Total Loan Amount"},
	{"monthlyEMI", "Monthly EMI"},
	{"activeLoans", "Active Loans"},
	{"completedLoans", "Completed Loans"},
	{"loans", "Loans"},
	{"analytics", "Analytics"},
	{"calendar", "Calendar"},
}

// LabelSources returns the untranslated static strings in catalogue order.
func LabelSources() []string {
	out := make([]string, len(staticLabels))
	for i, l := range staticLabels {
		out[i] = l.Source
	}
	return out
}

func labelMap(translated []string) map[string]string {
	out := make(map[string]string, len(staticLabels))
	for i, l := range staticLabels {
		if i < len(translated) {
			out[l.Key] = translated[i]
		} else {
			out[l.Key] = l.Source
		}
	}
	return out
}
