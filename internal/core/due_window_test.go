package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysUntilDue(t *testing.T) {
	midday := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)
	midnight := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		today       time.Time
		paymentDate int
		want        int
	}{
		{"same day midday rounds to zero", midday, 15, 0},
		{"same day at midnight", midnight, 15, 0},
		{"tomorrow", midday, 16, 1},
		{"three days ahead", midday, 18, 3},
		{"five days ahead", midday, 20, 5},
		{"six days ahead", midday, 21, 6},
		{"yesterday", midday, 14, -1},
		{"two days ago", midday, 13, -2},
		{"start of month", midday, 1, -14},
		{"exact days at midnight", midnight, 18, 3},
		{"exact past days at midnight", midnight, 13, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysUntilDue(tt.today, tt.paymentDate))
		})
	}
}

func TestDaysUntilDue_MonthOverflowRollsForward(t *testing.T) {
	// September has 30 days: the 31st becomes October 1st.
	today := time.Date(2026, 9, 28, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, DaysUntilDue(today, 31))

	// February 2026 has 28 days: the 30th becomes March 2nd.
	feb := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, DaysUntilDue(feb, 30))
}

func TestDaysUntilDue_NextMonthNotConsidered(t *testing.T) {
	// Day 1 evaluated on the 28th is reported as overdue, not as due in a few days.
	today := time.Date(2026, 10, 28, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, -27, DaysUntilDue(today, 1))
}

func TestDaysUntilDue_UsesTodayLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	today := time.Date(2026, 9, 15, 23, 0, 0, 0, ist)
	assert.Equal(t, 1, DaysUntilDue(today, 16))
}
