package core

import "github.com/shopspring/decimal"

// Aggregate folds loans into summary statistics.
//
// Sums cover every loan whatever its status; loans with a status other than
// active or completed are counted in neither bucket. Decimal addition keeps
// the result identical for any input order.
func Aggregate(loans []LoanRecord) Stats {
	stats := Stats{
		TotalLoanAmount: decimal.Zero,
		TotalEMI:        decimal.Zero,
	}
	for _, l := range loans {
		stats.TotalLoanAmount = stats.TotalLoanAmount.Add(l.LoanAmount)
		stats.TotalEMI = stats.TotalEMI.Add(l.EMIAmount)
		switch l.Status {
		case StatusActive:
			stats.ActiveLoans++
		case StatusCompleted:
			stats.CompletedLoans++
		}
	}
	return stats
}
