package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"loandash/internal/core"
	applog "loandash/internal/log"
	"loandash/internal/loans"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

var (
	_ loans.Store           = (*SQLiteRepository)(nil)
	_ loans.Writer          = (*SQLiteRepository)(nil)
	_ loans.PreferenceStore = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const listLoans = `
SELECT id, user_id, loan_type, loan_purpose, loan_amount, emi_amount, payment_date, loan_status
FROM loans
WHERE user_id = ? AND (? = '' OR loan_status = ?)
ORDER BY id`

// List implements loans.Store. Amount columns are read as text and parsed
// permissively, so malformed values count as zero.
func (r *SQLiteRepository) List(ctx context.Context, userID string, filter loans.Filter) ([]core.LoanRecord, error) {
	status := string(filter.Status)
	rows, err := r.db.QueryContext(ctx, listLoans, userID, status, status)
	if err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	defer rows.Close()

	out := make([]core.LoanRecord, 0)
	for rows.Next() {
		var (
			id                  int64
			loan                core.LoanRecord
			amount, emi, status sql.NullString
		)
		if err := rows.Scan(&id, &loan.UserID, &loan.LoanType, &loan.LoanPurpose, &amount, &emi, &loan.PaymentDate, &status); err != nil {
			return nil, fmt.Errorf("scan loan: %w", err)
		}
		loan.ID = strconv.FormatInt(id, 10)
		loan.LoanAmount = core.ParseAmount(amount.String)
		loan.EMIAmount = core.ParseAmount(emi.String)
		loan.Status = core.LoanStatus(status.String)
		out = append(out, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate loans: %w", err)
	}

	return out, nil
}

const insertLoan = `
INSERT INTO loans (user_id, loan_type, loan_purpose, loan_amount, emi_amount, payment_date, loan_status)
VALUES (?, ?, ?, ?, ?, ?, ?)`

// Create implements loans.Writer
func (r *SQLiteRepository) Create(ctx context.Context, loan core.LoanRecord) (core.LoanRecord, error) {
	if err := loan.Validate(); err != nil {
		return core.LoanRecord{}, err
	}

	res, err := r.db.ExecContext(ctx, insertLoan,
		loan.UserID,
		loan.LoanType,
		loan.LoanPurpose,
		loan.LoanAmount.String(),
		loan.EMIAmount.String(),
		loan.PaymentDate,
		string(loan.Status))
	if err != nil {
		return core.LoanRecord{}, fmt.Errorf("insert loan: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.LoanRecord{}, fmt.Errorf("last insert id: %w", err)
	}
	loan.ID = strconv.FormatInt(id, 10)

	slog.InfoContext(ctx, "Loan saved to SQLite",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldLoanID, loan.ID,
		applog.FieldUserID, loan.UserID,
		applog.FieldLoanType, loan.LoanType)

	return loan, nil
}

// Language implements loans.PreferenceStore
func (r *SQLiteRepository) Language(ctx context.Context, userID string) (string, error) {
	var lang string
	err := r.db.QueryRowContext(ctx,
		`SELECT language FROM language_preferences WHERE user_id = ?`, userID).Scan(&lang)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get language preference: %w", err)
	}
	return lang, nil
}

// SetLanguage implements loans.PreferenceStore
func (r *SQLiteRepository) SetLanguage(ctx context.Context, userID, lang string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO language_preferences (user_id, language, updated_at)
VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (user_id) DO UPDATE SET language = excluded.language, updated_at = CURRENT_TIMESTAMP`,
		userID, lang)
	if err != nil {
		return fmt.Errorf("set language preference: %w", err)
	}
	return nil
}
