// Package sheets reads loans from a Google spreadsheet. The sheet is treated
// as an external source of truth and is never written to.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"loandash/internal/cache"
	"loandash/internal/core"
	"loandash/internal/loans"
	applog "loandash/internal/log"
)

const (
	DefaultSheetName = "Loans"
	defaultCacheTTL  = time.Minute
	maxCachedUsers   = 500
)

// Config selects the spreadsheet and the credentials used to read it.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON []byte
	CacheTTL        time.Duration
}

// Client is a read-only loans.Store backed by one sheet. Rows are cached
// per user for CacheTTL.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	rows          *cache.LRUCache[[]core.LoanRecord]
}

var (
	_ loans.Store  = (*Client)(nil)
	_ loans.Writer = (*Client)(nil)
)

// New creates a client. When cfg carries service account JSON it is used
// for a read-only scope; extra opts are passed to the Sheets service.
func New(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	sheet := strings.TrimSpace(cfg.SheetName)
	if sheet == "" {
		sheet = DefaultSheetName
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	if len(cfg.CredentialsJSON) > 0 {
		creds, err := google.CredentialsFromJSON(ctx, cfg.CredentialsJSON, gsheet.SpreadsheetsReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("parse service account credentials: %w", err)
		}
		opts = append(opts, option.WithCredentials(creds))
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets loan store ready",
		applog.FieldComponent, applog.ComponentSheets,
		"sheet", sheet)

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     sheet,
		rows:          cache.NewLRUCache[[]core.LoanRecord](maxCachedUsers, ttl),
	}, nil
}

// Cache exposes the row cache so it can be registered with a cache.Manager.
func (c *Client) Cache() *cache.LRUCache[[]core.LoanRecord] {
	return c.rows
}

// List reads the user's loans. A cached read is reused until it expires.
func (c *Client) List(ctx context.Context, userID string, filter loans.Filter) ([]core.LoanRecord, error) {
	all, ok := c.rows.Get(userID)
	if !ok {
		rng := fmt.Sprintf("%s!A:H", c.sheetName)
		resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", rng, err)
		}
		parsed, err := parseLoans(resp.Values)
		if err != nil {
			return nil, err
		}
		all = make([]core.LoanRecord, 0)
		for _, l := range parsed {
			if l.UserID == userID {
				all = append(all, l)
			}
		}
		c.rows.Set(userID, all)
		slog.DebugContext(ctx, "Loaded loans from sheet",
			applog.FieldComponent, applog.ComponentSheets,
			applog.FieldUserID, userID,
			applog.FieldLoanCount, len(all))
	}

	out := make([]core.LoanRecord, 0, len(all))
	for _, l := range all {
		if filter.Matches(l) {
			out = append(out, l)
		}
	}
	return out, nil
}

// Create always fails: loans are maintained in the spreadsheet itself.
func (c *Client) Create(context.Context, core.LoanRecord) (core.LoanRecord, error) {
	return core.LoanRecord{}, loans.ErrReadOnly
}

var loanColumns = []string{"ID", "UserID", "LoanType", "LoanPurpose", "LoanAmount", "EMIAmount", "PaymentDate", "Status"}

// parseLoans converts a values matrix whose first row holds the column
// headers. Header order is free and matching ignores case. Rows without an
// ID are skipped; amounts go through core.ParseAmount.
func parseLoans(values [][]interface{}) ([]core.LoanRecord, error) {
	if len(values) == 0 {
		return nil, nil
	}
	headers := toStrings(values[0])
	cols := make(map[string]int, len(loanColumns))
	var missing []string
	for _, name := range loanColumns {
		idx := indexOf(headers, name)
		if idx == -1 {
			missing = append(missing, name)
		}
		cols[name] = idx
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("unexpected loans header: missing %s; got headers=%v", strings.Join(missing, ","), headers)
	}

	out := make([]core.LoanRecord, 0, len(values)-1)
	for _, raw := range values[1:] {
		row := toStrings(raw)
		id := safeGet(row, cols["ID"])
		if id == "" {
			continue
		}
		day, _ := strconv.Atoi(safeGet(row, cols["PaymentDate"]))
		out = append(out, core.LoanRecord{
			ID:          id,
			UserID:      safeGet(row, cols["UserID"]),
			LoanType:    safeGet(row, cols["LoanType"]),
			LoanPurpose: safeGet(row, cols["LoanPurpose"]),
			LoanAmount:  core.ParseAmount(safeGet(row, cols["LoanAmount"])),
			EMIAmount:   core.ParseAmount(safeGet(row, cols["EMIAmount"])),
			PaymentDate: day,
			Status:      core.LoanStatus(strings.ToLower(safeGet(row, cols["Status"]))),
		})
	}
	return out, nil
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(v, target) {
			return i
		}
	}
	return -1
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
