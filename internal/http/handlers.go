package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"loandash/internal/core"
	"loandash/internal/loans"
	applog "loandash/internal/log"
)

const maxBodyBytes = 1 << 16

type languageRequest struct {
	Language string `json:"language"`
}

type languageResponse struct {
	Language string `json:"language"`
}

type createLoanRequest struct {
	LoanType    string          `json:"loanType"`
	LoanPurpose string          `json:"loanPurpose"`
	LoanAmount  decimal.Decimal `json:"loanAmount"`
	EMIAmount   decimal.Decimal `json:"emiAmount"`
	PaymentDate int             `json:"paymentDate"`
	Status      core.LoanStatus `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.Ready != nil {
		if err := s.deps.Ready(r.Context()); err != nil {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", applog.FieldError, err)
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handleDashboard starts the session on first use and returns its view.
// Fetch failures are reported in the view, never as an HTTP error.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, userID string) {
	ctx, cancel := context.WithTimeout(r.Context(), s.deps.CycleTimeout)
	defer cancel()

	view := s.session(userID).Start(ctx)
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleGetLanguage(w http.ResponseWriter, r *http.Request, userID string) {
	ctx, cancel := context.WithTimeout(r.Context(), s.deps.CycleTimeout)
	defer cancel()

	coord := s.session(userID)
	coord.Start(ctx)
	writeJSON(w, http.StatusOK, languageResponse{Language: coord.Language()})
}

func (s *Server) handleChangeLanguage(w http.ResponseWriter, r *http.Request, userID string) {
	var req languageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	lang := strings.TrimSpace(req.Language)
	if lang != "" {
		if _, err := language.Parse(lang); err != nil {
			writeError(w, http.StatusBadRequest, "invalid language code")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.deps.CycleTimeout)
	defer cancel()

	view := s.session(userID).ChangeLanguage(ctx, lang)
	s.events.LogLanguageChanged(ctx, userID, view.Language, view.Token)
	writeJSON(w, http.StatusOK, view)
}

// handleCreateLoan stores a loan for the caller, announces it and refreshes
// the caller's live dashboard.
func (s *Server) handleCreateLoan(w http.ResponseWriter, r *http.Request, userID string) {
	if s.deps.Writer == nil {
		writeError(w, http.StatusNotImplemented, "loan store is read-only")
		return
	}

	var req createLoanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	status := core.LoanStatus(strings.ToLower(strings.TrimSpace(string(req.Status))))
	if status == "" {
		status = core.StatusActive
	}

	loan, err := s.deps.Writer.Create(r.Context(), core.LoanRecord{
		UserID:      userID,
		LoanType:    strings.TrimSpace(req.LoanType),
		LoanPurpose: strings.TrimSpace(req.LoanPurpose),
		LoanAmount:  req.LoanAmount,
		EMIAmount:   req.EMIAmount,
		PaymentDate: req.PaymentDate,
		Status:      status,
	})
	switch {
	case errors.Is(err, loans.ErrReadOnly):
		writeError(w, http.StatusNotImplemented, "loan store is read-only")
		return
	case errors.Is(err, core.ErrInvalidLoan):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		s.events.LogError(r.Context(), "Loan create failed", err, applog.ComponentLoans, applog.OpCreate,
			applog.NewFields().WithLoan(userID, "", req.LoanType))
		writeError(w, http.StatusInternalServerError, "failed to save loan")
		return
	}
	s.events.LogLoanCreated(r.Context(), userID, loan.ID, loan.LoanType)

	if s.deps.Publisher != nil {
		if err := s.deps.Publisher.PublishLoanChanged(r.Context(), userID, loan.ID); err != nil {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Failed to publish loan change",
				applog.FieldUserID, userID,
				applog.FieldLoanID, loan.ID,
				applog.FieldError, err)
		}
	}

	if coord, ok := s.sessions.Get(userID); ok {
		ctx, cancel := context.WithTimeout(r.Context(), s.deps.CycleTimeout)
		coord.Refresh(ctx)
		cancel()
	}

	writeJSON(w, http.StatusCreated, loan)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
