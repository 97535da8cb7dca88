package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nando/finper/internal/adapter/http/dto"
	"github.com/nando/finper/internal/domain"
	"github.com/nando/finper/internal/infrastructure/metrics"
)

// BalanceService defines the behavior needed by BalanceHandler.
type BalanceService interface {
	CheckBalance(ctx context.Context, accountID string) (*domain.BalanceCheck, error)
	CheckAllBalances(ctx context.Context) (map[string]domain.BalanceCheck, error)
	CorrectBalance(ctx context.Context, accountID string) (*domain.Account, error)
	CorrectStartBalance(ctx context.Context, accountID string) (*domain.Account, error)
}

// BalanceHandler exposes balance verification and the explicit repair
// operations.
type BalanceHandler struct {
	balanceUC BalanceService
	metrics   *metrics.Metrics
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC BalanceService, m *metrics.Metrics) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC, metrics: m}
}

// Check verifies one account's balance against its movements.
func (h *BalanceHandler) Check(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	check, err := h.balanceUC.CheckBalance(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to check balance", err.Error())
		return
	}

	h.countCheck(check.Balanced)

	writeJSON(w, http.StatusOK, dto.BalanceCheckFromDomain(id, check))
}

// CheckAll verifies every account.
func (h *BalanceHandler) CheckAll(w http.ResponseWriter, r *http.Request) {
	checks, err := h.balanceUC.CheckAllBalances(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check balances", err.Error())
		return
	}

	result := make([]*dto.BalanceCheckResponse, 0, len(checks))
	for accountID, check := range checks {
		c := check
		h.countCheck(c.Balanced)
		result = append(result, dto.BalanceCheckFromDomain(accountID, &c))
	}

	writeJSON(w, http.StatusOK, result)
}

// Correct recomputes the account balance from the starting balance plus the
// movement sum.
func (h *BalanceHandler) Correct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	account, err := h.balanceUC.CorrectBalance(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to correct balance", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.BalanceRepairs.WithLabelValues("balance").Inc()
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// CorrectStart recomputes the starting balance from the stored balance minus
// the movement sum.
func (h *BalanceHandler) CorrectStart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	account, err := h.balanceUC.CorrectStartBalance(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to correct start balance", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.BalanceRepairs.WithLabelValues("start_balance").Inc()
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

func (h *BalanceHandler) countCheck(balanced bool) {
	if h.metrics == nil {
		return
	}

	result := "balanced"
	if !balanced {
		result = "drifted"
	}

	h.metrics.BalanceChecks.WithLabelValues(result).Inc()
}
