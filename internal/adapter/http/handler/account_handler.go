package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobilling/internal/adapter/http/dto"
	"github.com/iho/gobilling/internal/domain"
	"github.com/iho/gobilling/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
	ListOpenWithUninvoicedCharges(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
	CloseAccount(ctx context.Context, id string) (*domain.Account, error)
	ReopenAccount(ctx context.Context, id string) (*domain.Account, error)
	Balance(ctx context.Context, accountID string, asOf *time.Time) (domain.Total, error)
	HasPastDueInvoices(ctx context.Context, accountID string) (bool, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Create creates a new account.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create account", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	input := usecase.ListAccountsInput{
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	}

	accounts, err := h.accountUC.ListAccounts(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to list accounts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts),
		Total:    int64(len(accounts)),
	})
}

// ListBillable lists open accounts that have uninvoiced charges.
func (h *AccountHandler) ListBillable(w http.ResponseWriter, r *http.Request) {
	input := usecase.ListAccountsInput{
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	}

	accounts, err := h.accountUC.ListOpenWithUninvoicedCharges(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to list billable accounts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts),
		Total:    int64(len(accounts)),
	})
}

// Close closes an open account.
func (h *AccountHandler) Close(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountUC.CloseAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to close account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Reopen reopens a closed account.
func (h *AccountHandler) Reopen(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountUC.ReopenAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to reopen account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Balance returns successful transactions minus charges per currency,
// optionally as of the as_of query parameter.
func (h *AccountHandler) Balance(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseTimeQuery(r, "as_of")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid as_of", err.Error())
		return
	}

	balance, err := h.accountUC.Balance(r.Context(), chi.URLParam(r, "id"), asOf)
	if err != nil {
		writeDomainError(w, "failed to compute balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TotalResponse{Total: balance})
}

// PastDue reports whether the account has any past-due invoice.
func (h *AccountHandler) PastDue(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	pastDue, err := h.accountUC.HasPastDueInvoices(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to check past-due invoices", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PastDueResponse{AccountID: id, PastDue: pastDue})
}
