package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobilling/internal/adapter/http/dto"
	"github.com/iho/gobilling/internal/domain"
	"github.com/iho/gobilling/internal/usecase"
)

// InvoiceService defines the behavior needed by InvoiceHandler.
type InvoiceService interface {
	CreateInvoice(ctx context.Context, accountID string) (*domain.Invoice, error)
	GetInvoice(ctx context.Context, id string) (*domain.Invoice, error)
	MarkPastDue(ctx context.Context, id string) (*domain.Invoice, error)
	Pay(ctx context.Context, id string) (*domain.Invoice, error)
	Cancel(ctx context.Context, id string) (*domain.Invoice, error)
	MarkOverdue(ctx context.Context, cutoff time.Time) (int, error)
	Total(ctx context.Context, id string) (domain.Total, error)
	ListPayable(ctx context.Context, input usecase.ListInvoicesInput) ([]*domain.Invoice, error)
	ListByAccount(ctx context.Context, accountID string, input usecase.ListInvoicesInput) ([]*domain.Invoice, error)
	ListCharges(ctx context.Context, id string) ([]*domain.Charge, error)
	ListTransactions(ctx context.Context, id string) ([]*domain.Transaction, error)
}

// InvoiceHandler handles invoice-related HTTP requests.
type InvoiceHandler struct {
	invoiceUC InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceUC InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceUC: invoiceUC}
}

// Create invoices every uninvoiced charge of the account in the path.
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	invoice, err := h.invoiceUC.CreateInvoice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to create invoice", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.InvoiceFromDomain(invoice))
}

// Get retrieves an invoice by ID.
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	invoice, err := h.invoiceUC.GetInvoice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get invoice", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.InvoiceFromDomain(invoice))
}

// MarkPastDue moves a pending invoice to past due.
func (h *InvoiceHandler) MarkPastDue(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "failed to mark invoice past due", h.invoiceUC.MarkPastDue)
}

// Pay settles an invoice.
func (h *InvoiceHandler) Pay(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "failed to pay invoice", h.invoiceUC.Pay)
}

// Cancel cancels an invoice.
func (h *InvoiceHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "failed to cancel invoice", h.invoiceUC.Cancel)
}

func (h *InvoiceHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	message string,
	fire func(ctx context.Context, id string) (*domain.Invoice, error),
) {
	invoice, err := fire(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, message, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.InvoiceFromDomain(invoice))
}

// MarkOverdue marks past due every pending invoice created before the cutoff
// query parameter.
func (h *InvoiceHandler) MarkOverdue(w http.ResponseWriter, r *http.Request) {
	cutoff, err := parseTimeQuery(r, "cutoff")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid cutoff", err.Error())
		return
	}
	if cutoff == nil {
		writeError(w, http.StatusBadRequest, "missing cutoff", "")
		return
	}

	moved, err := h.invoiceUC.MarkOverdue(r.Context(), *cutoff)
	if err != nil {
		writeDomainError(w, "failed to mark overdue invoices", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SweepResponse{Cutoff: *cutoff, Moved: moved})
}

// Total returns the per-currency sum of an invoice's charges.
func (h *InvoiceHandler) Total(w http.ResponseWriter, r *http.Request) {
	total, err := h.invoiceUC.Total(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to compute invoice total", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TotalResponse{Total: total})
}

// ListPayable lists pending and past-due invoices.
func (h *InvoiceHandler) ListPayable(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.invoiceUC.ListPayable(r.Context(), usecase.ListInvoicesInput{
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, "failed to list payable invoices", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListInvoicesResponse{Invoices: dto.InvoicesFromDomain(invoices)})
}

// ListByAccount lists the invoices of the account in the path.
func (h *InvoiceHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.invoiceUC.ListByAccount(r.Context(), chi.URLParam(r, "id"), usecase.ListInvoicesInput{
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, "failed to list invoices", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListInvoicesResponse{Invoices: dto.InvoicesFromDomain(invoices)})
}

// ListCharges lists the charges on an invoice.
func (h *InvoiceHandler) ListCharges(w http.ResponseWriter, r *http.Request) {
	charges, err := h.invoiceUC.ListCharges(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to list invoice charges", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListChargesResponse{Charges: dto.ChargesFromDomain(charges)})
}

// ListTransactions lists the transactions linked to an invoice.
func (h *InvoiceHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.invoiceUC.ListTransactions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to list invoice transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{Transactions: dto.TransactionsFromDomain(transactions)})
}
