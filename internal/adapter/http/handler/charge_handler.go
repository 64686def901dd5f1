package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobilling/internal/adapter/http/dto"
	"github.com/iho/gobilling/internal/domain"
	"github.com/iho/gobilling/internal/usecase"
)

// ChargeService defines the behavior needed by ChargeHandler.
type ChargeService interface {
	CreateCharge(ctx context.Context, input usecase.CreateChargeInput) (*domain.Charge, error)
	GetCharge(ctx context.Context, id string) (*domain.Charge, error)
	ListCharges(ctx context.Context, accountID string) ([]*domain.Charge, error)
	UninvoicedWithTotal(ctx context.Context, accountID string) ([]*domain.Charge, domain.Total, error)
	UninvoicedInCurrency(ctx context.Context, accountID, currency string) ([]*domain.Charge, error)
}

// ChargeHandler handles charge-related HTTP requests.
type ChargeHandler struct {
	chargeUC ChargeService
}

// NewChargeHandler creates a new ChargeHandler.
func NewChargeHandler(chargeUC ChargeService) *ChargeHandler {
	return &ChargeHandler{chargeUC: chargeUC}
}

// Create adds a charge or credit to the account in the path.
func (h *ChargeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateChargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	charge, err := h.chargeUC.CreateCharge(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "failed to create charge", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ChargeFromDomain(charge))
}

// Get retrieves a charge by ID.
func (h *ChargeHandler) Get(w http.ResponseWriter, r *http.Request) {
	charge, err := h.chargeUC.GetCharge(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get charge", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ChargeFromDomain(charge))
}

// ListByAccount lists every charge of an account.
func (h *ChargeHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	charges, err := h.chargeUC.ListCharges(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to list charges", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListChargesResponse{Charges: dto.ChargesFromDomain(charges)})
}

// Uninvoiced lists the charges of an account not yet on an invoice. With a
// currency query parameter only that currency is listed; otherwise the
// per-currency total is included.
func (h *ChargeHandler) Uninvoiced(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")

	if currency := r.URL.Query().Get("currency"); currency != "" {
		charges, err := h.chargeUC.UninvoicedInCurrency(r.Context(), accountID, currency)
		if err != nil {
			writeDomainError(w, "failed to list uninvoiced charges", err)
			return
		}
		writeJSON(w, http.StatusOK, dto.ListChargesResponse{Charges: dto.ChargesFromDomain(charges)})
		return
	}

	charges, total, err := h.chargeUC.UninvoicedWithTotal(r.Context(), accountID)
	if err != nil {
		writeDomainError(w, "failed to list uninvoiced charges", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ChargesWithTotalResponse{
		Charges: dto.ChargesFromDomain(charges),
		Total:   total,
	})
}
