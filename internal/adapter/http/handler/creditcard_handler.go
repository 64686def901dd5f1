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

// CreditCardService defines the behavior needed by CreditCardHandler.
type CreditCardService interface {
	RegisterCard(ctx context.Context, input usecase.RegisterCardInput) (*domain.CreditCard, error)
	GetCard(ctx context.Context, id string) (*domain.CreditCard, error)
	UpdateExpiry(ctx context.Context, id string, month, year int) (*domain.CreditCard, error)
	Deactivate(ctx context.Context, id string) (*domain.CreditCard, error)
	Reactivate(ctx context.Context, id string) (*domain.CreditCard, error)
	IsValid(ctx context.Context, id string, asOf *time.Time) (bool, time.Time, error)
	ListValid(ctx context.Context, accountID string, asOf *time.Time) ([]*domain.CreditCard, error)
	ListExpiringBefore(ctx context.Context, before time.Time, limit, offset int) ([]*domain.CreditCard, error)
}

// CreditCardHandler handles stored card HTTP requests.
type CreditCardHandler struct {
	cardUC CreditCardService
}

// NewCreditCardHandler creates a new CreditCardHandler.
func NewCreditCardHandler(cardUC CreditCardService) *CreditCardHandler {
	return &CreditCardHandler{cardUC: cardUC}
}

// Register stores a card for the account in the path.
func (h *CreditCardHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	card, err := h.cardUC.RegisterCard(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "failed to register card", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CreditCardFromDomain(card))
}

// Get retrieves a card by ID.
func (h *CreditCardHandler) Get(w http.ResponseWriter, r *http.Request) {
	card, err := h.cardUC.GetCard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get card", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CreditCardFromDomain(card))
}

// UpdateExpiry changes the expiry month and year of a card.
func (h *CreditCardHandler) UpdateExpiry(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateExpiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	card, err := h.cardUC.UpdateExpiry(r.Context(), chi.URLParam(r, "id"), req.ExpiryMonth, req.ExpiryYear)
	if err != nil {
		writeDomainError(w, "failed to update expiry", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CreditCardFromDomain(card))
}

// Deactivate deactivates an active card.
func (h *CreditCardHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	card, err := h.cardUC.Deactivate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to deactivate card", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CreditCardFromDomain(card))
}

// Reactivate reactivates an inactive card.
func (h *CreditCardHandler) Reactivate(w http.ResponseWriter, r *http.Request) {
	card, err := h.cardUC.Reactivate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to reactivate card", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CreditCardFromDomain(card))
}

// Validity reports whether a card is usable on the as_of date, today by default.
func (h *CreditCardHandler) Validity(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseTimeQuery(r, "as_of")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid as_of", err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	valid, day, err := h.cardUC.IsValid(r.Context(), id, asOf)
	if err != nil {
		writeDomainError(w, "failed to check card", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ValidityResponse{ID: id, Valid: valid, AsOf: day.Format(time.DateOnly)})
}

// ListValid lists the cards of the account in the path that have not expired.
func (h *CreditCardHandler) ListValid(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseTimeQuery(r, "as_of")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid as_of", err.Error())
		return
	}

	cards, err := h.cardUC.ListValid(r.Context(), chi.URLParam(r, "id"), asOf)
	if err != nil {
		writeDomainError(w, "failed to list valid cards", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListCreditCardsResponse{CreditCards: dto.CreditCardsFromDomain(cards)})
}

// ListExpiring lists cards that expire strictly before the before query parameter.
func (h *CreditCardHandler) ListExpiring(w http.ResponseWriter, r *http.Request) {
	before, err := parseTimeQuery(r, "before")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid before", err.Error())
		return
	}
	if before == nil {
		writeError(w, http.StatusBadRequest, "missing before", "")
		return
	}

	cards, err := h.cardUC.ListExpiringBefore(r.Context(), *before, parseIntQuery(r, "limit", 20), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeDomainError(w, "failed to list expiring cards", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListCreditCardsResponse{CreditCards: dto.CreditCardsFromDomain(cards)})
}
