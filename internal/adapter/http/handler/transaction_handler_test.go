package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/gobilling/internal/adapter/http/dto"
	"github.com/iho/gobilling/internal/domain"
	"github.com/iho/gobilling/internal/usecase"
)

type transactionServiceStub struct {
	recordFn func(ctx context.Context, input usecase.RecordTransactionInput) (*domain.Transaction, error)
	getFn    func(ctx context.Context, id string) (*domain.Transaction, error)
	listFn   func(ctx context.Context, input usecase.ListSuccessfulInput) ([]*domain.Transaction, error)
}

func (s *transactionServiceStub) RecordTransaction(ctx context.Context, input usecase.RecordTransactionInput) (*domain.Transaction, error) {
	return s.recordFn(ctx, input)
}

func (s *transactionServiceStub) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return s.getFn(ctx, id)
}

func (s *transactionServiceStub) ListSuccessful(ctx context.Context, input usecase.ListSuccessfulInput) ([]*domain.Transaction, error) {
	return s.listFn(ctx, input)
}

func TestTransactionHandler_Record(t *testing.T) {
	var captured usecase.RecordTransactionInput
	handler := NewTransactionHandler(&transactionServiceStub{
		recordFn: func(ctx context.Context, input usecase.RecordTransactionInput) (*domain.Transaction, error) {
			captured = input
			return &domain.Transaction{
				ID:        "tr-1",
				AccountID: input.AccountID,
				Amount:    domain.MustMoney("-2", "USD"),
				Success:   input.Success,
				Provider:  domain.ProviderRef{Kind: input.ProviderKind, ID: input.ProviderID},
			}, nil
		},
	})

	body := `{"amount":"-2","currency":"USD","success":true,"payment_method":"CC","psp_kind":"stripe","psp_id":"re_1"}`
	req := setChiURLParam(httptest.NewRequest(http.MethodPost, "/accounts/acc-1/transactions", bytes.NewBufferString(body)), "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.Record(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.AccountID != "acc-1" || captured.ProviderKind != "stripe" || !captured.Success {
		t.Fatalf("unexpected input %+v", captured)
	}

	var resp dto.TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Type != "Refund" || resp.ProviderID != "re_1" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestTransactionHandler_Record_UnknownInvoice(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		recordFn: func(ctx context.Context, input usecase.RecordTransactionInput) (*domain.Transaction, error) {
			return nil, domain.ErrInvoiceNotFound
		},
	})

	body := `{"invoice_id":"nope","amount":"1","currency":"USD","psp_kind":"stripe","psp_id":"ch_1"}`
	req := setChiURLParam(httptest.NewRequest(http.MethodPost, "/accounts/acc-1/transactions", bytes.NewBufferString(body)), "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.Record(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestTransactionHandler_ListSuccessful(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		listFn: func(ctx context.Context, input usecase.ListSuccessfulInput) ([]*domain.Transaction, error) {
			if input.AccountID != "acc-1" || input.Limit != 20 || input.Offset != 0 {
				t.Fatalf("unexpected input %+v", input)
			}
			return []*domain.Transaction{{ID: "tr-1", Amount: domain.MustMoney("5", "USD"), Success: true}}, nil
		},
	})

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/accounts/acc-1/transactions", nil), "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.ListSuccessful(rec, req)

	var resp dto.ListTransactionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Transactions) != 1 || resp.Transactions[0].Type != "Payment" {
		t.Fatalf("unexpected transactions %+v", resp.Transactions)
	}
}
