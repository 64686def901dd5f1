package domain

import "time"

// InvoiceStatus is the settlement state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "PENDING"
	InvoiceStatusPastDue   InvoiceStatus = "PAST_DUE"
	InvoiceStatusPayed     InvoiceStatus = "PAYED"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

const (
	EventMarkPastDue Event = "mark_past_due"
	EventPay         Event = "pay"
	EventCancel      Event = "cancel"
)

// PayableInvoiceStatuses are the states from which an invoice can be paid.
var PayableInvoiceStatuses = []InvoiceStatus{InvoiceStatusPending, InvoiceStatusPastDue}

var invoiceMachine = NewMachine("invoice",
	Transition[InvoiceStatus]{Event: EventMarkPastDue, Sources: []InvoiceStatus{InvoiceStatusPending}, Target: InvoiceStatusPastDue},
	Transition[InvoiceStatus]{Event: EventPay, Sources: PayableInvoiceStatuses, Target: InvoiceStatusPayed},
	Transition[InvoiceStatus]{Event: EventCancel, Sources: PayableInvoiceStatuses, Target: InvoiceStatusCancelled},
)

// Invoice groups charges of one account. Its charges and transactions are the
// rows whose invoice reference points at it.
type Invoice struct {
	ID         string
	AccountID  string
	Status     InvoiceStatus
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// NewInvoice creates a pending invoice.
func NewInvoice(id, accountID string, now time.Time) *Invoice {
	return &Invoice{
		ID:         id,
		AccountID:  accountID,
		Status:     InvoiceStatusPending,
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

// MarkPastDue moves a pending invoice to past-due.
func (i *Invoice) MarkPastDue(now time.Time) error {
	return i.fire(EventMarkPastDue, now)
}

// Pay settles a pending or past-due invoice.
func (i *Invoice) Pay(now time.Time) error {
	return i.fire(EventPay, now)
}

// Cancel cancels a pending or past-due invoice.
func (i *Invoice) Cancel(now time.Time) error {
	return i.fire(EventCancel, now)
}

// InPayableState reports whether Pay is currently legal.
func (i *Invoice) InPayableState() bool {
	return invoiceMachine.Can(i.Status, EventPay)
}

// Fire applies the named event. Used by callers that dispatch on event names.
func (i *Invoice) Fire(event Event, now time.Time) error {
	return i.fire(event, now)
}

func (i *Invoice) fire(event Event, now time.Time) error {
	next, err := invoiceMachine.Fire(i.Status, event)
	if err != nil {
		return err
	}
	i.Status = next
	i.ModifiedAt = now
	return nil
}
