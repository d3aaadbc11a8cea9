package rentroll

import (
	"context"

	"github.com/xraph/rentroll/credit"
	"github.com/xraph/rentroll/id"
	"github.com/xraph/rentroll/invoice"
	"github.com/xraph/rentroll/types"
)

// IssueCreditNoteInput carries the fields needed to issue a credit note.
type IssueCreditNoteInput struct {
	CustomerID        id.CustomerID
	Amount            types.Money
	Reason            string
	OriginalInvoiceID id.InvoiceID
}

// IssueCreditNote creates and issues a credit note for a customer. The note
// is immediately issued; drafts are not part of the issuing workflow.
func (e *Engine) IssueCreditNote(ctx context.Context, in IssueCreditNoteInput) (*credit.CreditNote, error) {
	if in.CustomerID.IsNil() {
		return nil, ValidationError{Field: "customer_id", Message: "required"}
	}
	if !in.Amount.IsPositive() {
		return nil, ErrInvalidCreditAmount
	}
	if _, err := e.store.GetCustomer(ctx, in.CustomerID); err != nil {
		if IsNotFound(err) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	if !in.OriginalInvoiceID.IsNil() {
		if _, err := e.store.GetInvoice(ctx, in.OriginalInvoiceID); err != nil {
			if IsNotFound(err) {
				return nil, ErrInvoiceNotFound
			}
			return nil, err
		}
	}

	seq, err := e.store.NextCreditNoteNumber(ctx)
	if err != nil {
		return nil, err
	}

	now := e.now(ctx)
	note := &credit.CreditNote{
		ID:                id.NewCreditNoteID(),
		Number:            credit.FormatNumber(seq),
		CustomerID:        in.CustomerID,
		OriginalInvoiceID: in.OriginalInvoiceID,
		TotalAmount:       in.Amount,
		Status:            credit.StatusIssued,
		Reason:            in.Reason,
		IssuedAt:          &now,
	}
	note.Entity = types.NewEntity()

	if err := e.store.CreateCreditNote(ctx, note); err != nil {
		return nil, err
	}

	e.logger.Info("credit note issued",
		"note", note.Number, "customer", note.CustomerID, "amount", note.TotalAmount)
	e.plugins.EmitCreditNoteIssued(ctx, note)
	return note, nil
}

// GetCreditNote looks up one credit note.
func (e *Engine) GetCreditNote(ctx context.Context, noteID id.CreditNoteID) (*credit.CreditNote, error) {
	return e.store.GetCreditNote(ctx, noteID)
}

// ListCreditNotes returns credit notes matching the filter.
func (e *Engine) ListCreditNotes(ctx context.Context, opts credit.ListOpts) ([]*credit.CreditNote, error) {
	return e.store.ListCreditNotes(ctx, opts)
}

// AvailableCredit returns the note's total minus everything already applied.
func (e *Engine) AvailableCredit(ctx context.Context, noteID id.CreditNoteID) (types.Money, error) {
	note, err := e.store.GetCreditNote(ctx, noteID)
	if err != nil {
		return types.Money{}, err
	}
	return e.availableOn(ctx, note)
}

func (e *Engine) availableOn(ctx context.Context, note *credit.CreditNote) (types.Money, error) {
	apps, err := e.store.ListCreditApplications(ctx, note.ID)
	if err != nil {
		return types.Money{}, err
	}
	applied := types.Zero(note.TotalAmount.Currency)
	for _, a := range apps {
		applied = applied.Add(a.Amount)
	}
	return note.TotalAmount.Subtract(applied), nil
}

// ApplyCredit applies part of a credit note against an open invoice. The
// available balance is checked before any write: an amount exceeding it is
// rejected outright, never clamped. Partial applications leave the remainder
// on the note for later use.
func (e *Engine) ApplyCredit(ctx context.Context, noteID id.CreditNoteID, invoiceID id.InvoiceID, amount types.Money) (*credit.CreditApplication, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidCreditAmount
	}

	note, err := e.store.GetCreditNote(ctx, noteID)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrCreditNoteNotFound
		}
		return nil, err
	}
	if note.Status == credit.StatusDraft {
		return nil, ErrCreditNoteNotIssued
	}

	inv, err := e.store.GetInvoice(ctx, invoiceID)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	if !inv.IsOpen() {
		return nil, ErrInvoiceNotOpen
	}

	available, err := e.availableOn(ctx, note)
	if err != nil {
		return nil, err
	}
	if amount.GreaterThan(available) {
		return nil, ErrCreditExceeded
	}

	app := &credit.CreditApplication{
		ID:           id.NewCreditApplicationID(),
		CreditNoteID: note.ID,
		InvoiceID:    inv.ID,
		Amount:       amount,
		AppliedAt:    e.now(ctx),
	}
	if err := e.store.CreateCreditApplication(ctx, app); err != nil {
		return nil, err
	}

	inv.AppliedCredit = inv.AppliedCredit.Add(amount)
	if !inv.AppliedCredit.LessThan(inv.Amount) {
		inv.Status = invoice.StatusCredited
	}
	inv.Touch()
	if err := e.store.UpdateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	if available.Subtract(amount).IsZero() {
		note.Status = credit.StatusApplied
		note.Touch()
		if err := e.store.UpdateCreditNote(ctx, note); err != nil {
			return nil, err
		}
	}

	e.logger.Info("credit applied",
		"note", note.Number, "invoice", inv.Number, "amount", amount,
		"remaining", available.Subtract(amount))
	e.plugins.EmitCreditApplied(ctx, app)
	return app, nil
}

// CreditByCustomer aggregates a customer's credit position across all of
// their notes.
func (e *Engine) CreditByCustomer(ctx context.Context, customerID id.CustomerID) (*credit.Summary, error) {
	notes, err := e.store.ListCreditNotes(ctx, credit.ListOpts{CustomerID: customerID})
	if err != nil {
		return nil, err
	}

	sum := &credit.Summary{
		CustomerID:   customerID,
		TotalIssued:  types.Zero("eur"),
		TotalApplied: types.Zero("eur"),
		Available:    types.Zero("eur"),
	}
	for _, note := range notes {
		if note.Status == credit.StatusDraft {
			continue
		}
		available, err := e.availableOn(ctx, note)
		if err != nil {
			return nil, err
		}
		sum.TotalIssued = sum.TotalIssued.Add(note.TotalAmount)
		sum.TotalApplied = sum.TotalApplied.Add(note.TotalAmount.Subtract(available))
		sum.Available = sum.Available.Add(available)
		if !available.IsZero() {
			sum.OpenNotes++
		}
	}
	return sum, nil
}

// UnappliedCreditNotes returns every issued note that still carries balance,
// paired with its remaining value.
func (e *Engine) UnappliedCreditNotes(ctx context.Context, customerID id.CustomerID) ([]*credit.NoteBalance, error) {
	notes, err := e.store.ListCreditNotes(ctx, credit.ListOpts{
		Status:     credit.StatusIssued,
		CustomerID: customerID,
	})
	if err != nil {
		return nil, err
	}

	balances := make([]*credit.NoteBalance, 0, len(notes))
	for _, note := range notes {
		available, err := e.availableOn(ctx, note)
		if err != nil {
			return nil, err
		}
		if available.IsZero() {
			continue
		}
		balances = append(balances, &credit.NoteBalance{Note: note, Available: available})
	}
	return balances, nil
}
