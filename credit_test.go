package rentroll_test

import (
	"errors"
	"testing"
	"time"

	"github.com/xraph/rentroll"
	"github.com/xraph/rentroll/credit"
	"github.com/xraph/rentroll/invoice"
	"github.com/xraph/rentroll/types"
)

func TestCreditNoteLedger(t *testing.T) {
	now := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	e, ctx := newTestEngine(t, now)

	cust := newTenant(t, e, ctx, "Acme BV")
	newStandardLease(t, e, ctx, cust, 80000, 21, false)
	if _, err := e.GenerateRentInvoices(ctx, types.MustParseMonth("2026-03")); err != nil {
		t.Fatalf("GenerateRentInvoices: %v", err)
	}
	invs, _ := e.ListInvoices(ctx, invoice.ListOpts{Kind: invoice.KindRent})
	inv := invs[0]

	note, err := e.IssueCreditNote(ctx, rentroll.IssueCreditNoteInput{
		CustomerID: cust.ID,
		Amount:     types.EUR(20000),
		Reason:     "overcharged cleaning fee",
	})
	if err != nil {
		t.Fatalf("IssueCreditNote: %v", err)
	}
	if note.Number != "CN-000001" {
		t.Errorf("Number: got %s, want CN-000001", note.Number)
	}
	if note.Status != credit.StatusIssued {
		t.Errorf("Status: got %s, want issued", note.Status)
	}
	if note.IssuedAt == nil {
		t.Error("IssuedAt not set")
	}

	available, err := e.AvailableCredit(ctx, note.ID)
	if err != nil {
		t.Fatalf("AvailableCredit: %v", err)
	}
	if !available.Equal(types.EUR(20000)) {
		t.Errorf("available: got %v, want €200.00", available)
	}

	// First application: €120 of €200.
	if _, err := e.ApplyCredit(ctx, note.ID, inv.ID, types.EUR(12000)); err != nil {
		t.Fatalf("ApplyCredit: %v", err)
	}
	available, _ = e.AvailableCredit(ctx, note.ID)
	if !available.Equal(types.EUR(8000)) {
		t.Errorf("available after €120: got %v, want €80.00", available)
	}

	// Over-application: €90 against €80 remaining is rejected outright.
	if _, err := e.ApplyCredit(ctx, note.ID, inv.ID, types.EUR(9000)); !errors.Is(err, rentroll.ErrCreditExceeded) {
		t.Fatalf("over-application: got %v, want ErrCreditExceeded", err)
	}

	// The rejection wrote nothing: balance unchanged, one application.
	available, _ = e.AvailableCredit(ctx, note.ID)
	if !available.Equal(types.EUR(8000)) {
		t.Errorf("available after rejection: got %v, want €80.00", available)
	}

	got, _ := e.GetInvoice(ctx, inv.ID)
	if !got.AppliedCredit.Equal(types.EUR(12000)) {
		t.Errorf("AppliedCredit: got %v, want €120.00", got.AppliedCredit)
	}
	if !got.BalanceDue().Equal(inv.Amount.Subtract(types.EUR(12000))) {
		t.Errorf("BalanceDue: got %v", got.BalanceDue())
	}

	// The remaining €80 still fits.
	if _, err := e.ApplyCredit(ctx, note.ID, inv.ID, types.EUR(8000)); err != nil {
		t.Fatalf("final application: %v", err)
	}
	noteAfter, _ := e.GetCreditNote(ctx, note.ID)
	if noteAfter.Status != credit.StatusApplied {
		t.Errorf("fully consumed note status: got %s, want applied", noteAfter.Status)
	}
}

func TestApplyCreditValidation(t *testing.T) {
	now := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	e, ctx := newTestEngine(t, now)

	cust := newTenant(t, e, ctx, "Acme BV")
	newStandardLease(t, e, ctx, cust, 80000, 21, false)
	if _, err := e.GenerateRentInvoices(ctx, types.MustParseMonth("2026-03")); err != nil {
		t.Fatalf("GenerateRentInvoices: %v", err)
	}
	invs, _ := e.ListInvoices(ctx, invoice.ListOpts{Kind: invoice.KindRent})
	inv := invs[0]

	note, err := e.IssueCreditNote(ctx, rentroll.IssueCreditNoteInput{
		CustomerID: cust.ID,
		Amount:     types.EUR(10000),
	})
	if err != nil {
		t.Fatalf("IssueCreditNote: %v", err)
	}

	if _, err := e.ApplyCredit(ctx, note.ID, inv.ID, types.EUR(0)); !errors.Is(err, rentroll.ErrInvalidCreditAmount) {
		t.Errorf("zero amount: got %v, want ErrInvalidCreditAmount", err)
	}
	if _, err := e.ApplyCredit(ctx, note.ID, inv.ID, types.EUR(-100)); !errors.Is(err, rentroll.ErrInvalidCreditAmount) {
		t.Errorf("negative amount: got %v, want ErrInvalidCreditAmount", err)
	}

	// Paid invoices accept no further credit.
	if err := e.MarkInvoicePaid(ctx, inv.ID); err != nil {
		t.Fatalf("MarkInvoicePaid: %v", err)
	}
	if _, err := e.ApplyCredit(ctx, note.ID, inv.ID, types.EUR(5000)); !errors.Is(err, rentroll.ErrInvoiceNotOpen) {
		t.Errorf("paid invoice: got %v, want ErrInvoiceNotOpen", err)
	}
}

func TestIssueCreditNoteValidation(t *testing.T) {
	now := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	e, ctx := newTestEngine(t, now)

	cust := newTenant(t, e, ctx, "Acme BV")

	if _, err := e.IssueCreditNote(ctx, rentroll.IssueCreditNoteInput{
		CustomerID: cust.ID,
		Amount:     types.EUR(0),
	}); !errors.Is(err, rentroll.ErrInvalidCreditAmount) {
		t.Errorf("zero amount: got %v, want ErrInvalidCreditAmount", err)
	}

	if _, err := e.IssueCreditNote(ctx, rentroll.IssueCreditNoteInput{
		Amount: types.EUR(5000),
	}); !rentroll.IsValidation(err) {
		t.Errorf("missing customer: got %v, want validation error", err)
	}
}

func TestCreditByCustomer(t *testing.T) {
	now := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	e, ctx := newTestEngine(t, now)

	cust := newTenant(t, e, ctx, "Acme BV")
	newStandardLease(t, e, ctx, cust, 80000, 21, false)
	if _, err := e.GenerateRentInvoices(ctx, types.MustParseMonth("2026-03")); err != nil {
		t.Fatalf("GenerateRentInvoices: %v", err)
	}
	invs, _ := e.ListInvoices(ctx, invoice.ListOpts{Kind: invoice.KindRent})

	n1, err := e.IssueCreditNote(ctx, rentroll.IssueCreditNoteInput{CustomerID: cust.ID, Amount: types.EUR(20000)})
	if err != nil {
		t.Fatalf("IssueCreditNote: %v", err)
	}
	if _, err := e.IssueCreditNote(ctx, rentroll.IssueCreditNoteInput{CustomerID: cust.ID, Amount: types.EUR(5000)}); err != nil {
		t.Fatalf("IssueCreditNote: %v", err)
	}
	if _, err := e.ApplyCredit(ctx, n1.ID, invs[0].ID, types.EUR(12000)); err != nil {
		t.Fatalf("ApplyCredit: %v", err)
	}

	sum, err := e.CreditByCustomer(ctx, cust.ID)
	if err != nil {
		t.Fatalf("CreditByCustomer: %v", err)
	}
	if !sum.TotalIssued.Equal(types.EUR(25000)) {
		t.Errorf("TotalIssued: got %v, want €250.00", sum.TotalIssued)
	}
	if !sum.TotalApplied.Equal(types.EUR(12000)) {
		t.Errorf("TotalApplied: got %v, want €120.00", sum.TotalApplied)
	}
	if !sum.Available.Equal(types.EUR(13000)) {
		t.Errorf("Available: got %v, want €130.00", sum.Available)
	}
	if sum.OpenNotes != 2 {
		t.Errorf("OpenNotes: got %d, want 2", sum.OpenNotes)
	}

	balances, err := e.UnappliedCreditNotes(ctx, cust.ID)
	if err != nil {
		t.Fatalf("UnappliedCreditNotes: %v", err)
	}
	if len(balances) != 2 {
		t.Fatalf("balances: got %d, want 2", len(balances))
	}
}
