package rentroll

import (
	"context"
	"fmt"

	"github.com/xraph/rentroll/id"
	"github.com/xraph/rentroll/invoice"
	"github.com/xraph/rentroll/lease"
	"github.com/xraph/rentroll/schedule"
	"github.com/xraph/rentroll/types"
	"github.com/xraph/rentroll/vat"
)

// GenerateRentInvoices bills every active lease for the given month.
// The run is idempotent: a lease that already has a rent invoice for the
// month is skipped. A failure on one lease is recorded and the run
// continues; the controller still stamps the job, correctness rests on the
// per-lease existence checks, not the run marker.
func (e *Engine) GenerateRentInvoices(ctx context.Context, month types.Month) (Report, error) {
	report := Report{JobType: schedule.JobGenerateRentInvoices, Month: month}

	leases, err := e.store.ListLeases(ctx, lease.ListOpts{Status: lease.StatusActive})
	if err != nil {
		return report, err
	}

	for _, l := range leases {
		// Latest committed state, checked immediately before insert.
		if _, err := e.store.FindRentInvoice(ctx, l.ID, month); err == nil {
			report.Skipped++
			e.plugins.EmitInvoiceSkipped(ctx, l.CustomerID.String(), month.String(), string(invoice.KindRent))
			continue
		} else if !IsNotFound(err) {
			report.Failed++
			e.logger.Error("rent invoice lookup failed", "lease", l.ID, "month", month, "error", err)
			continue
		}

		inv, err := e.generateRentInvoice(ctx, l, month)
		if err != nil {
			report.Failed++
			e.logger.Error("rent invoice generation failed",
				"lease", l.ID, "customer", l.CustomerID, "month", month, "error", err)
			e.plugins.EmitGenerationFailed(ctx, l.CustomerID.String(), month.String(), err)
			continue
		}

		report.Processed++
		e.logger.Info("rent invoice generated",
			"invoice", inv.Number, "lease", l.ID, "month", month, "amount", inv.Amount)
		e.plugins.EmitInvoiceGenerated(ctx, inv)
	}

	return report, nil
}

// generateRentInvoice builds and durably writes one lease's invoice for the
// month. Writes follow the compensation pattern: header first, then line
// items, and a failed line-item write deletes the header so no orphaned
// invoice survives.
func (e *Engine) generateRentInvoice(ctx context.Context, l *lease.Lease, month types.Month) (*invoice.Invoice, error) {
	rent, err := l.RentFor(month)
	if err != nil {
		return nil, err
	}

	// Missing discount configuration defaults to zero.
	var discountRate types.Rate
	if cust, err := e.store.GetCustomer(ctx, l.CustomerID); err == nil {
		discountRate = cust.RentDiscountRate
	} else if !IsNotFound(err) {
		return nil, err
	}

	discount := rent.ApplyRate(discountRate)
	base := rent.Subtract(discount)

	// The deposit is a one-off, billed with the lease's first month and
	// never discounted.
	deposit := types.Zero(rent.Currency)
	if !l.SecurityDeposit.IsZero() && month.Contains(l.StartDate) {
		deposit = l.SecurityDeposit
		base = base.Add(deposit)
	}

	breakdown, err := vat.Calculate(base, l.VATRate, l.VATInclusive)
	if err != nil {
		return nil, err
	}

	seq, err := e.store.NextInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}

	inv := &invoice.Invoice{
		ID:           id.NewInvoiceID(),
		Number:       invoice.FormatNumber(seq),
		Kind:         invoice.KindRent,
		CustomerID:   l.CustomerID,
		LeaseID:      l.ID,
		Month:        month,
		Subtotal:     breakdown.Subtotal,
		VATAmount:    breakdown.VAT,
		Amount:       breakdown.Total,
		VATRate:      l.VATRate,
		VATInclusive: l.VATInclusive,
		Status:       invoice.StatusDraft,
	}
	inv.Entity = types.NewEntity()
	inv.CreatedAt = e.now(ctx)
	inv.UpdatedAt = inv.CreatedAt

	if err := e.store.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	items := rentLineItems(l, month, discount, discountRate, deposit)
	if err := e.store.AddLineItems(ctx, inv.ID, items); err != nil {
		if delErr := e.store.DeleteInvoice(ctx, inv.ID); delErr != nil {
			e.logger.Error("orphaned invoice cleanup failed", "invoice", inv.ID, "error", delErr)
		}
		return nil, err
	}
	// The memory backend shares the stored record with this pointer, so
	// assign rather than append: AddLineItems may already have attached
	// the items to it.
	inv.LineItems = collectLineItems(items)

	return inv, nil
}

// rentLineItems renders the itemization: one line per space (or one per
// flex pricing unit), then the discount line, then the deposit line.
func rentLineItems(l *lease.Lease, month types.Month, discount types.Money, discountRate types.Rate, deposit types.Money) []*invoice.LineItem {
	var items []*invoice.LineItem

	if l.Type == lease.TypeFlex && l.Flex != nil {
		items = append(items, flexLineItem(l.Flex, month))
	} else {
		for _, sp := range l.Spaces {
			items = append(items, &invoice.LineItem{
				ID:          id.NewLineItemID(),
				Description: fmt.Sprintf("Rent %s - %s", month, sp.Name),
				Quantity:    1,
				UnitPrice:   sp.MonthlyRent,
				Amount:      sp.MonthlyRent,
			})
		}
	}

	if !discount.IsZero() {
		items = append(items, &invoice.LineItem{
			ID:          id.NewLineItemID(),
			Description: fmt.Sprintf("Tenant discount (%s)", discountRate),
			Quantity:    1,
			UnitPrice:   discount.Negate(),
			Amount:      discount.Negate(),
		})
	}

	if !deposit.IsZero() {
		items = append(items, &invoice.LineItem{
			ID:          id.NewLineItemID(),
			Description: "Security deposit",
			Quantity:    1,
			UnitPrice:   deposit,
			Amount:      deposit,
		})
	}

	return items
}

func flexLineItem(f *lease.FlexPricing, month types.Month) *invoice.LineItem {
	switch f.Model {
	case lease.FlexDaily:
		days := int64(month.WorkingDays())
		return &invoice.LineItem{
			ID:          id.NewLineItemID(),
			Description: fmt.Sprintf("Flex workspace %s (%d working days)", month, days),
			Quantity:    days,
			UnitPrice:   f.DailyRate,
			Amount:      f.DailyRate.Multiply(days),
		}
	case lease.FlexCreditBased:
		credits := f.MonthlyCredits()
		return &invoice.LineItem{
			ID:          id.NewLineItemID(),
			Description: fmt.Sprintf("Flex workspace %s (%d credits)", month, credits),
			Quantity:    credits,
			UnitPrice:   f.CreditRate,
			Amount:      f.CreditRate.Multiply(credits),
		}
	default:
		return &invoice.LineItem{
			ID:          id.NewLineItemID(),
			Description: fmt.Sprintf("Flex workspace %s (unlimited)", month),
			Quantity:    1,
			UnitPrice:   f.MonthlyRate,
			Amount:      f.MonthlyRate,
		}
	}
}

// collectLineItems materializes the items onto an invoice, replacing any
// slice a store backend may already have attached to the shared record.
func collectLineItems(items []*invoice.LineItem) []invoice.LineItem {
	out := make([]invoice.LineItem, len(items))
	for i, it := range items {
		out[i] = *it
	}
	return out
}
