package rentroll

import (
	"context"
	"fmt"
	"strings"

	"github.com/xraph/rentroll/booking"
	"github.com/xraph/rentroll/customer"
	"github.com/xraph/rentroll/id"
	"github.com/xraph/rentroll/invoice"
	"github.com/xraph/rentroll/schedule"
	"github.com/xraph/rentroll/types"
	"github.com/xraph/rentroll/vat"
)

// usageVATRate is fixed at 21% exclusive for booking invoices.
var usageVATRate = types.RateFromPercent(21)

// GenerateUsageInvoices bills every customer's completed, unbilled bookings
// for the given month. Customers with no billable bookings are passed over
// without counting as a skip; a customer whose usage invoice for the month
// already exists counts as skipped.
func (e *Engine) GenerateUsageInvoices(ctx context.Context, month types.Month) (Report, error) {
	report := Report{JobType: schedule.JobGenerateUsageInvoices, Month: month}

	customers, err := e.store.ListCustomers(ctx, customer.ListOpts{})
	if err != nil {
		return report, err
	}

	for _, cust := range customers {
		if _, err := e.store.FindUsageInvoice(ctx, cust.ID, month); err == nil {
			report.Skipped++
			e.plugins.EmitInvoiceSkipped(ctx, cust.ID.String(), month.String(), string(invoice.KindUsage))
			continue
		} else if !IsNotFound(err) {
			report.Failed++
			e.logger.Error("usage invoice lookup failed", "customer", cust.ID, "month", month, "error", err)
			continue
		}

		bookings, err := e.store.ListBillableBookings(ctx, cust.ID, month)
		if err != nil {
			report.Failed++
			e.logger.Error("billable booking lookup failed", "customer", cust.ID, "month", month, "error", err)
			continue
		}
		if len(bookings) == 0 {
			continue
		}

		inv, err := e.generateUsageInvoice(ctx, cust, bookings, month)
		if err != nil {
			report.Failed++
			e.logger.Error("usage invoice generation failed",
				"customer", cust.ID, "month", month, "error", err)
			e.plugins.EmitGenerationFailed(ctx, cust.ID.String(), month.String(), err)
			continue
		}

		report.Processed++
		e.logger.Info("usage invoice generated",
			"invoice", inv.Number, "customer", cust.ID, "month", month,
			"bookings", len(bookings), "amount", inv.Amount)
		e.plugins.EmitInvoiceGenerated(ctx, inv)
	}

	return report, nil
}

// generateUsageInvoice builds one customer's booking invoice for the month.
// Invoice and line items are written with the compensation pattern; booking
// linkage afterwards is best-effort because the linkage itself — not the
// run — is the durable billed marker. A linkage failure leaves the invoice
// valid and the booking eligible again; the existence check above prevents
// a duplicate invoice on the retry.
func (e *Engine) generateUsageInvoice(ctx context.Context, cust *customer.Customer, bookings []*booking.Booking, month types.Month) (*invoice.Invoice, error) {
	gross := types.Zero("eur")
	bookedDiscount := types.Zero("eur")
	for _, b := range bookings {
		gross = gross.Add(b.GrossAmount())
		bookedDiscount = bookedDiscount.Add(b.DiscountAmount)
	}

	// The customer-level flat discount applies only when no per-booking
	// discount was already recorded.
	additional := types.Zero(gross.Currency)
	if bookedDiscount.IsZero() && !cust.MeetingDiscountRate.IsZero() {
		additional = gross.ApplyRate(cust.MeetingDiscountRate)
	}

	base := gross.Subtract(bookedDiscount).Subtract(additional)

	breakdown, err := vat.Calculate(base, usageVATRate, false)
	if err != nil {
		return nil, err
	}

	seq, err := e.store.NextInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}

	inv := &invoice.Invoice{
		ID:         id.NewInvoiceID(),
		Number:     invoice.FormatNumber(seq),
		Kind:       invoice.KindUsage,
		CustomerID: cust.ID,
		Month:      month,
		Subtotal:   breakdown.Subtotal,
		VATAmount:  breakdown.VAT,
		Amount:     breakdown.Total,
		VATRate:    usageVATRate,
		Status:     invoice.StatusDraft,
		Notes:      usageNotes(bookings, bookedDiscount, additional, cust.MeetingDiscountRate),
	}
	inv.Entity = types.NewEntity()

	if err := e.store.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	items := usageLineItems(bookings, bookedDiscount, additional, cust.MeetingDiscountRate)
	if err := e.store.AddLineItems(ctx, inv.ID, items); err != nil {
		if delErr := e.store.DeleteInvoice(ctx, inv.ID); delErr != nil {
			e.logger.Error("orphaned invoice cleanup failed", "invoice", inv.ID, "error", delErr)
		}
		return nil, err
	}
	inv.LineItems = collectLineItems(items)

	for _, b := range bookings {
		if err := e.store.SetBookingInvoice(ctx, b.ID, inv.ID); err != nil {
			e.logger.Warn("booking linkage failed; booking stays eligible for re-billing",
				"booking", b.ID, "invoice", inv.ID, "error", err)
		}
	}

	return inv, nil
}

// usageLineItems renders one line per booking at its full pre-discount
// amount, then at most one aggregate discount line and one additional
// customer-discount line.
func usageLineItems(bookings []*booking.Booking, bookedDiscount, additional types.Money, rate types.Rate) []*invoice.LineItem {
	items := make([]*invoice.LineItem, 0, len(bookings)+2)
	for _, b := range bookings {
		items = append(items, &invoice.LineItem{
			ID:          id.NewLineItemID(),
			Description: bookingLine(b),
			Quantity:    1,
			UnitPrice:   b.GrossAmount(),
			Amount:      b.GrossAmount(),
			BookingID:   b.ID,
		})
	}
	if !bookedDiscount.IsZero() {
		items = append(items, &invoice.LineItem{
			ID:          id.NewLineItemID(),
			Description: "Booking discounts",
			Quantity:    1,
			UnitPrice:   bookedDiscount.Negate(),
			Amount:      bookedDiscount.Negate(),
		})
	}
	if !additional.IsZero() {
		items = append(items, &invoice.LineItem{
			ID:          id.NewLineItemID(),
			Description: fmt.Sprintf("Customer discount (%s)", rate),
			Quantity:    1,
			UnitPrice:   additional.Negate(),
			Amount:      additional.Negate(),
		})
	}
	return items
}

// usageNotes builds the human-readable itemization stored verbatim on the
// invoice: one line per booking, then the discount lines.
func usageNotes(bookings []*booking.Booking, bookedDiscount, additional types.Money, rate types.Rate) string {
	var sb strings.Builder
	for _, b := range bookings {
		fmt.Fprintf(&sb, "%s: %s\n", b.Date.Format("2006-01-02"), bookingLine(b))
	}
	if !bookedDiscount.IsZero() {
		fmt.Fprintf(&sb, "Booking discounts: -%s\n", bookedDiscount)
	}
	if !additional.IsZero() {
		fmt.Fprintf(&sb, "Customer discount (%s): -%s\n", rate, additional)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func bookingLine(b *booking.Booking) string {
	switch b.Kind {
	case booking.KindFlexDay:
		if b.HalfDay {
			return fmt.Sprintf("Flex day (half) %s - %s", b.Date.Format("2006-01-02"), b.GrossAmount())
		}
		return fmt.Sprintf("Flex day %s - %s", b.Date.Format("2006-01-02"), b.GrossAmount())
	default:
		if b.StartTime != "" && b.EndTime != "" {
			return fmt.Sprintf("Meeting room %s %s-%s - %s",
				b.Date.Format("2006-01-02"), b.StartTime, b.EndTime, b.GrossAmount())
		}
		return fmt.Sprintf("Meeting room %s - %s", b.Date.Format("2006-01-02"), b.GrossAmount())
	}
}
