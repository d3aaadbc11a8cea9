package memory_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/xraph/rentroll"
	"github.com/xraph/rentroll/booking"
	"github.com/xraph/rentroll/id"
	"github.com/xraph/rentroll/invoice"
	"github.com/xraph/rentroll/lease"
	"github.com/xraph/rentroll/store/memory"
	"github.com/xraph/rentroll/types"
)

func TestSequencesAreMonotonic(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		n, err := s.NextInvoiceNumber(ctx)
		if err != nil {
			t.Fatalf("NextInvoiceNumber: %v", err)
		}
		if n != want {
			t.Errorf("invoice seq: got %d, want %d", n, want)
		}
	}
	// Credit note numbers run on their own counter.
	n, err := s.NextCreditNoteNumber(ctx)
	if err != nil {
		t.Fatalf("NextCreditNoteNumber: %v", err)
	}
	if n != 1 {
		t.Errorf("credit note seq: got %d, want 1", n)
	}
}

func TestFindInvoiceByPeriod(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	custID := id.NewCustomerID()
	leaseID := id.NewLeaseID()
	march := types.MustParseMonth("2026-03")

	rent := &invoice.Invoice{
		ID:         id.NewInvoiceID(),
		Kind:       invoice.KindRent,
		CustomerID: custID,
		LeaseID:    leaseID,
		Month:      march,
		Status:     invoice.StatusDraft,
	}
	usage := &invoice.Invoice{
		ID:         id.NewInvoiceID(),
		Kind:       invoice.KindUsage,
		CustomerID: custID,
		Month:      march,
		Status:     invoice.StatusDraft,
	}
	for _, inv := range []*invoice.Invoice{rent, usage} {
		if err := s.CreateInvoice(ctx, inv); err != nil {
			t.Fatalf("CreateInvoice: %v", err)
		}
	}

	got, err := s.FindRentInvoice(ctx, leaseID, march)
	if err != nil {
		t.Fatalf("FindRentInvoice: %v", err)
	}
	if got.ID != rent.ID {
		t.Errorf("FindRentInvoice returned %s", got.ID)
	}

	got, err = s.FindUsageInvoice(ctx, custID, march)
	if err != nil {
		t.Fatalf("FindUsageInvoice: %v", err)
	}
	if got.ID != usage.ID {
		t.Errorf("FindUsageInvoice returned %s", got.ID)
	}

	// The rent kind never satisfies a usage lookup for another month.
	if _, err := s.FindUsageInvoice(ctx, custID, march.Next()); !rentroll.IsNotFound(err) {
		t.Errorf("lookup for empty month: got %v, want not-found", err)
	}
	if _, err := s.FindRentInvoice(ctx, id.NewLeaseID(), march); !rentroll.IsNotFound(err) {
		t.Errorf("lookup for unknown lease: got %v, want not-found", err)
	}
}

func TestListBillableBookings(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	custID := id.NewCustomerID()
	march := types.MustParseMonth("2026-03")

	billable := &booking.Booking{
		ID:          id.NewBookingID(),
		Kind:        booking.KindMeetingRoom,
		CustomerID:  custID,
		Date:        time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		TotalAmount: types.EUR(9000),
		Status:      booking.StatusCompleted,
	}
	wrongMonth := &booking.Booking{
		ID:          id.NewBookingID(),
		Kind:        booking.KindMeetingRoom,
		CustomerID:  custID,
		Date:        time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC),
		TotalAmount: types.EUR(9000),
		Status:      booking.StatusCompleted,
	}
	notCompleted := &booking.Booking{
		ID:          id.NewBookingID(),
		Kind:        booking.KindMeetingRoom,
		CustomerID:  custID,
		Date:        time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		TotalAmount: types.EUR(9000),
		Status:      booking.StatusConfirmed,
	}
	for _, b := range []*booking.Booking{billable, wrongMonth, notCompleted} {
		if err := s.CreateBooking(ctx, b); err != nil {
			t.Fatalf("CreateBooking: %v", err)
		}
	}

	got, err := s.ListBillableBookings(ctx, custID, march)
	if err != nil {
		t.Fatalf("ListBillableBookings: %v", err)
	}
	if len(got) != 1 || got[0].ID != billable.ID {
		t.Fatalf("got %d bookings", len(got))
	}

	// Linking an invoice removes the booking from future billable lists.
	invID := id.NewInvoiceID()
	if err := s.SetBookingInvoice(ctx, billable.ID, invID); err != nil {
		t.Fatalf("SetBookingInvoice: %v", err)
	}
	got, err = s.ListBillableBookings(ctx, custID, march)
	if err != nil {
		t.Fatalf("ListBillableBookings: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("billed booking still listed")
	}

	stored, _ := s.GetBooking(ctx, billable.ID)
	if stored.InvoiceID != invID {
		t.Errorf("InvoiceID: got %s, want %s", stored.InvoiceID, invID)
	}

	if err := s.SetBookingInvoice(ctx, id.NewBookingID(), invID); !rentroll.IsNotFound(err) {
		t.Errorf("linking unknown booking: got %v, want not-found", err)
	}
}

func TestListBillableBookingsStableOrder(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	custID := id.NewCustomerID()
	march := types.MustParseMonth("2026-03")
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	// Same date: ties break on ID so the order survives map iteration.
	var ids []string
	for i := 0; i < 4; i++ {
		b := &booking.Booking{
			ID:          id.NewBookingID(),
			Kind:        booking.KindMeetingRoom,
			CustomerID:  custID,
			Date:        date,
			TotalAmount: types.EUR(9000),
			Status:      booking.StatusCompleted,
		}
		if err := s.CreateBooking(ctx, b); err != nil {
			t.Fatalf("CreateBooking: %v", err)
		}
		ids = append(ids, b.ID.String())
	}
	sort.Strings(ids)

	for run := 0; run < 3; run++ {
		got, err := s.ListBillableBookings(ctx, custID, march)
		if err != nil {
			t.Fatalf("ListBillableBookings: %v", err)
		}
		if len(got) != len(ids) {
			t.Fatalf("got %d bookings, want %d", len(got), len(ids))
		}
		for i, b := range got {
			if b.ID.String() != ids[i] {
				t.Fatalf("run %d position %d: got %s, want %s", run, i, b.ID, ids[i])
			}
		}
	}
}

func TestListConfirmedBefore(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	custID := id.NewCustomerID()
	cutoff := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	mk := func(day int, status booking.Status) *booking.Booking {
		b := &booking.Booking{
			ID:          id.NewBookingID(),
			Kind:        booking.KindFlexDay,
			CustomerID:  custID,
			Date:        time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC),
			TotalAmount: types.EUR(3500),
			Status:      status,
		}
		if err := s.CreateBooking(ctx, b); err != nil {
			t.Fatalf("CreateBooking: %v", err)
		}
		return b
	}
	old := mk(5, booking.StatusConfirmed)
	mk(10, booking.StatusConfirmed) // on the cutoff: not before
	mk(4, booking.StatusCompleted)

	got, err := s.ListConfirmedBefore(ctx, cutoff)
	if err != nil {
		t.Fatalf("ListConfirmedBefore: %v", err)
	}
	if len(got) != 1 || got[0].ID != old.ID {
		t.Fatalf("got %d bookings", len(got))
	}
}

func TestListExpiringLeases(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	custID := id.NewCustomerID()
	by := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	soon := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
	far := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	mk := func(end *time.Time, status lease.Status) *lease.Lease {
		l := &lease.Lease{
			ID:         id.NewLeaseID(),
			CustomerID: custID,
			Status:     status,
			Type:       lease.TypeStandard,
			StartDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:    end,
		}
		if err := s.CreateLease(ctx, l); err != nil {
			t.Fatalf("CreateLease: %v", err)
		}
		return l
	}
	expiring := mk(&soon, lease.StatusActive)
	mk(&far, lease.StatusActive)
	mk(nil, lease.StatusActive) // open-ended leases never expire
	mk(&soon, lease.StatusEnded)

	got, err := s.ListExpiringLeases(ctx, by)
	if err != nil {
		t.Fatalf("ListExpiringLeases: %v", err)
	}
	if len(got) != 1 || got[0].ID != expiring.ID {
		t.Fatalf("got %d leases", len(got))
	}
}

func TestSettingsDefaultAndRoundTrip(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	cfg, err := s.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if cfg.ExpiryNoticeDays != 60 {
		t.Errorf("default ExpiryNoticeDays: got %d, want 60", cfg.ExpiryNoticeDays)
	}
	if !cfg.IndexationRate.IsZero() {
		t.Errorf("default IndexationRate: got %v, want zero", cfg.IndexationRate)
	}

	cfg.IndexationRate = types.RateFromPercent(3)
	if err := s.PutSettings(ctx, cfg); err != nil {
		t.Fatalf("PutSettings: %v", err)
	}
	got, _ := s.GetSettings(ctx)
	if got.IndexationRate != types.RateFromPercent(3) {
		t.Errorf("stored rate: got %v", got.IndexationRate)
	}
}

func TestDuplicateCreateRejected(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	inv := &invoice.Invoice{
		ID:         id.NewInvoiceID(),
		Kind:       invoice.KindRent,
		CustomerID: id.NewCustomerID(),
		Month:      types.MustParseMonth("2026-03"),
		Status:     invoice.StatusDraft,
	}
	if err := s.CreateInvoice(ctx, inv); err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	if err := s.CreateInvoice(ctx, inv); err != rentroll.ErrAlreadyExists {
		t.Errorf("duplicate create: got %v, want ErrAlreadyExists", err)
	}
}

func TestDeleteInvoiceRemovesRecord(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	inv := &invoice.Invoice{
		ID:         id.NewInvoiceID(),
		Kind:       invoice.KindUsage,
		CustomerID: id.NewCustomerID(),
		Month:      types.MustParseMonth("2026-03"),
		Status:     invoice.StatusDraft,
	}
	if err := s.CreateInvoice(ctx, inv); err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	if err := s.DeleteInvoice(ctx, inv.ID); err != nil {
		t.Fatalf("DeleteInvoice: %v", err)
	}
	if _, err := s.GetInvoice(ctx, inv.ID); !rentroll.IsNotFound(err) {
		t.Errorf("after delete: got %v, want not-found", err)
	}
}
