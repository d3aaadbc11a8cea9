package mongo

import (
	"fmt"
	"time"

	"github.com/xraph/rentroll/booking"
	"github.com/xraph/rentroll/credit"
	"github.com/xraph/rentroll/customer"
	"github.com/xraph/rentroll/id"
	"github.com/xraph/rentroll/invoice"
	"github.com/xraph/rentroll/lease"
	"github.com/xraph/rentroll/schedule"
	"github.com/xraph/rentroll/settings"
	"github.com/xraph/rentroll/types"
)

// ==================== Customer models ====================

type customerModel struct {
	ID         string            `bson:"_id"`
	Kind       string            `bson:"kind"`
	Name       string            `bson:"name"`
	Email      string            `bson:"email"`
	RentBPS    int64             `bson:"rent_discount_bps"`
	MeetingBPS int64             `bson:"meeting_discount_bps"`
	Metadata   map[string]string `bson:"metadata,omitempty"`
	CreatedAt  time.Time         `bson:"created_at"`
	UpdatedAt  time.Time         `bson:"updated_at"`
}

func toCustomerModel(c *customer.Customer) *customerModel {
	return &customerModel{
		ID:         c.ID.String(),
		Kind:       string(c.Kind),
		Name:       c.Name,
		Email:      c.Email,
		RentBPS:    c.RentDiscountRate.BasisPoints(),
		MeetingBPS: c.MeetingDiscountRate.BasisPoints(),
		Metadata:   c.Metadata,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func fromCustomerModel(m *customerModel) (*customer.Customer, error) {
	cid, err := id.ParseCustomerID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("rentroll/mongo: customer id %q: %w", m.ID, err)
	}
	c := &customer.Customer{
		ID:                  cid,
		Kind:                customer.Kind(m.Kind),
		Name:                m.Name,
		Email:               m.Email,
		RentDiscountRate:    types.RateFromBasisPoints(m.RentBPS),
		MeetingDiscountRate: types.RateFromBasisPoints(m.MeetingBPS),
		Metadata:            m.Metadata,
	}
	c.CreatedAt = m.CreatedAt
	c.UpdatedAt = m.UpdatedAt
	return c, nil
}

// ==================== Lease models ====================

type leaseModel struct {
	ID              string            `bson:"_id"`
	CustomerID      string            `bson:"customer_id"`
	Status          string            `bson:"status"`
	Type            string            `bson:"type"`
	VATBPS          int64             `bson:"vat_rate_bps"`
	VATInclusive    bool              `bson:"vat_inclusive"`
	DepositCents    int64             `bson:"deposit_cents"`
	Currency        string            `bson:"currency"`
	StartDate       time.Time         `bson:"start_date"`
	EndDate         *time.Time        `bson:"end_date,omitempty"`
	LastIndexedYear int               `bson:"last_indexed_year"`
	NotifiedAt      *time.Time        `bson:"expiry_notified_at,omitempty"`
	Spaces          []leaseSpaceModel `bson:"spaces,omitempty"`
	Flex            *flexModel        `bson:"flex,omitempty"`
	Metadata        map[string]string `bson:"metadata,omitempty"`
	CreatedAt       time.Time         `bson:"created_at"`
	UpdatedAt       time.Time         `bson:"updated_at"`
}

type leaseSpaceModel struct {
	ID           string `bson:"id"`
	SpaceID      string `bson:"space_id"`
	Name         string `bson:"name"`
	RentCents    int64  `bson:"rent_cents"`
	PerSqmCents  int64  `bson:"per_sqm_cents"`
	SizeSqm      int    `bson:"size_sqm"`
	Currency     string `bson:"currency"`
}

type flexModel struct {
	Model          string `bson:"model"`
	MonthlyCents   int64  `bson:"monthly_cents"`
	DailyCents     int64  `bson:"daily_cents"`
	CreditCents    int64  `bson:"credit_cents"`
	Currency       string `bson:"currency"`
	CreditsPerWeek int    `bson:"credits_per_week"`
}

func toLeaseModel(l *lease.Lease) *leaseModel {
	spaces := make([]leaseSpaceModel, len(l.Spaces))
	for i, sp := range l.Spaces {
		spaces[i] = leaseSpaceModel{
			ID:          sp.ID.String(),
			SpaceID:     sp.SpaceID,
			Name:        sp.Name,
			RentCents:   sp.MonthlyRent.Amount,
			PerSqmCents: sp.PricePerSqm.Amount,
			SizeSqm:     sp.SizeSqm,
			Currency:    sp.MonthlyRent.Currency,
		}
	}
	var flex *flexModel
	if l.Flex != nil {
		currency := l.Flex.MonthlyRate.Currency
		if currency == "" {
			currency = l.Flex.DailyRate.Currency
		}
		if currency == "" {
			currency = l.Flex.CreditRate.Currency
		}
		flex = &flexModel{
			Model:          string(l.Flex.Model),
			MonthlyCents:   l.Flex.MonthlyRate.Amount,
			DailyCents:     l.Flex.DailyRate.Amount,
			CreditCents:    l.Flex.CreditRate.Amount,
			Currency:       currency,
			CreditsPerWeek: l.Flex.CreditsPerWeek,
		}
	}
	return &leaseModel{
		ID:              l.ID.String(),
		CustomerID:      l.CustomerID.String(),
		Status:          string(l.Status),
		Type:            string(l.Type),
		VATBPS:          l.VATRate.BasisPoints(),
		VATInclusive:    l.VATInclusive,
		DepositCents:    l.SecurityDeposit.Amount,
		Currency:        l.SecurityDeposit.Currency,
		StartDate:       l.StartDate,
		EndDate:         l.EndDate,
		LastIndexedYear: l.LastIndexedYear,
		NotifiedAt:      l.ExpiryNotifiedAt,
		Spaces:          spaces,
		Flex:            flex,
		Metadata:        l.Metadata,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

func fromLeaseModel(m *leaseModel) (*lease.Lease, error) {
	lid, err := id.ParseLeaseID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("rentroll/mongo: lease id %q: %w", m.ID, err)
	}
	cid, err := id.ParseCustomerID(m.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("rentroll/mongo: lease customer id %q: %w", m.CustomerID, err)
	}
	spaces := make([]lease.LeaseSpace, len(m.Spaces))
	for i, sp := range m.Spaces {
		sid, err := id.ParseLeaseSpaceID(sp.ID)
		if err != nil {
			return nil, fmt.Errorf("rentroll/mongo: lease space id %q: %w", sp.ID, err)
		}
		spaces[i] = lease.LeaseSpace{
			ID:          sid,
			LeaseID:     lid,
			SpaceID:     sp.SpaceID,
			Name:        sp.Name,
			MonthlyRent: types.Cents(sp.RentCents, sp.Currency),
			PricePerSqm: types.Cents(sp.PerSqmCents, sp.Currency),
			SizeSqm:     sp.SizeSqm,
		}
	}
	var flex *lease.FlexPricing
	if m.Flex != nil {
		flex = &lease.FlexPricing{
			Model:          lease.FlexModel(m.Flex.Model),
			MonthlyRate:    types.Cents(m.Flex.MonthlyCents, m.Flex.Currency),
			DailyRate:      types.Cents(m.Flex.DailyCents, m.Flex.Currency),
			CreditRate:     types.Cents(m.Flex.CreditCents, m.Flex.Currency),
			CreditsPerWeek: m.Flex.CreditsPerWeek,
		}
	}
	l := &lease.Lease{
		ID:               lid,
		CustomerID:       cid,
		Status:           lease.Status(m.Status),
		Type:             lease.Type(m.Type),
		VATRate:          types.RateFromBasisPoints(m.VATBPS),
		VATInclusive:     m.VATInclusive,
		SecurityDeposit:  types.Cents(m.DepositCents, m.Currency),
		StartDate:        m.StartDate,
		EndDate:          m.EndDate,
		LastIndexedYear:  m.LastIndexedYear,
		ExpiryNotifiedAt: m.NotifiedAt,
		Spaces:           spaces,
		Flex:             flex,
		Metadata:         m.Metadata,
	}
	l.CreatedAt = m.CreatedAt
	l.UpdatedAt = m.UpdatedAt
	return l, nil
}

// ==================== Booking models ====================

type bookingModel struct {
	ID            string    `bson:"_id"`
	Kind          string    `bson:"kind"`
	CustomerID    string    `bson:"customer_id"`
	Date          time.Time `bson:"booking_date"`
	StartTime     string    `bson:"start_time,omitempty"`
	EndTime       string    `bson:"end_time,omitempty"`
	HalfDay       bool      `bson:"half_day"`
	TotalCents    int64     `bson:"total_cents"`
	DiscountCents int64     `bson:"discount_cents"`
	Currency      string    `bson:"currency"`
	Status        string    `bson:"status"`
	InvoiceID     string    `bson:"invoice_id,omitempty"`
	Description   string    `bson:"description,omitempty"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

func toBookingModel(b *booking.Booking) *bookingModel {
	return &bookingModel{
		ID:            b.ID.String(),
		Kind:          string(b.Kind),
		CustomerID:    b.CustomerID.String(),
		Date:          b.Date,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		HalfDay:       b.HalfDay,
		TotalCents:    b.TotalAmount.Amount,
		DiscountCents: b.DiscountAmount.Amount,
		Currency:      b.TotalAmount.Currency,
		Status:        string(b.Status),
		InvoiceID:     b.InvoiceID.String(),
		Description:   b.Description,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func fromBookingModel(m *bookingModel) (*booking.Booking, error) {
	bid, err := id.ParseBookingID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("rentroll/mongo: booking id %q: %w", m.ID, err)
	}
	cid, err := id.ParseCustomerID(m.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("rentroll/mongo: booking customer id %q: %w", m.CustomerID, err)
	}
	var invID id.InvoiceID
	if m.InvoiceID != "" {
		invID, err = id.ParseInvoiceID(m.InvoiceID)
		if err != nil {
			return nil, fmt.Errorf("rentroll/mongo: booking invoice id %q: %w", m.InvoiceID, err)
		}
	}
	b := &booking.Booking{
		ID:             bid,
		Kind:           booking.Kind(m.Kind),
		CustomerID:     cid,
		Date:           m.Date,
		StartTime:      m.StartTime,
		EndTime:        m.EndTime,
		HalfDay:        m.HalfDay,
		TotalAmount:    types.Cents(m.TotalCents, m.Currency),
		DiscountAmount: types.Cents(m.DiscountCents, m.Currency),
		Status:         booking.Status(m.Status),
		InvoiceID:      invID,
		Description:    m.Description,
	}
	b.CreatedAt = m.CreatedAt
	b.UpdatedAt = m.UpdatedAt
	return b, nil
}

// ==================== Invoice models ====================

type invoiceModel struct {
	ID            string          `bson:"_id"`
	Number        string          `bson:"number"`
	Kind          string          `bson:"kind"`
	CustomerID    string          `bson:"customer_id"`
	LeaseID       string          `bson:"lease_id,omitempty"`
	Month         string          `bson:"invoice_month,omitempty"`
	SubtotalCents int64           `bson:"subtotal_cents"`
	VATCents      int64           `bson:"vat_cents"`
	TotalCents    int64           `bson:"total_cents"`
	Currency      string          `bson:"currency"`
	VATBPS        int64           `bson:"vat_rate_bps"`
	VATInclusive  bool            `bson:"vat_inclusive"`
	Status        string          `bson:"status"`
	CreditCents   int64           `bson:"applied_credit_cents"`
	Notes         string          `bson:"notes,omitempty"`
	LineItems     []lineItemModel `bson:"line_items,omitempty"`
	DueDate       *time.Time      `bson:"due_date,omitempty"`
	SentAt        *time.Time      `bson:"sent_at,omitempty"`
	PaidAt        *time.Time      `bson:"paid_at,omitempty"`
	CreatedAt     time.Time       `bson:"created_at"`
	UpdatedAt     time.Time       `bson:"updated_at"`
}

type lineItemModel struct {
	ID          string `bson:"id"`
	Description string `bson:"description"`
	Quantity    int64  `bson:"quantity"`
	UnitCents   int64  `bson:"unit_cents"`
	AmountCents int64  `bson:"amount_cents"`
	Currency    string `bson:"currency"`
	BookingID   string `bson:"booking_id,omitempty"`
}

func toInvoiceModel(inv *invoice.Invoice) *invoiceModel {
	items := make([]lineItemModel, len(inv.LineItems))
	for i, it := range inv.LineItems {
		items[i] = toLineItemModel(&it)
	}
	month := ""
	if !inv.Month.IsZero() {
		month = inv.Month.String()
	}
	return &invoiceModel{
		ID:            inv.ID.String(),
		Number:        inv.Number,
		Kind:          string(inv.Kind),
		CustomerID:    inv.CustomerID.String(),
		LeaseID:       inv.LeaseID.String(),
		Month:         month,
		SubtotalCents: inv.Subtotal.Amount,
		VATCents:      inv.VATAmount.Amount,
		TotalCents:    inv.Amount.Amount,
		Currency:      inv.Amount.Currency,
		VATBPS:        inv.VATRate.BasisPoints(),
		VATInclusive:  inv.VATInclusive,
		Status:        string(inv.Status),
		CreditCents:   inv.AppliedCredit.Amount,
		Notes:         inv.Notes,
		LineItems:     items,
		DueDate:       inv.DueDate,
		SentAt:        inv.SentAt,
		PaidAt:        inv.PaidAt,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

func toLineItemModel(it *invoice.LineItem) lineItemModel {
	return lineItemModel{
		ID:          it.ID.String(),
		Description: it.Description,
		Quantity:    it.Quantity,
		UnitCents:   it.UnitPrice.Amount,
		AmountCents: it.Amount.Amount,
		Currency:    it.Amount.Currency,
		BookingID:   it.BookingID.String(),
	}
}

func fromInvoiceModel(m *invoiceModel) (*invoice.Invoice, error) {
	iid, err := id.ParseInvoiceID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("rentroll/mongo: invoice id %q: %w", m.ID, err)
	}
	cid, err := id.ParseCustomerID(m.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("rentroll/mongo: invoice customer id %q: %w", m.CustomerID, err)
	}
	var lid id.LeaseID
	if m.LeaseID != "" {
		lid, err = id.ParseLeaseID(m.LeaseID)
		if err != nil {
			return nil, fmt.Errorf("rentroll/mongo: invoice lease id %q: %w", m.LeaseID, err)
		}
	}
	var month types.Month
	if m.Month != "" {
		month, err = types.ParseMonth(m.Month)
		if err != nil {
			return nil, fmt.Errorf("rentroll/mongo: invoice month %q: %w", m.Month, err)
		}
	}
	items := make([]invoice.LineItem, len(m.LineItems))
	for i := range m.LineItems {
		it, err := fromLineItemModel(&m.LineItems[i], iid)
		if err != nil {
			return nil, err
		}
		items[i] = *it
	}
	inv := &invoice.Invoice{
		ID:            iid,
		Number:        m.Number,
		Kind:          invoice.Kind(m.Kind),
		CustomerID:    cid,
		LeaseID:       lid,
		Month:         month,
		Subtotal:      types.Cents(m.SubtotalCents, m.Currency),
		VATAmount:     types.Cents(m.VATCents, m.Currency),
		Amount:        types.Cents(m.TotalCents, m.Currency),
		VATRate:       types.RateFromBasisPoints(m.VATBPS),
		VATInclusive:  m.VATInclusive,
		Status:        invoice.Status(m.Status),
		AppliedCredit: types.Cents(m.CreditCents, m.Currency),
		Notes:         m.Notes,
		LineItems:     items,
		DueDate:       m.DueDate,
		SentAt:        m.SentAt,
		PaidAt:        m.PaidAt,
	}
	inv.CreatedAt = m.CreatedAt
	inv.UpdatedAt = m.UpdatedAt
	return inv, nil
}

func fromLineItemModel(m *lineItemModel, invoiceID id.InvoiceID) (*invoice.LineItem, error) {
	liid, err := id.ParseLineItemID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("rentroll/mongo: line item id %q: %w", m.ID, err)
	}
	var bid id.BookingID
	if m.BookingID != "" {
		bid, err = id.ParseBookingID(m.BookingID)
		if err != nil {
			return nil, fmt.Errorf("rentroll/mongo: line item booking id %q: %w", m.BookingID, err)
		}
	}
	return &invoice.LineItem{
		ID:          liid,
		InvoiceID:   invoiceID,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   types.Cents(m.UnitCents, m.Currency),
		Amount:      types.Cents(m.AmountCents, m.Currency),
		BookingID:   bid,
	}, nil
}

// ==================== Credit models ====================

type creditNoteModel struct {
	ID                string     `bson:"_id"`
	Number            string     `bson:"number"`
	CustomerID        string     `bson:"customer_id"`
	OriginalInvoiceID string     `bson:"original_invoice_id,omitempty"`
	TotalCents        int64      `bson:"total_cents"`
	Currency          string     `bson:"currency"`
	Status            string     `bson:"status"`
	Reason            string     `bson:"reason,omitempty"`
	IssuedAt          *time.Time `bson:"issued_at,omitempty"`
	CreatedAt         time.Time  `bson:"created_at"`
	UpdatedAt         time.Time  `bson:"updated_at"`
}

func toCreditNoteModel(n *credit.CreditNote) *creditNoteModel {
	return &creditNoteModel{
		ID:                n.ID.String(),
		Number:            n.Number,
		CustomerID:        n.CustomerID.String(),
		OriginalInvoiceID: n.OriginalInvoiceID.String(),
		TotalCents:        n.TotalAmount.Amount,
		Currency:          n.TotalAmount.Currency,
		Status:            string(n.Status),
		Reason:            n.Reason,
		IssuedAt:          n.IssuedAt,
		CreatedAt:         n.CreatedAt,
		UpdatedAt:         n.UpdatedAt,
	}
}

func fromCreditNoteModel(m *creditNoteModel) (*credit.CreditNote, error) {
	nid, err := id.ParseCreditNoteID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("rentroll/mongo: credit note id %q: %w", m.ID, err)
	}
	cid, err := id.ParseCustomerID(m.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("rentroll/mongo: credit note customer id %q: %w", m.CustomerID, err)
	}
	var invID id.InvoiceID
	if m.OriginalInvoiceID != "" {
		invID, err = id.ParseInvoiceID(m.OriginalInvoiceID)
		if err != nil {
			return nil, fmt.Errorf("rentroll/mongo: credit note invoice id %q: %w", m.OriginalInvoiceID, err)
		}
	}
	n := &credit.CreditNote{
		ID:                nid,
		Number:            m.Number,
		CustomerID:        cid,
		OriginalInvoiceID: invID,
		TotalAmount:       types.Cents(m.TotalCents, m.Currency),
		Status:            credit.Status(m.Status),
		Reason:            m.Reason,
		IssuedAt:          m.IssuedAt,
	}
	n.CreatedAt = m.CreatedAt
	n.UpdatedAt = m.UpdatedAt
	return n, nil
}

type creditAppModel struct {
	ID           string    `bson:"_id"`
	CreditNoteID string    `bson:"credit_note_id"`
	InvoiceID    string    `bson:"invoice_id"`
	AmountCents  int64     `bson:"amount_cents"`
	Currency     string    `bson:"currency"`
	AppliedAt    time.Time `bson:"applied_at"`
}

func toCreditAppModel(a *credit.CreditApplication) *creditAppModel {
	return &creditAppModel{
		ID:           a.ID.String(),
		CreditNoteID: a.CreditNoteID.String(),
		InvoiceID:    a.InvoiceID.String(),
		AmountCents:  a.Amount.Amount,
		Currency:     a.Amount.Currency,
		AppliedAt:    a.AppliedAt,
	}
}

func fromCreditAppModel(m *creditAppModel) (*credit.CreditApplication, error) {
	aid, err := id.ParseCreditApplicationID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("rentroll/mongo: credit application id %q: %w", m.ID, err)
	}
	nid, err := id.ParseCreditNoteID(m.CreditNoteID)
	if err != nil {
		return nil, fmt.Errorf("rentroll/mongo: credit application note id %q: %w", m.CreditNoteID, err)
	}
	iid, err := id.ParseInvoiceID(m.InvoiceID)
	if err != nil {
		return nil, fmt.Errorf("rentroll/mongo: credit application invoice id %q: %w", m.InvoiceID, err)
	}
	return &credit.CreditApplication{
		ID:           aid,
		CreditNoteID: nid,
		InvoiceID:    iid,
		Amount:       types.Cents(m.AmountCents, m.Currency),
		AppliedAt:    m.AppliedAt,
	}, nil
}

// ==================== Job and settings models ====================

type jobModel struct {
	Type      string     `bson:"_id"`
	Enabled   bool       `bson:"enabled"`
	LastRunAt *time.Time `bson:"last_run_at,omitempty"`
	NextRunAt time.Time  `bson:"next_run_at"`
}

func toJobModel(j *schedule.Job) *jobModel {
	return &jobModel{
		Type:      string(j.Type),
		Enabled:   j.Enabled,
		LastRunAt: j.LastRunAt,
		NextRunAt: j.NextRunAt,
	}
}

func fromJobModel(m *jobModel) *schedule.Job {
	return &schedule.Job{
		Type:      schedule.JobType(m.Type),
		Enabled:   m.Enabled,
		LastRunAt: m.LastRunAt,
		NextRunAt: m.NextRunAt,
	}
}

type settingsModel struct {
	ID               string     `bson:"_id"`
	TestMode         bool       `bson:"test_mode"`
	TestDate         *time.Time `bson:"test_date,omitempty"`
	IndexationBPS    int64      `bson:"indexation_bps"`
	ExpiryNoticeDays int        `bson:"expiry_notice_days"`
	CreatedAt        time.Time  `bson:"created_at"`
	UpdatedAt        time.Time  `bson:"updated_at"`
}

func toSettingsModel(cfg *settings.Settings) *settingsModel {
	m := &settingsModel{
		ID:               settingsDocID,
		TestMode:         cfg.TestMode,
		IndexationBPS:    cfg.IndexationRate.BasisPoints(),
		ExpiryNoticeDays: cfg.ExpiryNoticeDays,
		CreatedAt:        cfg.CreatedAt,
		UpdatedAt:        cfg.UpdatedAt,
	}
	if !cfg.TestDate.IsZero() {
		t := cfg.TestDate
		m.TestDate = &t
	}
	return m
}

func fromSettingsModel(m *settingsModel) *settings.Settings {
	cfg := &settings.Settings{
		TestMode:         m.TestMode,
		IndexationRate:   types.RateFromBasisPoints(m.IndexationBPS),
		ExpiryNoticeDays: m.ExpiryNoticeDays,
	}
	if m.TestDate != nil {
		cfg.TestDate = *m.TestDate
	}
	cfg.CreatedAt = m.CreatedAt
	cfg.UpdatedAt = m.UpdatedAt
	return cfg
}
