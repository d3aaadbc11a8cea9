// Package mongo implements the store contract on MongoDB for multi-site
// deployments sharing one database.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/rentroll"
	"github.com/xraph/rentroll/booking"
	"github.com/xraph/rentroll/credit"
	"github.com/xraph/rentroll/customer"
	"github.com/xraph/rentroll/id"
	"github.com/xraph/rentroll/invoice"
	"github.com/xraph/rentroll/lease"
	"github.com/xraph/rentroll/schedule"
	"github.com/xraph/rentroll/settings"
	rentrollstore "github.com/xraph/rentroll/store"
	"github.com/xraph/rentroll/types"
)

// Collection name constants.
const (
	colCustomers   = "rentroll_customers"
	colLeases      = "rentroll_leases"
	colBookings    = "rentroll_bookings"
	colInvoices    = "rentroll_invoices"
	colCreditNotes = "rentroll_credit_notes"
	colCreditApps  = "rentroll_credit_applications"
	colJobs        = "rentroll_jobs"
	colSettings    = "rentroll_settings"
	colCounters    = "rentroll_counters"
)

// settingsDocID is the _id of the singleton settings document.
const settingsDocID = "settings"

// compile-time interface check
var _ rentrollstore.Store = (*Store)(nil)

// Store implements store.Store using the official MongoDB driver.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// New wraps an already-connected client and database name.
func New(client *mongo.Client, database string) *Store {
	return &Store{client: client, db: client.Database(database)}
}

// Connect dials the given URI and returns a store over the named database.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("rentroll/mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("rentroll/mongo: ping: %w", err)
	}
	return New(client, database), nil
}

// DB returns the underlying database handle for direct access.
func (s *Store) DB() *mongo.Database { return s.db }

// Migrate creates indexes for all rentroll collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		colCustomers: {
			{Keys: bson.D{{Key: "kind", Value: 1}}},
		},
		colLeases: {
			{Keys: bson.D{{Key: "customer_id", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "end_date", Value: 1}}},
		},
		colBookings: {
			{Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "booking_date", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "booking_date", Value: 1}}},
			{Keys: bson.D{{Key: "invoice_id", Value: 1}}},
		},
		colInvoices: {
			{Keys: bson.D{{Key: "number", Value: 1}}, Options: options.Index().SetUnique(true)},
			{
				Keys: bson.D{{Key: "lease_id", Value: 1}, {Key: "invoice_month", Value: 1}},
				Options: options.Index().SetUnique(true).
					SetPartialFilterExpression(bson.M{"kind": string(invoice.KindRent)}),
			},
			{
				Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "invoice_month", Value: 1}},
				Options: options.Index().SetUnique(true).
					SetPartialFilterExpression(bson.M{"kind": string(invoice.KindUsage)}),
			},
			{Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "status", Value: 1}}},
		},
		colCreditNotes: {
			{Keys: bson.D{{Key: "number", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "status", Value: 1}}},
		},
		colCreditApps: {
			{Keys: bson.D{{Key: "credit_note_id", Value: 1}}},
			{Keys: bson.D{{Key: "invoice_id", Value: 1}}},
		},
	}

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		if _, err := s.db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("%w: %s indexes: %v", rentroll.ErrMigrationFailed, col, err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// ==================== Customer Store ====================

func (s *Store) CreateCustomer(ctx context.Context, c *customer.Customer) error {
	_, err := s.db.Collection(colCustomers).InsertOne(ctx, toCustomerModel(c))
	return wrapInsertErr(err, "create customer")
}

func (s *Store) GetCustomer(ctx context.Context, customerID id.CustomerID) (*customer.Customer, error) {
	var m customerModel
	err := s.db.Collection(colCustomers).FindOne(ctx, bson.M{"_id": customerID.String()}).Decode(&m)
	if isNoDocuments(err) {
		return nil, rentroll.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("rentroll/mongo: get customer: %w", err)
	}
	return fromCustomerModel(&m)
}

func (s *Store) ListCustomers(ctx context.Context, opts customer.ListOpts) ([]*customer.Customer, error) {
	filter := bson.M{}
	if opts.Kind != "" {
		filter["kind"] = string(opts.Kind)
	}
	var models []customerModel
	if err := s.findAll(ctx, colCustomers, filter, opts.Limit, opts.Offset,
		bson.D{{Key: "_id", Value: 1}}, &models); err != nil {
		return nil, fmt.Errorf("rentroll/mongo: list customers: %w", err)
	}
	result := make([]*customer.Customer, len(models))
	for i := range models {
		c, err := fromCustomerModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = c
	}
	return result, nil
}

func (s *Store) UpdateCustomer(ctx context.Context, c *customer.Customer) error {
	m := toCustomerModel(c)
	m.UpdatedAt = time.Now().UTC()
	res, err := s.db.Collection(colCustomers).ReplaceOne(ctx, bson.M{"_id": m.ID}, m)
	if err != nil {
		return fmt.Errorf("rentroll/mongo: update customer: %w", err)
	}
	if res.MatchedCount == 0 {
		return rentroll.ErrCustomerNotFound
	}
	return nil
}

func (s *Store) DeleteCustomer(ctx context.Context, customerID id.CustomerID) error {
	_, err := s.db.Collection(colCustomers).DeleteOne(ctx, bson.M{"_id": customerID.String()})
	return err
}

// ==================== Lease Store ====================

func (s *Store) CreateLease(ctx context.Context, l *lease.Lease) error {
	_, err := s.db.Collection(colLeases).InsertOne(ctx, toLeaseModel(l))
	return wrapInsertErr(err, "create lease")
}

func (s *Store) GetLease(ctx context.Context, leaseID id.LeaseID) (*lease.Lease, error) {
	var m leaseModel
	err := s.db.Collection(colLeases).FindOne(ctx, bson.M{"_id": leaseID.String()}).Decode(&m)
	if isNoDocuments(err) {
		return nil, rentroll.ErrLeaseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("rentroll/mongo: get lease: %w", err)
	}
	return fromLeaseModel(&m)
}

func (s *Store) ListLeases(ctx context.Context, opts lease.ListOpts) ([]*lease.Lease, error) {
	filter := bson.M{}
	if opts.Status != "" {
		filter["status"] = string(opts.Status)
	}
	if opts.Type != "" {
		filter["type"] = string(opts.Type)
	}
	if !opts.CustomerID.IsNil() {
		filter["customer_id"] = opts.CustomerID.String()
	}
	var models []leaseModel
	if err := s.findAll(ctx, colLeases, filter, opts.Limit, opts.Offset,
		bson.D{{Key: "_id", Value: 1}}, &models); err != nil {
		return nil, fmt.Errorf("rentroll/mongo: list leases: %w", err)
	}
	return leasesFromModels(models)
}

func (s *Store) UpdateLease(ctx context.Context, l *lease.Lease) error {
	m := toLeaseModel(l)
	m.UpdatedAt = time.Now().UTC()
	res, err := s.db.Collection(colLeases).ReplaceOne(ctx, bson.M{"_id": m.ID}, m)
	if err != nil {
		return fmt.Errorf("rentroll/mongo: update lease: %w", err)
	}
	if res.MatchedCount == 0 {
		return rentroll.ErrLeaseNotFound
	}
	return nil
}

func (s *Store) DeleteLease(ctx context.Context, leaseID id.LeaseID) error {
	_, err := s.db.Collection(colLeases).DeleteOne(ctx, bson.M{"_id": leaseID.String()})
	return err
}

func (s *Store) ListExpiringLeases(ctx context.Context, by time.Time) ([]*lease.Lease, error) {
	filter := bson.M{
		"status":   string(lease.StatusActive),
		"end_date": bson.M{"$ne": nil, "$lte": by},
	}
	var models []leaseModel
	if err := s.findAll(ctx, colLeases, filter, 0, 0,
		bson.D{{Key: "end_date", Value: 1}}, &models); err != nil {
		return nil, fmt.Errorf("rentroll/mongo: list expiring leases: %w", err)
	}
	return leasesFromModels(models)
}

func leasesFromModels(models []leaseModel) ([]*lease.Lease, error) {
	result := make([]*lease.Lease, len(models))
	for i := range models {
		l, err := fromLeaseModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = l
	}
	return result, nil
}

// ==================== Booking Store ====================

func (s *Store) CreateBooking(ctx context.Context, b *booking.Booking) error {
	_, err := s.db.Collection(colBookings).InsertOne(ctx, toBookingModel(b))
	return wrapInsertErr(err, "create booking")
}

func (s *Store) GetBooking(ctx context.Context, bookingID id.BookingID) (*booking.Booking, error) {
	var m bookingModel
	err := s.db.Collection(colBookings).FindOne(ctx, bson.M{"_id": bookingID.String()}).Decode(&m)
	if isNoDocuments(err) {
		return nil, rentroll.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("rentroll/mongo: get booking: %w", err)
	}
	return fromBookingModel(&m)
}

func (s *Store) ListBookings(ctx context.Context, opts booking.ListOpts) ([]*booking.Booking, error) {
	filter := bson.M{}
	if opts.Kind != "" {
		filter["kind"] = string(opts.Kind)
	}
	if opts.Status != "" {
		filter["status"] = string(opts.Status)
	}
	if !opts.CustomerID.IsNil() {
		filter["customer_id"] = opts.CustomerID.String()
	}
	return s.queryBookings(ctx, filter, opts.Limit, opts.Offset)
}

func (s *Store) UpdateBooking(ctx context.Context, b *booking.Booking) error {
	m := toBookingModel(b)
	m.UpdatedAt = time.Now().UTC()
	res, err := s.db.Collection(colBookings).ReplaceOne(ctx, bson.M{"_id": m.ID}, m)
	if err != nil {
		return fmt.Errorf("rentroll/mongo: update booking: %w", err)
	}
	if res.MatchedCount == 0 {
		return rentroll.ErrBookingNotFound
	}
	return nil
}

func (s *Store) ListBillableBookings(ctx context.Context, customerID id.CustomerID, month types.Month) ([]*booking.Booking, error) {
	filter := bson.M{
		"customer_id":  customerID.String(),
		"status":       string(booking.StatusCompleted),
		"invoice_id":   bson.M{"$in": bson.A{nil, ""}},
		"booking_date": bson.M{"$gte": month.Start(), "$lt": month.End()},
	}
	return s.queryBookings(ctx, filter, 0, 0)
}

func (s *Store) ListConfirmedBefore(ctx context.Context, cutoff time.Time) ([]*booking.Booking, error) {
	filter := bson.M{
		"status":       string(booking.StatusConfirmed),
		"booking_date": bson.M{"$lt": cutoff},
	}
	return s.queryBookings(ctx, filter, 0, 0)
}

func (s *Store) SetBookingInvoice(ctx context.Context, bookingID id.BookingID, invoiceID id.InvoiceID) error {
	res, err := s.db.Collection(colBookings).UpdateOne(ctx,
		bson.M{"_id": bookingID.String()},
		bson.M{"$set": bson.M{"invoice_id": invoiceID.String(), "updated_at": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("rentroll/mongo: set booking invoice: %w", err)
	}
	if res.MatchedCount == 0 {
		return rentroll.ErrBookingNotFound
	}
	return nil
}

func (s *Store) queryBookings(ctx context.Context, filter bson.M, limit, offset int) ([]*booking.Booking, error) {
	var models []bookingModel
	if err := s.findAll(ctx, colBookings, filter, limit, offset,
		bson.D{{Key: "booking_date", Value: 1}}, &models); err != nil {
		return nil, fmt.Errorf("rentroll/mongo: list bookings: %w", err)
	}
	result := make([]*booking.Booking, len(models))
	for i := range models {
		b, err := fromBookingModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = b
	}
	return result, nil
}

// ==================== Invoice Store ====================

func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	_, err := s.db.Collection(colInvoices).InsertOne(ctx, toInvoiceModel(inv))
	return wrapInsertErr(err, "create invoice")
}

func (s *Store) GetInvoice(ctx context.Context, invoiceID id.InvoiceID) (*invoice.Invoice, error) {
	return s.findInvoice(ctx, bson.M{"_id": invoiceID.String()})
}

func (s *Store) ListInvoices(ctx context.Context, opts invoice.ListOpts) ([]*invoice.Invoice, error) {
	filter := bson.M{}
	if opts.Kind != "" {
		filter["kind"] = string(opts.Kind)
	}
	if opts.Status != "" {
		filter["status"] = string(opts.Status)
	}
	if !opts.CustomerID.IsNil() {
		filter["customer_id"] = opts.CustomerID.String()
	}
	if !opts.Month.IsZero() {
		filter["invoice_month"] = opts.Month.String()
	}
	var models []invoiceModel
	if err := s.findAll(ctx, colInvoices, filter, opts.Limit, opts.Offset,
		bson.D{{Key: "number", Value: 1}}, &models); err != nil {
		return nil, fmt.Errorf("rentroll/mongo: list invoices: %w", err)
	}
	result := make([]*invoice.Invoice, len(models))
	for i := range models {
		inv, err := fromInvoiceModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = inv
	}
	return result, nil
}

func (s *Store) UpdateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	m := toInvoiceModel(inv)
	m.UpdatedAt = time.Now().UTC()
	res, err := s.db.Collection(colInvoices).ReplaceOne(ctx, bson.M{"_id": m.ID}, m)
	if err != nil {
		return fmt.Errorf("rentroll/mongo: update invoice: %w", err)
	}
	if res.MatchedCount == 0 {
		return rentroll.ErrInvoiceNotFound
	}
	return nil
}

func (s *Store) DeleteInvoice(ctx context.Context, invoiceID id.InvoiceID) error {
	_, err := s.db.Collection(colInvoices).DeleteOne(ctx, bson.M{"_id": invoiceID.String()})
	return err
}

// AddLineItems appends items to the embedded line_items array.
func (s *Store) AddLineItems(ctx context.Context, invoiceID id.InvoiceID, items []*invoice.LineItem) error {
	models := make([]lineItemModel, len(items))
	for i, it := range items {
		it.InvoiceID = invoiceID
		models[i] = toLineItemModel(it)
	}
	res, err := s.db.Collection(colInvoices).UpdateOne(ctx,
		bson.M{"_id": invoiceID.String()},
		bson.M{
			"$push": bson.M{"line_items": bson.M{"$each": models}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return fmt.Errorf("rentroll/mongo: add line items: %w", err)
	}
	if res.MatchedCount == 0 {
		return rentroll.ErrInvoiceNotFound
	}
	return nil
}

func (s *Store) FindRentInvoice(ctx context.Context, leaseID id.LeaseID, month types.Month) (*invoice.Invoice, error) {
	return s.findInvoice(ctx, bson.M{
		"kind":          string(invoice.KindRent),
		"lease_id":      leaseID.String(),
		"invoice_month": month.String(),
	})
}

func (s *Store) FindUsageInvoice(ctx context.Context, customerID id.CustomerID, month types.Month) (*invoice.Invoice, error) {
	return s.findInvoice(ctx, bson.M{
		"kind":          string(invoice.KindUsage),
		"customer_id":   customerID.String(),
		"invoice_month": month.String(),
	})
}

func (s *Store) findInvoice(ctx context.Context, filter bson.M) (*invoice.Invoice, error) {
	var m invoiceModel
	err := s.db.Collection(colInvoices).FindOne(ctx, filter).Decode(&m)
	if isNoDocuments(err) {
		return nil, rentroll.ErrInvoiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("rentroll/mongo: find invoice: %w", err)
	}
	return fromInvoiceModel(&m)
}

// ==================== Credit Store ====================

func (s *Store) CreateCreditNote(ctx context.Context, n *credit.CreditNote) error {
	_, err := s.db.Collection(colCreditNotes).InsertOne(ctx, toCreditNoteModel(n))
	return wrapInsertErr(err, "create credit note")
}

func (s *Store) GetCreditNote(ctx context.Context, noteID id.CreditNoteID) (*credit.CreditNote, error) {
	var m creditNoteModel
	err := s.db.Collection(colCreditNotes).FindOne(ctx, bson.M{"_id": noteID.String()}).Decode(&m)
	if isNoDocuments(err) {
		return nil, rentroll.ErrCreditNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("rentroll/mongo: get credit note: %w", err)
	}
	return fromCreditNoteModel(&m)
}

func (s *Store) ListCreditNotes(ctx context.Context, opts credit.ListOpts) ([]*credit.CreditNote, error) {
	filter := bson.M{}
	if opts.Status != "" {
		filter["status"] = string(opts.Status)
	}
	if !opts.CustomerID.IsNil() {
		filter["customer_id"] = opts.CustomerID.String()
	}
	var models []creditNoteModel
	if err := s.findAll(ctx, colCreditNotes, filter, opts.Limit, opts.Offset,
		bson.D{{Key: "number", Value: 1}}, &models); err != nil {
		return nil, fmt.Errorf("rentroll/mongo: list credit notes: %w", err)
	}
	result := make([]*credit.CreditNote, len(models))
	for i := range models {
		n, err := fromCreditNoteModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = n
	}
	return result, nil
}

func (s *Store) UpdateCreditNote(ctx context.Context, n *credit.CreditNote) error {
	m := toCreditNoteModel(n)
	m.UpdatedAt = time.Now().UTC()
	res, err := s.db.Collection(colCreditNotes).ReplaceOne(ctx, bson.M{"_id": m.ID}, m)
	if err != nil {
		return fmt.Errorf("rentroll/mongo: update credit note: %w", err)
	}
	if res.MatchedCount == 0 {
		return rentroll.ErrCreditNoteNotFound
	}
	return nil
}

func (s *Store) CreateCreditApplication(ctx context.Context, a *credit.CreditApplication) error {
	_, err := s.db.Collection(colCreditApps).InsertOne(ctx, toCreditAppModel(a))
	return wrapInsertErr(err, "create credit application")
}

func (s *Store) ListCreditApplications(ctx context.Context, noteID id.CreditNoteID) ([]*credit.CreditApplication, error) {
	var models []creditAppModel
	if err := s.findAll(ctx, colCreditApps, bson.M{"credit_note_id": noteID.String()}, 0, 0,
		bson.D{{Key: "applied_at", Value: 1}}, &models); err != nil {
		return nil, fmt.Errorf("rentroll/mongo: list credit applications: %w", err)
	}
	result := make([]*credit.CreditApplication, len(models))
	for i := range models {
		a, err := fromCreditAppModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = a
	}
	return result, nil
}

// ==================== Job Store ====================

func (s *Store) GetJob(ctx context.Context, jobType schedule.JobType) (*schedule.Job, error) {
	var m jobModel
	err := s.db.Collection(colJobs).FindOne(ctx, bson.M{"_id": string(jobType)}).Decode(&m)
	if isNoDocuments(err) {
		return nil, rentroll.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("rentroll/mongo: get job: %w", err)
	}
	return fromJobModel(&m), nil
}

func (s *Store) ListJobs(ctx context.Context) ([]*schedule.Job, error) {
	var models []jobModel
	if err := s.findAll(ctx, colJobs, bson.M{}, 0, 0,
		bson.D{{Key: "_id", Value: 1}}, &models); err != nil {
		return nil, fmt.Errorf("rentroll/mongo: list jobs: %w", err)
	}
	result := make([]*schedule.Job, len(models))
	for i := range models {
		result[i] = fromJobModel(&models[i])
	}
	return result, nil
}

func (s *Store) PutJob(ctx context.Context, j *schedule.Job) error {
	m := toJobModel(j)
	_, err := s.db.Collection(colJobs).ReplaceOne(ctx,
		bson.M{"_id": m.Type}, m, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("rentroll/mongo: put job: %w", err)
	}
	return nil
}

// ==================== Settings Store ====================

func (s *Store) GetSettings(ctx context.Context) (*settings.Settings, error) {
	var m settingsModel
	err := s.db.Collection(colSettings).FindOne(ctx, bson.M{"_id": settingsDocID}).Decode(&m)
	if isNoDocuments(err) {
		return settings.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("rentroll/mongo: get settings: %w", err)
	}
	return fromSettingsModel(&m), nil
}

func (s *Store) PutSettings(ctx context.Context, cfg *settings.Settings) error {
	m := toSettingsModel(cfg)
	m.UpdatedAt = time.Now().UTC()
	_, err := s.db.Collection(colSettings).ReplaceOne(ctx,
		bson.M{"_id": settingsDocID}, m, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("rentroll/mongo: put settings: %w", err)
	}
	return nil
}

// ==================== Counters ====================

func (s *Store) NextInvoiceNumber(ctx context.Context) (int64, error) {
	return s.nextCounter(ctx, "invoice")
}

func (s *Store) NextCreditNoteNumber(ctx context.Context) (int64, error) {
	return s.nextCounter(ctx, "credit_note")
}

// nextCounter atomically increments the named counter document. $inc with
// upsert serializes concurrent callers on the document, so numbers are
// unique and never reused.
func (s *Store) nextCounter(ctx context.Context, name string) (int64, error) {
	var doc struct {
		Value int64 `bson:"value"`
	}
	err := s.db.Collection(colCounters).FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"value": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("rentroll/mongo: next %s number: %w", name, err)
	}
	return doc.Value, nil
}

// ==================== Helpers ====================

// findAll runs a filtered, sorted, paged find into out (a *[]model).
func (s *Store) findAll(ctx context.Context, col string, filter bson.M, limit, offset int, sort bson.D, out any) error {
	opts := options.Find().SetSort(sort)
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}
	if offset > 0 {
		opts = opts.SetSkip(int64(offset))
	}
	cur, err := s.db.Collection(col).Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

// wrapInsertErr maps duplicate-key violations onto ErrAlreadyExists.
func wrapInsertErr(err error, op string) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s", rentroll.ErrAlreadyExists, op)
	}
	return fmt.Errorf("rentroll/mongo: %s: %w", op, err)
}

// isNoDocuments checks for the driver's no-documents sentinel.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
