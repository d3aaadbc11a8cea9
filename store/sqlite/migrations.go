package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// migration is one versioned schema step. Statements must be idempotent;
// the applied set is additionally tracked in rentroll_migrations.
type migration struct {
	Name    string
	Version string
	Up      string
}

// Migrations is the ordered schema history for the SQLite store.
var Migrations = []migration{
	{
		Name:    "create_rentroll_customers",
		Version: "20250101000001",
		Up: `
CREATE TABLE IF NOT EXISTS rentroll_customers (
    id                   TEXT PRIMARY KEY,
    kind                 TEXT NOT NULL DEFAULT 'tenant',
    name                 TEXT NOT NULL DEFAULT '',
    email                TEXT NOT NULL DEFAULT '',
    rent_discount_bps    INTEGER NOT NULL DEFAULT 0,
    meeting_discount_bps INTEGER NOT NULL DEFAULT 0,
    metadata             TEXT NOT NULL DEFAULT '{}',
    created_at           TIMESTAMP NOT NULL,
    updated_at           TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_rentroll_customers_kind ON rentroll_customers (kind);
`,
	},
	{
		Name:    "create_rentroll_leases",
		Version: "20250101000002",
		Up: `
CREATE TABLE IF NOT EXISTS rentroll_leases (
    id                 TEXT PRIMARY KEY,
    customer_id        TEXT NOT NULL,
    status             TEXT NOT NULL DEFAULT 'draft',
    type               TEXT NOT NULL DEFAULT 'standard',
    vat_rate_bps       INTEGER NOT NULL DEFAULT 0,
    vat_inclusive      INTEGER NOT NULL DEFAULT 0,
    deposit_cents      INTEGER NOT NULL DEFAULT 0,
    currency           TEXT NOT NULL DEFAULT 'eur',
    start_date         TIMESTAMP NOT NULL,
    end_date           TIMESTAMP,
    last_indexed_year  INTEGER NOT NULL DEFAULT 0,
    expiry_notified_at TIMESTAMP,
    spaces             TEXT NOT NULL DEFAULT '[]',
    flex               TEXT,
    metadata           TEXT NOT NULL DEFAULT '{}',
    created_at         TIMESTAMP NOT NULL,
    updated_at         TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_rentroll_leases_customer ON rentroll_leases (customer_id);
CREATE INDEX IF NOT EXISTS idx_rentroll_leases_status ON rentroll_leases (status);
CREATE INDEX IF NOT EXISTS idx_rentroll_leases_end_date ON rentroll_leases (end_date);
`,
	},
	{
		Name:    "create_rentroll_bookings",
		Version: "20250101000003",
		Up: `
CREATE TABLE IF NOT EXISTS rentroll_bookings (
    id             TEXT PRIMARY KEY,
    kind           TEXT NOT NULL DEFAULT 'meeting_room',
    customer_id    TEXT NOT NULL,
    booking_date   TIMESTAMP NOT NULL,
    start_time     TEXT NOT NULL DEFAULT '',
    end_time       TEXT NOT NULL DEFAULT '',
    half_day       INTEGER NOT NULL DEFAULT 0,
    total_cents    INTEGER NOT NULL DEFAULT 0,
    discount_cents INTEGER NOT NULL DEFAULT 0,
    currency       TEXT NOT NULL DEFAULT 'eur',
    status         TEXT NOT NULL DEFAULT 'pending',
    invoice_id     TEXT,
    description    TEXT NOT NULL DEFAULT '',
    created_at     TIMESTAMP NOT NULL,
    updated_at     TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_rentroll_bookings_customer ON rentroll_bookings (customer_id);
CREATE INDEX IF NOT EXISTS idx_rentroll_bookings_status ON rentroll_bookings (status, booking_date);
CREATE INDEX IF NOT EXISTS idx_rentroll_bookings_invoice ON rentroll_bookings (invoice_id);
`,
	},
	{
		Name:    "create_rentroll_invoices",
		Version: "20250101000004",
		Up: `
CREATE TABLE IF NOT EXISTS rentroll_invoices (
    id                   TEXT PRIMARY KEY,
    number               TEXT NOT NULL,
    kind                 TEXT NOT NULL DEFAULT 'manual',
    customer_id          TEXT NOT NULL,
    lease_id             TEXT,
    invoice_month        TEXT NOT NULL DEFAULT '',
    subtotal_cents       INTEGER NOT NULL DEFAULT 0,
    vat_cents            INTEGER NOT NULL DEFAULT 0,
    total_cents          INTEGER NOT NULL DEFAULT 0,
    currency             TEXT NOT NULL DEFAULT 'eur',
    vat_rate_bps         INTEGER NOT NULL DEFAULT 0,
    vat_inclusive        INTEGER NOT NULL DEFAULT 0,
    status               TEXT NOT NULL DEFAULT 'draft',
    applied_credit_cents INTEGER NOT NULL DEFAULT 0,
    notes                TEXT NOT NULL DEFAULT '',
    due_date             TIMESTAMP,
    sent_at              TIMESTAMP,
    paid_at              TIMESTAMP,
    created_at           TIMESTAMP NOT NULL,
    updated_at           TIMESTAMP NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_rentroll_invoices_number ON rentroll_invoices (number);
CREATE UNIQUE INDEX IF NOT EXISTS idx_rentroll_invoices_rent_period
    ON rentroll_invoices (lease_id, invoice_month) WHERE kind = 'rent';
CREATE UNIQUE INDEX IF NOT EXISTS idx_rentroll_invoices_usage_period
    ON rentroll_invoices (customer_id, invoice_month) WHERE kind = 'usage';
CREATE INDEX IF NOT EXISTS idx_rentroll_invoices_customer ON rentroll_invoices (customer_id, status);
`,
	},
	{
		Name:    "create_rentroll_line_items",
		Version: "20250101000005",
		Up: `
CREATE TABLE IF NOT EXISTS rentroll_line_items (
    id          TEXT PRIMARY KEY,
    invoice_id  TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    quantity    INTEGER NOT NULL DEFAULT 1,
    unit_cents  INTEGER NOT NULL DEFAULT 0,
    amount_cents INTEGER NOT NULL DEFAULT 0,
    currency    TEXT NOT NULL DEFAULT 'eur',
    booking_id  TEXT
);

CREATE INDEX IF NOT EXISTS idx_rentroll_line_items_invoice ON rentroll_line_items (invoice_id);
`,
	},
	{
		Name:    "create_rentroll_credit_notes",
		Version: "20250101000006",
		Up: `
CREATE TABLE IF NOT EXISTS rentroll_credit_notes (
    id                  TEXT PRIMARY KEY,
    number              TEXT NOT NULL,
    customer_id         TEXT NOT NULL,
    original_invoice_id TEXT,
    total_cents         INTEGER NOT NULL DEFAULT 0,
    currency            TEXT NOT NULL DEFAULT 'eur',
    status              TEXT NOT NULL DEFAULT 'draft',
    reason              TEXT NOT NULL DEFAULT '',
    issued_at           TIMESTAMP,
    created_at          TIMESTAMP NOT NULL,
    updated_at          TIMESTAMP NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_rentroll_credit_notes_number ON rentroll_credit_notes (number);
CREATE INDEX IF NOT EXISTS idx_rentroll_credit_notes_customer ON rentroll_credit_notes (customer_id, status);

CREATE TABLE IF NOT EXISTS rentroll_credit_applications (
    id             TEXT PRIMARY KEY,
    credit_note_id TEXT NOT NULL,
    invoice_id     TEXT NOT NULL,
    amount_cents   INTEGER NOT NULL DEFAULT 0,
    currency       TEXT NOT NULL DEFAULT 'eur',
    applied_at     TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_rentroll_credit_apps_note ON rentroll_credit_applications (credit_note_id);
CREATE INDEX IF NOT EXISTS idx_rentroll_credit_apps_invoice ON rentroll_credit_applications (invoice_id);
`,
	},
	{
		Name:    "create_rentroll_jobs_settings_sequences",
		Version: "20250101000007",
		Up: `
CREATE TABLE IF NOT EXISTS rentroll_jobs (
    job_type    TEXT PRIMARY KEY,
    enabled     INTEGER NOT NULL DEFAULT 1,
    last_run_at TIMESTAMP,
    next_run_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS rentroll_settings (
    id                 INTEGER PRIMARY KEY CHECK (id = 1),
    test_mode          INTEGER NOT NULL DEFAULT 0,
    test_date          TIMESTAMP,
    indexation_bps     INTEGER NOT NULL DEFAULT 0,
    expiry_notice_days INTEGER NOT NULL DEFAULT 60,
    created_at         TIMESTAMP NOT NULL,
    updated_at         TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS rentroll_sequences (
    name  TEXT PRIMARY KEY,
    value INTEGER NOT NULL DEFAULT 0
);
`,
	},
}

// runMigrations applies all unapplied migrations in order, each inside its
// own transaction, recording them in rentroll_migrations.
func runMigrations(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS rentroll_migrations (
    version    TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    applied_at TIMESTAMP NOT NULL
);`); err != nil {
		return fmt.Errorf("rentroll/sqlite: create migration table: %w", err)
	}

	for _, m := range Migrations {
		var exists int
		err := db.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM rentroll_migrations WHERE version = ?`, m.Version).Scan(&exists)
		if err != nil {
			return fmt.Errorf("rentroll/sqlite: check migration %s: %w", m.Version, err)
		}
		if exists > 0 {
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("rentroll/sqlite: begin migration %s: %w", m.Version, err)
		}
		if _, err := tx.ExecContext(ctx, m.Up); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("rentroll/sqlite: apply %s (%s): %w", m.Name, m.Version, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO rentroll_migrations (version, name, applied_at) VALUES (?, ?, ?)`,
			m.Version, m.Name, now()); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("rentroll/sqlite: record %s: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("rentroll/sqlite: commit %s: %w", m.Version, err)
		}
	}
	return nil
}
