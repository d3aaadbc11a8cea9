package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit              []OnInit
	onShutdown          []OnShutdown
	onInvoiceGenerated  []OnInvoiceGenerated
	onInvoiceSkipped    []OnInvoiceSkipped
	onGenerationFailed  []OnGenerationFailed
	onCreditNoteIssued  []OnCreditNoteIssued
	onCreditApplied     []OnCreditApplied
	onRentIndexed       []OnRentIndexed
	onLeaseExpiring     []OnLeaseExpiring
	onBookingsCompleted []OnBookingsCompleted
	onJobStarted        []OnJobStarted
	onJobCompleted      []OnJobCompleted
	onJobFailed         []OnJobFailed
	invoiceFormatters   map[string]InvoiceFormatter
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger:            slog.Default(),
		invoiceFormatters: make(map[string]InvoiceFormatter),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnInvoiceGenerated); ok {
		r.onInvoiceGenerated = append(r.onInvoiceGenerated, v)
	}
	if v, ok := p.(OnInvoiceSkipped); ok {
		r.onInvoiceSkipped = append(r.onInvoiceSkipped, v)
	}
	if v, ok := p.(OnGenerationFailed); ok {
		r.onGenerationFailed = append(r.onGenerationFailed, v)
	}
	if v, ok := p.(OnCreditNoteIssued); ok {
		r.onCreditNoteIssued = append(r.onCreditNoteIssued, v)
	}
	if v, ok := p.(OnCreditApplied); ok {
		r.onCreditApplied = append(r.onCreditApplied, v)
	}
	if v, ok := p.(OnRentIndexed); ok {
		r.onRentIndexed = append(r.onRentIndexed, v)
	}
	if v, ok := p.(OnLeaseExpiring); ok {
		r.onLeaseExpiring = append(r.onLeaseExpiring, v)
	}
	if v, ok := p.(OnBookingsCompleted); ok {
		r.onBookingsCompleted = append(r.onBookingsCompleted, v)
	}
	if v, ok := p.(OnJobStarted); ok {
		r.onJobStarted = append(r.onJobStarted, v)
	}
	if v, ok := p.(OnJobCompleted); ok {
		r.onJobCompleted = append(r.onJobCompleted, v)
	}
	if v, ok := p.(OnJobFailed); ok {
		r.onJobFailed = append(r.onJobFailed, v)
	}
	if v, ok := p.(InvoiceFormatter); ok {
		r.invoiceFormatters[v.Format()] = v
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", r.getImplementedInterfaces(p),
	)

	return nil
}

// getImplementedInterfaces returns a list of interfaces implemented by the plugin.
func (r *Registry) getImplementedInterfaces(p Plugin) []string {
	var interfaces []string
	v := reflect.TypeOf(p)

	// Check each interface
	checkInterface := func(iface reflect.Type, name string) {
		if v.Implements(iface) {
			interfaces = append(interfaces, name)
		}
	}

	// List all interfaces to check
	checkInterface(reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit")
	checkInterface(reflect.TypeOf((*OnShutdown)(nil)).Elem(), "OnShutdown")
	checkInterface(reflect.TypeOf((*OnInvoiceGenerated)(nil)).Elem(), "OnInvoiceGenerated")
	checkInterface(reflect.TypeOf((*OnInvoiceSkipped)(nil)).Elem(), "OnInvoiceSkipped")
	checkInterface(reflect.TypeOf((*OnGenerationFailed)(nil)).Elem(), "OnGenerationFailed")
	checkInterface(reflect.TypeOf((*OnCreditNoteIssued)(nil)).Elem(), "OnCreditNoteIssued")
	checkInterface(reflect.TypeOf((*OnCreditApplied)(nil)).Elem(), "OnCreditApplied")
	checkInterface(reflect.TypeOf((*OnRentIndexed)(nil)).Elem(), "OnRentIndexed")
	checkInterface(reflect.TypeOf((*OnLeaseExpiring)(nil)).Elem(), "OnLeaseExpiring")
	checkInterface(reflect.TypeOf((*OnBookingsCompleted)(nil)).Elem(), "OnBookingsCompleted")
	checkInterface(reflect.TypeOf((*OnJobStarted)(nil)).Elem(), "OnJobStarted")
	checkInterface(reflect.TypeOf((*OnJobCompleted)(nil)).Elem(), "OnJobCompleted")
	checkInterface(reflect.TypeOf((*OnJobFailed)(nil)).Elem(), "OnJobFailed")
	checkInterface(reflect.TypeOf((*InvoiceFormatter)(nil)).Elem(), "InvoiceFormatter")

	return interfaces
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, engine interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, engine)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitInvoiceGenerated emits an invoice generated event.
func (r *Registry) EmitInvoiceGenerated(ctx context.Context, inv interface{}) {
	r.mu.RLock()
	plugins := r.onInvoiceGenerated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInvoiceGenerated(ctx, inv)
		}); err != nil {
			r.logger.Warn("plugin OnInvoiceGenerated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitInvoiceSkipped emits an invoice skipped event.
func (r *Registry) EmitInvoiceSkipped(ctx context.Context, customerID, month, kind string) {
	r.mu.RLock()
	plugins := r.onInvoiceSkipped
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInvoiceSkipped(ctx, customerID, month, kind)
		}); err != nil {
			r.logger.Warn("plugin OnInvoiceSkipped failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitGenerationFailed emits a per-customer generation failure event.
func (r *Registry) EmitGenerationFailed(ctx context.Context, customerID, month string, genErr error) {
	r.mu.RLock()
	plugins := r.onGenerationFailed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnGenerationFailed(ctx, customerID, month, genErr)
		}); err != nil {
			r.logger.Warn("plugin OnGenerationFailed failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitCreditNoteIssued emits a credit note issued event.
func (r *Registry) EmitCreditNoteIssued(ctx context.Context, note interface{}) {
	r.mu.RLock()
	plugins := r.onCreditNoteIssued
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnCreditNoteIssued(ctx, note)
		}); err != nil {
			r.logger.Warn("plugin OnCreditNoteIssued failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitCreditApplied emits a credit applied event.
func (r *Registry) EmitCreditApplied(ctx context.Context, application interface{}) {
	r.mu.RLock()
	plugins := r.onCreditApplied
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnCreditApplied(ctx, application)
		}); err != nil {
			r.logger.Warn("plugin OnCreditApplied failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitRentIndexed emits a rent indexed event.
func (r *Registry) EmitRentIndexed(ctx context.Context, l interface{}, year int) {
	r.mu.RLock()
	plugins := r.onRentIndexed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnRentIndexed(ctx, l, year)
		}); err != nil {
			r.logger.Warn("plugin OnRentIndexed failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitLeaseExpiring emits a lease expiring event.
func (r *Registry) EmitLeaseExpiring(ctx context.Context, l interface{}) {
	r.mu.RLock()
	plugins := r.onLeaseExpiring
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnLeaseExpiring(ctx, l)
		}); err != nil {
			r.logger.Warn("plugin OnLeaseExpiring failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitBookingsCompleted emits a bookings completed event.
func (r *Registry) EmitBookingsCompleted(ctx context.Context, count int) {
	r.mu.RLock()
	plugins := r.onBookingsCompleted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnBookingsCompleted(ctx, count)
		}); err != nil {
			r.logger.Warn("plugin OnBookingsCompleted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitJobStarted emits a job started event.
func (r *Registry) EmitJobStarted(ctx context.Context, jobType string) {
	r.mu.RLock()
	plugins := r.onJobStarted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnJobStarted(ctx, jobType)
		}); err != nil {
			r.logger.Warn("plugin OnJobStarted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitJobCompleted emits a job completed event.
func (r *Registry) EmitJobCompleted(ctx context.Context, jobType string, report interface{}) {
	r.mu.RLock()
	plugins := r.onJobCompleted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnJobCompleted(ctx, jobType, report)
		}); err != nil {
			r.logger.Warn("plugin OnJobCompleted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitJobFailed emits a job failed event.
func (r *Registry) EmitJobFailed(ctx context.Context, jobType string, jobErr error) {
	r.mu.RLock()
	plugins := r.onJobFailed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnJobFailed(ctx, jobType, jobErr)
		}); err != nil {
			r.logger.Warn("plugin OnJobFailed failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// GetInvoiceFormatter returns a formatter by format name.
func (r *Registry) GetInvoiceFormatter(format string) InvoiceFormatter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.invoiceFormatters[format]
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the billing pipeline.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
