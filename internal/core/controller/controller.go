// Package controller implements the shared list/mutate/select abstraction
// every resource page of the admin dashboard is built on. One Controller is
// instantiated per entity type; concrete resources differ only in their
// Descriptor (endpoint path, id accessor, validation), never in logic.
package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/clinicore/crm_admin_app/internal/apperrors"
	"github.com/clinicore/crm_admin_app/internal/core/ports"
	"github.com/clinicore/crm_admin_app/internal/logging"
)

// scopeParam is the query parameter carrying the owning-company id on
// every list call.
const scopeParam = "companyId"

// Descriptor configures a Controller for one concrete entity type.
type Descriptor[T any] struct {
	// Name is the resource name used in logs and error messages.
	Name string
	// Path is the collection endpoint, e.g. "/ledger".
	Path string
	// ID extracts the server-assigned identifier from a record.
	ID func(T) string
	// Check holds entity-specific validation beyond the struct tags.
	// Optional.
	Check func(T) error
	// ReadOnly marks reference resources that only support List.
	ReadOnly bool
}

// Controller owns the list, loading flag and selection state for one
// entity type and exposes the CRUD and bulk operations over it. All
// methods are safe for concurrent use; mutations are serialized by an
// in-flight guard so a double submit fails fast instead of firing twice.
type Controller[T any] struct {
	desc     Descriptor[T]
	client   ports.RESTClient
	session  ports.SessionReader
	validate *validator.Validate

	mu         sync.Mutex
	items      []T
	selected   map[string]struct{}
	loading    bool
	mutating   bool
	generation uint64
}

// New creates a Controller for the given descriptor.
func New[T any](desc Descriptor[T], client ports.RESTClient, sess ports.SessionReader, validate *validator.Validate) *Controller[T] {
	return &Controller[T]{
		desc:     desc,
		client:   client,
		session:  sess,
		validate: validate,
		selected: make(map[string]struct{}),
	}
}

// Name returns the resource name from the descriptor.
func (c *Controller[T]) Name() string { return c.desc.Name }

// Items returns a copy of the current list.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Loading reports whether a list fetch is in flight.
func (c *Controller[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Selected returns the ids currently selected for bulk operations.
func (c *Controller[T]) Selected() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.selected))
	for id := range c.selected {
		out = append(out, id)
	}
	return out
}

// IsSelected reports whether the id is in the selection set.
func (c *Controller[T]) IsSelected(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.selected[id]
	return ok
}

// ToggleSelect flips the selection state of one id. Purely local.
func (c *Controller[T]) ToggleSelect(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.selected[id]; ok {
		delete(c.selected, id)
	} else {
		c.selected[id] = struct{}{}
	}
}

// ToggleSelectAll selects every listed id, or clears the selection when
// everything is already selected. A no-op on an empty list.
func (c *Controller[T]) ToggleSelectAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) == 0 {
		return
	}
	if len(c.selected) == len(c.items) {
		c.selected = make(map[string]struct{})
		return
	}
	c.selected = make(map[string]struct{}, len(c.items))
	for _, item := range c.items {
		c.selected[c.desc.ID(item)] = struct{}{}
	}
}

// List fetches every record of this resource belonging to the active
// scope and replaces the list wholesale. The selection is cleared on
// every refresh so it can never reference stale ids. A response of an
// unexpected shape is normalized to an empty list rather than raised;
// transport failures are returned and leave the previous items in place.
func (c *Controller[T]) List(ctx context.Context) ([]T, error) {
	scopeID := c.session.ScopeID()
	if scopeID == "" {
		return nil, fmt.Errorf("%w: cannot list %s", apperrors.ErrNoSession, c.desc.Name)
	}

	c.mu.Lock()
	c.loading = true
	gen := c.generation
	c.mu.Unlock()

	var raw json.RawMessage
	err := c.client.GetJSON(ctx, c.desc.Path, url.Values{scopeParam: {scopeID}}, &raw)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if gen != c.generation {
		// Controller was reset while the fetch was in flight; the result
		// belongs to a dead scope and must not be rendered.
		return nil, nil
	}
	c.selected = make(map[string]struct{})
	if err != nil {
		return nil, err
	}
	c.items = decodeItems[T](ctx, raw, c.desc.Name)
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out, nil
}

// Create validates the record locally, posts it and then refetches the
// list so the server-assigned id shows up. A validation failure makes no
// network call and leaves the list untouched.
func (c *Controller[T]) Create(ctx context.Context, record T) error {
	if err := c.mutable(); err != nil {
		return err
	}
	if err := c.validateRecord(record); err != nil {
		return err
	}
	if err := c.beginMutation(); err != nil {
		return err
	}
	defer c.endMutation()

	if err := c.client.PostJSON(ctx, c.desc.Path, record, nil); err != nil {
		return fmt.Errorf("failed to create %s: %w", c.desc.Name, err)
	}
	// Refresh only after the mutation resolved, so the list reflects it.
	_, err := c.List(ctx)
	return err
}

// Update replaces the full record behind id with the given one, applying
// the same local validation as Create, then refetches.
func (c *Controller[T]) Update(ctx context.Context, id string, record T) error {
	if err := c.mutable(); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: %s id is required", apperrors.ErrValidation, c.desc.Name)
	}
	if err := c.validateRecord(record); err != nil {
		return err
	}
	if err := c.beginMutation(); err != nil {
		return err
	}
	defer c.endMutation()

	if err := c.client.PutJSON(ctx, c.desc.Path+"/"+url.PathEscape(id), record, nil); err != nil {
		return fmt.Errorf("failed to update %s %s: %w", c.desc.Name, id, err)
	}
	_, err := c.List(ctx)
	return err
}

// Delete hard-deletes one record, drops its id from the selection and
// refetches.
func (c *Controller[T]) Delete(ctx context.Context, id string) error {
	if err := c.mutable(); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: %s id is required", apperrors.ErrValidation, c.desc.Name)
	}
	if err := c.beginMutation(); err != nil {
		return err
	}
	defer c.endMutation()

	if err := c.client.DeleteJSON(ctx, c.desc.Path+"/"+url.PathEscape(id), nil); err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", c.desc.Name, id, err)
	}
	c.mu.Lock()
	delete(c.selected, id)
	c.mu.Unlock()
	_, err := c.List(ctx)
	return err
}

// BulkDelete deletes the given ids one request at a time. It is not
// transactional: a failure partway leaves earlier deletes in place. The
// selection is cleared regardless of the outcome and a single refresh
// runs at the end.
func (c *Controller[T]) BulkDelete(ctx context.Context, ids []string) error {
	if err := c.mutable(); err != nil {
		return err
	}
	if err := c.beginMutation(); err != nil {
		return err
	}
	defer c.endMutation()

	logger := logging.FromCtx(ctx)
	var failed int
	for _, id := range ids {
		if err := c.client.DeleteJSON(ctx, c.desc.Path+"/"+url.PathEscape(id), nil); err != nil {
			failed++
			logger.Warn("Bulk delete item failed",
				slog.String("resource", c.desc.Name),
				slog.String("id", id),
				slog.String("error", err.Error()))
		}
	}

	c.mu.Lock()
	c.selected = make(map[string]struct{})
	c.mu.Unlock()

	if _, err := c.List(ctx); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d deletes failed", apperrors.ErrBackend, failed, len(ids))
	}
	return nil
}

// BulkCreate posts the given records one request at a time and runs a
// single refresh at the end. It returns how many records the backend
// accepted; per-record failures are logged and folded into the error.
func (c *Controller[T]) BulkCreate(ctx context.Context, records []T) (int, error) {
	if err := c.mutable(); err != nil {
		return 0, err
	}
	if err := c.beginMutation(); err != nil {
		return 0, err
	}
	defer c.endMutation()

	logger := logging.FromCtx(ctx)
	var created, failed int
	for _, record := range records {
		if err := c.validateRecord(record); err != nil {
			failed++
			logger.Warn("Bulk create item rejected locally",
				slog.String("resource", c.desc.Name),
				slog.String("error", err.Error()))
			continue
		}
		if err := c.client.PostJSON(ctx, c.desc.Path, record, nil); err != nil {
			failed++
			logger.Warn("Bulk create item failed",
				slog.String("resource", c.desc.Name),
				slog.String("error", err.Error()))
			continue
		}
		created++
	}

	if _, err := c.List(ctx); err != nil {
		return created, err
	}
	if failed > 0 {
		return created, fmt.Errorf("%w: %d of %d creates failed", apperrors.ErrBackend, failed, len(records))
	}
	return created, nil
}

// Reset drops all state. An in-flight List from before the reset will not
// apply its result. Used on logout and scope invalidation.
func (c *Controller[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.items = nil
	c.selected = make(map[string]struct{})
	c.loading = false
}

func (c *Controller[T]) mutable() error {
	if c.desc.ReadOnly {
		return fmt.Errorf("%w: %s is read-only", apperrors.ErrValidation, c.desc.Name)
	}
	return nil
}

func (c *Controller[T]) validateRecord(record T) error {
	if c.validate != nil {
		if err := c.validate.Struct(record); err != nil {
			return fmt.Errorf("%w: %s: %v", apperrors.ErrValidation, c.desc.Name, err)
		}
	}
	if c.desc.Check != nil {
		if err := c.desc.Check(record); err != nil {
			return fmt.Errorf("%w: %s: %v", apperrors.ErrValidation, c.desc.Name, err)
		}
	}
	return nil
}

func (c *Controller[T]) beginMutation() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mutating {
		return fmt.Errorf("%w: %s", apperrors.ErrBusy, c.desc.Name)
	}
	c.mutating = true
	return nil
}

func (c *Controller[T]) endMutation() {
	c.mu.Lock()
	c.mutating = false
	c.mu.Unlock()
}

// decodeItems tolerantly decodes a list payload. Anything that is not a
// JSON array of T normalizes to an empty list; a broken list response
// must degrade to an empty table, not a crash.
func decodeItems[T any](ctx context.Context, raw json.RawMessage, name string) []T {
	if len(raw) == 0 {
		return []T{}
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		logging.FromCtx(ctx).Warn("Unexpected list response shape",
			slog.String("resource", name),
			slog.String("error", err.Error()))
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}
