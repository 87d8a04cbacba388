// Package registry wires one controller per backend resource and keeps
// them in sync with the session lifecycle: a scope switch refetches every
// controller exactly once, a logout drops all their state.
package registry

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/clinicore/crm_admin_app/internal/core/controller"
	"github.com/clinicore/crm_admin_app/internal/core/domain"
	"github.com/clinicore/crm_admin_app/internal/core/ports"
	"github.com/clinicore/crm_admin_app/internal/logging"
)

// sessionEvents is the slice of the session the registry subscribes to.
type sessionEvents interface {
	OnScopeChange(fn func(scopeID string))
	OnReset(fn func())
}

// Registry holds all resource controllers and manages their dependencies.
type Registry struct {
	Leads              *controller.Controller[domain.Lead]
	Clients            *controller.Controller[domain.Client]
	Tasks              *controller.Controller[domain.Task]
	Priorities         *controller.Controller[domain.Priority]
	TaskStatuses       *controller.Controller[domain.TaskStatus]
	Users              *controller.Controller[domain.UserProfile]
	Ledgers            *controller.Controller[domain.Ledger]
	SubLedgers         *controller.Controller[domain.SubLedger]
	Departments        *controller.Controller[domain.Department]
	DepartmentTypes    *controller.Controller[domain.DepartmentType]
	DepartmentSubTypes *controller.Controller[domain.DepartmentSubType]

	resetters  []func()
	refetchers []func(context.Context) error
}

// New creates the full controller set over the given transport and session.
// The validator is shared; each controller applies its entity's tags.
func New(client ports.RESTClient, sess ports.SessionReader, events sessionEvents, validate *validator.Validate) *Registry {
	r := &Registry{}

	r.Leads = add(r, controller.Descriptor[domain.Lead]{
		Name: "lead",
		Path: "/lead",
		ID:   func(l domain.Lead) string { return l.LeadID },
	}, client, sess, validate)

	r.Clients = add(r, controller.Descriptor[domain.Client]{
		Name: "client",
		Path: "/client",
		ID:   func(c domain.Client) string { return c.ClientID },
	}, client, sess, validate)

	r.Tasks = add(r, controller.Descriptor[domain.Task]{
		Name: "task",
		Path: "/task",
		ID:   func(t domain.Task) string { return t.TaskID },
	}, client, sess, validate)

	r.Priorities = add(r, controller.Descriptor[domain.Priority]{
		Name:     "priority",
		Path:     "/priority",
		ID:       func(p domain.Priority) string { return p.PriorityID },
		ReadOnly: true,
	}, client, sess, validate)

	r.TaskStatuses = add(r, controller.Descriptor[domain.TaskStatus]{
		Name:     "task-status",
		Path:     "/task-status",
		ID:       func(s domain.TaskStatus) string { return s.StatusID },
		ReadOnly: true,
	}, client, sess, validate)

	r.Users = add(r, controller.Descriptor[domain.UserProfile]{
		Name:     "user",
		Path:     "/users",
		ID:       func(u domain.UserProfile) string { return u.UserID },
		ReadOnly: true,
	}, client, sess, validate)

	r.Ledgers = add(r, controller.Descriptor[domain.Ledger]{
		Name: "ledger",
		Path: "/ledger",
		ID:   func(l domain.Ledger) string { return l.LedgerID },
	}, client, sess, validate)

	r.SubLedgers = add(r, controller.Descriptor[domain.SubLedger]{
		Name: "sub-ledger",
		Path: "/sub-ledger",
		ID:   func(s domain.SubLedger) string { return s.SubLedgerID },
	}, client, sess, validate)

	r.Departments = add(r, controller.Descriptor[domain.Department]{
		Name: "department",
		Path: "/department",
		ID:   func(d domain.Department) string { return d.DepartmentID },
	}, client, sess, validate)

	r.DepartmentTypes = add(r, controller.Descriptor[domain.DepartmentType]{
		Name:     "department-type",
		Path:     "/department-type",
		ID:       func(t domain.DepartmentType) string { return t.TypeID },
		ReadOnly: true,
	}, client, sess, validate)

	r.DepartmentSubTypes = add(r, controller.Descriptor[domain.DepartmentSubType]{
		Name:     "department-sub-type",
		Path:     "/department-sub-type",
		ID:       func(t domain.DepartmentSubType) string { return t.SubTypeID },
		ReadOnly: true,
	}, client, sess, validate)

	if events != nil {
		events.OnReset(r.ResetAll)
		events.OnScopeChange(func(scopeID string) {
			ctx := context.Background()
			if err := r.RefetchAll(ctx); err != nil {
				logging.FromCtx(ctx).Warn("Refetch after scope switch failed",
					slog.String("scope_id", scopeID),
					slog.String("error", err.Error()))
			}
		})
	}

	return r
}

// add builds one controller and hooks it into the registry's lifecycle
// fan-out.
func add[T any](r *Registry, desc controller.Descriptor[T], client ports.RESTClient, sess ports.SessionReader, validate *validator.Validate) *controller.Controller[T] {
	c := controller.New(desc, client, sess, validate)
	r.resetters = append(r.resetters, c.Reset)
	r.refetchers = append(r.refetchers, func(ctx context.Context) error {
		_, err := c.List(ctx)
		return err
	})
	return c
}

// ResetAll drops the state of every controller. Invoked on logout.
func (r *Registry) ResetAll() {
	for _, reset := range r.resetters {
		reset()
	}
}

// RefetchAll reruns List once per controller so no controller renders data
// from a previous scope. Controllers are reset first, which also cancels
// the effect of any fetch still in flight for the old scope.
func (r *Registry) RefetchAll(ctx context.Context) error {
	r.ResetAll()
	var errs []error
	for _, refetch := range r.refetchers {
		if err := refetch(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
