package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/clinicore/crm_admin_app/internal/core/controller"
	"github.com/clinicore/crm_admin_app/internal/core/domain"
	"github.com/clinicore/crm_admin_app/internal/core/registry"
)

func verbShort(verb, resource string) string {
	if verb == "update" {
		return "Update a " + resource
	}
	return "Create a " + resource
}

func printTable(header []string, rows [][]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

// newListCmd builds the shared "list" verb for one resource.
func newListCmd[T any](holder *appHolder, get func(*registry.Registry) *controller.Controller[T], header []string, row func(T) []string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all records in the active scope",
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := get(holder.app.registry).List(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, len(items))
			for n, item := range items {
				rows[n] = row(item)
			}
			printTable(header, rows)
			return nil
		},
	}
}

// newDeleteCmd builds the shared "delete" verb for one resource.
func newDeleteCmd[T any](holder *appHolder, get func(*registry.Registry) *controller.Controller[T]) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return get(holder.app.registry).Delete(cmd.Context(), args[0])
		},
	}
}

// newBulkDeleteCmd builds the shared "bulk-delete" verb. Ids that fail to
// delete are reported in aggregate; the rest are still removed.
func newBulkDeleteCmd[T any](holder *appHolder, get func(*registry.Registry) *controller.Controller[T]) *cobra.Command {
	return &cobra.Command{
		Use:   "bulk-delete <id> [<id>...]",
		Short: "Delete several records, one request at a time",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := get(holder.app.registry)
			for _, id := range args {
				ctrl.ToggleSelect(id)
			}
			return ctrl.BulkDelete(cmd.Context(), ctrl.Selected())
		},
	}
}

// newRefListCmd builds a top-level list-only command for a reference
// resource (priorities, statuses, users, department types).
func newRefListCmd[T any](holder *appHolder, use, short string, get func(*registry.Registry) *controller.Controller[T], header []string, row func(T) []string) *cobra.Command {
	cmd := &cobra.Command{Use: use, Short: short}
	cmd.AddCommand(newListCmd(holder, get, header, row))
	return cmd
}

func newRefCmds(holder *appHolder) []*cobra.Command {
	return []*cobra.Command{
		newRefListCmd(holder, "priority", "Task priorities (reference data)",
			func(r *registry.Registry) *controller.Controller[domain.Priority] { return r.Priorities },
			[]string{"ID", "NAME", "RANK"},
			func(p domain.Priority) []string { return []string{p.PriorityID, p.Name, fmt.Sprint(p.Rank)} }),
		newRefListCmd(holder, "task-status", "Task statuses (reference data)",
			func(r *registry.Registry) *controller.Controller[domain.TaskStatus] { return r.TaskStatuses },
			[]string{"ID", "NAME"},
			func(s domain.TaskStatus) []string { return []string{s.StatusID, s.Name} }),
		newRefListCmd(holder, "users", "Users of the active company",
			func(r *registry.Registry) *controller.Controller[domain.UserProfile] { return r.Users },
			[]string{"ID", "NAME", "EMAIL", "ROLE"},
			func(u domain.UserProfile) []string { return []string{u.UserID, u.Name, u.Email, string(u.RoleGroup)} }),
		newRefListCmd(holder, "department-type", "Department types (reference data)",
			func(r *registry.Registry) *controller.Controller[domain.DepartmentType] { return r.DepartmentTypes },
			[]string{"ID", "NAME"},
			func(t domain.DepartmentType) []string { return []string{t.TypeID, t.Name} }),
		newRefListCmd(holder, "department-sub-type", "Department sub-types (reference data)",
			func(r *registry.Registry) *controller.Controller[domain.DepartmentSubType] { return r.DepartmentSubTypes },
			[]string{"ID", "TYPE", "NAME"},
			func(t domain.DepartmentSubType) []string { return []string{t.SubTypeID, t.TypeID, t.Name} }),
	}
}

func newLedgerCmd(holder *appHolder) *cobra.Command {
	cmd := &cobra.Command{Use: "ledger", Short: "Manage income/expense ledgers"}

	ledgers := func(r *registry.Registry) *controller.Controller[domain.Ledger] { return r.Ledgers }
	cmd.AddCommand(newListCmd(holder, ledgers,
		[]string{"ID", "NAME", "TYPE", "OPENING"},
		func(l domain.Ledger) []string {
			return []string{l.LedgerID, l.Name, string(l.Type), l.OpeningBalance.String()}
		}))
	cmd.AddCommand(newDeleteCmd(holder, ledgers))
	cmd.AddCommand(newBulkDeleteCmd(holder, ledgers))
	cmd.AddCommand(newLedgerUpsertCmd(holder, "create"))
	cmd.AddCommand(newLedgerUpsertCmd(holder, "update"))
	cmd.AddCommand(newLedgerImportCmd(holder))

	return cmd
}

func newLedgerUpsertCmd(holder *appHolder, verb string) *cobra.Command {
	var name, ledgerType, opening string

	cmd := &cobra.Command{
		Use:   verb + " --name <name> --type income|expense",
		Short: verbShort(verb, "ledger"),
		RunE: func(cmd *cobra.Command, args []string) error {
			balance := decimal.Zero
			if opening != "" {
				var err error
				if balance, err = decimal.NewFromString(opening); err != nil {
					return fmt.Errorf("invalid --opening value %q: %w", opening, err)
				}
			}
			record := domain.Ledger{
				CompanyID:      holder.app.session.ScopeID(),
				Name:           name,
				Type:           domain.LedgerType(ledgerType),
				OpeningBalance: balance,
			}
			if verb == "create" {
				return holder.app.registry.Ledgers.Create(cmd.Context(), record)
			}
			return holder.app.registry.Ledgers.Update(cmd.Context(), args[0], record)
		},
	}
	if verb == "update" {
		cmd.Use = "update <id> --name <name> --type income|expense"
		cmd.Args = cobra.ExactArgs(1)
	}

	cmd.Flags().StringVar(&name, "name", "", "ledger name")
	cmd.Flags().StringVar(&ledgerType, "type", "", "ledger type (income or expense)")
	cmd.Flags().StringVar(&opening, "opening", "", "opening balance")

	return cmd
}

func newSubLedgerCmd(holder *appHolder) *cobra.Command {
	cmd := &cobra.Command{Use: "subledger", Short: "Manage sub-ledgers"}

	subLedgers := func(r *registry.Registry) *controller.Controller[domain.SubLedger] { return r.SubLedgers }
	cmd.AddCommand(newListCmd(holder, subLedgers,
		[]string{"ID", "NAME", "LEDGER"},
		func(s domain.SubLedger) []string { return []string{s.SubLedgerID, s.Name, s.LedgerID} }))
	cmd.AddCommand(newDeleteCmd(holder, subLedgers))
	cmd.AddCommand(newBulkDeleteCmd(holder, subLedgers))
	cmd.AddCommand(newSubLedgerUpsertCmd(holder, "create"))
	cmd.AddCommand(newSubLedgerUpsertCmd(holder, "update"))
	cmd.AddCommand(newSubLedgerImportCmd(holder))

	return cmd
}

func newSubLedgerUpsertCmd(holder *appHolder, verb string) *cobra.Command {
	var name, ledgerID string

	cmd := &cobra.Command{
		Use:   verb + " --name <name> --ledger <ledger-id>",
		Short: verbShort(verb, "sub-ledger"),
		RunE: func(cmd *cobra.Command, args []string) error {
			record := domain.SubLedger{
				CompanyID: holder.app.session.ScopeID(),
				Name:      name,
				LedgerID:  ledgerID,
			}
			if verb == "create" {
				return holder.app.registry.SubLedgers.Create(cmd.Context(), record)
			}
			return holder.app.registry.SubLedgers.Update(cmd.Context(), args[0], record)
		},
	}
	if verb == "update" {
		cmd.Use = "update <id> --name <name> --ledger <ledger-id>"
		cmd.Args = cobra.ExactArgs(1)
	}

	cmd.Flags().StringVar(&name, "name", "", "sub-ledger name")
	cmd.Flags().StringVar(&ledgerID, "ledger", "", "owning ledger id")

	return cmd
}

func newDepartmentCmd(holder *appHolder) *cobra.Command {
	cmd := &cobra.Command{Use: "department", Short: "Manage departments"}

	departments := func(r *registry.Registry) *controller.Controller[domain.Department] { return r.Departments }
	cmd.AddCommand(newListCmd(holder, departments,
		[]string{"ID", "NAME", "CODE", "TYPE", "SUBTYPE"},
		func(d domain.Department) []string {
			return []string{d.DepartmentID, d.Name, d.Code, d.TypeID, d.SubTypeID}
		}))
	cmd.AddCommand(newDeleteCmd(holder, departments))
	cmd.AddCommand(newBulkDeleteCmd(holder, departments))
	cmd.AddCommand(newDepartmentUpsertCmd(holder, "create"))
	cmd.AddCommand(newDepartmentUpsertCmd(holder, "update"))

	return cmd
}

func newDepartmentUpsertCmd(holder *appHolder, verb string) *cobra.Command {
	var name, code, typeID, subTypeID string

	cmd := &cobra.Command{
		Use:   verb + " --name <name> --code <code>",
		Short: verbShort(verb, "department"),
		RunE: func(cmd *cobra.Command, args []string) error {
			record := domain.Department{
				CompanyID: holder.app.session.ScopeID(),
				Name:      name,
				Code:      code,
				TypeID:    typeID,
				SubTypeID: subTypeID,
			}
			if verb == "create" {
				return holder.app.registry.Departments.Create(cmd.Context(), record)
			}
			return holder.app.registry.Departments.Update(cmd.Context(), args[0], record)
		},
	}
	if verb == "update" {
		cmd.Use = "update <id> --name <name> --code <code>"
		cmd.Args = cobra.ExactArgs(1)
	}

	cmd.Flags().StringVar(&name, "name", "", "department name")
	cmd.Flags().StringVar(&code, "code", "", "department code")
	cmd.Flags().StringVar(&typeID, "type", "", "department type id")
	cmd.Flags().StringVar(&subTypeID, "sub-type", "", "department sub-type id")

	return cmd
}

func newLeadCmd(holder *appHolder) *cobra.Command {
	cmd := &cobra.Command{Use: "lead", Short: "Manage sales leads"}

	leads := func(r *registry.Registry) *controller.Controller[domain.Lead] { return r.Leads }
	cmd.AddCommand(newListCmd(holder, leads,
		[]string{"ID", "NAME", "EMAIL", "PHONE", "CITY"},
		func(l domain.Lead) []string { return []string{l.LeadID, l.Name, l.Email, l.Phone, l.Address.City} }))

	var name, email, phone, city, taxNumber string
	create := &cobra.Command{
		Use:   "create --name <name>",
		Short: "Create a lead",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return holder.app.registry.Leads.Create(cmd.Context(), domain.Lead{
				CompanyID: holder.app.session.ScopeID(),
				Name:      name,
				Email:     email,
				Phone:     phone,
				Address:   domain.Address{City: city},
				TaxNumber: taxNumber,
			})
		},
	}
	create.Flags().StringVar(&name, "name", "", "lead name")
	create.Flags().StringVar(&email, "email", "", "lead email")
	create.Flags().StringVar(&phone, "phone", "", "lead phone")
	create.Flags().StringVar(&city, "city", "", "lead city")
	create.Flags().StringVar(&taxNumber, "tax-number", "", "tax registration number")
	cmd.AddCommand(create)

	return cmd
}

func newTaskCmd(holder *appHolder) *cobra.Command {
	cmd := &cobra.Command{Use: "task", Short: "Manage tasks"}

	tasks := func(r *registry.Registry) *controller.Controller[domain.Task] { return r.Tasks }
	cmd.AddCommand(newListCmd(holder, tasks,
		[]string{"ID", "TITLE", "STATUS", "ASSIGNEE", "DUE"},
		func(t domain.Task) []string {
			due := ""
			if !t.DueDate.IsZero() {
				due = t.DueDate.Format("2006-01-02")
			}
			return []string{t.TaskID, t.Title, t.StatusID, t.AssigneeID, due}
		}))

	var title, priorityID, statusID, assigneeID, clientID, due string
	create := &cobra.Command{
		Use:   "create --title <title>",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, _ []string) error {
			record := domain.Task{
				CompanyID:  holder.app.session.ScopeID(),
				Title:      title,
				PriorityID: priorityID,
				StatusID:   statusID,
				AssigneeID: assigneeID,
				ClientID:   clientID,
			}
			if due != "" {
				parsed, err := time.Parse("2006-01-02", due)
				if err != nil {
					return fmt.Errorf("invalid --due value %q: %w", due, err)
				}
				record.DueDate = parsed
			}
			return holder.app.registry.Tasks.Create(cmd.Context(), record)
		},
	}
	create.Flags().StringVar(&title, "title", "", "task title")
	create.Flags().StringVar(&priorityID, "priority", "", "priority id")
	create.Flags().StringVar(&statusID, "status", "", "status id")
	create.Flags().StringVar(&assigneeID, "assignee", "", "assignee user id")
	create.Flags().StringVar(&clientID, "client", "", "client id")
	create.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	cmd.AddCommand(create)

	return cmd
}

func newClientCmd(holder *appHolder) *cobra.Command {
	cmd := &cobra.Command{Use: "client", Short: "View clients"}

	clients := func(r *registry.Registry) *controller.Controller[domain.Client] { return r.Clients }
	cmd.AddCommand(newListCmd(holder, clients,
		[]string{"ID", "NAME", "EMAIL", "PHONE", "CREDIT", "OUTSTANDING"},
		func(c domain.Client) []string {
			return []string{c.ClientID, c.Name, c.Email, c.Phone, c.CreditLimit.String(), c.Outstanding.String()}
		}))

	return cmd
}
