package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newFieldsCmd(holder *appHolder) *cobra.Command {
	cmd := &cobra.Command{Use: "fields", Short: "Manage per-form field visibility"}

	get := &cobra.Command{
		Use:   "get <form-type>",
		Short: "Show the visibility map for a form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := holder.app.fields.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			names := make([]string, 0, len(fs.Fields))
			for name := range fs.Fields {
				names = append(names, name)
			}
			sort.Strings(names)
			rows := make([][]string, len(names))
			for n, name := range names {
				rows[n] = []string{name, strconv.FormatBool(fs.Fields[name])}
			}
			printTable([]string{"FIELD", "VISIBLE"}, rows)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <form-type> <field>=<true|false> [...]",
		Short: "Update field visibility for a form",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := holder.app.fields.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, pair := range args[1:] {
				name, value, ok := strings.Cut(pair, "=")
				if !ok {
					return fmt.Errorf("invalid assignment %q, want field=true|false", pair)
				}
				visible, err := strconv.ParseBool(value)
				if err != nil {
					return fmt.Errorf("invalid visibility %q for field %s", value, name)
				}
				fs.Set(name, visible)
			}
			return holder.app.fields.Put(cmd.Context(), fs)
		},
	}

	cmd.AddCommand(get, set)
	return cmd
}

func newCompanyCmd(holder *appHolder) *cobra.Command {
	cmd := &cobra.Command{Use: "company", Short: "Manage the company profile"}

	get := &cobra.Command{
		Use:   "get",
		Short: "Show the company profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			company, err := holder.app.company.Get(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("%s\nemail: %s\nphone: %s\ntax number: %s\n",
				company.Name, company.Email, company.Phone, company.TaxNumber)
			return nil
		},
	}

	var name, email, phone, taxNumber string
	update := &cobra.Command{
		Use:   "update",
		Short: "Update the company profile (full replace)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			company, err := holder.app.company.Get(cmd.Context())
			if err != nil {
				return err
			}
			if name != "" {
				company.Name = name
			}
			if email != "" {
				company.Email = email
			}
			if phone != "" {
				company.Phone = phone
			}
			if taxNumber != "" {
				company.TaxNumber = taxNumber
			}
			return holder.app.company.Update(cmd.Context(), company)
		},
	}
	update.Flags().StringVar(&name, "name", "", "company name")
	update.Flags().StringVar(&email, "email", "", "company email")
	update.Flags().StringVar(&phone, "phone", "", "company phone")
	update.Flags().StringVar(&taxNumber, "tax-number", "", "tax registration number")

	cmd.AddCommand(get, update)
	return cmd
}
