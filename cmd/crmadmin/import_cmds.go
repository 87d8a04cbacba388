package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clinicore/crm_admin_app/internal/core/domain"
	"github.com/clinicore/crm_admin_app/internal/core/importer"
)

// readImportText reads the bulk-add blob from the given file, or stdin
// when the path is "-" or empty.
func readImportText(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// runImport drives the shared parse/confirm/submit flow for one importer.
func runImport[T any](cmd *cobra.Command, imp *importer.Importer[T], text string, assumeYes bool) error {
	if err := imp.SetText(text); err != nil {
		return err
	}
	accepted, skipped, err := imp.Parse()
	if err != nil {
		return err
	}

	for _, s := range skipped {
		fmt.Printf("skipped line %d (%s): %s\n", s.Line, s.Reason, s.Raw)
	}
	if accepted == 0 {
		fmt.Println("Nothing to import")
		return imp.Cancel()
	}

	fmt.Printf("%d line(s) ready to import, %d skipped\n", accepted, len(skipped))
	if !assumeYes {
		fmt.Print("Proceed? [y/N] ")
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Cancelled")
			return imp.Cancel()
		}
	}

	result, err := imp.Submit(cmd.Context())
	fmt.Printf("created %d, failed %d, skipped %d\n", result.Created, result.Failed, result.Skipped)
	return err
}

func newLedgerImportCmd(holder *appHolder) *cobra.Command {
	var file string
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "import [--file <path>]",
		Short: "Bulk-add ledgers from pipe-delimited text (name | income|expense)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, err := readImportText(file)
			if err != nil {
				return err
			}
			scopeID := holder.app.session.ScopeID()
			imp := importer.New(holder.app.registry.Ledgers, importer.LedgerTypeResolver(),
				func(name, attr string) domain.Ledger {
					return domain.Ledger{CompanyID: scopeID, Name: name, Type: domain.LedgerType(attr)}
				})
			return runImport(cmd, imp, text, assumeYes)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "input file ('-' for stdin)")
	cmd.Flags().BoolVar(&assumeYes, "yes", false, "skip the confirmation prompt")

	return cmd
}

func newSubLedgerImportCmd(holder *appHolder) *cobra.Command {
	var file string
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "import [--file <path>]",
		Short: "Bulk-add sub-ledgers from pipe-delimited text (name | ledger name)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, err := readImportText(file)
			if err != nil {
				return err
			}

			// The reference list for name resolution is the current
			// scope's ledgers.
			ledgers, err := holder.app.registry.Ledgers.List(cmd.Context())
			if err != nil {
				return err
			}
			lookup := make(map[string]string, len(ledgers))
			for _, ledger := range ledgers {
				lookup[ledger.Name] = ledger.LedgerID
			}

			scopeID := holder.app.session.ScopeID()
			imp := importer.New(holder.app.registry.SubLedgers, importer.ReferenceResolver(lookup),
				func(name, attr string) domain.SubLedger {
					return domain.SubLedger{CompanyID: scopeID, Name: name, LedgerID: attr}
				})
			return runImport(cmd, imp, text, assumeYes)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "input file ('-' for stdin)")
	cmd.Flags().BoolVar(&assumeYes, "yes", false, "skip the confirmation prompt")

	return cmd
}
