// auditctl validates a batch of POS export files from the command line,
// without the HTTP service.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/savia/posaudit/internal/domain"
	"github.com/savia/posaudit/internal/engine"
	"github.com/savia/posaudit/internal/money"
)

var showOK bool

var rootCmd = &cobra.Command{
	Use:   "auditctl",
	Short: "Audit point-of-sale closure export files",
	Long: `auditctl reconstructs ground-truth totals from ticket-level export
files, compares them against the reported closure summary, and prints every
discrepancy with field-level detail.

Example usage:
  auditctl validate ./closures/20240115/        # validate a directory
  auditctl validate a.dat b.dat summary.dat     # validate explicit files`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [files or directory]",
	Short: "Run a full validation batch over local export files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	paths, err := expandArgs(args)
	if err != nil {
		return err
	}

	var input domain.BatchInput
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		input.Files = append(input.Files, domain.BatchFile{
			Name:    filepath.Base(path),
			Content: string(data),
		})
	}

	result, err := engine.RunBatch(input)
	if err != nil {
		return err
	}

	printResult(result)

	if !result.Certified {
		os.Exit(1)
	}
	return nil
}

func expandArgs(args []string) ([]string, error) {
	if len(args) == 1 {
		info, err := os.Stat(args[0])
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", args[0], err)
		}
		if info.IsDir() {
			entries, err := os.ReadDir(args[0])
			if err != nil {
				return nil, fmt.Errorf("read dir %s: %w", args[0], err)
			}
			var paths []string
			for _, e := range entries {
				if !e.IsDir() {
					paths = append(paths, filepath.Join(args[0], e.Name()))
				}
			}
			return paths, nil
		}
	}
	return args, nil
}

func printResult(result *domain.BatchResult) {
	fmt.Printf("Closure %s: %d files, %d errors, %d warnings\n",
		result.ClosureID, result.TotalFiles, result.Errors, result.Warnings)

	for _, f := range result.Findings {
		if f.Status == domain.StatusOK && !showOK {
			continue
		}
		fmt.Printf("\n[%s] %s\n", f.Status, f.Message)
		for _, d := range f.Details {
			fmt.Printf("    %-32s %s: expected %s, actual %s\n", d.Context, d.Field, d.Expected, d.Actual)
		}
	}

	g := result.Totals.Global
	fmt.Printf("\nTotals: %d sales (gross %s), %d returns (gross %s), tickets %d-%d\n",
		g.SaleCount, money.Format(g.GrossSales),
		g.ReturnCount, money.Format(g.GrossReturns),
		g.MinTicket, g.MaxTicket)

	if result.Certified {
		fmt.Println("Result: CERTIFIED")
	} else {
		fmt.Println("Result: NOT CERTIFIED")
	}
}

func main() {
	validateCmd.Flags().BoolVar(&showOK, "show-ok", false, "also print passing checks")
	rootCmd.AddCommand(validateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
