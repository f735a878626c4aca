// =============================================================================
// HomeTax Batch Submitter - Validate Command
// =============================================================================
//
// Defines the 'validate' command: a preflight check that loads the
// configuration, opens the workbook, reads the transaction rows, and previews
// the batch grouping without touching the form or writing anything back.
//
// COMMAND USAGE:
//   submitter validate [--workbook path.xlsx]
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taxbill/hometax-submitter/internal/batch"
	"github.com/taxbill/hometax-submitter/internal/config"
	"github.com/taxbill/hometax-submitter/internal/store"
)

// validateWorkbook overrides the configured workbook path.
var validateWorkbook string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Preflight the configuration and workbook without submitting",
	Long: `Load and validate the configuration, open the workbook, read the
transaction rows, and print the batch grouping that a run would submit.
Nothing is written and the form is never contacted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidation()
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateWorkbook, "workbook", "",
		"Override the configured workbook path")

	rootCmd.AddCommand(validateCmd)
}

func runValidation() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if validateWorkbook != "" {
		cfg.Workbook.Path = validateWorkbook
	}
	fmt.Printf("Config OK: %s\n", cfgFile)

	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	lines, err := st.ReadRows()
	if err != nil {
		return err
	}

	batches := batch.Group(lines, cfg.Submission.LineCap)
	fmt.Printf("Workbook OK: %s (%d transaction row(s))\n", cfg.Workbook.Path, len(lines))
	fmt.Printf("Grouping: %d batch(es), cap %d\n", len(batches), cfg.Submission.LineCap)

	for i, b := range batches {
		fmt.Printf("  batch %d: %s, %d line(s), %s won\n",
			i+1, b.PartyID, b.Size(), formatAmount(b.LocalTotal()))
	}
	return nil
}

// formatAmount renders an amount with thousands separators.
func formatAmount(v int64) string {
	s := fmt.Sprintf("%d", v)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
