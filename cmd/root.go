// =============================================================================
// HomeTax Batch Submitter - Root Command
// =============================================================================
//
// Defines the root command for the Cobra CLI. All subcommands attach here.
//
// COBRA CLI STRUCTURE:
//   rootCmd (submitter)
//   ├── runCmd      (submitter run)
//   ├── validateCmd (submitter validate)
//   └── versionCmd  (submitter version)
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL FLAGS
// =============================================================================

// cfgFile holds the path to the run configuration file.
// Overridden with the --config flag.
var cfgFile string

// verbose enables debug logging when set.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "submitter",

	Short: "HomeTax Batch Submitter - issue tax invoices from a transaction workbook",

	Long: `HomeTax Batch Submitter reads transaction rows from an Excel workbook,
groups them into per-party batches of at most 16 lines, and drives each batch
through the electronic tax-invoice form: party verification, line entry,
payment finalization, and confirmation. Per-row outcomes are written back to
the workbook's status column and every issued invoice is summarized on the
ledger sheet.

Example Usage:
  submitter run --dry-run              # Preview a run against the simulator
  submitter run --party 1234567890     # Submit a single party's batches
  submitter validate                   # Preflight the config and workbook`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the run configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
