// =============================================================================
// HomeTax Batch Submitter - Main Entry Point
// =============================================================================
//
// Entry point for the batch submission CLI. It initializes the Cobra CLI
// framework and delegates command execution to the cmd package.
//
// USAGE:
//   submitter run        - Submit every workbook batch through the tax form
//   submitter validate   - Preflight the configuration and workbook
//   submitter version    - Display the application version
//
// ARCHITECTURE:
//   cmd/        : CLI command definitions (Cobra)
//   internal/   : core business logic (not for external import)
//   pkg/        : shared utilities
//
// =============================================================================

package main

import (
	"github.com/taxbill/hometax-submitter/cmd"
)

func main() {
	cmd.Execute()
}
