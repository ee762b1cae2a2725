package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sqlsplit",
	Short: "Split a monolithic SQL migration into numbered part files",
	Long: `sqlsplit reads one large SQL migration and writes one file per part.

Parts are delimited by marker blocks:

  -- ============================================================================
  -- PARTE 7: Add Users Table
  -- ============================================================================

Each part becomes 20250110_007_add_users_table.sql: a short header naming the
block, the source file and the date, followed by the part itself. Text before
the first marker is ignored.

Run without arguments in the directory that holds migrazione_completa.sql.
Defaults can be changed in sqlsplit.yaml, through SQLSPLIT_* variables (also
read from .env) or with flags.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Source file not found
  12 - Output file could not be written
  13 - Filename collision (with --on-collision=error)
  14 - Verification found missing or modified files`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runSplit,
}

// Execute runs the root command. Ctrl+C cancels the run between files.
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	addSettingsFlags(rootCmd)
	registerCompletions(rootCmd)
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

// commandContext returns the command's context, or Background when the
// command is invoked directly (as in tests).
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
