package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ladderhq/ladder/internal/debug"
	"github.com/ladderhq/ladder/internal/telemetry"
)

var (
	jsonOutput  bool
	verboseFlag bool
	quietFlag   bool
)

// rootCtx is cancelled on SIGINT/SIGTERM so a long sync stops between
// parents instead of mid-request.
var (
	rootCtx    context.Context
	rootCancel context.CancelFunc
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output (errors only)")

	rootCmd.Flags().BoolP("version", "V", false, "Print version information")
}

var rootCmd = &cobra.Command{
	Use:   "ladder",
	Short: "ladder - issue hierarchy synchronizer for Jira",
	Long: `ladder creates and links child issues under every parent matched by a
JQL query: Epics under Features via a typed issue link, Stories under
Epics via the epic link field. Child fields come from a template file,
and parents that already carry an equivalent child are skipped, so a
rerun never duplicates work.

Run 'ladder init' to configure a Jira connection, then 'ladder sync'.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		rootCtx, rootCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

		debug.SetVerbose(verboseFlag)
		debug.SetQuiet(quietFlag)

		if err := telemetry.Init(rootCtx, "ladder", Version); err != nil {
			WarnError("telemetry init failed: %v", err)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		// Bounded flush so a dead collector cannot hang the CLI.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		telemetry.Shutdown(ctx)

		if rootCancel != nil {
			rootCancel()
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if showVersion, _ := cmd.Flags().GetBool("version"); showVersion {
			fmt.Println(versionString())
			return
		}
		_ = cmd.Help()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
