// Package cli wires the cobra command tree: the root command runs the live
// dashboard, `query` searches persisted logs, `version` prints the version.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/adeane/devinsight/internal/constants"
)

// Version is set during build
var Version = "dev"

// Global flags
var (
	configPath string

	flagFilter   string
	flagTag      string
	flagDevice   string
	flagSource   string
	flagCommand  string
	flagSave     bool
	flagDir      string
	flagMaxSize  int
	flagClear    bool
	flagCompress bool
	flagAPI      bool
)

// rootCmd represents the base command; running it with no subcommand starts
// the live dashboard.
var rootCmd = &cobra.Command{
	Use:   "devinsight",
	Short: "Real-time device log analyzer",
	Long: `devinsight tails a device log stream and presents it as an
interactive terminal dashboard. It supports:
  - Level and tag filtering with full-text search
  - Tail mode, pausing, and scrollback over a bounded in-memory history
  - Size-rotated persistent JSONL storage with historical queries
  - An optional local HTTP inspection API`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runWatch,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("devinsight version %s\n", Version)
	},
}

// registerWatchFlags attaches the dashboard flags; the root command and the
// explicit watch subcommand share them.
func registerWatchFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagFilter, "filter", "f", "", "Filter logs by level letter (E, W, I, D, V)")
	cmd.Flags().StringVarP(&flagTag, "tag", "t", "", "Filter logs by tag substring")
	cmd.Flags().StringVar(&flagDevice, "device", "", "Device serial to attach to")
	cmd.Flags().StringVar(&flagSource, "source", "", "Log source kind (adb, command, stdin)")
	cmd.Flags().StringVar(&flagCommand, "command", "", "Command line for the command source")
	cmd.Flags().BoolVar(&flagSave, "save", false, "Persist logs to disk")
	cmd.Flags().StringVar(&flagDir, "dir", "", "Storage directory")
	cmd.Flags().IntVar(&flagMaxSize, "max-size", 0, "Rotation threshold per file in MB")
	cmd.Flags().BoolVar(&flagClear, "clear", false, "Remove existing log files before starting")
	cmd.Flags().BoolVar(&flagCompress, "compress", false, "Compress rotated-out log files")
	cmd.Flags().BoolVar(&flagAPI, "api", false, "Serve the local inspection API")
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", constants.DefaultConfigFile, "Config file")

	registerWatchFlags(rootCmd)
	registerWatchFlags(watchCmd)

	rootCmd.SetVersionTemplate("devinsight version {{.Version}}\n")

	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(queryCmd)
}
