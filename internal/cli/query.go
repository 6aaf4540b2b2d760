package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/adeane/devinsight/internal/constants"
	"github.com/adeane/devinsight/internal/storage"
)

// Query flags
var (
	queryFrom string
	queryTo   string
	queryDir  string
	queryJSON bool
)

// timeLayouts accepted by --from/--to, tried in order
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// queryCmd searches persisted logs by time range
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Search persisted logs by time range",
	Long: `query scans the storage directory and prints every persisted
record whose timestamp falls within the given inclusive range. Times are
accepted as RFC3339, "2006-01-02 15:04:05", or a bare date.`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryFrom, "from", "", "Range start (default: beginning of time)")
	queryCmd.Flags().StringVar(&queryTo, "to", "", "Range end (default: now)")
	queryCmd.Flags().StringVar(&queryDir, "dir", constants.DefaultStorageDir, "Storage directory")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "Output records as JSON")
}

func runQuery(cmd *cobra.Command, args []string) error {
	from := time.Time{}
	to := time.Now()
	var err error

	if queryFrom != "" {
		if from, err = parseTime(queryFrom); err != nil {
			return fmt.Errorf("parsing --from: %w", err)
		}
	}
	if queryTo != "" {
		if to, err = parseTime(queryTo); err != nil {
			return fmt.Errorf("parsing --to: %w", err)
		}
	}

	records, err := storage.Query(queryDir, from, to)
	if err != nil {
		return err
	}

	if queryJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIMESTAMP\tLEVEL\tTAG\tMESSAGE")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			rec.Timestamp.Format(time.RFC3339), rec.Level, rec.Tag, rec.Message)
	}
	return w.Flush()
}

// parseTime tries each accepted layout in the local time zone
func parseTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
