package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	statsSession string
	statsJSON    bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show chunk counts for a session or all sessions",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVarP(&statsSession, "session", "s", "", "session identifier (omit for aggregate totals)")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
}

func runStats(cmd *cobra.Command, args []string) error {
	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer eng.close()

	if statsSession != "" {
		if err := eng.rehydrate(statsSession); err != nil {
			return err
		}
		stats, _ := eng.admin.Stats(statsSession)
		if statsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		}
		fmt.Printf("Session %s: %d chunks from %d documents\n",
			stats.SessionID, stats.TotalChunks, stats.UniqueDocuments)
		return nil
	}

	if _, err := eng.admin.RehydrateAll(); err != nil {
		return err
	}
	agg := eng.admin.TotalStats()
	if statsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(agg)
	}
	fmt.Printf("%d sessions, %d chunks total\n", agg.TotalSessions, agg.TotalChunks)
	for _, id := range agg.Sessions {
		fmt.Printf("  %s\n", id)
	}
	return nil
}
