package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ahiree/chat-bot/internal/domain"
)

var (
	queryText    string
	querySession string
	queryTopK    int
	queryJSON    bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Retrieve relevant chunks from a session",
	Long: `Retrieve the most relevant-and-diverse chunks for a query.

Examples:
  docchat query -s mysession -q "refund policy"
  docchat query -s mysession -q "termination clause" -k 10 --json`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "query text (required)")
	queryCmd.Flags().StringVarP(&querySession, "session", "s", domain.DefaultSessionID, "session identifier")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of results (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer eng.close()

	if err := eng.rehydrate(querySession); err != nil {
		return err
	}

	texts, err := eng.retrieve.Retrieve(queryText, querySession, queryTopK)
	if err != nil {
		return err
	}

	if queryJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(texts)
	}

	if len(texts) == 1 && texts[0] == domain.NoDocumentsSentinel {
		fmt.Println(domain.NoDocumentsSentinel)
		return nil
	}

	for i, text := range texts {
		fmt.Printf("--- Result %d ---\n%s\n\n", i+1, text)
	}
	return nil
}
