package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	clearSession string
	clearAll     bool
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove a session's chunks, or everything",
	Long: `Remove all chunks for one session, or every session with --all. Both
drop the persisted records as well.

Examples:
  docchat clear -s mysession
  docchat clear --all`,
	RunE: runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().StringVarP(&clearSession, "session", "s", "", "session identifier")
	clearCmd.Flags().BoolVar(&clearAll, "all", false, "clear all sessions")
}

func runClear(cmd *cobra.Command, args []string) error {
	if clearSession == "" && !clearAll {
		return fmt.Errorf("specify --session or --all")
	}

	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer eng.close()

	if clearAll {
		if err := eng.admin.ClearAll(); err != nil {
			return err
		}
		fmt.Println("All sessions cleared")
		return nil
	}

	if err := eng.admin.ClearSession(clearSession); err != nil {
		return err
	}
	fmt.Printf("Session %q cleared\n", clearSession)
	return nil
}
