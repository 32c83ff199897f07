package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ahiree/chat-bot/internal/adapter/extract"
	"github.com/ahiree/chat-bot/internal/domain"
)

var (
	ingestSession string
	ingestQuiet   bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files or globs]",
	Short: "Ingest documents into a session",
	Long: `Ingest one or more documents into a session's chunk store.
Arguments may be file paths or doublestar globs.

Examples:
  docchat ingest -s mysession report.txt
  docchat ingest -s mysession "docs/**/*.md"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().StringVarP(&ingestSession, "session", "s", domain.DefaultSessionID, "session identifier")
	ingestCmd.Flags().BoolVarP(&ingestQuiet, "quiet", "q", false, "suppress the progress bar")
}

func runIngest(cmd *cobra.Command, args []string) error {
	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer eng.close()

	paths, err := expandGlobs(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files matched")
	}

	extractor := extract.NewRegistry(extract.NewPlainTextExtractor())

	var bar *progressbar.ProgressBar
	if !ingestQuiet {
		bar = progressbar.NewOptions(len(paths),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetDescription("Ingesting"),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(os.Stderr)
			}),
		)
	}

	totalChunks := 0
	var failures []string

	for _, path := range paths {
		ext := strings.ToLower(filepath.Ext(path))
		if !extractor.Supports(ext) {
			failures = append(failures, fmt.Sprintf("%s: unsupported file type %s", path, ext))
			advance(bar)
			continue
		}

		f, err := os.Open(path)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", path, err))
			advance(bar)
			continue
		}

		text, err := extractor.Extract(f, ext)
		f.Close()
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", path, err))
			advance(bar)
			continue
		}

		docID := uuid.NewString()
		n, err := eng.ingest.Ingest(text, docID, ingestSession, filepath.Base(path))
		totalChunks += n
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", path, err))
		}
		advance(bar)
	}

	fmt.Printf("Ingested %d chunks from %d files into session %q\n",
		totalChunks, len(paths)-len(failures), ingestSession)

	if len(failures) > 0 {
		for _, f := range failures {
			fmt.Fprintf(os.Stderr, "failed: %s\n", f)
		}
		return fmt.Errorf("%d of %d files failed", len(failures), len(paths))
	}
	return nil
}

func advance(bar *progressbar.ProgressBar) {
	if bar != nil {
		bar.Add(1)
	}
}

// expandGlobs resolves each argument that contains glob metacharacters;
// plain paths pass through untouched so missing files still error usefully.
func expandGlobs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			paths = append(paths, arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad glob %q: %w", arg, err)
		}
		paths = append(paths, matches...)
	}
	return paths, nil
}
