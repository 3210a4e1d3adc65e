package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/talentstack/docpipe/internal/core/domain"
)

var (
	searchLimit     int
	searchThreshold float64
	searchJSON      bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed chunks",
	Long: `Finds stored chunks similar to the query. Uses vector similarity
when embeddings are available and falls back to keyword matching
otherwise; the output says which mode answered.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (0 uses the configured default)")
	searchCmd.Flags().Float64Var(&searchThreshold, "threshold", -1, "minimum similarity (-1 uses the configured default)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if retrieverService == nil {
		return errors.New("retriever service not configured")
	}

	limit := searchLimit
	if limit <= 0 {
		limit = cfg.Retrieval.SearchLimit
	}
	threshold := searchThreshold
	if threshold < 0 {
		threshold = cfg.Retrieval.SimilarityThreshold
	}

	outcome := retrieverService.SearchSimilarChunks(context.Background(), args[0], limit, threshold)

	if searchJSON {
		return outputJSON(cmd, outcome)
	}
	return outputSearchTable(cmd, outcome)
}

func outputSearchTable(cmd *cobra.Command, outcome domain.SearchOutcome) error {
	if outcome.Mode == domain.SearchModeLexical {
		cmd.Println("(keyword match; embeddings unavailable)")
	}

	if len(outcome.Results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range outcome.Results {
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, r.Chunk.ID, r.Similarity)
		if r.Chunk.Metadata.Section != "" {
			cmd.Printf("      Section: %s\n", r.Chunk.Metadata.Section)
		}
		cmd.Printf("      %s\n", snippet(r.Chunk.Content, 120))
		cmd.Println()
	}
	return nil
}

// snippet returns a single-line preview of at most n runes.
func snippet(s string, n int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n]) + "..."
	}
	return s
}
