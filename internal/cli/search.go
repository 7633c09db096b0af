package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"semdex/internal/domain"
)

var (
	searchQuery    string
	searchTopK     int
	searchMinScore float64
	searchFiles    []string
	searchJSON     bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search indexed chunks",
	Long: `Search for relevant chunks by embedding the query and ranking
indexed chunks by cosine similarity.

Examples:
  semdex search -q "authentication handler"
  semdex search -q "database connection" --top-k 5 --json`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "search query (required)")
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "number of results (default from config)")
	searchCmd.Flags().Float64Var(&searchMinScore, "min-score", 0, "minimum similarity score (default from config)")
	searchCmd.Flags().StringSliceVar(&searchFiles, "file", nil, "restrict to these file ids")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")
	searchCmd.MarkFlagRequired("query")
}

func runSearch(cmd *cobra.Command, args []string) error {
	svc, err := buildService()
	if err != nil {
		return err
	}
	defer svc.Close()

	results, err := svc.Search(cmd.Context(), projectID, searchQuery, domain.SearchOptions{
		TopK:     searchTopK,
		MinScore: searchMinScore,
		FileIDs:  searchFiles,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		output, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	fmt.Printf("Found %d results for: %s\n\n", len(results), searchQuery)
	for _, r := range results {
		loc := r.Chunk.FileName
		if m := r.Chunk.Metadata; m != nil && m.LineStart > 0 {
			loc = fmt.Sprintf("%s:L%d-%d", loc, m.LineStart, m.LineEnd)
		}
		fmt.Printf("--- [%d] %s (score: %.2f) ---\n", r.Rank, loc, r.Score)
		text := r.Chunk.Content
		if len(text) > 500 {
			text = text[:500] + "..."
		}
		fmt.Println(text)
		fmt.Println()
	}
	return nil
}
