package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"semdex/internal/domain"
	"semdex/internal/usecase"
)

var (
	contextQuery     string
	contextMaxTokens int
	contextTopK      int
	contextOutput    string
	contextJSON      bool
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Assemble token-bounded context for LLM consumption",
	Long: `Search and assemble the most relevant chunks into a single
context string that fits within a token budget, with source headers.

Examples:
  semdex context -q "how does authentication work"
  semdex context -q "storage layer" --max-tokens 2000 -o context.txt`,
	RunE: runContext,
}

func init() {
	rootCmd.AddCommand(contextCmd)
	contextCmd.Flags().StringVarP(&contextQuery, "query", "q", "", "search query (required)")
	contextCmd.Flags().IntVarP(&contextMaxTokens, "max-tokens", "t", 0, "token budget (default from config)")
	contextCmd.Flags().IntVarP(&contextTopK, "top-k", "k", 0, "candidate pool size (default from config)")
	contextCmd.Flags().StringVarP(&contextOutput, "output", "o", "", "output file (default: stdout)")
	contextCmd.Flags().BoolVar(&contextJSON, "json", false, "output as JSON with sources")
	contextCmd.MarkFlagRequired("query")
}

func runContext(cmd *cobra.Command, args []string) error {
	svc, err := buildService()
	if err != nil {
		return err
	}
	defer svc.Close()

	result, err := svc.GetContext(cmd.Context(), projectID, contextQuery, usecase.ContextOptions{
		SearchOptions: domain.SearchOptions{TopK: contextTopK},
		MaxTokens:     contextMaxTokens,
	})
	if err != nil {
		return fmt.Errorf("context assembly failed: %w", err)
	}

	if result.Context == "" {
		fmt.Fprintln(os.Stderr, "No relevant content found.")
		return nil
	}

	var output []byte
	if contextJSON {
		output, err = json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
	} else {
		output = []byte(result.Context)
	}

	if contextOutput != "" {
		if err := os.WriteFile(contextOutput, output, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Printf("Context written to: %s\n", contextOutput)
		fmt.Printf("  Sources: %d\n", len(result.Sources))
		fmt.Printf("  Tokens:  %d\n", result.TokenCount)
	} else {
		fmt.Println(string(output))
	}
	return nil
}
