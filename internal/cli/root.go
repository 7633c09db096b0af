package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"semdex/config"
	"semdex/internal/adapter/chunker"
	"semdex/internal/adapter/embedding"
	"semdex/internal/adapter/store"
	"semdex/internal/usecase"
)

var (
	cfgFile   string
	projectID string
	cfg       *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "semdex",
	Short: "Per-project semantic retrieval engine",
	Long: `semdex indexes file content into embedded chunks, persists one
versioned index per project, and answers similarity queries by ranking
chunks and assembling a token-bounded context string.

Example usage:
  semdex index .                      # Index current directory
  semdex search -q "http handler"     # Search indexed chunks
  semdex context -q "how auth works"  # Assemble LLM-ready context`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			wd, werr := os.Getwd()
			if werr != nil {
				return fmt.Errorf("failed to get working directory: %w", werr)
			}
			cfg, err = config.LoadFromDir(wd)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./semdex.yaml)")
	rootCmd.PersistentFlags().StringVarP(&projectID, "project", "p", "default", "project id")
}

// buildService constructs the retrieval service from the loaded config.
// The caller owns the returned service and must Close it.
func buildService() (*usecase.Service, error) {
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	st, err := store.NewIndexStore(cfg.Data.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open index store: %w", err)
	}

	embedder, err := embedding.NewProvider(cfg.Embedding, cfg.Data.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding provider: %w", err)
	}

	chk := chunker.New(cfg.Chunking.ChunkSize, cfg.Chunking.ChunkOverlap)
	return usecase.NewService(cfg, st, embedder, chk), nil
}
