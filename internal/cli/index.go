package cli

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"semdex/internal/adapter/fs"
	"semdex/internal/domain"
	"semdex/internal/usecase"
)

var (
	indexIncludes []string
	indexExcludes []string
)

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Index files for retrieval",
	Long: `Index files in the specified directory for later retrieval.
The index is stored as a JSON document under the configured data
directory (default .semdex).

Examples:
  semdex index .                           # Index current directory
  semdex index /path/to/project            # Index specific directory
  semdex index . --include "**/*.go"       # Only Go files
  semdex index . --exclude "vendor/**"     # Skip vendored code`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().StringSliceVar(&indexIncludes, "include", nil, "include glob patterns (default all files)")
	indexCmd.Flags().StringSliceVar(&indexExcludes, "exclude", nil, "exclude glob patterns")
}

func runIndex(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	svc, err := buildService()
	if err != nil {
		return err
	}
	defer svc.Close()

	fmt.Printf("Scanning %s...\n", path)

	walker := fs.NewWalker(indexIncludes, defaultExcludes(indexExcludes))
	found, err := walker.Walk(path)
	if err != nil {
		return fmt.Errorf("failed to scan directory: %w", err)
	}
	if len(found) == 0 {
		fmt.Println("No files matched.")
		return nil
	}

	files := make([]usecase.FileInput, 0, len(found))
	for _, f := range found {
		content, err := fs.ReadFile(f.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", f.Path, err)
			continue
		}
		rel, err := filepath.Rel(path, f.Path)
		if err != nil {
			rel = f.Path
		}
		files = append(files, usecase.FileInput{
			ID:      fileID(rel),
			Name:    filepath.ToSlash(rel),
			Content: content,
		})
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]Indexing[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)

	ctx := cmd.Context()
	ps := &domain.ProjectIndexStatus{ProjectID: projectID, TotalFiles: len(files)}
	for _, f := range files {
		st := svc.IndexFile(ctx, projectID, f)
		ps.Files = append(ps.Files, st)
		switch st.Status {
		case domain.StatusCompleted:
			ps.Completed++
		case domain.StatusError:
			ps.Failed++
		}
		bar.Add(1)
	}

	fmt.Printf("\nIndexing complete:\n")
	fmt.Printf("  Files indexed: %d\n", ps.Completed)
	if ps.Failed > 0 {
		fmt.Printf("  Files failed:  %d\n", ps.Failed)
		fmt.Printf("\nWarnings:\n")
		for _, st := range ps.Files {
			if st.Status == domain.StatusError {
				fmt.Printf("  - %s: %s\n", st.FileName, st.Error)
			}
		}
	}

	ixInfo := svc.GetIndexInfo(projectID)
	fmt.Printf("  Total chunks:  %d\n", ixInfo.ChunkCount)
	fmt.Printf("\nIndex stored at: %s\n", cfg.ProjectDir(projectID))
	return nil
}

// fileID derives a stable id from the root-relative path so reindexing
// the same tree hits the same file entries.
func fileID(relPath string) string {
	sum := sha256.Sum256([]byte(filepath.ToSlash(relPath)))
	return hex.EncodeToString(sum[:8])
}

// defaultExcludes appends patterns nobody wants indexed.
func defaultExcludes(user []string) []string {
	return append([]string{
		"**/.git/**",
		"**/.semdex/**",
		"**/node_modules/**",
	}, user...)
}
