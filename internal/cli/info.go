package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var infoJSON bool

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show index information",
	Long: `Show summary information about the project index: whether it
exists, how many files and chunks it holds, and when it was last
updated.

Examples:
  semdex info
  semdex info -p myproject --json`,
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "output as JSON")
}

func runInfo(cmd *cobra.Command, args []string) error {
	svc, err := buildService()
	if err != nil {
		return err
	}
	defer svc.Close()

	info := svc.GetIndexInfo(projectID)

	if infoJSON {
		output, _ := json.MarshalIndent(info, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if !info.Exists {
		fmt.Printf("No index found for project %q. Run 'semdex index' first.\n", projectID)
		return nil
	}
	fmt.Printf("Project: %s\n", projectID)
	fmt.Printf("  Files:   %d\n", info.FileCount)
	fmt.Printf("  Chunks:  %d\n", info.ChunkCount)
	fmt.Printf("  Updated: %s\n", info.UpdatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  Path:    %s\n", cfg.ProjectDir(projectID))
	return nil
}
