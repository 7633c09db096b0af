package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeAll bool

var removeCmd = &cobra.Command{
	Use:   "remove [file-id...]",
	Short: "Remove files from the index",
	Long: `Remove indexed files by id, or delete the whole project index.

Examples:
  semdex remove 1a2b3c4d5e6f7a8b      # Remove one file
  semdex remove --all                 # Delete the project index`,
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
	removeCmd.Flags().BoolVar(&removeAll, "all", false, "delete the entire project index")
}

func runRemove(cmd *cobra.Command, args []string) error {
	if !removeAll && len(args) == 0 {
		return fmt.Errorf("nothing to remove: pass file ids or --all")
	}

	svc, err := buildService()
	if err != nil {
		return err
	}
	defer svc.Close()

	if removeAll {
		if svc.DeleteProjectIndex(projectID) {
			fmt.Printf("Deleted index for project %q.\n", projectID)
		} else {
			fmt.Printf("No index found for project %q.\n", projectID)
		}
		return nil
	}

	for _, id := range args {
		if !svc.IsFileIndexed(projectID, id) {
			fmt.Printf("Not indexed: %s\n", id)
			continue
		}
		if err := svc.RemoveFile(projectID, id); err != nil {
			return fmt.Errorf("failed to remove %s: %w", id, err)
		}
		fmt.Printf("Removed: %s\n", id)
	}
	return nil
}
