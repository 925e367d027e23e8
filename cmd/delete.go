package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteLocalOnly bool

// deleteLayerCmd removes one layer record, cascading through the catalog.
var deleteLayerCmd = &cobra.Command{
	Use:   "delete <layer>",
	Short: "Delete a layer record and its server-side resources",
	Long: `Delete a layer record. Unless --local-only is given, the deletion
cascades into the external catalog: the published layer, its non-shared
styles, the backing resource and (for spatial-relational stores) the
geometry table.`,
	Args: cobra.ExactArgs(1),
	RunE: runDeleteLayer,
}

func init() {
	deleteLayerCmd.Flags().BoolVar(&deleteLocalOnly, "local-only", false, "Skip external catalog cleanup")
	RootCmd.AddCommand(deleteLayerCmd)
}

func runDeleteLayer(cmd *cobra.Command, args []string) error {
	w, err := wire()
	if err != nil {
		return err
	}
	defer w.logger.Sync()

	name := args[0]
	if err := w.feature.Service().Delete(context.Background(), name, deleteLocalOnly); err != nil {
		return fmt.Errorf("failed to delete layer %q: %w", name, err)
	}

	fmt.Printf("Deleted layer %s\n", name)
	return nil
}
