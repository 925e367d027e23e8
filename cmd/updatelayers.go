package cmd

import (
	"context"
	"os"

	"geosync/feature/layers/sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	updateIgnoreErrors     bool
	updateVerbosity        int
	updateOwner            string
	updateWorkspace        string
	updateStore            string
	updateFilter           string
	updateSkipUnadvertised bool
	updateRemoveDeleted    bool
)

// updateLayersCmd runs one catalog reconciliation pass from the command line.
var updateLayersCmd = &cobra.Command{
	Use:   "updatelayers",
	Short: "Reconcile catalog resources against the local layer records",
	Long: `Update the local layer records from the resources available in the
external catalog.

Examples:
  # Sync everything
  geosync updatelayers

  # Sync one workspace, skipping unadvertised resources
  geosync updatelayers --workspace geodata --skip-unadvertised

  # Sync resources whose name contains "rivers" and drop local records
  # whose upstream resource is gone
  geosync updatelayers --filter rivers --remove-deleted`,
	RunE: runUpdateLayers,
}

func init() {
	updateLayersCmd.Flags().BoolVar(&updateIgnoreErrors, "ignore-errors", false, "Keep going when a resource fails to process")
	updateLayersCmd.Flags().IntVar(&updateVerbosity, "verbosity", 1, "Progress output level (0-2)")
	updateLayersCmd.Flags().StringVar(&updateOwner, "owner", "", "Owner recorded on newly created layer records")
	updateLayersCmd.Flags().StringVar(&updateWorkspace, "workspace", "", "Restrict the run to one workspace")
	updateLayersCmd.Flags().StringVar(&updateStore, "store", "", "Restrict the run to one store")
	updateLayersCmd.Flags().StringVar(&updateFilter, "filter", "", "Only process resources whose name contains this substring")
	updateLayersCmd.Flags().BoolVar(&updateSkipUnadvertised, "skip-unadvertised", false, "Exclude resources explicitly marked not-advertised")
	updateLayersCmd.Flags().BoolVar(&updateRemoveDeleted, "remove-deleted", false, "Delete local records whose upstream resource is gone")

	RootCmd.AddCommand(updateLayersCmd)
}

func runUpdateLayers(cmd *cobra.Command, args []string) error {
	w, err := wire()
	if err != nil {
		return err
	}
	defer w.logger.Sync()

	outcome, err := w.feature.Service().Sync(context.Background(), sync.Options{
		IgnoreErrors:     updateIgnoreErrors,
		Verbosity:        updateVerbosity,
		Console:          os.Stdout,
		Owner:            updateOwner,
		Workspace:        updateWorkspace,
		Store:            updateStore,
		Filter:           updateFilter,
		SkipUnadvertised: updateSkipUnadvertised,
		RemoveDeleted:    updateRemoveDeleted,
	})
	if err != nil {
		return err
	}

	w.logger.Info("Layer synchronization finished",
		zap.Int("created", outcome.Stats.Created),
		zap.Int("updated", outcome.Stats.Updated),
		zap.Int("failed", outcome.Stats.Failed),
		zap.Int("deleted", outcome.Stats.Deleted),
		zap.Float64("duration_sec", outcome.Stats.DurationSec),
	)
	return nil
}
