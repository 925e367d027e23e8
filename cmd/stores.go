package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var storesType string

// storesCmd lists the stores registered in the external catalog.
var storesCmd = &cobra.Command{
	Use:   "stores",
	Short: "List the stores registered in the external catalog",
	RunE:  runStores,
}

func init() {
	storesCmd.Flags().StringVar(&storesType, "type", "", "Filter by store kind (datastore or coveragestore)")
	RootCmd.AddCommand(storesCmd)
}

func runStores(cmd *cobra.Command, args []string) error {
	w, err := wire()
	if err != nil {
		return err
	}
	defer w.logger.Sync()

	stores, err := w.feature.Service().Stores(context.Background(), storesType)
	if err != nil {
		return err
	}

	for _, store := range stores {
		fmt.Printf("%-40s %s\n", store.Name, store.Type)
	}
	return nil
}
