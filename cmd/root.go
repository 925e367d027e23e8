package cmd

import (
	"fmt"
	"os"

	"geosync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "geosync",
	Short: "Spatial catalog synchronization service",
	Long: `Geosync keeps a local record store in step with an external map-server
catalog: it reconciles published resources against layer records, refreshes
attribute schemas and statistics, generates default symbology and performs
cascading deletion of server-side resources.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// CLI errors go through the structured logger in console format.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
