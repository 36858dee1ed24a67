package cmd

import (
	"fmt"
	"os"

	"webboot/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "webboot",
	Short: "Embedded web server launcher",
	Long: `webboot runs a web application from a plain executable on an embedded web server.
It probes its environment for the static web resources and the application's own code,
then hosts them on Fiber or Gin.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// properties holds the -D key=value overrides shared by all commands.
var properties []string

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Use the application's standard logger for error reporting
		// We use "debug" level configuration to get ISO8601 timestamps (DevConfig) instead of Epoch (ProdConfig)
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringArrayVarP(&properties, "define", "D", nil,
		"override a setting, e.g. -D server.port=8081 (repeatable)")
}
