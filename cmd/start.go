package cmd

import (
	"webboot/core/boot"
	"webboot/core/loader"
	"webboot/feature/hello"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	webServerFlag     string
	localhostOnlyFlag bool
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the application",
	Long: `Probes the environment, starts the embedded web server and hosts the application
until ENTER is pressed or the process is interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Load Configuration
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if webServerFlag != "" {
			cfg.Boot.WebServer = webServerFlag
		}

		// 2. Initialize Logger
		logg, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Initialize Feature Loader
		mgr := loader.NewManager(logg)
		mgr.Register(hello.NewFeature(logg))

		// 4. Pick the Web Server
		ws, err := newWebServer(cfg.Boot.WebServer, logg, mgr)
		if err != nil {
			return err
		}

		b, err := boot.New(ws, boot.WithConfig(cfg), boot.WithLogger(logg))
		if err != nil {
			return err
		}
		if localhostOnlyFlag {
			if err := b.LocalhostOnly(); err != nil {
				return err
			}
		}
		if err := b.OnStarted(func(ws boot.WebServer) error {
			logg.Info("Application initialized", zap.String("server", ws.Name()))
			return nil
		}); err != nil {
			return err
		}

		// 5. Run until ENTER, CTRL+C or SIGTERM
		return b.Run(cmd.Context())
	},
}

func init() {
	startCmd.Flags().StringVar(&webServerFlag, "server", "", "embedded web server: fiber or gin (default from boot.web_server)")
	startCmd.Flags().BoolVar(&localhostOnlyFlag, "localhost-only", false, "listen on localhost only")
	RootCmd.AddCommand(startCmd)
}
