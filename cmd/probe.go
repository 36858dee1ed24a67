package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"webboot/core/config"
	"webboot/core/env"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var jsonFlag bool

// ProbeReport is what the environment prober found.
type ProbeReport struct {
	WorkDir                string   `json:"work_dir"`
	Host                   string   `json:"host"`
	ProductionMode         bool     `json:"production_mode"`
	DevelopmentEnvironment bool     `json:"development_environment"`
	ResourceRoot           string   `json:"resource_root"`
	ClassLocations         []string `json:"class_locations"`
	ServerURL              string   `json:"server_url"`
}

// probeCmd represents the probe command
var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Report what the launcher detects about its environment",
	Long: `Resolves production mode, the development environment, the static resource root
and the class locations the same way start does, without starting a web server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logg, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logg.Sync()

		report, err := probe(cfg, logg)
		if err != nil {
			return fmt.Errorf("environment probe failed: %w", err)
		}
		return writeReport(cmd.OutOrStdout(), report, jsonFlag)
	},
}

func probe(cfg *config.Config, logg *zap.Logger) (*ProbeReport, error) {
	p := env.NewProber(env.Options{
		Classpath:       env.ParseClasspath(cfg.Boot.Classpath),
		ScanTestClasses: cfg.Boot.ScanTestClasses,
		Logger:          logg,
	})
	root, err := p.ResolveResourceRoot()
	if err != nil {
		return nil, err
	}
	report := &ProbeReport{
		WorkDir:                p.WorkDir(),
		Host:                   env.DumpHost(),
		ProductionMode:         p.IsProductionMode(),
		DevelopmentEnvironment: p.IsDevelopmentEnvironment(),
		ResourceRoot:           root.String(),
		ClassLocations:         []string{},
		ServerURL:              cfg.Server.URL(),
	}
	if !cfg.Boot.DisableClassScanning {
		locations, err := p.ResolveClassLocations(root)
		if err != nil {
			return nil, err
		}
		for _, l := range locations {
			report.ClassLocations = append(report.ClassLocations, l.String())
		}
	}
	return report, nil
}

func writeReport(w io.Writer, r *ProbeReport, asJSON bool) error {
	if asJSON {
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	fmt.Fprintln(w, "=== Environment ===")
	fmt.Fprintf(w, "Working Directory: %s\n", r.WorkDir)
	fmt.Fprintf(w, "Host: %s\n", r.Host)
	fmt.Fprintf(w, "Production Mode: %t\n", r.ProductionMode)
	fmt.Fprintf(w, "Development Environment: %t\n", r.DevelopmentEnvironment)
	fmt.Fprintf(w, "Resource Root: %s\n", r.ResourceRoot)
	fmt.Fprintf(w, "Class Locations: %d\n", len(r.ClassLocations))
	for _, l := range r.ClassLocations {
		fmt.Fprintf(w, "  %s\n", l)
	}
	fmt.Fprintf(w, "Server URL: %s\n", r.ServerURL)
	return nil
}

func init() {
	probeCmd.Flags().BoolVar(&jsonFlag, "json", false, "print the report as JSON")
	RootCmd.AddCommand(probeCmd)
}
