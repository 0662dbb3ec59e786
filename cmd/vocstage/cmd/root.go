package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"vocstage/internal/config"
	"vocstage/internal/logger"
	"vocstage/internal/service/pipeline"
	"vocstage/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// logLevel controls log verbosity for the run.
	logLevel string
	// skipPrepare stops after staging, without invoking the preparation routine.
	skipPrepare bool
	// keepScratch leaves the scratch directory in place for inspection.
	keepScratch bool
	// quiet disables download progress bars.
	quiet bool

	// rootCmd represents the base command that runs the full staging pipeline.
	rootCmd = &cobra.Command{
		Use:   "vocstage",
		Short: "Download and stage the Pascal VOC detection datasets",
		Long: "Download the VOC2007 trainval, VOC2007 test and VOC2012 trainval archives, " +
			"extract them into canonical dataset directories, run the external " +
			"preparation routine, and remove the scratch directory.",
		Args: cobra.NoArgs,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &pipeline.Options{
				ConfigPath:  configPath,
				SkipPrepare: skipPrepare,
				KeepScratch: keepScratch,
				Quiet:       quiet,
			}

			return pipeline.Run(ctx, options)
		},
	}

	// initCmd writes a default settings file so runs can be customized.
	initCmd = &cobra.Command{
		Use:   "init [mirror-url]",
		Short: "Write a default settings file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg := new(config.Config)
			if len(args) > 0 {
				cfg.MirrorURL = args[0]
			}

			if err := config.Validate(cfg); err != nil {
				return err
			}

			return config.Save(configPath, cfg)
		},
	}
)

// Execute runs the vocstage CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "log level (debug, info, warn, error, fatal)")
	rootCmd.Flags().BoolVar(&skipPrepare, "skip-prepare", false, "stage the datasets but skip the preparation routine")
	rootCmd.Flags().BoolVar(&keepScratch, "keep-scratch", false, "leave the scratch directory in place after the run")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "disable download progress bars")

	rootCmd.AddCommand(initCmd)
}
