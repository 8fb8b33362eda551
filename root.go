package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"go-vjgrid/config"
	"go-vjgrid/debug"
)

var (
	configPath string
	debugFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "go-vjgrid",
	Short: "Drive a live visual rig from a Midi Fighter 64",
	Long: `go-vjgrid maps the pads of a Midi Fighter 64 onto cameras, post-processing
effect presets, light groups and scene slots, and keeps named snapshots of
effect settings that can be recalled during a show.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		applyEnv(cmd)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func execute() error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

func setVersionInfo(v, c string) {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", v, c)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"config file (default ~/.config/go-vjgrid/config.yml, env VJGRID_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"write the debug log (env VJGRID_DEBUG)")
}

// applyEnv fills flags the user did not pass from the environment. It runs
// after main has loaded .env, so values from that file count too.
func applyEnv(cmd *cobra.Command) {
	if !flagChanged(cmd, "config") {
		if v, ok := os.LookupEnv("VJGRID_CONFIG"); ok {
			configPath = v
		}
	}
	if !flagChanged(cmd, "debug") {
		if v, err := strconv.ParseBool(os.Getenv("VJGRID_DEBUG")); err == nil {
			debugFlag = v
		}
	}
}

func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flag(name)
	return f != nil && f.Changed
}

// loadConfig reads the config and switches on the debug log when asked to
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, printError("Invalid configuration", err.Error(), []string{
			"Fix the file, or run 'go-vjgrid config init' to write a fresh one",
		})
	}

	if debugFlag || cfg.Debug.Enabled {
		if err := debug.Enable(cfg.Debug.Path); err != nil {
			printWarning("debug log disabled: %v\n", err)
		}
	}
	return cfg, nil
}
