package main

import (
	"fmt"

	"github.com/spf13/cobra"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-vjgrid/config"
	"go-vjgrid/midi"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List MIDI ports and show which one the rig would claim",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer gomidi.CloseDriver()

		out := cmd.OutOrStdout()
		match := cfg.Controller.PortMatch

		fmt.Fprintln(out, "Inputs:")
		for _, p := range gomidi.GetInPorts() {
			fmt.Fprintln(out, portLine(p.String(), match))
		}
		fmt.Fprintln(out, "Outputs:")
		for _, p := range gomidi.GetOutPorts() {
			fmt.Fprintln(out, portLine(p.String(), match))
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with default values",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			p, err := config.ConfigPath()
			if err != nil {
				return printError("Cannot find the config directory", err.Error(), nil)
			}
			path = p
		}
		if err := config.DefaultConfig().Save(path); err != nil {
			return printError("Cannot write config", err.Error(), nil)
		}
		printSuccess("wrote %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(portsCmd, configCmd)
}

func portLine(name, match string) string {
	if midi.MatchesPort(name, match) {
		return green.Sprintf("  * %s", name)
	}
	return fmt.Sprintf("    %s", name)
}
