package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"go-vjgrid/config"
	"go-vjgrid/debug"
	"go-vjgrid/metrics"
	"go-vjgrid/midi"
	"go-vjgrid/rig"
	"go-vjgrid/snapshot"
	"go-vjgrid/theme"
	"go-vjgrid/tui"
)

var headless bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the rig with the operator console",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer debug.Disable()
		return runRig(cmd.Context(), cfg)
	},
}

func init() {
	runCmd.Flags().BoolVar(&headless, "headless", false, "run without the terminal UI until interrupted")
	rootCmd.AddCommand(runCmd)
}

func runRig(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	th, err := theme.Load(cfg.UI.Palette)
	if err != nil {
		printWarning("palette: %v, using built-in\n", err)
		th = theme.New(nil)
	}

	backend, err := snapshot.Open(cfg.Backend())
	if err != nil {
		return printError("Cannot open snapshot storage", err.Error(), []string{
			"Check the snapshots section of the config",
		})
	}
	defer backend.Close()

	m := metrics.New()
	r := rig.New(cfg, backend, m)
	r.Load(ctx)
	if st := r.Status(); st.LastError != "" {
		printWarning("%s\n", st.LastError)
	}

	if cfg.Metrics.Addr != "" {
		go func() {
			if err := m.Serve(ctx, cfg.Metrics.Addr); err != nil {
				debug.Log("metrics", "listener stopped: %v", err)
			}
		}()
	}

	var deviceMgr *midi.DeviceManager
	if cfg.Controller.AutoConnect {
		deviceMgr = midi.NewDeviceManager(cfg.Controller.PortMatch)
		go deviceMgr.Run(ctx)
	}

	rigDone := make(chan error, 1)
	go func() { rigDone <- r.Run(ctx) }()

	if headless {
		printSuccess("rig running, ctrl+c to stop\n")
		if deviceMgr != nil {
			go attachDevices(r, deviceMgr)
		}
		<-ctx.Done()
	} else {
		p := tea.NewProgram(tui.NewModel(r, deviceMgr, th), tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil && ctx.Err() == nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		cancel()
	}

	err = <-rigDone
	if r.Store.Dirty() {
		printWarning("snapshots could not be written: %v\n", r.Store.LastError())
	}
	return err
}

// attachDevices follows hot-plug events without the console
func attachDevices(r *rig.Rig, dm *midi.DeviceManager) {
	for ev := range dm.Events() {
		switch ev.Type {
		case midi.DeviceConnected:
			printSuccess("connected %s\n", ev.Controller.Name())
			r.Attach(ev.Controller)
		case midi.DeviceDisconnected:
			printWarning("disconnected %s\n", ev.ID)
			r.Detach(ev.ID)
		}
	}
}
