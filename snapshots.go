package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"go-vjgrid/snapshot"
)

var snapshotType string

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Inspect saved effect snapshots",
}

var snapshotsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		backend, err := snapshot.Open(cfg.Backend())
		if err != nil {
			return printError("Cannot open snapshot storage", err.Error(), nil)
		}
		defer backend.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		records, skipped, err := readRecords(ctx, backend)
		if err != nil {
			return printError("Cannot read snapshots", err.Error(), nil)
		}
		for _, s := range skipped {
			printWarning("skipped record: %v\n", s)
		}
		return writeRecords(cmd.OutOrStdout(), records, snapshotType)
	},
}

func init() {
	snapshotsListCmd.Flags().StringVarP(&snapshotType, "type", "t", "", "only show one effect type (DoF, PixelSort, Chromatic)")
	snapshotsCmd.AddCommand(snapshotsListCmd)
	rootCmd.AddCommand(snapshotsCmd)
}

func readRecords(ctx context.Context, backend snapshot.Backend) ([]snapshot.Record, []error, error) {
	data, err := backend.Read(ctx)
	if errors.Is(err, snapshot.ErrNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return snapshot.Decode(data)
}

func writeRecords(w io.Writer, records []snapshot.Record, effectType string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tSAVED\tID")

	shown := 0
	for _, rec := range records {
		if effectType != "" && !strings.EqualFold(rec.EffectType, effectType) {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			rec.Name, cyan.Sprint(rec.EffectType), rec.SavedAt, faint.Sprint(rec.ID))
		shown++
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d snapshot(s)\n", shown)
	return err
}
