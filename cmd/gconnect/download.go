package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/garrettladley/gconnect/internal/garmin"
)

func downloadCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "download <activity-id>",
		Short: "Download an activity file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid activity id %q", args[0])
			}

			c, cleanup, err := newClient(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := login(ctx, c); err != nil {
				return err
			}

			data, err := c.Activity.Download(ctx, id, garmin.DownloadFormat(format))
			if err != nil {
				return fmt.Errorf("failed to download activity: %w", err)
			}

			if output == "" {
				ext := format
				if format == string(garmin.FormatOriginal) {
					ext = "zip"
				}
				output = fmt.Sprintf("activity_%d.%s", id, ext)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			fmt.Println(okStyle.Render(fmt.Sprintf("Wrote %s (%d bytes)", output, len(data))))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(garmin.FormatTCX), "export format (original, tcx, gpx, kml, csv)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path")
	return cmd
}
