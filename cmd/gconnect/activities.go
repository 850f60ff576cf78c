package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/garrettladley/gconnect/internal/garmin"
)

func activitiesCmd() *cobra.Command {
	var (
		limit        int
		from, to     string
		activityType string
	)

	cmd := &cobra.Command{
		Use:   "activities",
		Short: "List recent activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			c, cleanup, err := newClient(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := login(ctx, c); err != nil {
				return err
			}

			var activities []garmin.Activity
			if from != "" || to != "" {
				start, err := parseDate(from)
				if err != nil {
					return err
				}
				end, err := parseDate(to)
				if err != nil {
					return err
				}
				activities, err = garmin.Collect(c.Activity.ByDate(ctx, start, end, activityType))
				if err != nil {
					return fmt.Errorf("failed to fetch activities: %w", err)
				}
			} else {
				activities, err = c.Activity.List(ctx, 0, limit)
				if err != nil {
					return fmt.Errorf("failed to fetch activities: %w", err)
				}
			}

			if len(activities) == 0 {
				fmt.Println(dimStyle.Render("No activities."))
				return nil
			}

			for _, a := range activities {
				fmt.Printf("%s  %s  %s  %.1f km\n",
					dimStyle.Render(fmt.Sprintf("%d", a.ActivityID)),
					a.StartTimeLocal,
					valueStyle.Render(a.ActivityName),
					a.Distance/1000,
				)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "number of activities to list")
	cmd.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&activityType, "type", "", "activity type filter (running, cycling, ...)")
	return cmd
}
