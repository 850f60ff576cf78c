package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func summaryCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the daily wellness summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			day, err := parseDate(date)
			if err != nil {
				return err
			}

			c, cleanup, err := newClient(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := login(ctx, c); err != nil {
				return err
			}

			summary, err := c.Wellness.Summary(ctx, day)
			if err != nil {
				return fmt.Errorf("failed to fetch summary: %w", err)
			}

			fmt.Println(field("Date:         ", summary.CalendarDate))
			fmt.Println(field("Steps:        ", fmt.Sprintf("%d / %d", summary.TotalSteps, summary.DailyStepGoal)))
			fmt.Println(field("Distance:     ", fmt.Sprintf("%.1f km", summary.TotalDistanceMeters/1000)))
			fmt.Println(field("Calories:     ", fmt.Sprintf("%.0f kcal (%.0f active)", summary.TotalKilocalories, summary.ActiveKilocalories)))
			fmt.Println(field("Resting HR:   ", fmt.Sprintf("%d bpm", summary.RestingHeartRate)))
			fmt.Println(field("Stress:       ", fmt.Sprintf("%d", summary.AverageStressLevel)))
			fmt.Println(field("Body battery: ", fmt.Sprintf("%d", summary.BodyBatteryMostRecent)))
			fmt.Println(field("Sleep:        ", (time.Duration(summary.SleepingSeconds) * time.Second).String()))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "calendar date (YYYY-MM-DD), defaults to today")
	return cmd
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	day, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return day, nil
}
