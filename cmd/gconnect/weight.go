package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/garrettladley/gconnect/internal/garmin"
)

func weightCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weight",
		Short: "Manage weigh-ins",
	}
	cmd.AddCommand(weightListCmd(), weightAddCmd(), weightDeleteCmd())
	return cmd
}

func weightListCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the weigh-ins for a day",
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

			view, err := c.Weight.Daily(ctx, day)
			if err != nil {
				return fmt.Errorf("failed to fetch weigh-ins: %w", err)
			}

			if len(view.DateWeightList) == 0 {
				fmt.Println(dimStyle.Render("No weigh-ins."))
				return nil
			}
			for _, entry := range view.DateWeightList {
				fmt.Printf("%s  %.2f kg  %s\n",
					dimStyle.Render(fmt.Sprintf("%d", entry.SamplePk)),
					entry.Weight/1000,
					entry.SourceType,
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "calendar date (YYYY-MM-DD), defaults to today")
	return cmd
}

func weightAddCmd() *cobra.Command {
	var unitKey string

	cmd := &cobra.Command{
		Use:   "add <weight>",
		Short: "Record a weigh-in for now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var weight float64
			if _, err := fmt.Sscanf(args[0], "%f", &weight); err != nil {
				return fmt.Errorf("invalid weight %q", args[0])
			}

			c, cleanup, err := newClient(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := login(ctx, c); err != nil {
				return err
			}

			if err := c.Weight.Add(ctx, time.Now(), weight, unitKey); err != nil {
				return fmt.Errorf("failed to add weigh-in: %w", err)
			}

			fmt.Println(okStyle.Render("Weigh-in recorded."))
			return nil
		},
	}

	cmd.Flags().StringVar(&unitKey, "unit", "kg", "weight unit (kg or lbs)")
	return cmd
}

func weightDeleteCmd() *cobra.Command {
	var (
		date string
		all  bool
	)

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the weigh-ins for a day",
		Long:  "Deletes the day's weigh-in. A day with several weigh-ins is left untouched unless --all is set.",
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

			deleted, err := c.Weight.DeleteDay(ctx, day, all)
			if errors.Is(err, garmin.ErrMultipleWeighIns) {
				return fmt.Errorf("the day has multiple weigh-ins; pass --all to delete them all")
			}
			if err != nil {
				return fmt.Errorf("failed to delete weigh-ins: %w", err)
			}

			fmt.Printf("Deleted %d weigh-in(s).\n", deleted)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "calendar date (YYYY-MM-DD), defaults to today")
	cmd.Flags().BoolVar(&all, "all", false, "delete every weigh-in on the day")
	return cmd
}
