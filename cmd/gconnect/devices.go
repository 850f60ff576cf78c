package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func devicesCmd() *cobra.Command {
	var showAlarms bool

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List registered devices",
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

			devices, err := c.Device.List(ctx)
			if err != nil {
				return fmt.Errorf("failed to fetch devices: %w", err)
			}

			if len(devices) == 0 {
				fmt.Println(dimStyle.Render("No devices."))
				return nil
			}
			for _, d := range devices {
				fmt.Printf("%s  %s  %s\n",
					dimStyle.Render(fmt.Sprintf("%d", d.DeviceID)),
					valueStyle.Render(d.ProductDisplayName),
					d.SoftwareVersion,
				)
			}

			if showAlarms {
				alarms, err := c.Device.Alarms(ctx)
				if err != nil {
					return fmt.Errorf("failed to fetch alarms: %w", err)
				}
				fmt.Println(labelStyle.Render("Alarms:"))
				if len(alarms) == 0 {
					fmt.Println(dimStyle.Render("  none"))
				}
				for _, a := range alarms {
					state := "off"
					if a.Enabled {
						state = "on"
					}
					fmt.Printf("  %02d:%02d  %v  %s\n", a.AlarmTime/60, a.AlarmTime%60, a.AlarmDays, state)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showAlarms, "alarms", false, "also list the alarms configured on each device")
	return cmd
}
