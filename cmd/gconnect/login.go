package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/garrettladley/gconnect/internal/config"
)

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in to Garmin Connect",
		Long:  "Restores the stored session if possible, otherwise logs in with GARMIN_EMAIL and GARMIN_PASSWORD and persists the tokens.",
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

			fmt.Println(okStyle.Render("Logged in."))
			fmt.Println(field("Display name:", c.DisplayName()))
			fmt.Println(field("Full name:   ", c.FullName()))
			fmt.Println(field("Units:       ", c.UnitSystem()))
			return nil
		},
	}
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop the stored session tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Read()
			if err != nil {
				return err
			}
			if cfg.TokenStoreBackend != config.BackendFile {
				return fmt.Errorf("logout only clears the file backend; drop the %s credentials manually", cfg.TokenStoreBackend)
			}

			dir, err := storeDir(cfg)
			if err != nil {
				return err
			}
			for _, name := range []string{"oauth1_token.json", "oauth2_token.json"} {
				if err := os.Remove(filepath.Join(dir, name)); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("failed to remove %s: %w", name, err)
				}
			}

			fmt.Println("Stored tokens removed.")
			return nil
		},
	}
}
