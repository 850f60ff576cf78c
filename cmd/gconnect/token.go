package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func tokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Show the stored OAuth tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, store, cleanup, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			oauth1, oauth2Token, err := store.Load(ctx)
			if err != nil {
				return fmt.Errorf("failed to load tokens: %w", err)
			}

			fmt.Println(field("Backend:      ", string(cfg.TokenStoreBackend)))
			fmt.Println(field("OAuth1 token: ", oauth1.Token))
			fmt.Println(field("Domain:       ", oauth1.Domain))
			fmt.Println(field("Access token: ", oauth2Token.AccessToken))
			fmt.Println(field("Refresh token:", oauth2Token.RefreshToken))

			expiry := time.Unix(oauth2Token.ExpiresAt, 0)
			fmt.Println(field("Expiry:       ", expiry.Format(time.RFC3339)))

			switch {
			case oauth2Token.Expired() && !oauth2Token.Usable():
				fmt.Println(warnStyle.Render("Status:        EXPIRED (refresh token too; login required)"))
			case oauth2Token.Expired():
				fmt.Println(dimStyle.Render("Status:        expired, will refresh on next request"))
			default:
				fmt.Println(okStyle.Render(fmt.Sprintf("Status:        valid (expires in %s)", time.Until(expiry).Round(time.Second))))
			}
			return nil
		},
	}
}
