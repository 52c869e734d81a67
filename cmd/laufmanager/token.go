package main

import (
	"errors"
	"fmt"
	"time"

	"laufmanager.de/configs"
	"laufmanager.de/middlewares"
	"laufmanager.de/services"

	"github.com/spf13/cobra"
)

// newTokenCommand mints an access token locally. Useful for development and
// for calling the admin API from scripts.
func newTokenCommand(root *rootOptions) *cobra.Command {
	var (
		subject string
		email   string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed access token for a subject and email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if root.cfg.Auth.JWTSecret == "" {
				return configs.ErrMissingSecret
			}
			if subject == "" || email == "" {
				return errors.New("--sub and --email are required")
			}
			token, err := middlewares.IssueToken([]byte(root.cfg.Auth.JWTSecret), services.Identity{Subject: subject, Email: email}, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&subject, "sub", "", "auth user id (sub claim)")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "token lifetime")
	return cmd
}
