package main

import (
	"fmt"
	"os"
	config "readafrik-checkout/configs"
	types "readafrik-checkout/internal/common/type"
	"readafrik-checkout/internal/pkg/jwt"
	"readafrik-checkout/internal/pkg/logger"
	"readafrik-checkout/internal/pkg/validation"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func main() {
	logger.Setup()

	rootCmd := &cobra.Command{
		Use:   "token",
		Short: "Admin token tooling for the ReadAfrik order API",
	}
	rootCmd.AddCommand(issueCmd())
	rootCmd.AddCommand(inspectCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func manager(ttl time.Duration) (*jwt.Manager, error) {
	env, err := config.GetEnv()
	if err != nil {
		return nil, err
	}
	if err := validation.Setup(); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = time.Duration(env.JWTExpiryHours) * time.Hour
	}
	return jwt.New(env.JWTSecret, ttl), nil
}

func issueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue [email]",
		Short: "Mint an admin bearer token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ttl, _ := cmd.Flags().GetDuration("ttl")
			m, err := manager(ttl)
			if err != nil {
				return err
			}

			token, exp, err := m.GenerateToken(types.AdminWithAuth{
				ID:    uuid.New(),
				Email: args[0],
				Role:  "admin",
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintln(cmd.ErrOrStderr(), "expires", exp.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().Duration("ttl", 0, "token lifetime (defaults to JWT_EXPIRY_HOURS)")
	return cmd
}

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [token]",
		Short: "Validate a token and print the admin it carries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manager(0)
			if err != nil {
				return err
			}
			admin, err := m.ValidateToken(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", admin.ID, admin.Email, admin.Role)
			return nil
		},
	}
}
