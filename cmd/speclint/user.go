package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codewithboateng/speclint/internal/security"
	"github.com/codewithboateng/speclint/internal/storage"
)

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage API users",
	}
	cmd.AddCommand(userAddCmd())
	return cmd
}

func userAddCmd() *cobra.Command {
	var username, password, role string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an API user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(".")
			if err != nil {
				return err
			}
			hash, err := security.HashPassword(password)
			if err != nil {
				return err
			}
			db, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			id, err := db.CreateUser(username, hash, role)
			if err != nil {
				return err
			}
			_ = db.LogAudit("cli", "user:add", username, map[string]any{"id": id, "role": role})
			fmt.Fprintf(cmd.OutOrStdout(), "User %s created (id %d, role %s)\n", username, id, role)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "Username")
	cmd.Flags().StringVar(&password, "password", "", "Password (min 8 characters)")
	cmd.Flags().StringVar(&role, "role", storage.RoleViewer, "Role: admin or viewer")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
