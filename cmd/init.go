/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/assettrack/apiserver/config"
	"github.com/assettrack/apiserver/internal/rowstore"
	"github.com/assettrack/apiserver/internal/services"
	"github.com/assettrack/apiserver/internal/store"
	"github.com/assettrack/apiserver/types"
	"github.com/spf13/cobra"
)

var (
	initAdminUser     string
	initAdminPassword string
)

// initCmd represents the init command. It creates the backing tables
// and their header rows, and optionally seeds an admin account.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the backing spreadsheet tables",
	Long: `Creates every table the server expects in the configured
spreadsheet, writing header rows for tables that are empty. Existing
tables and headers are left untouched, so init is safe to re-run.

Pass --admin-user and --admin-password to also seed an admin account.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		if cfg.Sheets.SpreadsheetID == "" {
			return errors.New("SHEETS_SPREADSHEET_ID is required")
		}

		backend, err := rowstore.NewSheetsBackend(cmd.Context(), cfg.Sheets)
		if err != nil {
			return fmt.Errorf("connect to sheets: %w", err)
		}
		rs := rowstore.New(backend)

		if err := store.EnsureTables(cmd.Context(), rs); err != nil {
			return fmt.Errorf("ensure tables: %w", err)
		}
		fmt.Println("tables ready")

		if initAdminUser == "" {
			return nil
		}
		userService := services.NewUserService(store.NewUserRepository(rs))
		user, err := userService.Register(cmd.Context(), initAdminUser, initAdminPassword, types.RoleAdmin)
		if err != nil {
			if errors.Is(err, services.ErrDuplicateUsername) {
				fmt.Printf("user %s already exists, skipping\n", initAdminUser)
				return nil
			}
			return fmt.Errorf("seed admin: %w", err)
		}
		fmt.Printf("created admin user %s (id %d)\n", user.Username, user.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initAdminUser, "admin-user", "", "username for a seeded admin account")
	initCmd.Flags().StringVar(&initAdminPassword, "admin-password", "", "password for the seeded admin account")
}
