// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rbac-admin",
	Short: "rbac-admin is the backend of a role based access control admin dashboard",
	Long: `rbac-admin serves a JSON API to manage users, roles, permissions
and the role to permission assignments of an admin dashboard.`,
	Args:          cobra.OnlyValidArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() { //nolint:gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Directory containing main.toml (default ./etc/)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
