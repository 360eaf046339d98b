package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rbacadmin/rbac-admin/internal/config"
)

func init() { //nolint:gochecknoinits
	configCmd.Flags().BoolVar(&dumpJSON, "json", false, "Print as JSON instead of TOML")

	rootCmd.AddCommand(configCmd)
}

var (
	dumpJSON bool

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration including environment overrides",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := config.ReadConfig(configPath)
			if err != nil {
				return err
			}

			dump := config.DumpConfig
			if dumpJSON {
				dump = config.DumpConfigJSON
			}

			out, err := dump(&c)
			if err != nil {
				return err
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), out)

			return err
		},
	}
)
