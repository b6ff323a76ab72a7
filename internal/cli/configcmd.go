package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/richdraft/internal/configloader"
	"github.com/yaklabco/richdraft/internal/ui/pretty"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
		Long: `Inspect the resolved configuration and where it comes from.

Configuration is layered: system, user, project (.richdraft.yml found by
searching upward), --config, RICHDRAFT_* environment variables and flags.
Later layers win.`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigPathsCommand())
	cmd.AddCommand(newConfigEnvCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			data, err := cfg.ToYAML()
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newConfigPathsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "List the configuration files that are searched",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			workDir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get working directory: %w", err)
			}
			paths, err := configloader.DiscoverPaths(commandContext(cmd), workDir)
			if err != nil {
				return err
			}
			userDir, err := configloader.UserConfigDir()
			if err != nil {
				userDir = ""
			}
			if explicit, _ := cmd.Flags().GetString("config"); explicit != "" {
				paths.Explicit = explicit
			}

			w := cmd.OutOrStdout()
			styles := pretty.NewStyles(pretty.IsColorEnabled(colorFlag(cmd), w))
			rows := []struct{ label, path string }{
				{"system", paths.System},
				{"user", paths.User},
				{"project", paths.Project},
				{"explicit", paths.Explicit},
			}
			for _, row := range rows {
				value := row.path
				if value == "" {
					value = styles.Dim.Render("(none)")
				}
				fmt.Fprintf(w, "%-9s %s\n", row.label+":", value)
			}
			if userDir != "" {
				fmt.Fprintf(w, "%-9s %s\n", "user dir:", userDir)
			}
			return nil
		},
	}
}

func newConfigEnvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List the supported environment variables",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			for _, v := range configloader.ListEnvVars() {
				fmt.Fprintf(w, "%-28s %s\n", v.Name, v.Description)
			}
		},
	}
}

// colorFlag returns the --color value, or "auto" when the flag is absent.
func colorFlag(cmd *cobra.Command) string {
	if flag := cmd.Flags().Lookup("color"); flag != nil {
		return flag.Value.String()
	}
	return "auto"
}
