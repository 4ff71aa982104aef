package cli

import (
	"fmt"

	"github.com/ariel-frischer/releasenotes/internal/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newConfigCmd(global *globalFlags) *cobra.Command {
	var repoPath string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect releasenotes configuration",
		Long: `Inspect the effective configuration and the files it is loaded from.

Priority (highest first): flags, RELEASENOTES_* environment variables, --config file,
project config (.releasenotes.yml in the repository), user config, built-in defaults.`,
	}
	cmd.GroupID = GroupConfiguration
	cmd.PersistentFlags().StringVarP(&repoPath, "repoPath", "p", "", "Repository whose project config is read (default: current directory)")

	cmd.AddCommand(newConfigShowCmd(global, &repoPath), newConfigPathCmd(global, &repoPath))
	return cmd
}

func newConfigShowCmd(global *globalFlags, repoPath *string) *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Example: `  # Effective configuration for the repository in the current directory
  releasenotes config show

  # Commented template with every option and its default
  releasenotes config show --defaults > .releasenotes.yml`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if defaults {
				fmt.Fprint(out, config.GetDefaultConfigTemplate())
				return nil
			}

			cfg, err := loadConfig(cmd, global, *repoPath)
			if err != nil {
				return err
			}
			text, err := cfg.Config.ToYAML()
			if err != nil {
				return err
			}
			fmt.Fprint(out, text)
			return nil
		},
	}
	cmd.Flags().BoolVar(&defaults, "defaults", false, "Print the commented default configuration instead")
	return cmd
}

func newConfigPathCmd(global *globalFlags, repoPath *string) *cobra.Command {
	return &cobra.Command{
		Use:          "path",
		Short:        "List config file locations in load order",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			green := color.New(color.FgGreen).SprintFunc()
			dim := color.New(color.Faint).SprintFunc()

			out := cmd.OutOrStdout()
			for _, p := range config.Paths(*repoPath, global.configFile) {
				status := dim("(not found)")
				if p.Exists {
					status = green("(loaded)")
				}
				fmt.Fprintf(out, "%-9s %s %s\n", p.Source, p.Path, status)
			}
			return nil
		},
	}
}
