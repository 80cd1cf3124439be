package commands

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sqve/gitscope/internal/config"
	"github.com/sqve/gitscope/internal/formatter"
	"github.com/sqve/gitscope/internal/styles"
)

// NewConfigCmd creates the config command
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage gitscope settings",
		Long: `Manage gitscope settings.

Settings are read from built-in defaults, the user config file, GITSCOPE_*
environment variables and flags, in rising order of precedence. A ` + config.FileName + `
project file next to a repository adds output settings and git config
overrides for that repository.`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathsCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a project file with commented defaults",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := targetPath(args)
			if err != nil {
				return err
			}
			if err := config.WriteTemplateToFile(dir, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Created %s\n",
				styles.Render(&styles.Success, "✓"), styles.RenderPath(filepath.Join(dir, config.FileName)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing project file")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Get()
			if err != nil {
				return err
			}

			settings := map[string]string{}
			for _, key := range config.GetValidKeys() {
				settings[key] = config.GetString(key)
			}

			format, err := outputFormat()
			if err != nil {
				return err
			}
			return formatter.Write(cmd.OutOrStdout(), format, cfg, func() string {
				keys := make([]string, 0, len(settings))
				for key := range settings {
					keys = append(keys, key)
				}
				sort.Strings(keys)

				var b strings.Builder
				for _, key := range keys {
					fmt.Fprintf(&b, "%s=%s\n", key, settings[key])
				}
				if file := config.UsedFile(); file != "" {
					fmt.Fprintf(&b, "%s\n", styles.Render(&styles.Dimmed, "# from "+file))
				}
				return b.String()
			})
		},
	}
}

func newConfigPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "List where the user config file is looked up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := config.ListConfigPaths()

			format, err := outputFormat()
			if err != nil {
				return err
			}
			return formatter.Write(cmd.OutOrStdout(), format, paths, func() string {
				var b strings.Builder
				for _, p := range paths {
					marker := " "
					if p.Exists {
						marker = formatter.CurrentMarker(true)
					}
					fmt.Fprintf(&b, "%s %d %s\n", marker, p.Priority, styles.RenderPath(p.Path))
				}
				return b.String()
			})
		},
	}
}
