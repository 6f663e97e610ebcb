package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/idelchi/dirscan/internal/config"
)

// configCommand groups the configuration helpers. path points at the root's --config value.
func configCommand(path *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	cmd.AddCommand(configInitCommand(path), configShowCommand(path))

	return cmd
}

func configInitCommand(path *string) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:          "init [path]",
		Short:        "Write the default configuration",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := *path

			switch {
			case len(args) == 1:
				target = args[0]
			case target == "":
				target = config.DefaultPath()
			}

			if _, err := os.Stat(target); err == nil && !force {
				return fmt.Errorf("config file %q already exists (use --force to overwrite)", target)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("checking %q: %w", target, err)
			}

			if err := config.Save(config.Defaults(), target); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", target)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}

func configShowCommand(path *string) *cobra.Command {
	return &cobra.Command{
		Use:          "show",
		Short:        "Print the effective configuration",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*path, nil)
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}

			_, err = cmd.OutOrStdout().Write(out)

			return err
		},
	}
}
