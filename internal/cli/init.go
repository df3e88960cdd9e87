package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/owzim/blick/internal/config"
)

// newInitCmd creates the `init` command.
// Usage: blick init [--force]
func newInitCmd(g *globalFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default settings",
		Long: `Writes the default configuration to blick.toml, or to the file named by
--config. A .yaml or .yml name writes YAML.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.OutOrStdout(), g.configPath, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")

	return cmd
}

// runInit is the testable core of the init command. The default site root is
// the directory of the configuration file.
func runInit(out io.Writer, configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	}

	dir, err := filepath.Abs(filepath.Dir(configPath))
	if err != nil {
		return fmt.Errorf("resolving site root: %w", err)
	}

	c := config.Default(config.SiteRoots{Path: filepath.ToSlash(dir), URL: "/"})
	if err := c.Save(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintf(out, "Wrote %s\n", configPath)
	return nil
}
