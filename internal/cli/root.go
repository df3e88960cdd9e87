package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/owzim/blick/internal/config"
)

// version is set at build time via -ldflags.
var version = "dev"

// globalFlags are the persistent flags of the root command.
type globalFlags struct {
	configPath string
	verbose    bool
}

// NewRootCmd creates the top-level `blick` command.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "blick",
		Short: "Blick resolves asset references into versioned URLs, paths and markup",
		Long: `blick turns short asset references like "main" or "vendor/jquery.min.js"
into cache-busted URLs, filesystem paths and ready-to-use markup, driven by
a blick.toml configuration. Images can be resized into named variations.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", config.DefaultConfigFile, "Path to the blick configuration file (.toml, .yaml or .yml)")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Log resolution details to stderr")

	// Register type subcommands (js, css, img)
	root.AddCommand(newTypeCmd(g, config.Script, "Resolve script references"))
	root.AddCommand(newTypeCmd(g, config.Style, "Resolve stylesheet references"))
	root.AddCommand(newTypeCmd(g, config.Image, "Resolve image references and generate variations"))

	// Register top-level commands
	root.AddCommand(newCheckCmd(g))
	root.AddCommand(newInitCmd(g))

	return root
}

// Execute runs the root command.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
