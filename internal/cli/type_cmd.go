package cli

import (
	"github.com/spf13/cobra"

	"github.com/owzim/blick/internal/config"
)

var typeAliases = map[config.AssetType][]string{
	config.Script: {"script"},
	config.Style:  {"style"},
	config.Image:  {"image"},
}

// projections are the asset properties a type command can print.
var projections = []struct {
	name, short string
}{
	{"default", "Print the projection configured as the type's default"},
	{config.ProjectionMarkup, "Render the markup template"},
	{config.ProjectionURL, "Print the versioned URL"},
	{config.ProjectionPath, "Print the filesystem path"},
	{config.ProjectionDir, "Print the directory holding the file"},
	{config.ProjectionFilename, "Print the file name (minified when available)"},
	{config.ProjectionVersion, "Print the version token"},
	{config.ProjectionParam, "Print the formatted version parameter"},
	{config.ProjectionContent, "Print the file contents in the configured wrapper"},
}

// newTypeCmd creates a subcommand for a given asset type (js, css, img).
// Each type command has one sub-subcommand per projection; images also get
// the variation commands.
func newTypeCmd(g *globalFlags, t config.AssetType, description string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     string(t),
		Aliases: typeAliases[t],
		Short:   description,
		Long:    description + ". Each subcommand prints one property of the resolved reference.",
	}

	for _, p := range projections {
		cmd.AddCommand(newProjectCmd(g, t, p.name, p.short))
	}

	if t == config.Image {
		cmd.AddCommand(newVariantCmd(g))
		cmd.AddCommand(newSizeCmd(g))
		cmd.AddCommand(newCropCmd(g))
	}

	return cmd
}
