package cli

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/owzim/blick/internal/config"
)

// resolveVariationNames completes the image variation names configured in
// the file at configPath.
func resolveVariationNames(configPath, toComplete string) ([]string, cobra.ShellCompDirective) {
	// Load the config
	dir, err := filepath.Abs(filepath.Dir(configPath))
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	conf, err := config.Load(configPath, config.SiteRoots{Path: filepath.ToSlash(dir), URL: "/"})
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	names := make([]string, 0, len(conf.Image.Variations))
	for name := range conf.Image.Variations {
		names = append(names, name)
	}
	sort.Strings(names)

	// Filter based on toComplete prefix
	var completions []string
	for _, name := range names {
		if strings.HasPrefix(name, toComplete) {
			spec := conf.Image.Variations[name]
			completions = append(completions, formatCompletionLine(name, fmt.Sprintf("%dx%d", spec.Width, spec.Height)))
		}
	}

	return completions, cobra.ShellCompDirectiveNoFileComp
}

// formatCompletionLine joins a completion and its description the way cobra
// expects them.
func formatCompletionLine(value, description string) string {
	return value + "\t" + description
}
