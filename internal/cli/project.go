package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/owzim/blick/internal/asset"
	"github.com/owzim/blick/internal/config"
	"github.com/owzim/blick/internal/strfmt"
)

// renderFlags are the flags shared by every command that prints an asset.
type renderFlags struct {
	attrs []string
	args  []string
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.attrs, "attr", nil, "Rendering attribute key=value; key may list aliases separated by |")
	cmd.Flags().StringArrayVar(&f.args, "arg", nil, "Named template argument key=value")
}

// values returns the template args: positional ones first, then --arg pairs.
func (f *renderFlags) values(positional []string) (strfmt.Values, error) {
	named, err := parsePairs(f.args)
	if err != nil {
		return nil, fmt.Errorf("--arg: %w", err)
	}
	return append(strfmt.Positional(positional...), named...), nil
}

// apply sets the --attr pairs on a.
func (f *renderFlags) apply(a *asset.Asset) error {
	attrs, err := parsePairs(f.attrs)
	if err != nil {
		return fmt.Errorf("--attr: %w", err)
	}
	a.SetAttrs(attrs)
	return nil
}

// newProjectCmd creates the command printing one projection of a reference.
// Usage: blick <type> <projection> <ref> [args...]
func newProjectCmd(g *globalFlags, t config.AssetType, projection, short string) *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   projection + " <ref> [args...]",
		Short: short,
		Long: fmt.Sprintf(`%s of a %s reference. Extra arguments fill the positional
{0}, {1}, ... placeholders of the markup template.

Example:
  blick %s %s main --attr defer=defer`, short, t, t, projection),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(g)
			if err != nil {
				return err
			}
			defer s.close()
			return runProject(s, cmd.OutOrStdout(), t, projection, args[0], args[1:], &flags)
		},
	}
	flags.register(cmd)

	return cmd
}

// runProject is the testable core of the projection commands.
func runProject(s *session, out io.Writer, t config.AssetType, projection, ref string, positional []string, flags *renderFlags) error {
	values, err := flags.values(positional)
	if err != nil {
		return err
	}

	a := s.asset(t, ref, values)
	if err := flags.apply(a); err != nil {
		return err
	}

	text, err := project(a, projection)
	if err != nil {
		return err
	}
	return writeLine(out, text)
}

// project returns the named projection. Unlike Asset.Project a failing
// content projection is an error.
func project(a *asset.Asset, projection string) (string, error) {
	switch projection {
	case "", "default":
		return a.String(), nil
	case config.ProjectionContent:
		return a.Content()
	}
	return a.Project(projection), nil
}

// writeLine writes s, adding a trailing newline unless it has one.
func writeLine(out io.Writer, s string) error {
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, err := io.WriteString(out, s)
	return err
}

// parsePairs parses key=value items in order.
func parsePairs(items []string) (strfmt.Values, error) {
	var values strfmt.Values
	for _, item := range items {
		k, v, ok := strings.Cut(item, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid pair %q, expected key=value", item)
		}
		values = values.Set(k, v)
	}
	return values, nil
}
