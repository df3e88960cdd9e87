package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/owzim/blick/internal/asset"
	"github.com/owzim/blick/internal/config"
	"github.com/owzim/blick/internal/imaging"
)

// imageFlags are the flags shared by the variation commands.
type imageFlags struct {
	renderFlags
	as string
}

func (f *imageFlags) register(cmd *cobra.Command) {
	f.renderFlags.register(cmd)
	cmd.Flags().StringVar(&f.as, "as", "default", "Projection to print: default, markup, url, path, dir, filename, version, param")
}

// sizeFlags are the resize options a command accepts. Only flags that were
// set on the command line override the configured options.
type sizeFlags struct {
	crop        string
	quality     int
	suffix      []string
	hidpi       bool
	force       bool
	noUpscaling bool
}

func (f *sizeFlags) register(cmd *cobra.Command, withCrop bool) {
	if withCrop {
		cmd.Flags().StringVar(&f.crop, "crop", "", "Cropping: true, false, a direction like north or nw, x,y or x{X}y{Y}")
	}
	cmd.Flags().IntVar(&f.quality, "quality", 90, "JPEG quality 1-100")
	cmd.Flags().StringSliceVar(&f.suffix, "suffix", nil, "Suffix added to the variant file name (repeatable)")
	cmd.Flags().BoolVar(&f.hidpi, "hidpi", false, "Generate a hidpi variant")
	cmd.Flags().BoolVar(&f.force, "force", false, "Regenerate the variant even if it exists")
	cmd.Flags().BoolVar(&f.noUpscaling, "no-upscaling", false, "Never make the variant larger than its source")
}

func (f *sizeFlags) options(cmd *cobra.Command) []imaging.Option {
	var opts []imaging.Option
	changed := cmd.Flags().Changed
	if changed("crop") {
		opts = append(opts, imaging.WithCropping(f.crop))
	}
	if changed("quality") {
		opts = append(opts, imaging.WithQuality(f.quality))
	}
	if changed("suffix") {
		opts = append(opts, imaging.WithSuffix(f.suffix...))
	}
	if changed("hidpi") {
		opts = append(opts, imaging.WithHidpi(f.hidpi))
	}
	if changed("force") {
		opts = append(opts, imaging.WithForceNew(f.force))
	}
	if changed("no-upscaling") {
		opts = append(opts, imaging.WithUpscaling(!f.noUpscaling))
	}
	return opts
}

// newVariantCmd creates the `img variant` command.
// Usage: blick img variant <ref> <name> [--scale N]
func newVariantCmd(g *globalFlags) *cobra.Command {
	var (
		flags imageFlags
		scale int
	)

	cmd := &cobra.Command{
		Use:   "variant <ref> <name> [args...]",
		Short: "Generate a named variation of an image",
		Long: `Resizes an image to one of the variations configured under [img.variations]
and prints the variant. --scale resizes the variation by a percentage.

Example:
  blick img variant header.jpg hero --scale 200`,
		Args: cobra.MinimumNArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 1 {
				return resolveVariationNames(g.configPath, toComplete)
			}
			return nil, cobra.ShellCompDirectiveDefault
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(g)
			if err != nil {
				return err
			}
			defer s.close()
			name := args[1]
			return runImage(s, cmd.OutOrStdout(), args[0], args[2:], &flags, func(base *asset.Asset) imaging.Variant {
				return s.images.Variant(base, name, scale)
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&scale, "scale", 100, "Scale the variation by this percentage")

	return cmd
}

// newSizeCmd creates the `img size` command.
// Usage: blick img size <ref> <width> <height>
func newSizeCmd(g *globalFlags) *cobra.Command {
	var (
		flags imageFlags
		size  sizeFlags
	)

	cmd := &cobra.Command{
		Use:   "size <ref> <width> <height> [args...]",
		Short: "Resize an image",
		Long: `Resizes an image to width x height and prints the variant. A zero
dimension keeps the aspect ratio.

Example:
  blick img size team.jpg 400 0 --suffix team`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			dims, err := parseInts(args[1:3])
			if err != nil {
				return err
			}
			s, err := newSession(g)
			if err != nil {
				return err
			}
			defer s.close()
			opts := size.options(cmd)
			return runImage(s, cmd.OutOrStdout(), args[0], args[3:], &flags, func(base *asset.Asset) imaging.Variant {
				return s.images.Size(base, dims[0], dims[1], opts...)
			})
		},
	}
	flags.register(cmd)
	size.register(cmd, true)

	return cmd
}

// newCropCmd creates the `img crop` command.
// Usage: blick img crop <ref> <x> <y> <width> <height>
func newCropCmd(g *globalFlags) *cobra.Command {
	var (
		flags imageFlags
		size  sizeFlags
	)

	cmd := &cobra.Command{
		Use:   "crop <ref> <x> <y> <width> <height> [args...]",
		Short: "Cut a rectangle out of an image",
		Long: `Cuts the width x height rectangle at (x, y) out of an image and prints
the variant.

Example:
  blick img crop portrait.jpg 120 40 300 300`,
		Args: cobra.MinimumNArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseInts(args[1:5])
			if err != nil {
				return err
			}
			s, err := newSession(g)
			if err != nil {
				return err
			}
			defer s.close()
			opts := size.options(cmd)
			return runImage(s, cmd.OutOrStdout(), args[0], args[5:], &flags, func(base *asset.Asset) imaging.Variant {
				return s.images.Crop(base, n[0], n[1], n[2], n[3], opts...)
			})
		},
	}
	flags.register(cmd)
	size.register(cmd, false)

	return cmd
}

// runImage is the testable core of the variation commands.
func runImage(s *session, out io.Writer, ref string, positional []string, flags *imageFlags, generate func(*asset.Asset) imaging.Variant) error {
	values, err := flags.values(positional)
	if err != nil {
		return err
	}

	base := s.asset(config.Image, ref, values)
	if err := flags.apply(base); err != nil {
		return err
	}

	v := generate(base)
	if err := s.recordVariant(v); err != nil {
		return err
	}
	if v.Err != nil {
		return fmt.Errorf("generating variant %s: %w", v.Path(), v.Err)
	}

	text, err := project(v.Asset, flags.as)
	if err != nil {
		return err
	}
	return writeLine(out, text)
}

func parseInts(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid dimension %q: must be a non-negative integer", a)
		}
		out[i] = n
	}
	return out, nil
}
