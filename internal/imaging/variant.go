// Package imaging derives resized variants of image assets.
//
// A Resolver computes the deterministic variant file name
// "{name}.{width}x{height}{crop}{-suffix...}{-hidpi}.{ext}", generates the file
// through a Resizer when it does not exist yet and returns the variant as a
// new asset in the configured variation subdirectory. Failures never panic or
// abort: they are recorded on the returned Variant, and the variant path is
// overwritten with a short text file so a broken image is obvious.
//
// Two concurrent requests for the same variant both generate it; callers that
// resize in parallel must serialize requests per output file.
package imaging

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/owzim/blick/internal/asset"
	"github.com/owzim/blick/internal/metrics"
	"github.com/owzim/blick/internal/storage"
)

// InvalidImageData prefixes the contents written in place of a variant that
// could not be generated.
const InvalidImageData = "This is intentionally invalid image data.\n"

// Variant is the outcome of a resize request. Err must be checked before the
// variant path or url is trusted.
type Variant struct {
	*asset.Asset

	Width  int
	Height int
	// Source is the path of the image the variant was derived from.
	Source string
	// Generated is set when the variant file was written by this call.
	Generated bool
	Err       error
}

// Config holds the optional collaborators of a Resolver.
type Config struct {
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	// SizerOptions are applied on top of DefaultOptions for every variant,
	// in any form ParseOptions accepts.
	SizerOptions any
}

// Resolver generates image variants.
type Resolver struct {
	fs       storage.FileSystem
	resizer  Resizer
	logger   *zap.Logger
	metrics  *metrics.Metrics
	defaults []Option
}

// NewResolver creates a Resolver writing through fsys. A nil resizer uses a
// DrawResizer on the same filesystem.
func NewResolver(fsys storage.FileSystem, resizer Resizer, cfg Config) *Resolver {
	if resizer == nil {
		resizer = NewDrawResizer(fsys)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		fs:       fsys,
		resizer:  resizer,
		logger:   logger,
		metrics:  cfg.Metrics,
		defaults: ParseOptions(cfg.SizerOptions),
	}
}

// Width returns a variant width pixels wide with proportional height.
func (r *Resolver) Width(base *asset.Asset, width int, opts ...Option) Variant {
	return r.Size(base, width, 0, opts...)
}

// Height returns a variant height pixels high with proportional width.
func (r *Resolver) Height(base *asset.Asset, height int, opts ...Option) Variant {
	return r.Size(base, 0, height, opts...)
}

// Crop returns the width x height rectangle at (x, y) of base. The variant
// name drops earlier resize markers and carries a "cropx{x}y{y}" suffix.
func (r *Resolver) Crop(base *asset.Asset, x, y, width, height int, opts ...Option) Variant {
	opts = append(opts,
		withExtraSuffix("cropx"+strconv.Itoa(x)+"y"+strconv.Itoa(y)),
		WithCropRect(x, y, width, height),
		WithCleanFilename(true),
	)
	return r.Size(base, width, height, opts...)
}

// Variant returns the named variation of the image type configuration,
// scaled to scale percent. Variations with only a width or only a height
// resize proportionally. An unknown name, or a variation without any
// dimension, yields base itself.
func (r *Resolver) Variant(base *asset.Asset, name string, scale int) Variant {
	spec, ok := base.Config().Variation(name)
	if !ok || (spec.Width == 0 && spec.Height == 0) {
		return Variant{Asset: base, Source: base.Path()}
	}

	w := spec.Width * scale / 100
	h := spec.Height * scale / 100
	opts := ParseOptions(spec.Options)

	switch {
	case spec.Width != 0 && spec.Height != 0:
		return r.Size(base, w, h, opts...)
	case spec.Width != 0:
		return r.Width(base, w, opts...)
	default:
		return r.Height(base, h, opts...)
	}
}

// Size returns a width x height variant of base. Options apply after the
// defaults and the configured sizer options. SVG images are returned
// unchanged.
func (r *Resolver) Size(base *asset.Asset, width, height int, opts ...Option) Variant {
	if strings.EqualFold(base.Ext(), "svg") {
		return Variant{Asset: base, Source: base.Path()}
	}
	if base.IsRemote() {
		return Variant{Asset: base, Err: fmt.Errorf("%w: %s", ErrRemoteSource, base.FullReference())}
	}

	o := NewOptions(append(append([]Option(nil), r.defaults...), opts...)...)
	if origin := o.Cropping.origin; origin != nil {
		WithCropRect(origin.X, origin.Y, width, height)(&o)
		o.Cropping = Cropping{Enabled: true}
	}

	suffix := suffixString(o.Suffix)
	if o.Hidpi {
		suffix += "-hidpi"
		if o.HidpiQuality != 0 {
			o.Quality = o.HidpiQuality
		}
	}

	name := base.Name()
	if o.CleanFilename {
		if i := strings.Index(name, "."); i >= 0 {
			name = name[:i]
		}
	}
	basename := name + "." + strconv.Itoa(width) + "x" + strconv.Itoa(height) +
		o.Cropping.Descriptor() + suffix + "." + base.Ext()

	subDir := joinSubDir(base.VariationSubDir(), base.Config().VariationSubDir)
	dir := base.Dir()
	outDir := dir
	if base.Config().VariationSubDir != "" {
		outDir = dir + "/" + base.Config().VariationSubDir
	}
	final := outDir + "/" + basename
	tmpDir := dir + "/tmp_" + strings.ReplaceAll(basename, ".", "_")

	v := Variant{Width: width, Height: height, Source: base.Path()}
	v.Generated, v.Err = r.generate(base.Path(), outDir, tmpDir, final, basename, width, height, o)

	if v.Err != nil {
		r.fail(final, v.Err)
	} else if v.Generated {
		r.metrics.VariantGenerated()
		r.logger.Debug("generated image variant",
			zap.String("source", base.Path()),
			zap.String("variant", final),
		)
	}
	if err := r.fs.RemoveAll(tmpDir); err != nil {
		r.logger.Warn("removing temporary directory", zap.String("dir", tmpDir), zap.Error(err))
	}

	v.Asset = base.Derive(basename, subDir)
	return v
}

// generate resizes src into tmpDir and moves the result to final. It does
// nothing when final exists and ForceNew is not set.
func (r *Resolver) generate(src, outDir, tmpDir, final, basename string, width, height int, o Options) (bool, error) {
	if err := r.fs.MkdirAll(outDir); err != nil {
		return false, fmt.Errorf("creating variation directory: %w", err)
	}
	if err := r.fs.MkdirAll(tmpDir); err != nil {
		return false, fmt.Errorf("creating temporary directory: %w", err)
	}

	exists, _ := r.fs.Stat(final)
	if exists && !o.ForceNew {
		return false, nil
	}
	if exists {
		if err := r.fs.RemoveAll(final); err != nil {
			return false, fmt.Errorf("removing existing variant: %w", err)
		}
	}

	if ok, _ := r.fs.Stat(src); !ok {
		return false, fmt.Errorf("unable to read source image %s", src)
	}

	tmpFile := tmpDir + "/" + basename
	if err := r.resizer.Resize(src, tmpFile, width, height, o); err != nil {
		return false, fmt.Errorf("resize(%d, %d) failed for %s: %w", width, height, tmpFile, err)
	}
	if err := r.fs.Rename(tmpFile, final); err != nil {
		return false, fmt.Errorf("moving variant into place: %w", err)
	}
	return true, nil
}

// fail replaces the variant file with a readable error marker.
func (r *Resolver) fail(final string, cause error) {
	r.metrics.VariantFailed()
	r.logger.Warn("image variant failed", zap.String("variant", final), zap.Error(cause))

	if err := r.fs.RemoveAll(final); err != nil {
		r.logger.Warn("removing failed variant", zap.String("variant", final), zap.Error(err))
	}
	if err := r.fs.WriteFile(final, []byte(InvalidImageData+cause.Error())); err != nil {
		r.logger.Warn("writing invalid image marker", zap.String("variant", final), zap.Error(err))
	}
}

var suffixInvalid = regexp.MustCompile(`[^a-z0-9_]+`)

// suffixString sorts the raw suffixes, sanitizes them and joins the
// non-empty ones, each prefixed with "-".
func suffixString(suffix []string) string {
	sorted := append([]string(nil), suffix...)
	sort.Strings(sorted)

	var b strings.Builder
	for _, s := range sorted {
		s = suffixInvalid.ReplaceAllString(strings.ToLower(s), "_")
		s = strings.Trim(s, "_")
		if s == "" {
			continue
		}
		b.WriteString("-")
		b.WriteString(s)
	}
	return b.String()
}

func joinSubDir(parent, sub string) string {
	switch {
	case parent == "":
		return sub
	case sub == "":
		return parent
	}
	return parent + "/" + sub
}
