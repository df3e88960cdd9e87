package imaging

import (
	"fmt"
	"image"
	"strconv"
	"strings"
)

// Options controls how an image variant is generated and named.
type Options struct {
	// Upscaling allows a variant larger than its source.
	Upscaling bool
	// Cropping decides how an aspect ratio change is handled.
	Cropping Cropping
	// Quality is the jpeg quality, 1 to 100.
	Quality int
	// HidpiQuality replaces Quality for hidpi variants when non-zero.
	HidpiQuality int
	// Suffix entries are sanitized, sorted and appended to the file name.
	Suffix []string
	// ForceNew regenerates the variant even if its file exists.
	ForceNew bool
	// Hidpi marks the variant with a "-hidpi" suffix and HidpiQuality.
	Hidpi bool
	// CleanFilename strips everything after the first dot of the source
	// name, so earlier resize markers do not pile up.
	CleanFilename bool
	// CropRect is a source rectangle cut before scaling.
	CropRect *image.Rectangle
}

// Option mutates Options. Options are applied in order, later ones win.
type Option func(*Options)

// DefaultOptions returns the options every variant starts from.
func DefaultOptions() Options {
	return Options{
		Upscaling:    true,
		Cropping:     Cropping{Enabled: true},
		Quality:      90,
		HidpiQuality: 40,
	}
}

// NewOptions applies opts on top of DefaultOptions.
func NewOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func WithUpscaling(on bool) Option {
	return func(o *Options) { o.Upscaling = on }
}

// WithCropping sets cropping from a specification, see ParseCropping.
func WithCropping(spec string) Option {
	return func(o *Options) { o.Cropping = ParseCropping(spec) }
}

func WithQuality(q int) Option {
	return func(o *Options) { o.Quality = q }
}

func WithHidpiQuality(q int) Option {
	return func(o *Options) { o.HidpiQuality = q }
}

// WithSuffix replaces the suffix list.
func WithSuffix(suffix ...string) Option {
	return func(o *Options) { o.Suffix = append([]string(nil), suffix...) }
}

// withExtraSuffix appends to the suffix list.
func withExtraSuffix(s string) Option {
	return func(o *Options) { o.Suffix = append(append([]string(nil), o.Suffix...), s) }
}

func WithForceNew(on bool) Option {
	return func(o *Options) { o.ForceNew = on }
}

func WithHidpi(on bool) Option {
	return func(o *Options) { o.Hidpi = on }
}

func WithCleanFilename(on bool) Option {
	return func(o *Options) { o.CleanFilename = on }
}

// WithCropRect cuts the w x h rectangle at (x, y) from the source before
// scaling.
func WithCropRect(x, y, w, h int) Option {
	return func(o *Options) {
		r := image.Rect(x, y, x+w, y+h)
		o.CropRect = &r
	}
}

// ParseOptions converts a loosely typed options value, as found in
// configuration files, into options:
//
//	string    cropping specification
//	integer   quality
//	bool      upscaling
//	map       named fields (upscaling, cropping, quality, hidpiQuality,
//	          suffix, forceNew, hidpi, cleanFilename)
//
// Any other value, and any unknown map key, yields no options.
func ParseOptions(v any) []Option {
	switch val := v.(type) {
	case nil:
		return nil
	case Options:
		return []Option{func(o *Options) { *o = val }}
	case []Option:
		return val
	case string:
		return []Option{WithCropping(val)}
	case bool:
		return []Option{WithUpscaling(val)}
	case map[string]any:
		return parseOptionMap(val)
	case map[string]string:
		m := make(map[string]any, len(val))
		for k, s := range val {
			m[k] = s
		}
		return parseOptionMap(m)
	}
	if n, ok := toInt(v); ok {
		return []Option{WithQuality(n)}
	}
	return nil
}

func parseOptionMap(m map[string]any) []Option {
	var opts []Option
	// Fixed key order so a map yields the same option sequence every time.
	for _, key := range []string{"upscaling", "cropping", "quality", "hidpiQuality", "suffix", "forceNew", "hidpi", "cleanFilename"} {
		v, ok := m[key]
		if !ok {
			continue
		}
		switch key {
		case "upscaling":
			if b, ok := toBool(v); ok {
				opts = append(opts, WithUpscaling(b))
			}
		case "cropping":
			if spec, ok := croppingSpec(v); ok {
				opts = append(opts, WithCropping(spec))
			}
		case "quality":
			if n, ok := toInt(v); ok {
				opts = append(opts, WithQuality(n))
			}
		case "hidpiQuality":
			if n, ok := toInt(v); ok {
				opts = append(opts, WithHidpiQuality(n))
			}
		case "suffix":
			opts = append(opts, WithSuffix(toStrings(v)...))
		case "forceNew":
			if b, ok := toBool(v); ok {
				opts = append(opts, WithForceNew(b))
			}
		case "hidpi":
			if b, ok := toBool(v); ok {
				opts = append(opts, WithHidpi(b))
			}
		case "cleanFilename":
			if b, ok := toBool(v); ok {
				opts = append(opts, WithCleanFilename(b))
			}
		}
	}
	return opts
}

// croppingSpec turns a cropping value of a map into a specification string.
// Two element lists are a crop point.
func croppingSpec(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case bool:
		return strconv.FormatBool(val), true
	case []any, []string:
		parts := toStrings(val)
		if len(parts) == 2 {
			return parts[0] + "," + parts[1], true
		}
	}
	return "", false
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case float32:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	}
	return 0, false
}

func toBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		p, err := strconv.ParseBool(strings.TrimSpace(b))
		return p, err == nil
	}
	if n, ok := toInt(v); ok {
		return n != 0, true
	}
	return false, false
}

func toStrings(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return []string{val}
	case []string:
		return append([]string(nil), val...)
	case []any:
		out := make([]string, 0, len(val))
		for _, e := range val {
			out = append(out, fmt.Sprint(e))
		}
		return out
	}
	return []string{fmt.Sprint(v)}
}
