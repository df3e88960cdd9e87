package config

import (
	"fmt"
	"strings"
)

// AssetType represents the kind of asset a reference names.
type AssetType string

const (
	Script AssetType = "js"
	Style  AssetType = "css"
	Image  AssetType = "img"
)

// ValidAssetTypes returns all supported asset types.
func ValidAssetTypes() []AssetType {
	return []AssetType{Script, Style, Image}
}

// IsValid checks whether the asset type is one of the known types.
func (t AssetType) IsValid() bool {
	switch t {
	case Script, Style, Image:
		return true
	}
	return false
}

// CanonicalExt returns the extension every reference of this type is coerced
// to. Images keep their literal extension, so they return an empty string.
func (t AssetType) CanonicalExt() string {
	switch t {
	case Script:
		return "js"
	case Style:
		return "css"
	}
	return ""
}

// ParseAssetType accepts the short type names as well as "script", "style"
// and "image".
func ParseAssetType(s string) (AssetType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "js", "script", "scripts":
		return Script, nil
	case "css", "style", "styles":
		return Style, nil
	case "img", "image", "images":
		return Image, nil
	}
	return "", fmt.Errorf("invalid asset type %q: must be one of js, css, img", s)
}

// Projections understood by TypeConfig.Default.
const (
	ProjectionMarkup   = "markup"
	ProjectionURL      = "url"
	ProjectionPath     = "path"
	ProjectionDir      = "dir"
	ProjectionFilename = "filename"
	ProjectionVersion  = "version"
	ProjectionParam    = "param"
	ProjectionContent  = "content"
)

// Version token sources.
const (
	VersionByMtime = "mtime"
	VersionByHash  = "hash"
)

// SiteRoots are the filesystem and URL roots absolute references resolve against.
type SiteRoots struct {
	Path string `toml:"path" yaml:"path"`
	URL  string `toml:"url" yaml:"url"`
}

// VariationSpec declares a named image variant. A zero Width or Height means
// the dimension is not set.
type VariationSpec struct {
	Width   int `toml:"width" yaml:"width"`
	Height  int `toml:"height" yaml:"height"`
	Options any `toml:"options,omitempty" yaml:"options,omitempty"`
}

// TypeConfig is the resolved, read-only configuration of one asset type.
type TypeConfig struct {
	Path             string                   `toml:"path" yaml:"path"`
	URL              string                   `toml:"url" yaml:"url"`
	Markup           string                   `toml:"markup" yaml:"markup"`
	Default          string                   `toml:"default" yaml:"default"`
	Versioning       bool                     `toml:"versioning" yaml:"versioning"`
	VersioningFormat string                   `toml:"versioningFormat" yaml:"versioningFormat"`
	VersionBy        string                   `toml:"versionBy" yaml:"versionBy"`
	Min              bool                     `toml:"min" yaml:"min"`
	MinFormat        string                   `toml:"minFormat" yaml:"minFormat"`
	VariationSubDir  string                   `toml:"variationSubDir" yaml:"variationSubDir"`
	Variations       map[string]VariationSpec `toml:"variations" yaml:"variations"`
	ContentWrapper   map[string]string        `toml:"contentWrapper" yaml:"contentWrapper"`

	// AppendNewline is copied from Config by Config.For.
	AppendNewline bool `toml:"-" yaml:"-"`
}

// Variation returns the named variation spec.
func (c TypeConfig) Variation(name string) (VariationSpec, bool) {
	v, ok := c.Variations[name]
	return v, ok
}

// Wrapper returns the content wrapper template for ext, falling back to the
// "shared" entry.
func (c TypeConfig) Wrapper(ext string) (string, bool) {
	if w, ok := c.ContentWrapper[ext]; ok {
		return w, true
	}
	w, ok := c.ContentWrapper["shared"]
	return w, ok
}

// Config is the full configuration file.
type Config struct {
	Root              SiteRoots         `toml:"root" yaml:"root"`
	Script            TypeConfig        `toml:"js" yaml:"js"`
	Style             TypeConfig        `toml:"css" yaml:"css"`
	Image             TypeConfig        `toml:"img" yaml:"img"`
	AppendNewline     *bool             `toml:"appendNewline" yaml:"appendNewline"`
	ContentWrapper    map[string]string `toml:"contentWrapper" yaml:"contentWrapper"`
	ImageSizerOptions map[string]any    `toml:"imageSizerOptions" yaml:"imageSizerOptions"`
}

// For returns the configuration of the given type with the shared settings
// folded in. Type-level content wrappers override shared ones.
func (c *Config) For(t AssetType) TypeConfig {
	var tc TypeConfig
	switch t {
	case Script:
		tc = c.Script
	case Style:
		tc = c.Style
	case Image:
		tc = c.Image
	}

	tc.AppendNewline = c.AppendNewline == nil || *c.AppendNewline

	wrappers := make(map[string]string, len(c.ContentWrapper)+len(tc.ContentWrapper))
	for k, v := range c.ContentWrapper {
		wrappers[k] = v
	}
	for k, v := range tc.ContentWrapper {
		wrappers[k] = v
	}
	tc.ContentWrapper = wrappers

	return tc
}
