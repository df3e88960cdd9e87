package config

import "strings"

const (
	DefaultVersioningFormat = "?v={version}"
	DefaultMinFormat        = "{file}.min.{ext}"

	defaultTemplatesDir = "site/templates/"
)

var defaultMarkup = map[AssetType]string{
	Script: `<script src="{url}" type="text/javascript" charset="utf-8"></script>`,
	Style:  `<link href="{url}" rel="stylesheet" type="text/css">`,
	Image:  `<img src="{url}" alt="{0}">`,
}

var defaultDirs = map[AssetType]string{
	Script: "scripts",
	Style:  "styles",
	Image:  "img",
}

// Default returns the configuration used when no file is present.
func Default(roots SiteRoots) *Config {
	c := &Config{Root: roots}
	c.applyDefaults()
	return c
}

// applyDefaults fills every unset field. Site roots get a trailing slash so
// they can be concatenated with a relative directory.
func (c *Config) applyDefaults() {
	if c.Root.Path == "" {
		c.Root.Path = "/"
	}
	if c.Root.URL == "" {
		c.Root.URL = "/"
	}
	c.Root.Path = withSlash(c.Root.Path)
	c.Root.URL = withSlash(c.Root.URL)

	for _, t := range ValidAssetTypes() {
		tc := c.typeConfig(t)
		if tc.Path == "" {
			tc.Path = c.Root.Path + defaultTemplatesDir + defaultDirs[t]
		}
		if tc.URL == "" {
			tc.URL = c.Root.URL + defaultTemplatesDir + defaultDirs[t]
		}
		if tc.Markup == "" {
			tc.Markup = defaultMarkup[t]
		}
		if tc.Default == "" {
			tc.Default = ProjectionMarkup
		}
		if tc.VersionBy == "" {
			tc.VersionBy = VersionByMtime
		}
		if t != Image {
			if tc.VersioningFormat == "" {
				tc.VersioningFormat = DefaultVersioningFormat
			}
			if tc.MinFormat == "" {
				tc.MinFormat = DefaultMinFormat
			}
		}
	}
}

func (c *Config) typeConfig(t AssetType) *TypeConfig {
	switch t {
	case Script:
		return &c.Script
	case Style:
		return &c.Style
	default:
		return &c.Image
	}
}

func withSlash(s string) string {
	return strings.TrimRight(s, "/") + "/"
}
