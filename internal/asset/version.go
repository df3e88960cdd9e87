package asset

import (
	"strconv"

	"github.com/owzim/blick/internal/config"
	"github.com/owzim/blick/internal/storage"
	"github.com/owzim/blick/internal/strfmt"
)

// Filename is the file name used in path and URL. With minification enabled
// it is the formatted minified name if that file exists next to the asset,
// otherwise "{name}.{ext}".
func (a *Asset) Filename() string {
	return a.cached("filename", func() string {
		plain := a.name + "." + a.ext
		if a.isRemote || !a.conf.Min || a.fs == nil {
			return plain
		}

		minified := strfmt.Format(a.conf.MinFormat, strfmt.Named(
			"file", a.name,
			"ext", a.ext,
		))
		if exists, _ := a.fs.Stat(a.Dir() + "/" + minified); exists {
			return minified
		}
		return plain
	})
}

// Version is the cache-busting token of the asset file: its modification
// time in unix seconds, or a content hash when the type is configured with
// versionBy = "hash". It is "" for remote references and missing files.
func (a *Asset) Version() string {
	if a.isRemote || a.fs == nil {
		return ""
	}
	return a.cached("version", func() string {
		exists, mtime := a.fs.Stat(a.Path())
		if !exists {
			return ""
		}
		if a.conf.VersionBy == config.VersionByHash {
			data, err := a.fs.ReadFile(a.Path())
			if err != nil {
				return ""
			}
			return storage.Checksum(data)
		}
		return strconv.FormatInt(mtime, 10)
	})
}

// Param is the version token formatted with the type's versioning format, as
// appended to the URL. It is "" when versioning is off or there is no token.
func (a *Asset) Param() string {
	if !a.conf.Versioning {
		return ""
	}
	return a.cached("param", func() string {
		v := a.Version()
		if v == "" {
			return ""
		}
		return strfmt.Format(a.conf.VersioningFormat, strfmt.Named("version", v))
	})
}
