// Package asset resolves logical asset references into cache-busted URLs and
// paths and renders them into markup.
//
// An Asset is built once per (reference, type, template args) by a Factory.
// Everything derivable from the reference string alone is computed at
// construction; properties that touch the filesystem (filename, version,
// url, markup) are computed on first access and memoized for the lifetime of
// the Asset, so repeated reads never stat a file twice.
package asset

import (
	"sync"

	"github.com/owzim/blick/internal/attrs"
	"github.com/owzim/blick/internal/config"
	"github.com/owzim/blick/internal/resolver"
	"github.com/owzim/blick/internal/storage"
	"github.com/owzim/blick/internal/strfmt"
)

// Asset is a resolved asset reference.
type Asset struct {
	ref  string
	typ  config.AssetType
	conf config.TypeConfig
	args strfmt.Values
	fs   storage.FileSystem

	isRemote   bool
	isAbsolute bool
	pathPrefix string
	urlPrefix  string
	filePrefix string
	name       string
	ext        string
	subDir     string

	mu    sync.Mutex
	memo  map[string]string
	attrs attrs.Store
}

// New resolves ref as an asset of type t. roots are the site roots absolute
// references resolve against, args the values of the second markup pass.
func New(ref string, t config.AssetType, conf config.TypeConfig, roots config.SiteRoots, args strfmt.Values, fsys storage.FileSystem) *Asset {
	p := resolver.ResolvePrefixes(ref, conf, roots)
	a := &Asset{
		ref:        ref,
		typ:        t,
		conf:       conf,
		args:       append(strfmt.Values(nil), args...),
		fs:         fsys,
		pathPrefix: p.PathPrefix,
		urlPrefix:  p.URLPrefix,
		filePrefix: p.FilePrefix,
		memo:       make(map[string]string),
	}
	a.isRemote, a.isAbsolute = resolver.Classify(ref)
	a.name, a.ext = resolver.CoerceExt(p.Filename, t)
	return a
}

// Derive returns a new, independent Asset sharing a's reference, type,
// configuration, args and attributes, but naming filename inside the
// variation subdirectory subDir. It is how image variants are produced.
func (a *Asset) Derive(filename, subDir string) *Asset {
	a.mu.Lock()
	defer a.mu.Unlock()
	d := &Asset{
		ref:        a.ref,
		typ:        a.typ,
		conf:       a.conf,
		args:       a.args,
		fs:         a.fs,
		isRemote:   a.isRemote,
		isAbsolute: a.isAbsolute,
		pathPrefix: a.pathPrefix,
		urlPrefix:  a.urlPrefix,
		filePrefix: a.filePrefix,
		subDir:     subDir,
		memo:       make(map[string]string),
		attrs:      a.attrs.Clone(),
	}
	d.name, d.ext = resolver.CoerceExt(filename, a.typ)
	return d
}

// Accessors for the resolved parts of the reference. FullReference is the
// reference as given; Name and Ext are the file name split at the coerced
// extension; VariationSubDir is set on derived image variants.
func (a *Asset) FullReference() string { return a.ref }
func (a *Asset) Type() config.AssetType { return a.typ }
func (a *Asset) Config() config.TypeConfig { return a.conf }
func (a *Asset) Args() strfmt.Values { return append(strfmt.Values(nil), a.args...) }
func (a *Asset) IsRemote() bool { return a.isRemote }
func (a *Asset) IsAbsolute() bool { return a.isAbsolute }
func (a *Asset) PathPrefix() string { return a.pathPrefix }
func (a *Asset) URLPrefix() string { return a.urlPrefix }
func (a *Asset) FilePrefix() string { return a.filePrefix }
func (a *Asset) Name() string { return a.name }
func (a *Asset) Ext() string { return a.ext }
func (a *Asset) VariationSubDir() string { return a.subDir }
func (a *Asset) FileSystem() storage.FileSystem { return a.fs }

// Dir is the filesystem directory holding the asset.
func (a *Asset) Dir() string {
	return a.cached("dir", func() string {
		d := a.pathPrefix
		if a.filePrefix != "" {
			d += "/" + a.filePrefix
		}
		if a.subDir != "" {
			d += "/" + a.subDir
		}
		return resolver.Normalize(d)
	})
}

// Path is the filesystem path of the asset, or "" for remote references.
func (a *Asset) Path() string {
	if a.isRemote {
		return ""
	}
	return a.cached("path", func() string {
		return resolver.Normalize(a.pathPrefix + "/" + a.relative())
	})
}

// URL is the public URL of the asset including its version token. Remote
// references are returned as given, normalized.
func (a *Asset) URL() string {
	return a.cached("url", func() string {
		if a.isRemote {
			return resolver.Normalize(a.ref)
		}
		return resolver.Normalize(a.urlPrefix + "/" + a.relative() + a.Param())
	})
}

// relative joins file prefix, variation subdirectory and filename.
func (a *Asset) relative() string {
	rel := ""
	if a.filePrefix != "" {
		rel += a.filePrefix + "/"
	}
	if a.subDir != "" {
		rel += a.subDir + "/"
	}
	return rel + a.Filename()
}

// Attr returns the rendering attribute stored for key.
func (a *Asset) Attr(key string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.attrs.Get(key)
}

// SetAttr sets a rendering attribute. key may hold "|" separated aliases.
// It returns a so calls can be chained.
func (a *Asset) SetAttr(key, value string) *Asset {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.attrs.Set(key, value)
	delete(a.memo, "markup")
	return a
}

// SetAttrs applies SetAttr for every entry of values, in order.
func (a *Asset) SetAttrs(values strfmt.Values) *Asset {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.attrs.SetAll(values)
	delete(a.memo, "markup")
	return a
}

// Attrs serializes the rendering attributes with the given quote character.
func (a *Asset) Attrs(quote string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.attrs.Serialize(quote)
}

// cached returns the memoized value for key, computing it with fn on first
// use. fn runs without the lock held so it may read other cached values;
// two racing first reads both compute and the last write wins.
func (a *Asset) cached(key string, fn func() string) string {
	a.mu.Lock()
	v, ok := a.memo[key]
	a.mu.Unlock()
	if ok {
		return v
	}

	v = fn()

	a.mu.Lock()
	a.memo[key] = v
	a.mu.Unlock()
	return v
}
