package resolver

import (
	"strings"

	"github.com/owzim/blick/internal/config"
)

// Prefixes is the directory-level breakdown of a reference.
type Prefixes struct {
	PathPrefix string // filesystem directory prefix, no trailing slash
	URLPrefix  string // URL directory prefix, no trailing slash
	FilePrefix string // relative directory carried from the reference
	Filename   string // literal base name of the reference
}

// SplitDir splits ref at its last "/". The directory is "" when ref has no
// slash and "/" when the only slash is the leading one.
func SplitDir(ref string) (dir, base string) {
	i := strings.LastIndex(ref, "/")
	if i < 0 {
		return "", ref
	}
	dir = ref[:i]
	if dir == "" {
		dir = "/"
	}
	return dir, ref[i+1:]
}

// SplitExt splits a base name at its last ".". ext is "" when there is none.
func SplitExt(filename string) (name, ext string) {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return filename, ""
	}
	return filename[:i], filename[i+1:]
}

// ResolvePrefixes computes the path, URL and file prefixes of ref for the
// given type configuration. Absolute, non-remote references are resolved
// against the site roots and carry no file prefix.
func ResolvePrefixes(ref string, conf config.TypeConfig, roots config.SiteRoots) Prefixes {
	dir, base := SplitDir(ref)

	p := Prefixes{
		PathPrefix: strings.TrimRight(conf.Path, "/"),
		URLPrefix:  strings.TrimRight(conf.URL, "/"),
		FilePrefix: dir,
		Filename:   base,
	}
	if p.FilePrefix == "." {
		p.FilePrefix = ""
	}

	if IsAbsolute(ref) && !IsRemote(ref) {
		residual := stripRoot(dir, roots)
		residual = strings.TrimLeft(residual, "/")
		p.PathPrefix = strings.TrimRight(roots.Path+residual, "/")
		p.URLPrefix = strings.TrimRight(roots.URL+residual, "/")
		p.FilePrefix = ""
	}

	return p
}

// stripRoot removes a site root that is already spelled out in dir, so that
// "/var/www/img" and "/img" resolve to the same place.
func stripRoot(dir string, roots config.SiteRoots) string {
	for _, root := range []string{roots.Path, roots.URL} {
		root = strings.TrimRight(root, "/")
		if root == "" {
			continue
		}
		if dir == root || strings.HasPrefix(dir, root+"/") {
			return dir[len(root):]
		}
	}
	return dir
}

// CoerceExt splits filename into name and extension. For every type but
// images, a missing or foreign extension is replaced by the type's canonical
// one and the whole filename becomes the name: "main" and "main.css" as
// scripts become ("main", "js") and ("main.css", "js").
func CoerceExt(filename string, t config.AssetType) (name, ext string) {
	name, ext = SplitExt(filename)
	if t != config.Image && ext != t.CanonicalExt() {
		return filename, t.CanonicalExt()
	}
	return name, ext
}
