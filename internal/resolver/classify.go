package resolver

import (
	"regexp"
	"strings"
)

// remotePattern matches protocol-relative and explicit http(s) references.
var remotePattern = regexp.MustCompile(`^(https?:)?//`)

// Classify reports whether ref is remote and whether it is absolute. The two
// are checked independently: "//cdn/x.js" is both. Callers give remote
// precedence and do not consult isAbsolute for remote references.
func Classify(ref string) (isRemote, isAbsolute bool) {
	return IsRemote(ref), IsAbsolute(ref)
}

// IsRemote reports whether ref names a resource on another host.
func IsRemote(ref string) bool {
	return remotePattern.MatchString(ref)
}

// IsAbsolute reports whether ref is rooted at the site root.
func IsAbsolute(ref string) bool {
	return strings.HasPrefix(ref, "/")
}
