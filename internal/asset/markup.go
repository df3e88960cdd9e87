package asset

import (
	"fmt"
	"strings"

	"github.com/owzim/blick/internal/config"
	"github.com/owzim/blick/internal/strfmt"
)

// tokens are the values of the first substitution pass.
func (a *Asset) tokens() strfmt.Values {
	return strfmt.Named(
		"url", a.URL(),
		"path", a.Path(),
		"param", a.Param(),
		"version", a.Version(),
		"attrs", a.Attrs(`"`),
	)
}

// Markup renders the type's markup template. The first pass substitutes
// {url}, {path}, {param}, {version} and {attrs}; the second pass substitutes
// the template args on the result. Text produced by the first pass that
// looks like an arg placeholder, such as a file literally named "{0}.js", is
// substituted by the second pass too.
func (a *Asset) Markup() string {
	return a.cached("markup", func() string {
		markup := strfmt.Format(a.conf.Markup, a.tokens())
		markup = strfmt.Format(markup, a.args)
		return a.terminate(markup)
	})
}

// Content returns the file contents wrapped in the content wrapper
// configured for the asset's extension (or the shared wrapper). Without a
// wrapper the raw contents are returned. Wrapper tokens are those of Markup
// plus {content}; the contents are inserted last so that they are never
// subject to substitution.
func (a *Asset) Content() (string, error) {
	if a.isRemote {
		return "", fmt.Errorf("%w: %s", ErrRemoteContent, a.ref)
	}
	if a.fs == nil {
		return "", fmt.Errorf("%w: no filesystem", ErrContentUnavailable)
	}

	data, err := a.fs.ReadFile(a.Path())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrContentUnavailable, err)
	}

	wrapper, ok := a.conf.Wrapper(a.ext)
	if !ok {
		return string(data), nil
	}

	out := strfmt.Format(wrapper, a.tokens())
	out = strfmt.Format(out, a.args)
	out = strings.ReplaceAll(out, "{content}", string(data))
	return a.terminate(out), nil
}

func (a *Asset) terminate(s string) string {
	if a.conf.AppendNewline {
		return s + "\n"
	}
	return s
}

// Project returns the named projection of the asset. Unknown names and a
// failing content projection fall back to the markup.
func (a *Asset) Project(name string) string {
	switch name {
	case config.ProjectionURL:
		return a.URL()
	case config.ProjectionPath:
		return a.Path()
	case config.ProjectionDir:
		return a.Dir()
	case config.ProjectionFilename:
		return a.Filename()
	case config.ProjectionVersion:
		return a.Version()
	case config.ProjectionParam:
		return a.Param()
	case config.ProjectionContent:
		if c, err := a.Content(); err == nil {
			return c
		}
	}
	return a.Markup()
}

// String returns the projection named by the type's default setting.
func (a *Asset) String() string {
	return a.Project(a.conf.Default)
}
